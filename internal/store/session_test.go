package store

import (
	"errors"
	"testing"
	"time"

	"github.com/ayusman/signscribe/internal/sign"
)

var epoch = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

func TestSessionRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess := &Session{StartedAt: epoch}
	if err := repo.Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if sess.ID == "" {
		t.Fatal("Create() should assign an ID")
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.StartedAt.Equal(epoch) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, epoch)
	}
	if got.EndedAt != nil {
		t.Errorf("EndedAt = %v, want nil for an open session", got.EndedAt)
	}
	if got.CommitCount != 0 {
		t.Errorf("CommitCount = %d, want 0", got.CommitCount)
	}
}

func TestSessionRepository_End(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	sess := &Session{StartedAt: epoch}
	if err := repo.Create(sess); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	end := epoch.Add(90 * time.Second)
	if err := repo.End(sess.ID, end); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	got, err := repo.GetByID(sess.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(end) {
		t.Errorf("EndedAt = %v, want %v", got.EndedAt, end)
	}

	if err := repo.End("missing", end); !errors.Is(err, ErrNotFound) {
		t.Errorf("End(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Sessions().GetByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_List(t *testing.T) {
	s := newTestStore(t)
	repo := s.Sessions()

	var ids []string
	for i := 0; i < 3; i++ {
		sess := &Session{StartedAt: epoch.Add(time.Duration(i) * time.Minute)}
		if err := repo.Create(sess); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, sess.ID)
	}
	if err := s.Commits().Append(ids[1], 1, sign.Hello, epoch.Add(70*time.Second)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	all, err := repo.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() returned %d sessions, want 3", len(all))
	}
	if all[0].ID != ids[2] || all[2].ID != ids[0] {
		t.Error("List() should return newest sessions first")
	}
	if all[1].CommitCount != 1 {
		t.Errorf("CommitCount = %d, want 1", all[1].CommitCount)
	}

	limited, err := repo.List(2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d sessions", len(limited))
	}
}

func TestSessionRepository_ListEmpty(t *testing.T) {
	s := newTestStore(t)

	list, err := s.Sessions().List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("List() = %v, want empty non-nil slice", list)
	}
}
