package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ayusman/signscribe/internal/sign"
)

// Commit is one persisted transcript entry.
type Commit struct {
	SessionID string     `json:"session_id"`
	Seq       int        `json:"seq"`
	Gesture   sign.Label `json:"gesture"`
	At        time.Time  `json:"at"`
}

// CommitRepository stores committed gestures.
type CommitRepository struct {
	db *sql.DB
}

// Commits returns the commit repository for this store.
func (s *Store) Commits() *CommitRepository {
	return &CommitRepository{db: s.db}
}

// Append adds a committed gesture to a session.
func (r *CommitRepository) Append(sessionID string, seq int, gesture sign.Label, at time.Time) error {
	if !gesture.Valid() || gesture == sign.None {
		return fmt.Errorf("cannot persist gesture %v", gesture)
	}

	_, err := r.db.Exec(
		`INSERT INTO commits (session_id, seq, gesture, committed_at) VALUES (?, ?, ?, ?)`,
		sessionID, seq, gesture.String(), at.UTC(),
	)
	return err
}

// ListBySession returns a session's commits in transcript order.
func (r *CommitRepository) ListBySession(sessionID string) ([]Commit, error) {
	rows, err := r.db.Query(
		`SELECT session_id, seq, gesture, committed_at
		 FROM commits WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	commits := []Commit{}
	for rows.Next() {
		var c Commit
		var code string
		if err := rows.Scan(&c.SessionID, &c.Seq, &code, &c.At); err != nil {
			return nil, err
		}
		if c.Gesture, err = sign.ParseLabel(code); err != nil {
			return nil, fmt.Errorf("commit %s/%d: %w", sessionID, c.Seq, err)
		}
		commits = append(commits, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return commits, nil
}

// Transcript renders a commit list the same way a live transcript is rendered.
func Transcript(commits []Commit) string {
	t := sign.NewTranscript()
	for _, c := range commits {
		t.Append(c.Gesture, c.At)
	}
	return t.String()
}
