package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/signscribe/internal/landmark"
	"github.com/ayusman/signscribe/internal/session"
	"github.com/ayusman/signscribe/internal/sign"
	"github.com/ayusman/signscribe/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// newTestSession creates a stopped session, optionally backed by st.
func newTestSession(t *testing.T, st *store.Store) *session.Session {
	t.Helper()

	classifier, err := sign.NewClassifier(sign.DefaultThresholds())
	if err != nil {
		t.Fatalf("failed to create classifier: %v", err)
	}
	s, err := session.New(session.Config{
		Classifier: classifier,
		Debounce:   sign.DefaultDebounceConfig(),
		Store:      st,
	})
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return s
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// frame builds a /api/frames body holding one hand at ms milliseconds past t0.
func frame(hand landmark.HandLandmarks, ms int64) map[string]any {
	ts := t0.UnixMilli() + ms
	return map[string]any{
		"hands":        []landmark.HandLandmarks{hand},
		"timestamp_ms": ts,
	}
}

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
