package api

import (
	"net/http"
	"testing"

	"github.com/ayusman/signscribe/internal/landmark"
	"github.com/ayusman/signscribe/internal/session"
)

func TestSessionHandler_Lifecycle(t *testing.T) {
	s := newTestSession(t, nil)
	handler := NewSessionHandler(s)

	var status session.Status
	rec := do(t, handler, http.MethodGet, "/api/session", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want %d", rec.Code, http.StatusOK)
	}
	decode(t, rec, &status)
	if status.Running {
		t.Error("new session should not be running")
	}

	rec = do(t, handler, http.MethodPost, "/api/session/start", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, want %d", rec.Code, http.StatusOK)
	}
	decode(t, rec, &status)
	if !status.Running || status.SessionID == "" {
		t.Errorf("after start: running=%v id=%q", status.Running, status.SessionID)
	}

	if _, err := s.HandleFrame([]landmark.HandLandmarks{landmark.HelloLandmarks()}, s.Now()); err != nil {
		t.Fatalf("HandleFrame() error = %v", err)
	}

	rec = do(t, handler, http.MethodPost, "/api/session/reset", nil)
	decode(t, rec, &status)
	if !status.Running {
		t.Error("reset must not stop the session")
	}
	if status.Frames != 0 || status.Debounce.ConsecutiveCount != 0 {
		t.Errorf("reset left state behind: %+v", status)
	}

	rec = do(t, handler, http.MethodPost, "/api/session/stop", nil)
	decode(t, rec, &status)
	if status.Running {
		t.Error("session should be stopped")
	}
}

func TestSessionHandler_Errors(t *testing.T) {
	handler := NewSessionHandler(newTestSession(t, nil))

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"unknown action", http.MethodPost, "/api/session/pause", http.StatusNotFound},
		{"get on action", http.MethodGet, "/api/session/start", http.StatusMethodNotAllowed},
		{"post on status", http.MethodPost, "/api/session", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, handler, tt.method, tt.path, nil)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestTranscriptHandler(t *testing.T) {
	s := newTestSession(t, nil)
	handler := NewTranscriptHandler(s)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	frames := NewFramesHandler(s)
	for _, ms := range []int64{0, 500, 1100} {
		do(t, frames, http.MethodPost, "/api/frames", frame(landmark.ThankYouLandmarks(), ms))
	}

	rec := do(t, handler, http.MethodGet, "/api/transcript", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != "Thank You" {
		t.Errorf("transcript = %q, want %q", rec.Body.String(), "Thank You")
	}

	rec = do(t, handler, http.MethodDelete, "/api/transcript", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
