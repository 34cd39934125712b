package api

import (
	"net/http"
	"strings"

	"github.com/ayusman/signscribe/internal/session"
)

// SessionHandler exposes the session control surface.
//
//	GET  /api/session         status snapshot
//	POST /api/session/start   begin a transcript
//	POST /api/session/stop    end it
//	POST /api/session/reset   clear it without stopping
type SessionHandler struct {
	session *session.Session
}

// NewSessionHandler creates a new SessionHandler for s.
func NewSessionHandler(s *session.Session) *SessionHandler {
	return &SessionHandler{session: s}
}

// ServeHTTP routes collection and action requests.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/session"), "/")

	if action == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.session.Snapshot())
		return
	}

	var run func() error
	switch action {
	case "start":
		run = h.session.Start
	case "stop":
		run = h.session.Stop
	case "reset":
		run = h.session.Reset
	default:
		writeError(w, http.StatusNotFound, "Unknown session action")
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := run(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to "+action+" session")
		return
	}
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// TranscriptHandler serves the rendered transcript as plain text.
type TranscriptHandler struct {
	session *session.Session
}

// NewTranscriptHandler creates a new TranscriptHandler for s.
func NewTranscriptHandler(s *session.Session) *TranscriptHandler {
	return &TranscriptHandler{session: s}
}

func (h *TranscriptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(h.session.Transcript()))
}
