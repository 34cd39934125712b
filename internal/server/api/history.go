package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ayusman/signscribe/internal/store"
)

type sessionDetailResponse struct {
	*store.Session
	Commits    []store.Commit `json:"commits"`
	Transcript string         `json:"transcript"`
}

type listSessionsResponse struct {
	Sessions []*store.Session `json:"sessions"`
}

// HistoryHandler serves persisted sessions.
//
//	GET /api/sessions?limit=N   newest first
//	GET /api/sessions/{id}      one session with its commits and transcript
type HistoryHandler struct {
	store *store.Store
}

// NewHistoryHandler creates a new HistoryHandler with the given store.
func NewHistoryHandler(s *store.Store) *HistoryHandler {
	return &HistoryHandler{store: s}
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/sessions"), "/")
	if id == "" {
		h.list(w, r)
		return
	}
	h.get(w, id)
}

func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sessions, err := h.store.Sessions().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*store.Session{}
	}

	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}

func (h *HistoryHandler) get(w http.ResponseWriter, id string) {
	sess, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	commits, err := h.store.Commits().ListBySession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list commits")
		return
	}

	writeJSON(w, http.StatusOK, sessionDetailResponse{
		Session:    sess,
		Commits:    commits,
		Transcript: store.Transcript(commits),
	})
}
