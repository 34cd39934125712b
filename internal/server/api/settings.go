package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ayusman/signscribe/internal/session"
	"github.com/ayusman/signscribe/internal/store"
)

// ThresholdsHandler reads and updates the classifier calibration
// (GET/PUT /api/settings/thresholds). Updates are persisted when a store is set.
type ThresholdsHandler struct {
	session *session.Session
	store   *store.Store
	logger  *zap.Logger
}

// NewThresholdsHandler creates a new ThresholdsHandler. st may be nil.
func NewThresholdsHandler(s *session.Session, st *store.Store, logger *zap.Logger) *ThresholdsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ThresholdsHandler{session: s, store: st, logger: logger}
}

func (h *ThresholdsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.session.Thresholds())
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update applies a full or partial threshold document on top of the current values.
func (h *ThresholdsHandler) update(w http.ResponseWriter, r *http.Request) {
	t := h.session.Thresholds()
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.session.SetThresholds(t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.store != nil {
		if err := h.store.Settings().SetJSON(store.KeyThresholds, t); err != nil {
			h.logger.Error("failed to persist thresholds", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to save thresholds")
			return
		}
	}

	h.logger.Info("classifier thresholds updated")
	writeJSON(w, http.StatusOK, t)
}
