package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/signscribe/internal/landmark"
	"github.com/ayusman/signscribe/internal/session"
	"github.com/ayusman/signscribe/internal/sign"
)

type frameRequest struct {
	Hands []landmark.HandLandmarks `json:"hands"`
	// TimestampMS is the capture time in Unix milliseconds. The server clock
	// is used when it is omitted.
	TimestampMS *int64 `json:"timestamp_ms,omitempty"`
}

type frameResponse struct {
	Label      sign.Label   `json:"label"`
	Committed  bool         `json:"committed"`
	Commit     *sign.Commit `json:"commit,omitempty"`
	Transcript string       `json:"transcript"`
}

// FramesHandler accepts landmark frames from external trackers (POST /api/frames).
type FramesHandler struct {
	session *session.Session
}

// NewFramesHandler creates a new FramesHandler for s.
func NewFramesHandler(s *session.Session) *FramesHandler {
	return &FramesHandler{session: s}
}

func (h *FramesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req frameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if errors.Is(err, landmark.ErrMalformedInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	now := h.session.Now()
	if req.TimestampMS != nil {
		now = time.UnixMilli(*req.TimestampMS)
	}

	result, err := h.session.HandleFrame(req.Hands, now)
	switch {
	case errors.Is(err, session.ErrNotRunning):
		writeError(w, http.StatusConflict, "Session is not running")
		return
	case errors.Is(err, landmark.ErrMalformedInput):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to handle frame")
		return
	}

	writeJSON(w, http.StatusOK, frameResponse{
		Label:      result.Label,
		Committed:  result.Committed,
		Commit:     result.Commit,
		Transcript: result.Transcript,
	})
}

type classifyRequest struct {
	Points     []landmark.Point3D `json:"points"`
	Handedness string             `json:"handedness"`
}

type classifyResponse struct {
	Label sign.Label `json:"label"`
	Text  string     `json:"text"`
}

// ClassifyHandler classifies a single landmark set without touching the
// session's debounce state (POST /api/classify).
type ClassifyHandler struct {
	session *session.Session
}

// NewClassifyHandler creates a new ClassifyHandler using the thresholds of s.
func NewClassifyHandler(s *session.Session) *ClassifyHandler {
	return &ClassifyHandler{session: s}
}

func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req classifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	classifier, err := sign.NewClassifier(h.session.Thresholds())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Classifier is misconfigured")
		return
	}

	label, err := classifier.ClassifyPoints(req.Points, landmark.Handedness(req.Handedness))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, classifyResponse{Label: label, Text: label.Text()})
}
