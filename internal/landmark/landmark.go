// Package landmark defines the 21-point hand landmark set reported by a hand
// tracker, its validation rules and preset handshapes for tests and demos.
package landmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrMalformedInput is returned when a landmark set cannot be classified:
// wrong number of points, non-finite coordinates or unknown handedness.
var ErrMalformedInput = errors.New("malformed landmark input")

// Handedness identifies which hand a landmark set belongs to.
type Handedness string

const (
	Left  Handedness = "Left"
	Right Handedness = "Right"
)

// ParseHandedness converts a tracker handedness string into a Handedness.
func ParseHandedness(s string) (Handedness, error) {
	switch Handedness(s) {
	case Left, Right:
		return Handedness(s), nil
	}
	return "", fmt.Errorf("%w: handedness %q", ErrMalformedInput, s)
}

// Point3D represents a 3D point in normalized image space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Point3D) finite() bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// HandLandmarks represents the 21 hand landmarks reported for one tracked hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness Handedness            `json:"handedness"`
	Score      float64               `json:"score"`
}

// NewHandLandmarks builds a landmark set from a variable-length point slice.
// Anything other than exactly NumLandmarks finite points is rejected.
func NewHandLandmarks(points []Point3D, handedness Handedness, score float64) (HandLandmarks, error) {
	var h HandLandmarks
	if len(points) != NumLandmarks {
		return h, fmt.Errorf("%w: got %d points, want %d", ErrMalformedInput, len(points), NumLandmarks)
	}
	copy(h.Points[:], points)
	h.Handedness = handedness
	h.Score = score
	return h, h.Validate()
}

// Validate reports whether the landmark set is usable for classification.
func (h *HandLandmarks) Validate() error {
	if h.Handedness != Left && h.Handedness != Right {
		return fmt.Errorf("%w: handedness %q", ErrMalformedInput, h.Handedness)
	}
	for i, p := range h.Points {
		if !p.finite() {
			return fmt.Errorf("%w: landmark %d is not finite", ErrMalformedInput, i)
		}
	}
	return nil
}

// UnmarshalJSON decodes a landmark set, enforcing the same rules as NewHandLandmarks.
// A fixed-size array would otherwise silently zero-fill a short point list.
func (h *HandLandmarks) UnmarshalJSON(data []byte) error {
	var raw struct {
		Points     []Point3D `json:"points"`
		Handedness string    `json:"handedness"`
		Score      float64   `json:"score"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	hand, err := NewHandLandmarks(raw.Points, Handedness(raw.Handedness), raw.Score)
	if err != nil {
		return err
	}
	*h = hand
	return nil
}

// Distance calculates the Euclidean distance between two 3D points.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
