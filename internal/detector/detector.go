// Package detector defines hand-tracking providers that turn camera frames into
// landmark sets.
package detector

import (
	"errors"

	"gocv.io/x/gocv"

	"github.com/ayusman/signscribe/internal/landmark"
)

// ErrProviderUnavailable is returned when the hand-tracking provider cannot be
// started or stops delivering results. Callers treat it as a recoverable setup error.
var ErrProviderUnavailable = errors.New("hand tracking provider unavailable")

// Detector defines the interface for hand-tracking providers.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks
	// in the order the provider reports them.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]landmark.HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	// Only the first reported hand is classified, so more is wasted work.
	MaxHands int `yaml:"max_hands"`

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64 `yaml:"min_confidence"`

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64 `yaml:"min_tracking_confidence"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
