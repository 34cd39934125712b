package sign

import (
	"errors"
	"time"
)

// DebounceConfig controls when a repeated label is committed.
type DebounceConfig struct {
	// MinDetections is the streak length needed once Cooldown has passed.
	MinDetections int `yaml:"min_detections" json:"min_detections"`
	// Cooldown is the minimum time since the last commit for a streak commit.
	Cooldown time.Duration `yaml:"cooldown" json:"cooldown"`
	// ForceAfter commits regardless of streak length once this much time has passed.
	ForceAfter time.Duration `yaml:"force_after" json:"force_after"`
}

// DefaultDebounceConfig returns three detections after one second, or any
// detection after three seconds.
func DefaultDebounceConfig() DebounceConfig {
	return DebounceConfig{
		MinDetections: 3,
		Cooldown:      time.Second,
		ForceAfter:    3 * time.Second,
	}
}

// Validate checks the debounce parameters.
func (c DebounceConfig) Validate() error {
	if c.MinDetections < 1 {
		return errors.New("debounce: min detections must be at least 1")
	}
	if c.Cooldown < 0 || c.ForceAfter < 0 {
		return errors.New("debounce: durations must not be negative")
	}
	return nil
}

// State is the debouncer's memory between frames.
type State struct {
	LastGesture      Label
	LastCommitTime   time.Time
	ConsecutiveCount int
	// LastCommitted mirrors the newest transcript entry for duplicate suppression.
	LastCommitted Label
}

// Debouncer turns a per-frame label stream into committed labels.
// It is not safe for concurrent use; one Debouncer belongs to one session.
type Debouncer struct {
	config DebounceConfig
	state  State
}

// NewDebouncer creates a Debouncer in its initial state.
func NewDebouncer(config DebounceConfig) *Debouncer {
	return &Debouncer{config: config}
}

// Observe feeds one classified frame. It returns the label and true only on
// the frame where a commit happens.
func (d *Debouncer) Observe(label Label, now time.Time) (Label, bool) {
	if label == None || !label.Valid() {
		return None, false
	}

	s := &d.state
	if label != s.LastGesture {
		s.LastGesture = label
		s.ConsecutiveCount = 1
		s.LastCommitTime = now
		return None, false
	}

	s.ConsecutiveCount++
	elapsed := now.Sub(s.LastCommitTime)
	if elapsed < 0 {
		return None, false
	}

	streak := s.ConsecutiveCount >= d.config.MinDetections && elapsed > d.config.Cooldown
	if !streak && elapsed <= d.config.ForceAfter {
		return None, false
	}

	s.ConsecutiveCount = 0
	s.LastCommitTime = now
	if s.LastCommitted == label {
		return None, false
	}
	s.LastCommitted = label
	return label, true
}

// Reset returns the debouncer to a fresh session state.
func (d *Debouncer) Reset() {
	d.state = State{}
}

// State returns a copy of the current state.
func (d *Debouncer) State() State {
	return d.state
}
