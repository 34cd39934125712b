// Package session hosts the classify-and-debounce pipeline for one signer: it owns
// the debouncer and transcript, persists history, and publishes session events.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayusman/signscribe/internal/events"
	"github.com/ayusman/signscribe/internal/landmark"
	"github.com/ayusman/signscribe/internal/sign"
	"github.com/ayusman/signscribe/internal/store"
)

// ErrNotRunning is returned when a frame arrives while the session is stopped.
var ErrNotRunning = errors.New("session is not running")

// Publisher receives session events. *events.Bus implements it.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Config holds the session's collaborators. Only Classifier is required.
type Config struct {
	Classifier *sign.Classifier
	Debounce   sign.DebounceConfig
	Store      *store.Store
	Bus        Publisher
	Logger     *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Result describes what one frame did.
type Result struct {
	Label      sign.Label   `json:"label"`
	Committed  bool         `json:"committed"`
	Commit     *sign.Commit `json:"commit,omitempty"`
	Transcript string       `json:"transcript"`
}

// Status is a point-in-time view of the session.
type Status struct {
	Running    bool            `json:"running"`
	SessionID  string          `json:"session_id,omitempty"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	LastLabel  sign.Label      `json:"last_label"`
	Frames     int64           `json:"frames"`
	Entries    []sign.Label    `json:"entries"`
	Transcript string          `json:"transcript"`
	Debounce   DebounceStatus  `json:"debounce"`
	Thresholds sign.Thresholds `json:"thresholds"`
}

// DebounceStatus is the JSON view of sign.State.
type DebounceStatus struct {
	LastGesture      sign.Label `json:"last_gesture"`
	ConsecutiveCount int        `json:"consecutive_count"`
	LastCommitted    sign.Label `json:"last_committed"`
}

// Session serializes frames from any number of producers through one
// classifier, debouncer and transcript.
type Session struct {
	mu         sync.Mutex
	classifier *sign.Classifier
	debouncer  *sign.Debouncer
	transcript *sign.Transcript
	store      *store.Store
	bus        Publisher
	logger     *zap.Logger
	clock      func() time.Time

	running   bool
	id        string
	startedAt time.Time
	lastLabel sign.Label
	frames    int64
}

// New creates a stopped session.
func New(config Config) (*Session, error) {
	if config.Classifier == nil {
		return nil, errors.New("session: classifier is required")
	}
	if err := config.Debounce.Validate(); err != nil {
		return nil, err
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Clock == nil {
		config.Clock = time.Now
	}

	return &Session{
		classifier: config.Classifier,
		debouncer:  sign.NewDebouncer(config.Debounce),
		transcript: sign.NewTranscript(),
		store:      config.Store,
		bus:        config.Bus,
		logger:     config.Logger.Named("session"),
		clock:      config.Clock,
	}, nil
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.clock()
}

// Start begins a new transcript. Starting a running session is a no-op.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	now := s.clock()
	if err := s.open(now); err != nil {
		return err
	}
	s.clear()
	s.running = true

	s.logger.Info("session started", zap.String("session_id", s.id))
	s.publish(events.TypeStart, now)
	return nil
}

// Stop ends the session and discards the in-memory transcript.
// Persisted history is kept.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	now := s.clock()
	s.close(now)
	s.clear()
	s.running = false

	s.logger.Info("session stopped", zap.String("session_id", s.id))
	s.publish(events.TypeStop, now)
	return nil
}

// Reset clears the transcript and debounce state without stopping. When a store
// is configured the current record is closed and a new one opened; if that
// fails the session is left cleared and stopped.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	if s.running {
		s.close(now)
		if err := s.open(now); err != nil {
			s.clear()
			s.running = false
			return err
		}
	}
	s.clear()

	s.logger.Info("session reset", zap.String("session_id", s.id))
	s.publish(events.TypeReset, now)
	return nil
}

// HandleFrame classifies the first hand of a frame and feeds the debouncer.
// An empty frame counts as None. A malformed hand is rejected without
// touching any state.
func (s *Session) HandleFrame(hands []landmark.HandLandmarks, now time.Time) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return Result{}, ErrNotRunning
	}

	label := sign.None
	if len(hands) > 0 {
		hand := hands[0]
		if err := hand.Validate(); err != nil {
			return Result{}, err
		}
		label = s.classifier.Classify(hand)
	}

	s.frames++
	s.lastLabel = label

	result := Result{Label: label}
	if committed, ok := s.debouncer.Observe(label, now); ok {
		c := s.transcript.Append(committed, now)
		result.Committed = true
		result.Commit = &c

		s.logger.Info("gesture committed",
			zap.String("gesture", committed.String()),
			zap.Int("seq", c.Seq),
			zap.String("session_id", s.id))

		if s.store != nil {
			if err := s.store.Commits().Append(s.id, c.Seq, c.Label, c.At); err != nil {
				s.logger.Error("failed to persist commit", zap.Error(err))
			}
		}
		s.publishCommit(c)
	}
	result.Transcript = s.transcript.String()

	return result, nil
}

// IsRunning reports whether frames are being accepted.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Transcript returns the rendered transcript.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.String()
}

// Entries returns the committed labels in order.
func (s *Session) Entries() []sign.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Labels()
}

// Commits returns the committed entries with their timestamps.
func (s *Session) Commits() []sign.Commit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript.Commits()
}

// Snapshot returns the current status.
func (s *Session) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.debouncer.State()
	status := Status{
		Running:    s.running,
		LastLabel:  s.lastLabel,
		Frames:     s.frames,
		Entries:    s.transcript.Labels(),
		Transcript: s.transcript.String(),
		Thresholds: s.classifier.Thresholds(),
		Debounce: DebounceStatus{
			LastGesture:      st.LastGesture,
			ConsecutiveCount: st.ConsecutiveCount,
			LastCommitted:    st.LastCommitted,
		},
	}
	if s.running {
		started := s.startedAt
		status.SessionID = s.id
		status.StartedAt = &started
	}
	return status
}

// Thresholds returns the active classifier thresholds.
func (s *Session) Thresholds() sign.Thresholds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classifier.Thresholds()
}

// SetThresholds replaces the classifier. It takes effect from the next frame;
// debounce state is kept.
func (s *Session) SetThresholds(t sign.Thresholds) error {
	c, err := sign.NewClassifier(t)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.classifier = c
	return nil
}

// open assigns a new session id and records it. Caller holds mu.
func (s *Session) open(now time.Time) error {
	id := uuid.NewString()
	if s.store != nil {
		rec := &store.Session{ID: id, StartedAt: now}
		if err := s.store.Sessions().Create(rec); err != nil {
			return fmt.Errorf("record session: %w", err)
		}
	}
	s.id = id
	s.startedAt = now
	return nil
}

// close ends the persisted record. Caller holds mu.
func (s *Session) close(now time.Time) {
	if s.store == nil || s.id == "" {
		return
	}
	if err := s.store.Sessions().End(s.id, now); err != nil {
		s.logger.Error("failed to close session record",
			zap.String("session_id", s.id), zap.Error(err))
	}
}

// clear resets transcript and debounce state together so duplicate
// suppression never refers to a discarded entry. Caller holds mu.
func (s *Session) clear() {
	s.debouncer.Reset()
	s.transcript.Clear()
	s.lastLabel = sign.None
	s.frames = 0
}

func (s *Session) publish(t events.Type, at time.Time) {
	s.send(events.Event{
		Type:       t,
		SessionID:  s.id,
		Transcript: s.transcript.String(),
		At:         at,
	})
}

func (s *Session) publishCommit(c sign.Commit) {
	s.send(events.Event{
		Type:       events.TypeCommit,
		SessionID:  s.id,
		Gesture:    c.Label,
		Text:       c.Label.Text(),
		Seq:        c.Seq,
		Transcript: s.transcript.String(),
		At:         c.At,
	})
}

func (s *Session) send(e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(context.Background(), e); err != nil {
		s.logger.Warn("failed to publish event",
			zap.String("type", string(e.Type)), zap.Error(err))
	}
}
