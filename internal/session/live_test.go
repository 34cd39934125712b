package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/signscribe/internal/capture"
	"github.com/ayusman/signscribe/internal/detector"
	"github.com/ayusman/signscribe/internal/landmark"
	"github.com/ayusman/signscribe/internal/sign"
)

func TestRun_CommitsFromCamera(t *testing.T) {
	clock := &stepClock{next: t0, step: 600 * time.Millisecond}
	s := newSession(t, func(c *Config) { c.Clock = clock.Now })
	require.NoError(t, s.Start())

	cam := capture.NewBlankCamera(6, false)
	cam.SetFPS(100)
	det := detector.NewMockDetector()
	det.SetHands(hands(landmark.HelloLandmarks()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, s.Run(ctx, cam, det), "exhausted camera ends the loop cleanly")

	assert.Equal(t, 6, det.Calls())
	assert.Equal(t, []sign.Label{sign.Hello}, s.Entries())
	assert.False(t, cam.IsOpen(), "camera is closed when Run returns")
}

func TestRun_OpenFailure(t *testing.T) {
	s := newSession(t, nil)

	cam := capture.NewBlankCamera(1, false)
	cam.FailOpen(errors.New("no such device"))

	err := s.Run(context.Background(), cam, detector.NewMockDetector())
	assert.True(t, errors.Is(err, detector.ErrProviderUnavailable))
}

func TestRun_SkipsFramesWhileStopped(t *testing.T) {
	s := newSession(t, nil)

	cam := capture.NewBlankCamera(1, true)
	cam.SetFPS(200)
	det := detector.NewMockDetector()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, s.Run(ctx, cam, det))
	assert.Zero(t, det.Calls())
}

func TestRun_DetectErrorsAreSkipped(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.Start())

	cam := capture.NewBlankCamera(3, false)
	cam.SetFPS(100)
	det := detector.NewMockDetector()
	det.SetError(detector.ErrProviderUnavailable)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, s.Run(ctx, cam, det))
	assert.Equal(t, 3, det.Calls())
	assert.Zero(t, s.Snapshot().Frames)
}

func TestRun_MalformedFramesAreDropped(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.Start())

	bad := landmark.HelloLandmarks()
	bad.Handedness = ""

	cam := capture.NewBlankCamera(2, false)
	cam.SetFPS(100)
	det := detector.NewMockDetector()
	det.SetHands(hands(bad))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, s.Run(ctx, cam, det))
	assert.Zero(t, s.Snapshot().Frames)
}
