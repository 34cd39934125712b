package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/signscribe/internal/capture"
	"github.com/ayusman/signscribe/internal/detector"
	"github.com/ayusman/signscribe/internal/landmark"
)

// Run drives the session from a local camera and hand-tracking provider until
// ctx is cancelled or a finite camera runs out of frames. Frames are only read
// while the session is running.
//
// A camera that cannot be opened is reported as detector.ErrProviderUnavailable.
// Read and detect failures on individual frames are logged and skipped.
func (s *Session) Run(ctx context.Context, camera capture.Camera, det detector.Detector) error {
	if err := camera.Open(); err != nil {
		if !errors.Is(err, detector.ErrProviderUnavailable) {
			err = fmt.Errorf("%w: %v", detector.ErrProviderUnavailable, err)
		}
		return err
	}
	defer func() {
		if err := camera.Close(); err != nil {
			s.logger.Warn("error closing camera", zap.Error(err))
		}
	}()

	fps := camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	s.logger.Info("live capture started", zap.Int("fps", fps))
	defer s.logger.Info("live capture stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if !s.IsRunning() {
			continue
		}

		done, err := s.step(camera, det)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// step processes one camera frame. It reports done when the camera is exhausted.
func (s *Session) step(camera capture.Camera, det detector.Detector) (bool, error) {
	frame, err := camera.ReadFrame()
	if err != nil {
		if errors.Is(err, capture.ErrEndOfStream) {
			return true, nil
		}
		s.logger.Warn("error reading frame", zap.Error(err))
		return false, nil
	}

	hands, err := det.Detect(frame)
	frame.Close()
	if err != nil {
		s.logger.Warn("error detecting hands", zap.Error(err))
		return false, nil
	}

	_, err = s.HandleFrame(hands, s.clock())
	switch {
	case err == nil, errors.Is(err, ErrNotRunning):
		// Stopped between the check and the frame.
	case errors.Is(err, landmark.ErrMalformedInput):
		s.logger.Debug("dropping malformed frame", zap.Error(err))
	default:
		return false, err
	}
	return false, nil
}
