// Package replay feeds recorded landmark frames through a session.
//
// A recording is JSON Lines, one frame per line, in the same shape the
// /api/frames endpoint accepts:
//
//	{"timestamp_ms": 1700000000000, "hands": [{"points": [...], "handedness": "Right"}]}
//
// Blank lines and lines starting with '#' are skipped.
package replay

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/signscribe/internal/landmark"
	"github.com/ayusman/signscribe/internal/session"
	"github.com/ayusman/signscribe/internal/sign"
)

// maxLineBytes bounds a single recorded frame.
const maxLineBytes = 1 << 20

// Frame is one recorded tracker output.
type Frame struct {
	TimestampMS int64                    `json:"timestamp_ms"`
	Hands       []landmark.HandLandmarks `json:"hands"`
}

// Time returns the frame timestamp.
func (f Frame) Time() time.Time {
	return time.UnixMilli(f.TimestampMS)
}

// Summary describes a finished replay.
type Summary struct {
	Frames     int           `json:"frames"`
	Commits    []sign.Commit `json:"commits"`
	Transcript string        `json:"transcript"`
}

// Read parses a recording. A malformed line fails the whole read with its
// line number; landmark errors wrap landmark.ErrMalformedInput.
func Read(r io.Reader) ([]Frame, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var frames []Frame
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}

		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		frames = append(frames, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}

	return frames, nil
}

// ReadFile parses the recording at path.
func ReadFile(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frames, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frames, nil
}

// Run starts s if needed, feeds every frame in order and returns what was
// committed. The session is left running so callers can inspect it.
func Run(s *session.Session, frames []Frame, logger *zap.Logger) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := s.Start(); err != nil {
		return nil, err
	}

	summary := &Summary{}
	for i, f := range frames {
		result, err := s.HandleFrame(f.Hands, f.Time())
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i+1, err)
		}
		summary.Frames++
		if result.Committed {
			logger.Debug("replay commit",
				zap.Int("frame", i+1),
				zap.String("gesture", result.Label.String()))
			summary.Commits = append(summary.Commits, *result.Commit)
		}
	}
	summary.Transcript = s.Transcript()

	return summary, nil
}
