package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockCamera plays back pre-recorded frames for testing.
// A nil frame list with count > 0 yields empty Mats, which is enough when the
// detector is mocked as well.
type MockCamera struct {
	frames  []*gocv.Mat
	count   int
	index   int
	loop    bool
	fps     int
	openErr error
	mu      sync.Mutex
	running bool
}

// NewMockCamera creates a camera that replays frames in order.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		count:  len(frames),
		loop:   loop,
		fps:    DefaultFPS,
	}
}

// NewBlankCamera creates a camera that returns n empty frames.
func NewBlankCamera(n int, loop bool) *MockCamera {
	return &MockCamera{
		count: n,
		loop:  loop,
		fps:   DefaultFPS,
	}
}

// FailOpen makes the next Open calls return err.
func (c *MockCamera) FailOpen(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openErr = err
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.openErr != nil {
		return c.openErr
	}
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if c.count == 0 {
		return nil, fmt.Errorf("no frames available")
	}

	if c.index >= c.count {
		if !c.loop {
			return nil, ErrEndOfStream
		}
		c.index = 0
	}

	var frame gocv.Mat
	if c.frames != nil {
		// Clone the frame so the original isn't modified
		frame = c.frames[c.index].Clone()
	} else {
		frame = gocv.NewMat()
	}
	c.index++

	return &frame, nil
}

func (c *MockCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

func (c *MockCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Reset restarts playback from the beginning
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}
