package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// ErrPlaybackDone is returned by a non-looping MockCamera once every
// scripted frame has been read.
var ErrPlaybackDone = errors.New("playback exhausted")

// MockCamera replays a scripted frame sequence, so pipeline and presence
// tests can run whole coaching sessions without camera hardware. With
// loop enabled the sequence repeats, which suits long-running session
// tests; without it the camera runs dry after the last frame.
type MockCamera struct {
	frames []*gocv.Mat
	next   int
	loop   bool
	fps    int
	open   bool
	mu     sync.Mutex
}

// NewMockCamera creates a camera that plays back the given frames.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames: frames,
		loop:   loop,
		fps:    ActiveFPS,
	}
}

// Open starts playback from the first frame.
func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = true
	c.next = 0
	return nil
}

// Close stops playback.
func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = false
	return nil
}

// ReadFrame returns a clone of the next scripted frame. The caller owns
// the returned Mat, as with the real camera.
func (c *MockCamera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		return nil, ErrPlaybackDone
	}

	if c.next >= len(c.frames) {
		if !c.loop {
			return nil, ErrPlaybackDone
		}
		c.next = 0
	}

	frame := c.frames[c.next].Clone()
	c.next++

	return &frame, nil
}

// SetFPS records the requested rate so tests can assert the pipeline's
// idle/active switching. Values at or below zero are ignored.
func (c *MockCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

// FPS returns the last rate set.
func (c *MockCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

// IsOpen reports whether playback is running.
func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// SetFrames replaces the scripted sequence and restarts playback.
func (c *MockCamera) SetFrames(frames []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.next = 0
}

// Reset restarts playback from the first frame.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = 0
}
