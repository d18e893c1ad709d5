// Package camtest provides an in-memory camera for tests.
package camtest

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"sync"
	"time"

	"scopecam/internal/camera"
)

// Capture records one Capture call
type Capture struct {
	Path       string
	Annotation camera.Annotation
}

// Camera satisfies camera.Camera without hardware. Captures write a small
// JPEG so callers can check the file exists.
type Camera struct {
	mu         sync.Mutex
	annotation camera.Annotation
	history    []camera.Annotation
	window     camera.Window
	fullscreen bool
	previewing bool
	closed     bool
	captures   []Capture
	frames     chan image.Image
	CaptureErr error
	PreviewErr error

	// CaptureDelay stalls every Capture before it writes, like a slow sensor
	CaptureDelay time.Duration
}

func New() *Camera {
	return &Camera{frames: make(chan image.Image, 4)}
}

var _ camera.Camera = (*Camera)(nil)

func (c *Camera) StartPreview(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.PreviewErr != nil {
		return c.PreviewErr
	}
	c.previewing = true
	return nil
}

func (c *Camera) StopPreview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previewing = false
}

func (c *Camera) Previewing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previewing
}

func (c *Camera) Frames() <-chan image.Image {
	return c.frames
}

// Push queues a preview frame
func (c *Camera) Push(img image.Image) {
	c.frames <- img
}

func (c *Camera) Capture(path string) error {
	c.mu.Lock()
	delay := c.CaptureDelay
	c.mu.Unlock()
	time.Sleep(delay)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("camera closed")
	}
	if c.CaptureErr != nil {
		return c.CaptureErr
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	img.SetGray(1, 1, color.Gray{Y: 200})
	if err := jpeg.Encode(f, img, nil); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	c.captures = append(c.captures, Capture{Path: path, Annotation: c.annotation})
	return nil
}

func (c *Camera) Captures() []Capture {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Capture(nil), c.captures...)
}

func (c *Camera) SetAnnotation(a camera.Annotation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.annotation = a
	c.history = append(c.history, a)
}

func (c *Camera) Annotation() camera.Annotation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.annotation
}

// Annotations returns every annotation set so far, oldest first
func (c *Camera) Annotations() []camera.Annotation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]camera.Annotation(nil), c.history...)
}

func (c *Camera) PreviewWindow() camera.Window {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.window
}

func (c *Camera) SetPreviewWindow(w camera.Window) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window = w
}

func (c *Camera) Fullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fullscreen
}

func (c *Camera) SetFullscreen(fullscreen bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fullscreen = fullscreen
}

func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.previewing = false
	return nil
}

func (c *Camera) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
