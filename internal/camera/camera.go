// Package camera defines the camera collaborator: preview, still capture and
// a text annotation burned into frames.
package camera

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrNotFound means no usable camera answered on the configured device
	ErrNotFound = errors.New("camera not found")

	// ErrCancelled is returned by Connect when the user declines to retry
	ErrCancelled = errors.New("camera connection cancelled")
)

const (
	DefaultDevice      = "0"
	DefaultWidth       = 1640
	DefaultHeight      = 1232
	DefaultFPS         = 15
	DefaultJPEGQuality = 95
)

// Settings holds capture configuration
type Settings struct {
	Device      string // device index or pipeline/file understood by OpenCV
	Width       int    // capture width in pixels
	Height      int    // capture height in pixels
	FPS         int    // preview frames per second
	JPEGQuality int    // 0-100
	Preview     Window // preview rectangle when not fullscreen
}

func DefaultSettings() Settings {
	return Settings{
		Device:      DefaultDevice,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		FPS:         DefaultFPS,
		JPEGQuality: DefaultJPEGQuality,
		Preview:     Window{Width: 820, Height: 616},
	}
}

// Window is the preview rectangle
type Window struct {
	X, Y          int
	Width, Height int
}

// Annotation is the text overlay drawn onto preview and captured frames.
// Text may span several lines.
type Annotation struct {
	Text       string
	FontSize   int
	Background bool
	Enabled    bool
}

// Camera is implemented by the OpenCV device and by test fakes
type Camera interface {
	StartPreview(ctx context.Context) error
	StopPreview()
	// Frames delivers annotated preview frames; slow readers miss frames
	Frames() <-chan image.Image
	// Capture writes a still JPEG to path with the current annotation
	Capture(path string) error

	SetAnnotation(a Annotation)
	Annotation() Annotation

	PreviewWindow() Window
	SetPreviewWindow(w Window)
	Fullscreen() bool
	SetFullscreen(fullscreen bool)

	Close() error
}

// Opener opens a camera for the given settings
type Opener func(Settings) (Camera, error)
