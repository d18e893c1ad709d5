// Package opencv drives a camera through GoCV.
package opencv

import (
	"context"
	"image"
	"math"
	"sync"
	"time"

	"scopecam/internal/camera"
	"scopecam/internal/logger"
	"scopecam/internal/opencv/conversion"

	pkgerrors "github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Device is a camera.Camera backed by a gocv.VideoCapture
type Device struct {
	settings camera.Settings
	logger   logger.Logger

	capMu sync.Mutex
	vc    *gocv.VideoCapture

	mu         sync.RWMutex
	annotation camera.Annotation
	window     camera.Window
	fullscreen bool
	cancel     context.CancelFunc
	done       chan struct{}

	frames chan image.Image
}

var _ camera.Camera = (*Device)(nil)

// NewOpener binds a logger into a camera.Opener
func NewOpener(log logger.Logger) camera.Opener {
	return func(settings camera.Settings) (camera.Camera, error) {
		return Open(settings, log)
	}
}

// Open connects to the device and probes one frame. Failures to open or to
// read are reported as camera.ErrNotFound.
func Open(settings camera.Settings, log logger.Logger) (*Device, error) {
	vc, err := gocv.OpenVideoCapture(settings.Device)
	if err != nil {
		return nil, pkgerrors.Wrapf(camera.ErrNotFound, "open %q: %v", settings.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, pkgerrors.Wrapf(camera.ErrNotFound, "device %q did not open", settings.Device)
	}

	if settings.Width > 0 && settings.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(settings.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(settings.Height))
	}
	if settings.FPS > 0 {
		vc.Set(gocv.VideoCaptureFPS, float64(settings.FPS))
	}
	vc.Set(gocv.VideoCaptureBufferSize, 1)

	probe := gocv.NewMat()
	defer probe.Close()
	if ok := vc.Read(&probe); !ok || probe.Empty() {
		vc.Close()
		return nil, pkgerrors.Wrapf(camera.ErrNotFound, "device %q returned no frame", settings.Device)
	}
	if err := ValidateFrame(probe, "probe"); err != nil {
		vc.Close()
		return nil, pkgerrors.Wrapf(err, "device %q", settings.Device)
	}

	log.Info("Camera", "device opened", map[string]interface{}{
		"device":   settings.Device,
		"width":    probe.Cols(),
		"height":   probe.Rows(),
		"channels": probe.Channels(),
	})

	return &Device{
		settings: settings,
		logger:   log,
		vc:       vc,
		window:   settings.Preview,
		frames:   make(chan image.Image, 1),
	}, nil
}

func (d *Device) StartPreview(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		return nil
	}
	if d.vc == nil {
		return pkgerrors.New("device closed")
	}

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.previewLoop(ctx, d.done)

	d.logger.Debug("Camera", "preview started", map[string]interface{}{"fps": d.settings.FPS})
	return nil
}

func (d *Device) StopPreview() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	d.logger.Debug("Camera", "preview stopped", nil)
}

func (d *Device) Frames() <-chan image.Image {
	return d.frames
}

func (d *Device) previewLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	fps := d.settings.FPS
	if fps <= 0 {
		fps = camera.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	frame := gocv.NewMat()
	defer frame.Close()
	scaled := gocv.NewMat()
	defer scaled.Close()

	misses := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !d.read(&frame) {
			misses++
			if misses == 1 || misses%(fps*5) == 0 {
				d.logger.Warning("Camera", "preview frame read failed", map[string]interface{}{"misses": misses})
			}
			continue
		}
		misses = 0

		Annotate(&frame, d.Annotation())

		out := frame
		if !d.Fullscreen() {
			if size, ok := fitWithin(frame.Cols(), frame.Rows(), d.PreviewWindow()); ok {
				gocv.Resize(frame, &scaled, size, 0, 0, gocv.InterpolationArea)
				out = scaled
			}
		}

		img, err := conversion.MatToImage(out)
		if err != nil {
			d.logger.Error("Camera", err, map[string]interface{}{"stage": "preview conversion"})
			continue
		}
		d.publish(img)
	}
}

// fitWithin returns the size that fits a cols x rows frame into w keeping
// its aspect ratio. ok is false when no downscaling is needed.
func fitWithin(cols, rows int, w camera.Window) (image.Point, bool) {
	if ValidateDimensions(w.Width, w.Height, "preview") != nil || cols <= 0 || rows <= 0 {
		return image.Point{}, false
	}
	scale := math.Min(float64(w.Width)/float64(cols), float64(w.Height)/float64(rows))
	if scale >= 1 {
		return image.Point{}, false
	}
	size := image.Pt(int(float64(cols)*scale), int(float64(rows)*scale))
	if size.X < 1 || size.Y < 1 {
		return image.Point{}, false
	}
	return size, true
}

// publish replaces any frame the reader has not picked up yet
func (d *Device) publish(img image.Image) {
	select {
	case d.frames <- img:
		return
	default:
	}
	select {
	case <-d.frames:
	default:
	}
	select {
	case d.frames <- img:
	default:
	}
}

func (d *Device) read(dst *gocv.Mat) bool {
	d.capMu.Lock()
	defer d.capMu.Unlock()

	if d.vc == nil {
		return false
	}
	return d.vc.Read(dst) && !dst.Empty()
}

func (d *Device) Capture(path string) error {
	frame := gocv.NewMat()
	defer frame.Close()

	if !d.read(&frame) {
		return pkgerrors.Errorf("capture %s: no frame from device %q", path, d.settings.Device)
	}
	if err := ValidateFrame(frame, "capture"); err != nil {
		return pkgerrors.Wrapf(err, "capture %s", path)
	}
	Annotate(&frame, d.Annotation())

	quality := d.settings.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = camera.DefaultJPEGQuality
	}
	if ok := gocv.IMWriteWithParams(path, frame, []int{int(gocv.IMWriteJpegQuality), quality}); !ok {
		return pkgerrors.Errorf("capture %s: write failed", path)
	}

	d.logger.Info("Camera", "still captured", map[string]interface{}{
		"path":    path,
		"width":   frame.Cols(),
		"height":  frame.Rows(),
		"quality": quality,
	})
	return nil
}

func (d *Device) SetAnnotation(a camera.Annotation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.annotation = a
}

func (d *Device) Annotation() camera.Annotation {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.annotation
}

func (d *Device) PreviewWindow() camera.Window {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.window
}

func (d *Device) SetPreviewWindow(w camera.Window) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.window = w
}

func (d *Device) Fullscreen() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fullscreen
}

func (d *Device) SetFullscreen(fullscreen bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fullscreen = fullscreen
}

func (d *Device) Close() error {
	d.StopPreview()

	d.capMu.Lock()
	defer d.capMu.Unlock()
	if d.vc == nil {
		return nil
	}
	err := d.vc.Close()
	d.vc = nil
	d.logger.Info("Camera", "device closed", nil)
	return err
}
