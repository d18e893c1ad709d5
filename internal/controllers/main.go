package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"scopecam/internal/calibration"
	"scopecam/internal/camera"
	"scopecam/internal/logger"
	"scopecam/internal/models"
	"scopecam/internal/scalebar"
	"scopecam/internal/services"
	"scopecam/internal/views"
)

// View is what the controller needs from the window
type View interface {
	SetOverlayText(text string)
	SetMeasurement(m calibration.Measurement, zoom int)
	SetZoomOptions(options []string, selected string)
	SetFullscreen(fullscreen bool)
	SetLastCapture(path string)
	SetPreviewFrame(img image.Image)
	UpdateStatus(status string)
	ShowError(title string, err error)
	ShowWarning(title, message string)
}

// MainController handles every user event. Each handler updates the shared
// state, then pushes the recomputed overlay to the camera and the view.
type MainController struct {
	ctx     context.Context
	state   *models.ScopeState
	calib   *models.CalibrationRepository
	capture *services.CaptureService
	cam     camera.Camera
	view    View
	logger  logger.Logger

	// serialises refresh so camera and view always see the same overlay
	mu sync.Mutex
}

// NewMainController wires the controller to its collaborators
func NewMainController(
	ctx context.Context,
	state *models.ScopeState,
	calib *models.CalibrationRepository,
	capture *services.CaptureService,
	cam camera.Camera,
	view View,
	log logger.Logger,
) *MainController {
	return &MainController{
		ctx:     ctx,
		state:   state,
		calib:   calib,
		capture: capture,
		cam:     cam,
		view:    view,
		logger:  log,
	}
}

// Start loads the calibration, prepares the capture directory and shows
// the initial overlay. A missing calibration file is reported as a warning
// and the default scale is used.
func (mc *MainController) Start() {
	if err := mc.calib.Load(); err != nil {
		if errors.Is(err, calibration.ErrNotFound) {
			mc.logger.Warning("Controller", "calibration file not found, using default", map[string]interface{}{
				"path": mc.calib.StorePath(),
			})
			mc.view.ShowWarning("Calibration not found",
				fmt.Sprintf("No calibration file at %s.\nUsing the default scale until a measured length is applied.", mc.calib.StorePath()))
		} else {
			mc.logger.Error("Controller", err, map[string]interface{}{"path": mc.calib.StorePath()})
			mc.view.ShowError("Calibration", err)
		}
	}

	if err := mc.capture.EnsureDir(); err != nil {
		mc.logger.Error("Controller", err, nil)
		mc.view.ShowError("Capture directory", err)
	}

	snap := mc.state.Snapshot()
	options := mc.state.ZoomOptions()
	labels := make([]string, len(options))
	for i, z := range options {
		labels[i] = models.FormatZoom(z)
	}
	mc.view.SetZoomOptions(labels, models.FormatZoom(snap.Zoom))

	mc.cam.SetFullscreen(snap.Fullscreen)
	mc.view.SetFullscreen(snap.Fullscreen)

	mc.capture.SetRestoreHandler(mc.refresh)
	mc.refresh()
	mc.view.UpdateStatus("Ready")
}

// measurement returns the current scale bar and what it spans
func (mc *MainController) measurement() (models.Snapshot, calibration.Measurement, error) {
	snap := mc.state.Snapshot()
	m, err := mc.calib.Measure(snap.Bar, snap.Zoom)
	return snap, m, err
}

// refresh recomputes the measurement and pushes the overlay everywhere
func (mc *MainController) refresh() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	snap, m, err := mc.measurement()
	if err != nil {
		mc.logger.Error("Controller", err, map[string]interface{}{"zoom": snap.Zoom})
		mc.view.ShowError("Scale bar", err)
		return
	}

	overlay := scalebar.Overlay{Bar: snap.Bar, Measurement: m}
	mc.capture.SetOverlay(camera.Annotation{
		Text:       overlay.Text(),
		FontSize:   snap.Bar.FontSize,
		Background: snap.Background,
		Enabled:    true,
	})

	// the bar itself is burned into the frames; the window only labels it
	if !mc.capture.ShowingSaved() {
		mc.view.SetOverlayText(m.String())
	}
	mc.view.SetMeasurement(m, snap.Zoom)
}

// Capture saves a still named after the caption and the measurement shown.
// The caption entry is hidden in fullscreen, so captures there are named
// by timestamp.
func (mc *MainController) Capture() {
	snap, m, err := mc.measurement()
	if err != nil {
		mc.view.ShowError("Capture failed", err)
		return
	}

	base := snap.Caption
	if snap.Fullscreen {
		base = ""
	}

	mc.view.UpdateStatus("Capturing...")
	path, err := mc.capture.Capture(mc.ctx, base, m)
	if err != nil {
		mc.logger.Error("Controller", err, map[string]interface{}{"measurement": m.String()})
		mc.view.ShowError("Capture failed", err)
		mc.view.UpdateStatus("Capture failed")
		return
	}

	mc.state.SetLastCapture(path)
	mc.view.SetOverlayText("Saved " + filepath.Base(path))
	mc.view.SetLastCapture(path)
	mc.view.UpdateStatus("Saved " + path)
}

// ApplyCalibration records that the current bar spans value unit at the
// current zoom and persists it
func (mc *MainController) ApplyCalibration(value, unit string) {
	physical, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		mc.view.ShowError("Calibration", models.NewValidationError("length", value, "not a number"))
		return
	}
	u, err := calibration.ParseUnit(unit)
	if err != nil {
		mc.view.ShowError("Calibration", models.NewValidationError("unit", unit, err.Error()))
		return
	}

	snap := mc.state.Snapshot()
	record, err := mc.calib.Apply(physical, u, snap.Bar, snap.Zoom)
	if err != nil {
		mc.logger.Error("Controller", err, map[string]interface{}{"value": value, "unit": unit})
		mc.view.ShowError("Calibration", err)
		return
	}

	mc.logger.Info("Controller", "calibration applied", map[string]interface{}{
		"bar_length":      record.BarLength,
		"font_size":       record.FontSize,
		"physical_length": record.PhysicalLength,
		"unit":            string(record.Unit),
		"zoom":            record.Zoom,
		"path":            mc.calib.StorePath(),
	})
	mc.refresh()
	mc.view.UpdateStatus(fmt.Sprintf("Calibrated: %d glyphs = %g%s at %s",
		record.BarLength, record.PhysicalLength, record.Unit, models.FormatZoom(record.Zoom)))
}

// ChangeZoom selects a lens zoom such as "10x"
func (mc *MainController) ChangeZoom(zoom string) {
	z, err := models.ParseZoom(zoom)
	if err == nil {
		err = mc.state.SetZoom(z)
	}
	if err != nil {
		mc.view.ShowError("Zoom", err)
		return
	}

	mc.logger.Debug("Controller", "zoom changed", map[string]interface{}{"zoom": z})
	mc.refresh()
}

// GrowBar lengthens the scale bar by one glyph
func (mc *MainController) GrowBar() {
	mc.state.UpdateBar(scalebar.Bar.Grow)
	mc.refresh()
}

// ShrinkBar shortens the scale bar by one glyph
func (mc *MainController) ShrinkBar() {
	mc.state.UpdateBar(scalebar.Bar.Shrink)
	mc.refresh()
}

// ChangeFontSize steps the overlay font size; the measurement follows
func (mc *MainController) ChangeFontSize(steps int) {
	mc.state.UpdateBar(func(b scalebar.Bar) scalebar.Bar { return b.ScaleFont(steps) })
	mc.refresh()
}

// ToggleFullscreen switches between the windowed and fullscreen preview
func (mc *MainController) ToggleFullscreen() {
	mc.setFullscreen(mc.state.ToggleFullscreen())
}

// ExitFullscreen leaves fullscreen; it does nothing when windowed
func (mc *MainController) ExitFullscreen() {
	if !mc.state.Snapshot().Fullscreen {
		return
	}
	mc.state.SetFullscreen(false)
	mc.setFullscreen(false)
}

func (mc *MainController) setFullscreen(fullscreen bool) {
	mc.cam.SetFullscreen(fullscreen)
	mc.view.SetFullscreen(fullscreen)
	mc.logger.Debug("Controller", "fullscreen changed", map[string]interface{}{"fullscreen": fullscreen})
}

// ResizePreview tells the camera the size of the on-screen preview area in pixels
func (mc *MainController) ResizePreview(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	mc.cam.SetPreviewWindow(camera.Window{Width: width, Height: height})
	mc.logger.Debug("Controller", "preview resized", map[string]interface{}{
		"width":  width,
		"height": height,
	})
}

// SetCaption stores the filename text used for the next capture
func (mc *MainController) SetCaption(caption string) {
	mc.state.SetCaption(caption)
}

// ToggleOverlayBackground shows or hides the band behind the overlay text
func (mc *MainController) ToggleOverlayBackground() {
	mc.state.ToggleBackground()
	mc.refresh()
}

// PumpFrames forwards preview frames to the view until ctx is done or the
// camera stops delivering
func (mc *MainController) PumpFrames(ctx context.Context) {
	frames := mc.cam.Frames()
	for {
		select {
		case <-ctx.Done():
			return
		case img, ok := <-frames:
			if !ok {
				mc.logger.Debug("Controller", "preview stream ended", nil)
				return
			}
			mc.view.SetPreviewFrame(img)
		}
	}
}

// Handlers returns the callbacks the main view binds to its widgets.
// Capture runs on its own goroutine.
func (mc *MainController) Handlers(quit func()) views.Handlers {
	return views.Handlers{
		Capture:                 func() { go mc.Capture() },
		ApplyCalibration:        mc.ApplyCalibration,
		ChangeZoom:              mc.ChangeZoom,
		GrowBar:                 mc.GrowBar,
		ShrinkBar:               mc.ShrinkBar,
		ChangeFontSize:          mc.ChangeFontSize,
		ToggleFullscreen:        mc.ToggleFullscreen,
		ExitFullscreen:          mc.ExitFullscreen,
		SetCaption:              mc.SetCaption,
		ToggleOverlayBackground: mc.ToggleOverlayBackground,
		ResizePreview:           mc.ResizePreview,
		Quit:                    quit,
	}
}
