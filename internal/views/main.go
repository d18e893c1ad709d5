package views

import (
	"fmt"
	"image"

	"scopecam/internal/calibration"
	"scopecam/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// captureShortcut is Ctrl-S
var captureShortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}

// MainView is the single application window: preview, controls and status
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	preview       *components.Preview
	controls      *components.Controls
	statusBar     *components.StatusBar
	controlPanel  fyne.CanvasObject

	handlers Handlers
}

// NewMainView builds the layout into window
func NewMainView(window fyne.Window) *MainView {
	view := &MainView{
		window: window,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.preview = components.NewPreview()
	mv.controls = components.NewControls()
	mv.statusBar = components.NewStatusBar()
}

func (mv *MainView) buildLayout() {
	mv.controlPanel = container.NewVScroll(mv.controls.GetContainer())

	mv.mainContainer = container.NewBorder(
		nil,
		mv.statusBar.GetContainer(),
		nil,
		mv.controlPanel,
		mv.preview.GetContainer(),
	)

	mv.window.SetContent(mv.mainContainer)
}

// setupEventHandlers routes widget and keyboard events to the bound handlers
func (mv *MainView) setupEventHandlers() {
	mv.controls.SetZoomHandler(func(zoom string) {
		if mv.handlers.ChangeZoom != nil {
			mv.handlers.ChangeZoom(zoom)
		}
	})
	mv.controls.SetShrinkHandler(func() { mv.call(mv.handlers.ShrinkBar) })
	mv.controls.SetGrowHandler(func() { mv.call(mv.handlers.GrowBar) })
	mv.controls.SetFontHandler(func(steps int) {
		if mv.handlers.ChangeFontSize != nil {
			mv.handlers.ChangeFontSize(steps)
		}
	})
	mv.controls.SetApplyHandler(func(value, unit string) {
		if mv.handlers.ApplyCalibration != nil {
			mv.handlers.ApplyCalibration(value, unit)
		}
	})
	mv.controls.SetCaptionHandler(func(caption string) {
		if mv.handlers.SetCaption != nil {
			mv.handlers.SetCaption(caption)
		}
	})
	mv.controls.SetBackgroundHandler(func() { mv.call(mv.handlers.ToggleOverlayBackground) })
	mv.controls.SetCaptureHandler(func() { mv.call(mv.handlers.Capture) })
	mv.controls.SetFullscreenHandler(func() { mv.call(mv.handlers.ToggleFullscreen) })
	mv.controls.SetCloseHandler(func() { mv.call(mv.handlers.Quit) })

	mv.preview.SetResizeHandler(func(size fyne.Size) {
		if mv.handlers.ResizePreview == nil {
			return
		}
		scale := mv.window.Canvas().Scale()
		mv.handlers.ResizePreview(int(size.Width*scale), int(size.Height*scale))
	})

	mv.window.Canvas().SetOnTypedKey(mv.handleKey)
	mv.window.Canvas().SetOnTypedRune(mv.handleRune)
	mv.window.Canvas().AddShortcut(captureShortcut, mv.handleShortcut)
}

// Bind connects the view to the controller callbacks
func (mv *MainView) Bind(h Handlers) {
	mv.handlers = h
}

func (mv *MainView) call(fn func()) {
	if fn != nil {
		fn()
	}
}

// handleKey covers keys without a printable rune; entries keep their own
// keys while focused
func (mv *MainView) handleKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeySpace, fyne.KeyReturn, fyne.KeyEnter:
		mv.call(mv.handlers.Capture)
	case fyne.KeyF11:
		mv.call(mv.handlers.ToggleFullscreen)
	case fyne.KeyEscape:
		mv.call(mv.handlers.ExitFullscreen)
	}
}

func (mv *MainView) handleShortcut(fyne.Shortcut) {
	mv.call(mv.handlers.Capture)
}

func (mv *MainView) handleRune(r rune) {
	switch r {
	case '+', '=':
		mv.call(mv.handlers.GrowBar)
	case '-', '_':
		mv.call(mv.handlers.ShrinkBar)
	case '[':
		if mv.handlers.ChangeFontSize != nil {
			mv.handlers.ChangeFontSize(-1)
		}
	case ']':
		if mv.handlers.ChangeFontSize != nil {
			mv.handlers.ChangeFontSize(1)
		}
	case 'q', 'Q':
		mv.call(mv.handlers.Quit)
	}
}

// UI update methods, safe to call from any goroutine

// SetOverlayText updates the measurement line over the preview
func (mv *MainView) SetOverlayText(text string) {
	fyne.Do(func() {
		mv.preview.SetOverlayText(text)
	})
}

// SetMeasurement shows the current scale in the status bar
func (mv *MainView) SetMeasurement(m calibration.Measurement, zoom int) {
	fyne.Do(func() {
		mv.statusBar.SetMeasurement(fmt.Sprintf("%s at %dx", m, zoom))
	})
}

// SetZoomOptions fills the zoom selector
func (mv *MainView) SetZoomOptions(options []string, selected string) {
	fyne.Do(func() {
		mv.controls.SetZoomOptions(options, selected)
	})
}

// SetFullscreen switches the window; the control panel is hidden in fullscreen
func (mv *MainView) SetFullscreen(fullscreen bool) {
	fyne.Do(func() {
		mv.window.SetFullScreen(fullscreen)
		mv.controls.SetFullscreen(fullscreen)
		if fullscreen {
			mv.controlPanel.Hide()
		} else {
			mv.controlPanel.Show()
		}
		mv.mainContainer.Refresh()
	})
}

// SetLastCapture shows the path of the last saved image
func (mv *MainView) SetLastCapture(path string) {
	fyne.Do(func() {
		mv.statusBar.SetLastCapture(path)
	})
}

// SetPreviewFrame displays a camera frame
func (mv *MainView) SetPreviewFrame(img image.Image) {
	fyne.Do(func() {
		mv.preview.SetFrame(img)
	})
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(status)
	})
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	fyne.Do(func() {
		mv.statusBar.SetStatus(title + ": " + err.Error())
		dialog.ShowError(err, mv.window)
	})
}

// ShowWarning displays an information dialog with a warning title
func (mv *MainView) ShowWarning(title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, mv.window)
	})
}

// ConfirmRetry asks whether to retry opening the camera. It blocks until
// the user answers and must not be called on the UI goroutine.
func (mv *MainView) ConfirmRetry(err error) bool {
	answer := make(chan bool, 1)
	fyne.Do(func() {
		mv.statusBar.SetStatus("Camera not found")
		mv.showRetry(err, func(retry bool) { answer <- retry })
	})
	return <-answer
}

func (mv *MainView) showRetry(err error, callback func(bool)) {
	message := widget.NewLabel(fmt.Sprintf("The camera could not be opened:\n%v\n\nCheck the cable and camera settings, then retry.", err))
	message.Wrapping = fyne.TextWrapWord

	d := dialog.NewCustomConfirm("Camera not found", "Retry", "Cancel", message, callback, mv.window)
	d.Resize(fyne.NewSize(420, 200))
	d.Show()
}

// SetCaptureEnabled enables capturing once the camera is running
func (mv *MainView) SetCaptureEnabled(enabled bool) {
	fyne.Do(func() {
		mv.controls.SetCaptureEnabled(enabled)
	})
}

// GetWindow returns the main window
func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

// ViewState is what the window currently shows
type ViewState struct {
	OverlayText  string
	Status       string
	Measurement  string
	LastCapture  string
	SelectedZoom string
	HasFrame     bool
	Fullscreen   bool
}

// GetViewState returns the current view state
func (mv *MainView) GetViewState() ViewState {
	return ViewState{
		OverlayText:  mv.preview.OverlayText(),
		Status:       mv.statusBar.GetStatus(),
		Measurement:  mv.statusBar.GetMeasurement(),
		LastCapture:  mv.statusBar.GetLastCapture(),
		SelectedZoom: mv.controls.SelectedZoom(),
		HasFrame:     mv.preview.HasFrame(),
		Fullscreen:   mv.window.FullScreen(),
	}
}
