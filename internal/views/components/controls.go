package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var units = []string{"um", "mm"}

// Controls is the panel beside the preview: zoom, scale bar sizing,
// calibration, filename and capture
type Controls struct {
	container *fyne.Container

	zoomSelect       *widget.Select
	shrinkButton     *widget.Button
	growButton       *widget.Button
	fontDownButton   *widget.Button
	fontUpButton     *widget.Button
	lengthEntry      *widget.Entry
	unitSelect       *widget.Select
	applyButton      *widget.Button
	captionEntry     *widget.Entry
	backgroundCheck  *widget.Check
	captureButton    *widget.Button
	fullscreenButton *widget.Button
	closeButton      *widget.Button

	zoomHandler       func(string)
	shrinkHandler     func()
	growHandler       func()
	fontHandler       func(int)
	applyHandler      func(value, unit string)
	captionHandler    func(string)
	backgroundHandler func()
	captureHandler    func()
	fullscreenHandler func()
	closeHandler      func()
}

// NewControls creates the control panel
func NewControls() *Controls {
	c := &Controls{}
	c.createComponents()
	c.buildLayout()
	c.setupEventHandlers()
	return c
}

func (c *Controls) createComponents() {
	c.zoomSelect = widget.NewSelect(nil, nil)
	c.zoomSelect.PlaceHolder = "Zoom"

	c.shrinkButton = widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), nil)
	c.growButton = widget.NewButtonWithIcon("", theme.ContentAddIcon(), nil)
	c.fontDownButton = widget.NewButton("A-", nil)
	c.fontUpButton = widget.NewButton("A+", nil)

	c.lengthEntry = widget.NewEntry()
	c.lengthEntry.SetPlaceHolder("Measured length")
	c.unitSelect = widget.NewSelect(units, nil)
	c.unitSelect.SetSelected(units[0])
	c.applyButton = widget.NewButton("Apply", nil)

	c.captionEntry = widget.NewEntry()
	c.captionEntry.SetPlaceHolder("Filename (default: timestamp)")

	c.backgroundCheck = widget.NewCheck("Overlay background", nil)
	c.backgroundCheck.SetChecked(true)

	c.captureButton = widget.NewButtonWithIcon("Capture", theme.MediaPhotoIcon(), nil)
	c.captureButton.Importance = widget.HighImportance
	c.fullscreenButton = widget.NewButtonWithIcon("Fullscreen", theme.ViewFullScreenIcon(), nil)
	c.closeButton = widget.NewButtonWithIcon("Close", theme.WindowCloseIcon(), nil)
}

func (c *Controls) buildLayout() {
	zoomSection := container.NewVBox(
		widget.NewLabel("Lens zoom"),
		c.zoomSelect,
	)

	barSection := container.NewVBox(
		widget.NewLabel("Scale bar"),
		container.NewGridWithColumns(2, c.shrinkButton, c.growButton),
		container.NewGridWithColumns(2, c.fontDownButton, c.fontUpButton),
		c.backgroundCheck,
	)

	calibrationSection := container.NewVBox(
		widget.NewLabel("Calibration"),
		container.NewBorder(nil, nil, nil, c.unitSelect, c.lengthEntry),
		c.applyButton,
	)

	captureSection := container.NewVBox(
		widget.NewLabel("Capture"),
		c.captionEntry,
		c.captureButton,
		c.fullscreenButton,
	)

	c.container = container.NewVBox(
		zoomSection,
		widget.NewSeparator(),
		barSection,
		widget.NewSeparator(),
		calibrationSection,
		widget.NewSeparator(),
		captureSection,
		widget.NewSeparator(),
		c.closeButton,
	)
}

func (c *Controls) setupEventHandlers() {
	c.zoomSelect.OnChanged = func(value string) {
		if c.zoomHandler != nil {
			c.zoomHandler(value)
		}
	}
	c.shrinkButton.OnTapped = func() {
		if c.shrinkHandler != nil {
			c.shrinkHandler()
		}
	}
	c.growButton.OnTapped = func() {
		if c.growHandler != nil {
			c.growHandler()
		}
	}
	c.fontDownButton.OnTapped = func() {
		if c.fontHandler != nil {
			c.fontHandler(-1)
		}
	}
	c.fontUpButton.OnTapped = func() {
		if c.fontHandler != nil {
			c.fontHandler(1)
		}
	}
	apply := func() {
		if c.applyHandler != nil {
			c.applyHandler(c.lengthEntry.Text, c.unitSelect.Selected)
		}
	}
	c.applyButton.OnTapped = apply
	c.lengthEntry.OnSubmitted = func(string) { apply() }
	c.captionEntry.OnChanged = func(value string) {
		if c.captionHandler != nil {
			c.captionHandler(value)
		}
	}
	c.backgroundCheck.OnChanged = func(bool) {
		if c.backgroundHandler != nil {
			c.backgroundHandler()
		}
	}
	c.captureButton.OnTapped = func() {
		if c.captureHandler != nil {
			c.captureHandler()
		}
	}
	c.fullscreenButton.OnTapped = func() {
		if c.fullscreenHandler != nil {
			c.fullscreenHandler()
		}
	}
	c.closeButton.OnTapped = func() {
		if c.closeHandler != nil {
			c.closeHandler()
		}
	}
}

func (c *Controls) SetZoomHandler(handler func(string)) { c.zoomHandler = handler }
func (c *Controls) SetShrinkHandler(handler func()) { c.shrinkHandler = handler }
func (c *Controls) SetGrowHandler(handler func()) { c.growHandler = handler }
func (c *Controls) SetFontHandler(handler func(steps int)) { c.fontHandler = handler }
func (c *Controls) SetApplyHandler(handler func(value, unit string)) { c.applyHandler = handler }
func (c *Controls) SetCaptionHandler(handler func(string)) { c.captionHandler = handler }
func (c *Controls) SetBackgroundHandler(handler func()) { c.backgroundHandler = handler }
func (c *Controls) SetCaptureHandler(handler func()) { c.captureHandler = handler }
func (c *Controls) SetFullscreenHandler(handler func()) { c.fullscreenHandler = handler }
func (c *Controls) SetCloseHandler(handler func()) { c.closeHandler = handler }

// SetZoomOptions replaces the zoom list without firing the zoom handler
func (c *Controls) SetZoomOptions(options []string, selected string) {
	handler := c.zoomHandler
	c.zoomHandler = nil
	c.zoomSelect.SetOptions(options)
	c.zoomSelect.SetSelected(selected)
	c.zoomHandler = handler
}

// SetFullscreen relabels the fullscreen button
func (c *Controls) SetFullscreen(fullscreen bool) {
	if fullscreen {
		c.fullscreenButton.SetText("Exit fullscreen")
		c.fullscreenButton.SetIcon(theme.ViewRestoreIcon())
		return
	}
	c.fullscreenButton.SetText("Fullscreen")
	c.fullscreenButton.SetIcon(theme.ViewFullScreenIcon())
}

// SetCaptureEnabled enables or disables the capture button
func (c *Controls) SetCaptureEnabled(enabled bool) {
	if enabled {
		c.captureButton.Enable()
	} else {
		c.captureButton.Disable()
	}
}

func (c *Controls) SelectedZoom() string {
	return c.zoomSelect.Selected
}

// GetContainer returns the control panel container
func (c *Controls) GetContainer() *fyne.Container {
	return c.container
}
