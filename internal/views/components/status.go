package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays the current status, scale and last saved file
type StatusBar struct {
	container        *fyne.Container
	statusLabel      *widget.Label
	measurementLabel *widget.Label
	captureLabel     *widget.Label
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Starting camera...")
	sb.measurementLabel = widget.NewLabel("Scale: --")
	sb.captureLabel = widget.NewLabel("No captures yet")
	sb.captureLabel.Truncation = fyne.TextTruncateEllipsis
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewBorder(nil, nil,
		container.NewHBox(sb.statusLabel, widget.NewSeparator(), sb.measurementLabel, widget.NewSeparator()),
		nil,
		sb.captureLabel,
	)
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

// GetStatus returns the current status message
func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetMeasurement shows the scale in the form "Scale: 250um at 4x"
func (sb *StatusBar) SetMeasurement(text string) {
	sb.measurementLabel.SetText("Scale: " + text)
}

func (sb *StatusBar) GetMeasurement() string {
	return sb.measurementLabel.Text
}

// SetLastCapture shows the last saved path
func (sb *StatusBar) SetLastCapture(path string) {
	sb.captureLabel.SetText("Last: " + path)
}

func (sb *StatusBar) GetLastCapture() string {
	return sb.captureLabel.Text
}

// GetContainer returns the status bar container
func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
