package components

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func TestControlsRouteEvents(t *testing.T) {
	test.NewApp()
	c := NewControls()

	var calls []string
	var fonts []int
	var applied [2]string
	var caption string
	c.SetGrowHandler(func() { calls = append(calls, "grow") })
	c.SetShrinkHandler(func() { calls = append(calls, "shrink") })
	c.SetCaptureHandler(func() { calls = append(calls, "capture") })
	c.SetFullscreenHandler(func() { calls = append(calls, "fullscreen") })
	c.SetBackgroundHandler(func() { calls = append(calls, "background") })
	c.SetCloseHandler(func() { calls = append(calls, "close") })
	c.SetFontHandler(func(steps int) { fonts = append(fonts, steps) })
	c.SetApplyHandler(func(value, unit string) { applied = [2]string{value, unit} })
	c.SetCaptionHandler(func(s string) { caption = s })

	test.Tap(c.growButton)
	test.Tap(c.shrinkButton)
	test.Tap(c.captureButton)
	test.Tap(c.fullscreenButton)
	test.Tap(c.backgroundCheck)
	test.Tap(c.fontUpButton)
	test.Tap(c.fontDownButton)
	test.Tap(c.closeButton)

	test.Type(c.lengthEntry, "0.5")
	c.unitSelect.SetSelected("mm")
	test.Tap(c.applyButton)

	test.Type(c.captionEntry, "slide")

	assert.Equal(t, []string{"grow", "shrink", "capture", "fullscreen", "background", "close"}, calls)
	assert.Equal(t, []int{1, -1}, fonts)
	assert.Equal(t, [2]string{"0.5", "mm"}, applied)
	assert.Equal(t, "slide", caption)
}

func TestControlsFullscreenLabel(t *testing.T) {
	test.NewApp()
	c := NewControls()

	c.SetFullscreen(true)
	assert.Equal(t, "Exit fullscreen", c.fullscreenButton.Text)
	c.SetFullscreen(false)
	assert.Equal(t, "Fullscreen", c.fullscreenButton.Text)

	c.SetCaptureEnabled(false)
	assert.True(t, c.captureButton.Disabled())
}

func TestPreviewPlaceholder(t *testing.T) {
	test.NewApp()
	p := NewPreview()
	assert.False(t, p.HasFrame())

	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	p.SetFrame(frame)
	assert.True(t, p.HasFrame())
	assert.Equal(t, frame, p.frame.Image)

	p.SetFrame(nil)
	assert.False(t, p.HasFrame())
	assert.Equal(t, p.placeholder, p.frame.Image)

	p.SetOverlayText("75um")
	assert.Equal(t, "75um", p.OverlayText())
}

func TestPreviewReportsResize(t *testing.T) {
	test.NewApp()
	p := NewPreview()

	var sizes []fyne.Size
	p.SetResizeHandler(func(s fyne.Size) { sizes = append(sizes, s) })

	p.GetContainer().Resize(fyne.NewSize(300, 200))
	p.GetContainer().Resize(fyne.NewSize(300, 200))
	p.GetContainer().Resize(fyne.NewSize(400, 300))

	assert.Equal(t, []fyne.Size{fyne.NewSize(300, 200), fyne.NewSize(400, 300)}, sizes)
}

func TestStatusBar(t *testing.T) {
	test.NewApp()
	sb := NewStatusBar()
	sb.SetStatus("Ready")
	sb.SetMeasurement("250um at 4x")
	sb.SetLastCapture("/x.jpg")

	assert.Equal(t, "Ready", sb.GetStatus())
	assert.Equal(t, "Scale: 250um at 4x", sb.GetMeasurement())
	assert.Equal(t, "Last: /x.jpg", sb.GetLastCapture())
}
