package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	PreviewWidth  = 820
	PreviewHeight = 616
)

// Preview shows the live camera frames with the measurement above them
type Preview struct {
	container   *fyne.Container
	frame       *canvas.Image
	placeholder image.Image
	overlay     *widget.Label
	hasFrame    bool
	sizer       *sizeReportingLayout
}

// sizeReportingLayout stacks its objects and reports every new size
type sizeReportingLayout struct {
	stack    fyne.Layout
	last     fyne.Size
	onResize func(fyne.Size)
}

func (l *sizeReportingLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	l.stack.Layout(objects, size)
	if size != l.last {
		l.last = size
		if l.onResize != nil {
			l.onResize(size)
		}
	}
}

func (l *sizeReportingLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	return l.stack.MinSize(objects)
}

// NewPreview creates the preview area
func NewPreview() *Preview {
	p := &Preview{}
	p.createComponents()
	p.buildLayout()
	return p
}

func (p *Preview) createComponents() {
	p.placeholder = newPlaceholder(PreviewWidth, PreviewHeight)

	p.frame = canvas.NewImageFromImage(p.placeholder)
	p.frame.FillMode = canvas.ImageFillContain
	p.frame.ScaleMode = canvas.ImageScaleFastest
	p.frame.SetMinSize(fyne.NewSize(PreviewWidth/2, PreviewHeight/2))

	p.overlay = widget.NewLabel("")
	p.overlay.Alignment = fyne.TextAlignCenter
	p.overlay.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}
}

// newPlaceholder is a dark frame with a border, shown until the camera delivers
func newPlaceholder(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	fill := color.RGBA{R: 24, G: 24, B: 24, A: 255}
	border := color.RGBA{R: 70, G: 70, B: 70, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				img.Set(x, y, border)
			} else {
				img.Set(x, y, fill)
			}
		}
	}
	return img
}

func (p *Preview) buildLayout() {
	bg := canvas.NewRectangle(color.Black)
	p.sizer = &sizeReportingLayout{stack: layout.NewStackLayout()}
	p.container = container.New(p.sizer,
		bg,
		p.frame,
		container.NewVBox(p.overlay),
	)
}

// SetFrame shows img; nil restores the placeholder
func (p *Preview) SetFrame(img image.Image) {
	if img == nil {
		p.frame.Image = p.placeholder
		p.hasFrame = false
	} else {
		p.frame.Image = img
		p.hasFrame = true
	}
	p.frame.Refresh()
}

// SetResizeHandler is called with the preview area size whenever it changes
func (p *Preview) SetResizeHandler(handler func(fyne.Size)) {
	p.sizer.onResize = handler
}

// HasFrame reports whether a camera frame has been shown
func (p *Preview) HasFrame() bool {
	return p.hasFrame
}

// SetOverlayText sets the measurement or status line shown above the preview
func (p *Preview) SetOverlayText(text string) {
	p.overlay.SetText(text)
}

func (p *Preview) OverlayText() string {
	return p.overlay.Text
}

// GetContainer returns the preview container
func (p *Preview) GetContainer() *fyne.Container {
	return p.container
}
