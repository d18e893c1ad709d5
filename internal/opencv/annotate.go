package opencv

import (
	"image"
	"image/color"
	"strings"

	"scopecam/internal/camera"

	"gocv.io/x/gocv"
)

const (
	annotationFont = gocv.FontHersheySimplex
	// pixels of font size per unit of Hershey font scale
	fontPixelsPerScale = 30.0
	annotationMargin   = 12
	annotationPadding  = 8
	lineGap            = 10
)

var (
	annotationText       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	annotationBackground = color.RGBA{A: 255}
)

// FontScale maps an annotation font size onto Hershey font scale
func FontScale(fontSize int) float64 {
	if fontSize <= 0 {
		return 1
	}
	return float64(fontSize) / fontPixelsPerScale
}

func thickness(fontSize int) int {
	if t := fontSize / 20; t > 1 {
		return t
	}
	return 1
}

type placedLine struct {
	text   string
	origin image.Point
}

// layout centres each line horizontally, stacking them from the top margin.
// sizes are the rendered line sizes. The returned band encloses all lines.
func layout(cols int, lines []string, sizes []image.Point) ([]placedLine, image.Rectangle) {
	placed := make([]placedLine, 0, len(lines))
	band := image.Rectangle{}
	y := annotationMargin + annotationPadding

	for i, line := range lines {
		size := sizes[i]
		y += size.Y
		x := (cols - size.X) / 2
		if x < 0 {
			x = 0
		}
		placed = append(placed, placedLine{text: line, origin: image.Pt(x, y)})

		lineRect := image.Rect(x-annotationPadding, y-size.Y-annotationPadding, x+size.X+annotationPadding, y+annotationPadding)
		if band.Empty() {
			band = lineRect
		} else {
			band = band.Union(lineRect)
		}
		y += lineGap
	}
	return placed, band
}

// Annotate burns the annotation into img in place
func Annotate(img *gocv.Mat, a camera.Annotation) {
	if !a.Enabled || a.Text == "" || img.Empty() {
		return
	}

	scale := FontScale(a.FontSize)
	thick := thickness(a.FontSize)
	lines := strings.Split(a.Text, "\n")
	sizes := make([]image.Point, len(lines))
	for i, line := range lines {
		sizes[i] = gocv.GetTextSize(line, annotationFont, scale, thick)
	}

	placed, band := layout(img.Cols(), lines, sizes)
	if a.Background {
		gocv.Rectangle(img, band.Intersect(image.Rect(0, 0, img.Cols(), img.Rows())), annotationBackground, -1)
	}
	for _, p := range placed {
		gocv.PutText(img, p.text, p.origin, annotationFont, scale, annotationText, thick)
	}
}
