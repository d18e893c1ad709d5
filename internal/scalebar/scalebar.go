// Package scalebar models the on-screen bar of repeated glyphs.
package scalebar

import (
	"strings"

	"scopecam/internal/calibration"
)

// Glyph is drawn with OpenCV's Hershey fonts, which only cover ASCII
const Glyph = "_"

const (
	MinLength   = 1
	MaxLength   = 60
	MinFontSize = 10
	MaxFontSize = 120
	FontStep    = 5
)

// Bar is Length glyphs rendered at FontSize
type Bar struct {
	Length   int
	FontSize int
}

func New(length, fontSize int) Bar {
	return Bar{Length: clamp(length, MinLength, MaxLength), FontSize: clamp(fontSize, MinFontSize, MaxFontSize)}
}

func (b Bar) Grow() Bar {
	return New(b.Length+1, b.FontSize)
}

func (b Bar) Shrink() Bar {
	return New(b.Length-1, b.FontSize)
}

// ScaleFont moves the font size by steps of FontStep
func (b Bar) ScaleFont(steps int) Bar {
	return New(b.Length, b.FontSize+steps*FontStep)
}

func (b Bar) Line() string {
	return strings.Repeat(Glyph, b.Length)
}

// Overlay is the scale bar together with the length it currently represents
type Overlay struct {
	Bar         Bar
	Measurement calibration.Measurement
}

// Text renders the bar above its measurement
func (o Overlay) Text() string {
	return o.Bar.Line() + "\n" + o.Measurement.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
