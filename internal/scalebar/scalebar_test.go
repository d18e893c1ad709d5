package scalebar

import (
	"testing"

	"scopecam/internal/calibration"

	"github.com/stretchr/testify/assert"
)

func TestNewClamps(t *testing.T) {
	assert.Equal(t, Bar{Length: MinLength, FontSize: MinFontSize}, New(0, 1))
	assert.Equal(t, Bar{Length: MaxLength, FontSize: MaxFontSize}, New(500, 500))
	assert.Equal(t, Bar{Length: 12, FontSize: 40}, New(12, 40))
}

func TestGrowShrinkStopAtBounds(t *testing.T) {
	b := New(MaxLength, 40)
	assert.Equal(t, MaxLength, b.Grow().Length)

	b = New(MinLength, 40)
	assert.Equal(t, MinLength, b.Shrink().Length)

	b = New(10, 40)
	assert.Equal(t, 11, b.Grow().Length)
	assert.Equal(t, 9, b.Shrink().Length)
}

func TestScaleFont(t *testing.T) {
	b := New(10, 40)
	assert.Equal(t, 45, b.ScaleFont(1).FontSize)
	assert.Equal(t, 30, b.ScaleFont(-2).FontSize)
	assert.Equal(t, MinFontSize, b.ScaleFont(-100).FontSize)
}

func TestOverlayText(t *testing.T) {
	o := Overlay{
		Bar:         New(4, 40),
		Measurement: calibration.NewMeasurement(1250),
	}
	assert.Equal(t, "____\n1.25mm", o.Text())
}
