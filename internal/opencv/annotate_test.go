package opencv

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutCentresAndStacksLines(t *testing.T) {
	lines := []string{"__________", "250um"}
	sizes := []image.Point{{X: 200, Y: 20}, {X: 100, Y: 30}}

	placed, band := layout(800, lines, sizes)
	require.Len(t, placed, 2)

	assert.Equal(t, 300, placed[0].origin.X)
	assert.Equal(t, 350, placed[1].origin.X)
	assert.Greater(t, placed[1].origin.Y, placed[0].origin.Y)

	for i, p := range placed {
		lineTop := image.Pt(p.origin.X, p.origin.Y-sizes[i].Y)
		assert.True(t, lineTop.In(band), "line %d top inside band", i)
	}
}

func TestLayoutClampsWideLines(t *testing.T) {
	placed, _ := layout(100, []string{"wide"}, []image.Point{{X: 400, Y: 10}})
	assert.Equal(t, 0, placed[0].origin.X)
}

func TestFontScale(t *testing.T) {
	assert.InDelta(t, 2.0, FontScale(60), 1e-12)
	assert.Equal(t, 1.0, FontScale(0))
	assert.Equal(t, 1, thickness(10))
	assert.Equal(t, 3, thickness(60))
}
