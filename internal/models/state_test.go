package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"scopecam/internal/calibration"
	"scopecam/internal/scalebar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeStateZoomSelection(t *testing.T) {
	s := NewScopeState([]int{2, 4, 10}, scalebar.New(10, 40))
	assert.Equal(t, 2, s.Snapshot().Zoom)

	require.NoError(t, s.SetZoom(10))
	assert.Equal(t, 10, s.Snapshot().Zoom)

	err := s.SetZoom(3)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "zoom", verr.Parameter)
	assert.Equal(t, 10, s.Snapshot().Zoom)
}

func TestScopeStateDropsInvalidZoomOptions(t *testing.T) {
	s := NewScopeState([]int{0, -2}, scalebar.New(10, 40))
	assert.Equal(t, []int{1}, s.ZoomOptions())
	assert.Equal(t, 1, s.Snapshot().Zoom)
}

func TestScopeStateToggles(t *testing.T) {
	s := NewScopeState([]int{1}, scalebar.New(10, 40))

	assert.True(t, s.Snapshot().Background)
	assert.False(t, s.ToggleBackground())
	assert.True(t, s.ToggleFullscreen())
	assert.False(t, s.ToggleFullscreen())

	s.SetFullscreen(true)
	s.SetCaption("diatoms")
	s.SetLastCapture("/tmp/x.jpg")
	snap := s.Snapshot()
	assert.True(t, snap.Fullscreen)
	assert.Equal(t, "diatoms", snap.Caption)
	assert.Equal(t, "/tmp/x.jpg", snap.LastCapture)
}

func TestScopeStateUpdateBar(t *testing.T) {
	s := NewScopeState([]int{1}, scalebar.New(10, 40))
	got := s.UpdateBar(scalebar.Bar.Grow)
	assert.Equal(t, 11, got.Length)
	assert.Equal(t, got, s.Snapshot().Bar)
}

func TestParseZoom(t *testing.T) {
	for in, want := range map[string]int{"4": 4, "4x": 4, "x10": 10, " 2X ": 2} {
		got, err := ParseZoom(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseZoom("zero")
	assert.Error(t, err)
	_, err = ParseZoom("0x")
	assert.Error(t, err)
	assert.Equal(t, "40x", FormatZoom(40))
}

func TestCalibrationRepositoryLoadMissing(t *testing.T) {
	repo := NewCalibrationRepository(calibration.NewStore(t.TempDir()))

	err := repo.Load()
	assert.ErrorIs(t, err, calibration.ErrNotFound)
	assert.Equal(t, calibration.Default(), repo.Current())
}

func TestCalibrationRepositoryLoadCorruptKeepsDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, calibration.FileName), []byte("{"), 0o644))
	repo := NewCalibrationRepository(calibration.NewStore(dir))

	err := repo.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, calibration.ErrNotFound)
	assert.Equal(t, calibration.Default(), repo.Current())
}

func TestCalibrationRepositoryApplyPersists(t *testing.T) {
	dir := t.TempDir()
	repo := NewCalibrationRepository(calibration.NewStore(dir))
	bar := scalebar.New(20, 50)

	rec, err := repo.Apply(0.4, calibration.Millimeter, bar, 4)
	require.NoError(t, err)
	assert.Equal(t, rec, repo.Current())

	m, err := repo.Measure(bar, 4)
	require.NoError(t, err)
	assert.Equal(t, "400um", m.String())

	reloaded := NewCalibrationRepository(calibration.NewStore(dir))
	require.NoError(t, reloaded.Load())
	assert.Equal(t, rec, reloaded.Current())
}

func TestCalibrationRepositoryApplyRejectsNonPositive(t *testing.T) {
	dir := t.TempDir()
	repo := NewCalibrationRepository(calibration.NewStore(dir))

	_, err := repo.Apply(0, calibration.Micrometer, scalebar.New(10, 40), 1)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, calibration.Default(), repo.Current())

	_, statErr := os.Stat(filepath.Join(dir, calibration.FileName))
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}
