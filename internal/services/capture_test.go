package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"scopecam/internal/calibration"
	"scopecam/internal/camera"
	"scopecam/internal/camera/camtest"
	"scopecam/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 5, 0, time.UTC)

func newTestService(t *testing.T, savedFor time.Duration) (*CaptureService, *camtest.Camera, string) {
	t.Helper()
	cam := camtest.New()
	dir := filepath.Join(t.TempDir(), "captures")
	s := NewCaptureService(cam, dir, savedFor, logger.NopLogger{})
	s.now = func() time.Time { return fixedNow }
	return s, cam, dir
}

func TestFileName(t *testing.T) {
	m := calibration.NewMeasurement(250)
	assert.Equal(t, "20261014-093005_250um.jpg", FileName("", m, fixedNow))
	assert.Equal(t, "pollen_grain_250um.jpg", FileName("  pollen grain ", m, fixedNow))
	assert.Equal(t, "a-b-c_1.5mm.jpg", FileName("a/b\\c", calibration.NewMeasurement(1500), fixedNow))
	assert.Equal(t, "20261014-093005_250um.jpg", FileName("..", m, fixedNow))
}

func TestSanitizeBase(t *testing.T) {
	assert.Equal(t, "x-y", SanitizeBase("x:y"))
	assert.Equal(t, "tab", SanitizeBase("t\x00ab"))
	long := SanitizeBase(strings.Repeat("é", 300))
	assert.Equal(t, maxBaseLength, utf8.RuneCountInString(long))
	assert.True(t, utf8.ValidString(long))
}

func TestCaptureCreatesDirectoryAndEmbedsMeasurement(t *testing.T) {
	s, cam, dir := newTestService(t, time.Hour)
	m := calibration.NewMeasurement(1234)

	path, err := s.Capture(context.Background(), "", m)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "20261014-093005_1.234mm.jpg"), path)
	_, err = os.Stat(path)
	require.NoError(t, err)
	require.Len(t, cam.Captures(), 1)
	assert.Equal(t, path, cam.Captures()[0].Path)
}

func TestCaptureAvoidsOverwriting(t *testing.T) {
	s, _, dir := newTestService(t, time.Hour)
	m := calibration.NewMeasurement(80)

	first, err := s.Capture(context.Background(), "cell", m)
	require.NoError(t, err)
	second, err := s.Capture(context.Background(), "cell", m)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "cell_80um.jpg"), first)
	assert.Equal(t, filepath.Join(dir, "cell_80um-1.jpg"), second)
}

func TestConcurrentCapturesGetDistinctFiles(t *testing.T) {
	s, cam, dir := newTestService(t, time.Hour)
	cam.CaptureDelay = 30 * time.Millisecond
	m := calibration.NewMeasurement(80)

	const n = 3
	paths := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path, err := s.Capture(context.Background(), "", m)
			assert.NoError(t, err)
			paths[i] = path
		}(i)
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "20261014-093005_80um.jpg"),
		filepath.Join(dir, "20261014-093005_80um-1.jpg"),
		filepath.Join(dir, "20261014-093005_80um-2.jpg"),
	}, paths)
	assert.Len(t, cam.Captures(), n)
}

func TestCaptureBurnsScaleBarThenShowsSaved(t *testing.T) {
	s, cam, _ := newTestService(t, 150*time.Millisecond)
	overlay := camera.Annotation{Text: "____\n80um", FontSize: 40, Enabled: true}
	s.SetOverlay(overlay)

	restored := make(chan struct{}, 1)
	s.SetRestoreHandler(func() { restored <- struct{}{} })

	_, err := s.Capture(context.Background(), "cell", calibration.NewMeasurement(80))
	require.NoError(t, err)

	assert.Equal(t, overlay, cam.Captures()[0].Annotation, "capture carries the scale bar")
	assert.True(t, s.ShowingSaved())
	assert.Contains(t, cam.Annotation().Text, "Saved cell_80um.jpg")

	select {
	case <-restored:
	case <-time.After(2 * time.Second):
		t.Fatal("overlay was not restored")
	}
	assert.False(t, s.ShowingSaved())
	assert.Equal(t, overlay, cam.Annotation())
}

func TestOverlayChangesDuringSavedMessageAreDeferred(t *testing.T) {
	s, cam, _ := newTestService(t, 150*time.Millisecond)
	s.SetOverlay(camera.Annotation{Text: "old", Enabled: true})

	_, err := s.Capture(context.Background(), "", calibration.NewMeasurement(10))
	require.NoError(t, err)

	next := camera.Annotation{Text: "new", Enabled: true}
	s.SetOverlay(next)
	assert.NotEqual(t, next, cam.Annotation())

	assert.Eventually(t, func() bool { return cam.Annotation() == next }, 2*time.Second, 5*time.Millisecond)
}

func TestCaptureErrors(t *testing.T) {
	s, cam, _ := newTestService(t, time.Hour)
	cam.CaptureErr = errors.New("sensor timeout")

	_, err := s.Capture(context.Background(), "", calibration.NewMeasurement(10))
	assert.ErrorIs(t, err, cam.CaptureErr)
	assert.False(t, s.ShowingSaved())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Capture(ctx, "", calibration.NewMeasurement(10))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShutdownStopsRestore(t *testing.T) {
	s, cam, _ := newTestService(t, 20*time.Millisecond)
	s.SetOverlay(camera.Annotation{Text: "bar", Enabled: true})

	_, err := s.Capture(context.Background(), "", calibration.NewMeasurement(10))
	require.NoError(t, err)
	s.Shutdown()

	time.Sleep(60 * time.Millisecond)
	assert.Contains(t, cam.Annotation().Text, "Saved")
}
