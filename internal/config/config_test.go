package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		envCaptureDir, envDevice, envWidth, envHeight, envFPS, envJPEGQuality,
		envPreviewSize, envZooms, envBarLength, envFontSize, envSavedMessage,
		envFullscreen, envJSONLogs, envLogLevel, envDebug,
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20, 50, 100}, cfg.ZoomOptions)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.SavedMessageDuration)
	assert.Equal(t, "0", cfg.Camera.Device)
	assert.False(t, cfg.StartFullscreen)
	assert.Equal(t, defaultCaptureDirName, filepath.Base(cfg.CaptureDir))
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(envCaptureDir, dir)
	t.Setenv(envDevice, "/dev/video2")
	t.Setenv(envWidth, "1280")
	t.Setenv(envHeight, "720")
	t.Setenv(envFPS, "30")
	t.Setenv(envJPEGQuality, "80")
	t.Setenv(envPreviewSize, "640x480")
	t.Setenv(envZooms, "4x, 10x,4")
	t.Setenv(envSavedMessage, "500ms")
	t.Setenv(envFullscreen, "true")
	t.Setenv(envJSONLogs, "1")
	t.Setenv(envDebug, "1")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.CaptureDir)
	assert.Equal(t, "/dev/video2", cfg.Camera.Device)
	assert.Equal(t, 1280, cfg.Camera.Width)
	assert.Equal(t, 720, cfg.Camera.Height)
	assert.Equal(t, 30, cfg.Camera.FPS)
	assert.Equal(t, 80, cfg.Camera.JPEGQuality)
	assert.Equal(t, 640, cfg.Camera.Preview.Width)
	assert.Equal(t, 480, cfg.Camera.Preview.Height)
	assert.Equal(t, []int{4, 10}, cfg.ZoomOptions)
	assert.Equal(t, 500*time.Millisecond, cfg.SavedMessageDuration)
	assert.True(t, cfg.StartFullscreen)
	assert.True(t, cfg.JSONLogs)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLogLevelWinsOverDebug(t *testing.T) {
	clearEnv(t)
	t.Setenv(envLogLevel, "warn")
	t.Setenv(envDebug, "1")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"fps":      {envFPS, "fast"},
		"quality":  {envJPEGQuality, "101"},
		"zooms":    {envZooms, "1,0"},
		"preview":  {envPreviewSize, "640"},
		"duration": {envSavedMessage, "soon"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	captureDir := filepath.Join(dir, "captures")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("SCOPECAM_CAPTURE_DIR="+captureDir+"\nSCOPECAM_ZOOMS=2,20\n"), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// godotenv does not override variables that are already set, even when empty
	require.NoError(t, os.Unsetenv(envCaptureDir))
	require.NoError(t, os.Unsetenv(envZooms))
	t.Cleanup(func() {
		os.Unsetenv(envCaptureDir)
		os.Unsetenv(envZooms)
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, captureDir, cfg.CaptureDir)
	assert.Equal(t, []int{2, 20}, cfg.ZoomOptions)
}

func TestParseZooms(t *testing.T) {
	zooms, err := ParseZooms(" 1, 2X ,40x")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 40}, zooms)

	_, err = ParseZooms(" , ")
	assert.Error(t, err)
	_, err = ParseZooms("1,a")
	assert.Error(t, err)
}

func TestApplyOverrides(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	require.NoError(t, err)

	dir := t.TempDir()
	zooms := "10,20"
	full := true
	level := "debug"
	out, err := cfg.Apply(Overrides{CaptureDir: &dir, Zooms: &zooms, Fullscreen: &full, LogLevel: &level})
	require.NoError(t, err)

	assert.Equal(t, dir, out.CaptureDir)
	assert.Equal(t, []int{10, 20}, out.ZoomOptions)
	assert.True(t, out.StartFullscreen)
	assert.Equal(t, "debug", out.LogLevel)
	assert.Equal(t, cfg.Camera, out.Camera)

	bad := "0"
	_, err = cfg.Apply(Overrides{Zooms: &bad})
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "pics"), expandHome("~/pics"))
	assert.Equal(t, "/abs/pics", expandHome("/abs/pics"))
}
