// Package config loads settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"scopecam/internal/calibration"
	"scopecam/internal/camera"
	"scopecam/internal/services"

	"github.com/joho/godotenv"
)

const (
	envCaptureDir   = "SCOPECAM_CAPTURE_DIR"
	envDevice       = "SCOPECAM_CAMERA_DEVICE"
	envWidth        = "SCOPECAM_FRAME_WIDTH"
	envHeight       = "SCOPECAM_FRAME_HEIGHT"
	envFPS          = "SCOPECAM_FPS"
	envJPEGQuality  = "SCOPECAM_JPEG_QUALITY"
	envPreviewSize  = "SCOPECAM_PREVIEW_SIZE"
	envZooms        = "SCOPECAM_ZOOMS"
	envBarLength    = "SCOPECAM_BAR_LENGTH"
	envFontSize     = "SCOPECAM_FONT_SIZE"
	envSavedMessage = "SCOPECAM_SAVED_MESSAGE"
	envFullscreen   = "SCOPECAM_FULLSCREEN"
	envJSONLogs     = "SCOPECAM_JSON_LOGS"
	envLogLevel     = "LOG_LEVEL"
	envDebug        = "DEBUG"

	defaultCaptureDirName = "scopecam"
)

// objective lenses fitted to the microscope
var defaultZooms = []int{10, 20, 50, 100}

type Config struct {
	CaptureDir           string
	Camera               camera.Settings
	ZoomOptions          []int
	BarLength            int
	FontSize             int
	SavedMessageDuration time.Duration
	StartFullscreen      bool
	LogLevel             string
	JSONLogs             bool
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		CaptureDir:           defaultCaptureDir(),
		Camera:               camera.DefaultSettings(),
		ZoomOptions:          append([]int(nil), defaultZooms...),
		BarLength:            calibration.DefaultBarLength,
		FontSize:             calibration.DefaultFontSize,
		SavedMessageDuration: services.DefaultSavedMessageDuration,
		LogLevel:             "info",
	}
}

func defaultCaptureDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return defaultCaptureDirName
	}
	return filepath.Join(home, defaultCaptureDirName)
}

// Load reads .env from the working directory or the executable's directory,
// then the environment. Variables already set win over .env entries.
func Load() (Config, error) {
	envPaths := []string{".env"}
	if execPath, err := os.Executable(); err == nil {
		envPaths = append(envPaths, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", envPath, err)
			}
			break
		}
	}

	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (Config, error) {
	cfg := Default()
	var err error

	if v := os.Getenv(envCaptureDir); v != "" {
		cfg.CaptureDir = expandHome(v)
	}
	if v := os.Getenv(envDevice); v != "" {
		cfg.Camera.Device = v
	}
	if cfg.Camera.Width, err = intEnv(envWidth, cfg.Camera.Width); err != nil {
		return Config{}, err
	}
	if cfg.Camera.Height, err = intEnv(envHeight, cfg.Camera.Height); err != nil {
		return Config{}, err
	}
	if cfg.Camera.FPS, err = intEnv(envFPS, cfg.Camera.FPS); err != nil {
		return Config{}, err
	}
	if cfg.Camera.JPEGQuality, err = intEnv(envJPEGQuality, cfg.Camera.JPEGQuality); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(envPreviewSize); v != "" {
		w, h, perr := ParseSize(v)
		if perr != nil {
			return Config{}, fmt.Errorf("%s: %w", envPreviewSize, perr)
		}
		cfg.Camera.Preview = camera.Window{Width: w, Height: h}
	}
	if v := os.Getenv(envZooms); v != "" {
		zooms, perr := ParseZooms(v)
		if perr != nil {
			return Config{}, fmt.Errorf("%s: %w", envZooms, perr)
		}
		cfg.ZoomOptions = zooms
	}
	if cfg.BarLength, err = intEnv(envBarLength, cfg.BarLength); err != nil {
		return Config{}, err
	}
	if cfg.FontSize, err = intEnv(envFontSize, cfg.FontSize); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(envSavedMessage); v != "" {
		d, perr := time.ParseDuration(v)
		if perr != nil {
			return Config{}, fmt.Errorf("%s: %w", envSavedMessage, perr)
		}
		cfg.SavedMessageDuration = d
	}
	cfg.StartFullscreen = boolEnv(envFullscreen)
	cfg.JSONLogs = boolEnv(envJSONLogs)

	switch {
	case os.Getenv(envLogLevel) != "":
		cfg.LogLevel = os.Getenv(envLogLevel)
	case os.Getenv(envDebug) == "1":
		cfg.LogLevel = "debug"
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the application cannot run with
func (c Config) Validate() error {
	if c.CaptureDir == "" {
		return fmt.Errorf("capture directory is empty")
	}
	if len(c.ZoomOptions) == 0 {
		return fmt.Errorf("no zoom options configured")
	}
	for _, z := range c.ZoomOptions {
		if z <= 0 {
			return fmt.Errorf("zoom option %d must be positive", z)
		}
	}
	if c.Camera.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Camera.FPS)
	}
	if c.Camera.JPEGQuality < 1 || c.Camera.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be within 1-100, got %d", c.Camera.JPEGQuality)
	}
	if c.BarLength <= 0 || c.FontSize <= 0 {
		return fmt.Errorf("bar length and font size must be positive")
	}
	if c.SavedMessageDuration <= 0 {
		return fmt.Errorf("saved message duration must be positive")
	}
	return nil
}

// ParseZooms parses a comma separated list such as "1,2,4" or "1x, 2x"
func ParseZooms(s string) ([]int, error) {
	var zooms []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(part)), "x")
		if part == "" {
			continue
		}
		z, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid zoom %q", part)
		}
		if z <= 0 {
			return nil, fmt.Errorf("zoom %d must be positive", z)
		}
		if !seen[z] {
			seen[z] = true
			zooms = append(zooms, z)
		}
	}
	if len(zooms) == 0 {
		return nil, fmt.Errorf("no zoom factors in %q", s)
	}
	return zooms, nil
}

// ParseSize parses WIDTHxHEIGHT
func ParseSize(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("size %q is not WIDTHxHEIGHT", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q must be positive", s)
	}
	return w, h, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", key, v)
	}
	return n, nil
}

func boolEnv(key string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return b
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
