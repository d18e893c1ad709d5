package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"scopecam/internal/calibration"
	"scopecam/internal/camera"
	"scopecam/internal/logger"
)

// DefaultSavedMessageDuration is how long "saved" replaces the scale bar
const DefaultSavedMessageDuration = 2 * time.Second

// CaptureService writes stills into the capture directory and owns the
// camera annotation, so the "saved" message and the scale bar overlay
// never overwrite each other.
type CaptureService struct {
	cam      camera.Camera
	dir      string
	savedFor time.Duration
	logger   logger.Logger
	now      func() time.Time

	// held from choosing a filename until the camera has written it
	captureMu sync.Mutex

	mu           sync.Mutex
	overlay      camera.Annotation
	showingSaved bool
	savedSeq     int
	restoreTimer *time.Timer
	onRestore    func()
}

// NewCaptureService creates a capture service writing into dir
func NewCaptureService(cam camera.Camera, dir string, savedFor time.Duration, log logger.Logger) *CaptureService {
	if savedFor <= 0 {
		savedFor = DefaultSavedMessageDuration
	}
	return &CaptureService{
		cam:      cam,
		dir:      dir,
		savedFor: savedFor,
		logger:   log,
		now:      time.Now,
	}
}

// Dir returns the capture directory
func (s *CaptureService) Dir() string {
	return s.dir
}

// SetRestoreHandler registers fn to run when the "saved" message ends
func (s *CaptureService) SetRestoreHandler(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRestore = fn
}

// EnsureDir creates the capture directory if absent
func (s *CaptureService) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create capture directory %s: %w", s.dir, err)
	}
	return nil
}

// SetOverlay sets the scale bar annotation. While the "saved" message is up
// it is kept and shown once the message ends.
func (s *CaptureService) SetOverlay(a camera.Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.overlay = a
	if !s.showingSaved {
		s.cam.SetAnnotation(a)
	}
}

// ShowingSaved reports whether the "saved" message currently replaces the overlay
func (s *CaptureService) ShowingSaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showingSaved
}

// Capture saves a still named from base and the measurement shown at the
// moment of capture, then briefly replaces the overlay with "saved".
func (s *CaptureService) Capture(ctx context.Context, base string, m calibration.Measurement) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if err := s.EnsureDir(); err != nil {
		return "", err
	}

	start := time.Now()
	path, err := s.write(base, m)
	if err != nil {
		return "", err
	}

	s.logger.Info("Capture", "image saved", map[string]interface{}{
		"path":        path,
		"measurement": m.String(),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	s.showSaved(filepath.Base(path))
	return path, nil
}

// write picks a free filename and captures into it. Concurrent captures
// are serialised so two of them never pick the same name.
func (s *CaptureService) write(base string, m calibration.Measurement) (string, error) {
	s.captureMu.Lock()
	defer s.captureMu.Unlock()

	name := FileName(base, m, s.now())
	path, err := uniquePath(s.dir, name)
	if err != nil {
		return "", fmt.Errorf("choose capture filename: %w", err)
	}
	if err := s.cam.Capture(path); err != nil {
		return "", fmt.Errorf("capture %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

func (s *CaptureService) showSaved(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fontSize := s.overlay.FontSize
	s.cam.SetAnnotation(camera.Annotation{
		Text:       "Saved " + name,
		FontSize:   fontSize,
		Background: true,
		Enabled:    true,
	})
	s.showingSaved = true

	if s.restoreTimer != nil {
		s.restoreTimer.Stop()
	}
	s.savedSeq++
	seq := s.savedSeq
	s.restoreTimer = time.AfterFunc(s.savedFor, func() { s.restore(seq) })
}

// restore ends the "saved" message started as number seq; a later capture
// supersedes earlier timers
func (s *CaptureService) restore(seq int) {
	s.mu.Lock()
	if !s.showingSaved || seq != s.savedSeq {
		s.mu.Unlock()
		return
	}
	s.showingSaved = false
	s.restoreTimer = nil
	s.cam.SetAnnotation(s.overlay)
	fn := s.onRestore
	s.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Shutdown cancels a pending overlay restore
func (s *CaptureService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restoreTimer != nil {
		s.restoreTimer.Stop()
		s.restoreTimer = nil
	}
}
