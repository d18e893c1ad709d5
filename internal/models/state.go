package models

import (
	"sync"

	"scopecam/internal/scalebar"
)

// ScopeState holds everything the event handlers share: the selected lens
// zoom, the scale bar, the filename text and the display flags.
type ScopeState struct {
	mu          sync.RWMutex
	zoomOptions []int
	zoom        int
	bar         scalebar.Bar
	caption     string
	fullscreen  bool
	background  bool
	lastCapture string
}

// Snapshot is a consistent copy of ScopeState
type Snapshot struct {
	Zoom        int
	Bar         scalebar.Bar
	Caption     string
	Fullscreen  bool
	Background  bool
	LastCapture string
}

// NewScopeState creates the state with the first zoom option selected
func NewScopeState(zoomOptions []int, bar scalebar.Bar) *ScopeState {
	options := make([]int, 0, len(zoomOptions))
	for _, z := range zoomOptions {
		if z > 0 {
			options = append(options, z)
		}
	}
	if len(options) == 0 {
		options = []int{1}
	}

	return &ScopeState{
		zoomOptions: options,
		zoom:        options[0],
		bar:         bar,
		background:  true,
	}
}

// Snapshot returns a copy of the current state
func (s *ScopeState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Zoom:        s.zoom,
		Bar:         s.bar,
		Caption:     s.caption,
		Fullscreen:  s.fullscreen,
		Background:  s.background,
		LastCapture: s.lastCapture,
	}
}

// ZoomOptions returns the selectable zoom factors
func (s *ScopeState) ZoomOptions() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int(nil), s.zoomOptions...)
}

// SetZoom selects a zoom factor; only listed options are accepted
func (s *ScopeState) SetZoom(zoom int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, z := range s.zoomOptions {
		if z == zoom {
			s.zoom = zoom
			return nil
		}
	}
	return NewValidationError("zoom", zoom, "not one of the configured zoom options")
}

// UpdateBar applies fn to the scale bar and returns the result
func (s *ScopeState) UpdateBar(fn func(scalebar.Bar) scalebar.Bar) scalebar.Bar {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bar = fn(s.bar)
	return s.bar
}

// SetCaption stores the user-edited filename text
func (s *ScopeState) SetCaption(caption string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caption = caption
}

// SetFullscreen sets the fullscreen flag
func (s *ScopeState) SetFullscreen(fullscreen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullscreen = fullscreen
}

// ToggleFullscreen flips the fullscreen flag and returns the new value
func (s *ScopeState) ToggleFullscreen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fullscreen = !s.fullscreen
	return s.fullscreen
}

// ToggleBackground flips the overlay background band and returns the new value
func (s *ScopeState) ToggleBackground() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = !s.background
	return s.background
}

// SetLastCapture records the path of the most recent capture
func (s *ScopeState) SetLastCapture(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCapture = path
}
