package models

import (
	"sync"

	"scopecam/internal/calibration"
	"scopecam/internal/scalebar"
)

// CalibrationRepository owns the current calibration record and persists
// changes through the store
type CalibrationRepository struct {
	mu      sync.RWMutex
	store   *calibration.Store
	current calibration.Record
}

// NewCalibrationRepository creates a repository holding the default record
func NewCalibrationRepository(store *calibration.Store) *CalibrationRepository {
	return &CalibrationRepository{
		store:   store,
		current: calibration.Default(),
	}
}

// Load reads the stored record. On calibration.ErrNotFound the default
// record stays current and the error is passed through for the caller to
// report.
func (r *CalibrationRepository) Load() error {
	record, err := r.store.Load()
	if err != nil && record == (calibration.Record{}) {
		return err
	}

	r.mu.Lock()
	r.current = record
	r.mu.Unlock()
	return err
}

// Current returns the active record
func (r *CalibrationRepository) Current() calibration.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// StorePath returns where the record is persisted
func (r *CalibrationRepository) StorePath() string {
	return r.store.Path()
}

// Measure returns the physical length the bar represents at zoom
func (r *CalibrationRepository) Measure(bar scalebar.Bar, zoom int) (calibration.Measurement, error) {
	return r.Current().Measure(bar.Length, bar.FontSize, zoom)
}

// Apply records that bar, at zoom, spans value unit, saves it and makes it current
func (r *CalibrationRepository) Apply(value float64, unit calibration.Unit, bar scalebar.Bar, zoom int) (calibration.Record, error) {
	record := calibration.Record{
		FontSize:       bar.FontSize,
		BarLength:      bar.Length,
		PhysicalLength: value,
		Unit:           unit,
		Zoom:           zoom,
	}
	if err := record.Validate(); err != nil {
		return calibration.Record{}, NewValidationError("calibration", value, err.Error())
	}

	if err := r.store.Save(record); err != nil {
		return calibration.Record{}, err
	}

	r.mu.Lock()
	r.current = record
	r.mu.Unlock()
	return record, nil
}
