package calibration

import (
	"fmt"
	"math"
)

// Record is the persisted calibration tuple: a bar of BarLength glyphs drawn
// at FontSize spans PhysicalLength Unit under lens zoom Zoom.
type Record struct {
	FontSize       int     `json:"font_size"`
	BarLength      int     `json:"bar_length"`
	PhysicalLength float64 `json:"physical_length"`
	Unit           Unit    `json:"unit"`
	Zoom           int     `json:"zoom"`
}

const (
	DefaultFontSize       = 40
	DefaultBarLength      = 10
	DefaultPhysicalLength = 100
	DefaultZoom           = 1
)

// Default is used when no calibration file exists yet
func Default() Record {
	return Record{
		FontSize:       DefaultFontSize,
		BarLength:      DefaultBarLength,
		PhysicalLength: DefaultPhysicalLength,
		Unit:           Micrometer,
		Zoom:           DefaultZoom,
	}
}

// FromConstant builds a record equivalent to a bare calibration constant,
// expressed against the default bar at zoom 1.
func FromConstant(constant float64) (Record, error) {
	r := Default()
	um, err := PhysicalLengthUM(float64(r.BarLength), constant, r.Zoom)
	if err != nil {
		return Record{}, err
	}
	r.PhysicalLength = um
	return r, nil
}

// Validate reports the first field that cannot take part in the formula
func (r Record) Validate() error {
	if r.FontSize <= 0 {
		return fmt.Errorf("font size must be positive, got %d", r.FontSize)
	}
	if r.BarLength <= 0 {
		return fmt.Errorf("bar length must be positive, got %d", r.BarLength)
	}
	if !(r.PhysicalLength > 0) || math.IsInf(r.PhysicalLength, 0) {
		return fmt.Errorf("physical length must be positive, got %v", r.PhysicalLength)
	}
	if r.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %d", r.Zoom)
	}
	if _, err := ToMicrometers(r.PhysicalLength, r.Unit); err != nil {
		return err
	}
	return nil
}

// Constant derives the calibration constant from the record
func (r Record) Constant() (float64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	um, _ := ToMicrometers(r.PhysicalLength, r.Unit)
	return Constant(float64(r.BarLength), um, r.Zoom)
}

// Measure returns what a bar of barLength glyphs at fontSize spans under zoom.
// Glyph width scales with font size, so the bar is normalised to the
// calibrated font size first.
func (r Record) Measure(barLength, fontSize, zoom int) (Measurement, error) {
	constant, err := r.Constant()
	if err != nil {
		return Measurement{}, err
	}
	if fontSize <= 0 {
		return Measurement{}, fmt.Errorf("font size must be positive, got %d", fontSize)
	}
	effective := float64(barLength) * float64(fontSize) / float64(r.FontSize)
	um, err := PhysicalLengthUM(effective, constant, zoom)
	if err != nil {
		return Measurement{}, err
	}
	return NewMeasurement(um), nil
}
