// Package calibration converts between on-screen scale bar lengths and
// physical distances, and persists the calibration record.
package calibration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is a physical length unit understood by the scale bar
type Unit string

const (
	Micrometer Unit = "um"
	Millimeter Unit = "mm"
)

// UnitSwitchUM is the largest length still displayed in micrometers
const UnitSwitchUM = 500.0

// ParseUnit accepts "um", "µm" and "mm" in any case
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "um", "µm", "μm", "micrometer", "micrometre":
		return Micrometer, nil
	case "mm", "millimeter", "millimetre":
		return Millimeter, nil
	default:
		return "", fmt.Errorf("unknown unit %q", s)
	}
}

// ToMicrometers converts a user-entered length into micrometers
func ToMicrometers(value float64, unit Unit) (float64, error) {
	switch unit {
	case Micrometer:
		return value, nil
	case Millimeter:
		return value * 1000, nil
	default:
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
}

// Constant returns bar_length / (physical_length_um * zoom)
func Constant(barLength, physicalUM float64, zoom int) (float64, error) {
	if barLength <= 0 {
		return 0, fmt.Errorf("bar length must be positive, got %v", barLength)
	}
	if physicalUM <= 0 || math.IsInf(physicalUM, 0) || math.IsNaN(physicalUM) {
		return 0, fmt.Errorf("physical length must be positive, got %v", physicalUM)
	}
	if zoom <= 0 {
		return 0, fmt.Errorf("zoom must be positive, got %d", zoom)
	}
	return barLength / (physicalUM * float64(zoom)), nil
}

// PhysicalLengthUM recovers the physical length a bar represents at the given zoom
func PhysicalLengthUM(barLength, constant float64, zoom int) (float64, error) {
	if barLength <= 0 {
		return 0, fmt.Errorf("bar length must be positive, got %v", barLength)
	}
	if constant <= 0 || math.IsInf(constant, 0) || math.IsNaN(constant) {
		return 0, fmt.Errorf("calibration constant must be positive, got %v", constant)
	}
	if zoom <= 0 {
		return 0, fmt.Errorf("zoom must be positive, got %d", zoom)
	}
	return barLength / (constant * float64(zoom)), nil
}

// Measurement is a physical length in its display unit
type Measurement struct {
	Value float64
	Unit  Unit
}

// NewMeasurement picks the display unit: above UnitSwitchUM the value is shown in mm
func NewMeasurement(um float64) Measurement {
	if um > UnitSwitchUM {
		return Measurement{Value: um / 1000, Unit: Millimeter}
	}
	return Measurement{Value: um, Unit: Micrometer}
}

// Micrometers returns the measurement in micrometers
func (m Measurement) Micrometers() float64 {
	if m.Unit == Millimeter {
		return m.Value * 1000
	}
	return m.Value
}

// String is the display form used by the overlay and by capture filenames.
// Micrometers are shown as whole numbers, millimeters to the micrometer.
func (m Measurement) String() string {
	places := 0
	if m.Unit == Millimeter {
		places = 3
	}
	scale := math.Pow(10, float64(places))
	rounded := math.Round(m.Value*scale) / scale
	return strconv.FormatFloat(rounded, 'f', -1, 64) + string(m.Unit)
}
