package opencv

import (
	"fmt"

	"gocv.io/x/gocv"
)

// maxDimension is the largest frame side accepted anywhere in the pipeline
const maxDimension = 8192

// ValidateFrame checks that m holds an 8-bit image with 1, 3 or 4 channels
func ValidateFrame(m gocv.Mat, operation string) error {
	if m.Empty() {
		return fmt.Errorf("frame is empty for operation: %s", operation)
	}
	if err := ValidateDimensions(m.Cols(), m.Rows(), operation); err != nil {
		return err
	}

	switch m.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
		return nil
	default:
		return fmt.Errorf("unsupported frame type %d for operation: %s", int(m.Type()), operation)
	}
}

// ValidateDimensions rejects non-positive or oversized frame sizes
func ValidateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d for operation: %s", width, height, operation)
	}
	if width > maxDimension || height > maxDimension {
		return fmt.Errorf("dimensions %dx%d exceed maximum size for operation: %s", width, height, operation)
	}
	return nil
}
