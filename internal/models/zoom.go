package models

import (
	"strconv"
	"strings"
)

// FormatZoom renders a zoom factor the way the zoom selector lists it
func FormatZoom(zoom int) string {
	return strconv.Itoa(zoom) + "x"
}

// ParseZoom accepts "4", "4x" or "x4"
func ParseZoom(s string) (int, error) {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	trimmed = strings.TrimSuffix(strings.TrimPrefix(trimmed, "x"), "x")

	zoom, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, NewValidationError("zoom", s, "not an integer zoom factor")
	}
	if zoom <= 0 {
		return 0, NewValidationError("zoom", s, "zoom must be positive")
	}
	return zoom, nil
}
