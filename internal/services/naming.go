package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"scopecam/internal/calibration"
)

const (
	// TimestampLayout names captures when no filename text was entered
	TimestampLayout = "20060102-150405"
	captureExt      = ".jpg"
	maxBaseLength   = 120
)

// SanitizeBase makes user-entered filename text safe for the filesystem
func SanitizeBase(base string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(base) {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			b.WriteRune('-')
		case unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	out := []rune(strings.Trim(b.String(), "."))
	if len(out) > maxBaseLength {
		out = out[:maxBaseLength]
	}
	return string(out)
}

// FileName is <base>_<measurement>.jpg, base defaulting to the timestamp
func FileName(base string, m calibration.Measurement, t time.Time) string {
	base = SanitizeBase(base)
	if base == "" {
		base = t.Format(TimestampLayout)
	}
	return base + "_" + m.String() + captureExt
}

// uniquePath appends -1, -2... before the extension until the name is free
func uniquePath(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 1; ; i++ {
		_, err := os.Stat(path)
		if os.IsNotExist(err) {
			return path, nil
		}
		if err != nil {
			return "", err
		}
		if i > 9999 {
			return "", fmt.Errorf("no free filename for %s in %s", name, dir)
		}
		path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", stem, i, ext))
	}
}
