package calibration

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	pkgerrors "github.com/pkg/errors"
)

// FileName is the calibration file kept in the capture directory
const FileName = "calibration.json"

// ErrNotFound is returned by Load when no calibration has been saved yet
var ErrNotFound = errors.New("calibration file not found")

// Store reads and writes the calibration record as a flat JSON blob
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName)}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the stored record. A missing file yields Default() together
// with ErrNotFound. Files holding a bare number are read as a legacy
// calibration constant.
func (s *Store) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), ErrNotFound
	}
	if err != nil {
		return Record{}, pkgerrors.Wrapf(err, "read calibration %s", s.path)
	}

	r, err := decode(b)
	if err != nil {
		return Record{}, pkgerrors.Wrapf(err, "decode calibration %s", s.path)
	}
	return r, nil
}

func decode(b []byte) (Record, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return Record{}, pkgerrors.New("empty calibration file")
	}

	if trimmed[0] != '{' {
		var constant float64
		if err := json.Unmarshal(trimmed, &constant); err != nil {
			return Record{}, err
		}
		return FromConstant(constant)
	}

	var r Record
	if err := json.Unmarshal(trimmed, &r); err != nil {
		return Record{}, err
	}
	// records written before zoom selection existed were measured at 1x
	if r.Zoom == 0 {
		r.Zoom = DefaultZoom
	}
	if r.Unit == "" {
		r.Unit = Micrometer
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Save writes the record, replacing the previous file atomically
func (s *Store) Save(r Record) error {
	if err := r.Validate(); err != nil {
		return pkgerrors.Wrap(err, "invalid calibration")
	}

	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, "encode calibration")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pkgerrors.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".calibration-*.json")
	if err != nil {
		return pkgerrors.Wrap(err, "create temp calibration")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return pkgerrors.Wrap(err, "write temp calibration")
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.Wrap(err, "close temp calibration")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return pkgerrors.Wrapf(err, "replace %s", s.path)
	}
	return nil
}
