// Package dataset reads and writes the roster JSON file that serves as the
// system of record between runs.
package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/preston-bernstein/auction-roster/internal/domain/players"
)

// ErrNotFound is returned by Load when the dataset file does not exist.
var ErrNotFound = errors.New("dataset not found")

// Store loads and saves a dataset at a fixed path.
type Store struct {
	path string
}

// NewStore constructs a store for path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path exposes the dataset location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Load decodes the dataset file. Keys the model does not know are kept in
// the Extra maps so Save can write them back.
func (s *Store) Load() (players.Dataset, error) {
	if s == nil || s.path == "" {
		return players.Dataset{}, errors.New("dataset path not configured")
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return players.Dataset{}, fmt.Errorf("%w: %s: %w", ErrNotFound, s.path, err)
		}
		return players.Dataset{}, fmt.Errorf("read dataset: %w", err)
	}

	ds, err := decodeDataset(data)
	if err != nil {
		return players.Dataset{}, fmt.Errorf("decode dataset %s: %w", s.path, err)
	}
	if ds.Players == nil {
		ds.Players = []players.Player{}
	}
	return ds, nil
}

// Save writes the dataset atomically (temp file then rename). An identical
// file on disk is left untouched.
func (s *Store) Save(ds players.Dataset) error {
	if s == nil || s.path == "" {
		return errors.New("dataset path not configured")
	}
	data, err := encodeDataset(ds)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	return writeBytes(s.path, data)
}

func writeFile(target string, payload any) error {
	data, err := marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", target, err)
	}
	return writeBytes(target, data)
}

func writeBytes(target string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", target, err)
	}

	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", target, err)
	}
	return nil
}
