// Package fixtures manages the local snapshot files the pipeline falls back
// to when a live data source is unreachable. Fixture files are JSON named
// <prefix>_<YYYY-MM-DD>.json; lookups pick the file closest to the requested
// date. Saves are atomic (temp file + rename) so a crashed run never leaves
// a torn snapshot behind.
package fixtures

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/framework-foundry/weekly/internal/models"
)

// Store locates and persists fixture snapshots in a single directory.
type Store struct {
	dir string
}

// Snapshot describes which fixture file a lookup resolved to.
type Snapshot struct {
	Path    string
	Date    string // YYYY-MM-DD from the file name
	AgeDays int    // |fixture date - requested date|
}

// New creates a fixture store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Closest returns the fixture snapshot for prefix nearest to target
// (YYYY-MM-DD). Files whose date suffix does not parse are ignored.
func (s *Store) Closest(prefix, target string) (Snapshot, error) {
	targetDate, err := time.Parse("2006-01-02", target)
	if err != nil {
		return Snapshot{}, fmt.Errorf("invalid target date %q: %w", target, err)
	}

	pattern := filepath.Join(s.dir, prefix+"_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to scan fixtures: %w", err)
	}

	best := Snapshot{AgeDays: -1}
	for _, path := range matches {
		stem := strings.TrimSuffix(filepath.Base(path), ".json")
		dateStr := strings.TrimPrefix(stem, prefix+"_")
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		age := int(math.Abs(d.Sub(targetDate).Hours() / 24))
		if best.AgeDays < 0 || age < best.AgeDays {
			best = Snapshot{Path: path, Date: dateStr, AgeDays: age}
		}
	}

	if best.AgeDays < 0 {
		return Snapshot{}, &models.DataUnavailableError{
			Source: "fixtures",
			Err:    fmt.Errorf("no %s fixture found near %s in %s", prefix, target, s.dir),
		}
	}
	return best, nil
}

// Load finds the closest fixture for prefix/target and unmarshals it into v.
func (s *Store) Load(prefix, target string, v interface{}) (Snapshot, error) {
	snap, err := s.Closest(prefix, target)
	if err != nil {
		return Snapshot{}, err
	}

	data, err := os.ReadFile(snap.Path)
	if err != nil {
		return Snapshot{}, &models.DataUnavailableError{Source: "fixtures", Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return Snapshot{}, fmt.Errorf("failed to unmarshal fixture %s: %w", snap.Path, err)
	}
	return snap, nil
}

// Save writes v as the fixture snapshot for prefix/date. The write is
// atomic: data goes to a temp file first and is renamed into place.
func (s *Store) Save(prefix, date string, v interface{}) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid fixture date %q: %w", date, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create fixtures directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal fixture: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", prefix, date))
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename fixture: %w", err)
	}
	return nil
}
