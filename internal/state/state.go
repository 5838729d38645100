// Package state provides a persistent JSON baseline of per-file scores.
// Comparing a scan against the baseline surfaces score regressions without
// re-reading old reports.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// Entry is the stored baseline for a single file.
type Entry struct {
	Hash      string      `json:"hash"`
	Score     int         `json:"score"`
	Grade     types.Grade `json:"grade"`
	UpdatedAt string      `json:"updated_at"`
}

// Store persists baseline entries to a JSON file on disk.
type Store struct {
	mu      sync.RWMutex
	Entries map[string]Entry `json:"entries"`
	path    string
}

// New creates a new Store backed by the given file path.
func New(path string) *Store {
	return &Store{
		Entries: make(map[string]Entry),
		path:    path,
	}
}

// DefaultPath returns the default baseline file path
// (~/.codeanalytics/baseline.json).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codeanalytics/baseline.json"
	}
	return filepath.Join(home, ".codeanalytics", "baseline.json")
}

// Load reads the baseline file from disk. If the file doesn't exist, the
// store starts empty (no error). Symlinks are rejected.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Lstat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("baseline file is a symlink (rejected): %s", s.path)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return json.Unmarshal(data, s)
}

// Save writes the baseline to disk, creating parent directories if needed.
// Directories are created with 0o700, files with 0o600 (owner-only).
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if info, err := os.Lstat(s.path); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("baseline file is a symlink (rejected): %s", s.path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o600)
}

// Get returns the entry for the given file path and whether it exists.
func (s *Store) Get(path string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.Entries[path]
	return e, ok
}

// Set stores a baseline entry for the given file path with the current
// timestamp.
func (s *Store) Set(path, hash string, sc types.Score) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Entries[path] = Entry{
		Hash:      hash,
		Score:     sc.Value,
		Grade:     sc.Grade,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Path returns the file path of this store.
func (s *Store) Path() string {
	return s.path
}

// Regression describes a file whose score dropped against the baseline.
type Regression struct {
	Path     string
	Previous int
	Current  int
}

// Regressions compares a scan result against the baseline and returns every
// file whose score dropped, ordered as in the result.
func (s *Store) Regressions(result *types.ScanResult) []Regression {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Regression
	for _, fr := range result.Files {
		prev, ok := s.Entries[fr.Path]
		if !ok {
			continue
		}
		if fr.Report.Score.Value < prev.Score {
			out = append(out, Regression{
				Path:     fr.Path,
				Previous: prev.Score,
				Current:  fr.Report.Score.Value,
			})
		}
	}
	return out
}

// Update records the scores of every file in the result.
func (s *Store) Update(result *types.ScanResult, hashFor func(path string) string) {
	for _, fr := range result.Files {
		hash := ""
		if hashFor != nil {
			hash = hashFor(fr.Path)
		}
		s.Set(fr.Path, hash, fr.Report.Score)
	}
}
