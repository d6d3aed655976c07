package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mbriand/rdvwatch/internal/availability"
	"github.com/mbriand/rdvwatch/internal/logger"
)

// stateFile is the persisted layout: an ordered list of canonical keys.
type stateFile struct {
	Items []availability.Key `json:"items"`
}

// Store persists the last-notified snapshot as a single JSON file.
type Store struct {
	path string
}

// New creates a Store for the given state file path. A leading ~/ is
// expanded to the user's home directory.
func New(path string) (*Store, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return &Store{path: path}, nil
}

// Path returns the resolved state file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the previously persisted snapshot. A missing or unreadable
// file is treated as an empty snapshot, never an error: the next run then
// diffs against nothing.
func (s *Store) Load() availability.Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("state file unreadable, starting from empty snapshot", logger.Fields{
				"path":  s.path,
				"error": err.Error(),
			})
		}
		return availability.Snapshot{}
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn("state file corrupt, starting from empty snapshot", logger.Fields{
			"path":  s.path,
			"error": err.Error(),
		})
		return availability.Snapshot{}
	}
	return availability.Snapshot(state.Items)
}

// Save writes the snapshot atomically: the containing directory is created
// if missing, the data goes to a temp file first, and a rename swaps it in
// so an interrupted write never leaves a partial snapshot visible.
func (s *Store) Save(snap availability.Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := json.MarshalIndent(stateFile{Items: snap}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting state file mode: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
