package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"RugTycoon/internal/model"
)

// FileStore persists the current-profile snapshot as a JSON file. The
// engine never touches it directly: main wires the engine's commit
// callback to Save and feeds Load's result back in at cold start.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the snapshot, replacing any previous one. The write goes
// through a temp file so a crash can't leave a torn profile.
func (s *FileStore) Save(snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap.SavedAt = time.Now()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the saved snapshot. Returns (nil, nil) when no profile exists.
func (s *FileStore) Load() (*model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

// Clear deletes the saved profile.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}
