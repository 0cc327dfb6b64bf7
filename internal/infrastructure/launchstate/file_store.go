package launchstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore remembers which devices have already launched the app.
// The whole set lives in one JSON file that is rewritten on every new device.
type FileStore struct {
	path     string
	mu       sync.Mutex
	launched map[string]time.Time
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:     path,
		launched: make(map[string]time.Time),
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read launch state: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.launched); err != nil {
			return nil, fmt.Errorf("parse launch state %s: %w", path, err)
		}
	}
	return s, nil
}

// MarkLaunched records deviceID and reports whether this was its first launch.
func (s *FileStore) MarkLaunched(deviceID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.launched[deviceID]; ok {
		return false, nil
	}

	s.launched[deviceID] = time.Now().UTC()
	if err := s.flush(); err != nil {
		delete(s.launched, deviceID)
		return false, err
	}
	return true, nil
}

func (s *FileStore) HasLaunched(deviceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.launched[deviceID]
	return ok
}

func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.launched, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create launch state dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".launchstate-*")
	if err != nil {
		return fmt.Errorf("write launch state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write launch state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write launch state: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
