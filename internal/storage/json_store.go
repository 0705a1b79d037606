package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/julianstephens/daycounter/internal/logger"
	"github.com/julianstephens/daycounter/internal/models"
)

type JSONStore struct {
	base
	path string
}

func NewJSONStore(configPath string) *JSONStore {
	s := &JSONStore{path: configPath}
	s.persist = s.save
	return s
}

// Init writes a fresh data file with default settings. It refuses to
// overwrite an existing file.
func (s *JSONStore) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.state = newState()
	return s.save(s.state)
}

// Load reads the data file. A missing file is created with defaults; an
// unparseable file is an error and the in-memory state is left untouched.
func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("Data file not found, creating defaults", "path", s.path)
			st := newState()
			if err := s.save(st); err != nil {
				return err
			}
			s.state = st
			return nil
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	// Missing keys keep their defaults
	st := &State{Settings: models.DefaultSettings()}
	if err := json.Unmarshal(data, st); err != nil {
		return fmt.Errorf("failed to parse storage %s: %w", s.path, err)
	}
	st.normalize()

	s.state = st
	logger.Debug("Storage loaded", "path", s.path, "entries", len(st.Entries))
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// writeFileAtomic replaces path with data through a temp file in the same
// directory, creating parent directories as needed. An existing file keeps
// its mode; a new one is created 0600.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}
