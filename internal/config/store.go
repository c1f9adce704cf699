package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/gtatools/internal/constants"
)

// FileName is the settings file inside the data directory.
const FileName = "config.toml"

// DataDir returns the per-user directory holding settings, logs and the journal.
func DataDir() string {
	return configdir.LocalConfig(constants.StorageDirName)
}

// EnsureDataDir returns DataDir after creating it.
func EnsureDataDir() (string, error) {
	dir := DataDir()
	if err := configdir.MakePath(dir); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}

// Store reads and writes the settings file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore returns a store for the settings file at path. An empty path
// selects the file in DataDir.
func NewStore(path string) *Store {
	if path == "" {
		path = filepath.Join(DataDir(), FileName)
	}
	return &Store{path: path}
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings. A missing file yields the defaults; keys absent
// from the file keep their default values.
func (s *Store) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := Default()
	if _, err := toml.DecodeFile(s.path, &settings); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("path", s.path).Msg("No settings file, using defaults")
			return Default(), nil
		}
		return Default(), fmt.Errorf("decode %s: %w", s.path, err)
	}

	if err := settings.Validate(); err != nil {
		log.Warn().Err(err).Msg("Invalid save server IP in settings, using default")
		settings.SaveServerIP = constants.DefaultSaveServerIP
	}

	return settings, nil
}

// Save writes the settings through a temporary file so a crash never leaves
// a truncated file behind.
func (s *Store) Save(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp := s.path + "-new"
	//nolint:gosec // G304: path is the settings file chosen at startup
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create temporary settings file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", tmp).Msg("Failed to remove temporary settings file")
		}
	}()

	if err := toml.NewEncoder(f).Encode(settings); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temporary settings file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}

	log.Debug().Str("path", s.path).Msg("Settings saved")
	return nil
}
