package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/recall-cli/internal/core/domain"
)

// SettingsStore persists application settings as a TOML file.
// Missing files and missing keys fall back to defaults, so a fresh
// install works without any configuration step.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewSettingsStore creates a TOML-backed settings store.
// If configDir is empty, defaults to ~/.recall.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".recall")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads settings from disk. Keys absent from the file keep their
// default values; a missing file yields pure defaults.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("parse config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return domain.DefaultSettings(), fmt.Errorf("invalid config %s: %w", s.filePath, err)
	}

	return settings, nil
}

// Save validates and persists settings to disk.
func (s *SettingsStore) Save(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Restricted permissions; the file may name API key variables.
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}
