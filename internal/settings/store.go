package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/zalando/go-keyring"
)

// Store is a JSON-backed key-value store for user preferences. All values
// are strings; callers own the parsing. Writes go through a temporary file
// and a rename so a crash mid-save never corrupts the settings file.
type Store struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
	logger *slog.Logger
}

// Open loads the settings file at path, creating an empty store when the
// file does not exist yet.
func Open(path string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]string),
		logger: logger.With(slog.String(config.LogKeyComponent, config.CompSettings)),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("%s: %w", config.ErrSettingsLoad, err)
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSettingsLoad, err)
	}
	return s, nil
}

// DefaultPath resolves the settings file location under the user config dir,
// creating the application directory if needed.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrConfigDir, err)
	}
	dir := filepath.Join(base, config.AppName)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(dir, config.SettingsFileName), nil
}

// Get returns the value for key, or fallback when the key is unset or empty.
func (s *Store) Get(key, fallback string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Set stores the value and persists the whole file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.saveLocked()
}

// Delete removes a key and persists the whole file. Deleting an absent key
// is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.values, "", config.JSONIndent)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSettingsSave, err)
	}
	tmp := s.path + config.TmpSuffix
	if err := os.WriteFile(tmp, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSettingsSave, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSettingsSave, err)
	}
	s.logger.Debug(config.MsgSettingsSaved, slog.String(config.LogKeyFile, s.path))
	return nil
}

// SetSourcePassword stores the remote roster credential in the system
// keyring. Secrets never touch the settings file.
func SetSourcePassword(password string) error {
	if err := keyring.Set(config.KeyringService, config.KeyringSourceUser, password); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringAccess, err)
	}
	return nil
}

// SourcePassword reads the remote roster credential from the system keyring.
// A missing entry is not an error; it returns the empty string.
func SourcePassword() (string, error) {
	secret, err := keyring.Get(config.KeyringService, config.KeyringSourceUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", config.ErrKeyringAccess, err)
	}
	return secret, nil
}

// DeleteSourcePassword removes the stored credential, ignoring absence.
func DeleteSourcePassword() error {
	err := keyring.Delete(config.KeyringService, config.KeyringSourceUser)
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("%s: %w", config.ErrKeyringAccess, err)
	}
	return nil
}
