package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/quizmodels/internal/messages"
)

// EnvConfigPath names the environment variable that overrides the config location.
const EnvConfigPath = "QM_CONFIG"

// DefaultPath returns ~/.config/qm/config.toml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf(messages.ConfigHomeDirFailedFmt, err)
	}
	return filepath.Join(home, ".config", "qm", "config.toml"), nil
}

// ExpandPath expands a leading ~ and cleans the result. Empty input stays empty.
func ExpandPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandPathFailedFmt, path, err)
	}
	return filepath.Clean(expanded), nil
}

// BackupDir returns the configured backup directory with ~ expanded, or empty when
// the default location next to the settings file should be used.
func (c *Config) BackupDir() (string, error) {
	return ExpandPath(c.Backup.Dir)
}
