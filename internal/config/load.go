package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/quizmodels/internal/messages"
)

// ErrConfigValidation is a sentinel that wraps config validation failures
// (as opposed to TOML syntax or filesystem errors).
var ErrConfigValidation = errors.New("config validation failed")

// Output noise modes.
const (
	NoiseModeDefault = "default"
	NoiseModeQuiet   = "quiet"
)

const (
	defaultDiffLines = 200
	defaultDebounce  = 300 * time.Millisecond
)

// Config is the qm configuration file.
type Config struct {
	Backup  BackupConfig  `toml:"backup"`
	Output  OutputConfig  `toml:"output"`
	Log     LogConfig     `toml:"log"`
	Migrate MigrateConfig `toml:"migrate"`
	Watch   WatchConfig   `toml:"watch"`
}

// BackupConfig controls where snapshots are written and how many are kept.
type BackupConfig struct {
	// Dir overrides the default backup directory next to the settings file.
	Dir         string `toml:"dir"`
	MaxRetained *int   `toml:"max_retained"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	DiffLines *int   `toml:"diff_lines"`
	NoiseMode string `toml:"noise_mode"`
	Color     *bool  `toml:"color"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MigrateConfig controls migration safety checks.
type MigrateConfig struct {
	RequireBackup *bool `toml:"require_backup"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce string `toml:"debounce"`
}

// Load reads and validates the config at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses and validates config TOML data from a source identifier.
// data is the TOML content; source is used in error messages.
func ParseConfig(data []byte, source string) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return &cfg, nil
}

// decodeStrict re-decodes the TOML data with strict unknown-field rejection, so a
// misspelled key is reported instead of silently ignored.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}

// BackupMaxRetained returns the snapshot retention limit.
func (c *Config) BackupMaxRetained() int {
	if c.Backup.MaxRetained == nil {
		return 20
	}
	return *c.Backup.MaxRetained
}

// DiffLines returns the maximum number of diff lines to print.
func (c *Config) DiffLines() int {
	if c.Output.DiffLines == nil {
		return defaultDiffLines
	}
	return *c.Output.DiffLines
}

// NoiseMode returns the configured output noise mode.
func (c *Config) NoiseMode() string {
	if c.Output.NoiseMode == "" {
		return NoiseModeDefault
	}
	return c.Output.NoiseMode
}

// ColorEnabled reports whether colored output is allowed.
func (c *Config) ColorEnabled() bool {
	return c.Output.Color == nil || *c.Output.Color
}

// LogLevel returns the configured log level name.
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return "warn"
	}
	return c.Log.Level
}

// LogFormat returns the configured log format name.
func (c *Config) LogFormat() string {
	if c.Log.Format == "" {
		return "text"
	}
	return c.Log.Format
}

// RequireBackup reports whether migrations must take a backup before writing.
func (c *Config) RequireBackup() bool {
	return c.Migrate.RequireBackup == nil || *c.Migrate.RequireBackup
}

// WatchDebounce returns the quiet period before a changed file is re-migrated.
func (c *Config) WatchDebounce() time.Duration {
	if c.Watch.Debounce == "" {
		return defaultDebounce
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}
	return d
}
