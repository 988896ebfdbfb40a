package config

import (
	"fmt"
	"time"

	"github.com/conn-castle/quizmodels/internal/messages"
)

// Validate ensures every set field holds an acceptable value.
func (c *Config) Validate(path string) error {
	if c.Backup.MaxRetained != nil && *c.Backup.MaxRetained <= 0 {
		return fmt.Errorf(messages.ConfigBackupMaxRetainedInvalidFmt, path)
	}
	if c.Output.DiffLines != nil && *c.Output.DiffLines <= 0 {
		return fmt.Errorf(messages.ConfigOutputDiffLinesInvalidFmt, path)
	}
	if !isValidOption("output.noise_mode", c.Output.NoiseMode) {
		return fmt.Errorf(messages.ConfigOutputNoiseModeInvalidFmt, path)
	}
	if !isValidOption("log.level", c.Log.Level) {
		return fmt.Errorf(messages.ConfigLogLevelInvalidFmt, path)
	}
	if !isValidOption("log.format", c.Log.Format) {
		return fmt.Errorf(messages.ConfigLogFormatInvalidFmt, path)
	}
	if c.Watch.Debounce != "" {
		d, err := time.ParseDuration(c.Watch.Debounce)
		if err != nil || d <= 0 {
			return fmt.Errorf(messages.ConfigWatchDebounceInvalidFmt, path)
		}
	}
	return nil
}
