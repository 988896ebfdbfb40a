package messages

// Config messages for configuration loading and validation.
const (
	// ConfigReadFailedFmt formats config read errors.
	ConfigReadFailedFmt       = "failed to read config file %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigHomeDirFailedFmt    = "resolve home directory: %w"
	ConfigExpandPathFailedFmt = "expand path %q: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys: %w"

	ConfigBackupMaxRetainedInvalidFmt = "%s: backup.max_retained must be a positive integer"
	ConfigOutputDiffLinesInvalidFmt   = "%s: output.diff_lines must be a positive integer"
	ConfigOutputNoiseModeInvalidFmt   = "%s: output.noise_mode must be one of default, quiet"
	ConfigLogLevelInvalidFmt          = "%s: log.level must be one of debug, info, warn, error"
	ConfigLogFormatInvalidFmt         = "%s: log.format must be one of text, json"
	ConfigWatchDebounceInvalidFmt     = "%s: watch.debounce must be a positive duration (e.g. \"300ms\")"

	ConfigNoiseModeDefaultDescription = "Print every warning"
	ConfigNoiseModeQuietDescription   = "Summarize warnings as a count; errors are always printed"
)
