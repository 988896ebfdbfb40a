package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "qm"
	// RootShort is the short description for the root command.
	RootShort = "Migrate and inspect quiz generator model settings"
	RootLong  = "qm converts legacy quiz generator settings, where every feature embeds its own provider credentials, into a deduplicated model registry with lightweight references."

	RootFlagConfig    = "Path to the qm config file (default ~/.config/qm/config.toml)"
	RootFlagLogLevel  = "Log level: debug, info, warn, error"
	RootFlagLogFormat = "Log format: text or json"
	RootFlagNoColor   = "Disable colored output"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	SettingsPathRequired   = "a settings file path is required"
	SettingsReadFailedFmt  = "failed to read settings %s: %w"
	SettingsWriteFailedFmt = "failed to write settings %s: %w"

	// MigrateUse is the migrate command usage.
	MigrateUse   = "migrate <settings.json>"
	MigrateShort = "Migrate legacy model settings into the model registry"

	MigrateFlagDryRun    = "Run the migration without writing the settings file or a backup"
	MigrateFlagDiff      = "Print a unified diff of the settings before and after migration"
	MigrateFlagDiffLines = "Maximum diff lines to print (0 uses the configured default)"
	MigrateFlagJSON      = "Print the migration result as JSON"
	MigrateFlagYes       = "Apply without prompting for confirmation"
	MigrateFlagNoBackup  = "Skip the pre-migration backup (not recommended)"
	MigrateFlagBackupDir = "Directory for settings backups (default <settings dir>/.qm-backups)"

	MigrateApplyPrompt      = "Write the migrated settings?"
	MigrateAppliedFmt       = "Wrote migrated settings to %s\n"
	MigrateBackupCreatedFmt = "Backup created: %s\nRestore with: qm rollback %s %s\n"
	MigrateDryRunNotice     = "Dry run: settings were not written."
	MigrateDeclined         = "Migration not applied."
	MigrateFailedError      = "migration failed; settings were left unchanged"
	MigrateBackupRequired   = "--no-backup is not allowed while migrate.require_backup is true"
	MigrateRequiresTerminal = "migrate confirmation requires an interactive terminal; re-run with --yes to apply without prompting"

	// DetectUse is the detect command usage.
	DetectUse           = "detect <settings.json>"
	DetectShort         = "Report the settings shape, version and legacy markers"
	DetectFlagJSON      = "Print the detection result as JSON"
	DetectShapeFmt      = "Shape:    %s\n"
	DetectVersionFmt    = "Version:  %d\n"
	DetectNeedsFmt      = "Migrate:  %t\n"
	DetectMarkerFmt     = "  - %s\n"
	DetectMarkersHeader = "Legacy markers:"

	// FingerprintUse is the fingerprint command usage.
	FingerprintUse     = "fingerprint <settings.json>"
	FingerprintShort   = "List registry models with their configuration fingerprints"
	FingerprintLineFmt = "%s  %-36s  %s\n"
	FingerprintEmpty   = "The model registry is empty."

	// BackupsUse is the backups command group.
	BackupsUse         = "backups"
	BackupsShort       = "Manage settings backups"
	BackupsListUse     = "list <settings.json>"
	BackupsListShort   = "List backups of a settings file, newest first"
	BackupsListEmpty   = "No backups found."
	BackupsListLineFmt = "%s  %s  %s\n"

	// RollbackUse is the rollback command usage.
	RollbackUse     = "rollback <settings.json> <snapshot-id>"
	RollbackShort   = "Restore a settings file from a backup snapshot"
	RollbackDoneFmt = "Restored %s from snapshot %s\n"

	// WatchUse is the watch command usage.
	WatchUse          = "watch <settings.json>"
	WatchShort        = "Migrate a settings file whenever it changes"
	WatchFlagDebounce = "Quiet period before re-running the migration after a change"
	WatchStartedFmt   = "Watching %s (Ctrl+C to stop)\n"
	WatchRunFailedFmt = "watch: %v\n"

	// PromptRequiresTerminal is returned when a prompt runs without a TTY.
	PromptRequiresTerminal = "prompts require an interactive terminal"
	PromptCancelled        = "cancelled"
)
