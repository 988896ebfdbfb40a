package messages

// Backup messages for settings snapshots.
const (
	BackupSystemRequired            = "backup system is required"
	BackupSourceRequired            = "settings path is required for backups"
	BackupSnapshotIDRequired        = "backup snapshot id is required"
	BackupSnapshotIDInvalidFmt      = "invalid snapshot id %q: must not contain path separators"
	BackupSnapshotNotFoundFmt       = "backup snapshot %s not found under %s"
	BackupFailedReadFmt             = "failed to read %s: %w"
	BackupFailedWriteFmt            = "failed to write %s: %w"
	BackupFailedCreateDirFmt        = "failed to create directory %s: %w"
	BackupFailedListFmt             = "failed to list backups in %s: %w"
	BackupDecodeFmt                 = "decode backup snapshot %s: %w"
	BackupValidateFmt               = "validate backup snapshot %s: %w"
	BackupRestoreFailedFmt          = "restore snapshot %s failed: %w"
	BackupSnapshotSourceMismatchFmt = "backup snapshot %s belongs to %s, not %s"
)
