package messages

// Report messages for rendering migration results.
const (
	ReportStateFmt          = "Migration %s (%s)\n"
	ReportNotNeededFmt      = "No migration needed (%s)\n"
	ReportModelsFmt         = "Models: %d extracted, %d unique, %d duplicate(s) merged\n"
	ReportRegistryFmt       = "Registry: %d reused, %d inserted\n"
	ReportDroppedFmt        = "References dropped: %d\n"
	ReportBackupFmt         = "Backup: %s\n"
	ReportMergesHeader      = "Merged duplicates:"
	ReportMergeLineFmt      = "  - %s %q <- %s [%s]\n"
	ReportPrunedHeader      = "Pruned legacy fields:"
	ReportWarningsFmt       = "Warnings (%d):\n"
	ReportErrorsFmt         = "Errors (%d):\n"
	ReportItemFmt           = "  - %s\n"
	ReportQuietWarningsFmt  = "%d warning(s) hidden by output.noise_mode = quiet; rerun with --json to see them\n"
	ReportDiffTruncatedFmt  = "... (truncated to %d lines; rerun with --diff-lines <n> to see more)"
	ReportDiffNoChanges     = "No changes."
	ReportDiffBeforeNameFmt = "%s (current)"
	ReportDiffAfterNameFmt  = "%s (migrated)"
	ReportEncodeFailedFmt   = "encode settings for diff: %w"
)
