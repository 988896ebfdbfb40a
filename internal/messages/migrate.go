package messages

// Migration engine messages. Warnings and errors produced here end up verbatim in
// Result.Warnings and Result.Errors, so they name the source and the
// legacy field involved.
const (
	MigrateSettingsUnrecognizedFmt = "settings shape not recognized (%s); nothing was migrated"

	// Extraction failures, scoped to one candidate.
	ExtractMissingProviderFmt      = "%s: missing provider"
	ExtractUnknownProviderFmt      = "%s: unknown provider %q"
	ExtractMissingTextGenModelFmt  = "%s: missing %s (generation model is required)"
	ExtractMissingAPIKeyFmt        = "%s: missing %s (required for %s)"
	ExtractEntryNotObjectFmt       = "%s: entry is not an object"
	ExtractEntryMissingSettingsFmt = "%s: entry has neither an embedded settings blob nor a modelId"

	// Extraction warnings.
	ExtractMissingEmbeddingModelFmt = "%s: no embedding model configured for %s"
	ExtractFieldWrongTypeFmt        = "%s: ignoring %s (expected %s, got %T)"
	ExtractSynthesizedIDFmt         = "%s: entry has no id; using %q"
	ExtractInvalidWeightFmt         = "%s: invalid weight %v; using 1.0"
	ExtractInvalidStrategyFmt       = "council chair: unknown selection strategy %q; using %q"
	ExtractChairNotFoundFmt         = "council chair: configured chair %q was not found among council models; chair must be reconfigured"
	ExtractChairMissingID           = "council chair: selection strategy is configured but no chair id is set; chair must be reconfigured"

	// Source-level failures.
	MigrateSourceAllFailedFmt     = "%s: all %d legacy model(s) failed extraction"
	MigrateEntryDroppedFmt        = "%s: reference for %q dropped because its model could not be migrated"
	MigrateMainModelFailed        = "main model could not be migrated; the active model must be selected manually"
	MigrateActiveModelDanglingFmt = "active model %q is not in the model registry; the active model must be selected manually"

	// Registry handling.
	RegistryEntryMalformedFmt = "model registry entry %q is malformed and was left untouched"
	RegistryIDCollisionFmt    = "generated model id %q collides with an existing registry entry"

	// Reference rewriting.
	RewriteReferenceDanglingFmt = "%s: reference to %q dropped because the model does not exist in the registry"
	RewriteChairClearedFmt      = "council chair: configured chair %q could not be resolved to a registry model; chair must be reconfigured"

	// Orchestrator boundary.
	MigrateBackupFailedFmt    = "backup failed, nothing was migrated: %s"
	MigrateInternalErrorFmt   = "migration aborted during %s: %v"
	MigrateRegistryInvalidFmt = "model registry is invalid and will be rebuilt: %s"
)
