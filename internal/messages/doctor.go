package messages

// Doctor messages for the doctor command.
const (
	// DoctorUse is the doctor command name.
	DoctorUse   = "doctor <settings.json>"
	DoctorShort = "Check migrated settings for duplicates, dangling references and leftover legacy fields"

	DoctorHealthCheckFmt = "Checking model settings in %s...\n"

	DoctorCheckNameVersion    = "Version"
	DoctorCheckNameLegacy     = "Legacy"
	DoctorCheckNameRegistry   = "Registry"
	DoctorCheckNameDuplicates = "Duplicates"
	DoctorCheckNameActive     = "ActiveModel"
	DoctorCheckNameReferences = "References"
	DoctorCheckNameChair      = "Chair"

	DoctorNotObject          = "Settings file does not contain a JSON object"
	DoctorNotObjectRecommend = "Restore the settings from a backup with `qm rollback`."

	DoctorVersionCurrentFmt = "Settings version %d is current"
	DoctorVersionBehindFmt  = "Settings version %d is behind %d"
	DoctorVersionRecommend  = "Run `qm migrate` on this settings file."
	DoctorLegacyFieldsFmt   = "Legacy fields still present: %s"
	DoctorLegacyRecommend   = "Run `qm migrate` to move them into the model registry."
	DoctorNoLegacyFields    = "No legacy fields present"

	DoctorRegistryMissing      = "No model registry present"
	DoctorRegistryInvalidFmt   = "Model registry is invalid: %v"
	DoctorRegistryLoadedFmt    = "Model registry holds %d model(s)"
	DoctorRegistryMalformedFmt = "Registry entry %q is malformed"
	DoctorRegistryRecommend    = "Run `qm migrate` to rebuild the registry, or fix the entry by hand."

	DoctorDuplicatesFmt       = "Models %s share one configuration (%s)"
	DoctorDuplicatesRecommend = "Keep one of them and point references at it; qm never creates duplicates itself."
	DoctorNoDuplicates        = "No duplicate model configurations"

	DoctorActiveMissingFmt = "Active model %q is not in the registry"
	DoctorActiveRecommend  = "Select an active model in the quiz generator settings."
	DoctorActiveOKFmt      = "Active model %q resolves"
	DoctorActiveUnset      = "No active model selected"

	DoctorReferenceDanglingFmt  = "%s reference %q points at a missing model"
	DoctorReferenceRecommendFmt = "Remove or re-select the model in the %s settings."
	DoctorReferencesOKFmt       = "%s references resolve (%d)"

	DoctorChairDanglingFmt = "Configured chair %q is not in the registry"
	DoctorChairUnsetFmt    = "Chair strategy is %s but no chair is configured"
	DoctorChairRecommend   = "Pick a chair model in the council settings."
	DoctorChairOKFmt       = "Chair strategy %s"

	DoctorStatusOKLabel        = "[OK]  "
	DoctorStatusWarnLabel      = "[WARN]"
	DoctorStatusFailLabel      = "[FAIL]"
	DoctorResultLineFmt        = "%s %-12s %s\n"
	DoctorRecommendationPrefix = "       -> "
	DoctorRecommendationIndent = "          "

	DoctorFailureSummary = "Some checks failed."
	DoctorFailureError   = "doctor checks failed"
	DoctorSuccessSummary = "All checks passed."
)
