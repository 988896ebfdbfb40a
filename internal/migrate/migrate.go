package migrate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/settings"
)

// State is a step of the migration state machine.
type State string

// Migration states. A run moves strictly forward; FAILED is terminal.
const (
	StateNotNeeded  State = "NOT_NEEDED"
	StateDetecting  State = "DETECTING"
	StateBackingUp  State = "BACKING_UP"
	StateExtracting State = "EXTRACTING"
	StateDeduping   State = "DEDUPING"
	StateMatching   State = "MATCHING"
	StateRewriting  State = "REWRITING"
	StatePruning    State = "PRUNING"
	StateVersioning State = "VERSIONING"
	StateDone       State = "DONE"
	StateFailed     State = "FAILED"
)

// maxIDAttempts bounds retries when the id generator returns a taken id.
const maxIDAttempts = 16

// BackupService stores a snapshot of the settings before anything is changed.
type BackupService interface {
	// CreateBackup persists snapshot and returns where it was stored.
	CreateBackup(ctx context.Context, snapshot any) (string, error)
}

// Stats counts what a run extracted, merged and rewrote.
type Stats struct {
	MainModelExtracted       int `json:"mainModelExtracted"`
	ConsensusModelsExtracted int `json:"consensusModelsExtracted"`
	CouncilModelsExtracted   int `json:"councilModelsExtracted"`
	ChairModelsExtracted     int `json:"chairModelsExtracted"`
	ExtractionFailures       int `json:"extractionFailures"`
	TotalBeforeDedup         int `json:"totalBeforeDedup"`
	TotalAfterDedup          int `json:"totalAfterDedup"`
	DuplicatesRemoved        int `json:"duplicatesRemoved"`
	ReusedFromRegistry       int `json:"reusedFromRegistry"`
	InsertedIntoRegistry     int `json:"insertedIntoRegistry"`
	ReferencesDropped        int `json:"referencesDropped"`
}

// Result is the outcome of one migration run.
//
// Settings is always safe to persist: the migrated document on success and the
// untouched input otherwise.
type Result struct {
	Migrated     bool     `json:"migrated"`
	Success      bool     `json:"success"`
	State        State    `json:"state"`
	Shape        string   `json:"shape"`
	Settings     any      `json:"settings"`
	Warnings     []string `json:"warnings"`
	Errors       []string `json:"errors"`
	Stats        Stats    `json:"stats"`
	BackupPath   string   `json:"backupPath,omitempty"`
	PrunedFields []string `json:"prunedFields,omitempty"`
	Merges       []Merge  `json:"merges,omitempty"`
}

// Options configures a Migrator. Zero values select the defaults.
type Options struct {
	// Backup runs before any mutation. Nil skips the backup step.
	Backup BackupService
	Logger *slog.Logger
	// NewID generates ids for new registry entries.
	NewID func() string
	Now   func() time.Time
}

// Migrator converts legacy settings documents into registry form.
type Migrator struct {
	backup BackupService
	logger *slog.Logger
	newID  func() string
	now    func() time.Time
}

// New returns a Migrator configured by opts.
func New(opts Options) *Migrator {
	m := &Migrator{backup: opts.Backup, logger: opts.Logger, newID: opts.NewID, now: opts.Now}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.newID == nil {
		m.newID = uuid.NewString
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// run carries the state of one migration.
type run struct {
	m        *Migrator
	state    State
	result   Result
	snapshot map[string]any
}

func (r *run) transition(next State) {
	r.m.logger.Debug("migration state", "from", r.state, "to", next)
	r.state = next
	r.result.State = next
}

func (r *run) warn(lines ...string) {
	r.result.Warnings = append(r.result.Warnings, lines...)
}

func (r *run) fail(errs ...string) Result {
	r.transition(StateFailed)
	r.result.Errors = append(r.result.Errors, errs...)
	r.result.Migrated = false
	r.result.Success = false
	r.result.Settings = settings.CloneMap(r.snapshot)
	return r.result
}

// Migrate runs the migration pipeline on input. It never modifies input and never
// panics; every failure is reported through the returned Result.
func (m *Migrator) Migrate(ctx context.Context, input any) Result {
	r := &run{m: m, result: Result{Warnings: []string{}, Errors: []string{}}}
	r.transition(StateDetecting)

	shape := settings.DetectShape(input)
	r.result.Shape = shape.Name()
	if unrecognized, ok := shape.(settings.UnrecognizedShape); ok {
		r.transition(StateFailed)
		r.result.Settings = map[string]any{}
		r.result.Errors = append(r.result.Errors, fmt.Sprintf(messages.MigrateSettingsUnrecognizedFmt, unrecognized.Reason))
		return r.result
	}
	if !settings.NeedsMigration(shape) {
		r.transition(StateNotNeeded)
		r.result.Success = true
		r.result.Settings = settings.DeepCopy(input)
		return r.result
	}

	r.snapshot = settings.CloneMap(input.(map[string]any))

	r.transition(StateBackingUp)
	if m.backup != nil {
		path, err := m.backup.CreateBackup(ctx, settings.CloneMap(r.snapshot))
		if err != nil {
			m.logger.Error("settings backup failed", "error", err)
			return r.fail(fmt.Sprintf(messages.MigrateBackupFailedFmt, err))
		}
		r.result.BackupPath = path
	}

	migrated, fatal, err := r.pipeline(shape)
	if err != nil {
		m.logger.Error("migration aborted", "state", r.state, "error", err)
		return r.fail(err.Error())
	}
	if len(fatal) > 0 {
		return r.fail(fatal...)
	}

	r.transition(StateDone)
	r.result.Migrated = true
	r.result.Success = true
	r.result.Settings = migrated
	m.logger.Info("settings migrated",
		"models", r.result.Stats.TotalAfterDedup,
		"inserted", r.result.Stats.InsertedIntoRegistry,
		"warnings", len(r.result.Warnings),
		"errors", len(r.result.Errors))
	return r.result
}

// pipeline runs EXTRACTING through VERSIONING on a private copy of the snapshot.
// fatal lists the errors that make the run unsuccessful; err reports a recovered
// panic.
func (r *run) pipeline(shape settings.Shape) (migrated map[string]any, fatal []string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			migrated = nil
			err = fmt.Errorf(messages.MigrateInternalErrorFmt, r.state, recovered)
		}
	}()

	doc := settings.CloneMap(r.snapshot)
	registry, registryDoc := r.existingRegistry(shape, doc)

	taken := make(map[string]bool, len(registryDoc))
	for id := range registryDoc {
		taken[id] = true
	}
	known := func(id string) bool { return taken[id] }
	x := extractor{newID: r.uniqueID(taken), now: r.m.now}

	r.transition(StateExtracting)
	main, mainAbsent := x.ExtractMain(doc)
	consensusDoc, _ := settings.Map(doc, settings.KeyConsensusSettings)
	councilDoc, _ := settings.Map(doc, settings.KeyCouncilSettings)
	consensus := x.ExtractBatch(OriginConsensus, consensusDoc)
	council := x.ExtractBatch(OriginCouncil, councilDoc)
	chair := x.ExtractChair(councilDoc, council, known)

	var candidates []Candidate
	collect := func(result Extraction) {
		r.warn(result.Warnings...)
		r.result.Errors = append(r.result.Errors, result.Errors...)
		if !result.Success {
			r.result.Stats.ExtractionFailures++
			return
		}
		candidates = append(candidates, Candidate{Model: *result.Model, Origin: result.Origin, OriginalID: result.OriginalID})
	}
	if !mainAbsent {
		collect(main)
		if main.Success {
			r.result.Stats.MainModelExtracted = 1
		} else {
			r.warn(messages.MigrateMainModelFailed)
		}
	}
	for _, batch := range []BatchExtraction{consensus, council} {
		for _, result := range batch.Results {
			collect(result)
		}
		if batch.Attempted > 0 && batch.Succeeded == 0 {
			fatal = append(fatal, fmt.Sprintf(messages.MigrateSourceAllFailedFmt, batch.Origin, batch.Attempted))
		}
	}
	r.result.Stats.ConsensusModelsExtracted = consensus.Succeeded
	r.result.Stats.CouncilModelsExtracted = council.Succeeded
	r.warn(chair.Warnings...)
	if chair.Embedded != nil {
		collect(*chair.Embedded)
		if chair.Embedded.Success {
			r.result.Stats.ChairModelsExtracted = 1
		} else {
			fatal = append(fatal, fmt.Sprintf(messages.MigrateSourceAllFailedFmt, OriginChair.label(), 1))
		}
	}
	if len(fatal) > 0 {
		return nil, fatal, nil
	}

	r.transition(StateDeduping)
	deduped := Dedupe(candidates)
	r.result.Merges = deduped.Merges
	r.result.Stats.TotalBeforeDedup = deduped.Stats.TotalBefore
	r.result.Stats.TotalAfterDedup = deduped.Stats.TotalAfter
	r.result.Stats.DuplicatesRemoved = deduped.Stats.DuplicatesRemoved
	for _, merge := range deduped.Merges {
		r.m.logger.Debug("merged duplicate models", "canonical", merge.CanonicalID, "merged", merge.MergedIDs, "origins", merge.Origins)
	}

	r.transition(StateMatching)
	matched := MatchAgainstRegistry(deduped.UniqueModels, registry)
	r.result.Stats.ReusedFromRegistry = matched.Stats.Reused
	r.result.Stats.InsertedIntoRegistry = matched.Stats.Inserted
	for _, model := range matched.ToInsert {
		registryDoc[model.ID] = model.ToValue()
	}
	existing := make([]string, 0, len(taken))
	for id := range taken {
		existing = append(existing, id)
	}
	mapping := deduped.IDMapping.Then(matched.IDMapping).Union(IdentityMapping(existing))

	r.transition(StateRewriting)
	doc[settings.KeyModelRegistry] = registryValue(shape, doc, registryDoc, registry.Version)
	for _, batch := range []BatchExtraction{consensus, council} {
		if !batch.Present {
			continue
		}
		rewritten := RewriteReferences(string(batch.Origin), batch.Slots, mapping)
		r.warn(rewritten.Warnings...)
		r.result.Stats.ReferencesDropped += rewritten.Dropped
		feature := settings.KeyConsensusSettings
		if batch.Origin == OriginCouncil {
			feature = settings.KeyCouncilSettings
		}
		section, _ := settings.Map(doc, feature)
		section[settings.KeyModels] = settings.ReferencesToValue(rewritten.References)
	}
	if chair.Present {
		rewrittenChair, warnings := RewriteChair(chair.Chair, mapping, chair.Label)
		r.warn(warnings...)
		chairDoc, _ := settings.Map(councilDoc, settings.KeyChairModel)
		councilDoc[settings.KeyChairModel] = rewrittenChair.ApplyTo(chairDoc)
	}
	r.rewriteActiveModel(doc, main, mapping)

	r.transition(StatePruning)
	doc, r.result.PrunedFields = PruneLegacyFields(doc)

	r.transition(StateVersioning)
	doc[settings.KeySettingsVersion] = int(settings.CurrentVersion)
	return doc, nil, nil
}

// existingRegistry returns the parsed registry and a private copy of its models
// document. Malformed entries stay in the document untouched and are reported.
func (r *run) existingRegistry(shape settings.Shape, doc map[string]any) (settings.Registry, map[string]any) {
	var registry settings.Registry
	var malformed []string
	switch s := shape.(type) {
	case settings.LegacyShape:
		if s.RegistryError != "" {
			r.warn(fmt.Sprintf(messages.MigrateRegistryInvalidFmt, s.RegistryError))
		}
		return settings.NewRegistry(), map[string]any{}
	case settings.RegistryV1Shape:
		registry, malformed = s.Registry, s.Malformed
	case settings.RegistryV2Shape:
		registry, malformed = s.Registry, s.Malformed
	default:
		return settings.NewRegistry(), map[string]any{}
	}
	for _, id := range malformed {
		r.warn(fmt.Sprintf(messages.RegistryEntryMalformedFmt, id))
	}
	models, _ := settings.Map(doc, settings.KeyModelRegistry, settings.KeyModels)
	return registry, settings.CloneMap(models)
}

// registryValue rebuilds the registry object around models, keeping any other keys
// an existing valid registry carried.
func registryValue(shape settings.Shape, doc map[string]any, models map[string]any, version int) map[string]any {
	out := map[string]any{}
	if _, legacy := shape.(settings.LegacyShape); !legacy {
		if existing, ok := settings.Map(doc, settings.KeyModelRegistry); ok {
			out = settings.CloneMap(existing)
		}
	}
	out[settings.KeyModels] = models
	if _, ok := settings.Int(out, "version"); !ok {
		out["version"] = version
	}
	return out
}

// rewriteActiveModel points activeModelId at a registry entry. A still-valid existing
// pointer wins over the legacy main model; otherwise the main model's canonical id is
// used. A pointer that cannot be resolved is removed with a warning.
func (r *run) rewriteActiveModel(doc map[string]any, main Extraction, mapping IDMapping) {
	if current, ok := settings.String(doc, settings.KeyActiveModelID); ok && current != "" {
		if id, ok := mapping.Lookup(current); ok {
			doc[settings.KeyActiveModelID] = id
			return
		}
		if !main.Success {
			delete(doc, settings.KeyActiveModelID)
			r.warn(fmt.Sprintf(messages.MigrateActiveModelDanglingFmt, current))
			return
		}
	}
	if !main.Success {
		return
	}
	id, ok := mapping.Lookup(main.CandidateID)
	if !ok {
		delete(doc, settings.KeyActiveModelID)
		r.warn(fmt.Sprintf(messages.MigrateActiveModelDanglingFmt, main.CandidateID))
		return
	}
	doc[settings.KeyActiveModelID] = id
}

// uniqueID wraps the id generator so new entries never reuse an id present in the
// registry or handed out earlier in the run.
func (r *run) uniqueID(taken map[string]bool) func() string {
	issued := map[string]bool{}
	return func() string {
		for attempt := 0; attempt < maxIDAttempts; attempt++ {
			id := r.m.newID()
			if id != "" && !taken[id] && !issued[id] {
				issued[id] = true
				return id
			}
			r.warn(fmt.Sprintf(messages.RegistryIDCollisionFmt, id))
		}
		panic(fmt.Sprintf("no unused model id after %d attempts", maxIDAttempts))
	}
}
