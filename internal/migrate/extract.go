package migrate

import (
	"fmt"
	"strings"
	"time"

	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/settings"
)

// Origin names the legacy feature a candidate model came from.
type Origin string

// Legacy origins, in the order candidates are deduplicated.
const (
	OriginMain      Origin = "main"
	OriginConsensus Origin = "consensus"
	OriginCouncil   Origin = "council"
	OriginChair     Origin = "chair"
)

func (o Origin) label() string {
	switch o {
	case OriginMain:
		return "main model"
	case OriginChair:
		return "council chair"
	default:
		return string(o)
	}
}

// Extraction is the outcome of extracting one legacy model.
//
// CandidateID is assigned even when extraction fails. A failed candidate never
// reaches the id mapping, so anything that pointed at it is detected as dangling
// by the rewriter.
type Extraction struct {
	Origin      Origin
	CandidateID string
	// Model is set only when Success is true.
	Model    *settings.ModelConfiguration
	Success  bool
	Warnings []string
	Errors   []string
	// OriginalID is the legacy list id, empty for the main model.
	OriginalID      string
	OriginalWeight  float64
	OriginalEnabled bool
}

// BatchExtraction is the outcome of extracting a consensus or council list.
type BatchExtraction struct {
	Origin  Origin
	Present bool
	Results []Extraction
	// Slots holds every list position in order: legacy entries point at their
	// candidate id, entries already in reference form keep their registry id.
	Slots []ReferenceSlot
	// Attempted counts legacy entries; reference entries are not candidates.
	Attempted int
	Succeeded int
	Failed    int
}

func (b BatchExtraction) byOriginalID(id string) (Extraction, bool) {
	for _, result := range b.Results {
		if result.OriginalID == id {
			return result, true
		}
	}
	return Extraction{}, false
}

// ChairExtraction is the outcome of reading the council chair. While the pipeline
// runs, Chair.ConfiguredChairID holds a candidate or registry id.
type ChairExtraction struct {
	Present bool
	Chair   settings.ChairConfig
	// Label names the configured chair the way the legacy document did.
	Label string
	// Embedded is set when the chair carries its own legacy settings blob.
	Embedded *Extraction
	Warnings []string
}

type extractor struct {
	newID func() string
	now   func() time.Time
}

// ExtractMain reads the root-level legacy provider fields. absent reports that the
// document has none, so there is nothing to extract.
func (x extractor) ExtractMain(doc map[string]any) (result Extraction, absent bool) {
	present := false
	for _, key := range settings.LegacyRootKeys() {
		if settings.Has(doc, key) {
			present = true
			break
		}
	}
	if !present {
		return Extraction{Origin: OriginMain}, true
	}
	result = x.extractBlob(OriginMain, OriginMain.label(), doc, "", "")
	result.OriginalWeight = 1.0
	result.OriginalEnabled = true
	return result, false
}

// ExtractBatch reads a consensus or council list. Each entry is extracted on its own,
// so a malformed entry never prevents its siblings from being migrated.
func (x extractor) ExtractBatch(origin Origin, feature map[string]any) BatchExtraction {
	batch := BatchExtraction{Origin: origin}
	list, ok := settings.Slice(feature, settings.KeyModels)
	if !ok {
		return batch
	}
	batch.Present = true
	for index, item := range list {
		if ref, ok := settings.ParseReference(item); ok {
			batch.Slots = append(batch.Slots, ReferenceSlot{
				ModelID: ref.ModelID,
				Weight:  ref.Weight,
				Enabled: ref.Enabled,
				Label:   ref.ModelID,
			})
			continue
		}
		batch.Attempted++
		result := x.extractEntry(origin, index, item)
		if result.Success {
			batch.Succeeded++
		} else {
			batch.Failed++
		}
		batch.Results = append(batch.Results, result)
		batch.Slots = append(batch.Slots, ReferenceSlot{
			ModelID: result.CandidateID,
			Weight:  result.OriginalWeight,
			Enabled: result.OriginalEnabled,
			Label:   result.OriginalID,
			Legacy:  true,
		})
	}
	return batch
}

func (x extractor) extractEntry(origin Origin, index int, item any) Extraction {
	label := fmt.Sprintf("%s model #%d", origin.label(), index+1)
	entry, ok := item.(map[string]any)
	if !ok {
		return Extraction{
			Origin:          origin,
			CandidateID:     x.newID(),
			Errors:          []string{fmt.Sprintf(messages.ExtractEntryNotObjectFmt, label)},
			OriginalID:      fmt.Sprintf("%s-%d", origin, index),
			OriginalWeight:  1.0,
			OriginalEnabled: true,
		}
	}

	var warnings []string
	originalID, _ := settings.String(entry, "id")
	originalID = strings.TrimSpace(originalID)
	if originalID == "" {
		originalID = fmt.Sprintf("%s-%d", origin, index)
		warnings = append(warnings, fmt.Sprintf(messages.ExtractSynthesizedIDFmt, label, originalID))
	} else {
		label = fmt.Sprintf("%s model %q", origin.label(), originalID)
	}

	weight := 1.0
	if raw, present := entry["weight"]; present && raw != nil {
		if w, ok := settings.Float(entry, "weight"); ok && w > 0 {
			weight = w
		} else {
			warnings = append(warnings, fmt.Sprintf(messages.ExtractInvalidWeightFmt, label, raw))
		}
	}
	enabled := true
	if e, ok := settings.Bool(entry, "enabled"); ok {
		enabled = e
	}

	var result Extraction
	name := displayNameOf(entry)
	if blob, ok := settings.Map(entry, settings.KeySettingsBlob); ok {
		hint, _ := settings.String(entry, settings.KeyProvider)
		result = x.extractBlob(origin, label, blob, hint, name)
	} else if settings.Has(entry, settings.KeyProvider) {
		// Early list entries stored the provider fields flat on the entry.
		result = x.extractBlob(origin, label, entry, "", name)
	} else {
		result = Extraction{
			Origin:      origin,
			CandidateID: x.newID(),
			Errors:      []string{fmt.Sprintf(messages.ExtractEntryMissingSettingsFmt, label)},
		}
	}
	result.Warnings = append(warnings, result.Warnings...)
	result.OriginalID = originalID
	result.OriginalWeight = weight
	result.OriginalEnabled = enabled
	return result
}

func displayNameOf(entry map[string]any) string {
	for _, key := range []string{"displayName", "name"} {
		if name, ok := settings.String(entry, key); ok && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

// extractBlob reads one root-shaped settings blob. providerHint is used when the
// blob carries no provider tag; a non-empty displayName replaces the generated one.
func (x extractor) extractBlob(origin Origin, label string, blob map[string]any, providerHint string, displayName string) Extraction {
	result := Extraction{Origin: origin, CandidateID: x.newID()}
	rawProvider, _ := stringField(&result, label, blob, settings.KeyProvider)
	if strings.TrimSpace(rawProvider) == "" {
		rawProvider = providerHint
	}
	if strings.TrimSpace(rawProvider) == "" {
		result.Errors = append(result.Errors, fmt.Sprintf(messages.ExtractMissingProviderFmt, label))
		return result
	}
	kind, ok := settings.ParseProviderKind(rawProvider)
	if !ok {
		result.Errors = append(result.Errors, fmt.Sprintf(messages.ExtractUnknownProviderFmt, label, rawProvider))
		return result
	}

	cfg := settings.ProviderConfig{Provider: kind}
	cfg.APIKey = trimmedField(&result, label, blob, kind.APIKeyField())
	cfg.BaseURL = trimmedField(&result, label, blob, kind.BaseURLField())
	cfg.TextGenerationModel = trimmedField(&result, label, blob, kind.TextGenModelField())
	cfg.EmbeddingModel = trimmedField(&result, label, blob, kind.EmbeddingModelField())

	if cfg.TextGenerationModel == "" {
		result.Errors = append(result.Errors, fmt.Sprintf(messages.ExtractMissingTextGenModelFmt, label, kind.TextGenModelField()))
	}
	if kind.RequiresAPIKey() && cfg.APIKey == "" {
		result.Errors = append(result.Errors, fmt.Sprintf(messages.ExtractMissingAPIKeyFmt, label, kind.APIKeyField(), kind.Label()))
	}
	if len(result.Errors) > 0 {
		return result
	}
	if cfg.EmbeddingModel == "" {
		result.Warnings = append(result.Warnings, fmt.Sprintf(messages.ExtractMissingEmbeddingModelFmt, label, kind.Label()))
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = kind.DefaultBaseURL()
	}

	now := x.now().UnixMilli()
	model := settings.ModelConfiguration{
		ID:             result.CandidateID,
		ProviderConfig: cfg,
		CreatedAt:      now,
		ModifiedAt:     now,
	}
	if displayName != "" {
		model.DisplayName = displayName
	} else {
		model.DisplayName = settings.AutoDisplayName(cfg)
		model.IsAutoGeneratedName = true
	}
	result.Model = &model
	result.Success = true
	return result
}

// stringField reads an optional string, warning when the key holds another type.
func stringField(result *Extraction, label string, blob map[string]any, key string) (string, bool) {
	raw, present := blob[key]
	if !present || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf(messages.ExtractFieldWrongTypeFmt, label, key, "string", raw))
		return "", false
	}
	return s, true
}

func trimmedField(result *Extraction, label string, blob map[string]any, key string) string {
	s, _ := stringField(result, label, blob, key)
	return strings.TrimSpace(s)
}

// ExtractChair reads the council chair. A configured chair is resolved against the
// council list by legacy id and then against known registry ids. A chair that cannot
// be found is a warning and leaves the configured id unset.
func (x extractor) ExtractChair(council map[string]any, batch BatchExtraction, known func(string) bool) ChairExtraction {
	out := ChairExtraction{Chair: settings.ChairConfig{SelectionStrategy: settings.DefaultChairStrategy, SynthesisWeight: 1.0}}
	chair, ok := settings.Map(council, settings.KeyChairModel)
	if !ok {
		return out
	}
	out.Present = true

	if raw, ok := settings.String(chair, "selectionStrategy"); ok && strings.TrimSpace(raw) != "" {
		if strategy, valid := settings.ParseChairStrategy(raw); valid {
			out.Chair.SelectionStrategy = strategy
		} else {
			out.Warnings = append(out.Warnings, fmt.Sprintf(messages.ExtractInvalidStrategyFmt, raw, settings.DefaultChairStrategy))
		}
	}
	if weight, ok := settings.Float(chair, "synthesisWeight"); ok && weight > 0 {
		out.Chair.SynthesisWeight = weight
	}
	if index, ok := settings.Int(chair, "rotationIndex"); ok && index >= 0 {
		out.Chair.RotationIndex = &index
	}

	if blob, ok := settings.Map(chair, settings.KeySettingsBlob); ok {
		hint, _ := settings.String(chair, settings.KeyProvider)
		embedded := x.extractBlob(OriginChair, OriginChair.label(), blob, hint, displayNameOf(chair))
		embedded.OriginalWeight = out.Chair.SynthesisWeight
		embedded.OriginalEnabled = true
		out.Embedded = &embedded
	}

	if out.Chair.SelectionStrategy != settings.ChairConfigured {
		return out
	}

	configuredID, _ := settings.String(chair, "configuredChairId")
	configuredID = strings.TrimSpace(configuredID)
	out.Label = configuredID
	if configuredID == "" {
		if out.Embedded != nil {
			out.Label = OriginChair.label()
			out.Chair.ConfiguredChairID = out.Embedded.CandidateID
			return out
		}
		out.Warnings = append(out.Warnings, messages.ExtractChairMissingID)
		return out
	}
	if source, ok := batch.byOriginalID(configuredID); ok {
		out.Chair.ConfiguredChairID = source.CandidateID
		return out
	}
	if known(configuredID) {
		out.Chair.ConfiguredChairID = configuredID
		return out
	}
	if out.Embedded != nil {
		out.Chair.ConfiguredChairID = out.Embedded.CandidateID
		return out
	}
	out.Warnings = append(out.Warnings, fmt.Sprintf(messages.ExtractChairNotFoundFmt, configuredID))
	return out
}
