package settings

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Document keys shared by every settings version.
const (
	KeyProvider          = "provider"
	KeySettingsVersion   = "settingsVersion"
	KeyModelRegistry     = "modelRegistry"
	KeyActiveModelID     = "activeModelId"
	KeyConsensusSettings = "consensusSettings"
	KeyCouncilSettings   = "councilSettings"
	KeyModels            = "models"
	KeyChairModel        = "chairModel"
	KeySettingsBlob      = "settings"
	KeyModelID           = "modelId"
)

// Version is the settings schema level stored under settingsVersion.
type Version int

// Versioning levels.
const (
	// VersionLegacy has no registry; every feature embeds provider settings.
	VersionLegacy Version = 0
	// VersionRegistryV1 has a registry; legacy fields may still linger.
	VersionRegistryV1 Version = 1
	// VersionRegistryV2 is fully migrated with legacy fields pruned.
	VersionRegistryV2 Version = 2
	// CurrentVersion is stamped on every successfully migrated document.
	CurrentVersion = VersionRegistryV2
)

// RegistrySchemaVersion is the version written into newly created registries.
const RegistrySchemaVersion = 1

// ErrNotObject reports a value that should have been a JSON object.
var ErrNotObject = errors.New("not an object")

// ProviderConfig is the functional configuration of one model, discriminated by Provider.
type ProviderConfig struct {
	Provider            ProviderKind `json:"provider"`
	APIKey              string       `json:"apiKey,omitempty"`
	BaseURL             string       `json:"baseUrl"`
	TextGenerationModel string       `json:"textGenerationModel"`
	EmbeddingModel      string       `json:"embeddingModel,omitempty"`
}

// ModelConfiguration is one registry entry.
type ModelConfiguration struct {
	ID                  string         `json:"id"`
	DisplayName         string         `json:"displayName"`
	IsAutoGeneratedName bool           `json:"isAutoGeneratedName"`
	ProviderConfig      ProviderConfig `json:"providerConfig"`
	// CreatedAt and ModifiedAt are Unix milliseconds.
	CreatedAt  int64 `json:"createdAt"`
	ModifiedAt int64 `json:"modifiedAt"`
}

// ModelReference points a consensus or council slot at a registry entry.
type ModelReference struct {
	ModelID string  `json:"modelId"`
	Weight  float64 `json:"weight"`
	Enabled bool    `json:"enabled"`
}

// ChairStrategy selects which council model synthesizes the final answer.
type ChairStrategy string

// Chair selection strategies.
const (
	ChairConfigured    ChairStrategy = "configured"
	ChairHighestRanked ChairStrategy = "highest-ranked"
	ChairRotating      ChairStrategy = "rotating"
)

// DefaultChairStrategy applies when settings carry no usable strategy.
const DefaultChairStrategy = ChairHighestRanked

// ParseChairStrategy accepts the strategy spellings used across settings versions.
func ParseChairStrategy(raw string) (ChairStrategy, bool) {
	switch providerKey(raw) {
	case "configured":
		return ChairConfigured, true
	case "highestranked":
		return ChairHighestRanked, true
	case "rotating":
		return ChairRotating, true
	default:
		return "", false
	}
}

// ChairConfig describes the council chair. ConfiguredChairID is only meaningful
// when SelectionStrategy is ChairConfigured.
type ChairConfig struct {
	SelectionStrategy ChairStrategy `json:"selectionStrategy"`
	ConfiguredChairID string        `json:"configuredChairId,omitempty"`
	SynthesisWeight   float64       `json:"synthesisWeight"`
	RotationIndex     *int          `json:"rotationIndex,omitempty"`
}

// Registry is the set of unique model configurations keyed by id.
type Registry struct {
	Models  map[string]ModelConfiguration `json:"models"`
	Version int                           `json:"version"`
}

// NewRegistry returns an empty registry at the current schema version.
func NewRegistry() Registry {
	return Registry{Models: map[string]ModelConfiguration{}, Version: RegistrySchemaVersion}
}

// Len returns the number of models.
func (r Registry) Len() int { return len(r.Models) }

// Has reports whether id is registered.
func (r Registry) Has(id string) bool {
	_, ok := r.Models[id]
	return ok
}

// Get returns the model registered under id.
func (r Registry) Get(id string) (ModelConfiguration, bool) {
	model, ok := r.Models[id]
	return model, ok
}

// IDs returns registered ids in sorted order.
func (r Registry) IDs() []string {
	ids := make([]string, 0, len(r.Models))
	for id := range r.Models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// With returns a copy of r with models added; r is left unchanged.
func (r Registry) With(models ...ModelConfiguration) Registry {
	out := Registry{Models: make(map[string]ModelConfiguration, len(r.Models)+len(models)), Version: r.Version}
	for id, model := range r.Models {
		out.Models[id] = model
	}
	for _, model := range models {
		out.Models[model.ID] = model
	}
	if out.Version == 0 {
		out.Version = RegistrySchemaVersion
	}
	return out
}

// AutoDisplayName builds the generated name used when legacy settings carry none.
func AutoDisplayName(cfg ProviderConfig) string {
	model := strings.TrimSpace(cfg.TextGenerationModel)
	if model == "" {
		return cfg.Provider.Label()
	}
	return cfg.Provider.Label() + " " + model
}

// ToValue converts cfg into its document form.
func (cfg ProviderConfig) ToValue() map[string]any {
	out := map[string]any{
		"provider":            string(cfg.Provider),
		"baseUrl":             cfg.BaseURL,
		"textGenerationModel": cfg.TextGenerationModel,
	}
	if cfg.APIKey != "" {
		out["apiKey"] = cfg.APIKey
	}
	if cfg.EmbeddingModel != "" {
		out["embeddingModel"] = cfg.EmbeddingModel
	}
	return out
}

// ToValue converts m into its document form.
func (m ModelConfiguration) ToValue() map[string]any {
	return map[string]any{
		"id":                  m.ID,
		"displayName":         m.DisplayName,
		"isAutoGeneratedName": m.IsAutoGeneratedName,
		"providerConfig":      m.ProviderConfig.ToValue(),
		"createdAt":           m.CreatedAt,
		"modifiedAt":          m.ModifiedAt,
	}
}

// ToValue converts ref into its document form.
func (ref ModelReference) ToValue() map[string]any {
	return map[string]any{
		"modelId": ref.ModelID,
		"weight":  ref.Weight,
		"enabled": ref.Enabled,
	}
}

// ReferencesToValue converts refs into a document list.
func ReferencesToValue(refs []ModelReference) []any {
	out := make([]any, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.ToValue())
	}
	return out
}

// ApplyTo writes c into an existing chair document, keeping unrelated keys.
func (c ChairConfig) ApplyTo(doc map[string]any) map[string]any {
	out := CloneMap(doc)
	if out == nil {
		out = map[string]any{}
	}
	out["selectionStrategy"] = string(c.SelectionStrategy)
	out["synthesisWeight"] = c.SynthesisWeight
	if c.ConfiguredChairID != "" {
		out["configuredChairId"] = c.ConfiguredChairID
	} else {
		delete(out, "configuredChairId")
	}
	if c.RotationIndex != nil {
		out["rotationIndex"] = *c.RotationIndex
	} else {
		delete(out, "rotationIndex")
	}
	return out
}

// ParseProviderConfig reads a provider configuration in registry form.
func ParseProviderConfig(v any) (ProviderConfig, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return ProviderConfig{}, fmt.Errorf("providerConfig: %w", ErrNotObject)
	}
	raw, _ := String(obj, "provider")
	kind, ok := ParseProviderKind(raw)
	if !ok {
		return ProviderConfig{}, fmt.Errorf("providerConfig: unknown provider %q", raw)
	}
	cfg := ProviderConfig{Provider: kind}
	cfg.APIKey, _ = String(obj, "apiKey")
	cfg.BaseURL, _ = String(obj, "baseUrl")
	cfg.TextGenerationModel, _ = String(obj, "textGenerationModel")
	cfg.EmbeddingModel, _ = String(obj, "embeddingModel")
	if strings.TrimSpace(cfg.TextGenerationModel) == "" {
		return ProviderConfig{}, fmt.Errorf("providerConfig: textGenerationModel is required")
	}
	return cfg, nil
}

// ParseModelConfiguration reads a registry entry stored under id.
func ParseModelConfiguration(id string, v any) (ModelConfiguration, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return ModelConfiguration{}, ErrNotObject
	}
	cfg, err := ParseProviderConfig(obj["providerConfig"])
	if err != nil {
		return ModelConfiguration{}, err
	}
	model := ModelConfiguration{ID: id, ProviderConfig: cfg}
	if storedID, ok := String(obj, "id"); ok && storedID != "" && storedID != id {
		return ModelConfiguration{}, fmt.Errorf("id %q does not match registry key", storedID)
	}
	model.DisplayName, _ = String(obj, "displayName")
	model.IsAutoGeneratedName, _ = Bool(obj, "isAutoGeneratedName")
	if created, ok := Float(obj, "createdAt"); ok {
		model.CreatedAt = int64(created)
	}
	if modified, ok := Float(obj, "modifiedAt"); ok {
		model.ModifiedAt = int64(modified)
	}
	if strings.TrimSpace(model.DisplayName) == "" {
		model.DisplayName = AutoDisplayName(cfg)
		model.IsAutoGeneratedName = true
	}
	return model, nil
}

// ParseRegistry reads a registry document. Malformed entries are skipped and their
// ids returned so callers can report them; the document itself is never modified.
func ParseRegistry(v any) (Registry, []string, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Registry{}, nil, fmt.Errorf("modelRegistry: %w", ErrNotObject)
	}
	models, ok := obj[KeyModels].(map[string]any)
	if !ok {
		return Registry{}, nil, fmt.Errorf("modelRegistry.models: %w", ErrNotObject)
	}
	reg := NewRegistry()
	if version, ok := Int(obj, "version"); ok && version > 0 {
		reg.Version = version
	}
	var malformed []string
	for id, entry := range models {
		model, err := ParseModelConfiguration(id, entry)
		if err != nil {
			malformed = append(malformed, id)
			continue
		}
		reg.Models[id] = model
	}
	sort.Strings(malformed)
	return reg, malformed, nil
}

// ParseReference reads a registry-form list entry; ok is false for anything else.
func ParseReference(v any) (ModelReference, bool) {
	obj, isObj := v.(map[string]any)
	if !isObj {
		return ModelReference{}, false
	}
	if _, legacy := obj[KeySettingsBlob].(map[string]any); legacy {
		return ModelReference{}, false
	}
	id, ok := String(obj, KeyModelID)
	if !ok || strings.TrimSpace(id) == "" {
		return ModelReference{}, false
	}
	ref := ModelReference{ModelID: id, Weight: 1.0, Enabled: true}
	if weight, ok := Float(obj, "weight"); ok {
		ref.Weight = weight
	}
	if enabled, ok := Bool(obj, "enabled"); ok {
		ref.Enabled = enabled
	}
	return ref, true
}
