package settings

import (
	"fmt"
)

// Marker names one piece of evidence that a document still needs migration.
type Marker string

// Legacy markers.
const (
	MarkerRootProviderFields Marker = "root-provider-fields"
	MarkerConsensusBlobs     Marker = "consensus-embedded-settings"
	MarkerCouncilBlobs       Marker = "council-embedded-settings"
	MarkerChairBlob          Marker = "chair-embedded-settings"
	MarkerMissingRegistry    Marker = "missing-registry"
	MarkerInvalidRegistry    Marker = "invalid-registry"
	MarkerVersionBehind      Marker = "version-behind"
)

// Shape is the detected settings layout. It is one of UnrecognizedShape,
// LegacyShape, RegistryV1Shape or RegistryV2Shape.
type Shape interface {
	// Version is the schema level the document is treated as.
	Version() Version
	// Name is a short label for reports.
	Name() string
	isShape()
}

// UnrecognizedShape is anything that is not a JSON object.
type UnrecognizedShape struct {
	Reason string
}

// LegacyShape has no usable registry.
type LegacyShape struct {
	Doc     map[string]any
	Markers []Marker
	// RegistryError explains why an existing registry was rejected, if one was present.
	RegistryError string
}

// RegistryV1Shape has a registry but is not stamped as fully migrated.
type RegistryV1Shape struct {
	Doc       map[string]any
	Registry  Registry
	Malformed []string
	Markers   []Marker
}

// RegistryV2Shape is stamped as fully migrated. Markers is non-empty only when legacy
// data was reintroduced after migration.
type RegistryV2Shape struct {
	Doc       map[string]any
	Registry  Registry
	Malformed []string
	Markers   []Marker
}

func (UnrecognizedShape) isShape() {}
func (LegacyShape) isShape()       {}
func (RegistryV1Shape) isShape()   {}
func (RegistryV2Shape) isShape()   {}

func (UnrecognizedShape) Version() Version { return VersionLegacy }
func (LegacyShape) Version() Version       { return VersionLegacy }
func (RegistryV1Shape) Version() Version   { return VersionRegistryV1 }
func (RegistryV2Shape) Version() Version   { return VersionRegistryV2 }

func (UnrecognizedShape) Name() string { return "unrecognized" }
func (LegacyShape) Name() string       { return "legacy" }
func (RegistryV1Shape) Name() string   { return "registry-v1" }
func (RegistryV2Shape) Name() string   { return "registry-v2" }

// DetectShape classifies an untyped settings value. It never modifies input.
func DetectShape(input any) Shape {
	doc, ok := input.(map[string]any)
	if !ok {
		return UnrecognizedShape{Reason: describeNonObject(input)}
	}
	markers := LegacyMarkers(doc)

	registryValue, hasRegistry := doc[KeyModelRegistry]
	if !hasRegistry || registryValue == nil {
		return LegacyShape{Doc: doc, Markers: append(markers, MarkerMissingRegistry)}
	}
	registry, malformed, err := ParseRegistry(registryValue)
	if err != nil {
		return LegacyShape{Doc: doc, Markers: append(markers, MarkerInvalidRegistry), RegistryError: err.Error()}
	}

	version, _ := Int(doc, KeySettingsVersion)
	if Version(version) >= VersionRegistryV2 {
		return RegistryV2Shape{Doc: doc, Registry: registry, Malformed: malformed, Markers: markers}
	}
	return RegistryV1Shape{Doc: doc, Registry: registry, Malformed: malformed, Markers: append(markers, MarkerVersionBehind)}
}

// NeedsMigration reports whether a shape has to go through the migration pipeline.
// Unrecognized shapes never do; they take the structural-error path instead.
func NeedsMigration(shape Shape) bool {
	switch s := shape.(type) {
	case LegacyShape, RegistryV1Shape:
		return true
	case RegistryV2Shape:
		return len(s.Markers) > 0
	default:
		return false
	}
}

// MarkersOf returns the legacy markers of any shape.
func MarkersOf(shape Shape) []Marker {
	switch s := shape.(type) {
	case LegacyShape:
		return s.Markers
	case RegistryV1Shape:
		return s.Markers
	case RegistryV2Shape:
		return s.Markers
	default:
		return nil
	}
}

// LegacyMarkers lists the legacy structures present in doc, independent of the
// registry state.
func LegacyMarkers(doc map[string]any) []Marker {
	var markers []Marker
	for _, key := range LegacyRootKeys() {
		if Has(doc, key) {
			markers = append(markers, MarkerRootProviderFields)
			break
		}
	}
	if hasLegacyEntries(doc, KeyConsensusSettings) {
		markers = append(markers, MarkerConsensusBlobs)
	}
	if hasLegacyEntries(doc, KeyCouncilSettings) {
		markers = append(markers, MarkerCouncilBlobs)
	}
	if Has(doc, KeyCouncilSettings, KeyChairModel, KeySettingsBlob) {
		markers = append(markers, MarkerChairBlob)
	}
	return markers
}

func hasLegacyEntries(doc map[string]any, feature string) bool {
	list, ok := Slice(doc, feature, KeyModels)
	if !ok {
		return false
	}
	for _, item := range list {
		if IsLegacyEntry(item) {
			return true
		}
	}
	return false
}

// IsLegacyEntry reports whether a consensus/council list item still embeds provider
// settings instead of referencing the registry.
func IsLegacyEntry(item any) bool {
	obj, ok := item.(map[string]any)
	if !ok {
		return false
	}
	if _, blob := obj[KeySettingsBlob]; blob {
		return true
	}
	_, hasRef := obj[KeyModelID]
	_, hasProvider := obj[KeyProvider]
	return hasProvider && !hasRef
}

func describeNonObject(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
