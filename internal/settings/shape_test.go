package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistry() map[string]any {
	return map[string]any{
		"version": 1.0,
		"models": map[string]any{
			"m1": map[string]any{
				"id":          "m1",
				"displayName": "Local",
				"providerConfig": map[string]any{
					"provider":            "ollama",
					"baseUrl":             "http://localhost:11434",
					"textGenerationModel": "llama2",
				},
			},
		},
	}
}

func TestDetectShape(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		wantName    string
		wantVersion Version
		wantMarkers []Marker
		wantMigrate bool
	}{
		{
			name:     "null",
			input:    nil,
			wantName: "unrecognized",
		},
		{
			name:     "array",
			input:    []any{},
			wantName: "unrecognized",
		},
		{
			name:        "legacy root fields",
			input:       map[string]any{"provider": "OpenAI", "openAIApiKey": "k"},
			wantName:    "legacy",
			wantMarkers: []Marker{MarkerRootProviderFields, MarkerMissingRegistry},
			wantMigrate: true,
		},
		{
			name: "legacy lists and chair",
			input: map[string]any{
				"consensusSettings": map[string]any{"models": []any{map[string]any{"id": "a", "settings": map[string]any{}}}},
				"councilSettings": map[string]any{
					"models":     []any{map[string]any{"id": "b", "provider": "OpenAI"}},
					"chairModel": map[string]any{"settings": map[string]any{}},
				},
			},
			wantName:    "legacy",
			wantMarkers: []Marker{MarkerConsensusBlobs, MarkerCouncilBlobs, MarkerChairBlob, MarkerMissingRegistry},
			wantMigrate: true,
		},
		{
			name:        "invalid registry",
			input:       map[string]any{"modelRegistry": []any{}},
			wantName:    "legacy",
			wantMarkers: []Marker{MarkerInvalidRegistry},
			wantMigrate: true,
		},
		{
			name:        "registry without version",
			input:       map[string]any{"modelRegistry": validRegistry()},
			wantName:    "registry-v1",
			wantVersion: VersionRegistryV1,
			wantMarkers: []Marker{MarkerVersionBehind},
			wantMigrate: true,
		},
		{
			name:        "fully migrated",
			input:       map[string]any{"modelRegistry": validRegistry(), "settingsVersion": 2.0},
			wantName:    "registry-v2",
			wantVersion: VersionRegistryV2,
		},
		{
			name:        "fully migrated with reintroduced fields",
			input:       map[string]any{"modelRegistry": validRegistry(), "settingsVersion": 2, "ollamaTextGenModel": "x"},
			wantName:    "registry-v2",
			wantVersion: VersionRegistryV2,
			wantMarkers: []Marker{MarkerRootProviderFields},
			wantMigrate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shape := DetectShape(tt.input)
			assert.Equal(t, tt.wantName, shape.Name())
			assert.Equal(t, tt.wantVersion, shape.Version())
			assert.Equal(t, tt.wantMarkers, MarkersOf(shape))
			assert.Equal(t, tt.wantMigrate, NeedsMigration(shape))
		})
	}
}

func TestDetectShapeReportsMalformedRegistryEntries(t *testing.T) {
	registry := validRegistry()
	registry["models"].(map[string]any)["bad"] = "not an object"

	shape := DetectShape(map[string]any{"modelRegistry": registry, "settingsVersion": 2.0})

	v2, ok := shape.(RegistryV2Shape)
	require.True(t, ok)
	assert.Equal(t, []string{"bad"}, v2.Malformed)
	assert.True(t, v2.Registry.Has("m1"))
	assert.False(t, NeedsMigration(shape))
}

func TestIsLegacyEntry(t *testing.T) {
	assert.True(t, IsLegacyEntry(map[string]any{"settings": map[string]any{}}))
	assert.True(t, IsLegacyEntry(map[string]any{"provider": "OpenAI"}))
	assert.False(t, IsLegacyEntry(map[string]any{"modelId": "m1", "provider": "OpenAI"}))
	assert.False(t, IsLegacyEntry(map[string]any{"modelId": "m1"}))
	assert.False(t, IsLegacyEntry("m1"))
}
