package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/quizmodels/internal/settings"
)

func TestRewriteReferencesKeepsFirstPerCanonicalID(t *testing.T) {
	mapping := NewIDMapping(map[string]string{"c1": "m1", "c2": "m1", "c3": "m3", "reg": "reg"})
	slots := []ReferenceSlot{
		{ModelID: "c1", Weight: 1.2, Enabled: true, Legacy: true, Label: "a"},
		{ModelID: "c2", Weight: 0.5, Enabled: false, Legacy: true, Label: "b"},
		{ModelID: "reg", Weight: 2, Enabled: true, Label: "reg"},
		{ModelID: "c3", Weight: 1, Enabled: false, Legacy: true, Label: "c"},
	}

	result := RewriteReferences("consensus", slots, mapping)

	assert.Equal(t, []settings.ModelReference{
		{ModelID: "m1", Weight: 1.2, Enabled: true},
		{ModelID: "reg", Weight: 2, Enabled: true},
		{ModelID: "m3", Weight: 1, Enabled: false},
	}, result.References)
	assert.Equal(t, 1, result.Collapsed)
	assert.Equal(t, 0, result.Dropped)
	assert.Empty(t, result.Warnings)
}

func TestRewriteReferencesDropsUnresolvedSlots(t *testing.T) {
	mapping := NewIDMapping(map[string]string{"c1": "m1"})
	slots := []ReferenceSlot{
		{ModelID: "failed-candidate", Legacy: true, Label: "broken"},
		{ModelID: "gone", Label: "gone"},
		{ModelID: "c1", Weight: 1, Enabled: true, Legacy: true, Label: "ok"},
	}

	result := RewriteReferences("council", slots, mapping)

	require.Len(t, result.References, 1)
	assert.Equal(t, "m1", result.References[0].ModelID)
	assert.Equal(t, 2, result.Dropped)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], `"broken"`)
	assert.Contains(t, result.Warnings[0], "could not be migrated")
	assert.Contains(t, result.Warnings[1], `"gone"`)
	assert.Contains(t, result.Warnings[1], "does not exist")
}

func TestRewriteChair(t *testing.T) {
	mapping := NewIDMapping(map[string]string{"cand": "canonical"})
	index := 2

	t.Run("remaps configured chair", func(t *testing.T) {
		chair := settings.ChairConfig{SelectionStrategy: settings.ChairConfigured, ConfiguredChairID: "cand", SynthesisWeight: 1.5, RotationIndex: &index}
		out, warnings := RewriteChair(chair, mapping, "legacy-chair")
		assert.Empty(t, warnings)
		assert.Equal(t, "canonical", out.ConfiguredChairID)
		assert.Equal(t, 1.5, out.SynthesisWeight)
		assert.Equal(t, &index, out.RotationIndex)
	})

	t.Run("clears unresolved chair with warning", func(t *testing.T) {
		chair := settings.ChairConfig{SelectionStrategy: settings.ChairConfigured, ConfiguredChairID: "failed"}
		out, warnings := RewriteChair(chair, mapping, "legacy-chair")
		assert.Empty(t, out.ConfiguredChairID)
		assert.Equal(t, settings.ChairConfigured, out.SelectionStrategy)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], `"legacy-chair"`)
	})

	t.Run("drops id for other strategies", func(t *testing.T) {
		chair := settings.ChairConfig{SelectionStrategy: settings.ChairRotating, ConfiguredChairID: "cand"}
		out, warnings := RewriteChair(chair, mapping, "")
		assert.Empty(t, warnings)
		assert.Empty(t, out.ConfiguredChairID)
	})
}

func TestPruneLegacyFields(t *testing.T) {
	doc := map[string]any{
		"provider":           "OpenAI",
		"openAIApiKey":       "k",
		"ollamaTextGenModel": "llama2",
		"activeModelId":      "m1",
		"councilSettings": map[string]any{
			"models": []any{
				map[string]any{"modelId": "m1", "weight": 1.0, "enabled": true},
				map[string]any{"id": "x", "settings": map[string]any{}},
			},
			"chairModel": map[string]any{
				"selectionStrategy": "configured",
				"settings":          map[string]any{"provider": "OpenAI"},
				"provider":          "OpenAI",
			},
		},
	}

	pruned, removed := PruneLegacyFields(doc)

	assert.Equal(t, []string{
		"provider",
		"openAIApiKey",
		"ollamaTextGenModel",
		"councilSettings.models[1]",
		"councilSettings.chairModel.settings",
		"councilSettings.chairModel.provider",
	}, removed)
	assert.Equal(t, map[string]any{
		"activeModelId": "m1",
		"councilSettings": map[string]any{
			"models": []any{
				map[string]any{"modelId": "m1", "weight": 1.0, "enabled": true},
			},
			"chairModel": map[string]any{"selectionStrategy": "configured"},
		},
	}, pruned)

	// The input is untouched.
	assert.Equal(t, "OpenAI", doc["provider"])
	assert.Contains(t, doc["councilSettings"].(map[string]any)["chairModel"], "settings")
}

func TestPruneLegacyFieldsNothingToRemove(t *testing.T) {
	doc := map[string]any{"settingsVersion": 2}
	pruned, removed := PruneLegacyFields(doc)
	assert.Empty(t, removed)
	assert.Equal(t, doc, pruned)
}
