package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/quizmodels/internal/settings"
)

func openAIModel(id string, name string, key string, model string) settings.ModelConfiguration {
	return settings.ModelConfiguration{
		ID:          id,
		DisplayName: name,
		ProviderConfig: settings.ProviderConfig{
			Provider:            settings.ProviderOpenAI,
			APIKey:              key,
			BaseURL:             "https://api.openai.com/v1",
			TextGenerationModel: model,
		},
	}
}

func TestDedupeFirstOccurrenceIsCanonical(t *testing.T) {
	candidates := []Candidate{
		{Model: openAIModel("m1", "Main", "keyA", "gpt-4"), Origin: OriginMain},
		{Model: openAIModel("c1", "Consensus copy", "keyA", " GPT-4 "), Origin: OriginConsensus, OriginalID: "legacy-1"},
		{Model: openAIModel("c2", "Other", "keyB", "gpt-4"), Origin: OriginConsensus, OriginalID: "legacy-2"},
		{Model: openAIModel("k1", "Council copy", "keyA", "gpt-4"), Origin: OriginCouncil, OriginalID: "legacy-3"},
	}

	result := Dedupe(candidates)

	require.Len(t, result.UniqueModels, 2)
	assert.Equal(t, "m1", result.UniqueModels[0].ID)
	assert.Equal(t, "Main", result.UniqueModels[0].DisplayName)
	assert.Equal(t, "c2", result.UniqueModels[1].ID)

	for from, want := range map[string]string{"m1": "m1", "c1": "m1", "c2": "c2", "k1": "m1"} {
		got, ok := result.IDMapping.Lookup(from)
		require.True(t, ok, from)
		assert.Equal(t, want, got, from)
	}

	require.Len(t, result.Merges, 1)
	assert.Equal(t, "m1", result.Merges[0].CanonicalID)
	assert.Equal(t, []string{"c1", "k1"}, result.Merges[0].MergedIDs)
	assert.Equal(t, []Origin{OriginMain, OriginConsensus, OriginCouncil}, result.Merges[0].Origins)
	assert.Equal(t, DedupeStats{TotalBefore: 4, TotalAfter: 2, DuplicatesRemoved: 2}, result.Stats)
}

func TestDedupeIgnoresCosmeticFields(t *testing.T) {
	a := openAIModel("id-a", "Name A", "keyA", "gpt-4")
	a.CreatedAt = 1
	b := openAIModel("id-b", "Name B", "keyA", "gpt-4")
	b.IsAutoGeneratedName = true
	b.ModifiedAt = 99

	result := Dedupe([]Candidate{{Model: a, Origin: OriginConsensus}, {Model: b, Origin: OriginConsensus}})

	require.Len(t, result.UniqueModels, 1)
	got, _ := result.IDMapping.Lookup("id-b")
	assert.Equal(t, "id-a", got)
}

func TestDedupeEmpty(t *testing.T) {
	result := Dedupe(nil)
	assert.Empty(t, result.UniqueModels)
	assert.Equal(t, 0, result.IDMapping.Len())
	assert.Empty(t, result.Merges)
}

func TestMatchAgainstRegistryReusesEquivalentEntries(t *testing.T) {
	existing := openAIModel("existing", "Mine", "keyA", "gpt-4")
	existing.ProviderConfig.BaseURL = "https://API.openai.com/v1/"
	registry := settings.NewRegistry().With(existing)

	candidates := []settings.ModelConfiguration{
		openAIModel("new-1", "", "keyA", "gpt-4"),
		openAIModel("new-2", "", "keyA", "gpt-4o"),
		openAIModel("new-3", "", "keyA", "gpt-4o"),
	}

	result := MatchAgainstRegistry(candidates, registry)

	require.Len(t, result.ToInsert, 1)
	assert.Equal(t, "new-2", result.ToInsert[0].ID)
	assert.Equal(t, MatchStats{Reused: 1, Inserted: 1, BatchDuplicates: 1}, result.Stats)

	for from, want := range map[string]string{"new-1": "existing", "new-2": "new-2", "new-3": "new-2"} {
		got, ok := result.IDMapping.Lookup(from)
		require.True(t, ok, from)
		assert.Equal(t, want, got, from)
	}
}

func TestMatchAgainstRegistryPrefersLowestIDAmongManualDuplicates(t *testing.T) {
	registry := settings.NewRegistry().With(
		openAIModel("zz", "", "keyA", "gpt-4"),
		openAIModel("aa", "", "keyA", "gpt-4"),
	)

	result := MatchAgainstRegistry([]settings.ModelConfiguration{openAIModel("new", "", "keyA", "gpt-4")}, registry)

	got, _ := result.IDMapping.Lookup("new")
	assert.Equal(t, "aa", got)
	assert.Empty(t, result.ToInsert)
}

func TestMatchAgainstEmptyRegistryInsertsEverything(t *testing.T) {
	result := MatchAgainstRegistry([]settings.ModelConfiguration{openAIModel("a", "", "k", "m")}, settings.Registry{})
	require.Len(t, result.ToInsert, 1)
	got, _ := result.IDMapping.Lookup("a")
	assert.Equal(t, "a", got)
}
