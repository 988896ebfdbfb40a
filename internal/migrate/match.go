package migrate

import (
	"github.com/conn-castle/quizmodels/internal/fingerprint"
	"github.com/conn-castle/quizmodels/internal/settings"
)

// MatchStats summarizes registry matching.
type MatchStats struct {
	Reused          int
	Inserted        int
	BatchDuplicates int
}

// MatchResult is the outcome of MatchAgainstRegistry.
type MatchResult struct {
	ToInsert []settings.ModelConfiguration
	// IDMapping maps every candidate id to an existing registry id or to itself.
	IDMapping IDMapping
	Stats     MatchStats
}

// MatchAgainstRegistry decides which candidates already exist in registry. The
// registry index is built once, visiting ids in sorted order so the lowest id wins
// when the registry itself holds manual duplicates. Candidates that collide with an
// earlier candidate of the same batch map to that candidate.
func MatchAgainstRegistry(candidates []settings.ModelConfiguration, registry settings.Registry) MatchResult {
	index := make(map[string]string, registry.Len())
	for _, id := range registry.IDs() {
		model, _ := registry.Get(id)
		fp := fingerprint.Of(model)
		if _, taken := index[fp]; !taken {
			index[fp] = id
		}
	}

	mapping := newIDMappingBuilder()
	var result MatchResult
	pending := map[string]string{}
	for _, candidate := range candidates {
		fp := fingerprint.Of(candidate)
		if existing, ok := index[fp]; ok {
			mapping.set(candidate.ID, existing)
			result.Stats.Reused++
			continue
		}
		if first, ok := pending[fp]; ok {
			mapping.set(candidate.ID, first)
			result.Stats.BatchDuplicates++
			continue
		}
		pending[fp] = candidate.ID
		mapping.set(candidate.ID, candidate.ID)
		result.ToInsert = append(result.ToInsert, candidate)
	}
	result.Stats.Inserted = len(result.ToInsert)
	result.IDMapping = mapping.build()
	return result
}
