package migrate

import (
	"github.com/conn-castle/quizmodels/internal/fingerprint"
	"github.com/conn-castle/quizmodels/internal/settings"
)

// Candidate is one successfully extracted model awaiting deduplication.
type Candidate struct {
	Model      settings.ModelConfiguration
	Origin     Origin
	OriginalID string
}

// Merge records every candidate that collapsed into one canonical model.
type Merge struct {
	Fingerprint string   `json:"fingerprint"`
	CanonicalID string   `json:"canonicalId"`
	DisplayName string   `json:"displayName"`
	MergedIDs   []string `json:"mergedIds"`
	Origins     []Origin `json:"origins"`
}

// DedupeStats summarizes one deduplication pass.
type DedupeStats struct {
	TotalBefore       int
	TotalAfter        int
	DuplicatesRemoved int
}

// DedupeResult is the outcome of Dedupe.
type DedupeResult struct {
	UniqueModels []settings.ModelConfiguration
	// IDMapping has an entry for every candidate id; canonical ids map to themselves.
	IDMapping IDMapping
	// Merges lists only fingerprints seen more than once, in first-seen order.
	Merges []Merge
	Stats  DedupeStats
}

// Dedupe collapses candidates sharing a fingerprint. Candidates are visited in
// input order and the first one seen for a fingerprint becomes canonical, which also
// decides whose display name survives.
func Dedupe(candidates []Candidate) DedupeResult {
	mapping := newIDMappingBuilder()
	result := DedupeResult{Stats: DedupeStats{TotalBefore: len(candidates)}}

	canonical := make(map[string]int, len(candidates))
	merges := map[string]*Merge{}
	var mergeOrder []string

	for _, candidate := range candidates {
		fp := fingerprint.Of(candidate.Model)
		index, seen := canonical[fp]
		if !seen {
			canonical[fp] = len(result.UniqueModels)
			result.UniqueModels = append(result.UniqueModels, candidate.Model)
			mapping.set(candidate.Model.ID, candidate.Model.ID)
			merges[fp] = &Merge{
				Fingerprint: fingerprint.Digest(fp),
				CanonicalID: candidate.Model.ID,
				DisplayName: candidate.Model.DisplayName,
				Origins:     []Origin{candidate.Origin},
			}
			continue
		}
		kept := result.UniqueModels[index]
		mapping.set(candidate.Model.ID, kept.ID)
		merge := merges[fp]
		if len(merge.MergedIDs) == 0 {
			mergeOrder = append(mergeOrder, fp)
		}
		merge.MergedIDs = append(merge.MergedIDs, candidate.Model.ID)
		merge.Origins = appendOrigin(merge.Origins, candidate.Origin)
	}

	for _, fp := range mergeOrder {
		result.Merges = append(result.Merges, *merges[fp])
	}
	result.IDMapping = mapping.build()
	result.Stats.TotalAfter = len(result.UniqueModels)
	result.Stats.DuplicatesRemoved = result.Stats.TotalBefore - result.Stats.TotalAfter
	return result
}

func appendOrigin(origins []Origin, origin Origin) []Origin {
	for _, existing := range origins {
		if existing == origin {
			return origins
		}
	}
	return append(origins, origin)
}
