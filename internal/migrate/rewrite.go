package migrate

import (
	"fmt"

	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/settings"
)

// ReferenceSlot is one consensus or council list position before rewriting.
type ReferenceSlot struct {
	// ModelID is a candidate id for legacy entries and a registry id otherwise.
	ModelID string
	Weight  float64
	Enabled bool
	// Label names the entry in warnings.
	Label string
	// Legacy marks entries that were extracted from an embedded settings blob.
	Legacy bool
}

// RewriteResult is the outcome of RewriteReferences.
type RewriteResult struct {
	References []settings.ModelReference
	// Dropped counts references whose model could not be resolved.
	Dropped int
	// Collapsed counts references removed because an earlier one already points at
	// the same canonical model.
	Collapsed int
	Warnings  []string
}

// RewriteReferences maps every slot through mapping. When two slots resolve to the
// same canonical id only the first is kept, with its weight and enabled flag. Slots
// that do not resolve are dropped with a warning. source labels the list in warnings.
func RewriteReferences(source string, slots []ReferenceSlot, mapping IDMapping) RewriteResult {
	result := RewriteResult{References: make([]settings.ModelReference, 0, len(slots))}
	seen := make(map[string]bool, len(slots))
	for _, slot := range slots {
		id, ok := mapping.Lookup(slot.ModelID)
		if !ok {
			result.Dropped++
			if slot.Legacy {
				result.Warnings = append(result.Warnings, fmt.Sprintf(messages.MigrateEntryDroppedFmt, source, slot.Label))
			} else {
				result.Warnings = append(result.Warnings, fmt.Sprintf(messages.RewriteReferenceDanglingFmt, source, slot.Label))
			}
			continue
		}
		if seen[id] {
			result.Collapsed++
			continue
		}
		seen[id] = true
		result.References = append(result.References, settings.ModelReference{
			ModelID: id,
			Weight:  slot.Weight,
			Enabled: slot.Enabled,
		})
	}
	return result
}

// RewriteChair remaps the configured chair id. An id that does not resolve is cleared
// with a warning; label names the chair the way the user configured it. The chair
// that takes over afterwards is left to the user.
func RewriteChair(chair settings.ChairConfig, mapping IDMapping, label string) (settings.ChairConfig, []string) {
	out := chair
	if out.SelectionStrategy != settings.ChairConfigured {
		out.ConfiguredChairID = ""
		return out, nil
	}
	if out.ConfiguredChairID == "" {
		return out, nil
	}
	id, ok := mapping.Lookup(out.ConfiguredChairID)
	if !ok {
		if label == "" {
			label = out.ConfiguredChairID
		}
		out.ConfiguredChairID = ""
		return out, []string{fmt.Sprintf(messages.RewriteChairClearedFmt, label)}
	}
	out.ConfiguredChairID = id
	return out, nil
}
