package migrate

import (
	"fmt"
	"strings"

	"github.com/conn-castle/quizmodels/internal/settings"
)

// legacyChairKeys are the chair fields that only accompany an embedded settings blob.
var legacyChairKeys = []string{settings.KeySettingsBlob, settings.KeyProvider, "displayName", "name"}

// PruneLegacyFields returns a copy of doc without the root provider fields, the
// chair's embedded settings and any list entry that still embeds settings. The
// removed paths are returned in document order for auditing; doc is not modified.
func PruneLegacyFields(doc map[string]any) (map[string]any, []string) {
	out := settings.CloneMap(doc)
	var removed []string

	for _, key := range settings.LegacyRootKeys() {
		if _, ok := out[key]; ok {
			delete(out, key)
			removed = append(removed, key)
		}
	}

	for _, feature := range []string{settings.KeyConsensusSettings, settings.KeyCouncilSettings} {
		section, ok := out[feature].(map[string]any)
		if !ok {
			continue
		}
		list, ok := section[settings.KeyModels].([]any)
		if !ok {
			continue
		}
		kept := make([]any, 0, len(list))
		for i, item := range list {
			if settings.IsLegacyEntry(item) {
				removed = append(removed, fmt.Sprintf("%s.%s[%d]", feature, settings.KeyModels, i))
				continue
			}
			kept = append(kept, item)
		}
		section[settings.KeyModels] = kept
	}

	if chair, ok := settings.Map(out, settings.KeyCouncilSettings, settings.KeyChairModel); ok {
		if _, embedded := chair[settings.KeySettingsBlob]; embedded {
			for _, key := range legacyChairKeys {
				if _, present := chair[key]; present {
					delete(chair, key)
					removed = append(removed, strings.Join([]string{settings.KeyCouncilSettings, settings.KeyChairModel, key}, "."))
				}
			}
		}
	}
	return out, removed
}
