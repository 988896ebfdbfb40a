// Package doctor runs read-only health checks over a settings document.
package doctor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/conn-castle/quizmodels/internal/fingerprint"
	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/settings"
)

// Status is the outcome of one check.
type Status string

// Check statuses.
const (
	StatusOK   Status = "OK"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Result is a single check finding.
type Result struct {
	Status         Status `json:"status"`
	CheckName      string `json:"check"`
	Message        string `json:"message"`
	Recommendation string `json:"recommendation,omitempty"`
}

// KnownIDs holds every id present under modelRegistry.models, including entries
// that failed to parse. References to malformed entries are not dangling.
type KnownIDs map[string]struct{}

func (k KnownIDs) Has(id string) bool {
	_, ok := k[id]
	return ok
}

// Run checks doc and returns every finding in a stable order.
func Run(input any) []Result {
	doc, ok := input.(map[string]any)
	if !ok {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameRegistry,
			Message:        messages.DoctorNotObject,
			Recommendation: messages.DoctorNotObjectRecommend,
		}}
	}

	var results []Result
	results = append(results, CheckVersion(doc))
	results = append(results, CheckLegacy(doc))
	registryResults, registry, known := CheckRegistry(doc)
	results = append(results, registryResults...)
	if known == nil {
		return results
	}
	results = append(results, CheckDuplicates(registry)...)
	results = append(results, CheckActiveModel(doc, known))
	results = append(results, CheckReferences(doc, known)...)
	results = append(results, CheckChair(doc, known))
	return results
}

// HasFailures reports whether any result failed.
func HasFailures(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// CheckVersion compares settingsVersion with the current schema version.
func CheckVersion(doc map[string]any) Result {
	version, _ := settings.Int(doc, settings.KeySettingsVersion)
	if settings.Version(version) >= settings.CurrentVersion {
		return Result{
			Status:    StatusOK,
			CheckName: messages.DoctorCheckNameVersion,
			Message:   fmt.Sprintf(messages.DoctorVersionCurrentFmt, version),
		}
	}
	return Result{
		Status:         StatusWarn,
		CheckName:      messages.DoctorCheckNameVersion,
		Message:        fmt.Sprintf(messages.DoctorVersionBehindFmt, version, settings.CurrentVersion),
		Recommendation: messages.DoctorVersionRecommend,
	}
}

// CheckLegacy reports legacy structures that are still present.
func CheckLegacy(doc map[string]any) Result {
	markers := settings.LegacyMarkers(doc)
	if len(markers) == 0 {
		return Result{Status: StatusOK, CheckName: messages.DoctorCheckNameLegacy, Message: messages.DoctorNoLegacyFields}
	}
	names := make([]string, len(markers))
	for i, marker := range markers {
		names[i] = string(marker)
	}
	return Result{
		Status:         StatusWarn,
		CheckName:      messages.DoctorCheckNameLegacy,
		Message:        fmt.Sprintf(messages.DoctorLegacyFieldsFmt, strings.Join(names, ", ")),
		Recommendation: messages.DoctorLegacyRecommend,
	}
}

// CheckRegistry parses the model registry. known is nil when there is no usable
// registry, in which case the pointer checks are skipped.
func CheckRegistry(doc map[string]any) ([]Result, settings.Registry, KnownIDs) {
	value, ok := doc[settings.KeyModelRegistry]
	if !ok || value == nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameRegistry,
			Message:        messages.DoctorRegistryMissing,
			Recommendation: messages.DoctorVersionRecommend,
		}}, settings.Registry{}, nil
	}
	registry, malformed, err := settings.ParseRegistry(value)
	if err != nil {
		return []Result{{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameRegistry,
			Message:        fmt.Sprintf(messages.DoctorRegistryInvalidFmt, err),
			Recommendation: messages.DoctorRegistryRecommend,
		}}, settings.Registry{}, nil
	}

	known := make(KnownIDs, registry.Len()+len(malformed))
	for _, id := range registry.IDs() {
		known[id] = struct{}{}
	}
	results := []Result{{
		Status:    StatusOK,
		CheckName: messages.DoctorCheckNameRegistry,
		Message:   fmt.Sprintf(messages.DoctorRegistryLoadedFmt, registry.Len()),
	}}
	for _, id := range malformed {
		known[id] = struct{}{}
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameRegistry,
			Message:        fmt.Sprintf(messages.DoctorRegistryMalformedFmt, id),
			Recommendation: messages.DoctorRegistryRecommend,
		})
	}
	return results, registry, known
}

// CheckDuplicates groups registry entries by fingerprint. Manual edits can create
// duplicates; the migration never does.
func CheckDuplicates(registry settings.Registry) []Result {
	groups := map[string][]string{}
	var order []string
	for _, id := range registry.IDs() {
		model, _ := registry.Get(id)
		fp := fingerprint.Of(model)
		if _, seen := groups[fp]; !seen {
			order = append(order, fp)
		}
		groups[fp] = append(groups[fp], id)
	}

	var results []Result
	for _, fp := range order {
		ids := groups[fp]
		if len(ids) < 2 {
			continue
		}
		sort.Strings(ids)
		results = append(results, Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameDuplicates,
			Message:        fmt.Sprintf(messages.DoctorDuplicatesFmt, strings.Join(ids, ", "), fingerprint.Digest(fp)),
			Recommendation: messages.DoctorDuplicatesRecommend,
		})
	}
	if len(results) == 0 {
		return []Result{{Status: StatusOK, CheckName: messages.DoctorCheckNameDuplicates, Message: messages.DoctorNoDuplicates}}
	}
	return results
}

// CheckActiveModel verifies activeModelId.
func CheckActiveModel(doc map[string]any, known KnownIDs) Result {
	id, _ := settings.String(doc, settings.KeyActiveModelID)
	switch {
	case strings.TrimSpace(id) == "":
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameActive,
			Message:        messages.DoctorActiveUnset,
			Recommendation: messages.DoctorActiveRecommend,
		}
	case !known.Has(id):
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameActive,
			Message:        fmt.Sprintf(messages.DoctorActiveMissingFmt, id),
			Recommendation: messages.DoctorActiveRecommend,
		}
	default:
		return Result{Status: StatusOK, CheckName: messages.DoctorCheckNameActive, Message: fmt.Sprintf(messages.DoctorActiveOKFmt, id)}
	}
}

// CheckReferences verifies every registry-form consensus and council reference.
// Legacy entries are reported by CheckLegacy instead.
func CheckReferences(doc map[string]any, known KnownIDs) []Result {
	var results []Result
	for _, feature := range []string{settings.KeyConsensusSettings, settings.KeyCouncilSettings} {
		list, ok := settings.Slice(doc, feature, settings.KeyModels)
		if !ok {
			continue
		}
		label := strings.TrimSuffix(feature, "Settings")
		resolved := 0
		failed := false
		for _, item := range list {
			ref, ok := settings.ParseReference(item)
			if !ok {
				continue
			}
			if known.Has(ref.ModelID) {
				resolved++
				continue
			}
			failed = true
			results = append(results, Result{
				Status:         StatusFail,
				CheckName:      messages.DoctorCheckNameReferences,
				Message:        fmt.Sprintf(messages.DoctorReferenceDanglingFmt, label, ref.ModelID),
				Recommendation: fmt.Sprintf(messages.DoctorReferenceRecommendFmt, label),
			})
		}
		if !failed {
			results = append(results, Result{
				Status:    StatusOK,
				CheckName: messages.DoctorCheckNameReferences,
				Message:   fmt.Sprintf(messages.DoctorReferencesOKFmt, label, resolved),
			})
		}
	}
	return results
}

// CheckChair verifies the council chair pointer.
func CheckChair(doc map[string]any, known KnownIDs) Result {
	chair, _ := settings.Map(doc, settings.KeyCouncilSettings, settings.KeyChairModel)
	raw, _ := settings.String(chair, "selectionStrategy")
	strategy, ok := settings.ParseChairStrategy(raw)
	if !ok {
		strategy = settings.DefaultChairStrategy
	}
	if strategy != settings.ChairConfigured {
		return Result{Status: StatusOK, CheckName: messages.DoctorCheckNameChair, Message: fmt.Sprintf(messages.DoctorChairOKFmt, strategy)}
	}
	id, _ := settings.String(chair, "configuredChairId")
	switch {
	case strings.TrimSpace(id) == "":
		return Result{
			Status:         StatusWarn,
			CheckName:      messages.DoctorCheckNameChair,
			Message:        fmt.Sprintf(messages.DoctorChairUnsetFmt, strategy),
			Recommendation: messages.DoctorChairRecommend,
		}
	case !known.Has(id):
		return Result{
			Status:         StatusFail,
			CheckName:      messages.DoctorCheckNameChair,
			Message:        fmt.Sprintf(messages.DoctorChairDanglingFmt, id),
			Recommendation: messages.DoctorChairRecommend,
		}
	default:
		return Result{Status: StatusOK, CheckName: messages.DoctorCheckNameChair, Message: fmt.Sprintf(messages.DoctorChairOKFmt, strategy)}
	}
}
