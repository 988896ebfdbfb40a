package report

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/settings"
)

// DefaultDiffMaxLines is used when no positive line cap is given.
const DefaultDiffMaxLines = 200

// Diff is a unified diff between two renderings of a settings document.
type Diff struct {
	Unified   string
	Truncated bool
	// Empty is true when both documents encode identically.
	Empty bool
}

func normalizeDiffMaxLines(value int) int {
	if value <= 0 {
		return DefaultDiffMaxLines
	}
	return value
}

// SettingsDiff encodes before and after the way the settings file is written and
// diffs them, capping the output at maxLines lines.
func SettingsDiff(name string, before any, after any, maxLines int) (Diff, error) {
	from, err := settings.Encode(before)
	if err != nil {
		return Diff{}, fmt.Errorf(messages.ReportEncodeFailedFmt, err)
	}
	to, err := settings.Encode(after)
	if err != nil {
		return Diff{}, fmt.Errorf(messages.ReportEncodeFailedFmt, err)
	}
	if string(from) == string(to) {
		return Diff{Empty: true}, nil
	}
	rendered, truncated := renderTruncatedUnifiedDiff(
		fmt.Sprintf(messages.ReportDiffBeforeNameFmt, name),
		fmt.Sprintf(messages.ReportDiffAfterNameFmt, name),
		string(from),
		string(to),
		maxLines,
	)
	return Diff{Unified: rendered, Truncated: truncated}, nil
}

// String returns the printable diff, or a no-changes line.
func (d Diff) String() string {
	if d.Empty {
		return messages.ReportDiffNoChanges + "\n"
	}
	return d.Unified
}

func renderTruncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	limit := normalizeDiffMaxLines(maxLines)
	diff := udiff.Unified(fromName, toName, fromContent, toContent)
	lines := splitDiffLines(diff)
	if len(lines) <= limit {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := lines[:limit]
	truncated = append(truncated, fmt.Sprintf(messages.ReportDiffTruncatedFmt, limit))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" || strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
