// Package report renders migration results for people and for tools.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/quizmodels/internal/config"
	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/migrate"
)

// Options controls text rendering.
type Options struct {
	// NoiseMode is config.NoiseModeDefault or config.NoiseModeQuiet.
	NoiseMode string
	Color     bool
}

// errWriter wraps an io.Writer and accumulates the first error encountered,
// allowing sequential writes without per-call error checks.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func (ew *errWriter) println(args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, args...)
}

type palette struct {
	ok   *color.Color
	warn *color.Color
	fail *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed),
	}
	if !enabled {
		p.ok.DisableColor()
		p.warn.DisableColor()
		p.fail.DisableColor()
	}
	return p
}

// WriteText writes a human-readable summary of res. Errors are always listed; in
// quiet mode warnings collapse into a single count line.
func WriteText(out io.Writer, res migrate.Result, opts Options) error {
	p := newPalette(opts.Color)
	ew := &errWriter{w: out}

	switch {
	case res.State == migrate.StateNotNeeded:
		ew.print(p.ok.Sprintf(messages.ReportNotNeededFmt, res.Shape))
	case res.Success:
		ew.print(p.ok.Sprintf(messages.ReportStateFmt, res.State, res.Shape))
	default:
		ew.print(p.fail.Sprintf(messages.ReportStateFmt, res.State, res.Shape))
	}

	if res.Migrated {
		stats := res.Stats
		ew.printf(messages.ReportModelsFmt, stats.TotalBeforeDedup, stats.TotalAfterDedup, stats.DuplicatesRemoved)
		ew.printf(messages.ReportRegistryFmt, stats.ReusedFromRegistry, stats.InsertedIntoRegistry)
		if stats.ReferencesDropped > 0 {
			ew.print(p.warn.Sprintf(messages.ReportDroppedFmt, stats.ReferencesDropped))
		}
	}
	if res.BackupPath != "" {
		ew.printf(messages.ReportBackupFmt, res.BackupPath)
	}
	if len(res.Merges) > 0 {
		ew.println(messages.ReportMergesHeader)
		for _, merge := range res.Merges {
			ew.printf(messages.ReportMergeLineFmt, merge.CanonicalID, merge.DisplayName,
				strings.Join(merge.MergedIDs, ", "), joinOrigins(merge.Origins))
		}
	}
	if len(res.PrunedFields) > 0 {
		ew.println(messages.ReportPrunedHeader)
		for _, field := range res.PrunedFields {
			ew.printf(messages.ReportItemFmt, field)
		}
	}

	if len(res.Warnings) > 0 {
		if opts.NoiseMode == config.NoiseModeQuiet {
			ew.print(p.warn.Sprintf(messages.ReportQuietWarningsFmt, len(res.Warnings)))
		} else {
			ew.print(p.warn.Sprintf(messages.ReportWarningsFmt, len(res.Warnings)))
			for _, warning := range res.Warnings {
				ew.printf(messages.ReportItemFmt, warning)
			}
		}
	}
	if len(res.Errors) > 0 {
		ew.print(p.fail.Sprintf(messages.ReportErrorsFmt, len(res.Errors)))
		for _, e := range res.Errors {
			ew.printf(messages.ReportItemFmt, e)
		}
	}
	return ew.err
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func joinOrigins(origins []migrate.Origin) string {
	parts := make([]string, len(origins))
	for i, origin := range origins {
		parts[i] = string(origin)
	}
	return strings.Join(parts, ", ")
}
