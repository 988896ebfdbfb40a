package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/report"
	"github.com/conn-castle/quizmodels/internal/settings"
)

// detection is the JSON form of `qm detect`.
type detection struct {
	Shape          string            `json:"shape"`
	Version        settings.Version  `json:"version"`
	NeedsMigration bool              `json:"needsMigration"`
	Markers        []settings.Marker `json:"markers"`
	Malformed      []string          `json:"malformedRegistryEntries,omitempty"`
}

func detect(doc any) detection {
	shape := settings.DetectShape(doc)
	markers := settings.MarkersOf(shape)
	if markers == nil {
		markers = []settings.Marker{}
	}
	d := detection{
		Shape:          shape.Name(),
		Version:        shape.Version(),
		NeedsMigration: settings.NeedsMigration(shape),
		Markers:        markers,
	}
	switch s := shape.(type) {
	case settings.RegistryV1Shape:
		d.Malformed = s.Malformed
	case settings.RegistryV2Shape:
		d.Malformed = s.Malformed
	}
	return d
}

func newDetectCmd(_ *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   messages.DetectUse,
		Short: messages.DetectShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := settingsPathArg(args)
			if err != nil {
				return err
			}
			doc, err := settings.ReadFile(path)
			if err != nil {
				return fmt.Errorf(messages.SettingsReadFailedFmt, path, err)
			}
			d := detect(doc)
			out := cmd.OutOrStdout()
			if asJSON {
				return report.WriteJSON(out, d)
			}
			_, _ = fmt.Fprintf(out, messages.DetectShapeFmt, d.Shape)
			_, _ = fmt.Fprintf(out, messages.DetectVersionFmt, d.Version)
			_, _ = fmt.Fprintf(out, messages.DetectNeedsFmt, d.NeedsMigration)
			if len(d.Markers) > 0 {
				_, _ = fmt.Fprintln(out, messages.DetectMarkersHeader)
				for _, marker := range d.Markers {
					_, _ = fmt.Fprintf(out, messages.DetectMarkerFmt, marker)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, messages.DetectFlagJSON)
	return cmd
}
