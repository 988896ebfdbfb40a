package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/quizmodels/internal/fingerprint"
	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/settings"
)

func newFingerprintCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   messages.FingerprintUse,
		Short: messages.FingerprintShort,
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

			var registry settings.Registry
			switch s := settings.DetectShape(doc).(type) {
			case settings.RegistryV1Shape:
				registry = s.Registry
			case settings.RegistryV2Shape:
				registry = s.Registry
			}

			out := cmd.OutOrStdout()
			if registry.Len() == 0 {
				_, err := fmt.Fprintln(out, messages.FingerprintEmpty)
				return err
			}
			for _, id := range registry.IDs() {
				model, _ := registry.Get(id)
				digest := fingerprint.Digest(fingerprint.Of(model))
				if _, err := fmt.Fprintf(out, messages.FingerprintLineFmt, digest, id, model.DisplayName); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
