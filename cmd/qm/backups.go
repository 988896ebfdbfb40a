package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/quizmodels/internal/config"
	"github.com/conn-castle/quizmodels/internal/messages"
)

func newBackupsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.BackupsUse,
		Short: messages.BackupsShort,
	}
	cmd.AddCommand(newBackupsListCmd(a))
	return cmd
}

func newBackupsListCmd(a *app) *cobra.Command {
	var backupDir string
	cmd := &cobra.Command{
		Use:   messages.BackupsListUse,
		Short: messages.BackupsListShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := settingsPathArg(args)
			if err != nil {
				return err
			}
			dir, err := config.ExpandPath(backupDir)
			if err != nil {
				return err
			}
			store, err := a.newStore(path, dir)
			if err != nil {
				return err
			}
			list, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				_, err := fmt.Fprintln(out, messages.BackupsListEmpty)
				return err
			}
			for _, meta := range list {
				if _, err := fmt.Fprintf(out, messages.BackupsListLineFmt, meta.ID, meta.CreatedAtUTC, meta.Status); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&backupDir, "backup-dir", "", messages.MigrateFlagBackupDir)
	return cmd
}

func newRollbackCmd(a *app) *cobra.Command {
	var backupDir string
	cmd := &cobra.Command{
		Use:   messages.RollbackUse,
		Short: messages.RollbackShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := settingsPathArg(args)
			if err != nil {
				return err
			}
			dir, err := config.ExpandPath(backupDir)
			if err != nil {
				return err
			}
			store, err := a.newStore(path, dir)
			if err != nil {
				return err
			}
			if err := store.Restore(args[1]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), messages.RollbackDoneFmt, path, args[1])
			return err
		},
	}
	cmd.Flags().StringVar(&backupDir, "backup-dir", "", messages.MigrateFlagBackupDir)
	return cmd
}
