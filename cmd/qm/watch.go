package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	var backupDir string
	cmd := &cobra.Command{
		Use:   messages.WatchUse,
		Short: messages.WatchShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := settingsPathArg(args)
			if err != nil {
				return err
			}
			if debounce <= 0 {
				debounce = a.cfg.WatchDebounce()
			}
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			opts := migrateOptions{yes: true, backupDir: backupDir, silentNotNeeded: true}

			handler := func(ctx context.Context, path string) {
				if err := a.runMigrate(ctx, out, path, opts); err != nil {
					_, _ = fmt.Fprintf(errOut, messages.WatchRunFailedFmt, err)
				}
			}
			w, err := watch.New(path, debounce, a.logger, handler)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			_, _ = fmt.Fprintf(out, messages.WatchStartedFmt, w.Path())
			handler(ctx, w.Path())
			return w.Run(ctx, nil)
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 0, messages.WatchFlagDebounce)
	cmd.Flags().StringVar(&backupDir, "backup-dir", "", messages.MigrateFlagBackupDir)
	return cmd
}
