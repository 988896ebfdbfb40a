package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/conn-castle/quizmodels/internal/backup"
	"github.com/conn-castle/quizmodels/internal/config"
	"github.com/conn-castle/quizmodels/internal/logging"
	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/migrate"
	"github.com/conn-castle/quizmodels/internal/prompt"
	"github.com/conn-castle/quizmodels/internal/report"
	"github.com/conn-castle/quizmodels/internal/settings"
)

// Overridable in tests.
var (
	newModelID = uuid.NewString
	now        = time.Now
)

type migrateOptions struct {
	dryRun    bool
	diff      bool
	diffLines int
	json      bool
	yes       bool
	noBackup  bool
	backupDir string
	// silentNotNeeded suppresses the report for documents that are already current.
	silentNotNeeded bool
}

func newMigrateCmd(a *app) *cobra.Command {
	var opts migrateOptions
	cmd := &cobra.Command{
		Use:   messages.MigrateUse,
		Short: messages.MigrateShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := settingsPathArg(args)
			if err != nil {
				return err
			}
			return a.runMigrate(cmd.Context(), cmd.OutOrStdout(), path, opts)
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.dryRun, "dry-run", false, messages.MigrateFlagDryRun)
	flags.BoolVar(&opts.diff, "diff", false, messages.MigrateFlagDiff)
	flags.IntVar(&opts.diffLines, "diff-lines", 0, messages.MigrateFlagDiffLines)
	flags.BoolVar(&opts.json, "json", false, messages.MigrateFlagJSON)
	flags.BoolVarP(&opts.yes, "yes", "y", false, messages.MigrateFlagYes)
	flags.BoolVar(&opts.noBackup, "no-backup", false, messages.MigrateFlagNoBackup)
	flags.StringVar(&opts.backupDir, "backup-dir", "", messages.MigrateFlagBackupDir)
	return cmd
}

// newStore opens the backup store for a settings file. An explicit dir wins over
// the configured one; both fall back to the directory next to the settings file.
func (a *app) newStore(path string, dir string) (*backup.Store, error) {
	if dir == "" {
		configured, err := a.cfg.BackupDir()
		if err != nil {
			return nil, err
		}
		dir = configured
	}
	return backup.NewStore(backup.Options{
		Dir:         dir,
		Source:      path,
		System:      backup.RealSystem{},
		MaxRetained: a.cfg.BackupMaxRetained(),
		Now:         now,
	})
}

// runMigrate migrates one settings file: report, optional diff, confirmation and
// atomic write. Settings are only written after a successful run.
func (a *app) runMigrate(ctx context.Context, out io.Writer, path string, opts migrateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.noBackup && a.cfg.RequireBackup() && !opts.dryRun {
		return fmt.Errorf(messages.MigrateBackupRequired)
	}
	doc, err := settings.ReadFile(path)
	if err != nil {
		return fmt.Errorf(messages.SettingsReadFailedFmt, path, err)
	}

	logger := logging.WithSettings(a.logger, path)
	migratorOpts := migrate.Options{Logger: logger, NewID: newModelID, Now: now}
	var store *backup.Store
	if !opts.dryRun && !opts.noBackup {
		dir, err := config.ExpandPath(opts.backupDir)
		if err != nil {
			return err
		}
		store, err = a.newStore(path, dir)
		if err != nil {
			return err
		}
		migratorOpts.Backup = store
	}

	res := migrate.New(migratorOpts).Migrate(ctx, doc)
	if opts.silentNotNeeded && res.State == migrate.StateNotNeeded {
		logger.Debug("settings already current")
		return nil
	}

	if opts.json {
		if err := report.WriteJSON(out, res); err != nil {
			return err
		}
	} else if err := report.WriteText(out, res, a.reportOptions()); err != nil {
		return err
	}
	if !res.Success {
		return errors.New(messages.MigrateFailedError)
	}
	if res.State == migrate.StateNotNeeded {
		return nil
	}

	if opts.diff {
		lines := opts.diffLines
		if lines <= 0 {
			lines = a.cfg.DiffLines()
		}
		diff, err := report.SettingsDiff(path, doc, res.Settings, lines)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprint(out, diff.String()); err != nil {
			return err
		}
	}

	if opts.dryRun {
		_, err := fmt.Fprintln(out, messages.MigrateDryRunNotice)
		return err
	}

	if !opts.yes {
		ok, err := newConfirmer().Confirm(messages.MigrateApplyPrompt, true)
		if errors.Is(err, prompt.ErrNotInteractive) {
			return errors.New(messages.MigrateRequiresTerminal)
		}
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(out, messages.MigrateDeclined)
			return err
		}
	}

	return applyResult(out, path, res, store)
}

// applyResult writes migrated settings and marks the backup taken for this run as
// applied.
func applyResult(out io.Writer, path string, res migrate.Result, store *backup.Store) error {
	if err := settings.WriteFile(path, res.Settings); err != nil {
		return fmt.Errorf(messages.SettingsWriteFailedFmt, path, err)
	}
	if store != nil && res.BackupPath != "" {
		id := backup.IDFromPath(res.BackupPath)
		if err := store.MarkApplied(id); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, messages.MigrateBackupCreatedFmt, res.BackupPath, path, id); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, messages.MigrateAppliedFmt, path)
	return err
}
