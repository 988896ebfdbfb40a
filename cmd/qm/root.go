package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/quizmodels/internal/config"
	"github.com/conn-castle/quizmodels/internal/logging"
	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/prompt"
	"github.com/conn-castle/quizmodels/internal/report"
)

var newConfirmer = func() prompt.Confirmer { return prompt.NewHuhConfirmer() }

// app holds the state shared by every command: flags, loaded config and logger.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", messages.RootFlagConfig)
	flags.StringVar(&a.logLevel, "log-level", "", messages.RootFlagLogLevel)
	flags.StringVar(&a.logFormat, "log-format", "", messages.RootFlagLogFormat)
	flags.BoolVar(&a.noColor, "no-color", false, messages.RootFlagNoColor)

	cmd.AddCommand(
		newMigrateCmd(a),
		newDetectCmd(a),
		newDoctorCmd(a),
		newFingerprintCmd(a),
		newBackupsCmd(a),
		newRollbackCmd(a),
		newWatchCmd(a),
	)
	return cmd
}

// load resolves the config file and builds the logger. Flags override config values.
func (a *app) load(cmd *cobra.Command) error {
	path, err := a.resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel()
	if strings.TrimSpace(a.logLevel) != "" {
		level = a.logLevel
	}
	format := cfg.LogFormat()
	if strings.TrimSpace(a.logFormat) != "" {
		format = a.logFormat
	}
	a.logger = logging.New(cmd.ErrOrStderr(), level, format)
	a.logger.Debug("config loaded", "path", path)

	if a.noColor || !cfg.ColorEnabled() {
		color.NoColor = true
	}
	return nil
}

func (a *app) resolveConfigPath() (string, error) {
	if strings.TrimSpace(a.configPath) != "" {
		return config.ExpandPath(a.configPath)
	}
	if env := strings.TrimSpace(os.Getenv(config.EnvConfigPath)); env != "" {
		return config.ExpandPath(env)
	}
	return config.DefaultPath()
}

func (a *app) reportOptions() report.Options {
	return report.Options{NoiseMode: a.cfg.NoiseMode(), Color: !color.NoColor}
}

// settingsPathArg validates the single settings path argument.
func settingsPathArg(args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", fmt.Errorf(messages.SettingsPathRequired)
	}
	return args[0], nil
}
