package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

func TestParseConfigFull(t *testing.T) {
	data := `
[backup]
dir = "/var/backups/qm"
max_retained = 5

[output]
diff_lines = 40
noise_mode = "quiet"
color = false

[log]
level = "debug"
format = "json"

[migrate]
require_backup = false

[watch]
debounce = "1s"
`
	cfg, err := ParseConfig([]byte(data), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backup.Dir != "/var/backups/qm" {
		t.Errorf("backup dir: got %q", cfg.Backup.Dir)
	}
	if cfg.BackupMaxRetained() != 5 {
		t.Errorf("max retained: got %d", cfg.BackupMaxRetained())
	}
	if cfg.DiffLines() != 40 {
		t.Errorf("diff lines: got %d", cfg.DiffLines())
	}
	if cfg.NoiseMode() != NoiseModeQuiet {
		t.Errorf("noise mode: got %q", cfg.NoiseMode())
	}
	if cfg.ColorEnabled() {
		t.Error("expected color to be disabled")
	}
	if cfg.LogLevel() != "debug" || cfg.LogFormat() != "json" {
		t.Errorf("log: got %q/%q", cfg.LogLevel(), cfg.LogFormat())
	}
	if cfg.RequireBackup() {
		t.Error("expected require_backup to be false")
	}
	if cfg.WatchDebounce() != time.Second {
		t.Errorf("debounce: got %s", cfg.WatchDebounce())
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(""), "empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BackupMaxRetained() != 20 {
		t.Errorf("max retained default: got %d", cfg.BackupMaxRetained())
	}
	if cfg.DiffLines() != defaultDiffLines {
		t.Errorf("diff lines default: got %d", cfg.DiffLines())
	}
	if cfg.NoiseMode() != NoiseModeDefault {
		t.Errorf("noise mode default: got %q", cfg.NoiseMode())
	}
	if !cfg.ColorEnabled() || !cfg.RequireBackup() {
		t.Error("expected color and require_backup to default to true")
	}
	if cfg.LogLevel() != "warn" || cfg.LogFormat() != "text" {
		t.Errorf("log defaults: got %q/%q", cfg.LogLevel(), cfg.LogFormat())
	}
	if cfg.WatchDebounce() != defaultDebounce {
		t.Errorf("debounce default: got %s", cfg.WatchDebounce())
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.NoiseMode() != NoiseModeDefault {
		t.Errorf("expected defaults, got noise mode %q", cfg.NoiseMode())
	}
}

func TestLoadReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[output]\ndiff_lines = 7\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DiffLines() != 7 {
		t.Errorf("diff lines: got %d", cfg.DiffLines())
	}
}

func TestLoadReadError(t *testing.T) {
	// A directory cannot be read as a file.
	dir := t.TempDir()
	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected read error")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseConfig_UnknownKeyIsValidationError(t *testing.T) {
	_, err := ParseConfig([]byte("[output]\nnoise = \"quiet\"\n"), "test")
	if err == nil {
		t.Fatal("expected unknown key error")
	}
	if !errors.Is(err, ErrConfigValidation) {
		t.Fatalf("expected error to wrap ErrConfigValidation, got: %v", err)
	}
	if !strings.Contains(err.Error(), "unrecognized config keys") {
		t.Fatalf("expected unrecognized keys message, got: %v", err)
	}
}

func TestParseConfig_ValidationErrorNamesField(t *testing.T) {
	_, err := ParseConfig([]byte("[log]\nlevel = \"loud\"\n"), "test")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrConfigValidation) {
		t.Fatalf("expected error to wrap ErrConfigValidation, got: %v", err)
	}
	if !strings.Contains(err.Error(), "log.level") {
		t.Fatalf("expected error to name log.level, got: %v", err)
	}
}

func TestParseConfig_TOMLSyntaxErrorIsNotValidationError(t *testing.T) {
	_, err := ParseConfig([]byte(`{{{`), "test")
	if err == nil {
		t.Fatal("expected TOML syntax error")
	}
	if errors.Is(err, ErrConfigValidation) {
		t.Fatalf("TOML syntax error should not match ErrConfigValidation, got: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	got, err := ExpandPath("~/backups/../qm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != filepath.Join(home, "qm") {
		t.Errorf("expected %q, got %q", filepath.Join(home, "qm"), got)
	}
	empty, err := ExpandPath("  ")
	if err != nil || empty != "" {
		t.Errorf("expected empty path to stay empty, got %q, %v", empty, err)
	}
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(home, ".config", "qm", "config.toml")
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
