package main

// Tests in this file replace package-level hooks (newConfirmer, newModelID, now).
// Do not use t.Parallel().

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/quizmodels/internal/backup"
	"github.com/conn-castle/quizmodels/internal/config"
	"github.com/conn-castle/quizmodels/internal/prompt"
	"github.com/conn-castle/quizmodels/internal/settings"
	"github.com/conn-castle/quizmodels/internal/testutil"
)

type fakeConfirmer struct {
	answer bool
	err    error
	asked  int
}

func (f *fakeConfirmer) Confirm(string, bool) (bool, error) {
	f.asked++
	return f.answer, f.err
}

// setupCLI isolates config lookup and makes ids and timestamps deterministic.
func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigPath, filepath.Join(dir, "missing-config.toml"))

	origID, origNow, origConfirmer := newModelID, now, newConfirmer
	t.Cleanup(func() { newModelID, now, newConfirmer = origID, origNow, origConfirmer })
	newModelID = testutil.SequentialIDs("model")
	now = testutil.FixedNow
	newConfirmer = func() prompt.Confirmer {
		t.Fatal("unexpected confirmation prompt")
		return nil
	}
	return dir
}

func useConfirmer(t *testing.T, c prompt.Confirmer) {
	t.Helper()
	newConfirmer = func() prompt.Confirmer { return c }
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(append([]string{"qm", "--no-color"}, args...), &out, &errOut)
	return out.String(), err
}

func TestMigrateYesWritesSettingsAndBackup(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())

	out, err := runCLI(t, "migrate", "--yes", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Migration DONE (legacy)")
	assert.Contains(t, out, "Wrote migrated settings to "+path)
	assert.Contains(t, out, "Restore with: qm rollback "+path)

	migrated := testutil.ReadJSON(t, path)
	assert.Equal(t, "model-1", migrated[settings.KeyActiveModelID])
	assert.NotContains(t, migrated, "provider")

	store, err := backup.NewStore(backup.Options{Source: path, System: backup.RealSystem{}})
	require.NoError(t, err)
	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, backup.StatusApplied, list[0].Status)
}

func TestMigrateThenRollbackRestoresOriginal(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())

	_, err := runCLI(t, "migrate", "--yes", path)
	require.NoError(t, err)

	out, err := runCLI(t, "backups", "list", path)
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.NotEmpty(t, fields)
	id := fields[0]
	assert.Contains(t, out, string(backup.StatusApplied))

	out, err = runCLI(t, "rollback", path, id)
	require.NoError(t, err)
	assert.Contains(t, out, "Restored "+path+" from snapshot "+id)

	restored := testutil.ReadJSON(t, path)
	assert.Equal(t, "OpenAI", restored["provider"])
	assert.NotContains(t, restored, settings.KeyModelRegistry)
}

func TestMigrateDryRunDiffLeavesFileAlone(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := runCLI(t, "migrate", "--dry-run", "--diff", path)
	require.NoError(t, err)
	assert.Contains(t, out, "+++ "+path+" (migrated)")
	assert.Contains(t, out, "Dry run: settings were not written.")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	_, err = os.Stat(filepath.Join(dir, backup.DefaultDirName))
	assert.True(t, os.IsNotExist(err), "dry run must not create backups")
}

func TestMigrateDeclinedDoesNotWrite(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())
	confirmer := &fakeConfirmer{answer: false}
	useConfirmer(t, confirmer)

	out, err := runCLI(t, "migrate", path)
	require.NoError(t, err)
	assert.Equal(t, 1, confirmer.asked)
	assert.Contains(t, out, "Migration not applied.")
	assert.Equal(t, "OpenAI", testutil.ReadJSON(t, path)["provider"])
}

func TestMigrateConfirmedWrites(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())
	useConfirmer(t, &fakeConfirmer{answer: true})

	_, err := runCLI(t, "migrate", path)
	require.NoError(t, err)
	assert.Contains(t, testutil.ReadJSON(t, path), settings.KeyModelRegistry)
}

func TestMigrateWithoutTerminalNeedsYes(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())
	useConfirmer(t, &fakeConfirmer{err: prompt.ErrNotInteractive})

	_, err := runCLI(t, "migrate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestMigrateJSONOutput(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())

	out, err := runCLI(t, "migrate", "--json", "--dry-run", path)
	require.NoError(t, err)
	jsonPart := out[:strings.LastIndex(out, "}")+1]
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(jsonPart), &decoded))
	assert.Equal(t, "DONE", decoded["state"])
	assert.Equal(t, true, decoded["success"])
}

func TestMigrateNoBackupRequiresConfigOptOut(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())

	_, err := runCLI(t, "migrate", "--yes", "--no-backup", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate.require_backup")

	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[migrate]\nrequire_backup = false\n"), 0o644))
	_, err = runCLI(t, "--config", cfgPath, "migrate", "--yes", "--no-backup", path)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, backup.DefaultDirName))
	assert.True(t, os.IsNotExist(err))
}

func TestMigrateAlreadyCurrent(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())
	_, err := runCLI(t, "migrate", "--yes", path)
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := runCLI(t, "migrate", "--yes", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No migration needed (registry-v2)")
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMigrateFailureLeavesFileUnchanged(t *testing.T) {
	dir := setupCLI(t)
	doc := map[string]any{
		"councilSettings": map[string]any{
			"models": []any{
				testutil.LegacyEntry("broken", map[string]any{"provider": "OpenAI"}, 1, true),
			},
		},
	}
	path := testutil.WriteSettings(t, dir, "data.json", doc)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	out, err := runCLI(t, "migrate", "--yes", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings were left unchanged")
	assert.Contains(t, out, "Migration FAILED")
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMigrateMissingFile(t *testing.T) {
	dir := setupCLI(t)
	_, err := runCLI(t, "migrate", "--yes", filepath.Join(dir, "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read settings")
}

func TestInvalidConfigFailsEveryCommand(t *testing.T) {
	dir := setupCLI(t)
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[output]\nnoise_mode = \"loud\"\n"), 0o644))
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())

	_, err := runCLI(t, "--config", cfgPath, "detect", path)
	require.ErrorIs(t, err, config.ErrConfigValidation)
}

func TestDetect(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())

	out, err := runCLI(t, "detect", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Shape:    legacy")
	assert.Contains(t, out, "Migrate:  true")
	assert.Contains(t, out, "  - "+string(settings.MarkerConsensusBlobs))

	out, err = runCLI(t, "detect", "--json", path)
	require.NoError(t, err)
	var d detection
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "legacy", d.Shape)
	assert.True(t, d.NeedsMigration)
	assert.Contains(t, d.Markers, settings.MarkerMissingRegistry)
}

func TestDoctor(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())

	out, err := runCLI(t, "doctor", path)
	require.Error(t, err)
	assert.Contains(t, out, "[FAIL]")
	assert.Contains(t, out, "Some checks failed.")

	_, err = runCLI(t, "migrate", "--yes", path)
	require.NoError(t, err)
	out, err = runCLI(t, "doctor", path)
	require.NoError(t, err)
	assert.Contains(t, out, "All checks passed.")
	assert.NotContains(t, out, "[FAIL]")
}

func TestFingerprint(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())

	out, err := runCLI(t, "fingerprint", path)
	require.NoError(t, err)
	assert.Contains(t, out, "The model registry is empty.")

	_, err = runCLI(t, "migrate", "--yes", path)
	require.NoError(t, err)
	out, err = runCLI(t, "fingerprint", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "model-1")
	assert.Contains(t, lines[1], "model-3")
}

func TestBackupsListEmpty(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())

	out, err := runCLI(t, "backups", "list", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No backups found.")
}

func TestRollbackUnknownSnapshot(t *testing.T) {
	dir := setupCLI(t)
	path := testutil.WriteSettings(t, dir, "data.json", testutil.LegacySettings())

	_, err := runCLI(t, "rollback", path, "20240301-120000-deadbeef")
	require.ErrorIs(t, err, backup.ErrSnapshotNotFound)
}
