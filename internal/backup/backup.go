// Package backup stores settings snapshots taken before a migration and restores them.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/conn-castle/quizmodels/internal/messages"
	"github.com/conn-castle/quizmodels/internal/settings"
)

const (
	snapshotSchemaVersion = 1
	// DefaultDirName is the backup directory created next to the settings file.
	DefaultDirName = ".qm-backups"
	// DefaultMaxRetained bounds how many snapshots are kept per directory.
	DefaultMaxRetained = 20
)

// ErrSnapshotNotFound reports a snapshot id with no file in the backup directory.
var ErrSnapshotNotFound = errors.New("backup snapshot not found")

// Status tracks what happened to the settings after a snapshot was taken.
type Status string

// Snapshot statuses.
const (
	StatusCreated       Status = "created"
	StatusApplied       Status = "applied"
	StatusRestored      Status = "restored"
	StatusRestoreFailed Status = "restore_failed"
)

// Snapshot is one stored copy of a settings document.
type Snapshot struct {
	SchemaVersion int             `json:"schema_version"`
	SnapshotID    string          `json:"snapshot_id"`
	CreatedAtUTC  string          `json:"created_at_utc"`
	Status        Status          `json:"status"`
	SourcePath    string          `json:"source_path"`
	FailureError  string          `json:"failure_error,omitempty"`
	Settings      json.RawMessage `json:"settings"`
}

// Metadata provides lightweight snapshot listing fields.
type Metadata struct {
	ID           string
	CreatedAtUTC string
	Status       Status
	Path         string
}

// Options configures a Store.
type Options struct {
	// Dir holds the snapshots. Empty selects DefaultDir(Source).
	Dir string
	// Source is the settings file the snapshots belong to.
	Source string
	System System
	// MaxRetained of zero selects DefaultMaxRetained.
	MaxRetained int
	Now         func() time.Time
}

// Store is a directory of settings snapshots for one settings file. It implements
// migrate.BackupService.
type Store struct {
	dir         string
	source      string
	sys         System
	maxRetained int
	now         func() time.Time
}

type snapshotFile struct {
	path      string
	createdAt time.Time
	snapshot  Snapshot
}

// DefaultDir returns the backup directory used for source when none is configured.
func DefaultDir(source string) string {
	return filepath.Join(filepath.Dir(source), DefaultDirName)
}

// NewStore validates opts and returns a Store.
func NewStore(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Source) == "" {
		return nil, fmt.Errorf(messages.BackupSourceRequired)
	}
	if opts.System == nil {
		return nil, fmt.Errorf(messages.BackupSystemRequired)
	}
	source, err := filepath.Abs(opts.Source)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", opts.Source, err)
	}
	dir := opts.Dir
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir(source)
	}
	store := &Store{dir: filepath.Clean(dir), source: source, sys: opts.System, maxRetained: opts.MaxRetained, now: opts.Now}
	if store.maxRetained <= 0 {
		store.maxRetained = DefaultMaxRetained
	}
	if store.now == nil {
		store.now = time.Now
	}
	return store, nil
}

// Dir returns the snapshot directory.
func (s *Store) Dir() string { return s.dir }

// CreateBackup writes doc as a new snapshot and returns its path. Older snapshots
// beyond the retention limit are removed first.
func (s *Store) CreateBackup(ctx context.Context, doc any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode settings snapshot: %w", err)
	}
	now := s.now().UTC()
	snapshot := Snapshot{
		SchemaVersion: snapshotSchemaVersion,
		SnapshotID:    newSnapshotID(now),
		CreatedAtUTC:  now.Format(time.RFC3339),
		Status:        StatusCreated,
		SourcePath:    s.source,
		Settings:      data,
	}
	if err := s.prune(s.maxRetained - 1); err != nil {
		return "", err
	}
	if err := s.sys.MkdirAll(s.dir, 0o700); err != nil {
		return "", fmt.Errorf(messages.BackupFailedCreateDirFmt, s.dir, err)
	}
	path := s.pathFor(snapshot.SnapshotID)
	if err := writeSnapshotFile(path, snapshot, s.sys); err != nil {
		return "", err
	}
	return path, nil
}

func newSnapshotID(now time.Time) string {
	return fmt.Sprintf("%s-%s", now.UTC().Format("20060102-150405"), uuid.NewString()[:8])
}

// IDFromPath returns the snapshot id of a path returned by CreateBackup.
func IDFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".json")
}

// MarkApplied records that the migrated settings were written after the snapshot.
func (s *Store) MarkApplied(id string) error {
	path, snapshot, err := s.load(id)
	if err != nil {
		return err
	}
	snapshot.Status = StatusApplied
	return writeSnapshotFile(path, snapshot, s.sys)
}

// List returns snapshots belonging to the source file, newest first. Unreadable
// snapshots are skipped.
func (s *Store) List() ([]Metadata, error) {
	files, err := s.listFiles()
	if err != nil {
		return nil, err
	}
	out := make([]Metadata, 0, len(files))
	for i := len(files) - 1; i >= 0; i-- {
		if files[i].snapshot.SourcePath != s.source {
			continue
		}
		out = append(out, Metadata{
			ID:           files[i].snapshot.SnapshotID,
			CreatedAtUTC: files[i].snapshot.CreatedAtUTC,
			Status:       files[i].snapshot.Status,
			Path:         files[i].path,
		})
	}
	return out, nil
}

// Load returns the snapshot stored under id.
func (s *Store) Load(id string) (Snapshot, error) {
	_, snapshot, err := s.load(id)
	return snapshot, err
}

// Restore writes the snapshot back over the source file. The snapshot status records
// the outcome either way.
func (s *Store) Restore(id string) error {
	path, snapshot, err := s.load(id)
	if err != nil {
		return err
	}
	if snapshot.SourcePath != s.source {
		return fmt.Errorf(messages.BackupSnapshotSourceMismatchFmt, snapshot.SnapshotID, snapshot.SourcePath, s.source)
	}
	if err := s.restoreSettings(snapshot); err != nil {
		snapshot.Status = StatusRestoreFailed
		snapshot.FailureError = err.Error()
		if writeErr := writeSnapshotFile(path, snapshot, s.sys); writeErr != nil {
			return fmt.Errorf("restore snapshot %s failed: %w; failed to persist restore_failed state: %v", id, err, writeErr)
		}
		return fmt.Errorf(messages.BackupRestoreFailedFmt, id, err)
	}
	snapshot.Status = StatusRestored
	snapshot.FailureError = ""
	if err := writeSnapshotFile(path, snapshot, s.sys); err != nil {
		return fmt.Errorf("restore snapshot %s succeeded but failed to persist restored state: %w", id, err)
	}
	return nil
}

func (s *Store) restoreSettings(snapshot Snapshot) error {
	doc, err := settings.Decode(snapshot.Settings)
	if err != nil {
		return err
	}
	data, err := settings.Encode(doc)
	if err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if info, err := s.sys.Stat(s.source); err == nil {
		perm = info.Mode().Perm()
	}
	if err := s.sys.WriteFileAtomic(s.source, data, perm); err != nil {
		return fmt.Errorf(messages.BackupFailedWriteFmt, s.source, err)
	}
	return nil
}

func (s *Store) pathFor(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) load(id string) (string, Snapshot, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", Snapshot{}, fmt.Errorf(messages.BackupSnapshotIDRequired)
	}
	// Reject path traversal: id must be a bare filename component.
	if filepath.Base(id) != id || id == "." || id == ".." {
		return "", Snapshot{}, fmt.Errorf(messages.BackupSnapshotIDInvalidFmt, id)
	}
	path := s.pathFor(id)
	if _, err := s.sys.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", Snapshot{}, fmt.Errorf("%w: "+messages.BackupSnapshotNotFoundFmt, ErrSnapshotNotFound, id, s.dir)
		}
		return "", Snapshot{}, fmt.Errorf(messages.BackupFailedReadFmt, path, err)
	}
	snapshot, err := readSnapshot(path, s.sys)
	if err != nil {
		return "", Snapshot{}, err
	}
	return path, snapshot, nil
}

func (s *Store) prune(retain int) error {
	if retain < 0 {
		return fmt.Errorf("retain must be non-negative, got %d", retain)
	}
	files, err := s.listFiles()
	if err != nil {
		return err
	}
	var owned []snapshotFile
	for _, file := range files {
		if file.snapshot.SourcePath == s.source {
			owned = append(owned, file)
		}
	}
	for i := 0; i < len(owned)-retain; i++ {
		if err := s.sys.RemoveAll(owned[i].path); err != nil {
			return fmt.Errorf("delete old backup snapshot %s: %w", owned[i].path, err)
		}
	}
	return nil
}

// listFiles returns readable snapshots oldest first.
func (s *Store) listFiles() ([]snapshotFile, error) {
	if _, err := s.sys.Stat(s.dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.BackupFailedListFmt, s.dir, err)
	}
	var files []snapshotFile
	err := s.sys.WalkDir(s.dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != s.dir {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".json") {
			return nil
		}
		snapshot, err := readSnapshot(path, s.sys)
		if err != nil {
			// A malformed snapshot must not block listing or retention.
			return nil
		}
		createdAt, _ := time.Parse(time.RFC3339, snapshot.CreatedAtUTC)
		files = append(files, snapshotFile{path: path, createdAt: createdAt, snapshot: snapshot})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(messages.BackupFailedListFmt, s.dir, err)
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].createdAt.Equal(files[j].createdAt) {
			return files[i].snapshot.SnapshotID < files[j].snapshot.SnapshotID
		}
		return files[i].createdAt.Before(files[j].createdAt)
	})
	return files, nil
}

func writeSnapshotFile(path string, snapshot Snapshot, sys System) error {
	if err := validateSnapshot(snapshot); err != nil {
		return fmt.Errorf(messages.BackupValidateFmt, path, err)
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backup snapshot: %w", err)
	}
	data = append(data, '\n')
	if err := sys.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf(messages.BackupFailedWriteFmt, path, err)
	}
	return nil
}

func readSnapshot(path string, sys System) (Snapshot, error) {
	data, err := sys.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf(messages.BackupFailedReadFmt, path, err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf(messages.BackupDecodeFmt, path, err)
	}
	if err := validateSnapshot(snapshot); err != nil {
		return Snapshot{}, fmt.Errorf(messages.BackupValidateFmt, path, err)
	}
	return snapshot, nil
}

func validateSnapshot(snapshot Snapshot) error {
	if snapshot.SchemaVersion != snapshotSchemaVersion {
		return fmt.Errorf("unsupported schema_version %d", snapshot.SchemaVersion)
	}
	if strings.TrimSpace(snapshot.SnapshotID) == "" {
		return fmt.Errorf("snapshot_id is required")
	}
	if _, err := time.Parse(time.RFC3339, snapshot.CreatedAtUTC); err != nil {
		return fmt.Errorf("invalid created_at_utc %q: %w", snapshot.CreatedAtUTC, err)
	}
	switch snapshot.Status {
	case StatusCreated, StatusApplied, StatusRestored, StatusRestoreFailed:
	default:
		return fmt.Errorf("invalid status %q", snapshot.Status)
	}
	if strings.TrimSpace(snapshot.SourcePath) == "" {
		return fmt.Errorf("source_path is required")
	}
	if len(snapshot.Settings) == 0 {
		return fmt.Errorf("settings is required")
	}
	return nil
}
