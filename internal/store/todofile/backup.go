package todofile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
)

// DefaultRetention is how many backups are kept when none is configured.
const DefaultRetention = 10

const backupPattern = "todo-backup-*.txt"

// BackupManager snapshots the task file into a backup directory before every
// write and prunes snapshots beyond the retention limit.
type BackupManager struct {
	dir       string
	retention int
	log       zerolog.Logger
}

// NewBackupManager creates a backup manager rooted at dir. A retention of 0
// or less falls back to DefaultRetention.
func NewBackupManager(dir string, retention int, log zerolog.Logger) *BackupManager {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &BackupManager{
		dir:       dir,
		retention: retention,
		log:       log.With().Str("component", "backup").Logger(),
	}
}

// Backup copies the file at path into the backup directory with a
// timestamped name and prunes old snapshots. It returns the backup path, or
// "" when the source file does not exist yet (first run is not an error).
func (m *BackupManager) Backup(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read task file for backup: %w", err)
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	// ISO-8601 with colons and dots swapped out so the name is
	// filesystem-safe and still sorts lexicographically by time.
	// Nanosecond precision keeps rapid successive writes distinct.
	ts := time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)

	backupPath := filepath.Join(m.dir, fmt.Sprintf("todo-backup-%s.txt", ts))
	if err := os.WriteFile(backupPath, content, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	m.log.Debug().Str("path", backupPath).Msg("created backup")

	if err := m.prune(); err != nil {
		m.log.Warn().Err(err).Msg("failed to prune old backups")
	}

	return backupPath, nil
}

// List returns the backup file names, newest first.
func (m *BackupManager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := doublestar.Match(backupPattern, e.Name()); ok {
			names = append(names, e.Name())
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// prune deletes backups beyond the retention limit, oldest first.
func (m *BackupManager) prune() error {
	names, err := m.List()
	if err != nil {
		return err
	}

	for _, name := range names[min(m.retention, len(names)):] {
		if err := os.Remove(filepath.Join(m.dir, name)); err != nil {
			return fmt.Errorf("remove old backup %s: %w", name, err)
		}
		m.log.Debug().Str("name", name).Msg("deleted old backup")
	}

	return nil
}

// Prune exposes retention pruning for the backups CLI command.
func (m *BackupManager) Prune() error {
	return m.prune()
}

// Dir returns the backup directory path.
func (m *BackupManager) Dir() string { return m.dir }
