// Package todofile persists the task list as a single flat text file, with
// timestamped backups taken before every write.
package todofile

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/voxdo/voxdo/internal/core/task"
)

// DefaultHeader is the comment line written at the top of the task file.
const DefaultHeader = "# My Todo List"

// Store owns the canonical task file. Every operation re-reads the file so
// hand edits between calls are picked up; there is no in-memory cache.
//
// The store serializes read-modify-write cycles through an in-process mutex.
// It provides no cross-process isolation: the single-writer assumption of a
// desktop tool.
type Store struct {
	path    string
	header  string
	backups *BackupManager
	log     zerolog.Logger
	mu      sync.Mutex
}

// NewStore creates a store for the task file at path.
func NewStore(path, header string, backups *BackupManager, log zerolog.Logger) *Store {
	if header == "" {
		header = DefaultHeader
	}
	return &Store{
		path:    path,
		header:  header,
		backups: backups,
		log:     log.With().Str("component", "todofile").Logger(),
	}
}

// Path returns the task file path.
func (s *Store) Path() string { return s.path }

// Load reads and parses the task file. A missing file yields an empty
// document; this is the first-run case, not an error.
func (s *Store) Load(ctx context.Context) (*task.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Update runs fn against the parsed document under the store lock and, when
// fn succeeds, writes the document back. The whole read-modify-write cycle
// is the mutual-exclusion boundary. A failed write leaves the on-disk file
// at its pre-mutation state.
func (s *Store) Update(ctx context.Context, fn func(doc *task.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	return s.save(doc)
}

func (s *Store) load() (*task.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug().Str("path", s.path).Msg("no task file yet, starting empty")
			return task.NewDocument(), nil
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	return task.Parse(string(data)), nil
}

// save backs up the current file, then overwrites it with the rendered
// document. No write happens without a preceding successful backup attempt.
func (s *Store) save(doc *task.Document) error {
	if _, err := s.backups.Backup(s.path); err != nil {
		return fmt.Errorf("backup before write: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(doc.Render(s.header)), 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}

	s.log.Debug().Int("active", len(doc.Active)).Int("done", len(doc.Done)).Msg("wrote task file")
	return nil
}
