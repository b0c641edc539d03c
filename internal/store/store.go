// Package store implements the ordered, file-backed task collections that
// the tracker keeps on disk: one store for incomplete tasks, one for
// completed tasks. Records are line-oriented JSON, one task per line, so the
// completed store can grow by appending while the incomplete store is
// rewritten whole on every structural change.
package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/user/mtd/internal/task"
)

var saveLock sync.Mutex

// Store is an ordered collection of tasks bound to a backing file.
type Store struct {
	path  string
	tasks []*task.Task
	log   zerolog.Logger
}

// Load reads a store from disk. A missing file yields an empty store. A
// record that fails to parse is skipped with a warning rather than aborting
// the load, so one corrupt line cannot erase the rest of the file's tasks.
// Legacy records without an ID get one assigned.
func Load(path string, logger zerolog.Logger) (*Store, error) {
	s := &Store{path: path, log: logger}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to open store %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var t task.Task
		if err := json.Unmarshal(raw, &t); err != nil {
			s.log.Warn().
				Str("file", filepath.Base(path)).
				Int("line", line).
				Err(err).
				Msg("skipping malformed task record")
			continue
		}

		if t.EnsureID() {
			s.log.Debug().
				Str("file", filepath.Base(path)).
				Int("line", line).
				Msg("assigned id to legacy record")
		}

		s.tasks = append(s.tasks, &t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read store %s: %w", path, err)
	}

	s.Reindex()
	return s, nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Tasks returns the store's tasks in current order
func (s *Store) Tasks() []*task.Task {
	return s.tasks
}

// Len returns the number of tasks in the store
func (s *Store) Len() int {
	return len(s.tasks)
}

// ByID returns the store's tasks keyed by ID
func (s *Store) ByID() map[string]*task.Task {
	m := make(map[string]*task.Task, len(s.tasks))
	for _, t := range s.tasks {
		m[t.ID] = t
	}
	return m
}

// Add inserts tasks into the in-memory collection. Callers persist with
// Save or Append.
func (s *Store) Add(ts ...*task.Task) {
	s.tasks = append(s.tasks, ts...)
	s.Reindex()
}

// RemoveByID drops every task whose ID is in ids and returns the removed
// tasks in their previous order.
func (s *Store) RemoveByID(ids map[string]bool) []*task.Task {
	var removed []*task.Task
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if ids[t.ID] {
			removed = append(removed, t)
		} else {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.Reindex()
	return removed
}

// Reindex reassigns display indices 1..N in current sequence order. Called
// after every structural change.
func (s *Store) Reindex() {
	for i, t := range s.tasks {
		t.DisplayIndex = i + 1
	}
}

// Save rewrites the whole backing file from the in-memory collection.
// Used for the incomplete store, where deletions and reindexing require a
// full rewrite.
func (s *Store) Save() error {
	saveLock.Lock()
	defer saveLock.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	var buf bytes.Buffer
	for _, t := range s.tasks {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal task %s: %w", t.ID, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	// Write atomically via temp file
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename store: %w", err)
	}

	return nil
}

// Append adds tasks to the collection and appends their records to the
// backing file without rewriting existing lines. Used for the completed
// store, where completion only ever adds records.
func (s *Store) Append(ts ...*task.Task) error {
	if len(ts) == 0 {
		return nil
	}

	saveLock.Lock()
	defer saveLock.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	var buf bytes.Buffer
	for _, t := range ts {
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal task %s: %w", t.ID, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open store for append: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("failed to append to store: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}

	s.tasks = append(s.tasks, ts...)
	s.Reindex()
	return nil
}

// EnsureSorted restores non-decreasing completion order, returning true if
// a repair was needed. Tasks without a completion stamp sort first. The
// caller decides whether a repair warrants rewriting the backing file.
func (s *Store) EnsureSorted() bool {
	if sort.SliceIsSorted(s.tasks, s.lessByCompletion) {
		return false
	}
	sort.SliceStable(s.tasks, s.lessByCompletion)
	s.Reindex()
	return true
}

func (s *Store) lessByCompletion(i, j int) bool {
	a, b := s.tasks[i].CompletedAt, s.tasks[j].CompletedAt
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return a.Before(b.Time)
	}
}

// Serialize renders the store as its on-disk byte form, one JSON record per
// line. Used when encrypting the store for upload.
func (s *Store) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	for _, t := range s.tasks {
		data, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal task %s: %w", t.ID, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Parse builds an unbound store from serialized records, applying the same
// lenient per-line policy as Load. Used for decrypted remote snapshots.
func Parse(data []byte, logger zerolog.Logger) (*Store, error) {
	s := &Store{log: logger}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var t task.Task
		if err := json.Unmarshal(raw, &t); err != nil {
			s.log.Warn().Int("line", line).Err(err).Msg("skipping malformed remote record")
			continue
		}
		if t.EnsureID() {
			s.log.Debug().Int("line", line).Msg("assigned id to legacy remote record")
		}

		s.tasks = append(s.tasks, &t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}

	s.Reindex()
	return s, nil
}
