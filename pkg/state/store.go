package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store persists the set of already-delivered entry identifiers
type Store interface {
	Load() (map[string]struct{}, error)
	Save(ids []string) error
}

// New picks a backend by path extension: .db/.sqlite/.sqlite3 selects the
// SQLite store, everything else the JSON file store.
func New(path string) (Store, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(path)
	default:
		return NewFileStore(path), nil
	}
}

// FileStore keeps identifiers in a single JSON array of strings. A missing or
// malformed file is treated as an empty set, never as an error.
type FileStore struct {
	path string
}

// NewFileStore creates a JSON file backed store at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted identifier set
func (s *FileStore) Load() (map[string]struct{}, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		// absent state means nothing was delivered yet
		return map[string]struct{}{}, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		// corrupt state, start fresh but don't fail the run
		return map[string]struct{}{}, nil
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Save merges the given identifiers into the persisted set and writes the
// union back. The re-load before write keeps additions from a concurrent run
// that finished between our load and save; a truly simultaneous save can
// still lose one side, which is a documented limitation.
func (s *FileStore) Save(ids []string) error {
	existing, _ := s.Load() // load never fails
	for _, id := range ids {
		existing[id] = struct{}{}
	}

	merged := make([]string, 0, len(existing))
	for id := range existing {
		merged = append(merged, id)
	}
	sort.Strings(merged)

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write seen state %s: %w", s.path, err)
	}
	return nil
}
