package state

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// SQLiteStore keeps delivered identifiers in a single-table SQLite database.
// Semantics match FileStore: inserts are monotonic, nothing is ever removed.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (and if needed creates) the database at the given path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state database %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS seen (id TEXT PRIMARY KEY)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create seen table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads the persisted identifier set
func (s *SQLiteStore) Load() (map[string]struct{}, error) {
	var ids []string
	if err := s.db.Select(&ids, `SELECT id FROM seen`); err != nil {
		return nil, fmt.Errorf("load seen state: %w", err)
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Save inserts the given identifiers, ignoring ones already present
func (s *SQLiteStore) Save(ids []string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO seen (id) VALUES (?)`, id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert seen id: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// Close releases the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
