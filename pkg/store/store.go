// Package store caches compiled program images in SQLite, keyed by a
// hash of the source text, so unchanged sources skip reassembly.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Store is a compile cache over a single SQLite database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// Open opens (creating if needed) the cache database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS programs (
		hash  TEXT PRIMARY KEY,
		name  TEXT NOT NULL,
		image BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores the serialized image for the given source text, replacing
// any previous entry for the same source.
func (s *Store) Put(source, name string, img []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO programs (hash, name, image) VALUES (?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET name = excluded.name, image = excluded.image`,
		hashSource(source), name, img)
	if err != nil {
		return fmt.Errorf("storing program: %w", err)
	}
	return nil
}

// Get returns the cached image for the given source text, if any.
func (s *Store) Get(source string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var img []byte
	err := s.db.QueryRow(
		`SELECT image FROM programs WHERE hash = ?`, hashSource(source)).Scan(&img)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading program: %w", err)
	}
	return img, true, nil
}

// Len returns the number of cached programs.
func (s *Store) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM programs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting programs: %w", err)
	}
	return n, nil
}

func hashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}
