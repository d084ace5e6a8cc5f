// Package cache is the durable, content-addressed result store. Keys
// are (content hash, capability, provider, parameter digest), so the
// same bytes under any filename hit the same entry across runs.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrMiss is returned by Get when no entry exists for the key.
var ErrMiss = errors.New("cache miss")

// Key identifies one cached result.
type Key struct {
	ContentHash  string
	Capability   string
	Provider     string
	ParamsDigest string
}

// Entry is a cached provider result.
type Entry struct {
	Success bool
	Text    string
	Cost    float64
}

// Store provides the SQLite-backed result cache.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the cache database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get looks up a cached result. Returns ErrMiss when absent.
func (s *Store) Get(key Key) (*Entry, error) {
	var e Entry
	var success int

	err := s.db.QueryRow(
		`SELECT success, result_text, cost FROM results
		 WHERE content_hash = ? AND capability = ? AND provider = ? AND params_digest = ?`,
		key.ContentHash, key.Capability, key.Provider, key.ParamsDigest,
	).Scan(&success, &e.Text, &e.Cost)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	e.Success = success != 0
	return &e, nil
}

// Put stores a result. INSERT OR IGNORE keeps the store append-only:
// an entry written once, in particular a success, is never overwritten
// by a later attempt.
func (s *Store) Put(key Key, e Entry) error {
	success := 0
	if e.Success {
		success = 1
	}

	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO results
		 (content_hash, capability, provider, params_digest, success, result_text, cost, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		key.ContentHash, key.Capability, key.Provider, key.ParamsDigest,
		success, e.Text, e.Cost, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Clear drops every cached result. There is no automatic invalidation.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM results")
	return err
}

// Count returns the number of cached entries.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM results").Scan(&count)
	return count, err
}
