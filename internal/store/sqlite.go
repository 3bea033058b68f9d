package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"nutriplan/internal/logging"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverModernc = "sqlite"  // modernc.org/sqlite, pure Go
	DriverCGO     = "sqlite3" // github.com/mattn/go-sqlite3
)

// Schema versions:
// v1: kv_records(key, value, updated_at)
const CurrentSchemaVersion = 1

// SQLiteKV implements KV on a single SQLite table.
type SQLiteKV struct {
	db     *sql.DB
	mu     sync.RWMutex
	path   string
	driver string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(driver, path string) (*SQLiteKV, error) {
	timer := logging.StartTimer(logging.CategoryStore, "OpenSQLite")
	defer timer.Stop()

	if driver == "" {
		driver = DriverModernc
	}
	if driver != DriverModernc && driver != DriverCGO {
		return nil, fmt.Errorf("unsupported sqlite driver %q", driver)
	}

	logging.Store("Opening %s database at path: %s", driver, path)

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.StoreError("Failed to create directory %s: %v", dir, err)
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		logging.StoreError("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &SQLiteKV{db: db, path: path, driver: driver}
	if err := s.initialize(); err != nil {
		logging.StoreError("Failed to initialize schema: %v", err)
		db.Close()
		return nil, err
	}
	logging.Store("SQLite store ready (driver=%s, schema v%d)", driver, s.SchemaVersion())
	return s, nil
}

func (s *SQLiteKV) initialize() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv_records (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS schema_versions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version INTEGER NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	if s.SchemaVersion() < CurrentSchemaVersion {
		if _, err := s.db.Exec("INSERT INTO schema_versions (version) VALUES (?)", CurrentSchemaVersion); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
	}
	return nil
}

// SchemaVersion returns the latest recorded schema version, or 0.
func (s *SQLiteKV) SchemaVersion() int {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_versions ORDER BY id DESC LIMIT 1").Scan(&version)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logging.StoreDebug("Schema version lookup failed: %v", err)
		}
		return 0
	}
	return version
}

// Path returns the database location.
func (s *SQLiteKV) Path() string { return s.path }

// Driver returns the database/sql driver name in use.
func (s *SQLiteKV) Driver() string { return s.driver }

// Get implements KV.
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, false, ErrClosed
	}

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_records WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Put implements KV.
func (s *SQLiteKV) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return ErrClosed
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	logging.StoreDebug("Wrote %s (%d bytes)", key, len(value))
	return nil
}

// Close implements KV.
func (s *SQLiteKV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
