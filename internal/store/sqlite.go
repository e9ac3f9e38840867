package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// SQLiteFile is the database file name inside the data directory.
const SQLiteFile = "pomorks.db"

// NewSQLite opens (or creates) the SQLite database at dbPath and runs migrations.
func NewSQLite(dbPath string) (*SQLStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &SQLStore{db: db, dialect: sqliteDialect}
	if err := s.migrateSQLite(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory SQLite store for testing.
func NewMemory() (*SQLStore, error) {
	return NewSQLite(":memory:")
}

func (s *SQLStore) migrateSQLite() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if _, err := s.db.Exec(sqliteSchemaV1); err != nil {
			return err
		}
	}

	_, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

const sqliteSchemaV1 = `
CREATE TABLE IF NOT EXISTS tasks (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	tag            TEXT NOT NULL DEFAULT '',
	project        TEXT NOT NULL DEFAULT '',
	estimate_count INTEGER NOT NULL DEFAULT 0,
	executed_count INTEGER NOT NULL DEFAULT 0,
	finished       INTEGER NOT NULL DEFAULT 0,
	detail         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS archive (
	id             TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	tag            TEXT NOT NULL DEFAULT '',
	project        TEXT NOT NULL DEFAULT '',
	estimate_count INTEGER NOT NULL DEFAULT 0,
	executed_count INTEGER NOT NULL DEFAULT 0,
	finished       INTEGER NOT NULL DEFAULT 0,
	detail         TEXT NOT NULL DEFAULT '',
	archived_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS task_dealing (
	slot       INTEGER PRIMARY KEY CHECK (slot = 1),
	task_id    TEXT NOT NULL,
	start_time TEXT NOT NULL,
	state      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS task_log (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id      TEXT NOT NULL,
	completed_at TEXT NOT NULL,
	day          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_task_log_day ON task_log(day);
`
