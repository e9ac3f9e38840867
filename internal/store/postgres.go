package store

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// NewPostgres connects to dsn, verifies the connection and creates the
// schema when missing.
func NewPostgres(dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres: empty connection string")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLStore{db: db, dialect: postgresDialect}
	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

const postgresSchema = `
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
	id           BIGSERIAL PRIMARY KEY,
	task_id      TEXT NOT NULL,
	completed_at TEXT NOT NULL,
	day          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_task_log_day ON task_log(day);
`
