// Package sqlite provides SQLite-based persistent storage for Codexa.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/codexa.db.
// Enables WAL mode, foreign keys, and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "codexa.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Learner profiles: one versioned JSON document per learner.
		// Reward-table changes migrate old payloads via schema_version.
		`CREATE TABLE IF NOT EXISTS profiles (
			learner_id     TEXT PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			payload        TEXT NOT NULL,
			updated_at     INTEGER NOT NULL
		)`,

		// Append-only activity mirror for heatmap/timeline aggregation.
		`CREATE TABLE IF NOT EXISTS activity_log (
			id         TEXT PRIMARY KEY,
			learner_id TEXT NOT NULL,
			date       INTEGER NOT NULL,
			subject    TEXT NOT NULL DEFAULT '',
			chapter    TEXT NOT NULL DEFAULT '',
			correct    INTEGER NOT NULL,
			total      INTEGER NOT NULL,
			xp         INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_learner_date ON activity_log(learner_id, date)`,

		// Learner-facing celebration messages.
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			learner_id TEXT NOT NULL,
			type       TEXT NOT NULL,
			title      TEXT NOT NULL,
			body       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			shown      BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_learner ON notifications(learner_id, shown)`,
	}

	for i, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
