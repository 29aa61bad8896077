// Package sqlite provides SQLite-based persistent storage for Transforma.
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

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
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
		// Per-user score state. Points and XP only grow; level is
		// derived but persisted for quick reads.
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id    TEXT PRIMARY KEY,
			points     INTEGER NOT NULL DEFAULT 0,
			xp         INTEGER NOT NULL DEFAULT 0,
			level      INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL
		)`,

		// Unlocked achievements — append-only during normal operation.
		`CREATE TABLE IF NOT EXISTS profile_achievements (
			user_id        TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			unlocked_at    INTEGER NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		)`,

		// Append-only grant log. "Today's points" is derived from here.
		`CREATE TABLE IF NOT EXISTS score_events (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			action     TEXT NOT NULL,
			points     INTEGER NOT NULL,
			day        TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_day ON score_events(user_id, day)`,

		// Streak state, one row per user.
		`CREATE TABLE IF NOT EXISTS streaks (
			user_id      TEXT PRIMARY KEY,
			current_days INTEGER NOT NULL DEFAULT 0,
			longest_days INTEGER NOT NULL DEFAULT 0,
			last_date    INTEGER NOT NULL DEFAULT 0
		)`,

		// Collaborator counters read by the achievement evaluator.
		`CREATE TABLE IF NOT EXISTS counters (
			user_id          TEXT PRIMARY KEY,
			friends_count    INTEGER NOT NULL DEFAULT 0,
			total_challenges INTEGER NOT NULL DEFAULT 0,
			login_days       INTEGER NOT NULL DEFAULT 0
		)`,

		// Reward notifications (daily cap + quiet hours enforced above).
		`CREATE TABLE IF NOT EXISTS notifications (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			kind       TEXT NOT NULL,
			title      TEXT NOT NULL,
			message    TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			seen       BOOLEAN DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notif_user_created ON notifications(user_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
