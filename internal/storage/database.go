package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	// The snapshot is rewritten as a whole; wait for writers instead of failing.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS records (
			category TEXT NOT NULL,
			sub_category TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			reminder_time TEXT NOT NULL DEFAULT '',
			alarm_type INTEGER NOT NULL DEFAULT 0,
			date_initiated TEXT NOT NULL DEFAULT 'Unspecified',
			scheduled_date TEXT NOT NULL DEFAULT 'Unspecified',
			status TEXT NOT NULL DEFAULT 'Enabled',
			frequency TEXT NOT NULL DEFAULT 'Default',
			recurrence_data TEXT NOT NULL DEFAULT '',
			completion_count INTEGER NOT NULL DEFAULT 0,
			missed_count INTEGER NOT NULL DEFAULT 0,
			dates_missed TEXT NOT NULL DEFAULT '[]',
			dates_updated TEXT NOT NULL DEFAULT '[]',
			duration TEXT NOT NULL DEFAULT '',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (category, sub_category, title)
		);`,
		`CREATE TABLE IF NOT EXISTS alarm_snapshots (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS reconcile_runs (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL,
			scheduled INTEGER NOT NULL,
			cancelled INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			active INTEGER NOT NULL,
			load_error TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_reconcile_runs_started_at ON reconcile_runs (started_at);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
