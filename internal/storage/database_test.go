package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// newTestDB opens a migrated database in a temp dir.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestNew_Pragmas(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		pragma string
		want   int
	}{
		{pragma: "foreign_keys", want: 1},
		{pragma: "busy_timeout", want: 5000},
	}

	for _, tt := range tests {
		t.Run(tt.pragma, func(t *testing.T) {
			var got int
			if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
				t.Fatalf("PRAGMA %s: %v", tt.pragma, err)
			}
			if got != tt.want {
				t.Errorf("PRAGMA %s = %d, want %d", tt.pragma, got, tt.want)
			}
		})
	}
}

func TestNew_InvalidPath(t *testing.T) {
	db, err := New("/nonexistent/path/test.db")
	if err == nil {
		_ = db.Close()
		t.Error("New() with invalid path should return error")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() second run error = %v", err)
	}
	if _, err := db.Exec("INSERT INTO reconcile_runs (id, started_at, duration_ms, scheduled, cancelled, failed, active) VALUES ('r', '2024-01-15T12:00:00Z', 1, 0, 0, 0, 0)"); err != nil {
		t.Errorf("insert run after second Migrate(): %v", err)
	}
}

func TestMigrate_SnapshotIsSingleRow(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.Exec("INSERT INTO alarm_snapshots (id, data) VALUES (1, '[]')"); err != nil {
		t.Fatalf("insert snapshot row 1: %v", err)
	}
	if _, err := db.Exec("INSERT INTO alarm_snapshots (id, data) VALUES (2, '[]')"); err == nil {
		t.Error("alarm_snapshots accepted a second row")
	}
}

func TestMigrate_RecordIdentityIsUnique(t *testing.T) {
	db := newTestDB(t)

	stmt := "INSERT INTO records (category, sub_category, title) VALUES ('a', 'b', 'c')"
	if _, err := db.Exec(stmt); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.Exec(stmt); err == nil {
		t.Error("records accepted a duplicate identity")
	}

	var status, scheduled string
	if err := db.QueryRow("SELECT status, scheduled_date FROM records").Scan(&status, &scheduled); err != nil {
		t.Fatalf("select defaults: %v", err)
	}
	if status != "Enabled" || scheduled != "Unspecified" {
		t.Errorf("defaults = %q, %q, want Enabled, Unspecified", status, scheduled)
	}
}
