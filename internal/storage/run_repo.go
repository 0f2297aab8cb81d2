package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"revix/internal/alarm"
)

// RunRepo stores the history of reconcile runs.
// It implements alarm.RunRecorder.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// RecordRun stores one run.
func (r *RunRepo) RecordRun(ctx context.Context, run alarm.Run) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reconcile_runs (id, started_at, duration_ms, scheduled, cancelled, failed, active, load_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339Nano), run.Duration.Milliseconds(),
		run.Scheduled, run.Cancelled, run.Failed, run.Active, run.LoadError,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reconcile run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *RunRepo) Recent(ctx context.Context, limit int) ([]alarm.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, scheduled, cancelled, failed, active, load_error
		 FROM reconcile_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconcile runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var runs []alarm.Run
	for rows.Next() {
		var (
			run        alarm.Run
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&run.ID, &startedAt, &durationMS, &run.Scheduled, &run.Cancelled,
			&run.Failed, &run.Active, &run.LoadError); err != nil {
			return nil, fmt.Errorf("failed to scan reconcile run: %w", err)
		}
		run.StartedAt = parseTimestamp(startedAt)
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconcile runs: %w", err)
	}
	return runs, nil
}
