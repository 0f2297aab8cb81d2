package storage

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"revix/internal/alarm"
)

// AlarmRepo persists the installed alarm snapshot as a single JSON array.
// It implements alarm.SnapshotStore.
type AlarmRepo struct {
	db *sql.DB
}

// NewAlarmRepo creates a new AlarmRepo.
func NewAlarmRepo(db *sql.DB) *AlarmRepo {
	return &AlarmRepo{db: db}
}

// Load returns the stored snapshot keyed by alarm key. A missing row yields an
// empty map; unparsable data is an error so the caller can start cold.
func (r *AlarmRepo) Load(ctx context.Context) (map[string]alarm.Metadata, error) {
	var data string
	err := r.db.QueryRowContext(ctx, "SELECT data FROM alarm_snapshots WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]alarm.Metadata{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query alarm snapshot: %w", err)
	}

	var entries []alarm.Metadata
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse alarm snapshot: %w", err)
	}

	snapshot := make(map[string]alarm.Metadata, len(entries))
	for _, m := range entries {
		snapshot[m.Key] = m
	}
	return snapshot, nil
}

// Save replaces the stored snapshot. Entries are written ordered by key.
func (r *AlarmRepo) Save(ctx context.Context, snapshot map[string]alarm.Metadata) error {
	entries := slices.SortedFunc(maps.Values(snapshot), func(a, b alarm.Metadata) int {
		return cmp.Compare(a.Key, b.Key)
	})
	if entries == nil {
		entries = []alarm.Metadata{}
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode alarm snapshot: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO alarm_snapshots (id, data, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save alarm snapshot: %w", err)
	}
	return nil
}
