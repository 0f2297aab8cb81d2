package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_record_store.go -package=mocks revix/internal/storage RecordStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// RecordStore defines the interface for record storage operations.
type RecordStore interface {
	// List returns all records ordered by category, sub-category and title.
	List(ctx context.Context) ([]Record, error)
	// Get returns one record. Returns nil and ErrNotFound if not found.
	Get(ctx context.Context, category, subCategory, title string) (*Record, error)
	// Upsert inserts a new record or replaces an existing one.
	Upsert(ctx context.Context, record *Record) error
	// Delete removes a record. Returns ErrNotFound if it did not exist.
	Delete(ctx context.Context, category, subCategory, title string) error
}

// RecordRepo provides methods for record operations.
// It implements the RecordStore interface.
type RecordRepo struct {
	db *sql.DB
}

// NewRecordRepo creates a new RecordRepo.
func NewRecordRepo(db *sql.DB) *RecordRepo {
	return &RecordRepo{db: db}
}

const recordColumns = `category, sub_category, title, description, reminder_time, alarm_type,
	date_initiated, scheduled_date, status, frequency, recurrence_data, completion_count,
	missed_count, dates_missed, dates_updated, duration, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec          Record
		datesMissed  string
		datesUpdated string
		duration     string
		updatedAtStr string
	)
	err := row.Scan(
		&rec.Category, &rec.SubCategory, &rec.Title, &rec.Description, &rec.ReminderTime, &rec.AlarmType,
		&rec.DateInitiated, &rec.ScheduledDate, &rec.Status, &rec.Frequency, &rec.RecurrenceData,
		&rec.CompletionCount, &rec.MissedCount, &datesMissed, &datesUpdated, &duration, &updatedAtStr,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeList(datesMissed, &rec.DatesMissed); err != nil {
		return nil, fmt.Errorf("failed to parse dates_missed: %w", err)
	}
	if err := decodeList(datesUpdated, &rec.DatesUpdated); err != nil {
		return nil, fmt.Errorf("failed to parse dates_updated: %w", err)
	}
	if duration != "" {
		if err := json.Unmarshal([]byte(duration), &rec.Duration); err != nil {
			return nil, fmt.Errorf("failed to parse duration: %w", err)
		}
	}
	rec.UpdatedAt = parseTimestamp(updatedAtStr)

	return &rec, nil
}

// List returns all records ordered by category, sub-category and title.
func (r *RecordRepo) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+recordColumns+" FROM records ORDER BY category, sub_category, title",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// Get returns one record. Returns nil and ErrNotFound if not found.
func (r *RecordRepo) Get(ctx context.Context, category, subCategory, title string) (*Record, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records WHERE category = ? AND sub_category = ? AND title = ?",
		category, subCategory, title,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query record: %w", err)
	}
	return rec, nil
}

// Upsert inserts a new record or replaces an existing one.
func (r *RecordRepo) Upsert(ctx context.Context, record *Record) error {
	datesMissed, err := encodeList(record.DatesMissed)
	if err != nil {
		return err
	}
	datesUpdated, err := encodeList(record.DatesUpdated)
	if err != nil {
		return err
	}
	duration := ""
	if record.Duration != (Duration{}) {
		data, err := json.Marshal(record.Duration)
		if err != nil {
			return fmt.Errorf("failed to encode duration: %w", err)
		}
		duration = string(data)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (category, sub_category, title) DO UPDATE SET
		 description = excluded.description, reminder_time = excluded.reminder_time,
		 alarm_type = excluded.alarm_type, date_initiated = excluded.date_initiated,
		 scheduled_date = excluded.scheduled_date, status = excluded.status,
		 frequency = excluded.frequency, recurrence_data = excluded.recurrence_data,
		 completion_count = excluded.completion_count, missed_count = excluded.missed_count,
		 dates_missed = excluded.dates_missed, dates_updated = excluded.dates_updated,
		 duration = excluded.duration, updated_at = CURRENT_TIMESTAMP`,
		record.Category, record.SubCategory, record.Title, record.Description, record.ReminderTime,
		record.AlarmType, record.DateInitiated, record.ScheduledDate, record.Status, record.Frequency,
		record.RecurrenceData, record.CompletionCount, record.MissedCount, datesMissed, datesUpdated,
		duration,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}

	return nil
}

// Delete removes a record. Returns ErrNotFound if it did not exist.
func (r *RecordRepo) Delete(ctx context.Context, category, subCategory, title string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM records WHERE category = ? AND sub_category = ? AND title = ?",
		category, subCategory, title,
	)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(s string, dst *[]string) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}

// parseTimestamp parses a SQLite DATETIME string, returning the zero time
// when it matches no known format.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
