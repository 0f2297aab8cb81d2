package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_record_service.go -package=mocks -mock_names=RecordService=MockRecordService revix/internal/service RecordService
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_alarm_reconciler.go -package=mocks revix/internal/service AlarmReconciler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"revix/internal/alarm"
	"revix/internal/contextutil"
	"revix/internal/recurrence"
	"revix/internal/storage"
)

// AlarmReconciler converges installed alarms onto a desired set.
// This interface is defined from the service layer's perspective (consumer-first).
type AlarmReconciler interface {
	Run(ctx context.Context, desired map[string]alarm.Metadata) (alarm.Result, error)
	Snapshot(ctx context.Context) (map[string]alarm.Metadata, error)
}

// RecordID identifies a record.
type RecordID struct {
	Category    string
	SubCategory string
	Title       string
}

// NextDateRequest asks for the next due date of a recurrence.
type NextDateRequest struct {
	StartDate       string
	Frequency       string
	RecurrenceData  string
	CompletionCount int
}

// NextDateResponse carries the next due date; nil when recurrence is disabled.
type NextDateResponse struct {
	NextDate *string
}

// CompleteResult is the outcome of marking a record done.
type CompleteResult struct {
	Record      *storage.Record
	Retired     bool
	AlreadyDone bool
}

// ReconcileResult summarizes one reconcile pass.
type ReconcileResult struct {
	RunID     string
	Scheduled int
	Cancelled int
	Failed    int
	Active    int
}

// RecordService manages records and keeps their alarms in sync.
type RecordService interface {
	// List returns all records.
	List(ctx context.Context) ([]storage.Record, error)
	// Get returns one record.
	Get(ctx context.Context, id RecordID) (*storage.Record, error)
	// Upsert validates and stores a record, then reconciles alarms.
	Upsert(ctx context.Context, rec storage.Record) (*storage.Record, error)
	// Delete removes a record, then reconciles alarms.
	Delete(ctx context.Context, id RecordID) error
	// Complete marks one completion of a record and moves it to its next date.
	Complete(ctx context.Context, id RecordID) (CompleteResult, error)
	// NextDate computes a next due date without touching any record.
	NextDate(ctx context.Context, req NextDateRequest) (NextDateResponse, error)
	// Reconcile recomputes the desired alarms from all records and applies them.
	Reconcile(ctx context.Context) (ReconcileResult, error)
	// Alarms returns the installed alarm snapshot ordered by trigger time.
	Alarms(ctx context.Context) ([]alarm.Metadata, error)
}

// recordService implements RecordService.
type recordService struct {
	records    storage.RecordStore
	reconciler AlarmReconciler
	calc       *recurrence.Calculator
	loc        *time.Location
	now        func() time.Time
	group      singleflight.Group
}

// NewRecordService creates a new RecordService. Dates are evaluated in loc;
// a nil now uses time.Now.
func NewRecordService(
	records storage.RecordStore,
	reconciler AlarmReconciler,
	calc *recurrence.Calculator,
	loc *time.Location,
	now func() time.Time,
) RecordService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &recordService{
		records:    records,
		reconciler: reconciler,
		calc:       calc,
		loc:        loc,
		now:        now,
	}
}

func (s *recordService) clock() time.Time {
	return s.now().In(s.loc)
}

// List returns all records.
func (s *recordService) List(ctx context.Context) ([]storage.Record, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to list records")
	}
	return records, nil
}

// Get returns one record.
func (s *recordService) Get(ctx context.Context, id RecordID) (*storage.Record, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	rec, err := s.records.Get(ctx, id.Category, id.SubCategory, id.Title)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, WrapError(err, "failed to get record")
	}
	return rec, nil
}

// Upsert validates and stores a record, then reconciles alarms.
func (s *recordService) Upsert(ctx context.Context, rec storage.Record) (*storage.Record, error) {
	logger := contextutil.LoggerFromContext(ctx)

	normalize(&rec)
	if err := validateRecord(rec); err != nil {
		logger.WarnContext(ctx, "invalid record", "error", err)
		return nil, err
	}

	if err := s.records.Upsert(ctx, &rec); err != nil {
		logger.ErrorContext(ctx, "failed to store record", "error", err)
		return nil, WrapError(err, "failed to store record")
	}
	s.reconcileAfterChange(ctx)

	logger.InfoContext(ctx, "record stored", "category", rec.Category, "sub_category", rec.SubCategory, "title", rec.Title)
	return &rec, nil
}

// Delete removes a record, then reconciles alarms.
func (s *recordService) Delete(ctx context.Context, id RecordID) error {
	if err := validateID(id); err != nil {
		return err
	}
	err := s.records.Delete(ctx, id.Category, id.SubCategory, id.Title)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return WrapError(err, "failed to delete record")
	}
	s.reconcileAfterChange(ctx)
	return nil
}

// Complete marks one completion of a record and moves it to its next date.
func (s *recordService) Complete(ctx context.Context, id RecordID) (CompleteResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	rec, err := s.Get(ctx, id)
	if err != nil {
		return CompleteResult{}, err
	}

	switch advance(rec, s.calc, s.clock()) {
	case outcomeAlreadyDone:
		logger.InfoContext(ctx, "record already completed today", "title", id.Title)
		return CompleteResult{Record: rec, AlreadyDone: true}, nil
	case outcomeRetired:
		if err := s.records.Delete(ctx, id.Category, id.SubCategory, id.Title); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return CompleteResult{}, WrapError(err, "failed to retire record")
		}
		s.reconcileAfterChange(ctx)
		logger.InfoContext(ctx, "record completed and retired", "title", id.Title)
		return CompleteResult{Retired: true}, nil
	}

	if err := s.records.Upsert(ctx, rec); err != nil {
		return CompleteResult{}, WrapError(err, "failed to store completed record")
	}
	s.reconcileAfterChange(ctx)

	logger.InfoContext(ctx, "record completed",
		"title", id.Title,
		"completion_count", rec.CompletionCount,
		"scheduled_date", rec.ScheduledDate,
		"status", rec.Status,
	)
	return CompleteResult{Record: rec}, nil
}

// NextDate computes a next due date without touching any record.
func (s *recordService) NextDate(ctx context.Context, req NextDateRequest) (NextDateResponse, error) {
	start, err := recurrence.ParseDate(req.StartDate)
	if err != nil {
		return NextDateResponse{}, &ValidationError{Field: "start_date", Message: "must be a yyyy-MM-dd date"}
	}
	if strings.TrimSpace(req.Frequency) == "" {
		return NextDateResponse{}, &ValidationError{Field: "frequency", Message: "cannot be empty"}
	}
	if req.CompletionCount < -1 {
		return NextDateResponse{}, &ValidationError{Field: "completion_count", Message: "must be -1 or greater"}
	}

	if req.Frequency == recurrence.FrequencyNoRepetition {
		return NextDateResponse{}, nil
	}

	rule := recurrence.RuleFor(req.Frequency, []byte(req.RecurrenceData))
	next, ok := s.calc.Next(start, rule, req.CompletionCount)
	if !ok {
		return NextDateResponse{}, nil
	}

	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "next date computed",
		"start_date", req.StartDate, "frequency", req.Frequency, "next_date", next.String())
	date := next.String()
	return NextDateResponse{NextDate: &date}, nil
}

// Reconcile recomputes the desired alarms from all records and applies them.
// Concurrent calls share one pass, which runs detached from the cancellation
// of whichever caller started it.
func (s *recordService) Reconcile(ctx context.Context) (ReconcileResult, error) {
	shared := context.WithoutCancel(ctx)
	v, err, joined := s.group.Do("reconcile", func() (any, error) {
		return s.reconcile(shared)
	})
	if err != nil {
		return ReconcileResult{}, err
	}
	if joined {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "joined in-flight reconcile")
	}
	return v.(ReconcileResult), nil
}

func (s *recordService) reconcile(ctx context.Context) (ReconcileResult, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return ReconcileResult{}, WrapError(err, "failed to list records")
	}

	desired := alarm.BuildDesired(TasksOf(records), s.loc, contextutil.LoggerFromContext(ctx))
	result, err := s.reconciler.Run(ctx, desired)
	if err != nil {
		return ReconcileResult{}, WrapError(fmt.Errorf("%w: %w", ErrExternalService, err), "failed to reconcile alarms")
	}

	return ReconcileResult{
		RunID:     result.Run.ID,
		Scheduled: result.Run.Scheduled,
		Cancelled: result.Run.Cancelled,
		Failed:    result.Run.Failed,
		Active:    result.Run.Active,
	}, nil
}

// reconcileAfterChange runs a pass that is guaranteed to read the change just
// written. Failures are logged; the periodic pass retries.
func (s *recordService) reconcileAfterChange(ctx context.Context) {
	if _, err := s.reconcile(ctx); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to reconcile alarms after change", "error", err)
	}
}

// Alarms returns the installed alarm snapshot ordered by trigger time.
func (s *recordService) Alarms(ctx context.Context) ([]alarm.Metadata, error) {
	snapshot, err := s.reconciler.Snapshot(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to load alarms")
	}
	return slices.SortedFunc(maps.Values(snapshot), func(a, b alarm.Metadata) int {
		return cmp.Or(cmp.Compare(a.ActualTime, b.ActualTime), cmp.Compare(a.Key, b.Key))
	}), nil
}

// TasksOf converts stored records into reconciler tasks.
func TasksOf(records []storage.Record) []alarm.Task {
	tasks := make([]alarm.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, alarm.Task{
			Category:      r.Category,
			SubCategory:   r.SubCategory,
			RecordTitle:   r.Title,
			ReminderTime:  r.ReminderTime,
			AlarmType:     alarm.Type(r.AlarmType),
			ScheduledDate: r.ScheduledDate,
			Status:        r.Status,
		})
	}
	return tasks
}
