package alarm

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"revix/internal/contextutil"
)

// Run is the record of one reconcile pass.
type Run struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Scheduled int
	Cancelled int
	Failed    int
	Active    int
	// LoadError is set when the previous snapshot could not be read.
	LoadError string
}

// Observer receives the outcome of every reconcile pass.
type Observer interface {
	ObserveRun(run Run)
}

// Result is returned from Reconciler.Run.
type Result struct {
	Run     Run
	Actions []Action
	State   map[string]Metadata
}

// Reconciler converges the gateway onto a desired alarm set and keeps the
// installed snapshot in a SnapshotStore. Runs are serialized.
type Reconciler struct {
	mu          sync.Mutex
	store       SnapshotStore
	gateway     Gateway
	recorder    RunRecorder
	observer    Observer
	concurrency int
	now         func() time.Time
	// retry holds keys whose last schedule failed; they are saved as
	// installed and scheduled again on the next pass.
	retry map[string]struct{}
	// cancels holds removed keys whose cancel failed; they are cancelled
	// again on the next pass.
	cancels map[string]struct{}
}

// NewReconciler creates a Reconciler. recorder and observer may be nil.
func NewReconciler(
	store SnapshotStore,
	gateway Gateway,
	recorder RunRecorder,
	observer Observer,
	concurrency int,
) *Reconciler {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Reconciler{
		store:       store,
		gateway:     gateway,
		recorder:    recorder,
		observer:    observer,
		concurrency: concurrency,
		now:         time.Now,
		retry:       make(map[string]struct{}),
		cancels:     make(map[string]struct{}),
	}
}

// WithClock replaces the time source. Used by tests and dry runs.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// Run reconciles the stored snapshot against desired. Every action is
// attempted before the new snapshot is saved; entries whose schedule failed
// stay in the snapshot so the next pass retries them. An unreadable snapshot
// counts as empty. Only a failed save is returned as an error.
func (r *Reconciler) Run(ctx context.Context, desired map[string]Metadata) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := r.now()
	run := Run{ID: uuid.NewString(), StartedAt: started}
	logger := contextutil.LoggerFromContext(ctx).With("run_id", run.ID)

	previous, err := r.store.Load(ctx)
	if err != nil {
		logger.WarnContext(ctx, "failed to load alarm snapshot, starting from empty state", "error", err)
		run.LoadError = err.Error()
		previous = map[string]Metadata{}
	}

	state, actions := Reconcile(previous, desired, started)
	actions = r.withRetries(state, actions, started)
	report := Apply(ctx, r.gateway, actions, r.concurrency, logger)
	r.remember(report, actions, state)

	run.Scheduled = report.Scheduled
	run.Cancelled = report.Cancelled
	run.Failed = report.Failed
	run.Active = len(state)

	if err := r.store.Save(ctx, state); err != nil {
		logger.ErrorContext(ctx, "failed to save alarm snapshot", "error", err)
		return Result{Run: run, Actions: actions}, fmt.Errorf("failed to save alarm snapshot: %w", err)
	}

	run.Duration = r.now().Sub(started)
	r.finish(ctx, run)

	logger.InfoContext(ctx, "alarm reconcile completed",
		"desired", len(desired),
		"previous", len(previous),
		"scheduled", run.Scheduled,
		"cancelled", run.Cancelled,
		"failed", run.Failed,
		"active", run.Active,
	)
	return Result{Run: run, Actions: actions, State: state}, nil
}

// Plan computes what Run would do without touching the gateway or the store.
func (r *Reconciler) Plan(ctx context.Context, desired map[string]Metadata) (map[string]Metadata, []Action) {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, err := r.store.Load(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to load alarm snapshot", "error", err)
		previous = map[string]Metadata{}
	}
	return Reconcile(previous, desired, r.now())
}

// Rearm schedules every future alarm of the stored snapshot again, for use
// after the gateway lost its state (process restart). Past entries are left
// for the next Run to clean up.
func (r *Reconciler) Rearm(ctx context.Context) (Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot, err := r.store.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load alarm snapshot: %w", err)
	}

	nowMillis := r.now().UnixMilli()
	var actions []Action
	for _, meta := range snapshot {
		if meta.ActualTime > nowMillis && meta.HasAlarm() {
			actions = append(actions, Schedule(meta))
		}
	}

	logger := contextutil.LoggerFromContext(ctx)
	report := Apply(ctx, r.gateway, actions, r.concurrency, logger)
	logger.InfoContext(ctx, "alarms re-armed", "scheduled", report.Scheduled, "failed", report.Failed)
	return report, nil
}

// Snapshot returns the stored alarm set.
func (r *Reconciler) Snapshot(ctx context.Context) (map[string]Metadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load alarm snapshot: %w", err)
	}
	return snapshot, nil
}

// withRetries appends the actions that failed last pass and that the diff left
// untouched: a schedule for every kept entry whose schedule failed and a
// cancel for every removed key whose cancel failed.
func (r *Reconciler) withRetries(state map[string]Metadata, actions []Action, now time.Time) []Action {
	if len(r.retry) == 0 && len(r.cancels) == 0 {
		return actions
	}
	touched := make(map[string]bool, len(actions))
	for _, a := range actions {
		touched[a.Key] = true
	}
	for _, key := range slices.Sorted(maps.Keys(r.cancels)) {
		if _, kept := state[key]; kept || touched[key] {
			continue
		}
		actions = append(actions, Cancel(key))
	}
	for _, key := range slices.Sorted(maps.Keys(r.retry)) {
		meta, ok := state[key]
		if !ok || touched[key] || meta.ActualTime <= now.UnixMilli() {
			continue
		}
		actions = append(actions, Schedule(meta))
	}
	return actions
}

// remember records which keys failed in this pass: scheduled keys to retry and
// removed keys still to cancel.
func (r *Reconciler) remember(report Report, actions []Action, state map[string]Metadata) {
	failed := make(map[string]bool, len(report.FailedKeys))
	for _, key := range report.FailedKeys {
		failed[key] = true
	}
	r.retry = make(map[string]struct{})
	r.cancels = make(map[string]struct{})
	for _, a := range actions {
		if !failed[a.Key] {
			continue
		}
		_, kept := state[a.Key]
		switch {
		case a.Kind == ActionSchedule:
			r.retry[a.Key] = struct{}{}
		case a.Kind == ActionCancel && !kept:
			r.cancels[a.Key] = struct{}{}
		}
	}
}

func (r *Reconciler) finish(ctx context.Context, run Run) {
	if r.observer != nil {
		r.observer.ObserveRun(run)
	}
	if r.recorder == nil {
		return
	}
	if err := r.recorder.RecordRun(ctx, run); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record reconcile run", "run_id", run.ID, "error", err)
	}
}
