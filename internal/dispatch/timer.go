// Package dispatch delivers installed alarms: an in-process timer gateway
// fires them at their trigger instant and hands them to notifiers.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"revix/internal/alarm"
)

// ErrPastTrigger is returned when an alarm is scheduled for an instant that
// has already passed.
var ErrPastTrigger = errors.New("trigger time is in the past")

const notifyTimeout = 15 * time.Second

type pending struct {
	timer   *time.Timer
	at      time.Time
	payload alarm.Payload
}

// TimerGateway implements alarm.Gateway with one timer per alarm key.
type TimerGateway struct {
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	timers map[string]*pending
}

// Option configures a TimerGateway.
type Option func(*TimerGateway)

// WithClock overrides the clock used to reject past triggers.
func WithClock(now func() time.Time) Option {
	return func(g *TimerGateway) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLogger sets the logger used when alarms fire.
func WithLogger(logger *slog.Logger) Option {
	return func(g *TimerGateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewTimerGateway constructs a TimerGateway delivering to notifier.
func NewTimerGateway(notifier Notifier, opts ...Option) *TimerGateway {
	g := &TimerGateway{
		notifier: notifier,
		logger:   slog.Default(),
		now:      time.Now,
		timers:   make(map[string]*pending),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ScheduleExactAt arms a timer for payload.Key, replacing any existing one.
func (g *TimerGateway) ScheduleExactAt(ctx context.Context, at time.Time, payload alarm.Payload) error {
	if payload.Key == "" {
		return errors.New("timer gateway: empty alarm key")
	}
	delay := at.Sub(g.now())
	if delay <= 0 {
		return fmt.Errorf("timer gateway: %s at %s: %w", payload.Key, at.Format(time.RFC3339), ErrPastTrigger)
	}

	p := &pending{at: at, payload: payload}

	g.mu.Lock()
	if existing, ok := g.timers[payload.Key]; ok {
		existing.timer.Stop()
	}
	p.timer = time.AfterFunc(delay, func() { g.fire(p) })
	g.timers[payload.Key] = p
	g.mu.Unlock()
	return nil
}

// Cancel stops the timer for key. Unknown keys are ignored.
func (g *TimerGateway) Cancel(ctx context.Context, key string) error {
	g.mu.Lock()
	p, ok := g.timers[key]
	delete(g.timers, key)
	g.mu.Unlock()
	if ok {
		p.timer.Stop()
	}
	return nil
}

// Pending returns the keys with an armed timer, sorted.
func (g *TimerGateway) Pending() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	keys := make([]string, 0, len(g.timers))
	for key := range g.timers {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Close stops all armed timers.
func (g *TimerGateway) Close() {
	g.mu.Lock()
	timers := g.timers
	g.timers = make(map[string]*pending)
	g.mu.Unlock()
	for _, p := range timers {
		p.timer.Stop()
	}
}

func (g *TimerGateway) fire(p *pending) {
	g.mu.Lock()
	current, ok := g.timers[p.payload.Key]
	if !ok || current != p {
		// replaced or cancelled after the timer already started
		g.mu.Unlock()
		return
	}
	delete(g.timers, p.payload.Key)
	g.mu.Unlock()

	if g.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := g.notifier.Notify(ctx, p.payload); err != nil {
		g.logger.Error("failed to deliver alarm", "key", p.payload.Key, "trigger", p.at, "error", err)
	}
}

// LogGateway only logs what it is asked to do. It backs dry runs.
type LogGateway struct {
	logger *slog.Logger
}

// NewLogGateway constructs a LogGateway. A nil logger uses slog.Default.
func NewLogGateway(logger *slog.Logger) *LogGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogGateway{logger: logger}
}

// ScheduleExactAt logs the schedule request.
func (g *LogGateway) ScheduleExactAt(ctx context.Context, at time.Time, payload alarm.Payload) error {
	g.logger.InfoContext(ctx, "schedule alarm", "key", payload.Key, "at", at.Format(time.RFC3339))
	return nil
}

// Cancel logs the cancel request.
func (g *LogGateway) Cancel(ctx context.Context, key string) error {
	g.logger.InfoContext(ctx, "cancel alarm", "key", key)
	return nil
}
