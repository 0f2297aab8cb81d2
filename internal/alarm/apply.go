package alarm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel gateway calls when none is configured.
const DefaultConcurrency = 4

// Report summarizes the outcome of applying a batch of actions.
type Report struct {
	Scheduled int
	Cancelled int
	Failed    int
	// FailedKeys lists keys with at least one failed action, in no particular order.
	FailedKeys []string
}

// Apply executes actions against gw. Actions sharing a key run sequentially in
// their given order; different keys run in parallel, at most concurrency at a
// time. A failed action is logged and counted and never stops the others.
func Apply(ctx context.Context, gw Gateway, actions []Action, concurrency int, logger *slog.Logger) Report {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}

	var order []string
	byKey := make(map[string][]Action)
	for _, a := range actions {
		if _, ok := byKey[a.Key]; !ok {
			order = append(order, a.Key)
		}
		byKey[a.Key] = append(byKey[a.Key], a)
	}

	var (
		mu     sync.Mutex
		report Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, key := range order {
		batch := byKey[key]
		g.Go(func() error {
			failed := false
			for _, a := range batch {
				err := execute(gctx, gw, a)

				mu.Lock()
				switch {
				case err != nil:
					report.Failed++
					failed = true
				case a.Kind == ActionSchedule:
					report.Scheduled++
				default:
					report.Cancelled++
				}
				mu.Unlock()

				if err != nil {
					logger.Warn("alarm action failed",
						"action", a.Kind.String(),
						"key", a.Key,
						"error", err,
					)
					continue
				}
				logger.Debug("alarm action applied", "action", a.Kind.String(), "key", a.Key)
			}
			if failed {
				mu.Lock()
				report.FailedKeys = append(report.FailedKeys, key)
				mu.Unlock()
			}
			// failures stay isolated to their key
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func execute(ctx context.Context, gw Gateway, a Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gateway panic: %v", r)
		}
	}()

	switch a.Kind {
	case ActionSchedule:
		return gw.ScheduleExactAt(ctx, a.Meta.Trigger(), a.Meta.Payload())
	case ActionCancel:
		return gw.Cancel(ctx, a.Key)
	default:
		return fmt.Errorf("unknown action kind %d", a.Kind)
	}
}
