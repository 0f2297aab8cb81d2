package alarm

import (
	"maps"
	"slices"
	"time"

	"revix/internal/recurrence"
)

// ActionKind distinguishes schedule and cancel actions.
type ActionKind int

const (
	ActionSchedule ActionKind = iota + 1
	ActionCancel
)

func (k ActionKind) String() string {
	switch k {
	case ActionSchedule:
		return "schedule"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Action is one mutation against the gateway. Meta is set for schedules.
type Action struct {
	Kind ActionKind
	Key  string
	Meta Metadata
}

// Schedule returns a schedule action for m.
func Schedule(m Metadata) Action {
	return Action{Kind: ActionSchedule, Key: m.Key, Meta: m}
}

// Cancel returns a cancel action for key.
func Cancel(key string) Action {
	return Action{Kind: ActionCancel, Key: key}
}

// Reconcile diffs the previously installed alarms against the desired set and
// returns the new state plus the actions that converge the gateway onto it.
//
// Entries of previous dated before today (in now's location) are dropped and
// cancelled first; entries dated today are kept even when their time passed.
// A past trigger is never scheduled. Desired entries without an alarm count
// as absent. Actions come out in a stable order: cleanup cancels, then desired
// keys in sorted order, then removals in sorted order.
func Reconcile(previous, desired map[string]Metadata, now time.Time) (map[string]Metadata, []Action) {
	today := recurrence.DateOf(now).String()
	nowMillis := now.UnixMilli()

	var actions []Action
	cleaned := make(map[string]Metadata, len(previous))
	for _, key := range slices.Sorted(maps.Keys(previous)) {
		meta := previous[key]
		if meta.ScheduledDate < today {
			actions = append(actions, Cancel(key))
			continue
		}
		cleaned[key] = meta
	}

	next := make(map[string]Metadata, len(desired))
	for _, key := range slices.Sorted(maps.Keys(desired)) {
		want := desired[key]
		have, existed := cleaned[key]
		if !want.HasAlarm() {
			// handled as a removal below
			continue
		}

		switch {
		case existed && have == want:
			next[key] = have
		case existed:
			actions = append(actions, Cancel(key))
			if want.ActualTime > nowMillis {
				actions = append(actions, Schedule(want))
				next[key] = want
			}
		case want.ActualTime > nowMillis:
			actions = append(actions, Schedule(want))
			next[key] = want
		}
	}

	for _, key := range slices.Sorted(maps.Keys(cleaned)) {
		want, ok := desired[key]
		if !ok || !want.HasAlarm() {
			actions = append(actions, Cancel(key))
		}
	}

	return next, actions
}
