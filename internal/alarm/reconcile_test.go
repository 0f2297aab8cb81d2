package alarm

import (
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func meta(title, date string, at time.Time) Metadata {
	return Metadata{
		Key:           Key("Lectures", "Math", title, date),
		Category:      "Lectures",
		SubCategory:   "Math",
		RecordTitle:   title,
		ScheduledDate: date,
		ActualTime:    at.UnixMilli(),
		AlarmType:     TypeNotify,
		ReminderTime:  at.Format("15:04"),
	}
}

func set(entries ...Metadata) map[string]Metadata {
	out := make(map[string]Metadata, len(entries))
	for _, m := range entries {
		out[m.Key] = m
	}
	return out
}

func TestReconcile(t *testing.T) {
	future := testNow.Add(24 * time.Hour)
	later := testNow.Add(48 * time.Hour)

	a := meta("A", "2024-01-16", future)
	b := meta("B", "2024-01-17", later)

	changedA := a
	changedA.AlarmType = TypeLoud

	pastChangedA := a
	pastChangedA.ActualTime = testNow.Add(-time.Minute).UnixMilli()

	stale := meta("Old", "2024-01-14", testNow.Add(-22*time.Hour))
	todayPast := meta("Today", "2024-01-15", testNow.Add(-2*time.Hour))
	pastNew := meta("Past", "2024-01-15", testNow.Add(-time.Hour))

	noAlarm := a
	noAlarm.AlarmType = TypeNone

	tests := []struct {
		name        string
		previous    map[string]Metadata
		desired     map[string]Metadata
		wantState   map[string]Metadata
		wantActions []Action
	}{
		{
			name:        "unchanged kept and new scheduled",
			previous:    set(a),
			desired:     set(a, b),
			wantState:   set(a, b),
			wantActions: []Action{Schedule(b)},
		},
		{
			name:        "empty desired cancels everything",
			previous:    set(a),
			desired:     set(),
			wantState:   set(),
			wantActions: []Action{Cancel(a.Key)},
		},
		{
			name:        "changed entry is cancelled then rescheduled",
			previous:    set(a),
			desired:     set(changedA),
			wantState:   set(changedA),
			wantActions: []Action{Cancel(a.Key), Schedule(changedA)},
		},
		{
			name:        "changed entry in the past is cancelled only",
			previous:    set(a),
			desired:     set(pastChangedA),
			wantState:   set(),
			wantActions: []Action{Cancel(a.Key)},
		},
		{
			name:        "new entry in the past is skipped",
			previous:    set(),
			desired:     set(pastNew),
			wantState:   set(),
			wantActions: nil,
		},
		{
			name:        "cleanup drops earlier dates and keeps today",
			previous:    set(stale, todayPast),
			desired:     set(todayPast),
			wantState:   set(todayPast),
			wantActions: []Action{Cancel(stale.Key)},
		},
		{
			name:        "desired entry without alarm is treated as absent",
			previous:    set(a),
			desired:     set(noAlarm),
			wantState:   set(),
			wantActions: []Action{Cancel(a.Key)},
		},
		{
			name:        "desired entry without alarm and no previous does nothing",
			previous:    nil,
			desired:     set(noAlarm),
			wantState:   set(),
			wantActions: nil,
		},
		{
			name:        "cleanup cancels come first then desired then removals",
			previous:    set(stale, b),
			desired:     set(a),
			wantState:   set(a),
			wantActions: []Action{Cancel(stale.Key), Schedule(a), Cancel(b.Key)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, actions := Reconcile(tt.previous, tt.desired, testNow)
			if !reflect.DeepEqual(state, tt.wantState) {
				t.Errorf("Reconcile() state = %v, want %v", state, tt.wantState)
			}
			if !reflect.DeepEqual(actions, tt.wantActions) {
				t.Errorf("Reconcile() actions = %v, want %v", actions, tt.wantActions)
			}
		})
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	desired := set(
		meta("A", "2024-01-16", testNow.Add(24*time.Hour)),
		meta("B", "2024-01-15", testNow.Add(time.Hour)),
		meta("C", "2024-01-15", testNow.Add(-time.Hour)),
	)
	previous := set(
		meta("B", "2024-01-15", testNow.Add(30*time.Minute)),
		meta("D", "2024-01-10", testNow.Add(-5*24*time.Hour)),
	)

	state, first := Reconcile(previous, desired, testNow)
	if len(first) == 0 {
		t.Fatal("first Reconcile() produced no actions")
	}

	again, second := Reconcile(state, desired, testNow)
	if len(second) != 0 {
		t.Errorf("second Reconcile() actions = %v, want none", second)
	}
	if !reflect.DeepEqual(again, state) {
		t.Errorf("second Reconcile() state = %v, want %v", again, state)
	}
}

func TestReconcile_NeverSchedulesPast(t *testing.T) {
	previous := set(meta("A", "2024-01-15", testNow.Add(time.Hour)))

	desired := make(map[string]Metadata)
	for i, offset := range []time.Duration{-time.Hour, 0, -time.Millisecond} {
		m := meta(string(rune('A'+i)), "2024-01-15", testNow.Add(offset))
		desired[m.Key] = m
	}

	_, actions := Reconcile(previous, desired, testNow)
	for _, a := range actions {
		if a.Kind == ActionSchedule {
			t.Errorf("Reconcile() scheduled past alarm %s at %d", a.Key, a.Meta.ActualTime)
		}
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		name                      string
		category, sub, title, day string
		want                      string
	}{
		{
			name:     "plain",
			category: "Lectures", sub: "Math", title: "Calculus", day: "2024-01-16",
			want: "alarm_Lectures_Math_Calculus_2024_01_16",
		},
		{
			name:     "spaces and punctuation",
			category: "Work stuff", sub: "Q&A", title: "Ch. 1/2", day: "2024-01-16",
			want: "alarm_Work_stuff_Q_A_Ch__1_2_2024_01_16",
		},
		{
			name:     "non ascii letters",
			category: "Révision", sub: "日本", title: "x", day: "2024-01-16",
			want: "alarm_R_vision____x_2024_01_16",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.category, tt.sub, tt.title, tt.day); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReconcile_Precheck(t *testing.T) {
	task := func(title, date, reminder string) Task {
		return Task{
			Category:      "Lectures",
			SubCategory:   "Math",
			RecordTitle:   title,
			ReminderTime:  reminder,
			AlarmType:     TypeNotify,
			ScheduledDate: date,
			Status:        StatusEnabled,
		}
	}
	mainKey := func(title, date string) string { return Key("Lectures", "Math", title, date) }
	warnKey := func(title, date string) string { return PrecheckKey("Lectures", "Math", title, date) }

	t.Run("both future", func(t *testing.T) {
		desired := BuildDesired([]Task{task("A", "2024-01-15", "13:00")}, time.UTC, nil)

		state, actions := Reconcile(nil, desired, testNow)
		want := []Action{Schedule(desired[mainKey("A", "2024-01-15")]), Schedule(desired[warnKey("A", "2024-01-15")])}
		if !reflect.DeepEqual(actions, want) {
			t.Errorf("actions = %+v, want %+v", actions, want)
		}
		if len(state) != 2 {
			t.Errorf("state = %v, want main and precheck", state)
		}
		if at := actions[1].Meta.Trigger(); !at.Equal(time.Date(2024, 1, 15, 12, 55, 0, 0, time.UTC)) {
			t.Errorf("precheck trigger = %v, want 12:55", at)
		}
	})

	t.Run("warning past but main future", func(t *testing.T) {
		desired := BuildDesired([]Task{task("B", "2024-01-15", "12:03")}, time.UTC, nil)

		state, actions := Reconcile(nil, desired, testNow)
		want := []Action{Schedule(desired[mainKey("B", "2024-01-15")])}
		if !reflect.DeepEqual(actions, want) {
			t.Errorf("actions = %+v, want %+v", actions, want)
		}
		if _, ok := state[warnKey("B", "2024-01-15")]; ok {
			t.Error("state kept a precheck whose instant has passed")
		}
		if _, ok := state[mainKey("B", "2024-01-15")]; !ok {
			t.Error("state missing main alarm")
		}
	})

	t.Run("removal cancels both", func(t *testing.T) {
		previous := BuildDesired([]Task{task("C", "2024-01-16", "09:00")}, time.UTC, nil)

		state, actions := Reconcile(previous, nil, testNow)
		want := []Action{Cancel(mainKey("C", "2024-01-16")), Cancel(warnKey("C", "2024-01-16"))}
		if !reflect.DeepEqual(actions, want) {
			t.Errorf("actions = %+v, want %+v", actions, want)
		}
		if len(state) != 0 {
			t.Errorf("state = %v, want empty", state)
		}
	})

	t.Run("stale precheck cleaned up", func(t *testing.T) {
		previous := BuildDesired([]Task{task("D", "2024-01-14", "09:00")}, time.UTC, nil)

		state, actions := Reconcile(previous, nil, testNow)
		want := []Action{Cancel(mainKey("D", "2024-01-14")), Cancel(warnKey("D", "2024-01-14"))}
		if !reflect.DeepEqual(actions, want) {
			t.Errorf("actions = %+v, want %+v", actions, want)
		}
		if len(state) != 0 {
			t.Errorf("state = %v, want empty", state)
		}
	})
}
