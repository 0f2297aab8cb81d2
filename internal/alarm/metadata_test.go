package alarm

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMetadata_UnmarshalLegacy(t *testing.T) {
	data := `[
		{"category":"Lectures","subCategory":"Math","recordTitle":"Calculus","actualTime":1705395600000,"alarmType":1},
		{"key":"custom","category":"A","subCategory":"B","recordTitle":"C","scheduledDate":"2024-01-16","reminderTime":"09:00","actualTime":1,"alarmType":5}
	]`

	var entries []Metadata
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Unmarshal() got %d entries, want 2", len(entries))
	}

	legacy := entries[0]
	if legacy.ScheduledDate != "" || legacy.ReminderTime != "" {
		t.Errorf("legacy entry = %+v, want empty scheduledDate and reminderTime", legacy)
	}
	if want := "alarm_Lectures_Math_Calculus_"; legacy.Key != want {
		t.Errorf("legacy key = %q, want %q", legacy.Key, want)
	}
	if entries[1].Key != "custom" || entries[1].AlarmType != TypeLoud {
		t.Errorf("entry = %+v, want stored key and loud type", entries[1])
	}
}

func TestMetadata_JSONLayout(t *testing.T) {
	m := Metadata{
		Key:           "k",
		Category:      "c",
		SubCategory:   "s",
		RecordTitle:   "r",
		ScheduledDate: "2024-01-16",
		ActualTime:    1705395600000,
		AlarmType:     TypeSound,
		ReminderTime:  "09:00",
	}
	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"key":"k","category":"c","subCategory":"s","recordTitle":"r","scheduledDate":"2024-01-16","actualTime":1705395600000,"alarmType":3,"reminderTime":"09:00"}`
	if string(out) != want {
		t.Errorf("Marshal() = %s, want %s", out, want)
	}
}

func TestMetadata_HasAlarm(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		reminder string
		want     bool
	}{
		{"timed notify", TypeNotify, "09:00", true},
		{"no type", TypeNone, "09:00", false},
		{"all day", TypeNotify, AllDay, false},
		{"empty reminder", TypeLoud, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Metadata{AlarmType: tt.typ, ReminderTime: tt.reminder}
			if got := m.HasAlarm(); got != tt.want {
				t.Errorf("HasAlarm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildDesired(t *testing.T) {
	loc := time.FixedZone("UTC+1", 60*60)
	base := Task{
		Category:      "Lectures",
		SubCategory:   "Math",
		RecordTitle:   "Calculus",
		ReminderTime:  "09:30",
		AlarmType:     TypeNotify,
		ScheduledDate: "2024-01-16",
		Status:        StatusEnabled,
	}

	skipped := func(mutate func(*Task)) Task {
		task := base
		mutate(&task)
		return task
	}

	tasks := []Task{
		base,
		skipped(func(t *Task) { t.RecordTitle = "Disabled"; t.Status = "Disabled" }),
		skipped(func(t *Task) { t.RecordTitle = "NoType"; t.AlarmType = TypeNone }),
		skipped(func(t *Task) { t.RecordTitle = "BadType"; t.AlarmType = Type(9) }),
		skipped(func(t *Task) { t.RecordTitle = "AllDay"; t.ReminderTime = AllDay }),
		skipped(func(t *Task) { t.RecordTitle = "NoReminder"; t.ReminderTime = "" }),
		skipped(func(t *Task) { t.RecordTitle = "Unspecified"; t.ScheduledDate = Unspecified }),
		skipped(func(t *Task) { t.RecordTitle = "BadDate"; t.ScheduledDate = "16/01/2024" }),
		skipped(func(t *Task) { t.RecordTitle = "BadTime"; t.ReminderTime = "9.30am" }),
	}

	desired := BuildDesired(tasks, loc, nil)
	if len(desired) != 2 {
		t.Fatalf("BuildDesired() got %d entries, want main and precheck: %v", len(desired), desired)
	}

	key := Key("Lectures", "Math", "Calculus", "2024-01-16")
	got, ok := desired[key]
	if !ok {
		t.Fatalf("BuildDesired() missing key %q", key)
	}
	wantAt := time.Date(2024, 1, 16, 8, 30, 0, 0, time.UTC).UnixMilli()
	if got.ActualTime != wantAt {
		t.Errorf("ActualTime = %d, want %d", got.ActualTime, wantAt)
	}
	if got.Key != key || got.ReminderTime != "09:30" || got.AlarmType != TypeNotify || got.Precheck {
		t.Errorf("entry = %+v", got)
	}

	precheckKey := PrecheckKey("Lectures", "Math", "Calculus", "2024-01-16")
	warn, ok := desired[precheckKey]
	if !ok {
		t.Fatalf("BuildDesired() missing precheck key %q", precheckKey)
	}
	if want := wantAt - PrecheckLead.Milliseconds(); warn.ActualTime != want {
		t.Errorf("precheck ActualTime = %d, want %d", warn.ActualTime, want)
	}
	if !warn.Precheck || !warn.Payload().Precheck {
		t.Errorf("precheck entry = %+v, want Precheck set", warn)
	}
}

func TestPrecheckKey(t *testing.T) {
	if got, want := PrecheckKey("Lec tures", "Math", "Calc", "2024-01-16"), "precheck_Lec_tures_Math_Calc_2024_01_16"; got != want {
		t.Errorf("PrecheckKey() = %q, want %q", got, want)
	}

	var m Metadata
	data := `{"category":"A","subCategory":"B","recordTitle":"C","scheduledDate":"2024-01-16","precheck":true}`
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.Key != "precheck_A_B_C_2024_01_16" {
		t.Errorf("legacy precheck key = %q", m.Key)
	}
}

func TestTriggerTime_InvalidReminder(t *testing.T) {
	if _, _, err := ParseReminder("25:00"); err == nil {
		t.Error("ParseReminder(25:00) expected error")
	}
	if h, m, err := ParseReminder("7:05"); err != nil || h != 7 || m != 5 {
		t.Errorf("ParseReminder(7:05) = %d, %d, %v", h, m, err)
	}
}
