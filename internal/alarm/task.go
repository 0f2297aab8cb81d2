package alarm

import (
	"log/slog"
	"time"

	"revix/internal/recurrence"
)

// StatusEnabled is the only task status that gets alarms.
const StatusEnabled = "Enabled"

// Unspecified is the scheduled date of tasks with no due date.
const Unspecified = "Unspecified"

// Task is the upstream view of a record the desired alarm set is built from.
type Task struct {
	Category      string
	SubCategory   string
	RecordTitle   string
	ReminderTime  string
	AlarmType     Type
	ScheduledDate string
	Status        string
}

// BuildDesired turns tasks into the desired alarm set. Every enabled task with
// a timed reminder and a valid scheduled date yields a main alarm plus a
// precheck warning PrecheckLead earlier. Trigger instants are computed in loc.
// Skipped tasks are logged.
func BuildDesired(tasks []Task, loc *time.Location, logger *slog.Logger) map[string]Metadata {
	if logger == nil {
		logger = slog.Default()
	}

	desired := make(map[string]Metadata, len(tasks))
	for _, task := range tasks {
		log := logger.With(
			"category", task.Category,
			"sub_category", task.SubCategory,
			"title", task.RecordTitle,
		)

		if task.Status != StatusEnabled || task.AlarmType == TypeNone || !task.AlarmType.Valid() {
			continue
		}
		if task.ReminderTime == "" || task.ReminderTime == AllDay {
			continue
		}
		if task.ScheduledDate == "" || task.ScheduledDate == Unspecified {
			continue
		}

		date, err := recurrence.ParseDate(task.ScheduledDate)
		if err != nil {
			log.Warn("skipping task with invalid scheduled date", "scheduled_date", task.ScheduledDate, "error", err)
			continue
		}
		at, err := TriggerTime(date, task.ReminderTime, loc)
		if err != nil {
			log.Warn("skipping task with invalid reminder time", "reminder_time", task.ReminderTime, "error", err)
			continue
		}

		primary := Metadata{
			Key:           Key(task.Category, task.SubCategory, task.RecordTitle, task.ScheduledDate),
			Category:      task.Category,
			SubCategory:   task.SubCategory,
			RecordTitle:   task.RecordTitle,
			ScheduledDate: task.ScheduledDate,
			ActualTime:    at.UnixMilli(),
			AlarmType:     task.AlarmType,
			ReminderTime:  task.ReminderTime,
		}
		desired[primary.Key] = primary

		precheck := primary
		precheck.Key = PrecheckKey(task.Category, task.SubCategory, task.RecordTitle, task.ScheduledDate)
		precheck.ActualTime = at.Add(-PrecheckLead).UnixMilli()
		precheck.Precheck = true
		desired[precheck.Key] = precheck
	}
	return desired
}
