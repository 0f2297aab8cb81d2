package service

import (
	"encoding/json"
	"strings"

	"revix/internal/alarm"
	"revix/internal/recurrence"
	"revix/internal/storage"
)

func validateID(id RecordID) error {
	switch {
	case strings.TrimSpace(id.Category) == "":
		return &ValidationError{Field: "category", Message: "cannot be empty"}
	case strings.TrimSpace(id.SubCategory) == "":
		return &ValidationError{Field: "sub_category", Message: "cannot be empty"}
	case strings.TrimSpace(id.Title) == "":
		return &ValidationError{Field: "title", Message: "cannot be empty"}
	}
	return nil
}

// normalize fills defaults for fields a client may leave out.
func normalize(rec *storage.Record) {
	if rec.Status == "" {
		rec.Status = statusEnabled
	}
	if rec.Frequency == "" {
		rec.Frequency = "Default"
	}
	if rec.DateInitiated == "" {
		rec.DateInitiated = alarm.Unspecified
	}
	if rec.ScheduledDate == "" {
		rec.ScheduledDate = alarm.Unspecified
	}
}

func validateRecord(rec storage.Record) error {
	if err := validateID(RecordID{Category: rec.Category, SubCategory: rec.SubCategory, Title: rec.Title}); err != nil {
		return err
	}
	if !alarm.Type(rec.AlarmType).Valid() {
		return &ValidationError{Field: "alarm_type", Message: "must be between 0 and 5"}
	}
	if rec.ReminderTime != "" && rec.ReminderTime != alarm.AllDay {
		if _, _, err := alarm.ParseReminder(rec.ReminderTime); err != nil {
			return &ValidationError{Field: "reminder_time", Message: "must be HH:mm or \"All Day\""}
		}
	}
	for _, f := range []struct{ field, value string }{
		{"date_initiated", rec.DateInitiated},
		{"scheduled_date", rec.ScheduledDate},
	} {
		if f.value == alarm.Unspecified {
			continue
		}
		if _, err := recurrence.ParseDate(f.value); err != nil {
			return &ValidationError{Field: f.field, Message: "must be a yyyy-MM-dd date or \"Unspecified\""}
		}
	}
	if rec.Status != statusEnabled && rec.Status != statusDisabled {
		return &ValidationError{Field: "status", Message: "must be Enabled or Disabled"}
	}
	if rec.CompletionCount < -1 {
		return &ValidationError{Field: "completion_count", Message: "must be -1 or greater"}
	}
	if rec.Frequency == recurrence.FrequencyCustom && rec.RecurrenceData != "" && !json.Valid([]byte(rec.RecurrenceData)) {
		return &ValidationError{Field: "recurrence_data", Message: "must be a JSON object"}
	}
	switch rec.Duration.Type {
	case "", "forever", durationSpecificTimes:
	case durationUntil:
		if _, err := recurrence.ParseDate(rec.Duration.EndDate); err != nil {
			return &ValidationError{Field: "duration.endDate", Message: "must be a yyyy-MM-dd date"}
		}
	default:
		return &ValidationError{Field: "duration.type", Message: "must be forever, specificTimes or until"}
	}
	return nil
}
