package service

import (
	"slices"
	"strings"
	"time"

	"revix/internal/alarm"
	"revix/internal/recurrence"
	"revix/internal/storage"
)

const (
	statusEnabled  = alarm.StatusEnabled
	statusDisabled = "Disabled"

	durationSpecificTimes = "specificTimes"
	durationUntil         = "until"

	completedAtLayout = "2006-01-02T15:04"
)

// outcome is what one completion does to a record.
type outcome int

const (
	outcomeAdvanced outcome = iota
	outcomeRetired
	outcomeAlreadyDone
)

// advance applies one completion at now to rec in place.
// Records without a start date or without repetition are retired instead;
// a record already completed today is left untouched.
func advance(rec *storage.Record, calc *recurrence.Calculator, now time.Time) outcome {
	if rec.DateInitiated == alarm.Unspecified || rec.Frequency == recurrence.FrequencyNoRepetition {
		return outcomeRetired
	}

	today := recurrence.DateOf(now)
	if slices.ContainsFunc(rec.DatesUpdated, func(s string) bool {
		return strings.HasPrefix(s, today.String())
	}) {
		return outcomeAlreadyDone
	}

	scheduled, err := recurrence.ParseDate(rec.ScheduledDate)
	if err != nil {
		scheduled = today
	}

	if scheduled.Before(today) {
		rec.MissedCount++
		if !slices.Contains(rec.DatesMissed, scheduled.String()) {
			rec.DatesMissed = append(rec.DatesMissed, scheduled.String())
		}
	}

	if rec.CompletionCount == -1 {
		// recurrence was disabled: restart the history without a due date
		rec.CompletionCount = 0
		rec.DatesUpdated = nil
		rec.ScheduledDate = alarm.Unspecified
		return outcomeAdvanced
	}

	rule := recurrence.RuleFor(rec.Frequency, []byte(rec.RecurrenceData))
	if next, ok := calc.Next(scheduled, rule, rec.CompletionCount+1); ok {
		rec.ScheduledDate = next.String()
	}
	rec.DatesUpdated = append(rec.DatesUpdated, now.Format(completedAtLayout))
	rec.CompletionCount++

	if rec.Status == statusEnabled && durationExhausted(rec.Duration, rec.CompletionCount, today) {
		rec.Status = statusDisabled
	}
	return outcomeAdvanced
}

// durationExhausted reports whether a record has run out of repetitions.
func durationExhausted(d storage.Duration, completions int, today recurrence.Date) bool {
	switch d.Type {
	case durationSpecificTimes:
		return d.NumberOfTimes > 0 && completions >= d.NumberOfTimes
	case durationUntil:
		end, err := recurrence.ParseDate(d.EndDate)
		if err != nil {
			return false
		}
		return !today.Before(end)
	default:
		return false
	}
}
