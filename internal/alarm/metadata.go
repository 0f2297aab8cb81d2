package alarm

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"revix/internal/recurrence"
)

// AllDay is the reminder sentinel for records without a timed alarm.
const AllDay = "All Day"

// PrecheckLead is how long before the main alarm the precheck warning fires.
const PrecheckLead = 5 * time.Minute

// Type is the delivery style of an alarm.
type Type int

const (
	TypeNone Type = iota
	TypeNotify
	TypeVibrate
	TypeSound
	TypeSoundVibrate
	TypeLoud
)

// Valid reports whether t is one of the known alarm types.
func (t Type) Valid() bool {
	return t >= TypeNone && t <= TypeLoud
}

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeNotify:
		return "notify"
	case TypeVibrate:
		return "vibrate"
	case TypeSound:
		return "sound"
	case TypeSoundVibrate:
		return "sound+vibrate"
	case TypeLoud:
		return "loud"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Metadata is one installed (or to-be-installed) alarm.
// ActualTime is the trigger instant in epoch milliseconds.
type Metadata struct {
	Key           string `json:"key"`
	Category      string `json:"category"`
	SubCategory   string `json:"subCategory"`
	RecordTitle   string `json:"recordTitle"`
	ScheduledDate string `json:"scheduledDate"`
	ActualTime    int64  `json:"actualTime"`
	AlarmType     Type   `json:"alarmType"`
	ReminderTime  string `json:"reminderTime"`
	// Precheck marks the warning that precedes a record's main alarm.
	Precheck bool `json:"precheck,omitempty"`
}

// UnmarshalJSON tolerates legacy entries: missing string fields decode as
// empty strings and a missing key is derived from the identifying fields.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	type plain Metadata
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Metadata(p)
	if m.Key == "" {
		m.Key = Key(m.Category, m.SubCategory, m.RecordTitle, m.ScheduledDate)
		if m.Precheck {
			m.Key = PrecheckKey(m.Category, m.SubCategory, m.RecordTitle, m.ScheduledDate)
		}
	}
	return nil
}

// Trigger returns ActualTime as a time.Time.
func (m Metadata) Trigger() time.Time {
	return time.UnixMilli(m.ActualTime)
}

// HasAlarm reports whether the entry describes a timed alarm at all.
func (m Metadata) HasAlarm() bool {
	return m.AlarmType != TypeNone && m.ReminderTime != "" && m.ReminderTime != AllDay
}

// Payload is what the gateway receives for a scheduled alarm.
func (m Metadata) Payload() Payload {
	return Payload{
		Key:           m.Key,
		Category:      m.Category,
		SubCategory:   m.SubCategory,
		RecordTitle:   m.RecordTitle,
		ScheduledDate: m.ScheduledDate,
		AlarmType:     m.AlarmType,
		ReminderTime:  m.ReminderTime,
		Precheck:      m.Precheck,
	}
}

// Key builds the deterministic alarm key. Every rune outside [A-Za-z0-9_]
// becomes an underscore.
func Key(category, subCategory, recordTitle, scheduledDate string) string {
	return sanitizedKey("alarm", category, subCategory, recordTitle, scheduledDate)
}

// PrecheckKey builds the key of the precheck warning for the same record.
func PrecheckKey(category, subCategory, recordTitle, scheduledDate string) string {
	return sanitizedKey("precheck", category, subCategory, recordTitle, scheduledDate)
}

func sanitizedKey(parts ...string) string {
	raw := strings.Join(parts, "_")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, raw)
}

// ParseReminder parses an HH:mm reminder time.
func ParseReminder(reminder string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(reminder))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reminder time %q: %w", reminder, err)
	}
	return t.Hour(), t.Minute(), nil
}

// TriggerTime returns the instant a reminder fires on date in loc.
func TriggerTime(date recurrence.Date, reminder string, loc *time.Location) (time.Time, error) {
	hour, minute, err := ParseReminder(reminder)
	if err != nil {
		return time.Time{}, err
	}
	return date.At(hour, minute, loc), nil
}
