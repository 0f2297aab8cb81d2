package storage

import "time"

// Record is a tracked item (lecture, revision) identified by category,
// sub-category and title.
type Record struct {
	Category        string
	SubCategory     string
	Title           string
	Description     string
	ReminderTime    string // HH:mm, "All Day" or empty
	AlarmType       int    // 0..5
	DateInitiated   string // yyyy-MM-dd or "Unspecified"
	ScheduledDate   string // yyyy-MM-dd or "Unspecified"
	Status          string // "Enabled" or "Disabled"
	Frequency       string // table name, "Custom" or "No Repetition"
	RecurrenceData  string // JSON custom parameters when Frequency is "Custom"
	CompletionCount int    // -1 disables recurrence
	MissedCount     int
	DatesMissed     []string
	DatesUpdated    []string // completion timestamps
	Duration        Duration
	UpdatedAt       time.Time
}

// Duration limits how long a record keeps recurring.
type Duration struct {
	Type          string `json:"type,omitempty"` // "forever", "specificTimes" or "until"
	NumberOfTimes int    `json:"numberOfTimes,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
}
