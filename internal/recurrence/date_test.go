package recurrence

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 29, d.Day())
	assert.Equal(t, time.Thursday, d.Weekday())

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)

	_, err = ParseDate("Unspecified")
	assert.Error(t, err)
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2024, time.February))
	assert.Equal(t, 28, DaysIn(2023, time.February))
	assert.Equal(t, 28, DaysIn(1900, time.February))
	assert.Equal(t, 29, DaysIn(2000, time.February))
	assert.Equal(t, 31, DaysIn(2024, time.December))
	assert.Equal(t, 30, DaysIn(2024, time.April))
}

func TestDate_AddMonths(t *testing.T) {
	tests := []struct {
		start    string
		months   int
		day      int
		expected string
	}{
		{"2024-01-31", 1, 31, "2024-02-29"},
		{"2023-01-31", 1, 31, "2023-02-28"},
		{"2024-11-15", 2, 15, "2025-01-15"},
		{"2024-12-01", 12, 1, "2025-12-01"},
		{"2024-12-01", 13, 40, "2026-01-31"},
		{"2024-01-15", -1, 15, "2023-12-15"},
		{"2024-03-10", 1, 0, "2024-04-01"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got := mustDate(t, tt.start).AddMonths(tt.months, tt.day)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestNthWeekday(t *testing.T) {
	assert.Equal(t, "2024-02-20", nthWeekday(2024, time.February, 3, time.Tuesday).String())
	assert.Equal(t, "2024-02-23", nthWeekday(2024, time.February, 5, time.Friday).String())
	assert.Equal(t, "2024-02-26", nthWeekday(2024, time.February, 9, time.Monday).String())
	assert.Equal(t, "2024-02-01", nthWeekday(2024, time.February, 0, time.Thursday).String())
}

func TestDate_At(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	at := mustDate(t, "2024-01-15").At(9, 30, loc)
	assert.Equal(t, time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC).Unix(), at.Unix())
}

func TestDate_TextRoundTrip(t *testing.T) {
	var payload struct {
		Start Date `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-03-05"}`), &payload))
	assert.Equal(t, "2024-03-05", payload.Start.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-03-05"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"soon"}`), &payload))
}
