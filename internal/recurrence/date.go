package recurrence

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time of day and no location.
// The zero value is not a valid date; use NewDate, ParseDate or DateOf.
type Date struct {
	t time.Time // always midnight UTC
}

// NewDate returns the date for year, month and day, normalizing overflow the
// way time.Date does (January 32 becomes February 1).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a yyyy-MM-dd string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Date) Year() int { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) After(other Date) bool { return d.t.After(other.t) }
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// String formats the date as yyyy-MM-dd.
func (d Date) String() string {
	return d.t.Format(DateLayout)
}

// AddDays returns the date n days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// AddMonths moves n months forward and lands on day, clamped to the length of
// the target month. The month index arithmetic is zero-based:
// target = month0 + n, year += target / 12, month0 = target % 12.
func (d Date) AddMonths(n, day int) Date {
	target := int(d.Month()-1) + n
	year := d.Year() + target/12
	month := time.Month(target%12 + 1)
	if target < 0 {
		year = d.Year() + (target-11)/12
		month = time.Month((target%12+12)%12 + 1)
	}
	return clampedDate(year, month, day)
}

// At returns the instant at hour:minute of this date in loc.
func (d Date) At(hour, minute int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// clampedDate builds year-month-day with day limited to [1, DaysIn(year, month)].
func clampedDate(year int, month time.Month, day int) Date {
	if day < 1 {
		day = 1
	}
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// nthWeekday returns the week-th occurrence of weekday in the month, with week
// clamped to [1, MaxWeek]. When the month has fewer occurrences it returns the
// last one.
func nthWeekday(year int, month time.Month, week int, weekday time.Weekday) Date {
	week = weekOrdinal(week)
	first := NewDate(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	d := first.AddDays(offset + 7*(week-1))
	if d.Month() != month {
		d = d.AddDays(-7)
	}
	return d
}
