package recurrence

import (
	"time"

	"github.com/samber/mo"
)

// Rule describes how a record recurs. It is a closed set: Standard plus the
// custom variants below.
type Rule interface {
	isRule()
}

// Standard is a named frequency resolved through a FrequencyTable.
type Standard struct {
	Frequency string
}

// Daily repeats every Every days.
type Daily struct {
	Every int
}

// Weekly repeats on the selected weekdays (index 0 is Sunday) every Every
// weeks. With no day selected it repeats every 7*Every days.
type Weekly struct {
	Every int
	Days  [7]bool
}

// MonthlyOnDay lands on a fixed day of the month, Every months ahead.
// An absent Day means the start date's day of month.
type MonthlyOnDay struct {
	Every int
	Day   mo.Option[int]
}

// MonthlyOnWeekday lands on the Week-th Weekday of the month ("3rd Tuesday").
type MonthlyOnWeekday struct {
	Every   int
	Week    int
	Weekday time.Weekday
}

// MonthlyOnDates lands on any of the listed days of the month.
type MonthlyOnDates struct {
	Every int
	Dates []int
}

// YearlyOnDay lands on a fixed day of the selected months.
type YearlyOnDay struct {
	Every  int
	Months [12]bool
	Day    mo.Option[int]
}

// YearlyOnWeekday lands on the Week-th Weekday of the selected months.
type YearlyOnWeekday struct {
	Every   int
	Months  [12]bool
	Week    int
	Weekday time.Weekday
}

func (Standard) isRule()         {}
func (Daily) isRule()            {}
func (Weekly) isRule()           {}
func (MonthlyOnDay) isRule()     {}
func (MonthlyOnWeekday) isRule() {}
func (MonthlyOnDates) isRule()   {}
func (YearlyOnDay) isRule()      {}
func (YearlyOnWeekday) isRule()  {}

// unit is the whole period a custom rule advances by in the safety net.
type unit int

const (
	unitDay unit = iota
	unitWeek
	unitMonth
	unitYear
)

// periodOf returns the safety-net unit and step of a custom rule.
func periodOf(rule Rule) (unit, int) {
	switch r := rule.(type) {
	case Daily:
		return unitDay, every(r.Every)
	case Weekly:
		return unitWeek, every(r.Every)
	case MonthlyOnDay:
		return unitMonth, every(r.Every)
	case MonthlyOnWeekday:
		return unitMonth, every(r.Every)
	case MonthlyOnDates:
		return unitMonth, every(r.Every)
	case YearlyOnDay:
		return unitYear, every(r.Every)
	case YearlyOnWeekday:
		return unitYear, every(r.Every)
	default:
		return unitWeek, 1
	}
}

// MaxEvery bounds the interval of custom rules. Larger values are clamped.
const MaxEvery = 1000

// MaxWeek is the highest week-of-month ordinal; larger values mean the last
// occurrence in the month.
const MaxWeek = 5

func every(n int) int {
	return min(max(n, 1), MaxEvery)
}

func weekOrdinal(week int) int {
	return min(max(week, 1), MaxWeek)
}
