package recurrence

import (
	"slices"
	"time"
)

// NextDate returns the next occurrence of a custom rule strictly after start.
// It never fails: every branch has a fallback, and a final pass advances one
// whole period from start when a branch result is not after start.
// Standard rules need a table and are handled by Resolve; passed here they
// behave like a plain weekly rule.
func NextDate(start Date, rule Rule) Date {
	var next Date
	switch r := rule.(type) {
	case Daily:
		next = start.AddDays(every(r.Every))
	case Weekly:
		next = nextWeekly(start, r)
	case MonthlyOnDay:
		next = nextMonthlyOnDay(start, r)
	case MonthlyOnWeekday:
		next = nextMonthlyOnWeekday(start, r)
	case MonthlyOnDates:
		next = nextMonthlyOnDates(start, r)
	case YearlyOnDay:
		next = nextYearlyOnDay(start, r)
	case YearlyOnWeekday:
		next = nextYearlyOnWeekday(start, r)
	default:
		next = start.AddDays(7)
	}
	return ensureAfter(start, next, rule)
}

// ensureAfter replaces a candidate that is not after start with start advanced
// by one whole period of the rule.
func ensureAfter(start, candidate Date, rule Rule) Date {
	if candidate.After(start) {
		return candidate
	}
	u, n := periodOf(rule)
	switch u {
	case unitDay:
		return start.AddDays(n)
	case unitMonth:
		return start.AddMonths(n, start.Day())
	case unitYear:
		return clampedDate(start.Year()+n, start.Month(), start.Day())
	default:
		return start.AddDays(7 * n)
	}
}

func nextWeekly(start Date, r Weekly) Date {
	n := every(r.Every)
	if !slices.Contains(r.Days[:], true) {
		return start.AddDays(7 * n)
	}

	current := int(start.Weekday())
	for i := current + 1; i < 7; i++ {
		if r.Days[i] {
			return start.AddDays(i - current + 7*(n-1))
		}
	}

	// Nothing left this week: first selected day of the following week.
	nextSunday := start.AddDays(7 - current)
	first := slices.Index(r.Days[:], true)
	return nextSunday.AddDays(first + 7*(n-1))
}

func nextMonthlyOnDay(start Date, r MonthlyOnDay) Date {
	n := every(r.Every)
	day := r.Day.OrElse(start.Day())

	next := start.AddMonths(n, day)
	if !next.After(start) {
		next = start.AddMonths(n+1, day)
	}
	return next
}

func nextMonthlyOnWeekday(start Date, r MonthlyOnWeekday) Date {
	n := every(r.Every)

	target := start.AddMonths(n, 1)
	next := nthWeekday(target.Year(), target.Month(), r.Week, r.Weekday)
	if !next.After(start) {
		target = start.AddMonths(n+1, 1)
		next = nthWeekday(target.Year(), target.Month(), r.Week, r.Weekday)
	}
	return next
}

func nextMonthlyOnDates(start Date, r MonthlyOnDates) Date {
	n := every(r.Every)
	dates := normalizeDates(r.Dates, start.Day())

	var next Date
	if i := slices.IndexFunc(dates, func(day int) bool { return day > start.Day() }); i >= 0 {
		next = clampedDate(start.Year(), start.Month(), dates[i])
	} else {
		next = start.AddMonths(n, dates[0])
	}
	if !next.After(start) {
		next = start.AddMonths(n, dates[0])
	}
	return next
}

// normalizeDates sorts and deduplicates the selected days of month, dropping
// non-positive values. An empty selection means fallback.
func normalizeDates(dates []int, fallback int) []int {
	out := make([]int, 0, len(dates))
	for _, d := range dates {
		if d > 0 {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return []int{fallback}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// targetMonth picks the next selected month after start's month in the same
// year, or the first selected month every years ahead. With no month selected
// start's month counts as selected.
func targetMonth(start Date, months [12]bool, n int) (int, time.Month) {
	if !slices.Contains(months[:], true) {
		months[start.Month()-1] = true
	}
	for i := int(start.Month()); i < 12; i++ {
		if months[i] {
			return start.Year(), time.Month(i + 1)
		}
	}
	first := slices.Index(months[:], true)
	return start.Year() + n, time.Month(first + 1)
}

func nextYearlyOnDay(start Date, r YearlyOnDay) Date {
	n := every(r.Every)
	day := r.Day.OrElse(start.Day())
	year, month := targetMonth(start, r.Months, n)

	next := clampedDate(year, month, day)
	if !next.After(start) {
		next = clampedDate(start.Year()+n, month, day)
	}
	return next
}

func nextYearlyOnWeekday(start Date, r YearlyOnWeekday) Date {
	n := every(r.Every)
	year, month := targetMonth(start, r.Months, n)

	next := nthWeekday(year, month, r.Week, r.Weekday)
	if !next.After(start) {
		next = nthWeekday(start.Year()+n, month, r.Week, r.Weekday)
	}
	return next
}
