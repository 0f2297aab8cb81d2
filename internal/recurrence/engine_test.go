package recurrence

import (
	"math"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestNextDate(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		rule     Rule
		expected string
	}{
		{
			name:     "daily every 3 days across leap day",
			start:    "2024-02-27",
			rule:     Daily{Every: 3},
			expected: "2024-03-01",
		},
		{
			name:     "daily with invalid step defaults to one day",
			start:    "2024-12-31",
			rule:     Daily{Every: 0},
			expected: "2025-01-01",
		},
		{
			name:     "weekly picks next selected day in current week",
			start:    "2024-01-15", // Monday
			rule:     Weekly{Every: 1, Days: [7]bool{false, false, true, false, false, false, true}},
			expected: "2024-01-16",
		},
		{
			name:     "weekly adds extra weeks when day found this week",
			start:    "2024-01-15",
			rule:     Weekly{Every: 2, Days: [7]bool{6: true}},
			expected: "2024-01-27",
		},
		{
			name:     "weekly wraps to first selected day of next week",
			start:    "2024-01-19", // Friday
			rule:     Weekly{Every: 1, Days: [7]bool{2: true}},
			expected: "2024-01-23",
		},
		{
			name:     "weekly wrap with every 2 weeks",
			start:    "2024-01-19",
			rule:     Weekly{Every: 2, Days: [7]bool{2: true}},
			expected: "2024-01-30",
		},
		{
			name:     "weekly wrap from saturday to sunday",
			start:    "2024-01-20", // Saturday
			rule:     Weekly{Every: 1, Days: [7]bool{0: true}},
			expected: "2024-01-21",
		},
		{
			name:     "weekly with no day selected repeats every 7*n days",
			start:    "2024-01-15",
			rule:     Weekly{Every: 2},
			expected: "2024-01-29",
		},
		{
			name:     "monthly day clamps to leap february",
			start:    "2024-01-31",
			rule:     MonthlyOnDay{Every: 1, Day: mo.Some(31)},
			expected: "2024-02-29",
		},
		{
			name:     "monthly day clamps to non-leap february",
			start:    "2023-01-15",
			rule:     MonthlyOnDay{Every: 1, Day: mo.Some(31)},
			expected: "2023-02-28",
		},
		{
			name:     "monthly day defaults to start day and rolls the year",
			start:    "2024-11-20",
			rule:     MonthlyOnDay{Every: 3},
			expected: "2025-02-20",
		},
		{
			name:     "monthly third tuesday",
			start:    "2024-01-15",
			rule:     MonthlyOnWeekday{Every: 1, Week: 3, Weekday: time.Tuesday},
			expected: "2024-02-20",
		},
		{
			name:     "monthly fifth friday backs up into the month",
			start:    "2024-01-10",
			rule:     MonthlyOnWeekday{Every: 1, Week: 5, Weekday: time.Friday},
			expected: "2024-02-23",
		},
		{
			name:     "monthly first monday",
			start:    "2024-01-31",
			rule:     MonthlyOnWeekday{Every: 1, Week: 1, Weekday: time.Monday},
			expected: "2024-02-05",
		},
		{
			name:     "monthly dates picks later date in same month",
			start:    "2024-01-10",
			rule:     MonthlyOnDates{Every: 1, Dates: []int{20, 5}},
			expected: "2024-01-20",
		},
		{
			name:     "monthly dates moves to first date n months ahead",
			start:    "2024-01-25",
			rule:     MonthlyOnDates{Every: 2, Dates: []int{5, 20}},
			expected: "2024-03-05",
		},
		{
			name:     "monthly dates clamps later date to month length",
			start:    "2024-02-10",
			rule:     MonthlyOnDates{Every: 1, Dates: []int{31}},
			expected: "2024-02-29",
		},
		{
			name:     "monthly dates empty selection uses start day",
			start:    "2024-01-10",
			rule:     MonthlyOnDates{Every: 1},
			expected: "2024-02-10",
		},
		{
			name:     "yearly day picks later selected month this year",
			start:    "2024-05-01",
			rule:     YearlyOnDay{Every: 1, Months: [12]bool{2: true, 8: true}, Day: mo.Some(15)},
			expected: "2024-09-15",
		},
		{
			name:     "yearly day wraps to first selected month next year",
			start:    "2024-10-01",
			rule:     YearlyOnDay{Every: 1, Months: [12]bool{2: true, 8: true}, Day: mo.Some(15)},
			expected: "2025-03-15",
		},
		{
			name:     "yearly day with no month selected uses start month and clamps",
			start:    "2024-02-29",
			rule:     YearlyOnDay{Every: 1},
			expected: "2025-02-28",
		},
		{
			name:     "yearly weekday first monday of january",
			start:    "2024-03-01",
			rule:     YearlyOnWeekday{Every: 1, Months: [12]bool{0: true}, Week: 1, Weekday: time.Monday},
			expected: "2025-01-06",
		},
		{
			name:     "yearly weekday every 2 years",
			start:    "2024-03-01",
			rule:     YearlyOnWeekday{Every: 2, Months: [12]bool{0: true}, Week: 1, Weekday: time.Monday},
			expected: "2026-01-05",
		},
		{
			name:     "standard rule without table falls back to a week",
			start:    "2024-01-15",
			rule:     Standard{Frequency: "Default"},
			expected: "2024-01-22",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := mustDate(t, tt.start)
			got := NextDate(start, tt.rule)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestNextDate_AlwaysAfterStartAndDeterministic(t *testing.T) {
	rules := []Rule{
		Daily{Every: 1},
		Weekly{Every: 1, Days: [7]bool{true, false, false, false, false, false, false}},
		Weekly{Every: 3, Days: [7]bool{false, true, false, true, false, true, false}},
		MonthlyOnDay{Every: 1, Day: mo.Some(31)},
		MonthlyOnDay{Every: 1, Day: mo.Some(1)},
		MonthlyOnDay{Every: 13},
		MonthlyOnWeekday{Every: 1, Week: 5, Weekday: time.Sunday},
		MonthlyOnWeekday{Every: 2, Week: 0, Weekday: time.Saturday},
		MonthlyOnDates{Every: 1, Dates: []int{1, 15, 31}},
		MonthlyOnDates{Every: 1, Dates: []int{-3, 0}},
		YearlyOnDay{Every: 1, Months: [12]bool{1: true}, Day: mo.Some(29)},
		YearlyOnDay{Every: 1, Months: [12]bool{11: true}, Day: mo.Some(1)},
		YearlyOnWeekday{Every: 1, Months: [12]bool{0: true, 6: true}, Week: 4, Weekday: time.Wednesday},
	}

	start := mustDate(t, "2023-01-01")
	for day := 0; day < 800; day++ {
		d := start.AddDays(day)
		for _, rule := range rules {
			next := NextDate(d, rule)
			if !next.After(d) {
				t.Fatalf("NextDate(%s, %#v) = %s, want a date after start", d, rule, next)
			}
			if again := NextDate(d, rule); !again.Equal(next) {
				t.Fatalf("NextDate(%s, %#v) not deterministic: %s vs %s", d, rule, next, again)
			}
		}
	}
}

func TestNextDate_ExtremeParameters(t *testing.T) {
	start := mustDate(t, "2024-01-15")

	tests := []struct {
		name     string
		rule     Rule
		expected string
	}{
		{name: "daily interval capped", rule: Daily{Every: math.MaxInt}, expected: "2026-10-11"},
		{name: "weekly interval capped", rule: Weekly{Every: math.MaxInt}, expected: "2043-03-16"},
		{name: "monthly interval capped", rule: MonthlyOnDay{Every: math.MaxInt}, expected: "2107-05-15"},
		{name: "yearly interval capped", rule: YearlyOnDay{Every: math.MaxInt}, expected: "3024-01-15"},
		{name: "week of month beyond month length", rule: MonthlyOnWeekday{Every: 1, Week: 1 << 40, Weekday: time.Monday}, expected: "2024-02-26"},
		{name: "decoded huge week of month", rule: ParseRule([]byte(`{"frequencyType":"month","monthlyOption":"weekday","weekOfMonth":100000000000}`)), expected: "2024-02-26"},
		{name: "decoded huge monthly value", rule: ParseRule([]byte(`{"frequencyType":"month","monthlyOption":"day","value":9223372036854775000}`)), expected: "2107-05-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextDate(start, tt.rule)
			assert.True(t, got.After(start))
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestEnsureAfter(t *testing.T) {
	start := mustDate(t, "2024-01-31")

	tests := []struct {
		name     string
		rule     Rule
		expected string
	}{
		{name: "day unit", rule: Daily{Every: 2}, expected: "2024-02-02"},
		{name: "week unit", rule: Weekly{Every: 1}, expected: "2024-02-07"},
		{name: "month unit clamps", rule: MonthlyOnDay{Every: 1}, expected: "2024-02-29"},
		{name: "year unit", rule: YearlyOnDay{Every: 1}, expected: "2025-01-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ensureAfter(start, start, tt.rule)
			assert.Equal(t, tt.expected, got.String())
		})
	}

	later := mustDate(t, "2024-03-01")
	assert.Equal(t, later, ensureAfter(start, later, Daily{Every: 1}))
}
