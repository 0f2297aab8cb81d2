package recurrence

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
)

// Frequency names with special meaning on records.
const (
	FrequencyCustom       = "Custom"
	FrequencyNoRepetition = "No Repetition"
)

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// RuleFor returns the rule for a record's frequency name. "Custom" decodes
// data as custom parameters; any other name is a Standard rule.
func RuleFor(frequency string, data []byte) Rule {
	if frequency == FrequencyCustom {
		return ParseRule(data)
	}
	return Standard{Frequency: frequency}
}

// ParseRule decodes custom recurrence parameters from JSON. Malformed input
// never fails; it yields the default rule (weekly, every week, no day selected).
func ParseRule(data []byte) Rule {
	var params map[string]any
	if err := json.Unmarshal(data, &params); err != nil || params == nil {
		return Weekly{Every: 1}
	}
	return RuleFromMap(params)
}

// RuleFromMap builds a custom rule from decoded parameters. Parameters may be
// nested under "custom_params". Missing or malformed fields take their defaults.
func RuleFromMap(params map[string]any) Rule {
	if nested, ok := params["custom_params"].(map[string]any); ok {
		params = nested
	}

	n := every(intOr(params["value"], 1))
	frequencyType, _ := params["frequencyType"].(string)

	switch strings.ToLower(frequencyType) {
	case "day":
		return Daily{Every: n}
	case "month":
		return monthlyFromMap(params, n)
	case "year":
		return yearlyFromMap(params, n)
	default:
		return Weekly{Every: n, Days: boolArray7(params["daysOfWeek"])}
	}
}

func monthlyFromMap(params map[string]any, n int) Rule {
	option, _ := params["monthlyOption"].(string)
	switch option {
	case "weekday":
		return MonthlyOnWeekday{
			Every:   n,
			Week:    weekOrdinal(intOr(params["weekOfMonth"], 1)),
			Weekday: weekdayOr(params["dayOfWeek"]),
		}
	case "dates":
		return MonthlyOnDates{Every: n, Dates: intList(params["selectedDates"])}
	default:
		return MonthlyOnDay{Every: n, Day: optionalInt(params["dayOfMonth"])}
	}
}

func yearlyFromMap(params map[string]any, n int) Rule {
	months := boolArray12(params["selectedMonths"])
	option, _ := params["yearlyOption"].(string)
	if option == "weekday" {
		return YearlyOnWeekday{
			Every:   n,
			Months:  months,
			Week:    weekOrdinal(intOr(params["weekOfYear"], 1)),
			Weekday: weekdayOr(params["dayOfWeekForYear"]),
		}
	}
	return YearlyOnDay{Every: n, Months: months, Day: optionalInt(params["monthDay"])}
}

// ParseWeekday maps an English weekday name or abbreviation to time.Weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}

func weekdayOr(v any) time.Weekday {
	name, _ := v.(string)
	if wd, ok := ParseWeekday(name); ok {
		return wd
	}
	return time.Monday
}

func optionalInt(v any) mo.Option[int] {
	if n, ok := toInt(v); ok {
		return mo.Some(n)
	}
	return mo.None[int]()
}

func intOr(v any, fallback int) int {
	if n, ok := toInt(v); ok {
		return n
	}
	return fallback
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) {
			return 0, false
		}
		// saturate so out-of-range values still clamp instead of wrapping
		switch {
		case x >= math.MaxInt32:
			return math.MaxInt32, true
		case x <= math.MinInt32:
			return math.MinInt32, true
		}
		return int(x), true
	case int:
		return x, true
	case int64:
		return int(x), true
	case json.Number:
		n, err := x.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	default:
		return 0, false
	}
}

func intList(v any) []int {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		if n, ok := toInt(item); ok {
			out = append(out, n)
		}
	}
	return out
}

func boolArray7(v any) [7]bool {
	var out [7]bool
	fillBools(out[:], v)
	return out
}

func boolArray12(v any) [12]bool {
	var out [12]bool
	fillBools(out[:], v)
	return out
}

// fillBools copies a JSON list into dst; only literal true counts as selected,
// extra elements are ignored and missing ones stay false.
func fillBools(dst []bool, v any) {
	raw, ok := v.([]any)
	if !ok {
		return
	}
	for i := 0; i < len(dst) && i < len(raw); i++ {
		dst[i] = raw[i] == true
	}
}
