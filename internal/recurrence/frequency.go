package recurrence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FrequencyTable maps a standard frequency name to its ordered day offsets.
type FrequencyTable map[string][]int

// DefaultFrequencyTable is used when no frequency file is configured.
func DefaultFrequencyTable() FrequencyTable {
	return FrequencyTable{
		"Default":      {1, 3, 7, 14, 30, 60},
		"Low Priority": {1, 7, 30, 90},
		"Daily":        {1},
		"Weekly":       {7},
		"Monthly":      {30},
	}
}

// NextOffset returns the day offset for the occurrence-th repetition of name.
// Once the schedule is exhausted the last interval repeats. It reports false
// when name is unknown or has no intervals.
func NextOffset(table FrequencyTable, name string, occurrence int) (int, bool) {
	intervals := table[name]
	if len(intervals) == 0 {
		return 0, false
	}
	occurrence = max(occurrence, 0)
	return intervals[min(occurrence, len(intervals)-1)], true
}

// Resolve computes the next date for any rule. An occurrence of -1 means
// recurrence is disabled and reports false. A standard rule missing from the
// table keeps start unchanged.
func Resolve(start Date, rule Rule, table FrequencyTable, occurrence int) (Date, bool) {
	if occurrence == -1 {
		return Date{}, false
	}
	std, ok := rule.(Standard)
	if !ok {
		return NextDate(start, rule), true
	}
	offset, ok := NextOffset(table, std.Frequency, occurrence)
	if !ok {
		return start, true
	}
	return start.AddDays(offset), true
}

// ParseIntervals parses a bracketed list such as "[1, 3, 7, 14]". Parts that
// are not non-negative integers are dropped.
func ParseIntervals(s string) []int {
	clean := strings.NewReplacer("[", "", "]", "").Replace(s)
	var out []int
	for _, part := range strings.Split(clean, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			continue
		}
		out = append(out, n)
	}
	return out
}

// UnmarshalJSON accepts both integer arrays and bracketed strings as values.
func (t *FrequencyTable) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(FrequencyTable, len(raw))
	for name, value := range raw {
		var list []int
		if err := json.Unmarshal(value, &list); err == nil {
			out.add(name, list)
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			out.add(name, ParseIntervals(s))
			continue
		}
		return fmt.Errorf("frequency %q: unsupported value %s", name, value)
	}
	*t = out
	return nil
}

// UnmarshalYAML accepts both integer sequences and bracketed strings as values.
func (t *FrequencyTable) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out := make(FrequencyTable, len(raw))
	for name, value := range raw {
		switch value.Kind {
		case yaml.SequenceNode:
			var list []int
			if err := value.Decode(&list); err != nil {
				return fmt.Errorf("frequency %q: %w", name, err)
			}
			out.add(name, list)
		case yaml.ScalarNode:
			out.add(name, ParseIntervals(value.Value))
		default:
			return fmt.Errorf("frequency %q: unsupported value at line %d", name, value.Line)
		}
	}
	*t = out
	return nil
}

// add stores the non-negative intervals of a list; an empty result is omitted.
func (t FrequencyTable) add(name string, list []int) {
	kept := make([]int, 0, len(list))
	for _, n := range list {
		if n >= 0 {
			kept = append(kept, n)
		}
	}
	if len(kept) > 0 {
		t[name] = kept
	}
}

// LoadFrequencyTable reads a frequency table from a .json, .yaml or .yml file.
func LoadFrequencyTable(path string) (FrequencyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read frequency file: %w", err)
	}

	var table FrequencyTable
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &table)
	default:
		err = yaml.Unmarshal(data, &table)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse frequency file %s: %w", path, err)
	}
	return table, nil
}
