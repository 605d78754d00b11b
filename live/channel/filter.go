package channel

import (
	"fmt"
	"strings"
)

// Filter is a row filter of the form "column=eq.value". Providers that
// cannot push the filter to the server apply it to each event.
type Filter struct {
	Column string
	Value  string
}

// ParseFilter accepts "" as the match-all filter.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return Filter{}, nil
	}
	col, rest, ok := strings.Cut(s, "=")
	if !ok || col == "" {
		return Filter{}, fmt.Errorf("invalid filter %q", s)
	}
	val, ok := strings.CutPrefix(rest, "eq.")
	if !ok {
		return Filter{}, fmt.Errorf("unsupported filter operator in %q", s)
	}
	return Filter{Column: col, Value: val}, nil
}

// Match reports whether the record passes the filter.
func (f Filter) Match(record map[string]any) bool {
	if f.Column == "" {
		return true
	}
	v, ok := record[f.Column]
	if !ok {
		return false
	}
	return fmt.Sprint(v) == f.Value
}
