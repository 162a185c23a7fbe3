package domain

import (
	"sort"
	"time"
)

// MetricSet is the pipeline's output: every benchmarked (state, year) row in
// state-then-year order, plus read-only query helpers for the presentation
// layer. The set owns its rows; callers must treat everything it hands out
// as read-only views.
type MetricSet struct {
	rows        []*StateYearMetric
	byState     map[string][]*StateYearMetric
	generatedAt time.Time
}

// NewMetricSet wraps the pipeline's results. rows must already be sorted by
// state then year; byState must hold each state's rows ascending by year.
func NewMetricSet(rows []*StateYearMetric, byState map[string][]*StateYearMetric) *MetricSet {
	return &MetricSet{
		rows:        rows,
		byState:     byState,
		generatedAt: clock.Now(),
	}
}

// All returns every metric row in the externally observable order:
// state code ascending, then year ascending.
func (s *MetricSet) All() []*StateYearMetric {
	return s.rows
}

// Len returns the number of metric rows.
func (s *MetricSet) Len() int {
	return len(s.rows)
}

// GeneratedAt reports when this set was computed.
func (s *MetricSet) GeneratedAt() time.Time {
	return s.generatedAt
}

// Years returns the ascending distinct years for which at least one row has
// a present expected rate. A year with rows but no computable baseline is
// excluded: there is data, but nothing to benchmark it against.
func (s *MetricSet) Years() []int {
	seen := make(map[int]struct{})
	for _, m := range s.rows {
		if m.ExpectedRate != nil {
			seen[m.Year] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// States returns the ascending distinct state codes across all rows.
func (s *MetricSet) States() []string {
	states := make([]string, 0, len(s.byState))
	for st := range s.byState {
		states = append(states, st)
	}
	sort.Strings(states)
	return states
}

// ForYear returns all rows for the given year, preserving set order.
func (s *MetricSet) ForYear(year int) []*StateYearMetric {
	var out []*StateYearMetric
	for _, m := range s.rows {
		if m.Year == year {
			out = append(out, m)
		}
	}
	return out
}

// Find returns the row for the given state and year, or false if none.
func (s *MetricSet) Find(state string, year int) (*StateYearMetric, bool) {
	for _, m := range s.byState[state] {
		if m.Year == year {
			return m, true
		}
	}
	return nil, false
}
