package domain

// maxLookback is how many of the state's nearest prior years are averaged
// into the expected rate.
const maxLookback = 3

// ExpectedRate derives the benchmark rate for a state at the given year.
//
// Two tiers, strictly ordered:
//
//  1. Any amount of the state's own history — the mean of its actual rates
//     over up to the three nearest years before the target year. One or two
//     prior years are averaged as-is.
//  2. Only when the state has zero prior history: the national baseline for
//     the immediately preceding year. Year−1 specifically; this matches the
//     long-standing published behavior of the benchmark, even though the
//     asymmetry with tier 1 looks like an off-by-one.
//
// Returns nil when neither tier produces a value. The history slice must be
// the state's own metrics in ascending year order; entries at or after the
// target year are skipped, so the estimate can never read future data.
func ExpectedRate(history []*StateYearMetric, year int, nb NationalBaseline) *float64 {
	var sum float64
	var n int
	// Walk backwards so the nearest prior years are taken first.
	for i := len(history) - 1; i >= 0 && n < maxLookback; i-- {
		m := history[i]
		if m.Year >= year || m.ActualRate == nil {
			continue
		}
		sum += *m.ActualRate
		n++
	}
	if n > 0 {
		mean := sum / float64(n)
		return &mean
	}

	if rate, ok := nb[year-1]; ok {
		return &rate
	}
	return nil
}
