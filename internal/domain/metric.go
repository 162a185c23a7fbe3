package domain

// ResidualStats bundles the three residual outputs that pass or fail the
// materiality gate together. Modeled as one optional composite so the
// all-or-nothing invariant is structural: either every field is present or
// the whole value is absent.
type ResidualStats struct {
	// ExpectedDamages is volume × expected rate / RateScale, in damage counts.
	ExpectedDamages float64 `json:"expected_damages"`
	// Residual is actual damages minus expected damages.
	Residual float64 `json:"residual"`
	// ResidualPct is Residual divided by ExpectedDamages.
	ResidualPct float64 `json:"residual_pct"`
}

// StateYearMetric is one benchmarked (state, year) row. Created during the
// pipeline's join pass, filled in during the expected-rate pass, and
// immutable once the pipeline hands the set out.
//
// ActualRate is nil only in theory — rows with non-positive volume never
// enter the output. ExpectedRate is nil when the state has no usable history
// and no national baseline exists for the prior year. Residuals is nil
// whenever ExpectedRate is nil, when expected damages are not positive, or
// when the residual fails the materiality gate.
type StateYearMetric struct {
	State        string         `json:"state"`
	Year         int            `json:"year"`
	Volume       int            `json:"volume"`
	Damages      int            `json:"damages"`
	ActualRate   *float64       `json:"actual_rate,omitempty"`
	ExpectedRate *float64       `json:"expected_rate,omitempty"`
	Residuals    *ResidualStats `json:"residuals,omitempty"`
}
