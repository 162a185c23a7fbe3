// Package pipeline joins the volume and damage datasets into the benchmarked
// metric set. The transform is synchronous and pure: no I/O, no shared state,
// no errors — every missing-data case degrades to an absent field.
package pipeline

import (
	"math"
	"sort"

	"github.com/couchcryptid/damage-rate-service/internal/domain"
)

// Transform merges the two record sets keyed by (state, year), computes
// actual rates, derives per-row expected rates from strictly prior years,
// and applies the materiality gate to the residual outputs.
//
// Rows with non-positive volume are dropped entirely, even when a damage
// record exists for the key: without a denominator there is nothing to
// benchmark. Inputs are never mutated. Identical inputs always produce an
// identical output sequence.
//
// threshold is the materiality gate: the minimum |residual %| required
// before the residual triple is reported. Zero reports every residual,
// including an exact zero (the comparison is inclusive).
func Transform(volumes []domain.VolumeRecord, damages []domain.DamageRecord, threshold float64) *domain.MetricSet {
	volumeByKey := make(map[domain.StateYear]int, len(volumes))
	for _, v := range volumes {
		// Last wins on duplicate keys, matching map insertion order.
		volumeByKey[domain.StateYear{State: v.State, Year: v.Year}] = v.Volume
	}
	damagesByKey := make(map[domain.StateYear]int, len(damages))
	for _, d := range damages {
		damagesByKey[domain.StateYear{State: d.State, Year: d.Year}] = d.Damages
	}

	keys := make(map[domain.StateYear]struct{}, len(volumeByKey)+len(damagesByKey))
	for k := range volumeByKey {
		keys[k] = struct{}{}
	}
	for k := range damagesByKey {
		keys[k] = struct{}{}
	}

	baseline := domain.ComputeNationalBaseline(volumes, damages)

	// First pass: resolve the join, compute actual rates, and index rows per
	// state for the estimator.
	rows := make([]*domain.StateYearMetric, 0, len(keys))
	byState := make(map[string][]*domain.StateYearMetric)
	for key := range keys {
		volume := volumeByKey[key]
		if volume <= 0 {
			continue
		}
		m := &domain.StateYearMetric{
			State:      key.State,
			Year:       key.Year,
			Volume:     volume,
			Damages:    damagesByKey[key],
			ActualRate: domain.RatePer10K(damagesByKey[key], volume),
		}
		rows = append(rows, m)
		byState[key.State] = append(byState[key.State], m)
	}

	// The estimator requires each state's series in chronological order.
	for _, series := range byState {
		sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	}

	// Second pass: expected rates from prior years only, then the gate.
	for _, m := range rows {
		m.ExpectedRate = domain.ExpectedRate(byState[m.State], m.Year, baseline)
		m.Residuals = residualStats(m, threshold)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].State != rows[j].State {
			return rows[i].State < rows[j].State
		}
		return rows[i].Year < rows[j].Year
	})

	return domain.NewMetricSet(rows, byState)
}

// residualStats computes the residual triple and applies the materiality
// gate. Returns nil — suppressing all three fields as a unit — when no
// expected rate exists, when expected damages are not positive, or when
// |residual %| falls below the threshold. The comparison is inclusive, so a
// zero threshold reports a zero residual rather than suppressing it.
func residualStats(m *domain.StateYearMetric, threshold float64) *domain.ResidualStats {
	if m.ExpectedRate == nil || m.Volume <= 0 {
		return nil
	}
	expected := float64(m.Volume) * *m.ExpectedRate / domain.RateScale
	if expected <= 0 {
		return nil
	}
	residual := float64(m.Damages) - expected
	pct := residual / expected
	if math.Abs(pct) < threshold {
		return nil
	}
	return &domain.ResidualStats{
		ExpectedDamages: expected,
		Residual:        residual,
		ResidualPct:     pct,
	}
}
