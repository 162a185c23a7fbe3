// Package domain models state-level excavation damage benchmarking data.
//
// # Data Source
//
// The service consumes two independently collected annual datasets, both
// keyed by (state, year):
//
//   - Volume: the number of locate-ticket transmissions a state one-call
//     center processed that year. This is the exposure denominator.
//   - Damages: the number of reported excavation damages to underground
//     facilities that year. This is the incident numerator.
//
// The files are maintained by different reporting programs on different
// schedules, so a (state, year) may appear in either file alone. A missing
// counterpart is treated as zero, never as an error.
//
// # Rate Convention
//
// Rates are expressed as damages per 10,000 transmissions:
//
//	rate = damages / volume × 10,000
//
// A rate is undefined when volume is not positive; undefined rates are
// represented as absent values (nil pointers), never as zero. Zero would
// read as "no damages," which is a different claim.
//
// # Expected-Rate Method
//
// The expected rate for a state at year Y is the arithmetic mean of that
// state's actual rates over up to the three nearest years strictly before Y.
// Partial history (one or two prior years) is averaged as-is, not padded.
// Only when a state has no prior history at all does the estimate fall back
// to the national baseline — and then only for year Y−1, the immediately
// preceding year. No input from year Y or later is ever read, so the
// benchmark cannot leak future data into its own baseline.
//
// # Materiality
//
// The residual outputs (expected damages, residual, residual percentage)
// are suppressed as a unit when |residual %| falls below the configured
// materiality threshold. A suppressed residual is not an error: it means
// actual and expected were too close for the difference to be informative.
// The expected rate itself is always reported when computable.
package domain
