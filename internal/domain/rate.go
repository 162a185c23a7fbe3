package domain

// RateScale is the exposure unit for damage rates: damages per 10,000
// locate-ticket transmissions.
const RateScale = 10000

// RatePer10K computes the damage rate for one (state, year). Returns nil
// when volume is not positive — the rate is undefined without a denominator.
// Absence is the only failure signal; this never panics or errors.
func RatePer10K(damages, volume int) *float64 {
	if volume <= 0 {
		return nil
	}
	rate := float64(damages) / float64(volume) * RateScale
	return &rate
}
