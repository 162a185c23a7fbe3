package domain

// NationalBaseline maps a year to the nationwide damage rate per 10,000
// transmissions for that year. Computed once per pipeline run and read-only
// afterward. Years whose total volume is not positive have no entry.
type NationalBaseline map[int]float64

// ComputeNationalBaseline sums volume and damages per year across every
// state and derives one nationwide rate per year. The two sums accumulate
// independently: a state present in only one dataset contributes zero to the
// other side rather than excluding the year.
func ComputeNationalBaseline(volumes []VolumeRecord, damages []DamageRecord) NationalBaseline {
	volumeByYear := make(map[int]int)
	damagesByYear := make(map[int]int)
	for _, v := range volumes {
		volumeByYear[v.Year] += v.Volume
	}
	for _, d := range damages {
		damagesByYear[d.Year] += d.Damages
	}

	// Years appearing only in the damage dataset have zero total volume, so
	// their rate is undefined and they get no entry either way.
	nb := make(NationalBaseline, len(volumeByYear))
	for year, totalVolume := range volumeByYear {
		if rate := RatePer10K(damagesByYear[year], totalVolume); rate != nil {
			nb[year] = *rate
		}
	}
	return nb
}
