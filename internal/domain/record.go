package domain

// VolumeRecord is one row of the locate-ticket volume dataset: how many
// transmissions a state one-call center processed in a given year.
type VolumeRecord struct {
	State  string `json:"state"`
	Year   int    `json:"year"`
	Volume int    `json:"volume"`
}

// DamageRecord is one row of the reported-damage dataset. Collected
// independently of volume; a (state, year) may appear in either file alone.
type DamageRecord struct {
	State   string `json:"state"`
	Year    int    `json:"year"`
	Damages int    `json:"damages"`
}

// StateYear is the join key across the two datasets. A comparable struct
// rather than a concatenated string, so a state code or year can never
// collide with a delimiter.
type StateYear struct {
	State string
	Year  int
}
