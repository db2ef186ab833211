package srs

// Params defines all configurable parameters for the SRS algorithm.
type Params struct {
	// MinEaseFactor is the floor the ease factor is clamped to after
	// repeated failures. The classic SM-2 value is 1.3.
	MinEaseFactor float64

	// InitialEaseFactor is assigned to freshly added items.
	InitialEaseFactor float64

	// PassThreshold is the lowest quality value treated as a passing
	// review. Qualities below it reset the schedule.
	PassThreshold int

	// FirstInterval and SecondInterval are the fixed intervals (in days)
	// for the first and second passing reviews. Later reviews multiply the
	// previous interval by the ease factor.
	FirstInterval  int
	SecondInterval int

	// FailureInterval is the interval (in days) assigned after a failing
	// review.
	FailureInterval int

	// MatureThresholdDays is the interval at which an item graduates from
	// the learning bucket to the mature bucket.
	MatureThresholdDays int

	// MaxIntervalDays caps interval growth so heavily eased items do not
	// disappear for years.
	MaxIntervalDays int
}

// NewDefaultParams creates a Params instance with standard SM-2 values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:       1.3,
		InitialEaseFactor:   2.5,
		PassThreshold:       3,
		FirstInterval:       1,
		SecondInterval:      6,
		FailureInterval:     1,
		MatureThresholdDays: 21,
		MaxIntervalDays:     365,
	}
}
