package srs

// Params defines all configurable parameters for the SRS scheduling
// algorithm. The defaults implement the SM-2 variant used by the review
// flow; every threshold is a parameter so product policy changes (notably
// the leech threshold) do not require code changes.
type Params struct {
	// Core limits
	MinEaseFactor   float64
	MinIntervalDays int
	MaxIntervalDays int

	// FailureEasePenalty is subtracted from the ease factor when a review
	// fails (grade below "good").
	FailureEasePenalty float64

	// FirstIntervalDays is the interval after the first successful review.
	FirstIntervalDays int

	// SecondIntervalDays is the interval after the second consecutive
	// successful review. Later reviews grow by the ease factor.
	SecondIntervalDays int

	// Status ladder thresholds, applied to the resulting repetition count.
	ReviewingThreshold int
	MasteredThreshold  int

	// LeechThreshold suspends a card once its lifetime lapse count reaches
	// this value. Zero disables leech suspension.
	LeechThreshold int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:      1.3,
		MinIntervalDays:    1,
		MaxIntervalDays:    365,
		FailureEasePenalty: 0.2,
		FirstIntervalDays:  1,
		SecondIntervalDays: 6,
		ReviewingThreshold: 3,
		MasteredThreshold:  8,
		LeechThreshold:     8,
	}
}

// ParamsConfig allows overriding the default parameters when creating a
// new Params instance. Zero-valued fields keep their defaults.
type ParamsConfig struct {
	MinEaseFactor      float64
	MinIntervalDays    int
	MaxIntervalDays    int
	FailureEasePenalty float64
	FirstIntervalDays  int
	SecondIntervalDays int
	ReviewingThreshold int
	MasteredThreshold  int

	// LeechThreshold of -1 disables leech suspension entirely.
	LeechThreshold int
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.MinIntervalDays > 0 {
		params.MinIntervalDays = config.MinIntervalDays
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = config.MaxIntervalDays
	}
	if config.FailureEasePenalty > 0 {
		params.FailureEasePenalty = config.FailureEasePenalty
	}
	if config.FirstIntervalDays > 0 {
		params.FirstIntervalDays = config.FirstIntervalDays
	}
	if config.SecondIntervalDays > 0 {
		params.SecondIntervalDays = config.SecondIntervalDays
	}
	if config.ReviewingThreshold > 0 {
		params.ReviewingThreshold = config.ReviewingThreshold
	}
	if config.MasteredThreshold > 0 {
		params.MasteredThreshold = config.MasteredThreshold
	}
	if config.LeechThreshold > 0 {
		params.LeechThreshold = config.LeechThreshold
	} else if config.LeechThreshold < 0 {
		params.LeechThreshold = 0
	}

	return params
}
