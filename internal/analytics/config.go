package analytics

// Config holds every threshold the aggregator's heuristics depend on. The
// cutoffs are empirically chosen, not derived from a formal model, so they
// are configuration rather than constants.
type Config struct {
	// Time-distribution band edges, in seconds per question.
	QuickTimeSeconds   float64 `json:"quick_time_seconds"`
	LengthyTimeSeconds float64 `json:"lengthy_time_seconds"`

	// Confidence buckets: a quick answer lands within this window of the
	// first visit with no later revision; long deliberation exceeds this
	// multiple of the average time-to-answer; multiple revisions means at
	// least this many answer changes.
	QuickAnswerWindowSeconds float64 `json:"quick_answer_window_seconds"`
	DeliberationMultiple     float64 `json:"deliberation_multiple"`
	RevisionThreshold        int     `json:"revision_threshold"`

	// Error-pattern attribution: careless when a wrong answer took less
	// than CarelessFraction of the subject average, time_management when
	// it took more than TimeManagementMultiple times the subject average.
	CarelessFraction       float64 `json:"careless_fraction"`
	TimeManagementMultiple float64 `json:"time_management_multiple"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		QuickTimeSeconds:         30,
		LengthyTimeSeconds:       120,
		QuickAnswerWindowSeconds: 15,
		DeliberationMultiple:     2.0,
		RevisionThreshold:        2,
		CarelessFraction:         1.0 / 3.0,
		TimeManagementMultiple:   2.0,
	}
}
