package model

// TimedEvent places a value on the beat grid. Measure is 1-based, Beat is
// the offset from the start of the measure (0-based), Duration is in beats.
type TimedEvent struct {
	Measure  int     `json:"measure"`
	Beat     float64 `json:"beat"`
	Duration float64 `json:"duration"`
	Value    string  `json:"value"`
}
