package model

import "time"

// OutcomeStatus is the terminal state of one media item.
type OutcomeStatus string

const (
	OutcomeDescribed OutcomeStatus = "described"
	OutcomeCached    OutcomeStatus = "cached"
	OutcomeMissing   OutcomeStatus = "missing"
	OutcomeOversize  OutcomeStatus = "oversize"
	OutcomeFailed    OutcomeStatus = "failed"
)

// Outcome records what happened to a single media item, for statistics
// and reporting alongside the enhanced transcript.
type Outcome struct {
	Ordinal  int
	Filename string
	Status   OutcomeStatus
	Provider string // provider that produced the result, empty if none
	Cost     float64
	ErrorKind string
	Error    string
	Duration time.Duration
}

// Stats aggregates a full processing run.
type Stats struct {
	TotalMessages  int
	MediaMessages  int
	ProcessedMedia int
	CachedMedia    int
	FailedMedia    int
	MissingMedia   int
	EstimatedCost  float64
	ProcessingTime time.Duration
}

// SuccessRate returns the share of media items that produced a result,
// as a percentage. Returns 0 for runs with no media.
func (s *Stats) SuccessRate() float64 {
	if s.MediaMessages == 0 {
		return 0
	}
	return float64(s.ProcessedMedia+s.CachedMedia) / float64(s.MediaMessages) * 100
}
