package entity

import "time"

type TermStatus string

const (
	TermStatusCompleted TermStatus = "completed"
	TermStatusEmpty     TermStatus = "empty"
	TermStatusFailed    TermStatus = "failed"
)

type SaveOutcome string

const (
	OutcomeSaved    SaveOutcome = "saved"
	OutcomeRejected SaveOutcome = "rejected"
	OutcomeFailed   SaveOutcome = "failed"
)

type ImageResult struct {
	Index   int
	URL     string
	Path    string
	Outcome SaveOutcome
	Err     error
}

// TermReport summarises one term's pipeline.
type TermReport struct {
	Term     string
	Dir      string
	Harvest  HarvestResult
	Images   []ImageResult
	Err      error
	Duration time.Duration
}

func (r *TermReport) Count(outcome SaveOutcome) int {
	n := 0
	for _, img := range r.Images {
		if img.Outcome == outcome {
			n++
		}
	}
	return n
}

func (r *TermReport) Status() TermStatus {
	switch {
	case r.Err != nil:
		return TermStatusFailed
	case r.Count(OutcomeSaved) == 0:
		return TermStatusEmpty
	default:
		return TermStatusCompleted
	}
}
