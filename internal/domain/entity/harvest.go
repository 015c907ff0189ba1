package entity

// HarvestState is the loop state of one harvest. It is owned by a single
// harvester call and never shared between terms.
type HarvestState struct {
	Collected  []string
	Examined   int
	Failures   int
	DetailOpen bool
}

// Done reports whether the harvest loop must stop given the number of
// thumbnails currently attached to the page.
func (s *HarvestState) Done(target, budget, available int) bool {
	return len(s.Collected) >= target ||
		s.Failures >= budget ||
		s.Examined >= available
}

func (s *HarvestState) Result() HarvestResult {
	urls := make([]string, len(s.Collected))
	copy(urls, s.Collected)
	return HarvestResult{
		URLs:     urls,
		Examined: s.Examined,
		Failures: s.Failures,
	}
}

type HarvestResult struct {
	URLs     []string
	Examined int
	Failures int
}
