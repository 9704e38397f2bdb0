package analysis

import "math"

// longRunLength is the run length that qualifies regardless of day span:
// rapid-fire failure bursts spanning few days are still alarming.
const longRunLength = 6

// DetectRuns scans a profile's chronological attempts for maximal runs of
// consecutive unsuccessful delivery attempts. A run breaks on any success.
// The single scan emits both interior runs and the trailing still-open run,
// so no separate counter-based check is needed.
//
// A run of at least minLength is retained when it spans at least minSpanDays
// days, or when it reaches longRunLength regardless of span.
func DetectRuns(p *NumberProfile, minLength, minSpanDays int, health HealthLabel) []ConsecutiveRun {
	var runs []ConsecutiveRun

	runStart := -1
	flush := func(end int, open bool) {
		if runStart < 0 {
			return
		}
		length := end - runStart
		if length >= minLength {
			first := p.Attempts[runStart].Timestamp
			last := p.Attempts[end-1].Timestamp
			span := last.Sub(first).Hours() / 24
			if span >= float64(minSpanDays) || length >= longRunLength {
				runs = append(runs, ConsecutiveRun{
					PhoneNumber: p.PhoneNumber,
					Length:      length,
					Start:       first,
					End:         last,
					SpanDays:    int(math.Floor(span)),
					Open:        open,
					Health:      health,
				})
			}
		}
		runStart = -1
	}

	for i, a := range p.Attempts {
		switch a.Category {
		case UnsuccessfulAttempt:
			if runStart < 0 {
				runStart = i
			}
		case Success:
			flush(i, false)
		}
	}
	flush(len(p.Attempts), true)

	return runs
}
