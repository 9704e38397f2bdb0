package analysis

import "math"

// Variability score component weights. They sum to 1.0 so the composite
// stays on a 0-100 scale.
const (
	weightMessageDiversity = 0.30
	weightCallerDiversity  = 0.20
	weightDayEntropy       = 0.25
	weightHourEntropy      = 0.15
	weightNonRepeat        = 0.10

	// neutralVariabilityScore is assigned to numbers with a single delivery
	// attempt: one data point cannot support a diversity measurement.
	neutralVariabilityScore = 50
)

// VariabilityScore computes the 0-100 contact-pattern diversity score for a
// profile. Low scores indicate repetitive, potentially reputation-damaging
// patterns (same message, same caller, same time slot, back to back).
func VariabilityScore(p *NumberProfile) int {
	if p.TotalAttempts <= 1 {
		return neutralVariabilityScore
	}

	total := float64(p.TotalAttempts)

	msgDiversity := (1 - topShare(p.MessageCounts, total)) * 100
	callerDiversity := (1 - topShare(p.CallerCounts, total)) * 100

	dayEntropy := clamp01(shannonEntropy(p.DayOfWeekCounts[:]) / math.Log2(7))
	hourEntropy := clamp01(shannonEntropy(p.HourCounts[:]) / math.Log2(24))

	backToBack := float64(p.BackToBackIdenticalCount) / (total - 1)

	score := msgDiversity*weightMessageDiversity +
		callerDiversity*weightCallerDiversity +
		dayEntropy*100*weightDayEntropy +
		hourEntropy*100*weightHourEntropy +
		(1-backToBack)*100*weightNonRepeat

	return int(math.Round(math.Max(0, math.Min(100, score))))
}

// topShare returns the largest single count divided by total, 0 for an
// empty map.
func topShare(counts map[string]int, total float64) float64 {
	top := 0
	for _, c := range counts {
		if c > top {
			top = c
		}
	}
	if total == 0 {
		return 0
	}
	share := float64(top) / total
	if share > 1 {
		// Entity maps also count non-attempt rows, so the top count can
		// exceed the delivery-attempt total.
		share = 1
	}
	return share
}

// shannonEntropy computes -sum(p*log2(p)) over the nonzero counts, 0 for an
// empty distribution.
func shannonEntropy(counts []int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
