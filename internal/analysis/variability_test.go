package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// repetitiveProfile builds a profile with zero variation: one message, one
// caller, every attempt in the same hour of the same weekday.
func repetitiveProfile(attempts int) *NumberProfile {
	p := &NumberProfile{
		PhoneNumber:   "5551234567",
		MessageCounts: map[string]int{"m1": attempts},
		CallerCounts:  map[string]int{"c1": attempts},
		AccountCounts: map[string]int{"a1": attempts},
		TotalAttempts: attempts,
	}
	p.HourCounts[9] = attempts
	p.DayOfWeekCounts[2] = attempts
	p.BackToBackIdenticalCount = attempts - 1
	return p
}

func TestVariabilityScore_SingleAttemptIsNeutral(t *testing.T) {
	p := repetitiveProfile(1)
	p.BackToBackIdenticalCount = 0
	assert.Equal(t, neutralVariabilityScore, VariabilityScore(p))
}

func TestVariabilityScore_NoVariationScoresZero(t *testing.T) {
	// All diversity terms collapse: top shares are 1, entropies are 0, and
	// every attempt repeats the previous message.
	assert.Equal(t, 0, VariabilityScore(repetitiveProfile(10)))
}

func TestVariabilityScore_HighDiversityScoresHigh(t *testing.T) {
	p := &NumberProfile{
		PhoneNumber:   "5551234567",
		TotalAttempts: 24,
		MessageCounts: map[string]int{},
		CallerCounts:  map[string]int{},
		AccountCounts: map[string]int{},
	}
	for i := 0; i < 24; i++ {
		p.MessageCounts[fmt.Sprintf("msg-%d", i%12)]++
		p.CallerCounts[fmt.Sprintf("caller-%d", i%7)]++
		p.HourCounts[i] = 1
		p.DayOfWeekCounts[i%7]++
	}

	score := VariabilityScore(p)
	assert.GreaterOrEqual(t, score, 85, "maximal diversity should land near the top of the scale")
	assert.LessOrEqual(t, score, 100)
}

func TestVariabilityScore_AlwaysInBounds(t *testing.T) {
	cases := []*NumberProfile{
		repetitiveProfile(2),
		repetitiveProfile(100),
		{
			PhoneNumber:   "5550000001",
			TotalAttempts: 3,
			MessageCounts: map[string]int{"a": 1, "b": 1, "c": 1},
			CallerCounts:  map[string]int{"x": 3},
			AccountCounts: map[string]int{},
		},
	}
	for _, p := range cases {
		score := VariabilityScore(p)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestShannonEntropy(t *testing.T) {
	assert.Equal(t, 0.0, shannonEntropy([]int{}))
	assert.Equal(t, 0.0, shannonEntropy([]int{0, 0, 0}))
	assert.Equal(t, 0.0, shannonEntropy([]int{5}), "a single outcome has zero entropy")
	assert.InDelta(t, 1.0, shannonEntropy([]int{3, 3}), 1e-9, "a fair two-way split is one bit")
	assert.InDelta(t, 2.0, shannonEntropy([]int{1, 1, 1, 1}), 1e-9)
}
