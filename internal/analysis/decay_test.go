package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDecayCurve_FixedShape(t *testing.T) {
	curve := buildDecayCurve(map[string]*NumberProfile{})
	require.Len(t, curve, decayBucketCount)
	for i, b := range curve {
		assert.Equal(t, i+1, b.AttemptIndex)
		assert.Zero(t, b.Total)
		assert.Zero(t, b.Probability)
	}
}

func TestBuildDecayCurve_TotalConservation(t *testing.T) {
	var attempts []Attempt
	totalDeliveryAttempts := 0
	for n := 0; n < 5; n++ {
		phone := fmt.Sprintf("55512345%02d", n)
		for day := 1; day <= 15; day++ {
			cat := UnsuccessfulAttempt
			if (day+n)%4 == 0 {
				cat = Success
			}
			attempts = append(attempts, attempt(phone, day, cat, "m1"))
			totalDeliveryAttempts++
		}
	}
	sortAttempts(attempts)
	curve := buildDecayCurve(buildProfiles(attempts, nil))

	sum := 0
	for _, b := range curve {
		sum += b.Total
	}
	assert.Equal(t, totalDeliveryAttempts, sum,
		"every delivery attempt lands in exactly one bucket")
}

func TestBuildDecayCurve_BucketsByRecordedIndex(t *testing.T) {
	// Two failures then a success: the success happened at attempt index 3,
	// so bucket 3 carries probability 1 and buckets 1-2 carry 0.
	attempts := []Attempt{
		attempt("5551234567", 1, UnsuccessfulAttempt, "m1"),
		attempt("5551234567", 2, UnsuccessfulAttempt, "m1"),
		attempt("5551234567", 3, Success, "m1"),
	}
	curve := buildDecayCurve(buildProfiles(attempts, nil))

	assert.Equal(t, 1, curve[0].Total)
	assert.Equal(t, 0.0, curve[0].Probability)
	assert.Equal(t, 1, curve[2].Total)
	assert.Equal(t, 1.0, curve[2].Probability)
}

func TestBuildDecayCurve_CapsAtFinalBucket(t *testing.T) {
	var attempts []Attempt
	for day := 1; day <= 14; day++ {
		attempts = append(attempts, attempt("5551234567", day, UnsuccessfulAttempt, "m1"))
	}
	curve := buildDecayCurve(buildProfiles(attempts, nil))

	// Indexes 10 through 14 all fold into the "10+" bucket.
	assert.Equal(t, 5, curve[decayBucketCount-1].Total)
}
