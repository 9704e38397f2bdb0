package analysis

// decayBucketCount is the fixed number of retry-decay buckets; the last
// bucket folds together every attempt index of 10 or more.
const decayBucketCount = 10

// buildDecayCurve aggregates success probability by attempt index across all
// profiles. Each delivery attempt is bucketed by the AttemptIndex it carried
// at the moment it occurred, capped at the final bucket.
//
// The output always has exactly decayBucketCount ordered buckets, empty ones
// included, so downstream tables and charts have a fixed shape.
func buildDecayCurve(profiles map[string]*NumberProfile) []DecayBucket {
	curve := make([]DecayBucket, decayBucketCount)
	for i := range curve {
		curve[i].AttemptIndex = i + 1
	}

	for _, p := range profiles {
		for _, a := range p.Attempts {
			idx := a.AttemptIndex
			if idx < 1 {
				continue
			}
			if idx > decayBucketCount {
				idx = decayBucketCount
			}
			b := &curve[idx-1]
			b.Total++
			if a.Category == Success {
				b.Successful++
			}
		}
	}

	for i := range curve {
		if curve[i].Total > 0 {
			curve[i].Probability = float64(curve[i].Successful) / float64(curve[i].Total)
		}
	}
	return curve
}
