package analysis

import "sort"

// dayUsageShare is the fraction of an entity's attempts a weekday must carry
// to count as "used" by the limited-day-usage detector.
const dayUsageShare = 0.10

// diversifyRecommendation is attached to entities flagged for limited
// day-of-week usage.
const diversifyRecommendation = "attempts are concentrated on two or fewer weekdays; spread sends across more days of the week"

// buildTimeRollups sums delivery-attempt outcomes into the 24-hour and
// 7-day global tables.
func buildTimeRollups(profiles map[string]*NumberProfile) (hourly [24]TimeBucket, daily [7]TimeBucket) {
	for i := range hourly {
		hourly[i].Bucket = i
	}
	for i := range daily {
		daily[i].Bucket = i
	}

	for _, p := range profiles {
		for _, a := range p.Attempts {
			h := &hourly[a.HourOfDay]
			d := &daily[a.DayOfWeek]
			h.Total++
			d.Total++
			if a.Category == Success {
				h.Successful++
				d.Successful++
			} else {
				h.Unsuccessful++
				d.Unsuccessful++
			}
		}
	}

	for i := range hourly {
		if hourly[i].Total > 0 {
			hourly[i].SuccessRate = float64(hourly[i].Successful) / float64(hourly[i].Total)
		}
	}
	for i := range daily {
		if daily[i].Total > 0 {
			daily[i].SuccessRate = float64(daily[i].Successful) / float64(daily[i].Total)
		}
	}
	return hourly, daily
}

// entityKey extracts the rollup key from an attempt.
type entityKey func(Attempt) string

// buildEntityStats folds every delivery attempt into per-entity buckets,
// tracking unique phone numbers as set cardinality, and applies the
// limited-day-usage detector to each bucket.
func buildEntityStats(profiles map[string]*NumberProfile, key entityKey, displayName func(string) string) []EntityStats {
	type acc struct {
		stats  EntityStats
		phones map[string]struct{}
	}
	buckets := make(map[string]*acc)

	for _, phone := range sortedPhoneNumbers(profiles) {
		for _, a := range profiles[phone].Attempts {
			id := orUnknown(key(a))
			b, ok := buckets[id]
			if !ok {
				b = &acc{
					stats:  EntityStats{ID: id, DisplayName: displayName(id)},
					phones: make(map[string]struct{}),
				}
				buckets[id] = b
			}
			b.stats.Total++
			if a.Category == Success {
				b.stats.Successful++
			} else {
				b.stats.Unsuccessful++
			}
			b.stats.DayOfWeekCounts[a.DayOfWeek]++
			b.phones[a.PhoneNumber] = struct{}{}
		}
	}

	stats := make([]EntityStats, 0, len(buckets))
	for _, b := range buckets {
		b.stats.UniquePhoneNumber = len(b.phones)
		if limitedDayUsage(b.stats.DayOfWeekCounts, b.stats.Total) {
			b.stats.LimitedDayUsage = true
			b.stats.Recommendation = diversifyRecommendation
		}
		stats = append(stats, b.stats)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Total != stats[j].Total {
			return stats[i].Total > stats[j].Total
		}
		return stats[i].ID < stats[j].ID
	})
	return stats
}

// limitedDayUsage reports whether an entity concentrates its attempts on at
// most two non-Sunday weekdays. A day counts as used when it carries more
// than dayUsageShare of the entity's total.
func limitedDayUsage(dayCounts [7]int, total int) bool {
	if total == 0 {
		return false
	}
	used := 0
	for day, count := range dayCounts {
		if day == 0 {
			continue // Sunday is excluded from the usage check
		}
		if float64(count) > dayUsageShare*float64(total) {
			used++
		}
	}
	return used <= 2
}

// GradeList assigns the A-D letter grade from whole-list health percentages.
// Inputs are percentages in [0,100].
func GradeList(healthyPct, toxicPct, neverDeliveredPct float64) ListGrade {
	switch {
	case healthyPct >= 80 && toxicPct < 5 && neverDeliveredPct < 10:
		return GradeA
	case healthyPct >= 60 && toxicPct < 10 && neverDeliveredPct < 20:
		return GradeB
	case healthyPct >= 40 && toxicPct < 20:
		return GradeC
	default:
		return GradeD
	}
}
