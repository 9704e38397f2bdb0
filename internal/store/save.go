package store

import (
	"fmt"
	"time"

	"github.com/dialops/dropscope/internal/analysis"
)

// SaveResult persists one analysis run as a new snapshot and returns its ID.
func (db *DB) SaveResult(result *analysis.Result, source, campaignID, version string) (int64, error) {
	snapshotID, err := db.CreateSnapshot(source, campaignID, version)
	if err != nil {
		return 0, fmt.Errorf("creating snapshot: %w", err)
	}

	metrics := []struct {
		name   string
		value  float64
		detail string
	}{
		{"unique_numbers", float64(result.UniqueNumberCount), ""},
		{"total_attempts", float64(result.TotalAttempts), ""},
		{"healthy_count", float64(result.HealthyCount), ""},
		{"degrading_count", float64(result.DegradingCount), ""},
		{"toxic_count", float64(result.ToxicCount), ""},
		{"never_delivered_count", float64(result.NeverDeliveredCount), ""},
		{"overall_success_rate", result.OverallSuccessRate, ""},
		{"rejected_rows", float64(result.RejectedRows), ""},
		{"list_grade", gradeValue(result.Grade), string(result.Grade)},
	}
	for _, m := range metrics {
		if err := db.InsertAggregateMetric(snapshotID, m.name, m.value, m.detail); err != nil {
			return 0, fmt.Errorf("inserting metric %s: %w", m.name, err)
		}
	}

	for _, n := range result.Numbers {
		nh := &NumberHealthRow{
			SnapshotID:          snapshotID,
			PhoneNumber:         n.PhoneNumber,
			TotalAttempts:       n.TotalAttempts,
			SuccessCount:        n.SuccessCount,
			UnsuccessfulCount:   n.UnsuccessfulCount,
			SuccessRate:         n.SuccessRate,
			ConsecutiveFailures: n.ConsecutiveFailures,
			Health:              string(n.Health),
			VariabilityScore:    n.VariabilityScore,
		}
		if n.LastSuccess != nil {
			nh.LastSuccess = n.LastSuccess.Format(time.RFC3339)
		}
		if err := db.InsertNumberHealth(nh); err != nil {
			return 0, fmt.Errorf("inserting number health: %w", err)
		}
	}

	for _, b := range result.Decay {
		if err := db.InsertDecayBucket(&DecayBucketRow{
			SnapshotID:   snapshotID,
			AttemptIndex: b.AttemptIndex,
			Total:        b.Total,
			Successful:   b.Successful,
			Probability:  b.Probability,
		}); err != nil {
			return 0, fmt.Errorf("inserting decay bucket: %w", err)
		}
	}

	for _, run := range result.Runs {
		if err := db.InsertFlaggedRun(&FlaggedRunRow{
			SnapshotID:  snapshotID,
			PhoneNumber: run.PhoneNumber,
			Length:      run.Length,
			SpanDays:    run.SpanDays,
			StartAt:     run.Start.Format(time.RFC3339),
			EndAt:       run.End.Format(time.RFC3339),
			Open:        run.Open,
			Health:      string(run.Health),
		}); err != nil {
			return 0, fmt.Errorf("inserting flagged run: %w", err)
		}
	}

	return snapshotID, nil
}

// gradeValue maps the letter grade onto a numeric scale so it can be diffed
// like any other metric (higher is better).
func gradeValue(g analysis.ListGrade) float64 {
	switch g {
	case analysis.GradeA:
		return 4
	case analysis.GradeB:
		return 3
	case analysis.GradeC:
		return 2
	default:
		return 1
	}
}
