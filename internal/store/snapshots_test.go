package store

import (
	"testing"
	"time"

	"github.com/dialops/dropscope/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSnapshotLifecycle(t *testing.T) {
	db := openTestDB(t)

	id1, err := db.CreateSnapshot("csv", "", "test")
	require.NoError(t, err)
	id2, err := db.CreateSnapshot("api", "c-1", "test")
	require.NoError(t, err)
	require.Greater(t, id2, id1)

	latest, err := db.GetLatestSnapshot()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, id2, latest.ID)
	assert.Equal(t, "api", latest.Source)
	assert.Equal(t, "c-1", latest.CampaignID)

	second, err := db.GetSnapshotN(2)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, id1, second.ID)

	all, err := db.ListSnapshots(10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, id2, all[0].ID, "newest first")
}

func TestGetLatestSnapshot_EmptyDB(t *testing.T) {
	db := openTestDB(t)

	snap, err := db.GetLatestSnapshot()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestDiffSnapshots(t *testing.T) {
	db := openTestDB(t)

	prev, err := db.CreateSnapshot("csv", "", "test")
	require.NoError(t, err)
	curr, err := db.CreateSnapshot("csv", "", "test")
	require.NoError(t, err)

	require.NoError(t, db.InsertAggregateMetric(prev, "healthy_count", 50, ""))
	require.NoError(t, db.InsertAggregateMetric(prev, "toxic_count", 10, ""))
	require.NoError(t, db.InsertAggregateMetric(prev, "overall_success_rate", 0.4, ""))
	require.NoError(t, db.InsertAggregateMetric(curr, "healthy_count", 60, ""))
	require.NoError(t, db.InsertAggregateMetric(curr, "toxic_count", 4, ""))
	require.NoError(t, db.InsertAggregateMetric(curr, "overall_success_rate", 0.4, ""))

	diff, err := db.DiffSnapshots(prev, curr)
	require.NoError(t, err)
	require.Len(t, diff.Deltas, 3)

	byName := make(map[string]MetricDelta)
	for _, d := range diff.Deltas {
		byName[d.Name] = d
	}

	assert.Equal(t, "improved", byName["healthy_count"].Direction)
	assert.Equal(t, 10.0, byName["healthy_count"].Delta)
	assert.Equal(t, "improved", byName["toxic_count"].Direction, "fewer toxic numbers is an improvement")
	assert.Equal(t, "unchanged", byName["overall_success_rate"].Direction)
}

func TestSaveResult_RoundTrip(t *testing.T) {
	db := openTestDB(t)

	last := time.Date(2025, 1, 4, 10, 0, 0, 0, time.UTC)
	result := &analysis.Result{
		Numbers: []analysis.NumberSummary{
			{
				PhoneNumber:       "5551234567",
				TotalAttempts:     5,
				SuccessCount:      1,
				UnsuccessfulCount: 4,
				SuccessRate:       0.2,
				Health:            analysis.Healthy,
				VariabilityScore:  42,
				LastSuccess:       &last,
			},
		},
		Decay: []analysis.DecayBucket{
			{AttemptIndex: 1, Total: 3, Successful: 1, Probability: 1.0 / 3.0},
		},
		Runs: []analysis.ConsecutiveRun{
			{PhoneNumber: "5551234567", Length: 3, SpanDays: 2,
				Start: last.AddDate(0, 0, -3), End: last.AddDate(0, 0, -1),
				Health: analysis.Healthy},
		},
		Grade:              analysis.GradeB,
		HealthyCount:       1,
		UniqueNumberCount:  1,
		TotalAttempts:      5,
		OverallSuccessRate: 0.2,
	}

	snapshotID, err := db.SaveResult(result, "csv", "", "test")
	require.NoError(t, err)

	numbers, err := db.GetNumberHealth(snapshotID)
	require.NoError(t, err)
	require.Len(t, numbers, 1)
	assert.Equal(t, "5551234567", numbers[0].PhoneNumber)
	assert.Equal(t, "healthy", numbers[0].Health)
	assert.Equal(t, 42, numbers[0].VariabilityScore)
	assert.Equal(t, last.Format(time.RFC3339), numbers[0].LastSuccess)

	metrics, err := db.GetAggregateMetrics(snapshotID)
	require.NoError(t, err)

	byName := make(map[string]AggregateMetric)
	for _, m := range metrics {
		byName[m.MetricName] = m
	}
	assert.Equal(t, 1.0, byName["healthy_count"].MetricValue)
	assert.Equal(t, 3.0, byName["list_grade"].MetricValue)
	assert.Equal(t, "B", byName["list_grade"].Detail)
}
