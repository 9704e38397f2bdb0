package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyHealth_RulePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		rate   float64
		consec int
		total  int
		recent bool
		want   HealthLabel
	}{
		// Rule 1 fires before rule 4 even though both match.
		{name: "low rate with failures is toxic", rate: 0.05, consec: 5, total: 10, recent: false, want: Toxic},
		{name: "six consecutive failures is toxic", rate: 0.5, consec: 6, total: 12, recent: true, want: Toxic},
		{name: "five attempts zero success is toxic", rate: 0, consec: 1, total: 5, recent: false, want: Toxic},
		{name: "low rate two failures is degrading", rate: 0.24, consec: 2, total: 25, recent: true, want: Degrading},
		{name: "stale low rate is degrading", rate: 0.19, consec: 0, total: 100, recent: false, want: Degrading},
		{name: "stale low rate with recent success stays healthy", rate: 0.19, consec: 0, total: 100, recent: true, want: Healthy},
		{name: "three consecutive failures is degrading", rate: 0.6, consec: 3, total: 10, recent: true, want: Degrading},
		{name: "good number is healthy", rate: 0.9, consec: 0, total: 10, recent: true, want: Healthy},
		{name: "rate at 0.20 boundary not stale-degrading", rate: 0.20, consec: 1, total: 5, recent: false, want: Healthy},
		{name: "four attempts zero success not yet toxic", rate: 0, consec: 3, total: 4, recent: false, want: Degrading},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyHealth(tt.rate, tt.consec, tt.total, tt.recent)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyHealth_Deterministic(t *testing.T) {
	first := ClassifyHealth(0.05, 5, 10, false)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ClassifyHealth(0.05, 5, 10, false))
	}
}

func TestHasRecentSuccess(t *testing.T) {
	max := time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC)

	assert.True(t, hasRecentSuccess(max.AddDate(0, 0, -13), max, 14))
	assert.True(t, hasRecentSuccess(max.AddDate(0, 0, -14), max, 14), "window boundary is inclusive")
	assert.False(t, hasRecentSuccess(max.AddDate(0, 0, -15), max, 14))
	assert.False(t, hasRecentSuccess(time.Time{}, max, 14), "never-succeeded is never recent")
}
