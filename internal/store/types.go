// Package store provides SQLite access for dropscope analysis snapshots.
package store

import "time"

// Snapshot represents one stored analysis run.
type Snapshot struct {
	ID         int64     `json:"id"`
	TakenAt    time.Time `json:"taken_at"`
	Source     string    `json:"source"` // "csv" or "api"
	CampaignID string    `json:"campaign_id,omitempty"`
	Version    string    `json:"version"`
}

// AggregateMetric is a named headline metric within a snapshot.
type AggregateMetric struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Detail      string  `json:"detail,omitempty"`
}

// NumberHealthRow is one phone number's health record within a snapshot.
type NumberHealthRow struct {
	ID                  int64   `json:"id"`
	SnapshotID          int64   `json:"snapshot_id"`
	PhoneNumber         string  `json:"phone_number"`
	TotalAttempts       int     `json:"total_attempts"`
	SuccessCount        int     `json:"success_count"`
	UnsuccessfulCount   int     `json:"unsuccessful_count"`
	SuccessRate         float64 `json:"success_rate"`
	ConsecutiveFailures int     `json:"consecutive_failures"`
	Health              string  `json:"health"`
	VariabilityScore    int     `json:"variability_score"`
	LastSuccess         string  `json:"last_success,omitempty"`
}

// DecayBucketRow is one retry-decay bucket within a snapshot.
type DecayBucketRow struct {
	ID           int64   `json:"id"`
	SnapshotID   int64   `json:"snapshot_id"`
	AttemptIndex int     `json:"attempt_index"`
	Total        int     `json:"total"`
	Successful   int     `json:"successful"`
	Probability  float64 `json:"probability"`
}

// FlaggedRunRow is one qualifying consecutive-failure run within a snapshot.
type FlaggedRunRow struct {
	ID          int64  `json:"id"`
	SnapshotID  int64  `json:"snapshot_id"`
	PhoneNumber string `json:"phone_number"`
	Length      int    `json:"length"`
	SpanDays    int    `json:"span_days"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
	Open        bool   `json:"open"`
	Health      string `json:"health"`
}

// MetricDelta represents the change in a single metric between snapshots.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // "improved", "regressed", "unchanged"
}

// SnapshotDiff represents the comparison between two snapshots.
type SnapshotDiff struct {
	Previous *Snapshot     `json:"previous"`
	Current  *Snapshot     `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}
