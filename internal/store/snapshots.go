package store

import (
	"database/sql"
	"time"
)

// CreateSnapshot inserts a new snapshot and returns its ID.
func (db *DB) CreateSnapshot(source, campaignID, version string) (int64, error) {
	result, err := db.conn.Exec(
		"INSERT INTO snapshots (taken_at, source, campaign_id, version) VALUES (?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), source, campaignID, version,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetLatestSnapshot returns the most recent snapshot, or nil if none exist.
func (db *DB) GetLatestSnapshot() (*Snapshot, error) {
	row := db.conn.QueryRow("SELECT id, taken_at, source, campaign_id, version FROM snapshots ORDER BY id DESC LIMIT 1")
	return scanSnapshot(row)
}

// GetSnapshot returns a snapshot by ID.
func (db *DB) GetSnapshot(id int64) (*Snapshot, error) {
	row := db.conn.QueryRow("SELECT id, taken_at, source, campaign_id, version FROM snapshots WHERE id = ?", id)
	return scanSnapshot(row)
}

// GetSnapshotN returns the Nth most recent snapshot (1 = latest, 2 = previous, etc.).
func (db *DB) GetSnapshotN(n int) (*Snapshot, error) {
	row := db.conn.QueryRow(
		"SELECT id, taken_at, source, campaign_id, version FROM snapshots ORDER BY id DESC LIMIT 1 OFFSET ?",
		n-1,
	)
	return scanSnapshot(row)
}

// ListSnapshots returns the most recent snapshots, newest first.
func (db *DB) ListSnapshots(limit int) ([]Snapshot, error) {
	rows, err := db.conn.Query(
		"SELECT id, taken_at, source, campaign_id, version FROM snapshots ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		var takenAt string
		var campaignID sql.NullString
		if err := rows.Scan(&s.ID, &takenAt, &s.Source, &campaignID, &s.Version); err != nil {
			return nil, err
		}
		s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		s.CampaignID = campaignID.String
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var s Snapshot
	var takenAt string
	var campaignID sql.NullString
	err := row.Scan(&s.ID, &takenAt, &s.Source, &campaignID, &s.Version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	s.CampaignID = campaignID.String
	return &s, nil
}

// InsertAggregateMetric inserts a headline metric for a snapshot.
func (db *DB) InsertAggregateMetric(snapshotID int64, name string, value float64, detail string) error {
	_, err := db.conn.Exec(
		"INSERT INTO aggregate_metrics (snapshot_id, metric_name, metric_value, detail) VALUES (?, ?, ?, ?)",
		snapshotID, name, value, detail,
	)
	return err
}

// GetAggregateMetrics returns all headline metrics for a snapshot.
func (db *DB) GetAggregateMetrics(snapshotID int64) ([]AggregateMetric, error) {
	rows, err := db.conn.Query(
		"SELECT id, snapshot_id, metric_name, metric_value, detail FROM aggregate_metrics WHERE snapshot_id = ?",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []AggregateMetric
	for rows.Next() {
		var m AggregateMetric
		var detail sql.NullString
		if err := rows.Scan(&m.ID, &m.SnapshotID, &m.MetricName, &m.MetricValue, &detail); err != nil {
			return nil, err
		}
		m.Detail = detail.String
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// InsertNumberHealth inserts a phone number's health record for a snapshot.
func (db *DB) InsertNumberHealth(nh *NumberHealthRow) error {
	_, err := db.conn.Exec(
		`INSERT INTO number_health
		(snapshot_id, phone_number, total_attempts, success_count, unsuccessful_count,
		 success_rate, consecutive_failures, health, variability_score, last_success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nh.SnapshotID, nh.PhoneNumber, nh.TotalAttempts, nh.SuccessCount,
		nh.UnsuccessfulCount, nh.SuccessRate, nh.ConsecutiveFailures, nh.Health,
		nh.VariabilityScore, nh.LastSuccess,
	)
	return err
}

// GetNumberHealth returns all number health rows for a snapshot.
func (db *DB) GetNumberHealth(snapshotID int64) ([]NumberHealthRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, snapshot_id, phone_number, total_attempts, success_count,
		 unsuccessful_count, success_rate, consecutive_failures, health,
		 variability_score, last_success
		 FROM number_health WHERE snapshot_id = ? ORDER BY phone_number`,
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []NumberHealthRow
	for rows.Next() {
		var nh NumberHealthRow
		var lastSuccess sql.NullString
		if err := rows.Scan(
			&nh.ID, &nh.SnapshotID, &nh.PhoneNumber, &nh.TotalAttempts,
			&nh.SuccessCount, &nh.UnsuccessfulCount, &nh.SuccessRate,
			&nh.ConsecutiveFailures, &nh.Health, &nh.VariabilityScore, &lastSuccess,
		); err != nil {
			return nil, err
		}
		nh.LastSuccess = lastSuccess.String
		records = append(records, nh)
	}
	return records, rows.Err()
}

// InsertDecayBucket inserts one retry-decay bucket for a snapshot.
func (db *DB) InsertDecayBucket(b *DecayBucketRow) error {
	_, err := db.conn.Exec(
		`INSERT INTO decay_buckets (snapshot_id, attempt_index, total, successful, probability)
		 VALUES (?, ?, ?, ?, ?)`,
		b.SnapshotID, b.AttemptIndex, b.Total, b.Successful, b.Probability,
	)
	return err
}

// InsertFlaggedRun inserts one qualifying consecutive-failure run.
func (db *DB) InsertFlaggedRun(fr *FlaggedRunRow) error {
	_, err := db.conn.Exec(
		`INSERT INTO flagged_runs
		(snapshot_id, phone_number, length, span_days, start_at, end_at, open, health)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		fr.SnapshotID, fr.PhoneNumber, fr.Length, fr.SpanDays, fr.StartAt,
		fr.EndAt, fr.Open, fr.Health,
	)
	return err
}

// lowerIsBetter marks metrics where a decrease is an improvement; everything
// else improves when it increases.
var lowerIsBetter = map[string]bool{
	"toxic_count":           true,
	"degrading_count":       true,
	"never_delivered_count": true,
	"rejected_rows":         true,
}

// LowerIsBetter reports whether a decrease in the named metric is an
// improvement.
func LowerIsBetter(name string) bool {
	return lowerIsBetter[name]
}

// DiffSnapshots compares the headline metrics of two snapshots.
func (db *DB) DiffSnapshots(previousID, currentID int64) (*SnapshotDiff, error) {
	previous, err := db.GetSnapshot(previousID)
	if err != nil {
		return nil, err
	}
	current, err := db.GetSnapshot(currentID)
	if err != nil {
		return nil, err
	}

	prevMetrics, err := db.GetAggregateMetrics(previousID)
	if err != nil {
		return nil, err
	}
	currMetrics, err := db.GetAggregateMetrics(currentID)
	if err != nil {
		return nil, err
	}

	prevByName := make(map[string]float64, len(prevMetrics))
	for _, m := range prevMetrics {
		prevByName[m.MetricName] = m.MetricValue
	}

	diff := &SnapshotDiff{Previous: previous, Current: current}
	for _, m := range currMetrics {
		prev, ok := prevByName[m.MetricName]
		if !ok {
			continue
		}
		d := MetricDelta{
			Name:     m.MetricName,
			Previous: prev,
			Current:  m.MetricValue,
			Delta:    m.MetricValue - prev,
		}
		switch {
		case d.Delta == 0:
			d.Direction = "unchanged"
		case (d.Delta > 0) != lowerIsBetter[m.MetricName]:
			d.Direction = "improved"
		default:
			d.Direction = "regressed"
		}
		diff.Deltas = append(diff.Deltas, d)
	}
	return diff, nil
}
