package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means version 0 (fresh database).
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at    TEXT NOT NULL,
			source      TEXT NOT NULL,
			campaign_id TEXT,
			version     TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS aggregate_metrics (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id),
			metric_name  TEXT NOT NULL,
			metric_value REAL NOT NULL,
			detail       TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS number_health (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id          INTEGER NOT NULL REFERENCES snapshots(id),
			phone_number         TEXT NOT NULL,
			total_attempts       INTEGER NOT NULL,
			success_count        INTEGER NOT NULL,
			unsuccessful_count   INTEGER NOT NULL,
			success_rate         REAL NOT NULL,
			consecutive_failures INTEGER NOT NULL,
			health               TEXT NOT NULL,
			variability_score    INTEGER NOT NULL,
			last_success         TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS decay_buckets (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id   INTEGER NOT NULL REFERENCES snapshots(id),
			attempt_index INTEGER NOT NULL,
			total         INTEGER NOT NULL,
			successful    INTEGER NOT NULL,
			probability   REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS flagged_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id),
			phone_number TEXT NOT NULL,
			length       INTEGER NOT NULL,
			span_days    INTEGER NOT NULL,
			start_at     TEXT NOT NULL,
			end_at       TEXT NOT NULL,
			open         BOOLEAN NOT NULL DEFAULT false,
			health       TEXT NOT NULL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_aggregate_snapshot ON aggregate_metrics(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_number_health_snapshot ON number_health(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_number_health_phone ON number_health(phone_number)`,
		`CREATE INDEX IF NOT EXISTS idx_decay_snapshot ON decay_buckets(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_flagged_runs_snapshot ON flagged_runs(snapshot_id)`,
		`CREATE INDEX IF NOT EXISTS idx_flagged_runs_phone ON flagged_runs(phone_number)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
