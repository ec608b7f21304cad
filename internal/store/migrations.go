package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// CurrentSchemaVersion is the latest schema version.
const CurrentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates the session, event, sample and analysis tables.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id  TEXT PRIMARY KEY,
			user_id     TEXT,
			device_info TEXT,
			started_at  TEXT NOT NULL,
			ended_at    TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS interaction_events (
			id                 INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id         TEXT NOT NULL REFERENCES sessions(session_id),
			seq                INTEGER NOT NULL,
			type               TEXT NOT NULL,
			ts                 INTEGER NOT NULL,
			x                  REAL,
			y                  REAL,
			depth              REAL,
			path               TEXT,
			duration           REAL,
			element            TEXT,
			emotion            TEXT,
			emotion_confidence REAL
		)`,

		`CREATE TABLE IF NOT EXISTS emotion_samples (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(session_id),
			ts         INTEGER NOT NULL,
			emotion    TEXT NOT NULL,
			confidence REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS analyses (
			id               TEXT PRIMARY KEY,
			session_id       TEXT NOT NULL REFERENCES sessions(session_id),
			analyzed_at      TEXT NOT NULL,
			version          TEXT NOT NULL,
			friction_points  INTEGER NOT NULL,
			max_severity     INTEGER NOT NULL,
			dominant_emotion TEXT,
			thresholds       TEXT NOT NULL,
			result           TEXT NOT NULL
		)`,

		// Indexes.
		`CREATE INDEX IF NOT EXISTS idx_events_session_ts ON interaction_events(session_id, ts, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_samples_session_ts ON emotion_samples(session_id, ts)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_session ON analyses(session_id, analyzed_at)`,
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
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", CurrentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}

// SchemaVersion returns the version recorded in the database, 0 for a fresh
// one.
func (db *DB) SchemaVersion() (int, error) {
	version := 0
	err := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return version, err
}
