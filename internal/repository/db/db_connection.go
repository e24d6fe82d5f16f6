package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// pragmas applied to every connection before the schema is ensured.
var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
}

// InitDB opens/creates a SQLite DB file and ensures the infusion tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// one writer at a time; infusion updates are serialised through this pool
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %q: %w", p, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

const schemaInfusionState = `
CREATE TABLE IF NOT EXISTS infusion_state (
    patient_id TEXT PRIMARY KEY,
    running BOOLEAN NOT NULL,
    rate REAL NOT NULL,
    pending_rate REAL,
    ramp_at TIMESTAMP,
    last_bg INTEGER NOT NULL,
    last_reading_at TIMESTAMP NOT NULL,
    in_target_streak INTEGER NOT NULL DEFAULT 0,
    at_target BOOLEAN NOT NULL DEFAULT 0,
    next_check_at TIMESTAMP NOT NULL,
    started_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaInfusionEvents = `
CREATE TABLE IF NOT EXISTS infusion_events (
    id TEXT PRIMARY KEY,
    patient_id TEXT NOT NULL,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
CREATE INDEX IF NOT EXISTS idx_infusion_events_patient ON infusion_events (patient_id, occurred_at);
`

const schemaBgReadings = `
CREATE TABLE IF NOT EXISTS bg_readings (
    id TEXT PRIMARY KEY,
    patient_id TEXT NOT NULL,
    bg INTEGER NOT NULL CHECK (bg >= 0),
    measured_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_bg_readings_patient ON bg_readings (patient_id, measured_at);
`

const schemaClinicians = `
CREATE TABLE IF NOT EXISTS clinicians (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaInfusionState,
		schemaInfusionEvents,
		schemaBgReadings,
		schemaClinicians,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
