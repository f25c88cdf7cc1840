// Package db wraps the SQLite store holding fingerprint samples and the
// position history.
package db

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// NewDB opens the database at path and ensures the baseline schema exists.
// Migrations manage everything beyond the baseline.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS fingerprints (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			room              TEXT,
			floor             TEXT,
			location          TEXT,
			lat               REAL,
			lon               REAL,
			mac               TEXT,
			ssid              TEXT,
			rssi              INTEGER,
			timestamp         TEXT
		);
		CREATE TABLE IF NOT EXISTS positions (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			success           INTEGER,
			lat               REAL,
			lon               REAL,
			room              TEXT,
			floor             TEXT,
			location          TEXT,
			method            TEXT,
			confidence        TEXT,
			matched_aps       INTEGER,
			error             TEXT,
			timestamp         TEXT
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenDB opens the database without touching the schema. Migration tooling
// uses this so golang-migrate owns the schema end to end.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite allows one writer; serialize access through a single
	// connection to avoid SQLITE_BUSY under concurrent inserts.
	db.SetMaxOpenConns(1)
	return &DB{db}, nil
}
