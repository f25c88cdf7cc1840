package db

import (
	"database/sql"
	"errors"

	"github.com/campus-geo/wifi-locate/internal/locate"
)

// RecordPosition appends a locate outcome to the position history. Failed
// outcomes are stored too so the history reflects every processed frame.
func (db *DB) RecordPosition(result locate.PositionResult) error {
	success := 0
	if result.Success {
		success = 1
	}
	_, err := db.Exec(`INSERT INTO positions
		(success, lat, lon, room, floor, location, method, confidence, matched_aps, error, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		success, result.Lat, result.Lon, result.Room, result.Floor, result.Location,
		result.Method, result.Confidence, result.MatchedAPs, result.Error, result.Timestamp)
	return err
}

// LastPosition returns the most recent recorded outcome, or nil when the
// history is empty.
func (db *DB) LastPosition() (*locate.PositionResult, error) {
	row := db.QueryRow(`SELECT success, lat, lon, room, floor, location, method, confidence, matched_aps, error, timestamp
		FROM positions ORDER BY id DESC LIMIT 1`)

	result, err := scanPosition(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecentPositions returns up to limit outcomes, newest first.
func (db *DB) RecentPositions(limit int) ([]locate.PositionResult, error) {
	rows, err := db.Query(`SELECT success, lat, lon, room, floor, location, method, confidence, matched_aps, error, timestamp
		FROM positions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []locate.PositionResult
	for rows.Next() {
		result, err := scanPosition(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func scanPosition(scan func(dest ...interface{}) error) (*locate.PositionResult, error) {
	var result locate.PositionResult
	var success int
	if err := scan(&success, &result.Lat, &result.Lon, &result.Room, &result.Floor,
		&result.Location, &result.Method, &result.Confidence, &result.MatchedAPs,
		&result.Error, &result.Timestamp); err != nil {
		return nil, err
	}
	result.Success = success != 0
	return &result, nil
}
