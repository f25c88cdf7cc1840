package db

import (
	"fmt"

	"github.com/campus-geo/wifi-locate/internal/fingerprint"
)

// LoadFingerprints returns every stored sample in insertion order. Insertion
// order is what makes zone and directory builds reproducible across restarts.
func (db *DB) LoadFingerprints() ([]fingerprint.Sample, error) {
	rows, err := db.Query(`SELECT room, floor, location, lat, lon, mac, ssid, rssi, timestamp
		FROM fingerprints ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []fingerprint.Sample
	for rows.Next() {
		var s fingerprint.Sample
		if err := rows.Scan(&s.Room, &s.Floor, &s.Location, &s.Lat, &s.Lon,
			&s.APID, &s.SSID, &s.RSSI, &s.Timestamp); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}

// InsertFingerprints stores a batch of samples in one transaction. A scan
// that saw N access points inserts N rows sharing the same position labels.
func (db *DB) InsertFingerprints(samples []fingerprint.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO fingerprints
		(room, floor, location, lat, lon, mac, ssid, rssi, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.Exec(s.Room, s.Floor, s.Location, s.Lat, s.Lon,
			s.APID, s.SSID, s.RSSI, s.Timestamp); err != nil {
			return fmt.Errorf("insert fingerprint for %s: %w", s.APID, err)
		}
	}

	return tx.Commit()
}

// DeleteRoom removes every sample recorded for a room and returns the count.
func (db *DB) DeleteRoom(room string) (int64, error) {
	res, err := db.Exec("DELETE FROM fingerprints WHERE room = ?", room)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteIncomplete drops rows missing the fields the engine depends on.
func (db *DB) DeleteIncomplete() (int64, error) {
	res, err := db.Exec(`DELETE FROM fingerprints
		WHERE floor IS NULL OR lat IS NULL OR lon IS NULL OR rssi IS NULL`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteAll wipes the fingerprint table.
func (db *DB) DeleteAll() (int64, error) {
	res, err := db.Exec("DELETE FROM fingerprints")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FingerprintCount returns the number of stored samples.
func (db *DB) FingerprintCount() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM fingerprints").Scan(&count)
	return count, err
}

type RoomSummary struct {
	Room    string `json:"room"`
	Floor   string `json:"floor"`
	Samples int    `json:"samples"`
	APs     int    `json:"aps"`
}

// RoomSummaries reports per-room sample and distinct-AP counts, ordered by
// floor then room.
func (db *DB) RoomSummaries() ([]RoomSummary, error) {
	rows, err := db.Query(`SELECT room, floor, COUNT(*), COUNT(DISTINCT mac)
		FROM fingerprints GROUP BY room, floor ORDER BY floor, room`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []RoomSummary
	for rows.Next() {
		var s RoomSummary
		if err := rows.Scan(&s.Room, &s.Floor, &s.Samples, &s.APs); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
