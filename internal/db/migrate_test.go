package db

import (
	"path/filepath"
	"testing"
)

const testMigrationsDir = "../../migrations"

func TestMigrateUpAndDown(t *testing.T) {
	database, err := OpenDB(filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer database.Close()

	version, dirty, err := database.MigrateVersion(testMigrationsDir)
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	if version != 0 || dirty {
		t.Fatalf("fresh database version = %d (dirty %v), want 0 clean", version, dirty)
	}

	if err := database.MigrateUp(testMigrationsDir); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}

	version, dirty, err = database.MigrateVersion(testMigrationsDir)
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	latest, err := GetLatestMigrationVersion(testMigrationsDir)
	if err != nil {
		t.Fatalf("GetLatestMigrationVersion failed: %v", err)
	}
	if version != latest || dirty {
		t.Errorf("version = %d (dirty %v), want %d clean", version, dirty, latest)
	}

	// Migrated schema must accept the workload.
	if _, err := database.Exec(`INSERT INTO fingerprints (room, floor, mac, rssi) VALUES ('201', '2', 'aa:bb:cc:dd:ee:01', -60)`); err != nil {
		t.Errorf("insert into migrated fingerprints failed: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO positions (success, room, method) VALUES (1, '201', 'Fingerprinting')`); err != nil {
		t.Errorf("insert into migrated positions failed: %v", err)
	}

	// Rolling back one step drops the positions table only.
	if err := database.MigrateDown(testMigrationsDir); err != nil {
		t.Fatalf("MigrateDown failed: %v", err)
	}
	if _, err := database.Exec(`INSERT INTO positions (success) VALUES (1)`); err == nil {
		t.Error("positions table should be gone after rollback")
	}
	if _, err := database.Exec(`INSERT INTO fingerprints (room, floor, mac, rssi) VALUES ('203', '2', 'aa:bb:cc:dd:ee:02', -70)`); err != nil {
		t.Errorf("fingerprints table should survive rollback: %v", err)
	}
}

func TestMigrateUpIdempotent(t *testing.T) {
	database, err := OpenDB(filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer database.Close()

	if err := database.MigrateUp(testMigrationsDir); err != nil {
		t.Fatalf("first MigrateUp failed: %v", err)
	}
	if err := database.MigrateUp(testMigrationsDir); err != nil {
		t.Fatalf("second MigrateUp should be a no-op, got %v", err)
	}
}

func TestGetLatestMigrationVersion(t *testing.T) {
	latest, err := GetLatestMigrationVersion(testMigrationsDir)
	if err != nil {
		t.Fatalf("GetLatestMigrationVersion failed: %v", err)
	}
	if latest < 2 {
		t.Errorf("latest version = %d, want at least 2", latest)
	}

	if _, err := GetLatestMigrationVersion(t.TempDir()); err == nil {
		t.Error("expected error for directory without migrations")
	}
}
