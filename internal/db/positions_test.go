package db

import (
	"fmt"
	"testing"

	"github.com/campus-geo/wifi-locate/internal/locate"
)

func TestRecordAndLastPosition(t *testing.T) {
	database := newTestDB(t)

	last, err := database.LastPosition()
	if err != nil {
		t.Fatalf("LastPosition failed: %v", err)
	}
	if last != nil {
		t.Fatalf("expected nil position on empty history, got %+v", last)
	}

	result := locate.PositionResult{
		Success: true, Lat: 48.845129, Lon: 2.356774,
		Room: "201", Floor: "2", Location: "Salle 201",
		Method: locate.MethodFingerprinting, Confidence: "97%",
		MatchedAPs: 3, Timestamp: "2025-01-20T17:30:00Z",
	}
	if err := database.RecordPosition(result); err != nil {
		t.Fatalf("RecordPosition failed: %v", err)
	}

	last, err = database.LastPosition()
	if err != nil {
		t.Fatalf("LastPosition failed: %v", err)
	}
	if last == nil {
		t.Fatal("expected a position after recording")
	}
	if !last.Success || last.Room != "201" || last.Confidence != "97%" || last.MatchedAPs != 3 {
		t.Errorf("round-trip mismatch: %+v", last)
	}
	if last.Method != locate.MethodFingerprinting {
		t.Errorf("method = %s, want %s", last.Method, locate.MethodFingerprinting)
	}
}

func TestRecordFailedPosition(t *testing.T) {
	database := newTestDB(t)

	result := locate.PositionResult{
		Success: false, Error: "no data", Timestamp: "2025-01-20T17:30:00Z",
	}
	if err := database.RecordPosition(result); err != nil {
		t.Fatalf("RecordPosition failed: %v", err)
	}

	last, err := database.LastPosition()
	if err != nil {
		t.Fatalf("LastPosition failed: %v", err)
	}
	if last == nil || last.Success {
		t.Fatalf("expected stored failure, got %+v", last)
	}
	if last.Error != "no data" {
		t.Errorf("error = %q, want 'no data'", last.Error)
	}
}

func TestRecentPositionsNewestFirst(t *testing.T) {
	database := newTestDB(t)

	for i := 0; i < 5; i++ {
		result := locate.PositionResult{
			Success: true, Room: fmt.Sprintf("room-%d", i),
			Method: locate.MethodTriangulation, Timestamp: "2025-01-20T17:30:00Z",
		}
		if err := database.RecordPosition(result); err != nil {
			t.Fatalf("RecordPosition failed: %v", err)
		}
	}

	results, err := database.RecentPositions(3)
	if err != nil {
		t.Fatalf("RecentPositions failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Room != "room-4" {
		t.Errorf("first result room = %s, want room-4 (newest first)", results[0].Room)
	}
	if results[2].Room != "room-2" {
		t.Errorf("last result room = %s, want room-2", results[2].Room)
	}
}
