// Package locate implements the positioning engine: RSSI fingerprint
// matching against the reference store, a path-loss triangulation fallback,
// and the arbitration between them.
package locate

import (
	"github.com/campus-geo/wifi-locate/internal/wire"
)

// Positioning methods reported in results.
const (
	MethodFingerprinting = "Fingerprinting"
	MethodTriangulation  = "Triangulation"
)

// Nearest-AP room confidence labels. A nil room estimate, not a label,
// stands for "no observed AP is in the directory".
const (
	RoomConfidenceHigh   = "High"
	RoomConfidenceMedium = "Medium"
	RoomConfidenceLow    = "Low"
)

// PositionResult is the single outward-facing product of a locate call. It
// is produced once per observation batch and broadcast as-is, including
// failures, so downstream consumers always receive a well-formed timestamped
// message.
type PositionResult struct {
	Success    bool               `json:"success"`
	Lat        float64            `json:"lat,omitempty"`
	Lon        float64            `json:"lon,omitempty"`
	Room       string             `json:"room,omitempty"`
	Floor      string             `json:"floor,omitempty"`
	Location   string             `json:"location,omitempty"`
	Method     string             `json:"method,omitempty"`
	Confidence string             `json:"confidence,omitempty"` // e.g. "97%"
	MatchedAPs int                `json:"matched_aps,omitempty"`
	Details    []wire.Observation `json:"details,omitempty"`
	Error      string             `json:"error,omitempty"`
	Timestamp  string             `json:"timestamp"` // RFC 3339
}
