package locate

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/campus-geo/wifi-locate/internal/config"
	"github.com/campus-geo/wifi-locate/internal/fingerprint"
	"github.com/campus-geo/wifi-locate/internal/timeutil"
	"github.com/campus-geo/wifi-locate/internal/wire"
)

// Maximum observations echoed back in a result's Details field.
const maxDetailAPs = 5

// Engine is the positioning core. It owns an immutable reference snapshot
// (fingerprint store + AP directory) swapped atomically on rebuild, so any
// number of Locate calls may run concurrently against a consistent snapshot
// while a new sample batch is being loaded.
type Engine struct {
	cfg   *config.Tuning
	clock timeutil.Clock
	store atomic.Pointer[fingerprint.Store]
}

// NewEngine creates an engine with an empty reference snapshot. Every
// operation degrades to "no match" until Rebuild loads samples.
func NewEngine(cfg *config.Tuning, clock timeutil.Clock) *Engine {
	if cfg == nil {
		cfg = config.EmptyTuning()
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	e := &Engine{cfg: cfg, clock: clock}
	e.store.Store(fingerprint.BuildStore(nil, e.zoneKey()))
	return e
}

// Decode parses a binary observation frame. It never fails; malformed input
// yields an empty observation list.
func (e *Engine) Decode(frame []byte) []wire.Observation {
	return wire.Decode(frame)
}

// Rebuild replaces the reference snapshot from the full ordered sample
// collection. The new store is built off to the side and swapped in whole,
// so in-flight Locate calls keep the snapshot they started with. Safe to
// call repeatedly; an empty batch installs an always-miss snapshot.
func (e *Engine) Rebuild(samples []fingerprint.Sample) {
	e.store.Store(fingerprint.BuildStore(samples, e.zoneKey()))
}

// Snapshot returns the current reference store. The returned store is
// immutable and remains valid after later rebuilds.
func (e *Engine) Snapshot() *fingerprint.Store {
	return e.store.Load()
}

func (e *Engine) zoneKey() fingerprint.ZoneKeyFunc {
	if e.cfg.GetZoneKeyPolicy() == config.ZoneKeyGrid {
		return fingerprint.GridKey(e.cfg.GetGridKeyPlaces())
	}
	return fingerprint.RoomFloorKey
}

// Locate computes a position estimate for one observation batch. It is a
// pure function of the batch and the current snapshot.
//
// Arbitration: fingerprint matching wins when its confidence clears the
// configured threshold; otherwise the triangulator supplies the coordinates
// while the nearest-AP estimator supplies the room label — the two can
// disagree on the zone, and that blend is the documented fallback behaviour.
// With no usable data the result is a failure that still carries a
// timestamp and flows to broadcast like any other update.
func (e *Engine) Locate(obs []wire.Observation) PositionResult {
	now := e.clock.Now().Format(time.RFC3339)

	if len(obs) == 0 {
		return PositionResult{Success: false, Error: "no data", Timestamp: now}
	}

	store := e.store.Load()

	if match := matchZones(store, obs, e.cfg); match != nil && match.Confidence > e.cfg.GetMatchConfidenceMin() {
		return PositionResult{
			Success:    true,
			Lat:        match.Zone.CentroidLat,
			Lon:        match.Zone.CentroidLon,
			Room:       match.Zone.Room,
			Floor:      match.Zone.Floor,
			Location:   match.Zone.Location,
			Method:     MethodFingerprinting,
			Confidence: formatPercent(match.Confidence * 100),
			MatchedAPs: match.MatchedAPs,
			Details:    topObservations(obs),
			Timestamp:  now,
		}
	}

	dir := store.Directory()
	if centroid := triangulate(dir, obs, e.cfg); centroid != nil {
		result := PositionResult{
			Success:    true,
			Lat:        centroid.Lat,
			Lon:        centroid.Lon,
			Method:     MethodTriangulation,
			Confidence: formatPercent(math.Min(float64(centroid.MatchedAPs)/3*100, 100)),
			MatchedAPs: centroid.MatchedAPs,
			Details:    topObservations(obs),
			Timestamp:  now,
		}
		// Room label comes from the strongest AP, which may sit in a
		// different zone than the weighted centroid.
		if room := nearestAPRoom(dir, obs, e.cfg); room != nil {
			result.Room = room.Room
			result.Floor = room.Floor
			result.Location = room.Location
		}
		return result
	}

	return PositionResult{Success: false, Error: "insufficient data", Timestamp: now}
}

// Stats reports snapshot sizes for the status endpoint.
func (e *Engine) Stats() (zones, aps, samples int) {
	store := e.store.Load()
	return len(store.Zones()), len(store.Directory()), store.SampleCount()
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

func topObservations(obs []wire.Observation) []wire.Observation {
	if len(obs) <= maxDetailAPs {
		return obs
	}
	return obs[:maxDetailAPs]
}
