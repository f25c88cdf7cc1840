package locate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-geo/wifi-locate/internal/config"
	"github.com/campus-geo/wifi-locate/internal/fingerprint"
	"github.com/campus-geo/wifi-locate/internal/wire"
)

const (
	ap1 = "aa:bb:cc:dd:ee:01"
	ap2 = "aa:bb:cc:dd:ee:02"
	ap3 = "aa:bb:cc:dd:ee:03"
)

// buildZoneStore creates a store with one zone per entry; each entry maps
// AP id to the RSSI recorded for it (one sample per AP).
func buildZoneStore(t *testing.T, zones map[string]map[string]int) *fingerprint.Store {
	t.Helper()
	var samples []fingerprint.Sample
	// Deterministic zone order: sort on key by inserting in lexical order.
	keys := make([]string, 0, len(zones))
	for k := range zones {
		keys = append(keys, k)
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	for _, room := range keys {
		aps := zones[room]
		apIDs := make([]string, 0, len(aps))
		for id := range aps {
			apIDs = append(apIDs, id)
		}
		for i := 0; i < len(apIDs); i++ {
			for j := i + 1; j < len(apIDs); j++ {
				if apIDs[j] < apIDs[i] {
					apIDs[i], apIDs[j] = apIDs[j], apIDs[i]
				}
			}
		}
		for _, id := range apIDs {
			samples = append(samples, fingerprint.Sample{
				Room: room, Floor: "2", Location: "Salle " + room,
				Lat: 48.8, Lon: 2.35, APID: id, RSSI: aps[id],
			})
		}
	}
	return fingerprint.BuildStore(samples, fingerprint.RoomFloorKey)
}

func obsList(readings map[string]int) []wire.Observation {
	var obs []wire.Observation
	for id, rssi := range readings {
		obs = append(obs, wire.Observation{APID: id, RSSI: rssi})
	}
	return obs
}

func TestMatchZonesPicksSmallestDelta(t *testing.T) {
	t.Parallel()
	cfg := config.EmptyTuning()
	store := buildZoneStore(t, map[string]map[string]int{
		"201": {ap1: -63, ap2: -60},
		"203": {ap1: -72, ap2: -60},
	})

	match := matchZones(store, obsList(map[string]int{ap1: -65, ap2: -60}), cfg)
	require.NotNil(t, match)
	assert.Equal(t, "201", match.Zone.Room, "smaller RSSI delta must win")
	assert.Equal(t, 2, match.MatchedAPs)
	assert.Greater(t, match.Confidence, 0.9)
}

func TestMatchZonesRequiresTwoMatches(t *testing.T) {
	t.Parallel()
	cfg := config.EmptyTuning()
	store := buildZoneStore(t, map[string]map[string]int{
		"201": {ap1: -63, ap2: -60},
	})

	// Only one of the zone's APs is observed.
	match := matchZones(store, obsList(map[string]int{ap1: -63}), cfg)
	assert.Nil(t, match, "a single matched AP must not qualify a zone")
}

func TestMatchZonesEmptyStore(t *testing.T) {
	t.Parallel()
	cfg := config.EmptyTuning()
	store := fingerprint.BuildStore(nil, fingerprint.RoomFloorKey)

	match := matchZones(store, obsList(map[string]int{ap1: -63, ap2: -60}), cfg)
	assert.Nil(t, match)
}

func TestMatchZonesScoreMonotonicInDelta(t *testing.T) {
	t.Parallel()
	cfg := config.EmptyTuning()
	store := buildZoneStore(t, map[string]map[string]int{
		"201": {ap1: -60, ap2: -60},
	})

	// Walking ap1's observed RSSI toward the recorded mean must never
	// decrease the zone score.
	prev := -1.0
	for diff := 40; diff >= 0; diff-- {
		match := matchZones(store, obsList(map[string]int{ap1: -60 - diff, ap2: -60}), cfg)
		require.NotNil(t, match, "diff %d", diff)
		assert.GreaterOrEqual(t, match.Score, prev,
			fmt.Sprintf("score regressed when diff shrank to %d", diff))
		prev = match.Score
	}
}

func TestMatchZonesCoverageScaling(t *testing.T) {
	t.Parallel()
	cfg := config.EmptyTuning()
	// Zone 201 knows two APs and both are seen (coverage 1.0). Zone 203
	// knows four APs with identical recorded values but only two are seen
	// (coverage 0.5). Per-AP scores are identical, so the higher-coverage
	// zone must come out at least as high — and here strictly higher,
	// because 203 also takes missing-AP penalties.
	store := buildZoneStore(t, map[string]map[string]int{
		"201": {ap1: -60, ap2: -65},
		"203": {ap1: -60, ap2: -65, ap3: -50, "aa:bb:cc:dd:ee:04": -55},
	})

	obs := obsList(map[string]int{ap1: -60, ap2: -65})
	match := matchZones(store, obs, cfg)
	require.NotNil(t, match)
	assert.Equal(t, "201", match.Zone.Room)
}

func TestMatchZonesMissingAPPenalty(t *testing.T) {
	t.Parallel()
	penalty := 5.0
	cfg := &config.Tuning{MissingAPPenalty: &penalty}
	zero := 0.0
	cfgNoPenalty := &config.Tuning{MissingAPPenalty: &zero}

	store := buildZoneStore(t, map[string]map[string]int{
		"201": {ap1: -60, ap2: -65, ap3: -50},
	})
	obs := obsList(map[string]int{ap1: -60, ap2: -65}) // ap3 expected but unheard

	with := matchZones(store, obs, cfg)
	without := matchZones(store, obs, cfgNoPenalty)
	require.NotNil(t, with)
	require.NotNil(t, without)
	assert.Less(t, with.Score, without.Score, "expected-but-missing AP must cost score")
}

func TestMatchZonesDeterministicTie(t *testing.T) {
	t.Parallel()
	cfg := config.EmptyTuning()
	// Two zones with identical fingerprints: the first in build order must
	// win on every run.
	store := buildZoneStore(t, map[string]map[string]int{
		"101": {ap1: -60, ap2: -65},
		"102": {ap1: -60, ap2: -65},
	})
	obs := obsList(map[string]int{ap1: -60, ap2: -65})

	for i := 0; i < 20; i++ {
		match := matchZones(store, obs, cfg)
		require.NotNil(t, match)
		assert.Equal(t, "101", match.Zone.Room, "tie must keep first zone in build order")
	}
}

func TestMatchZonesConfidenceClamped(t *testing.T) {
	t.Parallel()
	cfg := config.EmptyTuning()
	store := buildZoneStore(t, map[string]map[string]int{
		"201": {ap1: -60, ap2: -60},
	})

	// Huge deltas drive the raw score way down; confidence stays in [0,1].
	match := matchZones(store, obsList(map[string]int{ap1: -160, ap2: -160}), cfg)
	if match != nil {
		assert.GreaterOrEqual(t, match.Confidence, 0.0)
		assert.LessOrEqual(t, match.Confidence, 1.0)
	}
}
