package locate

import (
	"math"

	"github.com/campus-geo/wifi-locate/internal/config"
	"github.com/campus-geo/wifi-locate/internal/fingerprint"
	"github.com/campus-geo/wifi-locate/internal/wire"
)

// centroidEstimate is the triangulator's weighted-centroid fix.
type centroidEstimate struct {
	Lat        float64
	Lon        float64
	MatchedAPs int
}

// rssiToDistance converts a signal strength to an estimated distance in
// metres using the log-distance path-loss model:
//
//	distance = 10^((RSSIref - rssi) / (10*n))
//
// With the default calibration (-40 dBm at 1 m, n=2.7) an RSSI of -65 dBm
// comes out near 8 metres. Walls, interference and antenna orientation make
// this a coarse estimate, which is why it only backs the fallback path.
func rssiToDistance(rssi int, cfg *config.Tuning) float64 {
	return math.Pow(10, (cfg.GetRSSIRefDBm()-float64(rssi))/(10*cfg.GetPathLossExponent()))
}

// triangulate estimates a position as the inverse-distance-weighted centroid
// of the observed APs with known positions. Each AP contributes weight
// scale/distance^exponent, so nearer APs dominate. Returns nil when no
// observed AP appears in the directory.
func triangulate(dir fingerprint.Directory, obs []wire.Observation, cfg *config.Tuning) *centroidEstimate {
	scale := cfg.GetDistanceWeightScale()
	exponent := cfg.GetDistanceWeightExponent()

	var latSum, lonSum, weightSum float64
	matched := 0

	for _, o := range obs {
		entry, ok := dir.Lookup(o.APID)
		if !ok {
			continue
		}

		distance := rssiToDistance(o.RSSI, cfg)
		weight := scale / math.Pow(distance, exponent)

		latSum += entry.Lat * weight
		lonSum += entry.Lon * weight
		weightSum += weight
		matched++
	}

	if weightSum == 0 {
		return nil
	}
	return &centroidEstimate{
		Lat:        latSum / weightSum,
		Lon:        lonSum / weightSum,
		MatchedAPs: matched,
	}
}

// roomEstimate is the nearest-AP room fix: the zone of the single strongest
// observed AP present in the directory.
type roomEstimate struct {
	Room       string
	Floor      string
	Location   string
	RSSI       int
	Confidence string // High/Medium/Low
}

// nearestAPRoom picks the observed AP with the strongest (least negative)
// RSSI among those in the directory and reports its recorded zone. The
// textual confidence is keyed to raw signal strength. Returns nil when no
// observed AP is known.
func nearestAPRoom(dir fingerprint.Directory, obs []wire.Observation, cfg *config.Tuning) *roomEstimate {
	var best *roomEstimate
	for _, o := range obs {
		entry, ok := dir.Lookup(o.APID)
		if !ok {
			continue
		}
		if best == nil || o.RSSI > best.RSSI {
			best = &roomEstimate{
				Room:     entry.Room,
				Floor:    entry.Floor,
				Location: entry.Location,
				RSSI:     o.RSSI,
			}
		}
	}
	if best == nil {
		return nil
	}

	switch {
	case best.RSSI > cfg.GetNearHighDBm():
		best.Confidence = RoomConfidenceHigh
	case best.RSSI > cfg.GetNearMediumDBm():
		best.Confidence = RoomConfidenceMedium
	default:
		best.Confidence = RoomConfidenceLow
	}
	return best
}
