package locate

import (
	"math"

	"github.com/campus-geo/wifi-locate/internal/config"
	"github.com/campus-geo/wifi-locate/internal/fingerprint"
	"github.com/campus-geo/wifi-locate/internal/wire"
)

// zoneMatch is the matcher's verdict for the best-scoring zone.
type zoneMatch struct {
	Zone       *fingerprint.Zone
	Score      float64 // final scaled score, 0..100
	Confidence float64 // Score/100 clamped to [0,1]
	MatchedAPs int
}

// matchZones scores every zone in the store against the live observation and
// returns the best one, or nil when no zone clears the matched-AP floor.
//
// Per zone: each AP known to the zone contributes a score of
// 100-min(|observed-mean|,100), weighted by 1/(1+diff/divisor) so large
// deviations count for less. APs the zone expects but the scan did not hear
// are evidence against the zone and subtract a fixed penalty. The weighted
// average is then scaled by 0.5+0.5*coverage, rewarding zones that had a
// larger fraction of their known APs actually seen.
//
// Ties keep the earlier zone in store build order; only a strictly higher
// score displaces the current best.
func matchZones(store *fingerprint.Store, obs []wire.Observation, cfg *config.Tuning) *zoneMatch {
	observed := make(map[string]int, len(obs))
	for _, o := range obs {
		observed[o.APID] = o.RSSI
	}

	divisor := cfg.GetDiffWeightDivisor()
	penalty := cfg.GetMissingAPPenalty()
	minMatched := cfg.GetMinMatchedAPs()

	var best *zoneMatch
	for _, zone := range store.Zones() {
		var scoreSum, weightSum float64
		matched := 0
		missing := 0

		for _, apID := range zone.APIDs {
			mean, ok := zone.MeanRSSI(apID)
			if !ok {
				continue
			}
			rssi, seen := observed[apID]
			if !seen {
				missing++
				continue
			}

			diff := math.Abs(float64(rssi) - mean)
			score := 100 - math.Min(diff, 100)
			weight := 1 / (1 + diff/divisor)
			scoreSum += weight * score
			weightSum += weight
			matched++
		}

		if matched < minMatched || weightSum == 0 {
			continue
		}

		score := scoreSum / weightSum
		score -= penalty * float64(missing)

		coverage := float64(matched) / float64(len(zone.APIDs))
		score *= 0.5 + 0.5*coverage

		if best == nil || score > best.Score {
			best = &zoneMatch{
				Zone:       zone,
				Score:      score,
				Confidence: clamp(score/100, 0, 1),
				MatchedAPs: matched,
			}
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
