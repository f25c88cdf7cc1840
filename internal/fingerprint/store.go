package fingerprint

import "gonum.org/v1/gonum/stat"

// Zone aggregates every sample sharing a zone key. Zones are built once per
// store rebuild and never mutated afterwards; the centroid is the arithmetic
// mean of all member sample coordinates.
type Zone struct {
	Key         string
	Room        string
	Floor       string
	Location    string
	CentroidLat float64
	CentroidLon float64

	// APIDs lists the zone's distinct access points in first-seen sample
	// order, so every walk over the zone is deterministic.
	APIDs []string

	rssiByAP map[string][]float64
	lats     []float64
	lons     []float64
}

// SampleCount reports how many raw samples the zone aggregates.
func (z *Zone) SampleCount() int {
	return len(z.lats)
}

// RSSISamples returns the recorded RSSI values for an AP in this zone.
func (z *Zone) RSSISamples(apID string) []float64 {
	return z.rssiByAP[apID]
}

// MeanRSSI returns the mean recorded RSSI for an AP across the zone's member
// samples, and whether the AP is known to the zone at all.
func (z *Zone) MeanRSSI(apID string) (float64, bool) {
	values, ok := z.rssiByAP[apID]
	if !ok || len(values) == 0 {
		return 0, false
	}
	return stat.Mean(values, nil), true
}

// Store is the immutable reference database snapshot: all zones in the order
// their keys were first seen during the load pass, plus the derived AP
// directory. Consumers share a single Store pointer; rebuilds produce a new
// Store and swap it in whole.
type Store struct {
	zones       []*Zone
	byKey       map[string]*Zone
	directory   Directory
	sampleCount int
}

// BuildStore aggregates the ordered sample collection into zones using the
// given key policy and derives the AP directory. An empty or nil sample set
// yields an empty store whose lookups all miss.
func BuildStore(samples []Sample, key ZoneKeyFunc) *Store {
	st := &Store{
		byKey:     make(map[string]*Zone),
		directory: make(Directory),
	}

	for _, s := range samples {
		k := key(s)
		z, ok := st.byKey[k]
		if !ok {
			z = &Zone{
				Key:      k,
				Room:     s.Room,
				Floor:    s.Floor,
				Location: s.Location,
				rssiByAP: make(map[string][]float64),
			}
			st.byKey[k] = z
			st.zones = append(st.zones, z)
		}
		if _, seen := z.rssiByAP[s.APID]; !seen {
			z.APIDs = append(z.APIDs, s.APID)
		}
		z.rssiByAP[s.APID] = append(z.rssiByAP[s.APID], float64(s.RSSI))
		z.lats = append(z.lats, s.Lat)
		z.lons = append(z.lons, s.Lon)
		st.sampleCount++
	}

	for _, z := range st.zones {
		z.CentroidLat = stat.Mean(z.lats, nil)
		z.CentroidLon = stat.Mean(z.lons, nil)
	}

	buildDirectory(st)
	return st
}

// Zones returns the zones in first-seen build order.
func (st *Store) Zones() []*Zone {
	return st.zones
}

// Zone looks up a zone by key.
func (st *Store) Zone(key string) (*Zone, bool) {
	z, ok := st.byKey[key]
	return z, ok
}

// Directory returns the derived AP directory.
func (st *Store) Directory() Directory {
	return st.directory
}

// SampleCount reports the total number of samples loaded into the store.
func (st *Store) SampleCount() int {
	return st.sampleCount
}

// Empty reports whether the store holds no zones.
func (st *Store) Empty() bool {
	return len(st.zones) == 0
}
