package fingerprint

// Entry pins an access point to the centroid of one zone it was surveyed in.
type Entry struct {
	APID     string  `json:"mac"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Room     string  `json:"room"`
	Floor    string  `json:"floor"`
	Location string  `json:"location"`
	ZoneKey  string  `json:"zone_key"`
}

// Directory maps each distinct AP to its best-known position. An AP heard in
// several zones keeps the first zone encountered during the load pass; this
// is a deliberate approximation carried over from the survey pipeline, not a
// nearest-zone resolution.
type Directory map[string]Entry

// Lookup returns the directory entry for an AP, if any.
func (d Directory) Lookup(apID string) (Entry, bool) {
	e, ok := d[apID]
	return e, ok
}

func buildDirectory(st *Store) {
	for _, z := range st.zones {
		for _, apID := range z.APIDs {
			if _, exists := st.directory[apID]; exists {
				continue
			}
			st.directory[apID] = Entry{
				APID:     apID,
				Lat:      z.CentroidLat,
				Lon:      z.CentroidLon,
				Room:     z.Room,
				Floor:    z.Floor,
				Location: z.Location,
				ZoneKey:  z.Key,
			}
		}
	}
}
