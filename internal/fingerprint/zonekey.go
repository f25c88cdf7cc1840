package fingerprint

import "fmt"

// ZoneKeyFunc derives the zone a sample belongs to. Two binning strategies
// exist in the survey data: explicit room/floor labels, and rounded GPS
// buckets from the walk-around collector. The store takes the policy as a
// parameter so both datasets load into the same Zone abstraction.
type ZoneKeyFunc func(Sample) string

// RoomFloorKey bins samples by their labelled room and floor, e.g. "201_2".
func RoomFloorKey(s Sample) string {
	return s.Room + "_" + s.Floor
}

// GridKey bins samples by their coordinates rounded to the given number of
// decimal places. At 4 places a bucket is roughly 11 metres of latitude.
func GridKey(places int) ZoneKeyFunc {
	return func(s Sample) string {
		return fmt.Sprintf("%.*f_%.*f", places, s.Lat, places, s.Lon)
	}
}
