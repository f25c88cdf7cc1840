// Package fingerprint holds the reference database the positioning engine
// matches live scans against: raw survey samples, their aggregation into
// zones, and the derived access-point directory.
package fingerprint

// Sample is one surveyed (AP, RSSI) reading tagged with the physical
// location it was collected at. Samples are created by the collection tool,
// stored in SQLite, and are read-only here.
type Sample struct {
	Room      string  `json:"room"`
	Floor     string  `json:"floor"`
	Location  string  `json:"location"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	APID      string  `json:"mac"`
	SSID      string  `json:"ssid"`
	RSSI      int     `json:"rssi"`
	Timestamp string  `json:"timestamp"`
}
