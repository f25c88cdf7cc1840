// Package wire decodes the compact binary observation frames sent by the
// field scanner over LoRaWAN.
//
// Frame layout (fixed, must stay bit-compatible with deployed devices):
//
//	repeat N times:
//	  byte[0..5]  AP hardware address, 6 raw bytes in device order
//	  byte[6]     RSSI, two's-complement signed 8-bit dBm
//
// A record whose six address bytes are all zero is padding and is dropped.
// Any frame whose length is not a positive multiple of 7 carries no
// observations.
package wire

import "fmt"

// Observation frame record layout constants.
const (
	AddrSize   = 6                   // AP hardware address bytes per record
	RSSISize   = 1                   // signed RSSI byte per record
	RecordSize = AddrSize + RSSISize // 7 bytes per access point
)

// Observation is a single (access point, signal strength) reading from one
// scan cycle. APID is the lower-cased colon-separated hardware address.
type Observation struct {
	APID string `json:"mac"`
	RSSI int    `json:"rssi"`
}

// Decode parses an observation frame into its records, in frame order.
// Decode never fails: a frame with an invalid length, or one that contains
// only padding, yields an empty slice. A decode miss means "no data this
// cycle", not an error.
func Decode(frame []byte) []Observation {
	if len(frame) == 0 || len(frame)%RecordSize != 0 {
		return nil
	}

	obs := make([]Observation, 0, len(frame)/RecordSize)
	for off := 0; off < len(frame); off += RecordSize {
		addr := frame[off : off+AddrSize]
		if allZero(addr) {
			// Padding record, not a real AP.
			continue
		}

		// Two's-complement: byte values >= 128 are negative dBm.
		rssi := int(frame[off+AddrSize])
		if rssi >= 128 {
			rssi -= 256
		}

		obs = append(obs, Observation{APID: formatAddr(addr), RSSI: rssi})
	}
	return obs
}

// formatAddr renders the six address bytes as lower-case hex with colon
// separators, preserving device byte order. Lookups against the fingerprint
// database are case-sensitive, so everything is normalised here.
func formatAddr(addr []byte) string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		addr[0], addr[1], addr[2], addr[3], addr[4], addr[5])
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
