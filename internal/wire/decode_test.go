package wire

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeSingleRecord(t *testing.T) {
	frame := []byte{0x1E, 0x92, 0x9B, 0xE8, 0x5C, 0xD9, 0xBF}

	obs := Decode(frame)
	if len(obs) != 1 {
		t.Fatalf("Decode returned %d observations, want 1", len(obs))
	}
	if obs[0].APID != "1e:92:9b:e8:5c:d9" {
		t.Errorf("APID = %q, want %q", obs[0].APID, "1e:92:9b:e8:5c:d9")
	}
	// 0xBF = 191 -> 191-256 = -65 dBm
	if obs[0].RSSI != -65 {
		t.Errorf("RSSI = %d, want -65", obs[0].RSSI)
	}
}

func TestDecodeInvalidLengths(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 6, 8, 13, 20, 100} {
		frame := bytes.Repeat([]byte{0xAB}, n)
		if obs := Decode(frame); len(obs) != 0 {
			t.Errorf("Decode(%d bytes) returned %d observations, want 0", n, len(obs))
		}
	}
}

func TestDecodeEmptyFrame(t *testing.T) {
	if obs := Decode(nil); len(obs) != 0 {
		t.Errorf("Decode(nil) returned %d observations, want 0", len(obs))
	}
	if obs := Decode([]byte{}); len(obs) != 0 {
		t.Errorf("Decode(empty) returned %d observations, want 0", len(obs))
	}
}

func TestDecodeDropsPadding(t *testing.T) {
	// All-zero address marks padding and must be dropped.
	if obs := Decode(bytes.Repeat([]byte{0x00}, RecordSize)); len(obs) != 0 {
		t.Fatalf("padding record decoded to %d observations, want 0", len(obs))
	}

	// Padding interleaved between real records.
	frame := []byte{
		0x1E, 0x92, 0x9B, 0xE8, 0x5C, 0xD9, 0xBF,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC0,
		0x76, 0xA0, 0x74, 0x60, 0x69, 0xBD, 0xBA,
	}
	obs := Decode(frame)
	if len(obs) != 2 {
		t.Fatalf("Decode returned %d observations, want 2", len(obs))
	}
	if obs[0].APID != "1e:92:9b:e8:5c:d9" || obs[1].APID != "76:a0:74:60:69:bd" {
		t.Errorf("unexpected APs: %v", obs)
	}
}

func TestDecodePreservesFrameOrder(t *testing.T) {
	frame := []byte{
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0xBD, // -67
		0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x7F, // +127
		0x86, 0x39, 0x8E, 0x64, 0x5A, 0x8E, 0xB5, // -75
	}
	want := []Observation{
		{APID: "aa:bb:cc:dd:ee:ff", RSSI: -67},
		{APID: "11:22:33:44:55:66", RSSI: 127},
		{APID: "86:39:8e:64:5a:8e", RSSI: -75},
	}
	if diff := cmp.Diff(want, Decode(frame)); diff != "" {
		t.Errorf("Decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRSSIRange(t *testing.T) {
	// Signed byte extremes: 0x80 = -128, 0x7F = 127, 0x00 = 0.
	cases := []struct {
		b    byte
		want int
	}{
		{0x80, -128},
		{0xFF, -1},
		{0x7F, 127},
		{0x00, 0},
	}
	for _, c := range cases {
		frame := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, c.b}
		obs := Decode(frame)
		if len(obs) != 1 {
			t.Fatalf("Decode returned %d observations, want 1", len(obs))
		}
		if obs[0].RSSI != c.want {
			t.Errorf("RSSI byte 0x%02X = %d, want %d", c.b, obs[0].RSSI, c.want)
		}
	}
}
