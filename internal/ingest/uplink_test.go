package ingest

import (
	"encoding/base64"
	"testing"
)

func TestDecodeUplink(t *testing.T) {
	t.Parallel()

	frame := []byte{0x1E, 0x92, 0x9B, 0xE8, 0x5C, 0xD9, 0xBF} // -65 dBm
	b64 := base64.StdEncoding.EncodeToString(frame)
	payload := []byte(`{
		"end_device_ids": {"device_id": "esp32-sniffer"},
		"uplink_message": {"frm_payload": "` + b64 + `", "f_port": 1, "f_cnt": 42}
	}`)

	deviceID, obs, ok, err := DecodeUplink(payload)
	if err != nil {
		t.Fatalf("DecodeUplink failed: %v", err)
	}
	if !ok {
		t.Fatal("expected uplink to be recognized")
	}
	if deviceID != "esp32-sniffer" {
		t.Errorf("device id = %s, want esp32-sniffer", deviceID)
	}
	if len(obs) != 1 {
		t.Fatalf("got %d observations, want 1", len(obs))
	}
	if obs[0].APID != "1e:92:9b:e8:5c:d9" {
		t.Errorf("ap id = %s, want 1e:92:9b:e8:5c:d9", obs[0].APID)
	}
	if obs[0].RSSI != -65 {
		t.Errorf("rssi = %d, want -65", obs[0].RSSI)
	}
}

func TestDecodeUplinkIgnoresNonUplinks(t *testing.T) {
	t.Parallel()

	// Join events and downlinks carry no uplink_message block.
	_, _, ok, err := DecodeUplink([]byte(`{"end_device_ids": {"device_id": "esp32-sniffer"}}`))
	if err != nil {
		t.Fatalf("DecodeUplink failed: %v", err)
	}
	if ok {
		t.Error("message without uplink_message should not be treated as an uplink")
	}
}

func TestDecodeUplinkMalformed(t *testing.T) {
	t.Parallel()

	if _, _, _, err := DecodeUplink([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}

	if _, _, _, err := DecodeUplink([]byte(`{"uplink_message": {"frm_payload": "!!!not-base64!!!"}}`)); err == nil {
		t.Error("expected error for invalid base64 payload")
	}
}

func TestDecodeUplinkEmptyPayload(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"end_device_ids": {"device_id": "d"}, "uplink_message": {"frm_payload": ""}}`)
	_, obs, ok, err := DecodeUplink(payload)
	if err != nil {
		t.Fatalf("DecodeUplink failed: %v", err)
	}
	if !ok {
		t.Fatal("empty frame is still an uplink")
	}
	if obs != nil {
		t.Errorf("expected no observations from an empty frame, got %v", obs)
	}
}
