// Package ingest subscribes to the LoRaWAN network server over MQTT and
// turns device uplinks into access point observations.
package ingest

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/campus-geo/wifi-locate/internal/wire"
)

// Uplink is the slice of the network server's uplink envelope we care
// about: who sent it and the raw frame payload.
type Uplink struct {
	EndDeviceIDs struct {
		DeviceID string `json:"device_id"`
	} `json:"end_device_ids"`
	UplinkMessage *struct {
		FrmPayload string `json:"frm_payload"`
		FPort      int    `json:"f_port"`
		FCnt       int    `json:"f_cnt"`
	} `json:"uplink_message"`
}

// DecodeUplink parses an MQTT message body and returns the device id and the
// decoded observations. Messages without an uplink_message block (downlinks,
// join events) return ok=false.
func DecodeUplink(payload []byte) (deviceID string, obs []wire.Observation, ok bool, err error) {
	var uplink Uplink
	if err := json.Unmarshal(payload, &uplink); err != nil {
		return "", nil, false, fmt.Errorf("failed to parse uplink envelope: %w", err)
	}

	if uplink.UplinkMessage == nil {
		return "", nil, false, nil
	}

	frame, err := base64.StdEncoding.DecodeString(uplink.UplinkMessage.FrmPayload)
	if err != nil {
		return "", nil, false, fmt.Errorf("failed to decode frame payload: %w", err)
	}

	return uplink.EndDeviceIDs.DeviceID, wire.Decode(frame), true, nil
}
