// Collector records survey fingerprints for one position. Point it at a
// room, stand there with the sniffer running, and it stores every decoded
// scan until the target sample count is reached.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/campus-geo/wifi-locate/internal/db"
	"github.com/campus-geo/wifi-locate/internal/fingerprint"
	"github.com/campus-geo/wifi-locate/internal/ingest"
	"github.com/campus-geo/wifi-locate/internal/wire"
)

var (
	dbFile   = flag.String("db", "fingerprints.db", "Path to the SQLite database")
	room     = flag.String("room", "", "Room label (e.g. 201)")
	floor    = flag.String("floor", "", "Floor label (e.g. 2)")
	location = flag.String("location", "", "Free-text location (e.g. 'Salle 201')")
	lat      = flag.Float64("lat", 0, "Latitude of the survey position")
	lon      = flag.Float64("lon", 0, "Longitude of the survey position")
	count    = flag.Int("count", 5, "Number of scans to record before exiting")

	mqttBroker = flag.String("mqtt-broker", "eu1.cloud.thethings.network:1883", "MQTT broker host:port")
	mqttUser   = flag.String("mqtt-user", "", "MQTT username ({application_id}@ttn)")
	mqttPass   = flag.String("mqtt-pass", "", "MQTT password (API key)")
	mqttTopic  = flag.String("mqtt-topic", "v3/+/devices/+/up", "MQTT uplink topic")
)

// scanProgress counts stored scans and signals done once the target is
// reached. Uplinks keep arriving between the target scan and the broker
// disconnect, so the signal must be idempotent.
type scanProgress struct {
	target int64
	n      atomic.Int64
	once   sync.Once
	done   chan struct{}
}

func newScanProgress(target int) *scanProgress {
	return &scanProgress{target: int64(target), done: make(chan struct{})}
}

func (p *scanProgress) record() int64 {
	n := p.n.Add(1)
	if n >= p.target {
		p.once.Do(func() { close(p.done) })
	}
	return n
}

func (p *scanProgress) count() int64 {
	return p.n.Load()
}

func main() {
	flag.Parse()

	if *room == "" || *floor == "" {
		log.Fatal("-room and -floor are required")
	}
	if *lat == 0 || *lon == 0 {
		log.Fatal("-lat and -lon are required")
	}
	if *mqttUser == "" {
		log.Fatal("-mqtt-user is required")
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	progress := newScanProgress(*count)

	handler := func(deviceID string, obs []wire.Observation) {
		if len(obs) == 0 {
			log.Printf("scan from %s decoded no access points, skipping", deviceID)
			return
		}

		timestamp := time.Now().Format("2006-01-02T15:04:05")
		samples := make([]fingerprint.Sample, 0, len(obs))
		for _, o := range obs {
			samples = append(samples, fingerprint.Sample{
				Room:      *room,
				Floor:     *floor,
				Location:  *location,
				Lat:       *lat,
				Lon:       *lon,
				APID:      o.APID,
				SSID:      "Unknown",
				RSSI:      o.RSSI,
				Timestamp: timestamp,
			})
		}

		if err := database.InsertFingerprints(samples); err != nil {
			log.Printf("failed to store scan: %v", err)
			return
		}

		n := progress.record()
		log.Printf("scan %d/%d recorded (%d APs) for room %s", n, *count, len(obs), *room)
	}

	subscriber := ingest.NewSubscriber(ingest.Config{
		Broker:   *mqttBroker,
		Username: *mqttUser,
		Password: *mqttPass,
		Topic:    *mqttTopic,
		ClientID: "wifi-locate-collector",
	}, handler)

	if err := subscriber.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to MQTT broker: %v", err)
	}
	defer subscriber.Disconnect()

	log.Printf("collecting %d scans for room %s (floor %s) at %.6f,%.6f",
		*count, *room, *floor, *lat, *lon)

	select {
	case <-progress.done:
		log.Printf("target reached, %d scans stored", progress.count())
	case <-ctx.Done():
		log.Printf("interrupted after %d scans", progress.count())
	}

	total, err := database.FingerprintCount()
	if err == nil {
		log.Printf("database now holds %d fingerprints", total)
	}
}
