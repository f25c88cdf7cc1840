package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/campus-geo/wifi-locate/internal/api"
	"github.com/campus-geo/wifi-locate/internal/config"
	"github.com/campus-geo/wifi-locate/internal/db"
	"github.com/campus-geo/wifi-locate/internal/ingest"
	"github.com/campus-geo/wifi-locate/internal/locate"
	"github.com/campus-geo/wifi-locate/internal/monitoring"
	"github.com/campus-geo/wifi-locate/internal/wire"
	"github.com/campus-geo/wifi-locate/internal/ws"
)

var (
	devMode       = flag.Bool("dev", false, "Run in dev mode (attaches admin debug routes)")
	listen        = flag.String("listen", ":8000", "Listen address")
	dbFile        = flag.String("db", "fingerprints.db", "Path to the SQLite database")
	tuningFile    = flag.String("tuning", "", "Optional tuning config (JSON)")
	migrationsDir = flag.String("migrations", "migrations", "Path to migration files")
	mqttBroker    = flag.String("mqtt-broker", "eu1.cloud.thethings.network:1883", "MQTT broker host:port")
	mqttUser      = flag.String("mqtt-user", "", "MQTT username ({application_id}@ttn)")
	mqttPass      = flag.String("mqtt-pass", "", "MQTT password (API key)")
	mqttTopic     = flag.String("mqtt-topic", "v3/+/devices/+/up", "MQTT uplink topic")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	tuning := config.EmptyTuning()
	if *tuningFile != "" {
		var err error
		tuning, err = config.LoadTuning(*tuningFile)
		if err != nil {
			log.Fatalf("Failed to load tuning config: %v", err)
		}
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := database.MigrateUp(*migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	engine := locate.NewEngine(tuning, nil)
	samples, err := database.LoadFingerprints()
	if err != nil {
		log.Fatalf("Failed to load fingerprints: %v", err)
	}
	engine.Rebuild(samples)

	zones, aps, total := engine.Stats()
	monitoring.Logf("reference data loaded: %d samples, %d zones, %d access points", total, zones, aps)

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	wg.Add(1)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
		monitoring.Logf("websocket hub terminated")
	}()

	// Every uplink runs the full pipeline: decode, locate, persist,
	// broadcast. Failures flow through like successes.
	handleUplink := func(deviceID string, obs []wire.Observation) {
		result := engine.Locate(obs)
		if result.Success {
			monitoring.Logf("position for %s: %s (%s, %s, %d APs)",
				deviceID, result.Room, result.Method, result.Confidence, result.MatchedAPs)
		} else {
			monitoring.Logf("no position for %s: %s", deviceID, result.Error)
		}
		if err := database.RecordPosition(result); err != nil {
			monitoring.Logf("failed to record position: %v", err)
		}
		hub.Broadcast(result)
	}

	if *mqttUser != "" {
		subscriber := ingest.NewSubscriber(ingest.Config{
			Broker:   *mqttBroker,
			Username: *mqttUser,
			Password: *mqttPass,
			Topic:    *mqttTopic,
			ClientID: "wifi-locate-server",
		}, handleUplink)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := subscriber.Connect(ctx); err != nil {
				monitoring.Logf("mqtt ingest unavailable: %v", err)
				return
			}
			<-ctx.Done()
			subscriber.Disconnect()
			monitoring.Logf("ingest routine terminated")
		}()
	} else {
		monitoring.Logf("no -mqtt-user configured, ingest disabled")
	}

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// mount the admin debugging routes (dev mode only)
		if *devMode {
			if err := database.AttachAdminRoutes(mux); err != nil {
				log.Fatalf("failed to attach admin routes: %v", err)
			}
		}

		apiServer := api.NewServer(engine, database, hub)
		mux.Handle("/api/", apiServer.ServeMux())
		mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWS(hub, w, r)
		})

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			monitoring.Logf("listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		monitoring.Logf("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			monitoring.Logf("HTTP server shutdown error: %v", err)
		}

		monitoring.Logf("HTTP server routine stopped")
	}()

	wg.Wait()
	monitoring.Logf("Graceful shutdown complete")
}
