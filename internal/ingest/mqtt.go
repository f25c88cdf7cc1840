package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/campus-geo/wifi-locate/internal/monitoring"
	"github.com/campus-geo/wifi-locate/internal/wire"
)

// Config holds broker connection settings. Topic follows the network
// server's convention: v3/{application_id}/devices/{device_id}/up.
type Config struct {
	Broker   string
	Username string
	Password string
	Topic    string
	ClientID string
}

var logf = monitoring.Prefixed("mqtt")

// Handler receives decoded observations from each uplink.
type Handler func(deviceID string, obs []wire.Observation)

// Subscriber maintains the MQTT session and dispatches uplinks to a handler.
type Subscriber struct {
	cfg     Config
	handler Handler
	client  mqtt.Client

	mu        sync.RWMutex
	connected bool
	received  uint64
	dropped   uint64
}

func NewSubscriber(cfg Config, handler Handler) *Subscriber {
	return &Subscriber{cfg: cfg, handler: handler}
}

// Connect dials the broker and subscribes. The paho client reconnects and
// resubscribes on its own after transient failures.
func (s *Subscriber) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", s.cfg.Broker))
	opts.SetClientID(s.cfg.ClientID)
	opts.SetUsername(s.cfg.Username)
	opts.SetPassword(s.cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		s.mu.Lock()
		s.connected = true
		s.mu.Unlock()
		logf("connected to %s", s.cfg.Broker)

		// Subscribe inside OnConnect so reconnects restore the subscription.
		token := c.Subscribe(s.cfg.Topic, 0, s.onMessage)
		token.Wait()
		if err := token.Error(); err != nil {
			logf("subscribe to %s failed: %v", s.cfg.Topic, err)
			return
		}
		logf("subscribed to %s", s.cfg.Topic)
	}

	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		s.mu.Lock()
		s.connected = false
		s.mu.Unlock()
		logf("connection lost, auto-reconnecting: %v", err)
	}

	s.client = mqtt.NewClient(opts)

	token := s.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt connection timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connection failed: %w", err)
	}

	return nil
}

func (s *Subscriber) onMessage(_ mqtt.Client, msg mqtt.Message) {
	deviceID, obs, ok, err := DecodeUplink(msg.Payload())
	if err != nil {
		s.mu.Lock()
		s.dropped++
		s.mu.Unlock()
		logf("dropping malformed uplink: %v", err)
		return
	}
	if !ok {
		// Downlink or join event, not an error.
		return
	}

	s.mu.Lock()
	s.received++
	s.mu.Unlock()

	s.handler(deviceID, obs)
}

// Disconnect closes the MQTT session.
func (s *Subscriber) Disconnect() {
	if s.client != nil && s.client.IsConnected() {
		s.client.Disconnect(250)
		logf("disconnected")
	}
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()
}

// Stats reports session counters.
func (s *Subscriber) Stats() (connected bool, received, dropped uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected, s.received, s.dropped
}
