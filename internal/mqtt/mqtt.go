// Package mqtt publishes graded exercise answers to an MQTT broker.
package mqtt

import (
	"context"
	"time"

	"github.com/tphakala/fretboard-go/internal/conf"
)

// Client defines the interface for MQTT client operations.
type Client interface {
	// Connect attempts to connect to the MQTT broker.
	Connect(ctx context.Context) error

	// Publish sends a message to the given topic.
	Publish(ctx context.Context, topic string, payload string) error

	// IsConnected reports whether the client currently holds a broker connection.
	IsConnected() bool

	// Disconnect closes the connection to the broker.
	Disconnect()
}

// Config holds the configuration for the MQTT client.
type Config struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string // default topic for answer messages
	Retain   bool
	QoS      byte

	ConnectTimeout    time.Duration
	PublishTimeout    time.Duration
	DisconnectTimeout time.Duration
	MaxReconnectDelay time.Duration
}

// DefaultConfig returns a Config with reasonable default values
func DefaultConfig() Config {
	return Config{
		Broker:            "tcp://localhost:1883",
		ClientID:          "fretboard",
		Topic:             "fretboard/answers",
		QoS:               1,
		ConnectTimeout:    30 * time.Second,
		PublishTimeout:    10 * time.Second,
		DisconnectTimeout: 250 * time.Millisecond,
		MaxReconnectDelay: 2 * time.Minute,
	}
}

// ConfigFromSettings overlays the configured broker settings on DefaultConfig
func ConfigFromSettings(s *conf.MQTTSettings, clientID string) Config {
	cfg := DefaultConfig()
	if s.Broker != "" {
		cfg.Broker = s.Broker
	}
	if s.Topic != "" {
		cfg.Topic = s.Topic
	}
	if clientID != "" {
		cfg.ClientID = clientID
	}
	cfg.Username = s.Username
	cfg.Password = s.Password
	cfg.Retain = s.Retain
	cfg.QoS = s.QoS
	if s.Timeout > 0 {
		cfg.PublishTimeout = s.Timeout
	}
	return cfg
}
