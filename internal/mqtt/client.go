package mqtt

import (
	"context"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/observability/metrics"
)

// client implements Client on top of the paho library.
type client struct {
	config  Config
	log     logger.Logger
	metrics *metrics.MQTTMetrics

	mu             sync.Mutex
	internalClient paho.Client
}

// NewClient creates a Client. metrics may be nil.
func NewClient(cfg Config, log logger.Logger, m *metrics.MQTTMetrics) (Client, error) {
	if cfg.Broker == "" {
		return nil, errors.Newf("mqtt broker is not configured").
			Component("mqtt").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if cfg.QoS > 2 {
		return nil, errors.Newf("mqtt qos must be 0, 1 or 2, got %d", cfg.QoS).
			Component("mqtt").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if log == nil {
		log = logger.Global().Module("mqtt")
	}
	return &client{config: cfg, log: log, metrics: m}, nil
}

// Connect connects to the broker. Lost connections are re-established by paho.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.internalClient != nil && c.internalClient.IsConnected() {
		return nil
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(c.config.Broker)
	opts.SetClientID(c.config.ClientID)
	opts.SetUsername(c.config.Username)
	opts.SetPassword(c.config.Password)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(c.config.MaxReconnectDelay)
	opts.SetConnectTimeout(c.config.ConnectTimeout)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	opts.SetReconnectingHandler(c.onReconnecting)

	c.internalClient = paho.NewClient(opts)

	c.log.Info("connecting to mqtt broker",
		logger.String("broker", c.config.Broker),
		logger.String("client_id", c.config.ClientID))

	token := c.internalClient.Connect()
	if err := c.wait(ctx, token, c.config.ConnectTimeout); err != nil {
		if c.metrics != nil {
			c.metrics.RecordConnectionError()
		}
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTTConnection).
			Context("broker", c.config.Broker).
			Build()
	}
	return nil
}

// Publish sends payload to topic with the configured QoS and retain flag
func (c *client) Publish(ctx context.Context, topic, payload string) error {
	c.mu.Lock()
	pc := c.internalClient
	c.mu.Unlock()

	if pc == nil || !pc.IsConnected() {
		if c.metrics != nil {
			c.metrics.RecordConnectionError()
		}
		return errors.Newf("mqtt client is not connected").
			Component("mqtt").
			Category(errors.CategoryMQTTConnection).
			Context("topic", topic).
			Build()
	}

	start := time.Now()
	token := pc.Publish(topic, c.config.QoS, c.config.Retain, payload)
	err := c.wait(ctx, token, c.config.PublishTimeout)
	if c.metrics != nil {
		c.metrics.ObservePublish(len(payload), time.Since(start), err)
	}
	if err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTTPublish).
			Context("topic", topic).
			Context("payload_bytes", len(payload)).
			Build()
	}

	c.log.Debug("published message",
		logger.String("topic", topic),
		logger.Int("payload_bytes", len(payload)))
	return nil
}

// IsConnected reports whether paho holds a live connection
func (c *client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.internalClient != nil && c.internalClient.IsConnected()
}

// Disconnect closes the connection, waiting DisconnectTimeout for in-flight work
func (c *client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.internalClient == nil {
		return
	}
	c.internalClient.Disconnect(uint(c.config.DisconnectTimeout.Milliseconds()))
	c.internalClient = nil
	if c.metrics != nil {
		c.metrics.SetConnected(false)
	}
	c.log.Info("disconnected from mqtt broker")
}

// wait blocks until token completes, the timeout passes or ctx is done
func (c *client) wait(ctx context.Context, token paho.Token, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultConfig().PublishTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-timer.C:
		return errors.Newf("mqtt operation timed out after %s", timeout).
			Component("mqtt").
			Category(errors.CategoryNetwork).
			Build()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *client) onConnect(paho.Client) {
	c.log.Info("connected to mqtt broker", logger.String("broker", c.config.Broker))
	if c.metrics != nil {
		c.metrics.SetConnected(true)
	}
}

func (c *client) onConnectionLost(_ paho.Client, err error) {
	c.log.Warn("mqtt connection lost", logger.Error(err))
	if c.metrics != nil {
		c.metrics.SetConnected(false)
		c.metrics.RecordConnectionError()
	}
}

func (c *client) onReconnecting(paho.Client, *paho.ClientOptions) {
	c.log.Debug("reconnecting to mqtt broker", logger.String("broker", c.config.Broker))
	if c.metrics != nil {
		c.metrics.RecordReconnect()
	}
}
