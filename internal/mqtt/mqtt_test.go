package mqtt

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/fretboard-go/internal/conf"
	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/logger"
	"github.com/tphakala/fretboard-go/internal/observability/metrics"
)

// fakeClient records published messages in memory
type fakeClient struct {
	mu         sync.Mutex
	connected  bool
	connectErr error
	publishErr error
	connects   int
	messages   map[string][]string
}

func newFakeClient() *fakeClient {
	return &fakeClient{messages: make(map[string][]string)}
}

func (f *fakeClient) Connect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeClient) Publish(_ context.Context, topic, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.messages[topic] = append(f.messages[topic], payload)
	return nil
}

func (f *fakeClient) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakeClient) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
}

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

func TestConfigFromSettings(t *testing.T) {
	t.Parallel()

	cfg := ConfigFromSettings(&conf.MQTTSettings{
		Broker:   "tcp://broker:1883",
		Topic:    "lessons/answers",
		Username: "fret",
		Password: "board",
		Retain:   true,
		QoS:      2,
		Timeout:  3 * time.Second,
	}, "fretboard-test")

	assert.Equal(t, "tcp://broker:1883", cfg.Broker)
	assert.Equal(t, "lessons/answers", cfg.Topic)
	assert.Equal(t, "fretboard-test", cfg.ClientID)
	assert.Equal(t, "fret", cfg.Username)
	assert.True(t, cfg.Retain)
	assert.Equal(t, byte(2), cfg.QoS)
	assert.Equal(t, 3*time.Second, cfg.PublishTimeout)
	assert.Equal(t, DefaultConfig().ConnectTimeout, cfg.ConnectTimeout)

	empty := ConfigFromSettings(&conf.MQTTSettings{}, "")
	assert.Equal(t, DefaultConfig().Broker, empty.Broker)
	assert.Equal(t, DefaultConfig().Topic, empty.Topic)
	assert.Equal(t, "fretboard", empty.ClientID)
}

func TestNewClientValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{}, testLogger(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	cfg := DefaultConfig()
	cfg.QoS = 3
	_, err = NewClient(cfg, testLogger(), nil)
	require.Error(t, err)

	c, err := NewClient(DefaultConfig(), testLogger(), nil)
	require.NoError(t, err)
	assert.False(t, c.IsConnected())
	c.Disconnect() // no-op before Connect
}

func TestPublishWithoutConnection(t *testing.T) {
	t.Parallel()

	registry := prometheus.NewRegistry()
	m, err := metrics.NewMQTTMetrics(registry)
	require.NoError(t, err)

	c, err := NewClient(DefaultConfig(), testLogger(), m)
	require.NoError(t, err)

	err = c.Publish(t.Context(), "fretboard/answers", "{}")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryMQTTConnection))
	count, err := testutil.GatherAndCount(registry, "mqtt_connection_errors_total", "mqtt_publishes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "only the connection error series exists")
	require.NoError(t, testutil.GatherAndCompare(registry, strings.NewReader(`
# HELP mqtt_connection_errors_total Lost connections and publishes attempted while disconnected
# TYPE mqtt_connection_errors_total counter
mqtt_connection_errors_total 1
`), "mqtt_connection_errors_total"))
}

func TestPublishAnswer(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	p := NewAnswerPublisher(fc, "lessons/answers", testLogger())
	assert.Equal(t, "lessons/answers", p.Topic())

	err := p.PublishAnswer(t.Context(), AnswerMessage{
		SessionID: "abc",
		Kind:      "mark-note",
		Question:  "Mark all C notes",
		Root:      "A",
		Scale:     "1-b3-4-5-b7",
		Tuning:    "E-A-D-G-B-E",
		Expected:  2,
		Selected:  2,
		Correct:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fc.connects, "publisher connects a disconnected client")

	require.Len(t, fc.messages["lessons/answers"], 1)
	var got AnswerMessage
	require.NoError(t, json.Unmarshal([]byte(fc.messages["lessons/answers"][0]), &got))
	assert.Equal(t, "abc", got.SessionID)
	assert.True(t, got.Correct)
	assert.False(t, got.Timestamp.IsZero())

	require.NoError(t, p.PublishAnswer(t.Context(), AnswerMessage{Kind: "mark-degree"}))
	assert.Equal(t, 1, fc.connects, "connected client is reused")
	assert.Len(t, fc.messages["lessons/answers"], 2)
}

func TestPublishAnswerErrors(t *testing.T) {
	t.Parallel()

	fc := newFakeClient()
	fc.connectErr = errors.NewStd("connection refused")
	p := NewAnswerPublisher(fc, "", testLogger())
	assert.Equal(t, DefaultConfig().Topic, p.Topic())

	err := p.PublishAnswer(t.Context(), AnswerMessage{Kind: "mark-note"})
	require.Error(t, err)
	assert.Empty(t, fc.messages)

	fc = newFakeClient()
	fc.connected = true
	fc.publishErr = errors.NewStd("broker closed")
	p = NewAnswerPublisher(fc, "t", testLogger())
	require.Error(t, p.PublishAnswer(t.Context(), AnswerMessage{}))
}
