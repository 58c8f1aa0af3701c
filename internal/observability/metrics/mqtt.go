// Package metrics provides custom Prometheus metrics for the fretboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MQTTMetrics tracks the broker connection and the answers published over it
type MQTTMetrics struct {
	connected      prometheus.Gauge
	lastConnect    prometheus.Gauge
	publishes      *prometheus.CounterVec
	connErrors     prometheus.Counter
	reconnects     prometheus.Counter
	payloadBytes   prometheus.Histogram
	publishLatency prometheus.Histogram
}

// NewMQTTMetrics creates and registers MQTT metrics
func NewMQTTMetrics(registry *prometheus.Registry) (*MQTTMetrics, error) {
	m := &MQTTMetrics{
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mqtt_connection_status",
			Help: "1 while connected to the MQTT broker, 0 otherwise",
		}),
		lastConnect: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mqtt_last_connect_time_seconds",
			Help: "Unix time of the last successful broker connection",
		}),
		publishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mqtt_publishes_total",
			Help: "Answer messages published, by outcome",
		}, []string{"status"}),
		connErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_connection_errors_total",
			Help: "Lost connections and publishes attempted while disconnected",
		}),
		reconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_reconnect_attempts_total",
			Help: "Automatic reconnect attempts",
		}),
		payloadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mqtt_message_size_bytes",
			Help:    "Size of published answer messages",
			Buckets: prometheus.ExponentialBuckets(BucketStart64B, BucketFactor2, BucketCount10),
		}),
		publishLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mqtt_publish_latency_seconds",
			Help:    "Time until the broker acknowledged a publish",
			Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount10),
		}),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// SetConnected records a connection state change
func (m *MQTTMetrics) SetConnected(connected bool) {
	if !connected {
		m.connected.Set(0)
		return
	}
	m.connected.Set(1)
	m.lastConnect.SetToCurrentTime()
}

// ObservePublish records one publish attempt that reached the broker
func (m *MQTTMetrics) ObservePublish(payloadBytes int, elapsed time.Duration, err error) {
	m.publishLatency.Observe(elapsed.Seconds())
	if err != nil {
		m.publishes.WithLabelValues(StatusError).Inc()
		return
	}
	m.publishes.WithLabelValues(StatusSuccess).Inc()
	m.payloadBytes.Observe(float64(payloadBytes))
}

func (m *MQTTMetrics) RecordConnectionError() {
	m.connErrors.Inc()
}

func (m *MQTTMetrics) RecordReconnect() {
	m.reconnects.Inc()
}

func (m *MQTTMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.connected, m.lastConnect, m.publishes, m.connErrors,
		m.reconnects, m.payloadBytes, m.publishLatency,
	}
}

// Describe implements the prometheus.Collector interface.
func (m *MQTTMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements the prometheus.Collector interface.
func (m *MQTTMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}
