package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tphakala/fretboard-go/internal/errors"
	"github.com/tphakala/fretboard-go/internal/logger"
)

// AnswerPublisher publishes graded answers to the configured topic
type AnswerPublisher struct {
	client Client
	topic  string
	log    logger.Logger
}

// NewAnswerPublisher wraps client. An empty topic falls back to the default.
func NewAnswerPublisher(client Client, topic string, log logger.Logger) *AnswerPublisher {
	if topic == "" {
		topic = DefaultConfig().Topic
	}
	if log == nil {
		log = logger.Global().Module("mqtt")
	}
	return &AnswerPublisher{client: client, topic: topic, log: log}
}

// Topic returns the topic answers are published to
func (p *AnswerPublisher) Topic() string {
	return p.topic
}

// PublishAnswer sends msg as JSON. A zero Timestamp is set to now.
func (p *AnswerPublisher) PublishAnswer(ctx context.Context, msg AnswerMessage) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryMQTTPublish).
			Context("kind", msg.Kind).
			Build()
	}

	if !p.client.IsConnected() {
		if err := p.client.Connect(ctx); err != nil {
			p.log.Warn("answer not published, broker unavailable",
				logger.String("session_id", msg.SessionID),
				logger.Error(err))
			return err
		}
	}

	return p.client.Publish(ctx, p.topic, string(payload))
}
