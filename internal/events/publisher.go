package events

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"shopstack/internal/domain"
	"github.com/segmentio/kafka-go"
)

// Event types emitted on the order topic.
const (
	OrderCreated   = "order.created"
	OrderUpdated   = "order.updated"
	OrderCancelled = "order.cancelled"
)

type orderEnvelope struct {
	EventType  string       `json:"eventType"`
	OccurredAt time.Time    `json:"occurredAt"`
	Order      domain.Order `json:"order"`
}

// Publisher writes order lifecycle events to Kafka. Delivery is
// fire-and-forget from the caller's point of view; the order write has
// already committed when an event is published.
type Publisher struct {
	writer *kafka.Writer
	logger *log.Logger
}

// NewPublisher builds a Publisher on the given brokers and topic.
func NewPublisher(brokers []string, topic string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
		logger: logger,
	}
}

// PublishOrderEvent emits one event keyed by order number.
func (p *Publisher) PublishOrderEvent(ctx context.Context, eventType string, o domain.Order) error {
	payload, err := json.Marshal(orderEnvelope{EventType: eventType, OccurredAt: time.Now().UTC(), Order: o})
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(o.OrderNumber),
		Value: payload,
	})
	if err != nil {
		p.logger.Printf("events: publish type=%s number=%s error=%v", eventType, o.OrderNumber, err)
	}
	return err
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
