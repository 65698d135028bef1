package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// OrderEvent is the envelope published for each accepted webhook delivery.
// Consumers (the replay worker) re-run the synchronizer from it.
type OrderEvent struct {
	Topic     string          `json:"topic"`
	OrderID   string          `json:"order_id"`
	Order     json.RawMessage `json:"order"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher writes order events to Kafka. Publishing is best-effort: the
// webhook response never depends on it.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
	}

	return &Publisher{writer: writer}
}

// Publish sends one order event, keyed by order ID so deliveries for the same
// order stay in partition order
func (p *Publisher) Publish(topic, orderID string, payload []byte) error {
	event := OrderEvent{
		Topic:     topic,
		OrderID:   orderID,
		Order:     payload,
		Timestamp: time.Now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orderID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
