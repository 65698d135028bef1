package worker

import (
	"context"
	"encoding/json"
	"time"

	"ordersync/internal/config"
	"ordersync/internal/events"
	"ordersync/internal/logger"
	"ordersync/internal/services/bitrix"
	"ordersync/internal/services/shopify"

	"github.com/segmentio/kafka-go"
)

// Worker consumes order events from Kafka and re-runs the deal synchronizer
// on them. Processing errors are logged and the loop continues; correctness
// under at-least-once delivery comes from the synchronizer's idempotent
// recomputation, not from offset management.
type Worker struct {
	config *config.Config
	logger *logger.Logger
	reader *kafka.Reader
	sync   *bitrix.SyncService
}

func New(cfg *config.Config, logger *logger.Logger, sync *bitrix.SyncService) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "ordersync-worker",
		Topic:          cfg.KafkaTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: logger,
		reader: reader,
		sync:   sync,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for order events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		var event events.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse order event: %v", err)
			continue
		}

		if err := w.process(event); err != nil {
			w.logger.Error("Failed to process order event for order %s: %v", event.OrderID, err)
			continue
		}

		w.logger.Debug("Order event processed successfully")
	}
}

func (w *Worker) process(event events.OrderEvent) error {
	var order shopify.Order
	if err := json.Unmarshal(event.Order, &order); err != nil {
		return err
	}

	switch event.Topic {
	case shopify.TopicOrdersCreate:
		_, err := w.sync.OnOrderCreated(&order)
		return err
	case shopify.TopicOrdersUpdated:
		_, err := w.sync.OnOrderUpdated(&order)
		return err
	default:
		w.logger.Debug("Skipping event with topic %s", event.Topic)
		return nil
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
