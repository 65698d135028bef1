package events

import (
	"fmt"
	"strconv"

	"ordersync/internal/models"
	"ordersync/internal/services/shopify"

	"gorm.io/gorm"
)

// Store persists received webhook deliveries for monitoring. Writes are
// fire-and-forget from the webhook's point of view; the caller logs a failed
// insert and moves on.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Save records one webhook delivery with its raw payload
func (s *Store) Save(topic string, order *shopify.Order, payload []byte) (*models.WebhookEvent, error) {
	event := &models.WebhookEvent{
		Topic:     topic,
		OrderID:   strconv.FormatInt(order.ID, 10),
		OrderName: order.Name,
		Payload:   string(payload),
	}

	if err := s.db.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to store webhook event: %w", err)
	}
	return event, nil
}

// Recent returns the most recently received events, newest first
func (s *Store) Recent(limit int) ([]models.WebhookEvent, error) {
	var events []models.WebhookEvent
	err := s.db.Order("created_at DESC").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list webhook events: %w", err)
	}
	return events, nil
}

// Get returns a single stored event by ID
func (s *Store) Get(id string) (*models.WebhookEvent, error) {
	var event models.WebhookEvent
	if err := s.db.First(&event, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}
