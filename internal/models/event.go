package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WebhookEvent is one received Shopify webhook delivery, kept for monitoring.
// The payload column stores the raw order document as delivered.
type WebhookEvent struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key"`
	Topic     string    `json:"topic" gorm:"not null"`
	OrderID   string    `json:"order_id" gorm:"index"`
	OrderName string    `json:"order_name"`
	Payload   string    `json:"payload" gorm:"type:jsonb"`
	CreatedAt time.Time `json:"created_at"`
}

func (e *WebhookEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
