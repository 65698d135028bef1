package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ordersync/internal/logger"
	"ordersync/internal/models"
	"ordersync/internal/services/shopify"

	"github.com/gin-gonic/gin"
)

// OrderSynchronizer reconciles CRM deals with order lifecycle events
type OrderSynchronizer interface {
	OnOrderCreated(order *shopify.Order) (string, error)
	OnOrderUpdated(order *shopify.Order) (string, error)
}

// EventRecorder persists webhook deliveries for monitoring
type EventRecorder interface {
	Save(topic string, order *shopify.Order, payload []byte) (*models.WebhookEvent, error)
}

// EventPublisher forwards accepted deliveries to downstream consumers
type EventPublisher interface {
	Publish(topic, orderID string, payload []byte) error
}

type WebhookHandler struct {
	sync      OrderSynchronizer
	recorder  EventRecorder
	publisher EventPublisher
	logger    *logger.Logger
}

// NewWebhookHandler wires the webhook endpoint. recorder and publisher may be
// nil; both are best-effort side channels.
func NewWebhookHandler(sync OrderSynchronizer, recorder EventRecorder, publisher EventPublisher, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		sync:      sync,
		recorder:  recorder,
		publisher: publisher,
		logger:    logger,
	}
}

// Webhook handles Shopify order webhooks. Only a failure of the primary deal
// create/lookup step produces a failure response; side-channel and auxiliary
// failures still acknowledge the delivery so Shopify does not redeliver.
func (h *WebhookHandler) Webhook(c *gin.Context) {
	topic := c.GetHeader("X-Shopify-Topic")
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing X-Shopify-Topic header"})
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	var order shopify.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		h.logger.Error("Failed to parse order payload for topic %s: %v", topic, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
		return
	}

	h.logger.Info("Webhook received: topic=%s order=%s (%d)", topic, order.Name, order.ID)

	h.recordEvent(topic, &order, payload)

	switch topic {
	case shopify.TopicOrdersCreate:
		dealID, err := h.sync.OnOrderCreated(&order)
		if err != nil {
			h.logger.Error("Failed to process order created: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deal created", "deal_id": dealID})

	case shopify.TopicOrdersUpdated:
		dealID, err := h.sync.OnOrderUpdated(&order)
		if err != nil {
			h.logger.Error("Failed to process order updated: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook"})
			return
		}
		if dealID == "" {
			c.JSON(http.StatusOK, gin.H{"message": "No deal tracked for order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Deal updated", "deal_id": dealID})

	default:
		h.logger.Debug("Unhandled webhook topic: %s", topic)
		c.JSON(http.StatusOK, gin.H{"message": "Webhook received but not processed"})
	}
}

// recordEvent stores and publishes the delivery. Neither failure affects the
// webhook outcome.
func (h *WebhookHandler) recordEvent(topic string, order *shopify.Order, payload []byte) {
	if h.recorder != nil {
		if _, err := h.recorder.Save(topic, order, payload); err != nil {
			h.logger.Warn("Failed to store webhook event: %v", err)
		}
	}

	if h.publisher != nil {
		orderID := strconv.FormatInt(order.ID, 10)
		if err := h.publisher.Publish(topic, orderID, payload); err != nil {
			h.logger.Warn("Failed to publish order event: %v", err)
		}
	}
}
