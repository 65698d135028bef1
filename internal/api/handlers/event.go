package handlers

import (
	"net/http"
	"strconv"

	"ordersync/internal/events"
	"ordersync/internal/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EventHandler struct {
	store  *events.Store
	logger *logger.Logger
}

func NewEventHandler(store *events.Store, logger *logger.Logger) *EventHandler {
	return &EventHandler{
		store:  store,
		logger: logger,
	}
}

// List returns recently received webhook events
func (h *EventHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	list, err := h.store.Recent(limit)
	if err != nil {
		h.logger.Error("Failed to list events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": list,
		"count":  len(list),
	})
}

// Get returns one stored webhook event with its raw payload
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.store.Get(c.Param("id"))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		h.logger.Error("Failed to fetch event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch event"})
		return
	}

	c.JSON(http.StatusOK, event)
}
