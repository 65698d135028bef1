package events

import (
	"testing"
	"time"

	"ordersync/internal/models"
	"ordersync/internal/services/shopify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.WebhookEvent{}))
	return NewStore(db)
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)

	order := &shopify.Order{ID: 1001, Name: "#1001"}
	payload := []byte(`{"id":1001,"name":"#1001"}`)

	event, err := store.Save("orders/create", order, payload)
	require.NoError(t, err)
	require.NotEmpty(t, event.ID)
	assert.Equal(t, "1001", event.OrderID)
	assert.Equal(t, "#1001", event.OrderName)

	fetched, err := store.Get(event.ID)
	require.NoError(t, err)
	assert.Equal(t, string(payload), fetched.Payload)
	assert.Equal(t, "orders/create", fetched.Topic)
}

func TestStoreRecent(t *testing.T) {
	store := newTestStore(t)

	for i, topic := range []string{"orders/create", "orders/updated", "orders/updated"} {
		event := &models.WebhookEvent{
			Topic:     topic,
			OrderID:   "1001",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.db.Create(event).Error)
	}

	list, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first
	assert.Equal(t, "orders/updated", list[0].Topic)
}

func TestStoreGetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("b5ad5fbe-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
