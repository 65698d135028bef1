package worker

import (
	"encoding/json"
	"testing"
	"time"

	"ordersync/internal/events"
	"ordersync/internal/logger"
	"ordersync/internal/services/bitrix"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	added   []bitrix.DealFields
	updated []bitrix.DealFields
	deals   []bitrix.Deal
}

func (f *fakeAPI) DealAdd(fields bitrix.DealFields) (int64, error) {
	f.added = append(f.added, fields)
	return 42, nil
}

func (f *fakeAPI) DealUpdate(dealID string, fields bitrix.DealFields) error {
	f.updated = append(f.updated, fields)
	return nil
}

func (f *fakeAPI) DealList(filter map[string]string, selectFields []string) ([]bitrix.Deal, error) {
	return f.deals, nil
}

func (f *fakeAPI) DealProductRowsSet(dealID string, rows []bitrix.ProductRow) error {
	return nil
}

func (f *fakeAPI) ContactList(filter map[string]string, selectFields []string) ([]bitrix.Contact, error) {
	return nil, nil
}

func (f *fakeAPI) ContactAdd(fields map[string]interface{}) (int64, error) {
	return 0, nil
}

func newTestWorker(api *fakeAPI) *Worker {
	log := logger.New("error")
	mapper := bitrix.NewMapper(bitrix.DefaultMappings(), log)
	contacts := bitrix.NewContactResolver(api, log)
	return &Worker{
		logger: log,
		sync:   bitrix.NewSyncService(api, mapper, contacts, log),
	}
}

func orderEvent(t *testing.T, topic string, order string) events.OrderEvent {
	t.Helper()
	return events.OrderEvent{
		Topic:     topic,
		OrderID:   "1001",
		Order:     json.RawMessage(order),
		Timestamp: time.Now(),
	}
}

func TestProcessOrderCreated(t *testing.T) {
	api := &fakeAPI{}
	w := newTestWorker(api)

	err := w.process(orderEvent(t, "orders/create", `{"id":1001,"current_total_price":"150.00","financial_status":"paid"}`))
	require.NoError(t, err)
	require.Len(t, api.added, 1)
	assert.Equal(t, 150.00, api.added[0][bitrix.FieldOpportunity])
}

func TestProcessOrderUpdated(t *testing.T) {
	api := &fakeAPI{deals: []bitrix.Deal{{ID: "42", Opportunity: "120.00"}}}
	w := newTestWorker(api)

	err := w.process(orderEvent(t, "orders/updated", `{"id":1001,"current_total_price":"150.00","financial_status":"paid"}`))
	require.NoError(t, err)
	require.Len(t, api.updated, 1)
}

func TestProcessUnknownTopicIsSkipped(t *testing.T) {
	api := &fakeAPI{}
	w := newTestWorker(api)

	err := w.process(orderEvent(t, "orders/delete", `{"id":1001}`))
	require.NoError(t, err)
	assert.Empty(t, api.added)
	assert.Empty(t, api.updated)
}

func TestProcessMalformedOrder(t *testing.T) {
	api := &fakeAPI{}
	w := newTestWorker(api)

	err := w.process(orderEvent(t, "orders/create", `{not json`))
	assert.Error(t, err)
	assert.Empty(t, api.added)
}
