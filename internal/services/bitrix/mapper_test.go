package bitrix

import (
	"testing"

	"ordersync/internal/logger"
	"ordersync/internal/services/shopify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMapper() *Mapper {
	return NewMapper(DefaultMappings(), logger.New("error"))
}

func TestMapOrderAmount(t *testing.T) {
	m := testMapper()

	tests := []struct {
		name         string
		currentTotal string
		total        string
		want         float64
	}{
		{"prefers current total price", "150.00", "175.00", 150.00},
		{"falls back to total price", "", "175.00", 175.00},
		{"defaults to zero when both absent", "", "", 0},
		{"malformed value degrades to zero", "abc", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &shopify.Order{ID: 1001, CurrentTotalPrice: tt.currentTotal, TotalPrice: tt.total}
			fields, _ := m.MapOrder(order)
			assert.Equal(t, tt.want, fields[FieldOpportunity])
		})
	}
}

func TestMapOrderStage(t *testing.T) {
	m := testMapper()

	tests := []struct {
		status string
		want   string
	}{
		{"paid", "WON"},
		{"pending", "NEW"},
		{"refunded", "LOSE"},
		{"cancelled", "LOSE"},
		{"partially_paid", "NEW"},
		{"partially_refunded", "LOSE"},
		{"voided", "LOSE"},
		{"PAID", "WON"},
		{"authorized", "NEW"},
		{"", "NEW"},
	}

	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			fields, _ := m.MapOrder(&shopify.Order{ID: 1, FinancialStatus: tt.status})
			assert.Equal(t, tt.want, fields[FieldStageID])
		})
	}
}

func TestMapOrderSource(t *testing.T) {
	m := testMapper()

	fields, _ := m.MapOrder(&shopify.Order{ID: 1, SourceName: "shopify"})
	assert.Equal(t, "WEB", fields[FieldSourceID])

	// Unmapped sources must not produce an invalid SOURCE_ID
	fields, _ = m.MapOrder(&shopify.Order{ID: 1, SourceName: "instagram"})
	_, present := fields[FieldSourceID]
	assert.False(t, present)
}

func TestMapOrderCorrelationKey(t *testing.T) {
	m := testMapper()

	fields, _ := m.MapOrder(&shopify.Order{ID: 450789469})
	assert.Equal(t, "450789469", fields[FieldShopifyOrderID])
}

func TestMapOrderDiscountAndTax(t *testing.T) {
	m := testMapper()

	fields, _ := m.MapOrder(&shopify.Order{
		ID:                    1,
		CurrentTotalDiscounts: "10.00",
		CurrentTotalTax:       "3.25",
	})
	assert.Equal(t, 10.00, fields[FieldTotalDiscount])
	assert.Equal(t, 3.25, fields[FieldTotalTax])

	fields, _ = m.MapOrder(&shopify.Order{ID: 1})
	_, hasDiscount := fields[FieldTotalDiscount]
	_, hasTax := fields[FieldTotalTax]
	assert.False(t, hasDiscount)
	assert.False(t, hasTax)
}

func TestMapProductRows(t *testing.T) {
	m := testMapper()

	order := &shopify.Order{
		ID: 1001,
		LineItems: []shopify.LineItem{
			{Sku: "ALB0002", Quantity: 2, Price: "50.00"},
			{Sku: "ALB0005", Quantity: 1, Price: "75.00"},
		},
	}

	rows := m.MapProductRows(order)
	require.Len(t, rows, 2)

	// Row order must follow line item order
	assert.Equal(t, int64(3562), rows[0].ProductID)
	assert.Equal(t, 2, rows[0].Quantity)
	assert.Equal(t, 50.00, rows[0].Price)
	assert.Equal(t, int64(3564), rows[1].ProductID)
}

func TestMapProductRowsSkipsUnmappedSKU(t *testing.T) {
	m := testMapper()

	order := &shopify.Order{
		ID: 1001,
		LineItems: []shopify.LineItem{
			{Sku: "UNKNOWN-SKU", Quantity: 1, Price: "99.00"},
			{Sku: "ALB0002", Quantity: 1, Price: "50.00"},
		},
	}

	rows := m.MapProductRows(order)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3562), rows[0].ProductID)
}

func TestMapProductRowsShipping(t *testing.T) {
	m := testMapper()

	order := &shopify.Order{
		ID: 1001,
		LineItems: []shopify.LineItem{
			{Sku: "ALB0002", Quantity: 1, Price: "50.00"},
		},
		ShippingLines: []shopify.ShippingLine{
			{Title: "Standard", Price: "7.50"},
			{Title: "Surcharge", Price: "2.50"},
		},
	}

	rows := m.MapProductRows(order)
	require.Len(t, rows, 2)

	shipping := rows[len(rows)-1]
	assert.Equal(t, int64(3000), shipping.ProductID)
	assert.Equal(t, 1, shipping.Quantity)
	assert.Equal(t, 10.00, shipping.Price)
}

func TestMapProductRowsNoShippingRowForFreeShipping(t *testing.T) {
	m := testMapper()

	order := &shopify.Order{
		ID: 1001,
		LineItems: []shopify.LineItem{
			{Sku: "ALB0002", Quantity: 1, Price: "50.00"},
		},
		ShippingLines: []shopify.ShippingLine{
			{Title: "Free", Price: "0.00"},
		},
	}

	rows := m.MapProductRows(order)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(3562), rows[0].ProductID)
}

func TestMapOrderTitle(t *testing.T) {
	m := testMapper()

	fields, _ := m.MapOrder(&shopify.Order{ID: 1001, Name: "#1001"})
	assert.Equal(t, "Shopify order #1001", fields[FieldTitle])

	fields, _ = m.MapOrder(&shopify.Order{ID: 1001})
	assert.Equal(t, "Shopify order 1001", fields[FieldTitle])
}

func TestMapOrderIsPure(t *testing.T) {
	m := testMapper()

	order := &shopify.Order{
		ID:                1001,
		Name:              "#1001",
		CurrentTotalPrice: "150.00",
		FinancialStatus:   "paid",
		LineItems: []shopify.LineItem{
			{Sku: "ALB0002", Quantity: 2, Price: "50.00"},
		},
	}

	first, firstRows := m.MapOrder(order)
	second, secondRows := m.MapOrder(order)
	assert.Equal(t, first, second)
	assert.Equal(t, firstRows, secondRows)
}
