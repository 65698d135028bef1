package bitrix

import (
	"fmt"
	"strconv"
	"strings"

	"ordersync/internal/logger"
	"ordersync/internal/services/shopify"

	"github.com/shopspring/decimal"
)

// Mapper translates a Shopify order into deal fields and product rows. Mapping
// is total: missing or unrecognized order data degrades to defaults and never
// produces an error.
type Mapper struct {
	mappings Mappings
	logger   *logger.Logger
}

func NewMapper(mappings Mappings, logger *logger.Logger) *Mapper {
	return &Mapper{
		mappings: mappings,
		logger:   logger,
	}
}

// MapOrder converts an order to the deal field set and the ordered product
// rows for crm.deal.productrows.set
func (m *Mapper) MapOrder(order *shopify.Order) (DealFields, []ProductRow) {
	fields := DealFields{
		FieldTitle:          m.dealTitle(order),
		FieldOpportunity:    m.OrderAmount(order).InexactFloat64(),
		FieldStageID:        m.StageForStatus(order.FinancialStatus),
		FieldCategoryID:     m.mappings.CategoryID,
		FieldShopifyOrderID: strconv.FormatInt(order.ID, 10),
	}

	if sourceID, ok := m.sourceForName(order.SourceName); ok {
		fields[FieldSourceID] = sourceID
	}

	if order.CurrentTotalDiscounts != "" {
		fields[FieldTotalDiscount] = parseMoney(order.CurrentTotalDiscounts).InexactFloat64()
	}
	if order.CurrentTotalTax != "" {
		fields[FieldTotalTax] = parseMoney(order.CurrentTotalTax).InexactFloat64()
	}

	return fields, m.MapProductRows(order)
}

// MapProductRows builds one row per line item plus a shipping row when the
// order carries a nonzero shipping cost. Row order follows line item order;
// the row replace call is order-sensitive for display.
func (m *Mapper) MapProductRows(order *shopify.Order) []ProductRow {
	rows := make([]ProductRow, 0, len(order.LineItems)+1)

	for _, item := range order.LineItems {
		productID, ok := m.mappings.SKUProducts[item.Sku]
		if !ok {
			m.logger.Warn("No product mapping for SKU %q on order %d, skipping row", item.Sku, order.ID)
			continue
		}
		rows = append(rows, ProductRow{
			ProductID: productID,
			Price:     parseMoney(item.Price).InexactFloat64(),
			Quantity:  item.Quantity,
		})
	}

	shipping := decimal.Zero
	for _, line := range order.ShippingLines {
		shipping = shipping.Add(parseMoney(line.Price))
	}
	if shipping.IsPositive() {
		rows = append(rows, ProductRow{
			ProductID: m.mappings.ShippingProductID,
			Price:     shipping.InexactFloat64(),
			Quantity:  1,
		})
	}

	return rows
}

// OrderAmount returns the deal amount for an order, preferring the current
// total over the original one
func (m *Mapper) OrderAmount(order *shopify.Order) decimal.Decimal {
	if order.CurrentTotalPrice != "" {
		return parseMoney(order.CurrentTotalPrice)
	}
	return parseMoney(order.TotalPrice)
}

// StageForStatus maps a financial status to a pipeline stage ID
func (m *Mapper) StageForStatus(financialStatus string) string {
	if stageID, ok := m.mappings.Stages[strings.ToLower(financialStatus)]; ok {
		return stageID
	}
	return m.mappings.DefaultStageID
}

// PaidStage returns the stage a deal advances to once its order is paid
func (m *Mapper) PaidStage() string {
	return m.mappings.PaidStageID
}

func (m *Mapper) sourceForName(sourceName string) (string, bool) {
	sourceID, ok := m.mappings.Sources[strings.ToLower(sourceName)]
	return sourceID, ok
}

func (m *Mapper) dealTitle(order *shopify.Order) string {
	if order.Name != "" {
		return fmt.Sprintf("Shopify order %s", order.Name)
	}
	return fmt.Sprintf("Shopify order %d", order.ID)
}

// parseMoney normalizes a Shopify decimal string. Empty or malformed values
// degrade to zero rather than failing the mapping.
func parseMoney(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}
