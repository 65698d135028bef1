package shopify

import (
	"time"
)

// Order represents a Shopify order webhook payload. Monetary values arrive
// as decimal strings and may be empty on older API versions.
type Order struct {
	ID                    int64          `json:"id"`
	Name                  string         `json:"name"`
	Email                 string         `json:"email"`
	TotalPrice            string         `json:"total_price"`
	CurrentTotalPrice     string         `json:"current_total_price"`
	CurrentTotalDiscounts string         `json:"current_total_discounts"`
	CurrentTotalTax       string         `json:"current_total_tax"`
	Currency              string         `json:"currency"`
	FinancialStatus       string         `json:"financial_status"`
	FulfillmentStatus     *string        `json:"fulfillment_status"`
	SourceName            string         `json:"source_name"`
	OrderNumber           int64          `json:"order_number"`
	Customer              *Customer      `json:"customer"`
	LineItems             []LineItem     `json:"line_items"`
	ShippingLines         []ShippingLine `json:"shipping_lines"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
	CancelledAt           *time.Time     `json:"cancelled_at"`
}

// LineItem represents a purchased item on an order
type LineItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Sku      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Vendor   string `json:"vendor"`
	Taxable  bool   `json:"taxable"`
}

// ShippingLine represents a shipping charge on an order
type ShippingLine struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
	Code  string `json:"code"`
}

// Customer represents the customer attached to an order
type Customer struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Webhook topics handled by the sync pipeline
const (
	TopicOrdersCreate  = "orders/create"
	TopicOrdersUpdated = "orders/updated"
)
