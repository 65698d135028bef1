package bitrix

// Deal field names used by the sync pipeline. UF_* fields are user fields
// that must exist on the deal entity in the target portal.
const (
	FieldOpportunity    = "OPPORTUNITY"
	FieldStageID        = "STAGE_ID"
	FieldSourceID       = "SOURCE_ID"
	FieldCategoryID     = "CATEGORY_ID"
	FieldTitle          = "TITLE"
	FieldContactID      = "CONTACT_ID"
	FieldShopifyOrderID = "UF_SHOPIFY_ORDER_ID"
	FieldPaymentStatus  = "UF_CRM_PAYMENT_STATUS"
	FieldTotalDiscount  = "UF_SHOPIFY_TOTAL_DISCOUNT"
	FieldTotalTax       = "UF_SHOPIFY_TOTAL_TAX"
)

// Payment status values written to UF_CRM_PAYMENT_STATUS
const (
	PaymentStatusPaid    = "PAID"
	PaymentStatusNotPaid = "NOT_PAID"
)

// DealFields is the partial field set sent to crm.deal.add / crm.deal.update.
// Bitrix accepts arbitrary user fields, so a map keeps the update path free
// to omit unchanged fields.
type DealFields map[string]interface{}

// ProductRow is one line entry attached to a deal via crm.deal.productrows.set
type ProductRow struct {
	ProductID int64   `json:"PRODUCT_ID"`
	Price     float64 `json:"PRICE"`
	Quantity  int     `json:"QUANTITY"`
}

// Deal is the subset of deal fields selected on the update path. Bitrix list
// responses serialize everything as strings.
type Deal struct {
	ID          string `json:"ID"`
	Opportunity string `json:"OPPORTUNITY"`
	StageID     string `json:"STAGE_ID"`
}

// Contact is the subset of contact fields selected during resolution
type Contact struct {
	ID string `json:"ID"`
}

// Multifield is the VALUE/VALUE_TYPE pair Bitrix uses for emails and phones
type Multifield struct {
	Value     string `json:"VALUE"`
	ValueType string `json:"VALUE_TYPE"`
}

// Mappings holds the static translation tables from Shopify enums to portal
// specific codes. Immutable for the process lifetime; injected at construction.
type Mappings struct {
	CategoryID        int
	Stages            map[string]string
	DefaultStageID    string
	PaidStageID       string
	Sources           map[string]string
	SKUProducts       map[string]int64
	ShippingProductID int64
}

// DefaultMappings returns the mapping tables for the production portal
func DefaultMappings() Mappings {
	return Mappings{
		CategoryID: 0,
		Stages: map[string]string{
			"paid":               "WON",
			"pending":            "NEW",
			"refunded":           "LOSE",
			"cancelled":          "LOSE",
			"partially_paid":     "NEW",
			"partially_refunded": "LOSE",
			"voided":             "LOSE",
		},
		DefaultStageID: "NEW",
		PaidStageID:    "WON",
		Sources: map[string]string{
			"shopify_draft_order": "WEB",
			"shopify":             "WEB",
			"web":                 "WEB",
			"pos":                 "WEB",
		},
		SKUProducts: map[string]int64{
			"ALB0002": 3562,
			"ALB0005": 3564,
		},
		ShippingProductID: 3000,
	}
}
