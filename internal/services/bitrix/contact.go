package bitrix

import (
	"strconv"

	"ordersync/internal/logger"
	"ordersync/internal/services/shopify"
)

// ContactResolver finds or creates the CRM contact for an order's customer.
// Resolution is best-effort: every failure is logged and reported as a miss so
// deal creation never blocks on contact sync.
type ContactResolver struct {
	api    API
	logger *logger.Logger
}

func NewContactResolver(api API, logger *logger.Logger) *ContactResolver {
	return &ContactResolver{
		api:    api,
		logger: logger,
	}
}

// Resolve returns the contact ID for the order's customer, creating the
// contact if it does not exist. The second return value reports whether a
// contact was resolved.
func (r *ContactResolver) Resolve(order *shopify.Order) (string, bool) {
	email, phone := customerIdentity(order)
	if email == "" && phone == "" {
		r.logger.Debug("Order %d has no customer email or phone, skipping contact sync", order.ID)
		return "", false
	}

	filter := map[string]string{}
	if email != "" {
		filter["EMAIL"] = email
	} else {
		filter["PHONE"] = phone
	}

	contacts, err := r.api.ContactList(filter, []string{"ID"})
	if err != nil {
		r.logger.Warn("Contact lookup failed for order %d: %v", order.ID, err)
		return "", false
	}
	if len(contacts) > 0 {
		return contacts[0].ID, true
	}

	contactID, err := r.api.ContactAdd(r.contactFields(order, email, phone))
	if err != nil {
		r.logger.Warn("Contact create failed for order %d: %v", order.ID, err)
		return "", false
	}

	r.logger.Info("Created contact %d for order %d", contactID, order.ID)
	return strconv.FormatInt(contactID, 10), true
}

func (r *ContactResolver) contactFields(order *shopify.Order, email, phone string) map[string]interface{} {
	fields := map[string]interface{}{}

	if c := order.Customer; c != nil {
		if c.FirstName != "" {
			fields["NAME"] = c.FirstName
		}
		if c.LastName != "" {
			fields["LAST_NAME"] = c.LastName
		}
	}
	if _, ok := fields["NAME"]; !ok {
		fields["NAME"] = email
	}

	if email != "" {
		fields["EMAIL"] = []Multifield{{Value: email, ValueType: "WORK"}}
	}
	if phone != "" {
		fields["PHONE"] = []Multifield{{Value: phone, ValueType: "WORK"}}
	}

	return fields
}

// customerIdentity picks the identifying attributes from the order, falling
// back to the order-level email when no customer object is attached
func customerIdentity(order *shopify.Order) (email, phone string) {
	if c := order.Customer; c != nil {
		email = c.Email
		phone = c.Phone
	}
	if email == "" {
		email = order.Email
	}
	return email, phone
}
