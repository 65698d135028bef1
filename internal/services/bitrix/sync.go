package bitrix

import (
	"fmt"
	"strconv"
	"strings"

	"ordersync/internal/logger"
	"ordersync/internal/services/shopify"
)

// API is the subset of the Bitrix REST surface the sync pipeline depends on.
// *Client satisfies it; tests substitute a fake.
type API interface {
	DealAdd(fields DealFields) (int64, error)
	DealUpdate(dealID string, fields DealFields) error
	DealList(filter map[string]string, selectFields []string) ([]Deal, error)
	DealProductRowsSet(dealID string, rows []ProductRow) error
	ContactList(filter map[string]string, selectFields []string) ([]Contact, error)
	ContactAdd(fields map[string]interface{}) (int64, error)
}

// SyncService keeps Bitrix deals consistent with their Shopify orders. Exactly
// one deal correlates to an order through UF_SHOPIFY_ORDER_ID.
//
// Only the primary deal create/lookup step may fail the call. Contact
// resolution, product row sync and similar auxiliary steps absorb their own
// failures, so a partially applied update (fields written, rows not) is an
// accepted end state. Repeated delivery of the same order snapshot is
// idempotent on field values.
type SyncService struct {
	api      API
	mapper   *Mapper
	contacts *ContactResolver
	logger   *logger.Logger
}

func NewSyncService(api API, mapper *Mapper, contacts *ContactResolver, logger *logger.Logger) *SyncService {
	return &SyncService{
		api:      api,
		mapper:   mapper,
		contacts: contacts,
		logger:   logger,
	}
}

// OnOrderCreated creates the deal for a new order and returns its ID
func (s *SyncService) OnOrderCreated(order *shopify.Order) (string, error) {
	s.logger.Info("Handling order created: %s (%d)", order.Name, order.ID)

	fields, rows := s.mapper.MapOrder(order)

	if contactID, ok := s.contacts.Resolve(order); ok {
		fields[FieldContactID] = contactID
	}

	newID, err := s.api.DealAdd(fields)
	if err != nil {
		return "", fmt.Errorf("failed to create deal for order %d: %w", order.ID, err)
	}
	dealID := strconv.FormatInt(newID, 10)
	s.logger.Info("Deal %s created for order %d", dealID, order.ID)

	if len(rows) > 0 {
		if err := s.api.DealProductRowsSet(dealID, rows); err != nil {
			// Deal already exists, which is the durable result of this call
			s.logger.Warn("Product rows set failed for deal %s: %v", dealID, err)
		} else {
			s.logger.Debug("Product rows set for deal %s: %d rows", dealID, len(rows))
		}
	}

	return dealID, nil
}

// OnOrderUpdated reconciles the deal correlated to an updated order. An order
// without a tracked deal is a no-op: the order predates tracking or its create
// event was missed.
func (s *SyncService) OnOrderUpdated(order *shopify.Order) (string, error) {
	s.logger.Info("Handling order updated: %s (%d)", order.Name, order.ID)

	orderID := strconv.FormatInt(order.ID, 10)
	deals, err := s.api.DealList(
		map[string]string{FieldShopifyOrderID: orderID},
		[]string{"ID", FieldOpportunity, FieldStageID},
	)
	if err != nil {
		return "", fmt.Errorf("failed to look up deal for order %s: %w", orderID, err)
	}
	if len(deals) == 0 {
		s.logger.Info("No deal found for order %s, skipping update", orderID)
		return "", nil
	}

	deal := deals[0]
	fields := s.updateFields(order, deal)

	if len(fields) > 0 {
		if err := s.api.DealUpdate(deal.ID, fields); err != nil {
			return "", fmt.Errorf("failed to update deal %s: %w", deal.ID, err)
		}
		s.logger.Debug("Deal %s updated with %d fields", deal.ID, len(fields))
	}

	// Rows are always recomputed and replaced, including with an empty set,
	// so removed line items clear the deal rather than going stale.
	rows := s.mapper.MapProductRows(order)
	if err := s.api.DealProductRowsSet(deal.ID, rows); err != nil {
		s.logger.Warn("Product rows update failed for deal %s: %v", deal.ID, err)
	} else {
		s.logger.Debug("Product rows replaced for deal %s: %d rows", deal.ID, len(rows))
	}

	return deal.ID, nil
}

// updateFields computes the minimal field set for an update. The amount is
// diffed against the stored deal to avoid no-op writes on a hot path; payment
// status, stage, discount and tax are idempotent to rewrite and are not.
func (s *SyncService) updateFields(order *shopify.Order, deal Deal) DealFields {
	fields := DealFields{}

	newAmount := s.mapper.OrderAmount(order)
	if !newAmount.Equal(parseMoney(deal.Opportunity)) {
		fields[FieldOpportunity] = newAmount.InexactFloat64()
	}

	isPaid := strings.ToLower(order.FinancialStatus) == "paid"
	if isPaid {
		fields[FieldPaymentStatus] = PaymentStatusPaid
		fields[FieldStageID] = s.mapper.PaidStage()
	} else {
		fields[FieldPaymentStatus] = PaymentStatusNotPaid
	}

	if order.CurrentTotalDiscounts != "" {
		fields[FieldTotalDiscount] = parseMoney(order.CurrentTotalDiscounts).InexactFloat64()
	}
	if order.CurrentTotalTax != "" {
		fields[FieldTotalTax] = parseMoney(order.CurrentTotalTax).InexactFloat64()
	}

	return fields
}
