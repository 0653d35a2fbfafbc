package orders

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/app/ledger"
	"github.com/YelzhanWeb/storefront/internal/app/querycache"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

const DefaultPaymentMethod = "bni"

// CartSource is the part of the cart service checkout depends on
type CartSource interface {
	Get(ctx context.Context) (domain.Cart, error)
	Discard(ctx context.Context)
}

type Service struct {
	api       interfaces.OrderAPI
	cart      CartSource
	history   *ledger.OrderHistory
	cache     *querycache.Cache
	publisher interfaces.MessagePublisher
	logger    logger.Logger
	now       func() time.Time
}

func NewService(api interfaces.OrderAPI, cart CartSource, history *ledger.OrderHistory, cache *querycache.Cache, publisher interfaces.MessagePublisher, logger logger.Logger) *Service {
	return &Service{
		api:       api,
		cart:      cart,
		history:   history,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock replaces the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// ListQuery selects one page of the reconciled order listing
type ListQuery struct {
	Filter ledger.Filter
	Page   int
	Limit  int
}

type Listing struct {
	ledger.Listing
	Pagination *domain.Pagination `json:"pagination,omitempty"`
}

func requestID(ctx context.Context) string {
	return interfaces.SessionFrom(ctx).RequestID
}

// Checkout places the current cart as an order and records it locally so it
// stays visible until the server's order listing includes it.
func (s *Service) Checkout(ctx context.Context, paymentMethod string) (domain.Transaction, error) {
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}
	if !domain.ValidPaymentMethod(paymentMethod) {
		return domain.Transaction{}, fmt.Errorf("%w: %s", domain.ErrInvalidPaymentMethod, paymentMethod)
	}

	session := interfaces.SessionFrom(ctx)
	cart, err := s.cart.Get(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	if cart.Empty() {
		return domain.Transaction{}, domain.ErrEmptyCart
	}

	placed, err := s.api.Checkout(ctx, paymentMethod)
	if err != nil {
		s.logger.Error("checkout_failed", "Checkout rejected", session.RequestID, map[string]interface{}{
			"user": session.UserKey,
		}, err)
		return domain.Transaction{}, fmt.Errorf("checkout failed: %w", err)
	}

	tx := s.completeCheckout(placed, cart, paymentMethod)
	s.history.Put(ctx, session.UserKey, tx)
	s.cart.Discard(ctx)
	s.cache.Invalidate(querycache.ScopeOrders, session.UserKey)

	s.logger.Info("order_placed", "Order placed", session.RequestID, map[string]interface{}{
		"transaction_id": tx.TransactionID,
		"total":          tx.Pricing.TotalPrice,
	})

	msg := interfaces.CheckoutMessage{
		TransactionID: tx.TransactionID,
		UserKey:       session.UserKey,
		PaymentMethod: tx.PaymentMethod,
		Status:        tx.Status,
		Pricing:       tx.Pricing,
		ItemCount:     cart.Summary.TotalItems,
		CreatedAt:     tx.CreatedAt,
	}
	if err := s.publisher.PublishCheckout(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish checkout", session.RequestID, map[string]interface{}{
			"transaction_id": tx.TransactionID,
		}, err)
	}

	return tx, nil
}

// completeCheckout fills the fields the checkout answer left out from the
// cart that was checked out
func (s *Service) completeCheckout(placed domain.Transaction, cart domain.Cart, paymentMethod string) domain.Transaction {
	tx := placed
	now := s.now()

	if tx.TransactionID == "" {
		tx.TransactionID = domain.FallbackTransactionID(now)
	}
	if tx.PaymentMethod == "" {
		tx.PaymentMethod = paymentMethod
	}
	if !tx.Status.Valid() {
		tx.Status = domain.StatusPreparing
	}
	if len(tx.Restaurants) == 0 {
		tx.Restaurants = domain.SnapshotCart(cart.Groups)
	}
	if tx.Pricing.TotalPrice == 0 {
		tx.Pricing = domain.NewPricing(cart.Summary.TotalPrice)
	}
	if tx.CreatedAt == "" {
		tx.CreatedAt = now.UTC().Format(time.RFC3339)
	}
	return tx
}

func (s *Service) serverOrders(ctx context.Context, userKey string, q interfaces.OrdersQuery) (interfaces.OrderPage, error) {
	key := querycache.Key{
		Scope:  querycache.ScopeOrders,
		User:   userKey,
		Params: fmt.Sprintf("status=%s&page=%d&limit=%d", q.Status, q.Page, q.Limit),
	}
	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) (interfaces.OrderPage, error) {
		return s.api.MyOrders(ctx, q)
	})
}

// List merges the server's order page with the local order history. Local
// copies are shown where the server lacks or contradicts them.
func (s *Service) List(ctx context.Context, q ListQuery) (Listing, error) {
	userKey := interfaces.SessionFrom(ctx).UserKey

	page, err := s.serverOrders(ctx, userKey, interfaces.OrdersQuery{
		Status: string(q.Filter.Status),
		Page:   q.Page,
		Limit:  q.Limit,
	})
	if err != nil {
		return Listing{}, fmt.Errorf("failed to load orders: %w", err)
	}

	listing := ledger.Reconcile(page.Orders, s.history.Get(ctx, userKey), q.Filter)
	for _, tx := range listing.Confirmed {
		s.history.Put(ctx, userKey, tx)
	}
	if len(listing.Inconsistent) > 0 {
		s.logger.Warn("orders_inconsistent", "Server orders contradict local history", requestID(ctx), map[string]interface{}{
			"user":            userKey,
			"transaction_ids": listing.Inconsistent,
		})
	}

	return Listing{Listing: listing, Pagination: page.Pagination}, nil
}

// Track returns one reconciled order by transaction id
func (s *Service) Track(ctx context.Context, transactionID string) (domain.Transaction, error) {
	listing, err := s.List(ctx, ListQuery{})
	if err != nil {
		if local, ok := s.history.Find(ctx, interfaces.SessionFrom(ctx).UserKey, transactionID); ok {
			return local, nil
		}
		return domain.Transaction{}, err
	}
	for _, tx := range listing.All() {
		if tx.TransactionID == transactionID {
			return tx, nil
		}
	}
	return domain.Transaction{}, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, transactionID)
}

// resolve finds an order by transaction id or numeric server id, looking
// at the local history first
func (s *Service) resolve(ctx context.Context, userKey, key string) (domain.Transaction, bool, error) {
	numericID, numErr := strconv.Atoi(key)
	matches := func(tx domain.Transaction) bool {
		if tx.TransactionID == key {
			return true
		}
		return numErr == nil && tx.HasServerID() && *tx.ID == numericID
	}

	for _, tx := range s.history.Get(ctx, userKey) {
		if matches(tx) {
			return tx, true, nil
		}
	}

	page, err := s.serverOrders(ctx, userKey, interfaces.OrdersQuery{})
	if err != nil {
		return domain.Transaction{}, false, fmt.Errorf("failed to load orders: %w", err)
	}
	for _, tx := range page.Orders {
		if matches(tx) {
			return tx, false, nil
		}
	}
	return domain.Transaction{}, false, fmt.Errorf("%w: %s", domain.ErrOrderNotFound, key)
}

// UpdateStatus moves an order along its lifecycle. The new status is
// written to the local history first and rolled back if the server rejects
// it. Orders the server has not assigned an id yet change locally only.
func (s *Service) UpdateStatus(ctx context.Context, key string, next domain.Status) (domain.Transaction, error) {
	session := interfaces.SessionFrom(ctx)

	tx, known, err := s.resolve(ctx, session.UserKey, key)
	if err != nil {
		return domain.Transaction{}, err
	}

	prev := tx.Status
	if err := tx.TransitionTo(next); err != nil {
		return domain.Transaction{}, err
	}

	if known {
		s.history.SetStatus(ctx, session.UserKey, tx.TransactionID, next)
	} else {
		s.history.Put(ctx, session.UserKey, tx)
	}

	if tx.HasServerID() {
		updated, err := s.api.UpdateOrderStatus(ctx, *tx.ID, next)
		if err != nil {
			s.rollback(ctx, session, tx, prev, known, err)
			return domain.Transaction{}, fmt.Errorf("failed to update order status: %w", err)
		}
		if updated.Status.Valid() && updated.Status != tx.Status {
			tx.Status = updated.Status
			s.history.SetStatus(ctx, session.UserKey, tx.TransactionID, tx.Status)
		}
	}

	s.cache.Invalidate(querycache.ScopeOrders, session.UserKey)

	msg := interfaces.StatusUpdateMessage{
		TransactionID: tx.TransactionID,
		UserKey:       session.UserKey,
		OldStatus:     prev,
		NewStatus:     tx.Status,
		ChangedBy:     session.UserKey,
		Timestamp:     s.now().UTC(),
	}
	if err := s.publisher.PublishStatusUpdate(ctx, msg); err != nil {
		s.logger.Error("rabbitmq_publish_failed", "Failed to publish status update", session.RequestID, map[string]interface{}{
			"transaction_id": tx.TransactionID,
		}, err)
	}

	s.logger.Debug("order_status_updated", "Order status updated", session.RequestID, map[string]interface{}{
		"transaction_id": tx.TransactionID,
		"old_status":     prev,
		"new_status":     tx.Status,
	})
	return tx, nil
}

func (s *Service) rollback(ctx context.Context, session interfaces.Session, tx domain.Transaction, prev domain.Status, known bool, cause error) {
	if known {
		s.history.SetStatus(ctx, session.UserKey, tx.TransactionID, prev)
	} else {
		tx.Status = prev
		s.history.Put(ctx, session.UserKey, tx)
	}
	s.logger.Warn("order_status_reverted", "Server rejected status change, local status restored", session.RequestID, map[string]interface{}{
		"transaction_id": tx.TransactionID,
		"status":         prev,
		"error":          cause.Error(),
	})
}
