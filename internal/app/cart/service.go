package cart

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/app/ledger"
	"github.com/YelzhanWeb/storefront/internal/app/querycache"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// ItemDetails is the display data the caller knows about a line. It lets a
// line be shown before the server returns it.
type ItemDetails struct {
	RestaurantID   int
	RestaurantName string
	RestaurantLogo string
	MenuID         int
	MenuName       string
	MenuPrice      int64
	MenuImage      string
}

func (d ItemDetails) key() domain.CartKey {
	return domain.CartKey{RestaurantID: d.RestaurantID, MenuID: d.MenuID}
}

func (d ItemDetails) op(quantity int) domain.PendingOp {
	return domain.PendingOp{
		RestaurantID:   d.RestaurantID,
		RestaurantName: d.RestaurantName,
		RestaurantLogo: d.RestaurantLogo,
		MenuID:         d.MenuID,
		MenuName:       d.MenuName,
		MenuPrice:      d.MenuPrice,
		MenuImage:      d.MenuImage,
		Quantity:       quantity,
	}
}

type AddItem struct {
	ItemDetails
	Quantity int
}

// Service applies cart mutations optimistically. Every mutation is recorded
// in the pending ledger and patched into the cached server cart before the
// remote call. A failed call restores both; a finished call (either way)
// prunes the ledger and drops the cached cart so the next read is fresh.
type Service struct {
	api     interfaces.CartAPI
	pending *ledger.PendingLedger
	cache   *querycache.Cache
	logger  logger.Logger
}

func NewService(api interfaces.CartAPI, pending *ledger.PendingLedger, cache *querycache.Cache, logger logger.Logger) *Service {
	return &Service{
		api:     api,
		pending: pending,
		cache:   cache,
		logger:  logger,
	}
}

func cartKey(userKey string) querycache.Key {
	return querycache.Key{Scope: querycache.ScopeCart, User: userKey}
}

// server returns the server cart, cached. A fresh fetch also drops ledger
// entries the server already reflects.
func (s *Service) server(ctx context.Context, userKey string) (domain.Cart, error) {
	return querycache.Fetch(ctx, s.cache, cartKey(userKey), func(ctx context.Context) (domain.Cart, error) {
		c, err := s.api.GetCart(ctx)
		if err != nil {
			return domain.Cart{}, err
		}
		if n := s.pending.Confirm(ctx, userKey, c); n > 0 {
			s.logger.Debug("cart_pending_confirmed", "Server cart confirmed pending edits", requestID(ctx), map[string]interface{}{
				"user":      userKey,
				"confirmed": n,
			})
		}
		return c, nil
	})
}

// Get returns the server cart overlaid with the caller's pending edits
func (s *Service) Get(ctx context.Context) (domain.Cart, error) {
	userKey := interfaces.SessionFrom(ctx).UserKey
	c, err := s.server(ctx, userKey)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("failed to load cart: %w", err)
	}
	return ledger.Overlay(c, s.pending.List(ctx, userKey)), nil
}

// PendingQuantity is the locally recorded quantity for a product, 0 when
// nothing is pending
func (s *Service) PendingQuantity(ctx context.Context, restaurantID, menuID int) int {
	return s.pending.Get(ctx, interfaces.SessionFrom(ctx).UserKey, restaurantID, menuID)
}

// Add puts quantity more of a product in the cart (1 when unset)
func (s *Service) Add(ctx context.Context, item AddItem) (domain.CartItem, error) {
	if item.RestaurantID <= 0 || item.MenuID <= 0 {
		return domain.CartItem{}, domain.ErrItemNotFound
	}
	if item.Quantity < 0 {
		return domain.CartItem{}, domain.ErrInvalidQuantity
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}

	userKey := interfaces.SessionFrom(ctx).UserKey
	visible, err := s.visibleQuantity(ctx, userKey, item.key())
	if err != nil {
		return domain.CartItem{}, err
	}
	expected := visible + item.Quantity

	m := s.begin(ctx, userKey, item.key())
	s.pending.Upsert(ctx, userKey, item.op(expected))
	m.patch(func(c domain.Cart) domain.Cart { return patchAdd(c, item.ItemDetails, expected) })
	defer m.settle()

	added, err := s.api.AddCartItem(ctx, interfaces.AddCartItemCommand{
		RestaurantID: item.RestaurantID,
		MenuID:       item.MenuID,
		Quantity:     item.Quantity,
	})
	if err != nil {
		m.revert(err)
		return domain.CartItem{}, fmt.Errorf("failed to add cart item: %w", err)
	}
	return added, nil
}

// UpdateQuantity sets the quantity of a visible cart line. details is used
// when the line is not in the current view. A quantity of zero or less
// removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, itemID, quantity int, details *ItemDetails) error {
	if quantity <= 0 {
		return s.Remove(ctx, itemID)
	}

	userKey := interfaces.SessionFrom(ctx).UserKey
	t, err := s.locate(ctx, userKey, itemID, details)
	if err != nil {
		return err
	}
	if t.serverID == 0 {
		return fmt.Errorf("%w: item %d", domain.ErrItemPending, itemID)
	}

	op := domain.PendingOp{RestaurantID: t.key.RestaurantID, MenuID: t.key.MenuID, Quantity: quantity}
	if details != nil {
		op = details.op(quantity)
		op.RestaurantID, op.MenuID = t.key.RestaurantID, t.key.MenuID
	}

	m := s.begin(ctx, userKey, t.key)
	s.pending.Upsert(ctx, userKey, op)
	m.patch(func(c domain.Cart) domain.Cart { return patchQuantity(c, t.key, quantity) })
	defer m.settle()

	if err := s.api.UpdateCartItem(ctx, t.serverID, quantity); err != nil {
		m.revert(err)
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	return nil
}

// Remove deletes a cart line. A line the server has not returned yet is
// only dropped locally.
func (s *Service) Remove(ctx context.Context, itemID int) error {
	userKey := interfaces.SessionFrom(ctx).UserKey
	t, err := s.locate(ctx, userKey, itemID, nil)
	if err != nil {
		return err
	}

	m := s.begin(ctx, userKey, t.key)
	s.pending.Remove(ctx, userKey, t.key.RestaurantID, t.key.MenuID)
	m.patch(func(c domain.Cart) domain.Cart { return patchRemove(c, t.key) })
	defer m.settle()

	if t.serverID == 0 {
		return nil
	}
	if err := s.api.DeleteCartItem(ctx, t.serverID); err != nil {
		m.revert(err)
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

// Clear empties the cart on the server and locally
func (s *Service) Clear(ctx context.Context) error {
	userKey := interfaces.SessionFrom(ctx).UserKey

	m := s.begin(ctx, userKey)
	s.pending.Clear(ctx, userKey)
	m.patch(func(domain.Cart) domain.Cart { return domain.NewCart(nil) })
	defer m.settle()

	if err := s.api.ClearCart(ctx); err != nil {
		m.revert(err)
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Discard forgets all local cart state after the server emptied the cart
// on its own, as it does on checkout.
func (s *Service) Discard(ctx context.Context) {
	userKey := interfaces.SessionFrom(ctx).UserKey
	s.pending.Clear(ctx, userKey)
	s.cache.Invalidate(querycache.ScopeCart, userKey)
}

// visibleQuantity is what the caller currently sees for key. Without a
// ledger entry it comes from the server cart, fetched when not cached, so
// the expected total starts from the real server quantity.
func (s *Service) visibleQuantity(ctx context.Context, userKey string, key domain.CartKey) (int, error) {
	if op, ok := s.pending.Lookup(ctx, userKey, key.RestaurantID, key.MenuID); ok {
		return op.Quantity, nil
	}
	c, err := s.server(ctx, userKey)
	if err != nil {
		return 0, fmt.Errorf("failed to load cart: %w", err)
	}
	for _, g := range c.Groups {
		if g.Restaurant.ID != key.RestaurantID {
			continue
		}
		for _, it := range g.Items {
			if it.Menu.ID == key.MenuID {
				return it.Quantity, nil
			}
		}
	}
	return 0, nil
}

type target struct {
	key domain.CartKey
	// serverID is 0 when the server has no line for key yet
	serverID int
}

func (s *Service) locate(ctx context.Context, userKey string, itemID int, details *ItemDetails) (target, error) {
	server, err := s.server(ctx, userKey)
	if err != nil {
		return target{}, fmt.Errorf("failed to load cart: %w", err)
	}
	view := ledger.Overlay(server, s.pending.List(ctx, userKey))

	ref, it, ok := view.FindItem(itemID)
	if !ok {
		if details == nil {
			return target{}, fmt.Errorf("%w: item %d", domain.ErrItemNotFound, itemID)
		}
		return target{key: details.key(), serverID: itemID}, nil
	}

	t := target{key: domain.CartKey{RestaurantID: ref.ID, MenuID: it.Menu.ID}}
	if !it.Pending {
		t.serverID = it.ID
		return t, nil
	}
	for _, g := range server.Groups {
		if g.Restaurant.ID != t.key.RestaurantID {
			continue
		}
		for _, sit := range g.Items {
			if sit.Menu.ID == t.key.MenuID {
				t.serverID = sit.ID
			}
		}
	}
	return t, nil
}

func requestID(ctx context.Context) string {
	return interfaces.SessionFrom(ctx).RequestID
}
