package domain

import (
	"errors"
	"time"
)

// RestaurantRef is the restaurant header attached to cart groups and orders
type RestaurantRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// MenuSnapshot is the menu data the server returns inside a cart line item
type MenuSnapshot struct {
	ID       int    `json:"id"`
	FoodName string `json:"foodName"`
	Price    int64  `json:"price"`
	Type     string `json:"type,omitempty"`
	Image    string `json:"image,omitempty"`
}

// CartItem is one line in a restaurant group. Pending marks a line the
// server has not returned yet.
type CartItem struct {
	ID        int          `json:"id"`
	Menu      MenuSnapshot `json:"menu"`
	Quantity  int          `json:"quantity"`
	ItemTotal int64        `json:"itemTotal"`
	Pending   bool         `json:"pending,omitempty"`
}

type CartGroup struct {
	Restaurant RestaurantRef `json:"restaurant"`
	Items      []CartItem    `json:"items"`
	Subtotal   int64         `json:"subtotal"`
}

type CartSummary struct {
	TotalItems      int   `json:"totalItems"`
	TotalPrice      int64 `json:"totalPrice"`
	RestaurantCount int   `json:"restaurantCount"`
}

type Cart struct {
	Groups  []CartGroup `json:"cart"`
	Summary CartSummary `json:"summary"`
}

// NewCart builds a cart from server groups, dropping lines without a
// positive quantity and empty groups, and recomputing every subtotal and the
// summary.
func NewCart(groups []CartGroup) Cart {
	kept := make([]CartGroup, 0, len(groups))
	for _, g := range groups {
		items := make([]CartItem, 0, len(g.Items))
		for _, it := range g.Items {
			if it.Quantity > 0 {
				items = append(items, it)
			}
		}
		if len(items) == 0 {
			continue
		}
		g.Items = items
		g.Subtotal = Subtotal(g.Items)
		kept = append(kept, g)
	}
	return Cart{Groups: kept, Summary: Summarize(kept)}
}

func Subtotal(items []CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.ItemTotal
	}
	return sum
}

// Summarize recomputes the derived cart summary from its groups
func Summarize(groups []CartGroup) CartSummary {
	var s CartSummary
	for _, g := range groups {
		for _, it := range g.Items {
			s.TotalItems += it.Quantity
		}
		s.TotalPrice += g.Subtotal
	}
	s.RestaurantCount = len(groups)
	return s
}

// Empty reports whether the cart has no line items
func (c Cart) Empty() bool {
	return c.Summary.TotalItems == 0 && len(c.Groups) == 0
}

// FindItem locates a line item by its server id
func (c Cart) FindItem(itemID int) (RestaurantRef, CartItem, bool) {
	for _, g := range c.Groups {
		for _, it := range g.Items {
			if it.ID == itemID {
				return g.Restaurant, it, true
			}
		}
	}
	return RestaurantRef{}, CartItem{}, false
}

// CartKey identifies a pending op and a cart line across server and ledger
type CartKey struct {
	RestaurantID int
	MenuID       int
}

// PendingOp is an optimistic cart edit not yet guaranteed to be reflected
// by the next server cart fetch.
type PendingOp struct {
	RestaurantID   int       `json:"restaurantId"`
	RestaurantName string    `json:"restaurantName,omitempty"`
	RestaurantLogo string    `json:"restaurantLogo,omitempty"`
	MenuID         int       `json:"menuId"`
	MenuName       string    `json:"menuName,omitempty"`
	MenuPrice      int64     `json:"menuPrice,omitempty"`
	MenuImage      string    `json:"menuImage,omitempty"`
	Quantity       int       `json:"quantity"`
	TS             time.Time `json:"ts"`
}

func (p PendingOp) Key() CartKey {
	return CartKey{RestaurantID: p.RestaurantID, MenuID: p.MenuID}
}

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrItemPending     = errors.New("cart item not yet confirmed by the server")
)
