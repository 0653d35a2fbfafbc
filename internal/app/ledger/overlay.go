package ledger

import (
	"strconv"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

const (
	fallbackMenuName       = "Item"
	fallbackRestaurantName = "Store"
	fallbackMenuType       = "food"
)

// Overlay merges the server cart with pending ops into the cart the caller
// should display. A pending quantity wins over the server quantity, but the
// server unit price wins over the cached one whenever the server has the
// item. Lines with no positive quantity are dropped. Neither input is
// modified.
func Overlay(server domain.Cart, ops []domain.PendingOp) domain.Cart {
	byKey := make(map[domain.CartKey]domain.PendingOp, len(ops))
	for _, op := range ops {
		byKey[op.Key()] = op
	}

	groups := make([]domain.CartGroup, 0, len(server.Groups)+1)
	present := make(map[domain.CartKey]bool)

	for _, g := range server.Groups {
		items := make([]domain.CartItem, 0, len(g.Items))
		for _, it := range g.Items {
			key := domain.CartKey{RestaurantID: g.Restaurant.ID, MenuID: it.Menu.ID}
			present[key] = true

			op, ok := byKey[key]
			if !ok {
				if it.Quantity > 0 {
					items = append(items, it)
				}
				continue
			}
			if op.Quantity <= 0 {
				continue
			}
			it.Quantity = op.Quantity
			it.ItemTotal = it.Menu.Price * int64(op.Quantity)
			items = append(items, it)
		}
		groups = append(groups, domain.CartGroup{Restaurant: g.Restaurant, Items: items})
	}

	for _, op := range ops {
		if op.Quantity <= 0 || present[op.Key()] {
			continue
		}
		present[op.Key()] = true

		item := syntheticItem(op)
		gi := groupIndex(groups, op.RestaurantID)
		if gi < 0 {
			groups = append(groups, domain.CartGroup{Restaurant: syntheticRestaurant(op)})
			gi = len(groups) - 1
		}
		groups[gi].Items = append(groups[gi].Items, item)
	}

	kept := groups[:0]
	for _, g := range groups {
		if len(g.Items) == 0 {
			continue
		}
		g.Subtotal = domain.Subtotal(g.Items)
		kept = append(kept, g)
	}

	return domain.Cart{Groups: kept, Summary: domain.Summarize(kept)}
}

func groupIndex(groups []domain.CartGroup, restaurantID int) int {
	for i, g := range groups {
		if g.Restaurant.ID == restaurantID {
			return i
		}
	}
	return -1
}

func syntheticItem(op domain.PendingOp) domain.CartItem {
	name := op.MenuName
	if name == "" {
		name = fallbackMenuName
	}
	return domain.CartItem{
		ID: SyntheticItemID(op.RestaurantID, op.MenuID),
		Menu: domain.MenuSnapshot{
			ID:       op.MenuID,
			FoodName: name,
			Price:    op.MenuPrice,
			Type:     fallbackMenuType,
			Image:    op.MenuImage,
		},
		Quantity:  op.Quantity,
		ItemTotal: op.MenuPrice * int64(op.Quantity),
		Pending:   true,
	}
}

func syntheticRestaurant(op domain.PendingOp) domain.RestaurantRef {
	name := op.RestaurantName
	if name == "" {
		name = fallbackRestaurantName
	}
	return domain.RestaurantRef{ID: op.RestaurantID, Name: name, Logo: op.RestaurantLogo}
}

// SyntheticItemID joins the decimal digits of the restaurant and menu ids,
// the id a pending line carries until the server assigns a real one.
func SyntheticItemID(restaurantID, menuID int) int {
	id, err := strconv.Atoi(strconv.Itoa(restaurantID) + strconv.Itoa(menuID))
	if err != nil {
		return -(restaurantID*1_000_000 + menuID)
	}
	return id
}
