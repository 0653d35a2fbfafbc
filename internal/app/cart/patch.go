package cart

import (
	"github.com/YelzhanWeb/storefront/internal/app/ledger"
	"github.com/YelzhanWeb/storefront/internal/domain"
)

// Patches apply a mutation to a cached server cart so that readers see it
// before the server answers. They never modify their input.

func cloneGroups(c domain.Cart) []domain.CartGroup {
	groups := make([]domain.CartGroup, len(c.Groups))
	for i, g := range c.Groups {
		g.Items = append([]domain.CartItem(nil), g.Items...)
		groups[i] = g
	}
	return groups
}

func patchAdd(c domain.Cart, item ItemDetails, quantity int) domain.Cart {
	groups := cloneGroups(c)
	for gi, g := range groups {
		if g.Restaurant.ID != item.RestaurantID {
			continue
		}
		for ii, it := range g.Items {
			if it.Menu.ID == item.MenuID {
				groups[gi].Items[ii].Quantity = quantity
				groups[gi].Items[ii].ItemTotal = it.Menu.Price * int64(quantity)
				return domain.NewCart(groups)
			}
		}
		groups[gi].Items = append(groups[gi].Items, item.line(quantity))
		return domain.NewCart(groups)
	}

	groups = append(groups, domain.CartGroup{
		Restaurant: item.restaurant(),
		Items:      []domain.CartItem{item.line(quantity)},
	})
	return domain.NewCart(groups)
}

func patchQuantity(c domain.Cart, key domain.CartKey, quantity int) domain.Cart {
	groups := cloneGroups(c)
	for gi, g := range groups {
		if g.Restaurant.ID != key.RestaurantID {
			continue
		}
		for ii, it := range g.Items {
			if it.Menu.ID == key.MenuID {
				groups[gi].Items[ii].Quantity = quantity
				groups[gi].Items[ii].ItemTotal = it.Menu.Price * int64(quantity)
			}
		}
	}
	return domain.NewCart(groups)
}

func patchRemove(c domain.Cart, key domain.CartKey) domain.Cart {
	groups := cloneGroups(c)
	for gi, g := range groups {
		if g.Restaurant.ID != key.RestaurantID {
			continue
		}
		kept := g.Items[:0]
		for _, it := range g.Items {
			if it.Menu.ID != key.MenuID {
				kept = append(kept, it)
			}
		}
		groups[gi].Items = kept
	}
	return domain.NewCart(groups)
}

func (a ItemDetails) line(quantity int) domain.CartItem {
	name := a.MenuName
	if name == "" {
		name = "Item"
	}
	return domain.CartItem{
		ID: ledger.SyntheticItemID(a.RestaurantID, a.MenuID),
		Menu: domain.MenuSnapshot{
			ID:       a.MenuID,
			FoodName: name,
			Price:    a.MenuPrice,
			Type:     "food",
			Image:    a.MenuImage,
		},
		Quantity:  quantity,
		ItemTotal: a.MenuPrice * int64(quantity),
		Pending:   true,
	}
}

func (a ItemDetails) restaurant() domain.RestaurantRef {
	name := a.RestaurantName
	if name == "" {
		name = "Store"
	}
	return domain.RestaurantRef{ID: a.RestaurantID, Name: name, Logo: a.RestaurantLogo}
}
