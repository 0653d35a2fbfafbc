package ledger

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

func TestOverlay_NoOpsReturnsServerCart(t *testing.T) {
	server := burgerCart()
	assert.Equal(t, server, Overlay(server, nil))
}

func TestOverlay_SynthesizesItemTheServerHasNotSeen(t *testing.T) {
	ops := []domain.PendingOp{{
		RestaurantID: 7,
		MenuID:       42,
		MenuName:     "Fries",
		MenuPrice:    15000,
		Quantity:     1,
	}}

	got := Overlay(burgerCart(), ops)

	require.Len(t, got.Groups, 1)
	require.Len(t, got.Groups[0].Items, 2)
	added := got.Groups[0].Items[1]
	assert.Equal(t, 42, added.Menu.ID)
	assert.Equal(t, "Fries", added.Menu.FoodName)
	assert.Equal(t, 1, added.Quantity)
	assert.Equal(t, int64(15000), added.ItemTotal)
	assert.True(t, added.Pending)
	assert.Equal(t, 742, added.ID)

	assert.Equal(t, domain.CartSummary{TotalItems: 4, TotalPrice: 75000, RestaurantCount: 1}, got.Summary)
}

func TestOverlay_ExistingItemUsesServerPrice(t *testing.T) {
	ops := []domain.PendingOp{{RestaurantID: 7, MenuID: 41, MenuPrice: 99999, Quantity: 2}}

	got := Overlay(burgerCart(), ops)

	it := got.Groups[0].Items[0]
	assert.Equal(t, 2, it.Quantity)
	assert.Equal(t, int64(40000), it.ItemTotal)
	assert.False(t, it.Pending)
	assert.Equal(t, int64(40000), got.Summary.TotalPrice)
}

func TestOverlay_DropsRemovedItemsAndEmptyGroups(t *testing.T) {
	ops := []domain.PendingOp{{RestaurantID: 7, MenuID: 41, Quantity: 0}}

	got := Overlay(burgerCart(), ops)

	assert.Empty(t, got.Groups)
	assert.Equal(t, domain.CartSummary{}, got.Summary)
}

func TestOverlay_DropsZeroQuantityServerLines(t *testing.T) {
	server := domain.Cart{Groups: []domain.CartGroup{{
		Restaurant: domain.RestaurantRef{ID: 7, Name: "Burger Bros"},
		Items: []domain.CartItem{{
			ID:   100,
			Menu: domain.MenuSnapshot{ID: 41, FoodName: "Cheeseburger", Price: 20000},
		}},
	}}}
	ops := []domain.PendingOp{{RestaurantID: 9, MenuID: 3, MenuPrice: 5000, Quantity: 1}}

	for _, got := range []domain.Cart{Overlay(server, nil), Overlay(server, ops)} {
		for _, g := range got.Groups {
			assert.NotEqual(t, 7, g.Restaurant.ID)
			for _, it := range g.Items {
				assert.Greater(t, it.Quantity, 0)
			}
		}
	}
	assert.Equal(t, 1, Overlay(server, ops).Summary.RestaurantCount)
}

func TestOverlay_CreatesGroupForUnknownRestaurant(t *testing.T) {
	ops := []domain.PendingOp{{RestaurantID: 9, MenuID: 3, MenuPrice: 5000, Quantity: 2}}

	got := Overlay(burgerCart(), ops)

	require.Len(t, got.Groups, 2)
	g := got.Groups[1]
	assert.Equal(t, domain.RestaurantRef{ID: 9, Name: "Store"}, g.Restaurant)
	assert.Equal(t, "Item", g.Items[0].Menu.FoodName)
	assert.Equal(t, "food", g.Items[0].Menu.Type)
	assert.Equal(t, int64(10000), g.Subtotal)
	assert.Equal(t, 2, got.Summary.RestaurantCount)
}

func TestOverlay_DoesNotMutateInputs(t *testing.T) {
	server := burgerCart()
	ops := []domain.PendingOp{
		{RestaurantID: 7, MenuID: 41, Quantity: 5},
		{RestaurantID: 8, MenuID: 1, MenuPrice: 1000, Quantity: 1},
	}
	serverBefore, _ := json.Marshal(server)
	opsBefore, _ := json.Marshal(ops)

	_ = Overlay(server, ops)

	serverAfter, _ := json.Marshal(server)
	opsAfter, _ := json.Marshal(ops)
	assert.JSONEq(t, string(serverBefore), string(serverAfter))
	assert.JSONEq(t, string(opsBefore), string(opsAfter))
}

func TestOverlay_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 300; i++ {
		server := randomCart(rng)
		ops := randomOps(rng)

		once := Overlay(server, ops)
		twice := Overlay(once, ops)
		require.Equal(t, once, twice, "overlay must be idempotent (case %d)", i)

		var totalItems int
		var totalPrice int64
		for _, g := range once.Groups {
			require.NotEmpty(t, g.Items, "case %d", i)
			var sub int64
			for _, it := range g.Items {
				require.Greater(t, it.Quantity, 0, "case %d", i)
				totalItems += it.Quantity
				sub += it.ItemTotal
			}
			require.Equal(t, sub, g.Subtotal, "case %d", i)
			totalPrice += g.Subtotal
		}
		require.Equal(t, totalItems, once.Summary.TotalItems, "case %d", i)
		require.Equal(t, totalPrice, once.Summary.TotalPrice, "case %d", i)
		require.Equal(t, len(once.Groups), once.Summary.RestaurantCount, "case %d", i)
	}
}

func randomCart(rng *rand.Rand) domain.Cart {
	var groups []domain.CartGroup
	restaurants := rng.Intn(4)
	for r := 1; r <= restaurants; r++ {
		g := domain.CartGroup{Restaurant: domain.RestaurantRef{ID: r, Name: "R"}}
		menus := 1 + rng.Intn(3)
		for m := 1; m <= menus; m++ {
			price := int64(1000 * (1 + rng.Intn(20)))
			qty := rng.Intn(6)
			g.Items = append(g.Items, domain.CartItem{
				ID:        r*100 + m,
				Menu:      domain.MenuSnapshot{ID: m, FoodName: "M", Price: price},
				Quantity:  qty,
				ItemTotal: price * int64(qty),
			})
		}
		g.Subtotal = domain.Subtotal(g.Items)
		groups = append(groups, g)
	}
	// raw server payload, zero quantities included
	return domain.Cart{Groups: groups, Summary: domain.Summarize(groups)}
}

func randomOps(rng *rand.Rand) []domain.PendingOp {
	seen := make(map[domain.CartKey]bool)
	var ops []domain.PendingOp
	n := rng.Intn(6)
	for i := 0; i < n; i++ {
		op := domain.PendingOp{
			RestaurantID: 1 + rng.Intn(5),
			MenuID:       1 + rng.Intn(4),
			MenuPrice:    int64(500 * rng.Intn(10)),
			Quantity:     rng.Intn(4),
		}
		if seen[op.Key()] {
			continue
		}
		seen[op.Key()] = true
		ops = append(ops, op)
	}
	return ops
}

func TestSyntheticItemID(t *testing.T) {
	assert.Equal(t, 742, SyntheticItemID(7, 42))
	assert.Equal(t, 10203, SyntheticItemID(10, 203))
}
