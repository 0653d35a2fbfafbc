package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCart_DropsLinesWithoutQuantity(t *testing.T) {
	c := NewCart([]CartGroup{
		{
			Restaurant: RestaurantRef{ID: 7},
			Items: []CartItem{
				{ID: 1, Menu: MenuSnapshot{ID: 41, Price: 20000}, Quantity: 0},
				{ID: 2, Menu: MenuSnapshot{ID: 42, Price: 5000}, Quantity: 2, ItemTotal: 10000},
			},
		},
		{
			Restaurant: RestaurantRef{ID: 8},
			Items:      []CartItem{{ID: 3, Menu: MenuSnapshot{ID: 1}, Quantity: -1}},
		},
	})

	require.Len(t, c.Groups, 1)
	require.Len(t, c.Groups[0].Items, 1)
	assert.Equal(t, 2, c.Groups[0].Items[0].ID)
	assert.Equal(t, int64(10000), c.Groups[0].Subtotal)
	assert.Equal(t, CartSummary{TotalItems: 2, TotalPrice: 10000, RestaurantCount: 1}, c.Summary)
}

func TestCart_FindItem(t *testing.T) {
	c := NewCart([]CartGroup{{
		Restaurant: RestaurantRef{ID: 7, Name: "Burger Bros"},
		Items:      []CartItem{{ID: 100, Menu: MenuSnapshot{ID: 41}, Quantity: 1}},
	}})

	ref, it, ok := c.FindItem(100)
	require.True(t, ok)
	assert.Equal(t, 7, ref.ID)
	assert.Equal(t, 41, it.Menu.ID)

	_, _, ok = c.FindItem(101)
	assert.False(t, ok)
}
