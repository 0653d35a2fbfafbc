package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

func TestPendingLedger_UpsertLastWriteWins(t *testing.T) {
	ctx := context.Background()
	l := newTestPending(20)

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 1})
	assert.Equal(t, 1, l.Get(ctx, "u1", 7, 42))

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 5})
	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 2})
	assert.Equal(t, 2, l.Get(ctx, "u1", 7, 42))
	assert.Len(t, l.List(ctx, "u1"), 1)
}

func TestPendingLedger_NonPositiveQuantityRemoves(t *testing.T) {
	ctx := context.Background()
	l := newTestPending(20)

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 3})
	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 0})
	assert.Equal(t, 0, l.Get(ctx, "u1", 7, 42))
	assert.Empty(t, l.List(ctx, "u1"))

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 43, Quantity: -1})
	assert.Empty(t, l.List(ctx, "u1"))
}

func TestPendingLedger_UpsertMergesDisplayFieldsAndRefreshesTS(t *testing.T) {
	ctx := context.Background()
	l := newTestPending(20)

	l.Upsert(ctx, "u1", domain.PendingOp{
		RestaurantID:   7,
		RestaurantName: "Burger Bros",
		MenuID:         42,
		MenuName:       "Fries",
		MenuPrice:      15000,
		Quantity:       1,
	})
	first, ok := l.Lookup(ctx, "u1", 7, 42)
	require.True(t, ok)

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 2})
	got, ok := l.Lookup(ctx, "u1", 7, 42)
	require.True(t, ok)

	assert.Equal(t, "Burger Bros", got.RestaurantName)
	assert.Equal(t, "Fries", got.MenuName)
	assert.Equal(t, int64(15000), got.MenuPrice)
	assert.Equal(t, 2, got.Quantity)
	assert.True(t, got.TS.After(first.TS))
}

func TestPendingLedger_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	l := newTestPending(20)

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 1})
	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 43, Quantity: 1})
	l.Upsert(ctx, "u2", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 4})

	l.Remove(ctx, "u1", 7, 42)
	l.Remove(ctx, "u1", 99, 99)
	assert.Equal(t, 0, l.Get(ctx, "u1", 7, 42))
	assert.Equal(t, 1, l.Get(ctx, "u1", 7, 43))

	l.Clear(ctx, "u1")
	assert.Empty(t, l.List(ctx, "u1"))
	assert.Equal(t, 4, l.Get(ctx, "u2", 7, 42))
	_, found, err := l.store.backend.Load(ctx, "cart_pending_u1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPendingLedger_GuestKey(t *testing.T) {
	ctx := context.Background()
	l := newTestPending(20)

	l.Upsert(ctx, "", domain.PendingOp{RestaurantID: 1, MenuID: 2, Quantity: 3})
	assert.Equal(t, 3, l.Get(ctx, "guest", 1, 2))
}

func TestPendingLedger_NeverExceedsBound(t *testing.T) {
	ctx := context.Background()
	l := newTestPending(20)

	for menu := 1; menu <= 25; menu++ {
		l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: menu, Quantity: 1})
		assert.LessOrEqual(t, len(l.List(ctx, "u1")), 20)
	}

	ops := l.List(ctx, "u1")
	require.Len(t, ops, 20)
	assert.Equal(t, 6, ops[0].MenuID)
	assert.Equal(t, 25, ops[19].MenuID)
}

func TestPendingLedger_PruneKeepsMostRecentlyTouched(t *testing.T) {
	ctx := context.Background()
	l := newTestPending(20)

	for menu := 1; menu <= 5; menu++ {
		l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: menu, Quantity: 1})
	}
	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 1, Quantity: 2})

	l.Prune(ctx, "u1", 3)

	var menus []int
	for _, op := range l.List(ctx, "u1") {
		menus = append(menus, op.MenuID)
	}
	assert.Equal(t, []int{1, 4, 5}, menus)
}

func TestPendingLedger_Restore(t *testing.T) {
	ctx := context.Background()
	l := newTestPending(20)

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 2})
	prev, existed := l.Lookup(ctx, "u1", 7, 42)
	require.True(t, existed)

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 9})
	l.Restore(ctx, "u1", prev, true)
	got, _ := l.Lookup(ctx, "u1", 7, 42)
	assert.Equal(t, prev, got)

	_, existed = l.Lookup(ctx, "u1", 7, 50)
	require.False(t, existed)
	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 50, Quantity: 1})
	l.Restore(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 50}, false)
	assert.Equal(t, 0, l.Get(ctx, "u1", 7, 50))
}

func TestPendingLedger_ConfirmDropsReflectedEntries(t *testing.T) {
	ctx := context.Background()
	l := newTestPending(20)

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 41, Quantity: 3})
	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 1})

	confirmed := l.Confirm(ctx, "u1", burgerCart())
	assert.Equal(t, 1, confirmed)
	assert.Equal(t, 0, l.Get(ctx, "u1", 7, 41))
	assert.Equal(t, 1, l.Get(ctx, "u1", 7, 42))
}

func TestStore_DegradesToMemoryOnBackendFailure(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{}
	store := NewStore(backend, nil)
	l := NewPendingLedger(store, 20)

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 2})
	assert.True(t, store.Degraded())
	assert.Equal(t, 2, l.Get(ctx, "u1", 7, 42))

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 3})
	assert.Equal(t, 3, l.Get(ctx, "u1", 7, 42))
	assert.Equal(t, 1, backend.loads)
	assert.Equal(t, 0, backend.saves)
}

func TestStore_ClearDegradesOnDeleteFailure(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{}
	store := NewStore(backend, nil)
	l := NewPendingLedger(store, 20)

	l.Clear(ctx, "u1")
	assert.True(t, store.Degraded())
	assert.Equal(t, 1, backend.deletes)

	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 2})
	l.Clear(ctx, "u1")
	assert.Empty(t, l.List(ctx, "u1"))
	assert.Equal(t, 1, backend.deletes)
}

func TestPendingLedger_PruneNegativeBound(t *testing.T) {
	ctx := context.Background()
	l := newTestPending(20)
	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 1})

	assert.NotPanics(t, func() { l.Prune(ctx, "u1", -1) })
	assert.Empty(t, l.List(ctx, "u1"))
}

func TestStore_CorruptPayloadReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	require.NoError(t, store.backend.Save(ctx, "cart_pending_u1", []byte("{not json")))

	l := NewPendingLedger(store, 20)
	assert.Empty(t, l.List(ctx, "u1"))
	l.Upsert(ctx, "u1", domain.PendingOp{RestaurantID: 7, MenuID: 42, Quantity: 1})
	assert.Equal(t, 1, l.Get(ctx, "u1", 7, 42))
}
