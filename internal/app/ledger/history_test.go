package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

func TestOrderHistory_PutUpsertsByTransactionID(t *testing.T) {
	ctx := context.Background()
	h := NewOrderHistory(newTestStore(), 50)

	h.Put(ctx, "u1", tx("TRX-123", domain.StatusPreparing, "", item("Burger", 15000, 1)))
	h.Put(ctx, "u1", tx("TRX-124", domain.StatusPreparing, ""))

	id := 55
	confirmed := tx("TRX-123", domain.StatusOnTheWay, "", item("Burger", 15000, 1))
	confirmed.ID = &id
	h.Put(ctx, "u1", confirmed)

	got := h.Get(ctx, "u1")
	require.Len(t, got, 2)
	assert.Equal(t, "TRX-123", got[0].TransactionID)
	assert.Equal(t, domain.StatusOnTheWay, got[0].Status)
	require.NotNil(t, got[0].ID)
	assert.Equal(t, 55, *got[0].ID)

	found, ok := h.Find(ctx, "u1", "TRX-124")
	assert.True(t, ok)
	assert.Equal(t, domain.StatusPreparing, found.Status)
}

func TestOrderHistory_TruncatesToNewest(t *testing.T) {
	ctx := context.Background()
	h := NewOrderHistory(newTestStore(), 50)

	for i := 1; i <= 55; i++ {
		h.Put(ctx, "u1", tx(fmt.Sprintf("TRX-%d", i), domain.StatusPreparing, ""))
	}

	got := h.Get(ctx, "u1")
	require.Len(t, got, 50)
	assert.Equal(t, "TRX-6", got[0].TransactionID)
	assert.Equal(t, "TRX-55", got[49].TransactionID)
}

func TestOrderHistory_IgnoresMissingTransactionID(t *testing.T) {
	ctx := context.Background()
	h := NewOrderHistory(newTestStore(), 50)

	h.Put(ctx, "u1", domain.Transaction{Status: domain.StatusPreparing})
	assert.Empty(t, h.Get(ctx, "u1"))
}

func TestOrderHistory_SetStatus(t *testing.T) {
	ctx := context.Background()
	h := NewOrderHistory(newTestStore(), 50)
	h.Put(ctx, "u1", tx("TRX-123", domain.StatusPreparing, ""))

	prev, ok := h.SetStatus(ctx, "u1", "TRX-123", domain.StatusOnTheWay)
	require.True(t, ok)
	assert.Equal(t, domain.StatusPreparing, prev)

	got, _ := h.Find(ctx, "u1", "TRX-123")
	assert.Equal(t, domain.StatusOnTheWay, got.Status)

	_, ok = h.SetStatus(ctx, "u1", "TRX-999", domain.StatusDone)
	assert.False(t, ok)
}
