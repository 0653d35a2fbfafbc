package ledger

import (
	"context"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

const DefaultMaxHistory = 50

// OrderHistory keeps the transactions a user checked out through this
// gateway until the server's order listing catches up with them.
type OrderHistory struct {
	store *Store
	max   int
}

func NewOrderHistory(store *Store, maxEntries int) *OrderHistory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxHistory
	}
	return &OrderHistory{store: store, max: maxEntries}
}

// Get returns the stored transactions in append order
func (h *OrderHistory) Get(ctx context.Context, userKey string) []domain.Transaction {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	return loadList[domain.Transaction](ctx, h.store, historyKey(userKey))
}

func (h *OrderHistory) Find(ctx context.Context, userKey, transactionID string) (domain.Transaction, bool) {
	for _, tx := range h.Get(ctx, userKey) {
		if tx.TransactionID == transactionID {
			return tx, true
		}
	}
	return domain.Transaction{}, false
}

// Put upserts by transaction id and keeps the newest max entries
func (h *OrderHistory) Put(ctx context.Context, userKey string, tx domain.Transaction) {
	if tx.TransactionID == "" {
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	key := historyKey(userKey)
	list := loadList[domain.Transaction](ctx, h.store, key)

	replaced := false
	for i := range list {
		if list[i].TransactionID == tx.TransactionID {
			list[i] = tx
			replaced = true
			break
		}
	}
	if !replaced {
		list = append(list, tx)
	}
	if len(list) > h.max {
		list = list[len(list)-h.max:]
	}

	saveList(ctx, h.store, key, list)
}

// SetStatus writes a status change through to the stored transaction and
// returns the status it replaced. It reports false when the transaction is
// unknown locally.
func (h *OrderHistory) SetStatus(ctx context.Context, userKey, transactionID string, status domain.Status) (domain.Status, bool) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	key := historyKey(userKey)
	list := loadList[domain.Transaction](ctx, h.store, key)
	for i := range list {
		if list[i].TransactionID != transactionID {
			continue
		}
		prev := list[i].Status
		list[i].Status = status
		saveList(ctx, h.store, key, list)
		return prev, true
	}
	return "", false
}
