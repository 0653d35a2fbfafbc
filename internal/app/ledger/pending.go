package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/YelzhanWeb/storefront/internal/domain"
)

const DefaultMaxPending = 20

// PendingLedger records optimistic cart edits per user
type PendingLedger struct {
	store *Store
	max   int
	now   func() time.Time
}

func NewPendingLedger(store *Store, maxEntries int) *PendingLedger {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxPending
	}
	return &PendingLedger{store: store, max: maxEntries, now: time.Now}
}

// SetClock replaces the timestamp source
func (l *PendingLedger) SetClock(now func() time.Time) {
	l.now = now
}

func (l *PendingLedger) MaxEntries() int {
	return l.max
}

// Upsert records the latest quantity for (restaurant, menu). A quantity of
// zero or less removes the entry.
func (l *PendingLedger) Upsert(ctx context.Context, userKey string, op domain.PendingOp) {
	if op.Quantity <= 0 {
		l.Remove(ctx, userKey, op.RestaurantID, op.MenuID)
		return
	}

	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	key := pendingKey(userKey)
	ops := loadList[domain.PendingOp](ctx, l.store, key)
	op.TS = l.nextTS(ops)

	if idx := indexOfOp(ops, op.Key()); idx >= 0 {
		ops[idx] = mergeOp(ops[idx], op)
	} else {
		ops = append(ops, op)
	}

	saveList(ctx, l.store, key, keepRecent(ops, l.max))
}

func (l *PendingLedger) Remove(ctx context.Context, userKey string, restaurantID, menuID int) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	key := pendingKey(userKey)
	ops := loadList[domain.PendingOp](ctx, l.store, key)
	idx := indexOfOp(ops, domain.CartKey{RestaurantID: restaurantID, MenuID: menuID})
	if idx < 0 {
		return
	}
	ops = append(ops[:idx], ops[idx+1:]...)
	saveList(ctx, l.store, key, ops)
}

func (l *PendingLedger) Clear(ctx context.Context, userKey string) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	l.store.remove(ctx, pendingKey(userKey))
}

// Get returns the pending quantity for a menu item, 0 when absent
func (l *PendingLedger) Get(ctx context.Context, userKey string, restaurantID, menuID int) int {
	op, ok := l.Lookup(ctx, userKey, restaurantID, menuID)
	if !ok {
		return 0
	}
	return op.Quantity
}

func (l *PendingLedger) Lookup(ctx context.Context, userKey string, restaurantID, menuID int) (domain.PendingOp, bool) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	ops := loadList[domain.PendingOp](ctx, l.store, pendingKey(userKey))
	idx := indexOfOp(ops, domain.CartKey{RestaurantID: restaurantID, MenuID: menuID})
	if idx < 0 {
		return domain.PendingOp{}, false
	}
	return ops[idx], true
}

func (l *PendingLedger) List(ctx context.Context, userKey string) []domain.PendingOp {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	return loadList[domain.PendingOp](ctx, l.store, pendingKey(userKey))
}

// Prune keeps only the maxEntries most recently touched entries. A negative
// bound is treated as zero.
func (l *PendingLedger) Prune(ctx context.Context, userKey string, maxEntries int) {
	maxEntries = max(maxEntries, 0)

	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	key := pendingKey(userKey)
	ops := loadList[domain.PendingOp](ctx, l.store, key)
	if len(ops) <= maxEntries {
		return
	}
	saveList(ctx, l.store, key, keepRecent(ops, maxEntries))
}

// Restore puts back the exact entry captured before a failed mutation, or
// removes the key when there was none.
func (l *PendingLedger) Restore(ctx context.Context, userKey string, prev domain.PendingOp, existed bool) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	key := pendingKey(userKey)
	ops := loadList[domain.PendingOp](ctx, l.store, key)
	idx := indexOfOp(ops, prev.Key())

	switch {
	case existed && idx >= 0:
		ops[idx] = prev
	case existed:
		ops = append(ops, prev)
	case idx >= 0:
		ops = append(ops[:idx], ops[idx+1:]...)
	default:
		return
	}
	saveList(ctx, l.store, key, keepRecent(ops, l.max))
}

// Confirm drops entries the server cart already reflects
func (l *PendingLedger) Confirm(ctx context.Context, userKey string, server domain.Cart) int {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	key := pendingKey(userKey)
	ops := loadList[domain.PendingOp](ctx, l.store, key)
	if len(ops) == 0 {
		return 0
	}

	serverQty := make(map[domain.CartKey]int)
	for _, g := range server.Groups {
		for _, it := range g.Items {
			serverQty[domain.CartKey{RestaurantID: g.Restaurant.ID, MenuID: it.Menu.ID}] = it.Quantity
		}
	}

	kept := ops[:0]
	for _, op := range ops {
		if qty, ok := serverQty[op.Key()]; ok && qty == op.Quantity {
			continue
		}
		kept = append(kept, op)
	}

	confirmed := len(ops) - len(kept)
	if confirmed > 0 {
		saveList(ctx, l.store, key, kept)
	}
	return confirmed
}

// nextTS keeps timestamps strictly increasing within one ledger so that
// recency ordering is total even under a coarse clock.
func (l *PendingLedger) nextTS(ops []domain.PendingOp) time.Time {
	ts := l.now()
	for _, op := range ops {
		if !ts.After(op.TS) {
			ts = op.TS.Add(time.Nanosecond)
		}
	}
	return ts
}

func indexOfOp(ops []domain.PendingOp, key domain.CartKey) int {
	for i, op := range ops {
		if op.Key() == key {
			return i
		}
	}
	return -1
}

func mergeOp(prev, next domain.PendingOp) domain.PendingOp {
	merged := prev
	merged.Quantity = next.Quantity
	merged.TS = next.TS
	if next.RestaurantName != "" {
		merged.RestaurantName = next.RestaurantName
	}
	if next.RestaurantLogo != "" {
		merged.RestaurantLogo = next.RestaurantLogo
	}
	if next.MenuName != "" {
		merged.MenuName = next.MenuName
	}
	if next.MenuPrice > 0 {
		merged.MenuPrice = next.MenuPrice
	}
	if next.MenuImage != "" {
		merged.MenuImage = next.MenuImage
	}
	return merged
}

// keepRecent returns the maxEntries newest entries in their original order
func keepRecent(ops []domain.PendingOp, maxEntries int) []domain.PendingOp {
	maxEntries = max(maxEntries, 0)
	if len(ops) <= maxEntries {
		return ops
	}

	idx := make([]int, len(ops))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, tb := ops[idx[a]].TS, ops[idx[b]].TS
		if ta.Equal(tb) {
			return idx[a] > idx[b]
		}
		return ta.After(tb)
	})

	keep := make(map[int]bool, maxEntries)
	for _, i := range idx[:maxEntries] {
		keep[i] = true
	}

	out := make([]domain.PendingOp, 0, maxEntries)
	for i, op := range ops {
		if keep[i] {
			out = append(out, op)
		}
	}
	return out
}
