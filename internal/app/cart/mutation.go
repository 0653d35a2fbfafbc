package cart

import (
	"context"

	"github.com/YelzhanWeb/storefront/internal/app/querycache"
	"github.com/YelzhanWeb/storefront/internal/domain"
)

// mutation captures the local state one cart mutation touches so it can be
// put back if the remote call fails.
type mutation struct {
	s       *Service
	ctx     context.Context
	userKey string

	ops     []domain.PendingOp
	existed []bool

	cached    domain.Cart
	hadCached bool
}

// begin snapshots the ledger entries for keys, or the whole ledger when no
// key is given, together with the cached server cart.
func (s *Service) begin(ctx context.Context, userKey string, keys ...domain.CartKey) *mutation {
	m := &mutation{s: s, ctx: ctx, userKey: userKey}

	if len(keys) == 0 {
		for _, op := range s.pending.List(ctx, userKey) {
			m.ops = append(m.ops, op)
			m.existed = append(m.existed, true)
		}
	}
	for _, k := range keys {
		op, ok := s.pending.Lookup(ctx, userKey, k.RestaurantID, k.MenuID)
		if !ok {
			op = domain.PendingOp{RestaurantID: k.RestaurantID, MenuID: k.MenuID}
		}
		m.ops = append(m.ops, op)
		m.existed = append(m.existed, ok)
	}

	m.cached, m.hadCached = querycache.Peek[domain.Cart](s.cache, cartKey(userKey))
	return m
}

// patch rewrites the cached server cart, if there is one
func (m *mutation) patch(fn func(domain.Cart) domain.Cart) {
	if !m.hadCached {
		return
	}
	m.s.cache.Set(cartKey(m.userKey), fn(m.cached))
}

func (m *mutation) revert(cause error) {
	for i, op := range m.ops {
		m.s.pending.Restore(m.ctx, m.userKey, op, m.existed[i])
	}
	if m.hadCached {
		m.s.cache.Set(cartKey(m.userKey), m.cached)
	}

	m.s.logger.Warn("cart_mutation_reverted", "Cart mutation failed, local state restored", requestID(m.ctx), map[string]interface{}{
		"user":    m.userKey,
		"entries": len(m.ops),
		"error":   cause.Error(),
	})
}

func (m *mutation) settle() {
	m.s.pending.Prune(m.ctx, m.userKey, m.s.pending.MaxEntries())
	m.s.cache.Invalidate(querycache.ScopeCart, m.userKey)
}
