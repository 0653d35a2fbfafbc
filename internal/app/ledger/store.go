package ledger

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

const (
	pendingPrefix = "cart_pending_"
	historyPrefix = "order_history_"
)

// Store persists ledger lists as JSON arrays under per-user keys. Backend
// failures are never returned: the first one switches the store to an
// in-memory map for the rest of the process.
type Store struct {
	backend interfaces.LedgerBackend
	logger  logger.Logger

	mu       sync.Mutex
	degraded bool
	fallback map[string][]byte
}

func NewStore(backend interfaces.LedgerBackend, lgr logger.Logger) *Store {
	return &Store{
		backend:  backend,
		logger:   lgr,
		fallback: make(map[string][]byte),
	}
}

// Degraded reports whether the store has fallen back to memory
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func normalizeUser(userKey string) string {
	if userKey == "" {
		return interfaces.GuestKey
	}
	return userKey
}

func pendingKey(userKey string) string { return pendingPrefix + normalizeUser(userKey) }
func historyKey(userKey string) string { return historyPrefix + normalizeUser(userKey) }

// read, write and remove expect s.mu to be held
func (s *Store) read(ctx context.Context, key string) []byte {
	if s.degraded || s.backend == nil {
		return s.fallback[key]
	}

	payload, found, err := s.backend.Load(ctx, key)
	if err != nil {
		s.degrade(key, err)
		return s.fallback[key]
	}
	if !found {
		return nil
	}
	return payload
}

func (s *Store) write(ctx context.Context, key string, payload []byte) {
	if s.degraded || s.backend == nil {
		s.fallback[key] = payload
		return
	}

	if err := s.backend.Save(ctx, key, payload); err != nil {
		s.degrade(key, err)
		s.fallback[key] = payload
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	delete(s.fallback, key)
	if s.degraded || s.backend == nil {
		return
	}

	if err := s.backend.Delete(ctx, key); err != nil {
		s.degrade(key, err)
	}
}

func (s *Store) degrade(key string, err error) {
	s.degraded = true
	if s.logger != nil {
		s.logger.Warn("ledger_storage_degraded", "Ledger storage unavailable, continuing in memory", "", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func loadList[T any](ctx context.Context, s *Store, key string) []T {
	raw := s.read(ctx, key)
	if len(raw) == 0 {
		return nil
	}

	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	return list
}

func saveList[T any](ctx context.Context, s *Store, key string, list []T) {
	if list == nil {
		list = []T{}
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return
	}
	s.write(ctx, key, payload)
}
