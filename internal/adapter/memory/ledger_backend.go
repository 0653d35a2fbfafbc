package memory

import (
	"context"
	"sync"

	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

type ledgerBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewLedgerBackend keeps ledger payloads in process memory
func NewLedgerBackend() interfaces.LedgerBackend {
	return &ledgerBackend{data: make(map[string][]byte)}
}

func (b *ledgerBackend) Load(ctx context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	payload, ok := b.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

func (b *ledgerBackend) Save(ctx context.Context, key string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[key] = append([]byte(nil), payload...)
	return nil
}

func (b *ledgerBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.data, key)
	return nil
}
