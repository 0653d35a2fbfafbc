package interfaces

import "context"

// LedgerBackend is the durable key/value store behind the ledgers.
// Load reports found=false for a missing key.
type LedgerBackend interface {
	Load(ctx context.Context, key string) (payload []byte, found bool, err error)
	Save(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}
