package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/interfaces"

	"github.com/jackc/pgx/v5"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		key        TEXT PRIMARY KEY,
		payload    JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ledger_entries_updated_at_idx ON ledger_entries (updated_at)`,
}

type ledgerRepository struct {
	db DB
}

// NewLedgerRepository stores each ledger list as one JSONB row per key
func NewLedgerRepository(db DB) interfaces.LedgerBackend {
	return &ledgerRepository{db: db}
}

// EnsureSchema creates the ledger table in a single transaction
func EnsureSchema(ctx context.Context, db DB) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range schema {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *ledgerRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := r.db.QueryRow(ctx, `SELECT payload FROM ledger_entries WHERE key = $1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load ledger %s: %w", key, err)
	}
	return payload, true, nil
}

func (r *ledgerRepository) Save(ctx context.Context, key string, payload []byte) error {
	query := `
		INSERT INTO ledger_entries (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query, key, payload); err != nil {
		return fmt.Errorf("failed to save ledger %s: %w", key, err)
	}
	return nil
}

func (r *ledgerRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM ledger_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete ledger %s: %w", key, err)
	}
	return nil
}
