package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/YelzhanWeb/storefront/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTag int64

func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeRow struct {
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.payload
	return nil
}

type execCall struct {
	sql  string
	args []any
}

// fakeDB keeps rows in a map and records every statement
type fakeDB struct {
	rows    map[string][]byte
	execs   []execCall
	execErr error

	committed  bool
	rolledBack bool
}

func newFakeDB() *fakeDB { return &fakeDB{rows: make(map[string][]byte)} }

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	payload, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{payload: payload}
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	if f.execErr != nil {
		return nil, f.execErr
	}
	switch {
	case strings.Contains(sql, "INSERT INTO ledger_entries"):
		f.rows[args[0].(string)] = args[1].([]byte)
	case strings.Contains(sql, "DELETE FROM ledger_entries"):
		delete(f.rows, args[0].(string))
	}
	return fakeTag(1), nil
}

func (f *fakeDB) Begin(ctx context.Context) (Tx, error) { return f, nil }
func (f *fakeDB) Close()                                {}

func (f *fakeDB) Commit(ctx context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeDB) Rollback(ctx context.Context) error {
	if !f.committed {
		f.rolledBack = true
	}
	return nil
}

func TestLedgerRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	repo := NewLedgerRepository(db)

	_, found, err := repo.Load(ctx, "cart_pending_u1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Save(ctx, "cart_pending_u1", []byte(`[{"menuId":1}]`)))
	payload, found, err := repo.Load(ctx, "cart_pending_u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"menuId":1}]`, string(payload))

	require.NoError(t, repo.Delete(ctx, "cart_pending_u1"))
	_, found, err = repo.Load(ctx, "cart_pending_u1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLedgerRepository_SaveUsesUpsert(t *testing.T) {
	db := newFakeDB()
	repo := NewLedgerRepository(db)

	require.NoError(t, repo.Save(context.Background(), "order_history_u1", []byte(`[]`)))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0].sql, "ON CONFLICT (key) DO UPDATE")
}

func TestLedgerRepository_Errors(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	db.execErr = errors.New("connection reset")
	repo := NewLedgerRepository(db)

	err := repo.Save(ctx, "k", []byte(`[]`))
	assert.ErrorContains(t, err, "connection reset")
	assert.ErrorContains(t, repo.Delete(ctx, "k"), "failed to delete ledger k")
}

func TestEnsureSchema(t *testing.T) {
	db := newFakeDB()

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.Len(t, db.execs, len(schema))
	assert.True(t, db.committed)
	assert.False(t, db.rolledBack)
}

func TestEnsureSchema_RollsBackOnFailure(t *testing.T) {
	db := newFakeDB()
	db.execErr = errors.New("permission denied")

	err := EnsureSchema(context.Background(), db)
	assert.ErrorContains(t, err, "failed to apply schema")
	assert.True(t, db.rolledBack)
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "store"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=store sslmode=disable", dsn)
}
