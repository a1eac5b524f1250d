// Package store provides typed sqlite access to each entity. Every read and
// write on an event-owned row is filtered through the owning event's id (via
// the parent chain for meals and items), so a guessed id from another event
// behaves exactly like a missing row.
package store

import (
	"context"
	"database/sql"
)

// Querier is the subset of *sql.DB and *sql.Tx the stores use. Stores are
// normally bound to the database; the mutation pipeline rebinds them to its
// transaction with WithTx so snapshots and writes share one transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
