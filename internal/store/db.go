package store

import (
	"context"
	"database/sql"
)

// DBTX is the query surface the postgres stores execute against. Both
// *sql.DB and *sql.Tx satisfy it, so a store built on a pooled connection
// can be rebound to a transaction without changing any query code.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
