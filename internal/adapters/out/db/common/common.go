// internal/adapters/out/db/common/common.go
package common

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Runner is the subset shared by *sql.DB and *sql.Tx.
type Runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// WithTx binds tx to ctx so repositories run inside it.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFrom returns the tx bound to ctx by WithTx.
func TxFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}

// GetRunner returns the tx bound to ctx, or db.
func GetRunner(ctx context.Context, db *sql.DB) Runner {
	if tx, ok := TxFrom(ctx); ok {
		return tx
	}
	return db
}

// Postgres SQLSTATE for check_violation.
const pgCheckViolation = "23514"

// IsCheckViolation reports a CHECK constraint failure from either driver.
func IsCheckViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgCheckViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintCheck
	}
	return false
}
