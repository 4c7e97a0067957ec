// internal/adapters/out/db/schema.go
package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect selects DDL flavour. Queries themselves are shared.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

// ProductsDDL returns the CREATE TABLE statement for products.
func ProductsDDL(d Dialect) (string, error) {
	var ts string
	switch d {
	case DialectPostgres:
		ts = "TIMESTAMPTZ"
	case DialectSQLite:
		ts = "TIMESTAMP"
	default:
		return "", fmt.Errorf("db: unsupported dialect %q", d)
	}

	return `CREATE TABLE IF NOT EXISTS products (
  name       TEXT PRIMARY KEY,
  stock      INTEGER NOT NULL CHECK (stock >= 0),
  updated_at ` + ts + ` NOT NULL
);`, nil
}

// EnsureSchema creates the products table if it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	ddl, err := ProductsDDL(d)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("db: ensure schema: %w", err)
	}
	return nil
}
