// internal/adapters/out/db/product_repository_sql.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	dbcommon "shopcart/internal/adapters/out/db/common"
	productdom "shopcart/internal/domain/product"
)

// ProductRepositorySQL stores products in the "products" table.
// Placeholders are $n, which both lib/pq and go-sqlite3 accept.
type ProductRepositorySQL struct {
	DB      *sql.DB
	Dialect Dialect
	now     func() time.Time
}

func NewProductRepositorySQL(db *sql.DB, d Dialect) *ProductRepositorySQL {
	return &ProductRepositorySQL{DB: db, Dialect: d, now: time.Now}
}

// RunInTx runs fn in one transaction; fn's ctx carries the tx.
// A ctx that already holds a tx is reused as-is.
func (r *ProductRepositorySQL) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := dbcommon.TxFrom(ctx); ok {
		return fn(ctx)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db: begin tx: %w", err)
	}
	if err := fn(dbcommon.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db: commit tx: %w", err)
	}
	return nil
}

// ========================
// RepositoryPort impl
// ========================

func (r *ProductRepositorySQL) Save(ctx context.Context, p *productdom.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	run := dbcommon.GetRunner(ctx, r.DB)

	const q = `
INSERT INTO products (name, stock, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO UPDATE SET
  stock = excluded.stock,
  updated_at = excluded.updated_at`

	_, err := run.ExecContext(ctx, q, strings.TrimSpace(p.Name), p.Count, r.now().UTC())
	if err != nil {
		if dbcommon.IsCheckViolation(err) {
			return productdom.ErrInvalidProduct
		}
		return fmt.Errorf("db: save product %s: %w", p.Name, err)
	}
	return nil
}

func (r *ProductRepositorySQL) FindAll(ctx context.Context) ([]*productdom.Product, error) {
	run := dbcommon.GetRunner(ctx, r.DB)

	rows, err := run.QueryContext(ctx, `SELECT name, stock FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*productdom.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductRepositorySQL) FindByName(ctx context.Context, name string) (*productdom.Product, error) {
	_, inTx := dbcommon.TxFrom(ctx)
	run := dbcommon.GetRunner(ctx, r.DB)

	row := run.QueryRowContext(ctx, findByNameQuery(r.Dialect, inTx), strings.TrimSpace(name))
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, productdom.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ========================
// Helpers
// ========================

// findByNameQuery locks the row inside a Postgres tx so a concurrent
// checkout in another process waits for this one to commit.
// sqlite の書き込みはDB単位で直列化されるため FOR UPDATE は不要
func findByNameQuery(d Dialect, inTx bool) string {
	const q = `SELECT name, stock FROM products WHERE name = $1`
	if inTx && d == DialectPostgres {
		return q + ` FOR UPDATE`
	}
	return q
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(s rowScanner) (*productdom.Product, error) {
	var (
		name  string
		stock int
	)
	if err := s.Scan(&name, &stock); err != nil {
		return nil, err
	}
	return &productdom.Product{Name: name, Count: stock}, nil
}
