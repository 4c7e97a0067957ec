// internal/infra/database/connection.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Driver names registered by the blank imports above.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type DB struct {
	Client *sql.DB
	Driver string
}

// NewConnection opens a pool for driver/dsn, tunes it and pings it.
func NewConnection(ctx context.Context, driver, dsn string, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	// Connection pool tuning
	switch driver {
	case DriverSQLite:
		// sqlite は単一ライターのため 1 接続に絞る
		db.SetMaxOpenConns(1)
	default:
		db.SetConnMaxLifetime(30 * time.Minute)
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	log.Info("[DB] connected", zap.String("driver", driver))
	return &DB{Client: db, Driver: driver}, nil
}

// Graceful shutdown
func (d *DB) Close() error {
	if d == nil || d.Client == nil {
		return nil
	}
	return d.Client.Close()
}
