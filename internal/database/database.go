// Package database opens and migrates the relation store. Repositories speak
// plain *sql.DB, so the embedded sqlite variant and the hosted postgres
// variant are interchangeable behind this package.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/furankuhanma/cafe-bianca-pos-system/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured store backend and verifies the connection.
func Open(cfg config.StoreConfig) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Driver {
	case DriverSQLite:
		// foreign_keys is off by default in sqlite; the schema relies on it.
		dsn := fmt.Sprintf("file:%s?_foreign_keys=on", cfg.Path)
		db, err = sql.Open("sqlite3", dsn)
		if err == nil {
			// The embedded store is single-terminal; one connection avoids
			// SQLITE_BUSY on overlapping writes.
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable&search_path=%s",
			url.QueryEscape(cfg.User),
			url.QueryEscape(cfg.Password),
			cfg.Host,
			cfg.Port,
			cfg.Database,
			cfg.Schema,
		)
		db, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s store: %w", cfg.Driver, err)
	}

	return db, nil
}

// Health reports basic connectivity and pool statistics.
func Health(db *sql.DB) map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	health := map[string]string{}
	if err := db.PingContext(ctx); err != nil {
		health["status"] = "down"
		health["error"] = err.Error()
		return health
	}

	stats := db.Stats()
	health["status"] = "up"
	health["open_connections"] = fmt.Sprintf("%d", stats.OpenConnections)
	health["in_use"] = fmt.Sprintf("%d", stats.InUse)
	return health
}
