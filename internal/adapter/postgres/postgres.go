// Package postgres implements the persistence ports directly against
// PostgreSQL. It is selected at startup when a database connection
// string is configured, bypassing the GraphQL gateway.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"

	"discover/internal/domain"
)

// DB wraps a *sql.DB and implements the domain repository interfaces.
type DB struct {
	sql *sql.DB
}

var (
	_ domain.UserRepository = (*DB)(nil)
	_ domain.StatRepository = (*DB)(nil)
)

// Open connects to PostgreSQL, pings with retry, and runs migrations.
// The retry covers databases that come up alongside the service.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ping := func() error {
		return s.PingContext(ctx)
	}
	if err := backoff.Retry(ping, backoff.WithContext(backoff.NewExponentialBackOff(), ctx)); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS users (id TEXT PRIMARY KEY, issuer TEXT UNIQUE NOT NULL, email TEXT NOT NULL, public_address TEXT NOT NULL DEFAULT '', created_at TIMESTAMPTZ NOT NULL);",
		"CREATE TABLE IF NOT EXISTS video_stats (id TEXT PRIMARY KEY, user_id TEXT NOT NULL, video_id TEXT NOT NULL, favourited TEXT NOT NULL CHECK(favourited IN ('liked','disliked','none')), watched BOOLEAN NOT NULL, created_at TIMESTAMPTZ NOT NULL, UNIQUE(user_id, video_id));",
		"CREATE INDEX IF NOT EXISTS idx_video_stats_user_id ON video_stats(user_id);",
	}

	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
