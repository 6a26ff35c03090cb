// Package postgres persists profiles, character sheets, and finished
// encounter records using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// Pool owns the shared pgx connection pool. Repositories borrow the
// underlying pool through DB; Pool itself handles connect, health, and
// shutdown.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to PostgreSQL using the configured DSN and pool limits
// and verifies the connection with a ping before returning.
//
// Precondition: cfg must carry valid connection parameters.
// Postcondition: Returns a ready Pool or a non-nil error; on error no pool
// resources are left open.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Pool{pool: pool}, nil
}

// Health reports whether the database answers a ping within timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}
	return nil
}

// Close releases all pool resources.
//
// Postcondition: The pool is unusable after Close.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB exposes the underlying pgxpool.Pool for the repositories.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
