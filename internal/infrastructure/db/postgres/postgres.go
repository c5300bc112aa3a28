// Package postgres implements the repositories on PostgreSQL using sqlx and
// lib/pq. Schema changes live in migrations/ and are applied by Migrate.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	defaultTimeout    = 10 * time.Second
	uniqueViolation   = "23505"
	migrationsDirName = "migrations"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config captures the settings required to open a PostgreSQL pool.
type Config struct {
	DSN          string
	MaxOpenConns int
	Timeout      time.Duration
}

// Connect opens a pool and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, "postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return db, nil
}

// Migrate applies all pending up migrations.
func Migrate(db *sqlx.DB) error {
	src, err := iofs.New(migrationsFS, migrationsDirName)
	if err != nil {
		return fmt.Errorf("migrations source: %w", err)
	}
	driver, err := migratepg.WithInstance(db.DB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("migrations driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrations init: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations up: %w", err)
	}
	return nil
}

// Store bundles the repositories sharing one pool.
type Store struct {
	db        *sqlx.DB
	Accounts  *AccountRepository
	Executors *ExecutorRepository
	Requests  *RequestRepository
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:        db,
		Accounts:  NewAccountRepository(db),
		Executors: NewExecutorRepository(db),
		Requests:  NewRequestRepository(db),
	}
}

// Ping verifies the pool can reach the server.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
