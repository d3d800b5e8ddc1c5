package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jartiste/smartshop/db"
	"github.com/jartiste/smartshop/internal/domain/client"
	"github.com/jartiste/smartshop/internal/domain/order"
	"github.com/jartiste/smartshop/internal/domain/payment"
	"github.com/jartiste/smartshop/internal/domain/product"
	"github.com/jartiste/smartshop/internal/domain/user"
)

// DB is the common query surface of *pgxpool.Pool and pgx.Tx. Repositories
// are constructed over either, so the same code serves pooled reads and
// transactional mutations.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPool creates a pgxpool.Pool configured with shopspring/decimal support
// for NUMERIC columns.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	return pool, nil
}

// RunMigrations executes the embedded DDL schema against the pool.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, db.Schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// Store owns the pool and hands out transactional repository bundles.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store over the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// run executes fn inside a database transaction. fn returning an error (or
// panicking) rolls the transaction back.
func (s *Store) run(ctx context.Context, fn func(t *Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&Tx{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

// Tx is a transactional view over all repositories. It satisfies the Tx
// interfaces declared by the domain services.
type Tx struct {
	db pgx.Tx
}

func (t *Tx) Products() product.Repository { return NewProductRepository(t.db) }
func (t *Tx) Clients() client.Repository   { return NewClientRepository(t.db) }
func (t *Tx) Orders() order.Repository     { return NewOrderRepository(t.db) }
func (t *Tx) Payments() payment.Repository { return NewPaymentRepository(t.db) }
func (t *Tx) Users() user.Repository       { return NewUserRepository(t.db) }

// Per-service store adapters. Each domain service declares its own Store
// interface over its own Tx bundle; *Tx structurally satisfies all of them.
var (
	_ order.Store   = OrderStore{}
	_ payment.Store = PaymentStore{}
	_ client.Store  = ClientStore{}
)

// OrderStore adapts Store to order.Store.
type OrderStore struct{ *Store }

func (s OrderStore) InTx(ctx context.Context, fn func(tx order.Tx) error) error {
	return s.run(ctx, func(t *Tx) error { return fn(t) })
}

// PaymentStore adapts Store to payment.Store.
type PaymentStore struct{ *Store }

func (s PaymentStore) InTx(ctx context.Context, fn func(tx payment.Tx) error) error {
	return s.run(ctx, func(t *Tx) error { return fn(t) })
}

// ClientStore adapts Store to client.Store.
type ClientStore struct{ *Store }

func (s ClientStore) InTx(ctx context.Context, fn func(tx client.Tx) error) error {
	return s.run(ctx, func(t *Tx) error { return fn(t) })
}
