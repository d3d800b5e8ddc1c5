package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/client"
)

const (
	createClientSQL = `INSERT INTO clients (id, name, tier, total_orders, total_spent)
		VALUES ($1, $2, $3, $4, $5)`

	updateClientSQL = `UPDATE clients
		SET name = $2, tier = $3, total_orders = $4, total_spent = $5, updated_at = now()
		WHERE id = $1`

	listClientsSQL = `SELECT id, name, tier, total_orders, total_spent, created_at, updated_at
		FROM clients ORDER BY name`

	getClientByIDSQL = `SELECT id, name, tier, total_orders, total_spent, created_at, updated_at
		FROM clients WHERE id = $1`
)

var _ client.Repository = (*ClientRepository)(nil)

// ClientRepository implements client.Repository backed by PostgreSQL.
type ClientRepository struct {
	db DB
}

// NewClientRepository returns a ClientRepository over the given pool or
// transaction.
func NewClientRepository(db DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Create persists a new client profile.
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	_, err := r.db.Exec(ctx, createClientSQL, c.ID, c.Name, c.Tier, c.TotalOrders, c.TotalSpent)
	if err != nil {
		return fmt.Errorf("creating client %q: %w", c.ID, err)
	}
	return nil
}

// Update persists the client's name, tier, and confirmed-order stats.
func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	tag, err := r.db.Exec(ctx, updateClientSQL, c.ID, c.Name, c.Tier, c.TotalOrders, c.TotalSpent)
	if err != nil {
		return fmt.Errorf("updating client %q: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return client.ErrNotFound
	}
	return nil
}

// List returns all clients ordered by name.
func (r *ClientRepository) List(ctx context.Context) ([]client.Client, error) {
	rows, err := r.db.Query(ctx, listClientsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return pgx.CollectRows(rows, scanClient)
}

// GetByID returns a single client.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*client.Client, error) {
	rows, err := r.db.Query(ctx, getClientByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting client %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanClient)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, client.ErrNotFound
		}
		return nil, fmt.Errorf("getting client %q: %w", id, err)
	}
	return &c, nil
}

func scanClient(row pgx.CollectableRow) (client.Client, error) {
	var (
		c     client.Client
		tier  string
		spent decimal.Decimal
	)
	err := row.Scan(&c.ID, &c.Name, &tier, &c.TotalOrders, &spent, &c.CreatedAt, &c.UpdatedAt)
	c.Tier = client.Tier(tier)
	c.TotalSpent = spent
	return c, err
}
