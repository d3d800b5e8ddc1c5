package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/product"
)

const (
	createProductSQL = `INSERT INTO products (id, name, price, stock, deleted)
		VALUES ($1, $2, $3, $4, $5)`

	updateProductSQL = `UPDATE products
		SET name = $2, price = $3, stock = $4, deleted = $5, updated_at = now()
		WHERE id = $1`

	listProductsSQL = `SELECT id, name, price, stock, deleted, created_at, updated_at
		FROM products WHERE NOT deleted ORDER BY name`

	getProductByIDSQL = `SELECT id, name, price, stock, deleted, created_at, updated_at
		FROM products WHERE id = $1 AND NOT deleted`

	softDeleteProductSQL = `UPDATE products SET deleted = TRUE, updated_at = now()
		WHERE id = $1 AND NOT deleted`

	adjustStockSQL = `UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1`

	upsertProductSQL = `INSERT INTO products (id, name, price, stock, deleted)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, price = EXCLUDED.price, stock = EXCLUDED.stock,
			deleted = FALSE, updated_at = now()`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	db DB
}

// NewProductRepository returns a ProductRepository over the given pool or
// transaction.
func NewProductRepository(db DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create persists a new catalog entry.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.db.Exec(ctx, createProductSQL, p.ID, p.Name, p.Price, p.Stock, p.Deleted)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// Update persists the mutable product fields.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := r.db.Exec(ctx, updateProductSQL, p.ID, p.Name, p.Price, p.Stock, p.Deleted)
	if err != nil {
		return fmt.Errorf("updating product %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// List returns all non-deleted products ordered by name.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.db.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single non-deleted product.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.db.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Upsert inserts a product or refreshes an existing one, clearing the
// deleted flag. Used by the catalog feed importer.
func (r *ProductRepository) Upsert(ctx context.Context, p *product.Product) error {
	_, err := r.db.Exec(ctx, upsertProductSQL, p.ID, p.Name, p.Price, p.Stock)
	if err != nil {
		return fmt.Errorf("upserting product %q: %w", p.ID, err)
	}
	return nil
}

// SoftDelete marks a product deleted without removing the row.
func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, softDeleteProductSQL, id)
	if err != nil {
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// AdjustStock adds delta to the product's stock in one statement, ignoring
// the deleted flag.
func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	tag, err := r.db.Exec(ctx, adjustStockSQL, id, delta)
	if err != nil {
		return fmt.Errorf("adjusting stock for product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p     product.Product
		price decimal.Decimal
	)
	err := row.Scan(&p.ID, &p.Name, &price, &p.Stock, &p.Deleted, &p.CreatedAt, &p.UpdatedAt)
	p.Price = price
	return p, err
}
