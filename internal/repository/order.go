package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders
		(id, client_id, status, promo_code, sub_total, discount_amount, tax_amount, total_amount, remaining_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	createOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)`

	updateOrderSQL = `UPDATE orders
		SET status = $2, remaining_amount = $3, updated_at = now()
		WHERE id = $1`

	getOrderByIDSQL = `SELECT id, client_id, status, promo_code, sub_total, discount_amount,
		tax_amount, total_amount, remaining_amount, created_at, updated_at
		FROM orders WHERE id = $1`

	listOrdersByClientSQL = `SELECT id, client_id, status, promo_code, sub_total, discount_amount,
		tax_amount, total_amount, remaining_amount, created_at, updated_at
		FROM orders WHERE client_id = $1 ORDER BY created_at DESC`

	getOrderItemsSQL = `SELECT product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// items live in their own table and are written once, at order creation.
type OrderRepository struct {
	db DB
}

// NewOrderRepository returns an OrderRepository over the given pool or
// transaction.
func NewOrderRepository(db DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists a new order and its items.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.db.Exec(ctx, createOrderSQL,
		o.ID, o.ClientID, o.Status, nullableString(o.PromoCode),
		o.SubTotal, o.DiscountAmount, o.TaxAmount, o.TotalAmount, o.RemainingAmount,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	for _, item := range o.Items {
		_, err := r.db.Exec(ctx, createOrderItemSQL, o.ID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return fmt.Errorf("creating order item %s/%s: %w", o.ID, item.ProductID, err)
		}
	}
	return nil
}

// Update persists the order's status and remaining amount.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	tag, err := r.db.Exec(ctx, updateOrderSQL, o.ID, o.Status, o.RemainingAmount)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// GetByID returns a single order with its items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.db.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o.Items, err = r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByClient returns the client's orders, newest first, items included.
func (r *OrderRepository) ListByClient(ctx context.Context, clientID string) ([]order.Order, error) {
	rows, err := r.db.Query(ctx, listOrdersByClientSQL, clientID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for client %q: %w", clientID, err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders for client %q: %w", clientID, err)
	}

	for i := range orders {
		orders[i].Items, err = r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]order.Item, error) {
	rows, err := r.db.Query(ctx, getOrderItemsSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("loading items for order %q: %w", orderID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Item, error) {
		var (
			item  order.Item
			price decimal.Decimal
		)
		err := row.Scan(&item.ProductID, &item.Quantity, &price)
		item.UnitPrice = price
		return item, err
	})
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o         order.Order
		status    string
		promoCode *string
	)
	err := row.Scan(
		&o.ID, &o.ClientID, &status, &promoCode,
		&o.SubTotal, &o.DiscountAmount, &o.TaxAmount, &o.TotalAmount, &o.RemainingAmount,
		&o.CreatedAt, &o.UpdatedAt,
	)
	o.Status = order.Status(status)
	if promoCode != nil {
		o.PromoCode = *promoCode
	}
	return o, err
}

// nullableString maps "" to NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
