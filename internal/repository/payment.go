package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/payment"
)

const (
	createPaymentSQL = `INSERT INTO payments
		(id, order_id, amount, method, status, reference, bank_name, due_date, cleared_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	listPaymentsByOrderSQL = `SELECT id, order_id, amount, method, status, reference,
		bank_name, due_date, cleared_date, created_at
		FROM payments WHERE order_id = $1 ORDER BY created_at`
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository implements payment.Repository backed by PostgreSQL.
// Payments are insert-only; the ledger never mutates or deletes them.
type PaymentRepository struct {
	db DB
}

// NewPaymentRepository returns a PaymentRepository over the given pool or
// transaction.
func NewPaymentRepository(db DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create persists a posted payment.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx, createPaymentSQL,
		p.ID, p.OrderID, p.Amount, p.Method, p.Status, p.Reference,
		nullableString(p.BankName), p.DueDate, p.ClearedDate, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating payment %q: %w", p.ID, err)
	}
	return nil
}

// ListByOrder returns the order's payments, oldest first.
func (r *PaymentRepository) ListByOrder(ctx context.Context, orderID string) ([]payment.Payment, error) {
	rows, err := r.db.Query(ctx, listPaymentsByOrderSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing payments for order %q: %w", orderID, err)
	}
	return pgx.CollectRows(rows, scanPayment)
}

func scanPayment(row pgx.CollectableRow) (payment.Payment, error) {
	var (
		p        payment.Payment
		method   string
		status   string
		amount   decimal.Decimal
		bankName *string
	)
	err := row.Scan(
		&p.ID, &p.OrderID, &amount, &method, &status, &p.Reference,
		&bankName, &p.DueDate, &p.ClearedDate, &p.CreatedAt,
	)
	p.Amount = amount
	p.Method = payment.Method(method)
	p.Status = payment.Status(status)
	if bankName != nil {
		p.BankName = *bankName
	}
	return p, err
}
