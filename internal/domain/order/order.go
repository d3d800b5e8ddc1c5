package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order.
//
//	PENDING   -> CONFIRMED (remaining amount reaches zero)
//	PENDING   -> CANCELED  (explicit cancellation, stock restored)
//	REJECTED  is terminal and assigned at creation when stock is insufficient.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCanceled  Status = "CANCELED"
	StatusRejected  Status = "REJECTED"
)

// Sentinel errors for order validation.
var (
	ErrNotFound   = errors.New("order not found")
	ErrEmptyItems = errors.New("items required")
)

// InvalidQuantityError indicates a line item has a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// StatusError indicates an operation that the order's current status forbids.
type StatusError struct {
	OrderID string
	Status  Status
	Op      string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot %s order %s in status %s", e.Op, e.OrderID, e.Status)
}

// ErrNotFullyPaid is returned when confirming an order that still has an
// outstanding balance.
var ErrNotFullyPaid = errors.New("order is not fully paid")

// Item is a single order line. The unit price is captured at order time and
// never changes afterwards, even if the catalog price does.
type Item struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal returns unit price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a priced set of line items owned by a client. RemainingAmount
// starts at TotalAmount and decreases as payments post; the invariant
// remaining = total - sum(payments) holds at all times and never goes
// negative.
type Order struct {
	ID              string
	ClientID        string
	Status          Status
	PromoCode       string
	Items           []Item
	SubTotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	TotalAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Repository defines persistence operations for orders and their items.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByClient(ctx context.Context, clientID string) ([]Order, error)
	// Update persists the mutable order fields (status, remaining amount).
	// Items are immutable once the order is created.
	Update(ctx context.Context, o *Order) error
}
