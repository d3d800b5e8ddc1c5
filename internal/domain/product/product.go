package product

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist or has
// been soft-deleted.
var ErrNotFound = errors.New("product not found")

// InsufficientStockError indicates a stock decrement larger than what is
// available.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Product is a catalog item. Deletion is a soft flag; deleted products stay
// in storage but are invisible to reads and order placement.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Stock     int
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasStock reports whether qty units can be taken from stock.
func (p *Product) HasStock(qty int) bool {
	return p.Stock >= qty
}

// DecreaseStock removes qty units from stock. Stock never goes negative.
func (p *Product) DecreaseStock(qty int) error {
	if p.Stock < qty {
		return &InsufficientStockError{ProductID: p.ID, Requested: qty, Available: p.Stock}
	}
	p.Stock -= qty
	return nil
}

// IncreaseStock returns qty units to stock.
func (p *Product) IncreaseStock(qty int) {
	p.Stock += qty
}

// Repository defines persistence operations for the catalog. Reads exclude
// soft-deleted products.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	SoftDelete(ctx context.Context, id string) error
	// AdjustStock adds delta to a product's stock in a single statement,
	// regardless of the deleted flag. Used to restore stock on cancellation.
	AdjustStock(ctx context.Context, id string, delta int) error
}
