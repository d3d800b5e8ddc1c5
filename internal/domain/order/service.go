package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/client"
	"github.com/jartiste/smartshop/internal/domain/product"
)

// Tx bundles the repositories an order mutation touches inside one
// transaction.
type Tx interface {
	Products() product.Repository
	Clients() client.Repository
	Orders() Repository
}

// Store runs a function against a transactional view of the repositories.
// The function's error rolls the transaction back.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// ItemRequest is one requested order line.
type ItemRequest struct {
	ProductID string
	Quantity  int
}

// CreateRequest holds the input for placing an order.
type CreateRequest struct {
	ClientID  string
	PromoCode string
	Items     []ItemRequest
}

// Service encapsulates order placement and lifecycle transitions.
type Service struct {
	store  Store
	orders Repository
	newID  func() string
}

// NewService creates an order Service. The orders repository serves
// non-transactional reads; all mutations go through the store.
func NewService(store Store, orders Repository) *Service {
	return &Service{
		store:  store,
		orders: orders,
		newID:  func() string { return uuid.New().String() },
	}
}

// Create validates the request, prices the order, and persists it together
// with the stock decrements in a single transaction.
//
// Stock is checked across all lines before any decrement: one short line
// marks the whole order REJECTED and leaves every product untouched.
// Rejected orders are still persisted with their computed amounts; rejection
// is a terminal status, not an error.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
	}

	var o *Order
	err := s.store.InTx(ctx, func(tx Tx) error {
		c, err := tx.Clients().GetByID(ctx, req.ClientID)
		if err != nil {
			return errors.Wrap(err, "get client")
		}

		products := make([]*product.Product, len(req.Items))
		items := make([]Item, len(req.Items))
		for i, item := range req.Items {
			p, err := tx.Products().GetByID(ctx, item.ProductID)
			if err != nil {
				return errors.Wrapf(err, "get product %s", item.ProductID)
			}
			products[i] = p
			items[i] = Item{
				ProductID: p.ID,
				Quantity:  item.Quantity,
				UnitPrice: p.Price,
			}
		}

		status := StatusPending
		for i, item := range req.Items {
			if !products[i].HasStock(item.Quantity) {
				status = StatusRejected
				break
			}
		}

		if status != StatusRejected {
			for i, item := range req.Items {
				if err := products[i].DecreaseStock(item.Quantity); err != nil {
					return err
				}
				if err := tx.Products().Update(ctx, products[i]); err != nil {
					return errors.Wrapf(err, "update product %s", products[i].ID)
				}
			}
		}

		subTotal := decimal.Zero
		for _, item := range items {
			subTotal = subTotal.Add(item.LineTotal())
		}

		quote := PriceOrder(c.Tier, req.PromoCode, subTotal)

		o = &Order{
			ID:              s.newID(),
			ClientID:        c.ID,
			Status:          status,
			PromoCode:       req.PromoCode,
			Items:           items,
			SubTotal:        quote.SubTotal,
			DiscountAmount:  quote.DiscountAmount,
			TaxAmount:       quote.TaxAmount,
			TotalAmount:     quote.TotalAmount,
			RemainingAmount: quote.RemainingAmount,
		}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return errors.Wrap(err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Confirm flips a fully paid pending order to CONFIRMED and folds it into
// the client's stats. Payments auto-confirm on the last posting, so this
// mostly serves zero-total orders, which never receive a payment.
func (s *Service) Confirm(ctx context.Context, id string) (*Order, error) {
	var o *Order
	err := s.store.InTx(ctx, func(tx Tx) error {
		var err error
		o, err = tx.Orders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.Status != StatusPending {
			return &StatusError{OrderID: o.ID, Status: o.Status, Op: "confirm"}
		}
		if !o.RemainingAmount.IsZero() {
			return ErrNotFullyPaid
		}

		o.Status = StatusConfirmed
		if err := tx.Orders().Update(ctx, o); err != nil {
			return errors.Wrap(err, "update order")
		}

		c, err := tx.Clients().GetByID(ctx, o.ClientID)
		if err != nil {
			return errors.Wrap(err, "get client")
		}
		c.ApplyConfirmedOrder(o.TotalAmount)
		if err := tx.Clients().Update(ctx, c); err != nil {
			return errors.Wrap(err, "update client")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Cancel flips a pending order to CANCELED and returns its stock. Stock
// restoration goes through AdjustStock so products soft-deleted since the
// order was placed still get their units back.
func (s *Service) Cancel(ctx context.Context, id string) error {
	return s.store.InTx(ctx, func(tx Tx) error {
		o, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.Status != StatusPending {
			return &StatusError{OrderID: o.ID, Status: o.Status, Op: "cancel"}
		}

		for _, item := range o.Items {
			if err := tx.Products().AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
				return errors.Wrapf(err, "restore stock for product %s", item.ProductID)
			}
		}

		o.Status = StatusCanceled
		if err := tx.Orders().Update(ctx, o); err != nil {
			return errors.Wrap(err, "update order")
		}
		return nil
	})
}

// GetByID returns a single order.
func (s *Service) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListByClient returns all orders owned by the given client.
func (s *Service) ListByClient(ctx context.Context, clientID string) ([]Order, error) {
	return s.orders.ListByClient(ctx, clientID)
}
