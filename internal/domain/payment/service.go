package payment

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/client"
	"github.com/jartiste/smartshop/internal/domain/order"
)

// cashLimit is the maximum amount acceptable for a single cash payment.
var cashLimit = decimal.NewFromInt(20000)

// referenceTimeFormat renders the timestamp part of generated references as
// yyyyMMddHHmmss.
const referenceTimeFormat = "20060102150405"

// Tx bundles the repositories a payment posting touches inside one
// transaction.
type Tx interface {
	Orders() order.Repository
	Clients() client.Repository
	Payments() Repository
}

// Store runs a function against a transactional view of the repositories.
// The function's error rolls the transaction back.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// AddRequest holds the input for posting a payment against an order.
type AddRequest struct {
	OrderID   string
	Amount    decimal.Decimal
	Method    Method
	Reference string
	BankName  string
	DueDate   *time.Time
}

// Service is the payment ledger: it validates method rules, posts payments,
// keeps the order's remaining balance in sync, and confirms the order (with
// the client stat/tier update) when the balance reaches zero. Everything a
// posting changes commits as one unit of work.
type Service struct {
	store    Store
	orders   order.Repository
	payments Repository
	now      func() time.Time
}

// NewService creates a payment Service. The read repositories serve
// non-transactional queries.
func NewService(store Store, orders order.Repository, payments Repository) *Service {
	return &Service{
		store:    store,
		orders:   orders,
		payments: payments,
		now:      time.Now,
	}
}

// Add posts a payment against an order.
func (s *Service) Add(ctx context.Context, req AddRequest) (*Payment, error) {
	if !req.Method.Valid() {
		return nil, errors.Errorf("unknown payment method %q", req.Method)
	}
	if !req.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if err := validateMethodRules(req); err != nil {
		return nil, err
	}

	var p *Payment
	err := s.store.InTx(ctx, func(tx Tx) error {
		o, err := tx.Orders().GetByID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		if o.Status == order.StatusCanceled || o.Status == order.StatusRejected {
			return ErrOrderClosed
		}
		if req.Amount.GreaterThan(o.RemainingAmount) {
			return ErrOverpayment
		}

		now := s.now()
		p = &Payment{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			Amount:    req.Amount,
			Method:    req.Method,
			Status:    initialStatus(req.Method),
			Reference: s.reference(req),
			BankName:  req.BankName,
			DueDate:   req.DueDate,
			CreatedAt: now,
		}
		if req.Method == MethodCash {
			p.ClearedDate = &now
		}
		if err := tx.Payments().Create(ctx, p); err != nil {
			return errors.Wrap(err, "create payment")
		}

		o.RemainingAmount = o.RemainingAmount.Sub(req.Amount)

		if o.RemainingAmount.IsZero() && o.Status == order.StatusPending {
			o.Status = order.StatusConfirmed

			c, err := tx.Clients().GetByID(ctx, o.ClientID)
			if err != nil {
				return errors.Wrap(err, "get client")
			}
			c.ApplyConfirmedOrder(o.TotalAmount)
			if err := tx.Clients().Update(ctx, c); err != nil {
				return errors.Wrap(err, "update client")
			}
		}

		if err := tx.Orders().Update(ctx, o); err != nil {
			return errors.Wrap(err, "update order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByOrder returns every payment posted against the order, oldest first.
func (s *Service) ListByOrder(ctx context.Context, orderID string) ([]Payment, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.payments.ListByOrder(ctx, orderID)
}

// validateMethodRules enforces the per-method constraints: cash is capped,
// cheques need a bank and a due date, wires need a bank.
func validateMethodRules(req AddRequest) error {
	switch req.Method {
	case MethodCash:
		if req.Amount.GreaterThan(cashLimit) {
			return ErrCashLimitExceeded
		}
	case MethodCheque:
		if strings.TrimSpace(req.BankName) == "" {
			return &MissingFieldError{Method: req.Method, Field: "bank name"}
		}
		if req.DueDate == nil {
			return &MissingFieldError{Method: req.Method, Field: "due date"}
		}
	case MethodWire:
		if strings.TrimSpace(req.BankName) == "" {
			return &MissingFieldError{Method: req.Method, Field: "bank name"}
		}
	}
	return nil
}

// reference keeps a caller-supplied reference as-is and otherwise generates
// one as PREFIX-yyyyMMddHHmmss.
func (s *Service) reference(req AddRequest) string {
	if ref := strings.TrimSpace(req.Reference); ref != "" {
		return ref
	}
	return req.Method.referencePrefix() + "-" + s.now().Format(referenceTimeFormat)
}

// initialStatus clears cash immediately; everything else awaits manual
// clearance.
func initialStatus(m Method) Status {
	if m == MethodCash {
		return StatusCleared
	}
	return StatusPending
}
