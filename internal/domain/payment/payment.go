package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Method is the means of payment. The names follow the ledger's French
// bookkeeping conventions: cash, cheque, wire transfer.
type Method string

const (
	MethodCash   Method = "ESPECES"
	MethodCheque Method = "CHEQUE"
	MethodWire   Method = "VIREMENT"
)

// Valid reports whether m is a known payment method.
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCheque, MethodWire:
		return true
	}
	return false
}

// referencePrefix is used when auto-generating a payment reference.
func (m Method) referencePrefix() string {
	switch m {
	case MethodCash:
		return "ESP"
	case MethodCheque:
		return "CHQ"
	case MethodWire:
		return "VIR"
	}
	return ""
}

// Status tracks clearance. Cash clears immediately; cheques and wires stay
// pending (no clearance transition is modeled).
type Status string

const (
	StatusPending Status = "EN_ATTENTE"
	StatusCleared Status = "ENCAISSE"
)

// Business-rule violations raised by the ledger.
var (
	ErrOrderClosed       = errors.New("order already canceled or rejected")
	ErrOverpayment       = errors.New("amount exceeds the remaining balance")
	ErrNonPositiveAmount = errors.New("amount must be greater than 0")
	ErrCashLimitExceeded = errors.New("cash payment exceeds the 20000 limit")
)

// MissingFieldError indicates a method-specific required field was absent.
type MissingFieldError struct {
	Method Method
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s payment requires %s", e.Method, e.Field)
}

// Payment is one posted payment against an order. Payments are immutable
// once recorded.
type Payment struct {
	ID          string
	OrderID     string
	Amount      decimal.Decimal
	Method      Method
	Status      Status
	Reference   string
	BankName    string
	DueDate     *time.Time
	ClearedDate *time.Time
	CreatedAt   time.Time
}

// Repository defines persistence operations for payments.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	ListByOrder(ctx context.Context, orderID string) ([]Payment, error)
}
