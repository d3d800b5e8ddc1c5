package payment

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jartiste/smartshop/internal/domain/client"
	"github.com/jartiste/smartshop/internal/domain/order"
)

// --- Fakes ---

type fakeOrderRepo struct {
	byID map[string]*order.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	f.byID[o.ID] = o
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderRepo) ListByClient(_ context.Context, _ string) ([]order.Order, error) {
	return nil, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	f.byID[o.ID] = o
	return nil
}

type fakeClientRepo struct {
	byID map[string]*client.Client
}

func (f *fakeClientRepo) Create(_ context.Context, c *client.Client) error {
	f.byID[c.ID] = c
	return nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id string) (*client.Client, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return c, nil
}

func (f *fakeClientRepo) List(_ context.Context) ([]client.Client, error) { return nil, nil }

func (f *fakeClientRepo) Update(_ context.Context, c *client.Client) error {
	f.byID[c.ID] = c
	return nil
}

type fakePaymentRepo struct {
	byOrder map[string][]Payment
}

func (f *fakePaymentRepo) Create(_ context.Context, p *Payment) error {
	f.byOrder[p.OrderID] = append(f.byOrder[p.OrderID], *p)
	return nil
}

func (f *fakePaymentRepo) ListByOrder(_ context.Context, orderID string) ([]Payment, error) {
	return f.byOrder[orderID], nil
}

type fakeTx struct {
	orders   *fakeOrderRepo
	clients  *fakeClientRepo
	payments *fakePaymentRepo
}

func (t *fakeTx) Orders() order.Repository   { return t.orders }
func (t *fakeTx) Clients() client.Repository { return t.clients }
func (t *fakeTx) Payments() Repository       { return t.payments }

type fakeStore struct {
	tx *fakeTx
}

func (s *fakeStore) InTx(_ context.Context, fn func(tx Tx) error) error {
	return fn(s.tx)
}

// --- Helpers ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var fixedNow = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

func newFixture() (*Service, *fakeTx) {
	tx := &fakeTx{
		orders:   &fakeOrderRepo{byID: make(map[string]*order.Order)},
		clients:  &fakeClientRepo{byID: make(map[string]*client.Client)},
		payments: &fakePaymentRepo{byOrder: make(map[string][]Payment)},
	}
	svc := NewService(&fakeStore{tx: tx}, tx.orders, tx.payments)
	svc.now = func() time.Time { return fixedNow }
	return svc, tx
}

func seedOrder(tx *fakeTx, id, clientID string, status order.Status, total, remaining string) {
	tx.orders.byID[id] = &order.Order{
		ID:              id,
		ClientID:        clientID,
		Status:          status,
		TotalAmount:     dec(total),
		RemainingAmount: dec(remaining),
	}
	tx.clients.byID[clientID] = &client.Client{
		ID:         clientID,
		Tier:       client.TierBasic,
		TotalSpent: decimal.Zero,
	}
}

func cashReq(orderID, amount string) AddRequest {
	return AddRequest{OrderID: orderID, Amount: dec(amount), Method: MethodCash}
}

// --- Tests ---

func TestAdd_CashPartialPayment(t *testing.T) {
	svc, tx := newFixture()
	seedOrder(tx, "o1", "c1", order.StatusPending, "5000.00", "5000.00")

	p, err := svc.Add(context.Background(), cashReq("o1", "2000.00"))
	require.NoError(t, err)

	assert.Equal(t, StatusCleared, p.Status, "cash clears immediately")
	require.NotNil(t, p.ClearedDate)
	assert.Equal(t, fixedNow, *p.ClearedDate)
	assert.Equal(t, "ESP-20250314150926", p.Reference)

	o := tx.orders.byID["o1"]
	assert.True(t, dec("3000.00").Equal(o.RemainingAmount))
	assert.Equal(t, order.StatusPending, o.Status, "partial payment does not confirm")
	assert.Equal(t, 0, tx.clients.byID["c1"].TotalOrders)
}

func TestAdd_FinalPaymentConfirmsOrder(t *testing.T) {
	svc, tx := newFixture()
	seedOrder(tx, "o1", "c1", order.StatusPending, "5000.00", "5000.00")

	_, err := svc.Add(context.Background(), cashReq("o1", "5000.00"))
	require.NoError(t, err)

	o := tx.orders.byID["o1"]
	assert.True(t, o.RemainingAmount.IsZero())
	assert.Equal(t, order.StatusConfirmed, o.Status)

	c := tx.clients.byID["c1"]
	assert.Equal(t, 1, c.TotalOrders)
	assert.True(t, dec("5000.00").Equal(c.TotalSpent))
	assert.Equal(t, client.TierGold, c.Tier, "5000 spend reaches gold")
}

func TestAdd_OrderNotFound(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.Add(context.Background(), cashReq("missing", "10.00"))
	require.ErrorIs(t, err, order.ErrNotFound)
}

func TestAdd_ClosedOrder(t *testing.T) {
	for _, status := range []order.Status{order.StatusCanceled, order.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			svc, tx := newFixture()
			seedOrder(tx, "o1", "c1", status, "100.00", "100.00")

			_, err := svc.Add(context.Background(), cashReq("o1", "10.00"))
			require.ErrorIs(t, err, ErrOrderClosed)
			assert.Empty(t, tx.payments.byOrder["o1"])
		})
	}
}

func TestAdd_Overpayment(t *testing.T) {
	svc, tx := newFixture()
	seedOrder(tx, "o1", "c1", order.StatusPending, "100.00", "40.00")

	_, err := svc.Add(context.Background(), cashReq("o1", "40.01"))
	require.ErrorIs(t, err, ErrOverpayment)

	assert.True(t, dec("40.00").Equal(tx.orders.byID["o1"].RemainingAmount),
		"remaining is unchanged after a rejected posting")
}

func TestAdd_NonPositiveAmount(t *testing.T) {
	svc, tx := newFixture()
	seedOrder(tx, "o1", "c1", order.StatusPending, "100.00", "100.00")

	_, err := svc.Add(context.Background(), cashReq("o1", "0"))
	require.ErrorIs(t, err, ErrNonPositiveAmount)

	_, err = svc.Add(context.Background(), cashReq("o1", "-5"))
	require.ErrorIs(t, err, ErrNonPositiveAmount)
}

func TestAdd_CashLimit(t *testing.T) {
	svc, tx := newFixture()
	seedOrder(tx, "o1", "c1", order.StatusPending, "50000.00", "50000.00")

	_, err := svc.Add(context.Background(), cashReq("o1", "20000.01"))
	require.ErrorIs(t, err, ErrCashLimitExceeded)

	// Exactly at the limit is fine.
	_, err = svc.Add(context.Background(), cashReq("o1", "20000.00"))
	require.NoError(t, err)
}

func TestAdd_ChequeRequiresBankAndDueDate(t *testing.T) {
	svc, tx := newFixture()
	seedOrder(tx, "o1", "c1", order.StatusPending, "100.00", "100.00")

	due := fixedNow.AddDate(0, 1, 0)

	_, err := svc.Add(context.Background(), AddRequest{
		OrderID: "o1", Amount: dec("50.00"), Method: MethodCheque, DueDate: &due,
	})
	var mfErr *MissingFieldError
	require.ErrorAs(t, err, &mfErr)
	assert.Equal(t, "bank name", mfErr.Field)

	_, err = svc.Add(context.Background(), AddRequest{
		OrderID: "o1", Amount: dec("50.00"), Method: MethodCheque, BankName: "BMCE",
	})
	require.ErrorAs(t, err, &mfErr)
	assert.Equal(t, "due date", mfErr.Field)

	assert.Empty(t, tx.payments.byOrder["o1"], "no payment persisted on validation failure")
	assert.True(t, dec("100.00").Equal(tx.orders.byID["o1"].RemainingAmount))

	p, err := svc.Add(context.Background(), AddRequest{
		OrderID: "o1", Amount: dec("50.00"), Method: MethodCheque,
		BankName: "BMCE", DueDate: &due,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status, "cheques await clearance")
	assert.Nil(t, p.ClearedDate)
	assert.Equal(t, "CHQ-20250314150926", p.Reference)
}

func TestAdd_WireRequiresBank(t *testing.T) {
	svc, tx := newFixture()
	seedOrder(tx, "o1", "c1", order.StatusPending, "100.00", "100.00")

	_, err := svc.Add(context.Background(), AddRequest{
		OrderID: "o1", Amount: dec("100.00"), Method: MethodWire,
	})
	var mfErr *MissingFieldError
	require.ErrorAs(t, err, &mfErr)
	assert.Equal(t, MethodWire, mfErr.Method)

	p, err := svc.Add(context.Background(), AddRequest{
		OrderID: "o1", Amount: dec("100.00"), Method: MethodWire, BankName: "CIH",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status)
	assert.Equal(t, "VIR-20250314150926", p.Reference)
	assert.Equal(t, order.StatusConfirmed, tx.orders.byID["o1"].Status,
		"a pending-clearance payment still settles the balance")
}

func TestAdd_CallerReferenceWins(t *testing.T) {
	svc, tx := newFixture()
	seedOrder(tx, "o1", "c1", order.StatusPending, "100.00", "100.00")

	p, err := svc.Add(context.Background(), AddRequest{
		OrderID: "o1", Amount: dec("10.00"), Method: MethodCash, Reference: "RCPT-42",
	})
	require.NoError(t, err)
	assert.Equal(t, "RCPT-42", p.Reference)
}

func TestAdd_UnknownMethod(t *testing.T) {
	svc, _ := newFixture()

	_, err := svc.Add(context.Background(), AddRequest{
		OrderID: "o1", Amount: dec("10.00"), Method: Method("BITCOIN"),
	})
	require.Error(t, err)
}

func TestAdd_RemainingInvariant(t *testing.T) {
	svc, tx := newFixture()
	seedOrder(tx, "o1", "c1", order.StatusPending, "300.00", "300.00")

	amounts := []string{"120.00", "80.00", "100.00"}
	for _, a := range amounts {
		_, err := svc.Add(context.Background(), cashReq("o1", a))
		require.NoError(t, err)

		posted := decimal.Zero
		for _, p := range tx.payments.byOrder["o1"] {
			posted = posted.Add(p.Amount)
		}
		want := dec("300.00").Sub(posted)
		got := tx.orders.byID["o1"].RemainingAmount
		assert.True(t, want.Equal(got), "remaining %s, want %s", got, want)
	}

	assert.Equal(t, order.StatusConfirmed, tx.orders.byID["o1"].Status)
}

func TestListByOrder(t *testing.T) {
	svc, tx := newFixture()
	seedOrder(tx, "o1", "c1", order.StatusPending, "100.00", "100.00")

	_, err := svc.Add(context.Background(), cashReq("o1", "60.00"))
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), cashReq("o1", "40.00"))
	require.NoError(t, err)

	payments, err := svc.ListByOrder(context.Background(), "o1")
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	_, err = svc.ListByOrder(context.Background(), "missing")
	require.ErrorIs(t, err, order.ErrNotFound)
}
