package client

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested client does not exist.
var ErrNotFound = errors.New("client not found")

// Tier is the loyalty classification of a client. It drives the discount
// rate a client is eligible for and is always derived from the client's
// confirmed-order stats, never set directly.
type Tier string

const (
	TierBasic    Tier = "BASIC"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// Client holds a customer's profile and confirmed-order statistics.
// The ID is shared with the auth user carrying the client's credentials.
type Client struct {
	ID          string
	Name        string
	Tier        Tier
	TotalOrders int
	TotalSpent  decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ApplyConfirmedOrder folds a newly confirmed order into the client's stats
// and recalculates the tier. Called exactly once per order, when it
// transitions to confirmed.
func (c *Client) ApplyConfirmedOrder(amount decimal.Decimal) {
	c.TotalOrders++
	c.TotalSpent = c.TotalSpent.Add(amount)
	c.Tier = TierFor(c.TotalOrders, c.TotalSpent)
}

// Repository defines persistence operations for clients.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context) ([]Client, error)
	Update(ctx context.Context, c *Client) error
}
