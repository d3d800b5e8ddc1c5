package client

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/user"
)

// Tx bundles the repositories a registration touches inside one transaction.
type Tx interface {
	Users() user.Repository
	Clients() Repository
}

// Store runs a function against a transactional view of the repositories.
// The function's error rolls the transaction back.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// RegisterRequest holds the input for creating a client account.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// Service creates client accounts: an auth user with the CLIENT role plus a
// profile row sharing the same ID, committed as one unit of work.
type Service struct {
	store   Store
	clients Repository
}

// NewService creates a client Service. The clients repository serves
// non-transactional reads.
func NewService(store Store, clients Repository) *Service {
	return &Service{store: store, clients: clients}
}

// Register creates the user and client rows atomically. New clients start at
// the basic tier with zero stats.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Client, error) {
	hash, err := user.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	c := &Client{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Tier:       TierBasic,
		TotalSpent: decimal.Zero,
	}

	err = s.store.InTx(ctx, func(tx Tx) error {
		u := &user.User{
			ID:           c.ID,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         user.RoleClient,
		}
		if err := tx.Users().Create(ctx, u); err != nil {
			return errors.Wrap(err, "create user")
		}
		if err := tx.Clients().Create(ctx, c); err != nil {
			return errors.Wrap(err, "create client")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID returns a single client.
func (s *Service) GetByID(ctx context.Context, id string) (*Client, error) {
	return s.clients.GetByID(ctx, id)
}

// List returns all clients.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.clients.List(ctx)
}
