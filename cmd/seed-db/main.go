// Command seed-db prepares a database for use: it runs migrations, creates
// the admin account, and optionally loads a demo catalog with a few client
// accounts. Re-running is safe; existing rows are kept or refreshed.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jartiste/smartshop/internal/domain/client"
	"github.com/jartiste/smartshop/internal/domain/product"
	"github.com/jartiste/smartshop/internal/domain/user"
	"github.com/jartiste/smartshop/internal/repository"
)

func main() {
	var (
		databaseURL   string
		adminEmail    string
		adminPassword string
		demo          bool
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&adminEmail, "admin-email", "admin@smartshop.local", "admin account email")
	flag.StringVar(&adminPassword, "admin-password", "", "admin account password (or SHOP_SEED_ADMIN_PASSWORD env)")
	flag.BoolVar(&demo, "demo", false, "also seed a demo catalog and client accounts")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("SHOP_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or SHOP_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, adminEmail, adminPassword, demo); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, adminEmail, adminPassword string, demo bool) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedAdmin(ctx, pool, adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	if demo {
		if err := seedDemoProducts(ctx, pool); err != nil {
			return errors.Wrap(err, "seed demo products")
		}
		if err := seedDemoClients(ctx, pool); err != nil {
			return errors.Wrap(err, "seed demo clients")
		}
	}

	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	slog.Info("seeding admin account", slog.String("email", email))

	hash, err := user.HashPassword(password)
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(pool)
	err = users.Create(ctx, &user.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
	})
	if errors.Is(err, user.ErrEmailTaken) {
		slog.Info("admin account already exists")
		return nil
	}
	return err
}

// seedDemoProducts loads a small catalog. Fixed IDs make the upserts
// idempotent across runs.
func seedDemoProducts(ctx context.Context, pool *pgxpool.Pool) error {
	demo := []product.Product{
		{ID: "demo-laptop", Name: "Laptop 15\"", Price: decimal.RequireFromString("999.99"), Stock: 25},
		{ID: "demo-phone", Name: "Smartphone", Price: decimal.RequireFromString("599.00"), Stock: 40},
		{ID: "demo-headset", Name: "Wireless Headset", Price: decimal.RequireFromString("149.50"), Stock: 100},
		{ID: "demo-monitor", Name: "27\" Monitor", Price: decimal.RequireFromString("329.00"), Stock: 15},
		{ID: "demo-dock", Name: "USB-C Dock", Price: decimal.RequireFromString("89.90"), Stock: 60},
	}

	slog.Info("upserting demo products", slog.Int("count", len(demo)))

	products := repository.NewProductRepository(pool)
	for i := range demo {
		if err := products.Upsert(ctx, &demo[i]); err != nil {
			return errors.Wrapf(err, "upsert product %s", demo[i].ID)
		}
		slog.Info("upserted product", slog.String("id", demo[i].ID), slog.String("name", demo[i].Name))
	}
	return nil
}

// seedDemoClients registers a couple of client accounts through the regular
// registration path so they get real credentials and a basic tier.
func seedDemoClients(ctx context.Context, pool *pgxpool.Pool) error {
	accounts := []client.RegisterRequest{
		{Name: "Alice Martin", Email: "alice@example.com", Password: "alice-demo-pass"},
		{Name: "Bob Durand", Email: "bob@example.com", Password: "bob-demo-pass"},
	}

	store := repository.NewStore(pool)
	clients := client.NewService(repository.ClientStore{Store: store}, repository.NewClientRepository(pool))

	for _, acc := range accounts {
		c, err := clients.Register(ctx, acc)
		if errors.Is(err, user.ErrEmailTaken) {
			slog.Info("client already exists", slog.String("email", acc.Email))
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "register client %s", acc.Email)
		}
		slog.Info("registered client", slog.String("id", c.ID), slog.String("email", acc.Email))
	}
	return nil
}
