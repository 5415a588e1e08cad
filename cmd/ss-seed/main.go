// ss-seed loads development data: an admin account, a regular test account
// and a small sweet catalog. Rows that already exist are left untouched, so
// the command is safe to run repeatedly.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuannm151/sweetshop/internal/auth"
	"github.com/tuannm151/sweetshop/internal/config"
	"github.com/tuannm151/sweetshop/internal/log"
	"github.com/tuannm151/sweetshop/internal/repository"
	"github.com/tuannm151/sweetshop/internal/storage/db"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running seed application: %v\n", err)
		os.Exit(1)
	}
}

type seedUser struct {
	username string
	email    string
	password string
	isAdmin  bool
}

var seedUsers = []seedUser{
	{username: "admin", email: "admin@sweetshop.com", password: "admin123", isAdmin: true},
	{username: "testuser", email: "test@sweetshop.com", password: "test123", isAdmin: false},
}

var seedSweets = []repository.CreateSweetParams{
	{Name: "Milk Chocolate Bar", Category: "Chocolate", Price: 2.99, Quantity: 100},
	{Name: "Dark Chocolate Truffle", Category: "Chocolate", Price: 4.99, Quantity: 50},
	{Name: "Gummy Bears", Category: "Gummy", Price: 3.49, Quantity: 75},
	{Name: "Sour Patch Kids", Category: "Sour", Price: 3.99, Quantity: 60},
	{Name: "Peppermint Hard Candy", Category: "Hard Candy", Price: 1.99, Quantity: 200},
	{Name: "Strawberry Lollipop", Category: "Lollipop", Price: 1.50, Quantity: 150},
	{Name: "Chocolate Fudge", Category: "Chocolate", Price: 5.99, Quantity: 30},
	{Name: "Rainbow Jelly Beans", Category: "Jelly", Price: 2.79, Quantity: 120},
	{Name: "Caramel Chews", Category: "Chewy", Price: 3.29, Quantity: 80},
	{Name: "Mint Chocolate Chip", Category: "Chocolate", Price: 4.49, Quantity: 45},
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)
	userRepo := repository.NewUserRepository(dbClient)
	sweetRepo := repository.NewSweetRepository(dbClient)

	for _, u := range seedUsers {
		if _, err := userRepo.GetUserByUsername(ctx, u.username); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("get user by username: %w", err)
		}

		hashedPassword, err := auth.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		if _, err := userRepo.CreateUser(ctx, repository.CreateUserParams{
			Username:       u.username,
			Email:          u.email,
			HashedPassword: hashedPassword,
			IsAdmin:        u.isAdmin,
		}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		logger.InfoContext(ctx, "created user", slog.String("username", u.username), slog.Bool("is_admin", u.isAdmin))
	}

	created := 0
	for _, s := range seedSweets {
		if _, err := sweetRepo.GetSweetByName(ctx, s.Name); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("get sweet by name: %w", err)
		}

		if _, err := sweetRepo.CreateSweet(ctx, s); err != nil {
			return fmt.Errorf("create sweet: %w", err)
		}
		created++
	}

	logger.InfoContext(ctx, "seed completed", slog.Int("sweets_created", created))

	return nil
}
