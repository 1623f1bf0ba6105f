package main

import (
	"context"
	"errors"
	"os"

	"github.com/joho/godotenv"

	"wallet/internal/config"
	"wallet/internal/core"
	applog "wallet/internal/log"
	"wallet/internal/services"
	"wallet/internal/storage"
)

// Seeds a local database with a demo user and a few transactions so the
// API has something to show. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: applog.ComponentSeed,
	})
	applog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	userService := services.NewUserService(repo)
	txService := services.NewTransactionService(repo, repo, nil)

	const email = "alice@example.com"
	if _, err := userService.Register(ctx, email, "Alice", "changeme"); err != nil {
		if !errors.Is(err, core.ErrDuplicateEmail) {
			logger.Error("Failed to seed user", "error", err, "email", email)
			os.Exit(1)
		}
		logger.Info("Seed user already exists", "email", email)
	} else {
		logger.Info("Seed user created", "email", email)
	}

	seedTransactions := []services.RecordInput{
		{UserEmail: email, Kind: "Income", Amount: "2500.00", Description: "salary"},
		{UserEmail: email, Kind: "Expense", Amount: "42.75", Category: "Groceries", Description: "weekly shop"},
		{UserEmail: email, Kind: "Expense", Amount: "18.50", Category: "Restaurant", Description: "lunch"},
		{UserEmail: email, Kind: "Expense", Amount: "850.00", Category: "Housing", Description: "rent share"},
	}

	for _, in := range seedTransactions {
		tx, err := txService.Record(ctx, in)
		if err != nil {
			logger.Error("Failed to seed transaction", "error", err, "amount", in.Amount)
			os.Exit(1)
		}
		logger.Info("Seeded transaction",
			"transaction_id", tx.ID,
			"transaction_type", tx.Kind,
			"amount_cents", tx.Amount.Cents,
			"category", tx.Category)
	}

	total, err := txService.Aggregate(ctx, core.Filter{})
	if err != nil {
		logger.Error("Failed to aggregate seeded data", "error", err)
		os.Exit(1)
	}
	logger.Info("Seeding complete", "net_amount", core.FormatCents(total))
}
