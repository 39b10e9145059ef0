package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"inventory-billing/internal/auth"
	"inventory-billing/internal/config"
	"inventory-billing/internal/database"
	"inventory-billing/internal/repository"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("QueryRow failed: %w", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return err
	}

	if cfg.Auth.SuperAdminPassword != "" {
		tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)
		authService := auth.NewService(repository.NewUserRepository(pool, logger), tokens, logger)

		created, err := authService.EnsureSuperAdmin(ctx, cfg.Auth.SuperAdminUsername, cfg.Auth.SuperAdminPassword)
		if err != nil {
			return fmt.Errorf("failed to bootstrap super admin: %w", err)
		}
		if created {
			fmt.Printf("Created super admin %q\n", cfg.Auth.SuperAdminUsername)
		}
	}

	fmt.Printf("Schema applied to database: %s\n", dbName)
	return nil
}
