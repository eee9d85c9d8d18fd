package main

import (
	"context"
	"time"

	"gymclass/internal/auth"
	"gymclass/internal/config"
	"gymclass/internal/db"
	"gymclass/internal/logger"
	"gymclass/internal/user"
)

// seed creates the bootstrap admin account. Running it again is a no-op.
func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	users := user.NewService(user.NewRepository(database), tokens)

	admin, created, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
	if err != nil {
		logger.Fatalf("Failed to seed admin: %v", err)
	}
	if !created {
		logger.Info("Admin already exists", "email", admin.Email)
		return
	}
	logger.Info("Admin user created", "id", admin.ID, "email", admin.Email)
}
