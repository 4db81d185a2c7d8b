package main

import (
	"context"
	"log/slog"
	"os"

	"addressbook/internal/auth"
	"addressbook/internal/bootstrap"
	"addressbook/internal/config"
	"addressbook/internal/db"
	"addressbook/internal/logger"
	"addressbook/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		slog.Error("init logger", "error", err)
		os.Exit(1)
	}

	log.Info("starting seed script")

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := bootstrap.ResetSchema(gormDB); err != nil {
			log.Error("failed to drop tables", "error", err)
			os.Exit(1)
		}
	}

	if err := bootstrap.EnsureSchema(gormDB); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	log.Info("database migrations completed")

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	seeded, err := bootstrap.SeedDemoData(context.Background(), repository.NewUserRepository(gormDB), hasher, log)
	if err != nil {
		log.Error("failed to seed demo data", "error", err)
		os.Exit(1)
	}
	if !seeded {
		log.Info("users already present, nothing to seed")
		return
	}
	log.Info("seed completed", "login", bootstrap.DemoEmail)
}
