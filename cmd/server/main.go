package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	_ "addressbook/docs" // swagger docs

	"addressbook/internal/auth"
	"addressbook/internal/bootstrap"
	"addressbook/internal/cache"
	"addressbook/internal/config"
	"addressbook/internal/db"
	"addressbook/internal/handler"
	"addressbook/internal/logger"
	"addressbook/internal/repository"
	"addressbook/internal/router"
	"addressbook/internal/service"
)

// @title Address Book API
// @version 1.0
// @description Multi-tenant contacts API with JWT bearer authentication.
// @host localhost:8000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
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
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server exited properly")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, log)
	if err != nil {
		return err
	}
	if err := bootstrap.EnsureSchema(gormDB); err != nil {
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if cacheClient.Enabled() {
		if err := cacheClient.Ping(ctx); err != nil {
			log.Warn("redis unreachable, identity cache will miss", "addr", cfg.RedisAddr, "error", err)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)

	// Initialize auth components
	signingKey, generated, err := auth.SigningKey(cfg.JWTSecret)
	if err != nil {
		return err
	}
	if generated {
		log.Warn("JWT_SECRET not set, using a per-process signing key; tokens will not survive a restart")
	}
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokenService := auth.NewTokenService(signingKey, cfg.AccessTokenTTL)

	if cfg.SeedDemoData {
		if _, err := bootstrap.SeedDemoData(ctx, userRepo, hasher, log); err != nil {
			return err
		}
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, hasher, tokenService, cacheClient, cfg.IdentityCacheTTL)
	contactService := service.NewContactService(contactRepo)

	gate := auth.NewGate(tokenService, authService, log)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(func(ctx context.Context) error {
		return db.Ping(ctx, gormDB)
	})
	authHandler := handler.NewAuthHandler(authService)
	contactHandler := handler.NewContactHandler(contactService)

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, cfg, gate, healthHandler, authHandler, contactHandler)

	addr := ":" + cfg.ServerPort
	log.Info("starting server", "address", addr, "swagger", "http://localhost"+addr+"/swagger/index.html")

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
