package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finvault/internal/api/handlers"
	"finvault/internal/api/middleware"
	"finvault/internal/api/router"
	"finvault/internal/config"
	"finvault/internal/core/services"
	"finvault/internal/db/postgres"
	"finvault/internal/infrastructure/crypto"
)

func main() {
	// --- 1. Telemetry & Configuration ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	cfg := config.Load()

	// --- 2. Outbound Infrastructure ---
	db, err := postgres.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("FATAL: database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(context.Background(), db); err != nil {
		logger.Error("FATAL: migrations failed", "error", err)
		os.Exit(1)
	}

	cipher, err := crypto.NewAESCredentialCipher(cfg.EncryptionKeyBase64)
	if err != nil {
		// A malformed key means every vault operation would fail; refuse
		// to serve at all.
		logger.Error("FATAL: encryption key rejected", "error", err)
		os.Exit(1)
	}

	// --- 3. Dependency Injection ---

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	vaultRepo := postgres.NewVaultAccountRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	investmentRepo := postgres.NewInvestmentRepository(db)

	// Services
	verifier := services.NewTokenVerifier(cfg.AuthJWTSecret)
	authService := services.NewAuthService(userRepo, categoryRepo, logger)
	importService := services.NewImportService(categoryRepo, transactionRepo, logger)

	// Handlers
	userHandler := handlers.NewUserHandler(userRepo)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	transactionHandler := handlers.NewTransactionHandler(transactionRepo)
	importHandler := handlers.NewImportHandler(importService)
	vaultHandler := handlers.NewVaultHandler(vaultRepo, cipher)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionRepo, cipher)
	investmentHandler := handlers.NewInvestmentHandler(investmentRepo)
	healthHandler := handlers.NewHealthHandler(db)

	authMiddleware := middleware.NewAuthMiddleware(verifier, authService, logger)

	// --- 4. HTTP Gateway ---
	mux := router.NewRouter(router.RouterConfig{
		AllowedOrigins:      cfg.AllowedOrigins,
		UserHandler:         userHandler,
		CategoryHandler:     categoryHandler,
		TransactionHandler:  transactionHandler,
		ImportHandler:       importHandler,
		VaultHandler:        vaultHandler,
		SubscriptionHandler: subscriptionHandler,
		InvestmentHandler:   investmentHandler,
		HealthHandler:       healthHandler,
		AuthMiddleware:      authMiddleware,
		Logger:              logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- 5. Graceful Exit ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("finvault API active", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("CRITICAL: server crashed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	logger.Info("shutdown complete")
}
