package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wrtingacer/Lending-tracker/internal/config"
	"github.com/wrtingacer/Lending-tracker/internal/fx"
	"github.com/wrtingacer/Lending-tracker/internal/handler"
	"github.com/wrtingacer/Lending-tracker/internal/logging"
	"github.com/wrtingacer/Lending-tracker/internal/middleware"
	"github.com/wrtingacer/Lending-tracker/internal/repository"
	"github.com/wrtingacer/Lending-tracker/internal/service"
	"github.com/wrtingacer/Lending-tracker/internal/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("lending-tracker", cfg.LogLevel, cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	debtRepo := repository.NewDebtRepository(db)
	userRepo := repository.NewUserRepository(db)

	rates := fx.NewService(cfg.RatesURL)
	if err := rates.Refresh(ctx); err != nil {
		slog.Warn("initial rate refresh failed, using fallback table", "error", err)
	}
	go refreshRates(ctx, rates, time.Duration(cfg.RatesRefreshMin)*time.Minute)

	hub := stream.NewHub()
	debtService := service.NewDebtService(debtRepo, rates, hub)

	jwtExpiry := time.Duration(cfg.JWTExpiryH) * time.Hour
	authHandler := handler.NewAuthHandler(userRepo, cfg.JWTSecret, jwtExpiry)
	userHandler := handler.NewUserHandler(userRepo)
	debtHandler := handler.NewDebtHandler(debtService, rates)
	watchHandler := handler.NewWatchHandler(debtService, hub, rates)
	fxHandler := handler.NewFXHandler(rates)
	healthHandler := handler.NewHealthHandler(db)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /docs", handler.ServeDocs())
	mux.HandleFunc("GET /docs/openapi.yaml", handler.ServeSpec(openapiSpec))

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/v1/rates", fxHandler.GetRates)

	authed := middleware.Auth(cfg.JWTSecret)
	protect := func(h http.HandlerFunc) http.Handler { return authed(h) }

	mux.Handle("GET /api/v1/users/{id}", protect(userHandler.GetByID))
	mux.Handle("POST /api/v1/users/{id}/debts", protect(debtHandler.Create))
	mux.Handle("GET /api/v1/users/{id}/debts", protect(debtHandler.List))
	mux.Handle("GET /api/v1/users/{id}/debts/export", protect(debtHandler.Export))
	mux.Handle("GET /api/v1/users/{id}/debts/alerts", protect(debtHandler.Alerts))
	mux.Handle("GET /api/v1/users/{id}/debts/watch", protect(watchHandler.Watch))
	mux.Handle("POST /api/v1/users/{id}/debts/undo", protect(debtHandler.Undo))
	mux.Handle("GET /api/v1/users/{id}/debts/{debtID}", protect(debtHandler.Get))
	mux.Handle("DELETE /api/v1/users/{id}/debts/{debtID}", protect(debtHandler.Delete))
	mux.Handle("GET /api/v1/users/{id}/debts/{debtID}/reminder", protect(debtHandler.Reminder))
	mux.Handle("POST /api/v1/users/{id}/debts/{debtID}/payments", protect(debtHandler.AddPayment))
	mux.Handle("DELETE /api/v1/users/{id}/debts/{debtID}/payments/{paymentID}", protect(debtHandler.DeletePayment))
	mux.Handle("PUT /api/v1/users/{id}/debts/{debtID}/installments/{index}", protect(debtHandler.SetInstallment))

	var root http.Handler = mux
	root = middleware.Logging(root)
	root = middleware.Metrics(mux)(root)
	root = middleware.Recovery(root)
	root = middleware.Tracing(root)

	addr := fmt.Sprintf(":%d", cfg.Port)
	// No WriteTimeout: the watch stream holds its response open indefinitely.
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func refreshRates(ctx context.Context, rates *fx.Service, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rates.Refresh(ctx); err != nil {
				slog.Warn("rate refresh failed, keeping last table", "error", err)
			}
		}
	}
}
