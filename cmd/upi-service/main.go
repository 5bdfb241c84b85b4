package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/app/background"
	"github.com/LavaJover/shvark-upi-service/internal/app/setup"
	"github.com/LavaJover/shvark-upi-service/internal/delivery/http/handlers"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/migrate"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	time.Local = time.UTC

	deps, err := setup.InitializeDependencies()
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}
	logger := deps.Logger
	cfg := deps.Config

	migrationsPath := os.Getenv("UPI_MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "migrations"
	}
	if err := migrate.RunMigrations(deps.DB, migrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	useCases, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to initialize usecases: %v", err)
	}

	// Background workers stop on shutdown through this context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tasks := background.NewBackgroundTasks(
		useCases.Sweeper,
		useCases.AuditUsecase,
		useCases.AuditEmitter,
		cfg,
		logger,
	)
	tasks.StartAll(ctx)

	orderHandler := handlers.NewOrderHandler(useCases.OrderUsecase, logger)
	auditHandler := handlers.NewAuditHandler(useCases.AuditUsecase, logger)
	settingsHandler := handlers.NewSettingsHandler(useCases.SettingsUsecase, logger)
	sweepHandler := handlers.NewSweepHandler(useCases.Sweeper, logger)

	router := mux.NewRouter()

	api := router.PathPrefix("/api/v1").Subrouter()
	orderHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)
	settingsHandler.RegisterRoutes(api)
	sweepHandler.RegisterRoutes(api)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	allowedOrigins := cfg.HTTPServer.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-User-ID", "X-User-Role"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      c.Handler(router),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		logger.Info("starting http server", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if err := deps.OrderPublisher.Close(); err != nil {
		logger.Error("failed to close kafka publisher", "error", err)
	}

	logger.Info("server exited")
}
