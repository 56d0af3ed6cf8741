package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"paysheet/internal/db"
	"paysheet/internal/domain/payroll"
	"paysheet/internal/domain/report"
	"paysheet/internal/platform/config"
	cryptoutil "paysheet/internal/platform/crypto"
	"paysheet/internal/platform/logging"
	"paysheet/internal/platform/metrics"
	"paysheet/internal/transport/http/api"
	dashboardhandler "paysheet/internal/transport/http/handlers/dashboard"
	payrollhandler "paysheet/internal/transport/http/handlers/payroll"
	reporthandler "paysheet/internal/transport/http/handlers/report"
	"paysheet/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		logger.Fatal("encryption init failed", zap.Error(err))
	}

	collector := metrics.New()
	payrollStore := payroll.NewStore(pool)
	payrollSvc := payroll.NewService(payrollStore, payroll.UpsertPolicy(cfg.UpsertPolicy), collector, logger)
	reportSvc := report.NewService(payrollStore, report.NewStore(pool),
		report.NewFileStore(cfg.StorageDir, crypto), collector, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, collector))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireOwner)
		r.Use(middleware.BodyLimit(cfg.MaxUploadBytes + 1<<20))
		r.Use(middleware.RateLimit(120, time.Minute))

		payrollhandler.NewHandler(payrollSvc, cfg.MaxUploadBytes).RegisterRoutes(r)
		reporthandler.NewHandler(reportSvc).RegisterRoutes(r)
		dashboardhandler.NewHandler(payrollSvc).RegisterRoutes(r)
	})

	logger.Info("paysheet server listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
