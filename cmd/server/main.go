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

	"github.com/go-chi/chi/v5"

	"perfboard/internal/api"
	"perfboard/internal/assignments"
	"perfboard/internal/auth"
	"perfboard/internal/config"
	"perfboard/internal/dashboard"
	"perfboard/internal/db"
	"perfboard/internal/evaluators"
	"perfboard/internal/middleware"
	"perfboard/internal/platform/metrics"
	"perfboard/internal/reports"
	"perfboard/internal/requestctx"
	"perfboard/internal/scoring"
	"perfboard/internal/weighting"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Error("database connection failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			logger.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}

	collector := metrics.New()

	weightEngine := weighting.NewEngine(weighting.NewStore(pool), logger, collector)
	resolver := evaluators.NewResolver(evaluators.NewStore(pool))
	scoringService := scoring.NewService(scoring.NewStore(pool), resolver, logger)
	dashboardService := dashboard.NewService(dashboard.NewStore(pool), scoringService, resolver, logger, collector, cfg.StatusFanoutLimit)
	assignmentService := assignments.NewService(assignments.NewStore(pool), weightEngine, logger)
	reportService := reports.NewService(dashboardService, cfg.ReportDir, logger)

	authHandler := auth.NewHandler(pool, cfg.JWTSecret, cfg.TokenTTL)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)
	assignmentHandler := assignments.NewHandler(assignmentService, logger)
	reportHandler := reports.NewHandler(reportService, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics(collector))
	}
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	r.Use(middleware.Auth(cfg.JWTSecret))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, requestctx.GetRequestID(r.Context()))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		requestID := requestctx.GetRequestID(r.Context())
		if err := pool.Ping(r.Context()); err != nil {
			api.Fail(w, http.StatusServiceUnavailable, api.CodeNotReady, "database unreachable", requestID)
			return
		}
		api.Success(w, map[string]string{"status": "ready"}, requestID)
	})
	if cfg.MetricsEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), requestctx.GetRequestID(r.Context()))
		})
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.HandleLogin)
		dashboardHandler.Routes(r)
		assignmentHandler.Routes(r)
		reportHandler.Routes(r)
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
