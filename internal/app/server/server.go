package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrops/internal/domain/attendance"
	"hrops/internal/domain/core"
	"hrops/internal/domain/leave"
	"hrops/internal/domain/payroll"
	"hrops/internal/platform/config"
	"hrops/internal/platform/db"
	"hrops/internal/platform/jobs"
	"hrops/internal/platform/logging"
	"hrops/internal/platform/metrics"
	attendancehandler "hrops/internal/transport/http/handlers/attendance"
	authhandler "hrops/internal/transport/http/handlers/auth"
	jobshandler "hrops/internal/transport/http/handlers/jobs"
	leavehandler "hrops/internal/transport/http/handlers/leave"
	payrollhandler "hrops/internal/transport/http/handlers/payroll"
	"hrops/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	logging.Setup(cfg.LogFile, cfg.LogLevel)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	coreStore := core.NewStore(pool)
	attendanceSvc := attendance.NewService(attendance.NewStore(pool), coreStore)
	leaveStore := leave.NewStore(pool)
	leaveSvc := leave.NewService(leaveStore, coreStore)
	payrollSvc := payroll.NewService(payroll.NewStore(pool), coreStore)

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	jobsSvc := jobs.New(pool, cfg, collector, coreStore, leaveStore, payrollSvc)
	if cfg.JobsEnabled {
		jobsSvc.Start(ctx)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Metrics(collector))
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

	if collector != nil {
		router.Method(http.MethodGet, "/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(coreStore, cfg.JWTSecret, cfg.TokenTTL)
		r.Post("/auth/login", authHandler.HandleLogin)

		attendancehandler.NewHandler(attendanceSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc).RegisterRoutes(r)
		jobshandler.NewHandler(jobsSvc).RegisterRoutes(r)
	})

	slog.Info("hrops server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
