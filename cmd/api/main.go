package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver
	_ "github.com/lib/pq"              // "postgres" driver
	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"

	"github.com/nyashahama/quiz-result-engine/internal/api"
	"github.com/nyashahama/quiz-result-engine/internal/config"
	"github.com/nyashahama/quiz-result-engine/internal/db"
	"github.com/nyashahama/quiz-result-engine/internal/email"
	"github.com/nyashahama/quiz-result-engine/internal/engine"
	"github.com/nyashahama/quiz-result-engine/internal/quiz"
	"github.com/nyashahama/quiz-result-engine/internal/rpc"
	"github.com/nyashahama/quiz-result-engine/internal/store"
	stripeinternal "github.com/nyashahama/quiz-result-engine/internal/stripe"
	"github.com/nyashahama/quiz-result-engine/internal/worker"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port, "grpc", cfg.EnableGRPC)

	// ── Database ──────────────────────────────────────────────────────────────
	pool, queries, err := openDB(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	logger.Info("database connected", "driver", cfg.DBDriver)

	// ── Store (atomic multi-step writes) ──────────────────────────────────────
	st := store.New(pool, queries)

	// ── Quizzes and engine ────────────────────────────────────────────────────
	// The catalog caches parsed definitions per version; the engine is
	// stateless and shared by HTTP, gRPC and the worker.
	catalog := quiz.NewCatalog(queries)
	eng := engine.New(engine.WithLogger(logger.With("component", "engine")))

	// ── Stripe ────────────────────────────────────────────────────────────────
	stripeClient := stripeinternal.NewClient(cfg.StripeSecretKey)

	// ── Email (Resend) ────────────────────────────────────────────────────────
	// Outside production an empty key logs emails instead of sending them.
	var mailer email.Sender
	if cfg.ResendAPIKey != "" {
		mailer = email.NewResendClient(cfg.ResendAPIKey, cfg.EmailFromAddr, cfg.EmailFromName, cfg.BaseURL)
	} else {
		mailer = email.NewLogSender(logger, cfg.BaseURL)
		logger.Warn("email: RESEND_API_KEY not set, emails will be logged only")
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	job := worker.NewJob(queries, st, catalog, eng, mailer, logger)
	runner := worker.NewRunner(job, st, queries, worker.RunnerConfig{
		Workers:      cfg.WorkerCount,
		PollInterval: cfg.PollInterval,
		JobTimeout:   cfg.JobTimeout,
		MaxRetries:   cfg.MaxRetries,
	}, logger)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		queries,
		st,
		catalog,
		eng,
		stripeClient,
		runner, // *Runner satisfies worker.Enqueuer
		mailer,
		api.Config{
			BaseURL:             cfg.BaseURL,
			StripeWebhookSecret: cfg.StripeWebhookSecret,
			Env:                 cfg.Env,
			CORSOrigins:         cfg.CORSOrigins,
			PremiumPriceCents:   cfg.PremiumPriceCents,
			PremiumCurrency:     cfg.PremiumCurrency,
		},
		logger,
	)

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// ── Listener (HTTP and gRPC share one port) ───────────────────────────────
	lis, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	mux := cmux.New(lis)

	var grpcSrv *grpc.Server
	serverErr := make(chan error, 3)
	if cfg.EnableGRPC {
		grpcL := mux.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
		grpcSrv = rpc.NewGRPCServer(eng, logger)
		go func() {
			if err := grpcSrv.Serve(grpcL); err != nil && !errors.Is(err, cmux.ErrListenerClosed) {
				serverErr <- fmt.Errorf("grpc: %w", err)
			}
		}()
	}
	httpL := mux.Match(cmux.Any())

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	// Root context cancelled by OS signal. Worker and servers all respect it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start the worker pool in a background goroutine. It blocks until ctx is done.
	go runner.Start(ctx)

	go func() {
		if err := srv.Serve(httpL); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, cmux.ErrListenerClosed) {
			serverErr <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		logger.Info("server listening", "addr", lis.Addr().String())
		if err := mux.Serve(); err != nil && !errors.Is(err, net.ErrClosed) {
			serverErr <- fmt.Errorf("cmux: %w", err)
		}
	}()

	// Block until either a signal arrives or a server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Give in-flight requests up to 20 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	_ = lis.Close()

	logger.Info("shutdown complete")
	return nil
}

// openDB opens the connection pool for driver ("postgres" for lib/pq, "pgx"
// for the pgx stdlib adapter) and prepares all sqlc statements. Using
// db.Prepare means every query is validated against the live schema at
// startup: the server refuses to start if the schema is out of sync.
func openDB(driver, dsn string) (*sql.DB, *db.Queries, error) {
	pool, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", driver, err)
	}

	// Tune the connection pool.
	pool.SetMaxOpenConns(25)
	pool.SetMaxIdleConns(10)
	pool.SetConnMaxLifetime(5 * time.Minute)
	pool.SetConnMaxIdleTime(2 * time.Minute)

	// Verify the connection is reachable before proceeding.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}

	queries, err := db.Prepare(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("prepare statements: %w", err)
	}

	return pool, queries, nil
}
