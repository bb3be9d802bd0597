package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/graph"
	"libraryapi/internal/httpx"
	"libraryapi/internal/platform/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	shutdownTimeout = 10 * time.Second
	limiterIdle     = 5 * time.Minute
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, pingers, cleanup, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	handler, err := newRouter(ctx, cfg, logger, book.NewService(repo, logger), pingers...)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Addr, "storage", cfg.Storage, "cache", cfg.CacheEnabled())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// openStorage picks the repository named by cfg.Storage and wraps it with the
// Redis cache when one is configured.
func openStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (book.Repository, []httpx.Pinger, func(), error) {
	var (
		repo    book.Repository
		pingers []httpx.Pinger
		closers []func()
	)
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Storage {
	case config.StorageMemory:
		mem := book.NewMemoryRepo()
		repo = mem
		pingers = append(pingers, mem)
	default:
		pool, err := openDB(ctx, cfg.DatabaseDSN, logger)
		if err != nil {
			return nil, nil, cleanup, err
		}
		closers = append(closers, pool.Close)
		pg := book.NewPostgresRepo(pool, cfg.DBTimeout)
		repo = pg
		pingers = append(pingers, pg)
	}

	if cfg.CacheEnabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closers = append(closers, func() { _ = client.Close() })
		repo = book.NewCachedRepo(repo, client, cfg.CacheTTL, logger)
		pingers = append(pingers, httpx.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
		logger.Info("book cache enabled", "redis_addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	return repo, pingers, cleanup, nil
}

func newRouter(ctx context.Context, cfg config.Config, logger *slog.Logger, svc graph.BookService, pingers ...httpx.Pinger) (http.Handler, error) {
	schema, err := graph.NewSchema(graph.NewResolver(svc, logger), graph.SchemaOptions{
		MaxDepth: cfg.GraphQLMaxDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}

	router := http.NewServeMux()
	router.HandleFunc("/healthz", httpx.HealthHandler)
	router.HandleFunc("/readyz", httpx.ReadyHandler(pingers...))
	router.Handle("/graphql", graph.NewHandler(schema, logger))

	limiter := httpx.NewClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunJanitor(ctx, limiterIdle)

	return httpx.Chain(router,
		httpx.RequestID,
		httpx.AccessLog(logger),
		httpx.Recover(logger),
		httpx.SecureHeaders(false),
		httpx.CORS(cfg.CORSOrigins),
		limiter.Middleware,
		httpx.LimitBody(cfg.MaxBodyBytes),
	), nil
}

func openDB(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", redactDSN(dsn), err)
	}
	logger.Info("database connection OK", "dsn", redactDSN(dsn))
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
