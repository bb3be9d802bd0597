package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/platform/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type resetter interface {
	DeleteAll(ctx context.Context) error
}

type seedRepo interface {
	book.Repository
	resetter
}

// openRepo wraps the Postgres gateway with the API's Redis cache when one is
// configured, so a reset also purges cached books.
func openRepo(pool *pgxpool.Pool, cfg config.Config, logger *slog.Logger) (seedRepo, func()) {
	pg := book.NewPostgresRepo(pool, cfg.DBTimeout)
	if !cfg.CacheEnabled() {
		return pg, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return book.NewCachedRepo(pg, client, cfg.CacheTTL, logger), func() { _ = client.Close() }
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

var classics = []book.Book{
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", ISBN: "978-0547928227", PublishYear: intp(1937), Genre: strp("Fantasy"), Available: true},
	{Title: "1984", Author: "George Orwell", ISBN: "978-0451524935", PublishYear: intp(1949), Genre: strp("Dystopian"), Available: true},
	{Title: "Animal Farm", Author: "George Orwell", ISBN: "978-0451526342", PublishYear: intp(1945), Genre: strp("Satire"), Available: true},
	{Title: "Brave New World", Author: "Aldous Huxley", ISBN: "978-0060850524", PublishYear: intp(1932), Genre: strp("Dystopian"), Available: false},
	{Title: "Pride and Prejudice", Author: "Jane Austen", ISBN: "978-0141439518", PublishYear: intp(1813), Genre: strp("Romance"), Available: true},
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", ISBN: "978-0061120084", PublishYear: intp(1960), Genre: strp("Fiction"), Available: true},
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: "978-0743273565", PublishYear: intp(1925), Genre: strp("Fiction"), Available: true},
	{Title: "Dune", Author: "Frank Herbert", ISBN: "978-0441013593", PublishYear: intp(1965), Genre: strp("Science Fiction"), Available: true},
	{Title: "Frankenstein", Author: "Mary Shelley", ISBN: "978-0486282114", PublishYear: intp(1818), Genre: strp("Horror"), Available: false},
	{Title: "Moby-Dick", Author: "Herman Melville", ISBN: "978-1503280786", PublishYear: intp(1851), Genre: strp("Adventure"), Available: true},
}

func main() {
	reset := flag.Bool("reset", false, "Delete existing books before seeding")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo, cleanup := openRepo(pool, cfg, logger)
	defer cleanup()

	if err := seed(ctx, book.NewService(repo, logger), repo, *reset, logger); err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, svc *book.Service, store resetter, reset bool, logger *slog.Logger) error {
	if reset {
		if err := store.DeleteAll(ctx); err != nil {
			return fmt.Errorf("reset books: %w", err)
		}
		logger.Info("removed existing books")
	}

	for _, b := range classics {
		if _, err := svc.CreateBook(ctx, b); err != nil {
			return fmt.Errorf("insert %q: %w", b.Title, err)
		}
	}

	total, err := svc.GetAllBooks(ctx)
	if err != nil {
		return err
	}
	logger.Info("seeded books", "inserted", len(classics), "total", len(total))
	return nil
}
