package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	tableBooks     = "books"
	colID          = "id"
	colTitle       = "title"
	colAuthor      = "author"
	colISBN        = "isbn"
	colPublishYear = "publish_year"
	colGenre       = "genre"
	colAvailable   = "available"
)

var bookColumns = []any{colID, colTitle, colAuthor, colISBN, colPublishYear, colGenre, colAvailable}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
	dialect goqu.DialectWrapper
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout, dialect: goqu.Dialect("postgres")}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) selectBooks() *goqu.SelectDataset {
	return r.dialect.From(tableBooks).Prepared(true).Select(bookColumns...).Order(goqu.I(colID).Asc())
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Book, error) {
	return r.list(ctx, r.selectBooks())
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int64) (Book, error) {
	query, args, err := r.findByIDQuery(id)
	if err != nil {
		return Book{}, fmt.Errorf("build find by id: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanOne(r.db.QueryRow(timeoutCtx, query, args...))
}

func (r *PostgresRepo) FindByAuthor(ctx context.Context, author string) ([]Book, error) {
	return r.list(ctx, r.selectBooks().Where(equalFold(colAuthor, author)))
}

func (r *PostgresRepo) FindByGenre(ctx context.Context, genre string) ([]Book, error) {
	return r.list(ctx, r.selectBooks().Where(equalFold(colGenre, genre)))
}

func (r *PostgresRepo) SearchByTitle(ctx context.Context, keyword string) ([]Book, error) {
	pattern := "%" + likeEscaper.Replace(keyword) + "%"
	return r.list(ctx, r.selectBooks().Where(goqu.C(colTitle).ILike(pattern)))
}

func (r *PostgresRepo) Save(ctx context.Context, b Book) (Book, error) {
	var (
		query string
		args  []any
		err   error
	)
	if b.ID == 0 {
		query, args, err = r.insertQuery(b)
	} else {
		query, args, err = r.updateQuery(b)
	}
	if err != nil {
		return Book{}, fmt.Errorf("build save: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	saved, err := scanOne(r.db.QueryRow(timeoutCtx, query, args...))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Book{}, fmt.Errorf("save book: %w", err)
	}
	return saved, err
}

func (r *PostgresRepo) Delete(ctx context.Context, b Book) error {
	query, args, err := r.deleteQuery(b.ID)
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if _, err := r.db.Exec(timeoutCtx, query, args...); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

func (r *PostgresRepo) findByIDQuery(id int64) (string, []any, error) {
	return r.selectBooks().Where(goqu.C(colID).Eq(id)).Limit(1).ToSQL()
}

func (r *PostgresRepo) insertQuery(b Book) (string, []any, error) {
	return r.dialect.Insert(tableBooks).Prepared(true).
		Rows(bookRecord(b)).
		Returning(bookColumns...).
		ToSQL()
}

// updateQuery overwrites every column; an id with no row yields no RETURNING row.
func (r *PostgresRepo) updateQuery(b Book) (string, []any, error) {
	return r.dialect.Update(tableBooks).Prepared(true).
		Set(bookRecord(b)).
		Where(goqu.C(colID).Eq(b.ID)).
		Returning(bookColumns...).
		ToSQL()
}

func (r *PostgresRepo) deleteQuery(id int64) (string, []any, error) {
	return r.dialect.Delete(tableBooks).Prepared(true).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
}

func bookRecord(b Book) goqu.Record {
	return goqu.Record{
		colTitle:       b.Title,
		colAuthor:      b.Author,
		colISBN:        b.ISBN,
		colPublishYear: nullableInt(b.PublishYear),
		colGenre:       nullableString(b.Genre),
		colAvailable:   b.Available,
	}
}

// DeleteAll removes every row. Used by the seed command.
func (r *PostgresRepo) DeleteAll(ctx context.Context) error {
	query, args, err := r.dialect.Delete(tableBooks).Prepared(true).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete all: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err = r.db.Exec(timeoutCtx, query, args...)
	return err
}

// Ping reports whether the database is reachable.
func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresRepo) list(ctx context.Context, ds *goqu.SelectDataset) ([]Book, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.PublishYear, &b.Genre, &b.Available)
	return b, err
}

// scanOne reads a single-row result, reporting a missing row as ErrNotFound.
func scanOne(row pgx.Row) (Book, error) {
	b, err := scanBook(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	return b, err
}

func equalFold(col, value string) exp.Expression {
	return goqu.L("LOWER(?) = LOWER(?)", goqu.C(col), value)
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
