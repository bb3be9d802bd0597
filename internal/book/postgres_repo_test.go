package book

import (
	"errors"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_QueryShapes(t *testing.T) {
	r := NewPostgresRepo(nil, time.Second)

	t.Run("case-insensitive equality", func(t *testing.T) {
		query, args, err := r.selectBooks().Where(equalFold(colGenre, "dystopian")).ToSQL()
		require.NoError(t, err)

		assert.Contains(t, query, `FROM "books"`)
		assert.Contains(t, query, `LOWER("genre") = LOWER($1)`)
		assert.Contains(t, query, `ORDER BY "id" ASC`)
		assert.Equal(t, []any{"dystopian"}, args)
	})

	t.Run("title search escapes wildcards", func(t *testing.T) {
		pattern := "%" + likeEscaper.Replace("50%_off") + "%"
		query, args, err := r.selectBooks().Where(goqu.C(colTitle).ILike(pattern)).ToSQL()
		require.NoError(t, err)

		assert.Contains(t, query, `"title" ILIKE $1`)
		assert.Equal(t, []any{`%50\%\_off%`}, args)
	})
}

func TestPostgresRepo_WriteQueries(t *testing.T) {
	r := NewPostgresRepo(nil, time.Second)
	b := hobbit()
	columns := []any{b.Author, b.Available, *b.Genre, b.ISBN, *b.PublishYear, b.Title}

	t.Run("find by id", func(t *testing.T) {
		query, args, err := r.findByIDQuery(7)
		require.NoError(t, err)

		assert.Contains(t, query, `FROM "books"`)
		assert.Contains(t, query, `"id" = $1`)
		assert.Equal(t, int64(7), args[0])
	})

	t.Run("insert returns the stored row", func(t *testing.T) {
		query, args, err := r.insertQuery(unsaved(b))
		require.NoError(t, err)

		assert.Contains(t, query, `INSERT INTO "books"`)
		assert.Contains(t, query, `RETURNING "id", "title", "author", "isbn", "publish_year", "genre", "available"`)
		assert.ElementsMatch(t, columns, args)
	})

	t.Run("update targets the id", func(t *testing.T) {
		query, args, err := r.updateQuery(b)
		require.NoError(t, err)

		assert.Contains(t, query, `UPDATE "books" SET`)
		assert.Contains(t, query, `"id" = $7`)
		assert.Contains(t, query, `RETURNING "id"`)
		assert.ElementsMatch(t, append(columns, b.ID), args)
	})

	t.Run("delete targets the id", func(t *testing.T) {
		query, args, err := r.deleteQuery(b.ID)
		require.NoError(t, err)

		assert.Contains(t, query, `DELETE FROM "books"`)
		assert.Contains(t, query, `"id" = $1`)
		assert.Equal(t, []any{b.ID}, args)
	})

	t.Run("missing values are written as NULL", func(t *testing.T) {
		bare := unsaved(b)
		bare.PublishYear, bare.Genre = nil, nil
		_, args, err := r.insertQuery(bare)
		require.NoError(t, err)

		assert.ElementsMatch(t, []any{b.Author, b.Available, b.ISBN, b.Title}, args)
	})
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestScanOne(t *testing.T) {
	_, err := scanOne(errRow{err: pgx.ErrNoRows})
	assert.ErrorIs(t, err, ErrNotFound)

	reset := errors.New("connection reset by peer")
	_, err = scanOne(errRow{err: reset})
	assert.ErrorIs(t, err, reset)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNullableValues(t *testing.T) {
	assert.Nil(t, nullableInt(nil))
	assert.Equal(t, 1937, nullableInt(intPtr(1937)))
	assert.Nil(t, nullableString(nil))
	assert.Equal(t, "Fantasy", nullableString(strPtr("Fantasy")))
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
