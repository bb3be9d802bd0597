package book

import (
	"context"
	"testing"

	"libraryapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemory(t *testing.T) (*MemoryRepo, []Book) {
	t.Helper()
	repo := NewMemoryRepo()
	ctx := context.Background()

	var saved []Book
	for _, b := range []Book{
		{Title: "1984", Author: "George Orwell", ISBN: "978-0451524935", Genre: testutil.Ptr("Dystopian"), Available: true},
		{Title: "Animal Farm", Author: "George Orwell", ISBN: "978-0451526342", Genre: testutil.Ptr("Satire"), Available: true},
		{Title: "Brave New World", Author: "Aldous Huxley", ISBN: "978-0060850524", Genre: testutil.Ptr("dystopian"), Available: false},
		{Title: "Untitled 50% draft", Author: "Anonymous", ISBN: "0-306-40615-2", Available: true},
	} {
		b, err := repo.Save(ctx, b)
		require.NoError(t, err)
		saved = append(saved, b)
	}
	return repo, saved
}

func titles(books []Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestMemoryRepo_SaveAssignsIDs(t *testing.T) {
	_, saved := seedMemory(t)

	for i, b := range saved {
		assert.Equal(t, int64(i+1), b.ID)
	}
}

func TestMemoryRepo_Lookups(t *testing.T) {
	repo, _ := seedMemory(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1984", "Animal Farm", "Brave New World", "Untitled 50% draft"}, titles(all))

	byAuthor, err := repo.FindByAuthor(ctx, "GEORGE ORWELL")
	require.NoError(t, err)
	assert.Equal(t, []string{"1984", "Animal Farm"}, titles(byAuthor))

	byPartialAuthor, err := repo.FindByAuthor(ctx, "Orwell")
	require.NoError(t, err)
	assert.Empty(t, byPartialAuthor)

	byGenre, err := repo.FindByGenre(ctx, "DYSTOPIAN")
	require.NoError(t, err)
	assert.Equal(t, []string{"1984", "Brave New World"}, titles(byGenre))

	byTitle, err := repo.SearchByTitle(ctx, "an")
	require.NoError(t, err)
	assert.Equal(t, []string{"Animal Farm"}, titles(byTitle))

	literal, err := repo.SearchByTitle(ctx, "50%")
	require.NoError(t, err)
	assert.Equal(t, []string{"Untitled 50% draft"}, titles(literal))
}

func TestMemoryRepo_FindByID(t *testing.T) {
	repo, saved := seedMemory(t)
	ctx := context.Background()

	b, err := repo.FindByID(ctx, saved[1].ID)
	require.NoError(t, err)
	assert.Equal(t, saved[1], b)

	_, err = repo.FindByID(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_SaveOverwritesAndDelete(t *testing.T) {
	repo, saved := seedMemory(t)
	ctx := context.Background()

	changed := saved[0]
	changed.Available = false
	changed.Genre = nil
	_, err := repo.Save(ctx, changed)
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, changed.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Nil(t, got.Genre)

	require.NoError(t, repo.Delete(ctx, got))
	_, err = repo.FindByID(ctx, got.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Save(ctx, got)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_ReturnedBooksAreCopies(t *testing.T) {
	repo, saved := seedMemory(t)
	ctx := context.Background()

	b, err := repo.FindByID(ctx, saved[0].ID)
	require.NoError(t, err)
	*b.Genre = "Changed"

	again, err := repo.FindByID(ctx, saved[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Dystopian", *again.Genre)
}

func TestMemoryRepo_DeleteAll(t *testing.T) {
	repo, _ := seedMemory(t)
	ctx := context.Background()

	require.NoError(t, repo.DeleteAll(ctx))
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	b, err := repo.Save(ctx, Book{Title: "New", Author: "A", ISBN: "0306406152", Available: true})
	require.NoError(t, err)
	assert.Equal(t, int64(5), b.ID)
}

func TestMemoryRepo_CanceledContext(t *testing.T) {
	repo, _ := seedMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
