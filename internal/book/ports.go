package book

import (
	"context"
)

//go:generate mockgen -destination=mock_repository.go -package=book libraryapi/internal/book Repository

// Repository defines the contract for book data storage.
// It performs no business validation; constraint violations surface as storage errors.
type Repository interface {
	FindAll(ctx context.Context) ([]Book, error)
	// FindByID returns ErrNotFound when no row has the given id.
	FindByID(ctx context.Context, id int64) (Book, error)
	FindByAuthor(ctx context.Context, author string) ([]Book, error)
	FindByGenre(ctx context.Context, genre string) ([]Book, error)
	SearchByTitle(ctx context.Context, keyword string) ([]Book, error)
	// Save inserts b when b.ID is zero and overwrites the row otherwise.
	Save(ctx context.Context, b Book) (Book, error)
	Delete(ctx context.Context, b Book) error
}

// DirectReader is implemented by decorators that can bypass their own
// caching. The service uses it before modifying a book.
type DirectReader interface {
	FindByIDDirect(ctx context.Context, id int64) (Book, error)
}
