package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Service provides book-related business logic.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new book service. A nil logger discards output.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// GetAllBooks returns every stored book.
func (s *Service) GetAllBooks(ctx context.Context) ([]Book, error) {
	books, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "error retrieving all books", "op", "books", "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "retrieved all books", "op", "books", "count", len(books))
	return nonNil(books), nil
}

// GetBookByID returns the book with the given id or an error wrapping ErrNotFound.
func (s *Service) GetBookByID(ctx context.Context, id int64) (Book, error) {
	b, err := s.find(ctx, "bookById", id)
	if err != nil {
		return Book{}, err
	}
	s.logger.InfoContext(ctx, "retrieved book", "op", "bookById", "id", id)
	return b, nil
}

// GetBooksByAuthor returns books whose author matches ignoring case.
func (s *Service) GetBooksByAuthor(ctx context.Context, author string) ([]Book, error) {
	books, err := s.repo.FindByAuthor(ctx, author)
	if err != nil {
		s.logger.ErrorContext(ctx, "error retrieving books by author", "op", "booksByAuthor", "author", author, "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "retrieved books by author", "op", "booksByAuthor", "author", author, "count", len(books))
	return nonNil(books), nil
}

// GetBooksByGenre returns books whose genre matches ignoring case.
func (s *Service) GetBooksByGenre(ctx context.Context, genre string) ([]Book, error) {
	books, err := s.repo.FindByGenre(ctx, genre)
	if err != nil {
		s.logger.ErrorContext(ctx, "error retrieving books by genre", "op", "booksByGenre", "genre", genre, "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "retrieved books by genre", "op", "booksByGenre", "genre", genre, "count", len(books))
	return nonNil(books), nil
}

// SearchBooksByTitle returns books whose title contains keyword ignoring case.
func (s *Service) SearchBooksByTitle(ctx context.Context, keyword string) ([]Book, error) {
	books, err := s.repo.SearchByTitle(ctx, keyword)
	if err != nil {
		s.logger.ErrorContext(ctx, "error searching books by title", "op", "searchBooks", "title", keyword, "error", err)
		return nil, err
	}
	s.logger.InfoContext(ctx, "searched books by title", "op", "searchBooks", "title", keyword, "count", len(books))
	return nonNil(books), nil
}

// CreateBook persists a new book. The candidate must already be validated;
// any id it carries is discarded so storage assigns one.
func (s *Service) CreateBook(ctx context.Context, b Book) (Book, error) {
	b.ID = 0
	saved, err := s.repo.Save(ctx, b)
	if err != nil {
		s.logger.ErrorContext(ctx, "error creating book", "op", "createBook", "isbn", b.ISBN, "error", err)
		return Book{}, err
	}
	s.logger.InfoContext(ctx, "created book", "op", "createBook", "id", saved.ID)
	return saved, nil
}

// UpdateBook merges the supplied fields of p into the stored book and persists the result.
func (s *Service) UpdateBook(ctx context.Context, p Patch) (Book, error) {
	existing, err := s.findForWrite(ctx, "updateBook", p.ID)
	if err != nil {
		return Book{}, err
	}
	updated, err := s.repo.Save(ctx, p.Apply(existing))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			err = notFound(p.ID)
		}
		s.logger.ErrorContext(ctx, "error updating book", "op", "updateBook", "id", p.ID, "error", err)
		return Book{}, err
	}
	s.logger.InfoContext(ctx, "updated book", "op", "updateBook", "id", updated.ID)
	return updated, nil
}

// DeleteBook removes the book with the given id. It reports true on success.
func (s *Service) DeleteBook(ctx context.Context, id int64) (bool, error) {
	existing, err := s.findForWrite(ctx, "deleteBook", id)
	if err != nil {
		return false, err
	}
	if err := s.repo.Delete(ctx, existing); err != nil {
		s.logger.ErrorContext(ctx, "error deleting book", "op", "deleteBook", "id", id, "error", err)
		return false, err
	}
	s.logger.InfoContext(ctx, "deleted book", "op", "deleteBook", "id", id)
	return true, nil
}

func (s *Service) find(ctx context.Context, op string, id int64) (Book, error) {
	return s.lookup(ctx, op, id, s.repo.FindByID)
}

func (s *Service) findForWrite(ctx context.Context, op string, id int64) (Book, error) {
	if direct, ok := s.repo.(DirectReader); ok {
		return s.lookup(ctx, op, id, direct.FindByIDDirect)
	}
	return s.find(ctx, op, id)
}

func (s *Service) lookup(ctx context.Context, op string, id int64, load func(context.Context, int64) (Book, error)) (Book, error) {
	b, err := load(ctx, id)
	if err == nil {
		return b, nil
	}
	if errors.Is(err, ErrNotFound) {
		s.logger.WarnContext(ctx, "book not found", "op", op, "id", id)
		return Book{}, notFound(id)
	}
	s.logger.ErrorContext(ctx, "error retrieving book", "op", op, "id", id, "error", err)
	return Book{}, err
}

func notFound(id int64) error {
	return fmt.Errorf("%w with id: %d", ErrNotFound, id)
}

func nonNil(books []Book) []Book {
	if books == nil {
		return []Book{}
	}
	return books
}
