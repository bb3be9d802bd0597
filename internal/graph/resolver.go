package graph

import (
	"context"
	"log/slog"

	"github.com/graph-gophers/graphql-go"

	"libraryapi/internal/book"
)

// BookService is the behaviour the resolvers need from the book domain.
type BookService interface {
	GetAllBooks(ctx context.Context) ([]book.Book, error)
	GetBookByID(ctx context.Context, id int64) (book.Book, error)
	GetBooksByAuthor(ctx context.Context, author string) ([]book.Book, error)
	GetBooksByGenre(ctx context.Context, genre string) ([]book.Book, error)
	SearchBooksByTitle(ctx context.Context, keyword string) ([]book.Book, error)
	CreateBook(ctx context.Context, b book.Book) (book.Book, error)
	UpdateBook(ctx context.Context, p book.Patch) (book.Book, error)
	DeleteBook(ctx context.Context, id int64) (bool, error)
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	books  BookService
	logger *slog.Logger
}

func NewResolver(books BookService, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{books: books, logger: logger}
}

func (r *Resolver) Books(ctx context.Context) ([]*bookResolver, error) {
	books, err := r.books.GetAllBooks(ctx)
	return wrapBooks(books), err
}

func (r *Resolver) BookByID(ctx context.Context, args struct{ ID graphql.ID }) (*bookResolver, error) {
	id, ok := parseID(args.ID)
	if !ok {
		r.logger.WarnContext(ctx, "book not found", "op", "bookById", "id", string(args.ID))
		return nil, idNotFound(string(args.ID))
	}
	b, err := r.books.GetBookByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return &bookResolver{b: b}, nil
}

func (r *Resolver) BooksByAuthor(ctx context.Context, args struct{ Author string }) ([]*bookResolver, error) {
	books, err := r.books.GetBooksByAuthor(ctx, args.Author)
	return wrapBooks(books), err
}

func (r *Resolver) BooksByGenre(ctx context.Context, args struct{ Genre string }) ([]*bookResolver, error) {
	books, err := r.books.GetBooksByGenre(ctx, args.Genre)
	return wrapBooks(books), err
}

func (r *Resolver) SearchBooks(ctx context.Context, args struct{ Title string }) ([]*bookResolver, error) {
	books, err := r.books.SearchBooksByTitle(ctx, args.Title)
	return wrapBooks(books), err
}

func (r *Resolver) CreateBook(ctx context.Context, args struct{ Book bookInput }) (*bookResolver, error) {
	in := args.Book
	if in.Available == nil {
		available := true
		in.Available = &available
	}
	if err := validateStruct(in); err != nil {
		r.logger.WarnContext(ctx, "invalid book input", "op", "createBook", "error", err)
		return nil, err
	}

	b, err := r.books.CreateBook(ctx, in.toBook())
	if err != nil {
		return nil, translate(err)
	}
	return &bookResolver{b: b}, nil
}

func (r *Resolver) UpdateBook(ctx context.Context, args struct{ Book bookUpdateInput }) (*bookResolver, error) {
	in := args.Book
	id, ok := parseID(in.ID)
	if !ok {
		r.logger.WarnContext(ctx, "book not found", "op", "updateBook", "id", string(in.ID))
		return nil, idNotFound(string(in.ID))
	}
	if err := validateStruct(in); err != nil {
		r.logger.WarnContext(ctx, "invalid book input", "op", "updateBook", "id", id, "error", err)
		return nil, err
	}

	b, err := r.books.UpdateBook(ctx, in.toPatch(id))
	if err != nil {
		return nil, translate(err)
	}
	return &bookResolver{b: b}, nil
}

func (r *Resolver) DeleteBook(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	id, ok := parseID(args.ID)
	if !ok {
		r.logger.WarnContext(ctx, "book not found", "op", "deleteBook", "id", string(args.ID))
		return false, idNotFound(string(args.ID))
	}
	deleted, err := r.books.DeleteBook(ctx, id)
	if err != nil {
		return false, translate(err)
	}
	return deleted, nil
}

type bookResolver struct {
	b book.Book
}

func wrapBooks(books []book.Book) []*bookResolver {
	out := make([]*bookResolver, 0, len(books))
	for _, b := range books {
		out = append(out, &bookResolver{b: b})
	}
	return out
}

func (r *bookResolver) ID() graphql.ID      { return formatID(r.b.ID) }
func (r *bookResolver) Title() string       { return r.b.Title }
func (r *bookResolver) Author() string      { return r.b.Author }
func (r *bookResolver) ISBN() ISBN          { return ISBN(r.b.ISBN) }
func (r *bookResolver) PublishYear() *int32 { return toInt32Ptr(r.b.PublishYear) }
func (r *bookResolver) Genre() *string      { return r.b.Genre }
func (r *bookResolver) Available() bool     { return r.b.Available }
