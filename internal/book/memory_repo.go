package book

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-process Repository. Ids are assigned from 1 and
// listings come back in insertion order.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	books  map[int64]Book
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{books: make(map[int64]Book)}
}

func (r *MemoryRepo) FindAll(ctx context.Context) ([]Book, error) {
	return r.filter(ctx, func(Book) bool { return true })
}

func (r *MemoryRepo) FindByID(ctx context.Context, id int64) (Book, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return clone(b), nil
}

func (r *MemoryRepo) FindByAuthor(ctx context.Context, author string) ([]Book, error) {
	return r.filter(ctx, func(b Book) bool { return strings.EqualFold(b.Author, author) })
}

func (r *MemoryRepo) FindByGenre(ctx context.Context, genre string) ([]Book, error) {
	return r.filter(ctx, func(b Book) bool { return b.Genre != nil && strings.EqualFold(*b.Genre, genre) })
}

func (r *MemoryRepo) SearchByTitle(ctx context.Context, keyword string) ([]Book, error) {
	needle := strings.ToLower(keyword)
	return r.filter(ctx, func(b Book) bool { return strings.Contains(strings.ToLower(b.Title), needle) })
}

func (r *MemoryRepo) Save(ctx context.Context, b Book) (Book, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		r.nextID++
		b.ID = r.nextID
	} else if _, ok := r.books[b.ID]; !ok {
		return Book{}, ErrNotFound
	}
	r.books[b.ID] = clone(b)
	return clone(b), nil
}

func (r *MemoryRepo) Delete(ctx context.Context, b Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, b.ID)
	return nil
}

// DeleteAll removes every book. Ids keep increasing afterwards.
func (r *MemoryRepo) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.books)
	return nil
}

// Ping always succeeds.
func (r *MemoryRepo) Ping(context.Context) error { return nil }

func (r *MemoryRepo) filter(ctx context.Context, keep func(Book) bool) ([]Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []Book{}
	for _, b := range r.books {
		if keep(b) {
			out = append(out, clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// clone copies the pointer fields so callers never alias stored state.
func clone(b Book) Book {
	if b.PublishYear != nil {
		year := *b.PublishYear
		b.PublishYear = &year
	}
	if b.Genre != nil {
		genre := *b.Genre
		b.Genre = &genre
	}
	return b
}
