package book

import (
	"errors"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// Book represents a book entity. A zero ID means the book has not been persisted yet.
type Book struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	ISBN        string  `json:"isbn"`
	PublishYear *int    `json:"publish_year,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Available   bool    `json:"available"`
}

// Patch carries a partial update. Nil fields leave the stored value untouched.
type Patch struct {
	ID          int64
	Title       *string
	Author      *string
	ISBN        *string
	PublishYear *int
	Genre       *string
	Available   *bool
}

// Apply merges the non-nil fields of p into b and returns the result.
func (p Patch) Apply(b Book) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.PublishYear != nil {
		year := *p.PublishYear
		b.PublishYear = &year
	}
	if p.Genre != nil {
		genre := *p.Genre
		b.Genre = &genre
	}
	if p.Available != nil {
		b.Available = *p.Available
	}
	return b
}
