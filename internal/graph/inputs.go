package graph

import (
	"strconv"

	"github.com/graph-gophers/graphql-go"

	"libraryapi/internal/book"
)

type bookInput struct {
	Title       string  `json:"title" validate:"required,notblank"`
	Author      string  `json:"author" validate:"required,notblank"`
	ISBN        ISBN    `json:"isbn" validate:"required,isbnformat"`
	PublishYear *int32  `json:"publishYear" validate:"omitempty,gt=0"`
	Genre       *string `json:"genre"`
	Available   *bool   `json:"available" validate:"required"`
}

func (in bookInput) toBook() book.Book {
	return book.Book{
		Title:       in.Title,
		Author:      in.Author,
		ISBN:        string(in.ISBN),
		PublishYear: toIntPtr(in.PublishYear),
		Genre:       in.Genre,
		Available:   *in.Available,
	}
}

type bookUpdateInput struct {
	ID          graphql.ID `json:"id"`
	Title       *string    `json:"title" validate:"omitempty,notblank"`
	Author      *string    `json:"author" validate:"omitempty,notblank"`
	ISBN        *ISBN      `json:"isbn" validate:"omitempty,isbnformat"`
	PublishYear *int32     `json:"publishYear" validate:"omitempty,gt=0"`
	Genre       *string    `json:"genre"`
	Available   *bool      `json:"available"`
}

func (in bookUpdateInput) toPatch(id int64) book.Patch {
	p := book.Patch{
		ID:          id,
		Title:       in.Title,
		Author:      in.Author,
		PublishYear: toIntPtr(in.PublishYear),
		Genre:       in.Genre,
		Available:   in.Available,
	}
	if in.ISBN != nil {
		isbn := string(*in.ISBN)
		p.ISBN = &isbn
	}
	return p
}

// parseID converts a GraphQL id into a storage id. Anything that is not a
// positive base-10 integer cannot name a stored book.
func parseID(id graphql.ID) (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func formatID(id int64) graphql.ID {
	return graphql.ID(strconv.FormatInt(id, 10))
}

func toIntPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func toInt32Ptr(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}
