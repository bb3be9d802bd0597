package graph

import (
	"errors"

	"libraryapi/internal/book"
)

type notFoundError struct {
	msg string
}

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": "NOT_FOUND"}
}

// translate turns domain errors into GraphQL errors with an extension code.
// Unexpected errors pass through unchanged.
func translate(err error) error {
	if errors.Is(err, book.ErrNotFound) {
		return &notFoundError{msg: err.Error()}
	}
	return err
}

func idNotFound(id string) error {
	return &notFoundError{msg: book.ErrNotFound.Error() + " with id: " + id}
}
