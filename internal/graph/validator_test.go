package graph

import (
	"testing"

	"libraryapi/internal/testutil"

	"github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidISBN(t *testing.T) {
	testCases := []struct {
		isbn string
		want bool
	}{
		{"978-0547928227", true},
		{"9780547928227", true},
		{"978-0-547-92822-7", true},
		{"979 10 90636 07 1", true},
		{"0-306-40615-2", true},
		{"0306406152", true},
		{"080442957X", true},
		{"ISBN 978-0547928227", true},
		{"ISBN-13: 978-0547928227", true},
		{"ISBN-10: 0-306-40615-2", true},

		{"", false},
		{"invalid-isbn", false},
		{"12345", false},
		{"977-0547928227", false},
		{"978--0547928227", false},
		{"-9780547928227", false},
		{"9780547928227-", false},
		{"X306406152", false},
		{"03064061521", false},
		{"978-0547928227X", false},
		{"ISBN978-0547928227", false},
		{"ISBN-13:978-0547928227", false},
		{"ISBN", false},
	}

	for _, tc := range testCases {
		t.Run(tc.isbn, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidISBN(tc.isbn))
		})
	}
}

func TestValidateStruct_BookInput(t *testing.T) {
	valid := bookInput{
		Title:     "Dune",
		Author:    "Frank Herbert",
		ISBN:      "978-0441013593",
		Available: testutil.Ptr(true),
	}
	require.NoError(t, validateStruct(valid))

	testCases := []struct {
		name   string
		mutate func(in *bookInput)
		field  string
		msg    string
	}{
		{"empty title", func(in *bookInput) { in.Title = "" }, "title", "Title is required"},
		{"blank author", func(in *bookInput) { in.Author = " \t" }, "author", "Author is required"},
		{"missing isbn", func(in *bookInput) { in.ISBN = "" }, "isbn", "ISBN is required"},
		{"malformed isbn", func(in *bookInput) { in.ISBN = "invalid-isbn" }, "isbn", "Invalid ISBN format"},
		{"zero year", func(in *bookInput) { in.PublishYear = testutil.Ptr(int32(0)) }, "publishYear", "Publish year must be positive"},
		{"missing availability", func(in *bookInput) { in.Available = nil }, "available", "Available status is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)

			err := validateStruct(in)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Details, 1)
			assert.Equal(t, tc.field, verr.Details[0].Field)
			assert.Equal(t, tc.msg, verr.Details[0].Message)
			assert.Equal(t, "BAD_USER_INPUT", verr.Extensions()["code"])
		})
	}
}

func TestValidateStruct_BookUpdateInputChecksOnlySuppliedFields(t *testing.T) {
	require.NoError(t, validateStruct(bookUpdateInput{ID: "1"}))

	err := validateStruct(bookUpdateInput{ID: "1", Title: testutil.Ptr(""), ISBN: testutil.Ptr(ISBN("nope"))})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.EqualError(t, err, "validation failed: Title is required; Invalid ISBN format")
}

func TestParseID(t *testing.T) {
	testCases := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"1", 1, true},
		{"9000", 9000, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
		{"", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := parseID(graphql.ID(tc.in))
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
