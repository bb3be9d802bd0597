package book

import (
	"testing"

	"libraryapi/internal/testutil"

	"github.com/stretchr/testify/assert"
)

func TestPatch_Apply(t *testing.T) {
	stored := hobbit()

	testCases := []struct {
		name  string
		patch Patch
		want  func(b *Book)
	}{
		{
			name:  "empty patch keeps everything",
			patch: Patch{ID: 1},
			want:  func(*Book) {},
		},
		{
			name:  "title and author",
			patch: Patch{ID: 1, Title: testutil.Ptr("Silmarillion"), Author: testutil.Ptr("Christopher Tolkien")},
			want: func(b *Book) {
				b.Title = "Silmarillion"
				b.Author = "Christopher Tolkien"
			},
		},
		{
			name:  "optional fields",
			patch: Patch{ID: 1, PublishYear: testutil.Ptr(1977), Genre: testutil.Ptr("Mythopoeia"), ISBN: testutil.Ptr("0-04-823139-8")},
			want: func(b *Book) {
				b.PublishYear = testutil.Ptr(1977)
				b.Genre = testutil.Ptr("Mythopoeia")
				b.ISBN = "0-04-823139-8"
			},
		},
		{
			name:  "availability can be switched off",
			patch: Patch{ID: 1, Available: testutil.Ptr(false)},
			want:  func(b *Book) { b.Available = false },
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			want := hobbit()
			tc.want(&want)

			assert.Equal(t, want, tc.patch.Apply(stored))
		})
	}
}

func TestPatch_ApplyDoesNotAliasPatch(t *testing.T) {
	year := 2001
	merged := Patch{ID: 1, PublishYear: &year}.Apply(hobbit())
	year = 1999

	assert.Equal(t, 2001, *merged.PublishYear)
}
