// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/author"
	"github.com/taibuivan/bookshelf/internal/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/memstore"
	"github.com/taibuivan/bookshelf/pkg/pagination"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

func newService(t *testing.T) (*author.Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return author.NewService(store.Authors(), logger), store
}

func TestCreateAuthor_RoundTrip(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	created, err := service.CreateAuthor(ctx, &author.Author{
		Name:        "  Frank Herbert ",
		BirthYear:   pointer.To(1920),
		Nationality: pointer.To("American"),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Frank Herbert", created.Name)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := service.GetAuthor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)
	assert.Equal(t, 1920, *fetched.BirthYear)
	assert.Equal(t, "American", *fetched.Nationality)
}

func TestCreateAuthor_Validation(t *testing.T) {
	nextYear := time.Now().Year() + 1

	tests := []struct {
		name    string
		input   *author.Author
		message string
	}{
		{"blank name", &author.Author{Name: "   "}, "Author name cannot be empty"},
		{"birth year too early", &author.Author{Name: "A", BirthYear: pointer.To(999)},
			fmt.Sprintf("Birth year must be between 1000 and %d", nextYear-1)},
		{"birth year in the future", &author.Author{Name: "A", BirthYear: pointer.To(nextYear)},
			fmt.Sprintf("Birth year must be between 1000 and %d", nextYear-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService(t)

			_, err := service.CreateAuthor(context.Background(), tt.input)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestCreateAuthor_CaseInsensitiveConflict(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	_, err := service.CreateAuthor(ctx, &author.Author{Name: "Ursula K. Le Guin"})
	require.NoError(t, err)

	_, err = service.CreateAuthor(ctx, &author.Author{Name: "URSULA K. LE GUIN"})
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.Equal(t, "Author with name 'URSULA K. LE GUIN' already exists", err.Error())
}

func TestGetAuthor_NotFound(t *testing.T) {
	service, _ := newService(t)

	_, err := service.GetAuthor(context.Background(), 404)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

func TestListAuthors_Pagination(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	for _, name := range []string{"Eco", "Asimov", "Calvino", "Borges", "Dick"} {
		_, err := service.CreateAuthor(ctx, &author.Author{Name: name})
		require.NoError(t, err)
	}

	result, err := service.ListAuthors(ctx, author.Filter{}, pagination.Params{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 3, result.Pages)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Asimov", result.Items[0].Name)
	assert.Equal(t, "Borges", result.Items[1].Name)

	last, err := service.ListAuthors(ctx, author.Filter{}, pagination.Params{Page: 3, Size: 2})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "Eco", last.Items[0].Name)

	beyond, err := service.ListAuthors(ctx, author.Filter{}, pagination.Params{Page: 9, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 5, beyond.Total)
}

func TestListAuthors_RejectsBadParams(t *testing.T) {
	service, _ := newService(t)

	for _, params := range []pagination.Params{{Page: 0, Size: 10}, {Page: 1, Size: 0}, {Page: 1, Size: 101}} {
		_, err := service.ListAuthors(context.Background(), author.Filter{}, params)
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "params %+v", params)
	}
}

func TestListAuthors_Filters(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	for _, a := range []*author.Author{
		{Name: "Jorge Luis Borges", Nationality: pointer.To("Argentine")},
		{Name: "Julio Cortázar", Nationality: pointer.To("Argentine")},
		{Name: "Italo Calvino", Nationality: pointer.To("Italian")},
	} {
		_, err := service.CreateAuthor(ctx, a)
		require.NoError(t, err)
	}

	byNationality, err := service.ListAuthors(ctx, author.Filter{Nationality: "argent"}, pagination.Params{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, byNationality.Total)

	byName, err := service.ListAuthors(ctx, author.Filter{Name: "CALVINO"}, pagination.Params{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, byName.Items, 1)
	assert.Equal(t, "Italo Calvino", byName.Items[0].Name)
}

func TestUpdateAuthor(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	first, err := service.CreateAuthor(ctx, &author.Author{Name: "Stanislaw Lem"})
	require.NoError(t, err)
	_, err = service.CreateAuthor(ctx, &author.Author{Name: "Philip K. Dick"})
	require.NoError(t, err)

	t.Run("case-only rename of itself is allowed", func(t *testing.T) {
		updated, err := service.UpdateAuthor(ctx, first.ID, &author.Author{Name: "STANISLAW LEM", BirthYear: pointer.To(1921)})
		require.NoError(t, err)
		assert.Equal(t, "STANISLAW LEM", updated.Name)
		assert.Equal(t, 1921, *updated.BirthYear)
	})

	t.Run("taking another author's name conflicts", func(t *testing.T) {
		_, err := service.UpdateAuthor(ctx, first.ID, &author.Author{Name: "philip k. dick"})
		assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	})

	t.Run("missing author", func(t *testing.T) {
		_, err := service.UpdateAuthor(ctx, 999, &author.Author{Name: "Nobody"})
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}

func TestDeleteAuthor_CascadesBooks(t *testing.T) {
	service, store := newService(t)
	ctx := context.Background()

	created, err := service.CreateAuthor(ctx, &author.Author{Name: "Mary Shelley"})
	require.NoError(t, err)

	require.NoError(t, store.Books().Create(ctx, &book.Book{
		Title: "Frankenstein", AuthorID: created.ID, Genre: book.GenreFiction, PublishedYear: 1818,
	}))

	require.NoError(t, service.DeleteAuthor(ctx, created.ID))

	count, err := store.Books().Count(ctx, book.Filter{})
	require.NoError(t, err)
	assert.Zero(t, count)

	err = service.DeleteAuthor(ctx, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
