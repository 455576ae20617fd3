// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package book manages the catalogue of books, including bulk import and
// export of the whole catalogue.
package book

import (
	"strings"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

// Book is a single catalogue entry written by exactly one author.
type Book struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	AuthorID      int64     `json:"author_id"`
	Genre         Genre     `json:"genre"`
	PublishedYear int       `json:"published_year"`
	ISBN          *string   `json:"isbn"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// # Genre

// Genre is the closed set of catalogue genres.
type Genre string

const (
	GenreFiction    Genre = "Fiction"
	GenreNonFiction Genre = "Non-Fiction"
	GenreScience    Genre = "Science"
	GenreHistory    Genre = "History"
	GenreBiography  Genre = "Biography"
	GenreFantasy    Genre = "Fantasy"
	GenreMystery    Genre = "Mystery"
	GenreRomance    Genre = "Romance"
	GenreThriller   Genre = "Thriller"
	GenrePoetry     Genre = "Poetry"
)

// Genres lists every valid genre in display order.
var Genres = []Genre{
	GenreFiction, GenreNonFiction, GenreScience, GenreHistory, GenreBiography,
	GenreFantasy, GenreMystery, GenreRomance, GenreThriller, GenrePoetry,
}

// IsValid reports whether g is one of [Genres].
func (g Genre) IsValid() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// ParseGenre resolves s to its canonical genre, ignoring case and
// surrounding whitespace. Unknown values yield a validation error.
func ParseGenre(s string) (Genre, error) {
	trimmed := strings.TrimSpace(s)
	for _, known := range Genres {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	return "", validate.FieldError(FieldGenre, "Invalid genre: "+s)
}

// # Listing

// Sortable columns accepted by [Filter.SortBy].
const (
	SortTitle         = "title"
	SortPublishedYear = "published_year"
	SortCreatedAt     = "created_at"
	SortUpdatedAt     = "updated_at"
)

// Sort orders accepted by [Filter.Order].
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// IsSortable reports whether field is an allowed sort column.
func IsSortable(field string) bool {
	switch field {
	case SortTitle, SortPublishedYear, SortCreatedAt, SortUpdatedAt:
		return true
	default:
		return false
	}
}

// Filter holds the parameters for a paginated book search.
//
// All set filters must match. An unknown SortBy falls back to newest first.
type Filter struct {
	Title    string
	AuthorID *int64
	Genre    Genre
	YearFrom *int
	YearTo   *int
	SortBy   string
	Order    string
}

// Global field names for validation
const (
	FieldTitle         = "title"
	FieldAuthorID      = "author_id"
	FieldGenre         = "genre"
	FieldPublishedYear = "published_year"
	FieldISBN          = "isbn"
	FieldDescription   = "description"
	FieldOrder         = "order"
)

// Field limits
const (
	MinPublishedYear     = 1800
	MaxTitleLength       = 500
	MaxISBNLength        = 20
	MaxDescriptionLength = 5000
)
