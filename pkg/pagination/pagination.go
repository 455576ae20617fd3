// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
// Out-of-range values are rejected rather than clamped.
package pagination

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

const (
	// DefaultSize is the number of items per page if not specified.
	DefaultSize = 50
	// MaxSize is the upper bound for items per page.
	MaxSize = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

var (
	// ErrInvalidPage is returned when page is below 1.
	ErrInvalidPage = errors.New("page must be greater than or equal to 1")
	// ErrInvalidSize is returned when size is outside [1, MaxSize].
	ErrInvalidSize = fmt.Errorf("size must be between 1 and %d", MaxSize)
)

// Params holds the requested page and page size.
type Params struct {
	Page int
	Size int
}

// Validate checks the page and size bounds.
func (p Params) Validate() error {
	if p.Page < 1 {
		return ErrInvalidPage
	}
	if p.Size < 1 || p.Size > MaxSize {
		return ErrInvalidSize
	}
	return nil
}

// Offset returns the SQL OFFSET value derived from [Page] and [Size].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Size
}

// Limit returns the SQL LIMIT value.
func (p Params) Limit() int {
	return p.Size
}

// Result is one page of items together with the totals needed to navigate.
type Result[T any] struct {
	Items []T
	Total int
	Page  int
	Size  int
	Pages int
}

// NewResult assembles a [Result] and computes the page count.
// A nil items slice is normalised to an empty one.
func NewResult[T any](items []T, total int, params Params) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items: items,
		Total: total,
		Page:  params.Page,
		Size:  params.Size,
		Pages: PageCount(total, params.Size),
	}
}

// Meta returns the response metadata for the result.
func (r Result[T]) Meta() Meta {
	return Meta{Page: r.Page, Size: r.Size, Total: r.Total, Pages: r.Pages}
}

// PageCount returns ceil(total/size), or 0 when size is not positive.
func PageCount(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page  int `json:"page"`
	Size  int `json:"size"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// FromRequest parses "page" and "size" query parameters from an HTTP request.
//
// Missing values take [DefaultPage] and [DefaultSize]. Non-integer values are
// an error; range checks are left to [Params.Validate].
func FromRequest(r *http.Request) (Params, error) {
	page, err := parseIntParam(r, "page", DefaultPage)
	if err != nil {
		return Params{}, err
	}

	size, err := parseIntParam(r, "size", DefaultSize)
	if err != nil {
		return Params{}, err
	}

	return Params{Page: page, Size: size}, nil
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}

	return n, nil
}
