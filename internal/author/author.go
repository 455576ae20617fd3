// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package author manages the writers that books in the catalogue belong to.
package author

import (
	"strings"
	"time"
)

// Author represents the writer of one or more books.
type Author struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Biography   *string   `json:"biography"`
	BirthYear   *int      `json:"birth_year"`
	Nationality *string   `json:"nationality"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter holds the parameters for a paginated author search.
// Both fields are case-insensitive substring matches; empty means no filter.
type Filter struct {
	Name        string
	Nationality string
}

// Global field names for validation
const (
	FieldName        = "name"
	FieldBiography   = "biography"
	FieldBirthYear   = "birth_year"
	FieldNationality = "nationality"
)

// Field limits
const (
	MinBirthYear         = 1000
	MaxNameLength        = 255
	MaxBiographyLength   = 5000
	MaxNationalityLength = 100
)

// NameKey returns the comparison key for an author name. It lowercases rune
// by rune like LOWER(name) in the unique index, so in-process checks agree
// with the database: "Straße" and "STRASSE" are different names.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SameName reports whether a and b are the same name ignoring case.
func SameName(a, b string) bool {
	return NameKey(a) == NameKey(b)
}
