// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema is the registry of table and column names used to build SQL.
package schema

// AuthorsTable represents the 'authors' table
type AuthorsTable struct {
	Table       string
	ID          string
	Name        string
	Biography   string
	BirthYear   string
	Nationality string
	CreatedAt   string
	UpdatedAt   string
}

// Authors is the schema definition for authors
var Authors = AuthorsTable{
	Table:       "authors",
	ID:          "id",
	Name:        "name",
	Biography:   "biography",
	BirthYear:   "birth_year",
	Nationality: "nationality",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

// Columns returns all standard column names in scan order
func (t AuthorsTable) Columns() []string {
	return []string{t.ID, t.Name, t.Biography, t.BirthYear, t.Nationality, t.CreatedAt, t.UpdatedAt}
}
