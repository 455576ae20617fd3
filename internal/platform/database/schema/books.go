// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BooksTable represents the 'books' table
type BooksTable struct {
	Table         string
	ID            string
	Title         string
	AuthorID      string
	Genre         string
	PublishedYear string
	ISBN          string
	Description   string
	CreatedAt     string
	UpdatedAt     string
}

// Books is the schema definition for books
var Books = BooksTable{
	Table:         "books",
	ID:            "id",
	Title:         "title",
	AuthorID:      "author_id",
	Genre:         "genre",
	PublishedYear: "published_year",
	ISBN:          "isbn",
	Description:   "description",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}

// Columns returns all standard column names in scan order
func (t BooksTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.AuthorID, t.Genre, t.PublishedYear,
		t.ISBN, t.Description, t.CreatedAt, t.UpdatedAt,
	}
}

// InsertColumns returns the caller-supplied columns in bind order
func (t BooksTable) InsertColumns() []string {
	return []string{t.Title, t.AuthorID, t.Genre, t.PublishedYear, t.ISBN, t.Description}
}
