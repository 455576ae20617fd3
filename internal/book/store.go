// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"

	"github.com/taibuivan/bookshelf/internal/author"
)

// Repository is the storage contract for books.
//
// Lookups return dberr.ErrNotFound when no row matches. BulkCreate inserts
// every book in a single transaction or none of them.
type Repository interface {
	Create(context context.Context, book *Book) error
	GetByID(context context.Context, id int64) (*Book, error)
	GetByISBN(context context.Context, isbn string) (*Book, error)
	List(context context.Context, filter Filter, limit, offset int) ([]*Book, error)
	Count(context context.Context, filter Filter) (int, error)
	Update(context context.Context, book *Book) error
	Delete(context context.Context, id int64) error
	BulkCreate(context context.Context, books []*Book) ([]*Book, error)
}

// AuthorLookup resolves the author a book references.
type AuthorLookup interface {
	GetByID(context context.Context, id int64) (*author.Author, error)
}
