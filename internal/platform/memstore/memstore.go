// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package memstore provides in-memory implementations of every repository.

They honour the same contract as the PostgreSQL adapters: misses return
[dberr.ErrNotFound], unique clashes return a Conflict, dangling author
references return a Validation error, and deleting an author removes its
books. Service tests run against them without a database.
*/
package memstore

import (
	"sync"
	"time"

	"github.com/taibuivan/bookshelf/internal/auth"
	"github.com/taibuivan/bookshelf/internal/author"
	"github.com/taibuivan/bookshelf/internal/book"
	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

// Store holds every table behind a single lock, so cross-table rules such as
// cascade delete stay consistent.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	nextAuthorID int64
	nextBookID   int64
	nextUserID   int64

	authors map[int64]*author.Author
	books   map[int64]*book.Book
	users   map[int64]*auth.User
	revoked map[string]time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		now:          time.Now,
		nextAuthorID: 1,
		nextBookID:   1,
		nextUserID:   1,
		authors:      make(map[int64]*author.Author),
		books:        make(map[int64]*book.Book),
		users:        make(map[int64]*auth.User),
		revoked:      make(map[string]time.Time),
	}
}

// Authors returns the author repository view of the store.
func (s *Store) Authors() *AuthorRepository { return &AuthorRepository{store: s} }

// Books returns the book repository view of the store.
func (s *Store) Books() *BookRepository { return &BookRepository{store: s} }

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{store: s} }

// Revocations returns the token revocation view of the store.
func (s *Store) Revocations() *RevocationStore { return &RevocationStore{store: s} }

func errConflict() error {
	return apperr.Conflict("Resource already exists")
}

func errMissingReference() error {
	return apperr.ValidationError("Referenced resource does not exist")
}

// page applies limit and offset to an already ordered slice.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
