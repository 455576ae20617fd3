// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memstore

import (
	"cmp"
	"context"
	"slices"

	"github.com/taibuivan/bookshelf/internal/book"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

var _ book.Repository = (*BookRepository)(nil)

// BookRepository implements [book.Repository] in memory.
type BookRepository struct {
	store *Store
}

func copyBook(b *book.Book) *book.Book {
	clone := *b
	return &clone
}

func matchesBook(b *book.Book, filter book.Filter) bool {
	switch {
	case filter.Title != "" && !containsFold(b.Title, filter.Title):
		return false
	case filter.AuthorID != nil && b.AuthorID != *filter.AuthorID:
		return false
	case filter.Genre != "" && b.Genre != filter.Genre:
		return false
	case filter.YearFrom != nil && b.PublishedYear < *filter.YearFrom:
		return false
	case filter.YearTo != nil && b.PublishedYear > *filter.YearTo:
		return false
	default:
		return true
	}
}

// compareBooks orders like the SQL ORDER BY: the whitelisted column with id
// as tie-breaker, or newest first for an unknown column.
func compareBooks(filter book.Filter) func(x, y *book.Book) int {
	if !book.IsSortable(filter.SortBy) {
		return func(x, y *book.Book) int {
			return -cmp.Or(x.CreatedAt.Compare(y.CreatedAt), cmp.Compare(x.ID, y.ID))
		}
	}

	sign := 1
	if filter.Order == book.OrderDesc {
		sign = -1
	}

	return func(x, y *book.Book) int {
		var result int
		switch filter.SortBy {
		case book.SortTitle:
			result = cmp.Compare(x.Title, y.Title)
		case book.SortPublishedYear:
			result = cmp.Compare(x.PublishedYear, y.PublishedYear)
		case book.SortCreatedAt:
			result = x.CreatedAt.Compare(y.CreatedAt)
		case book.SortUpdatedAt:
			result = x.UpdatedAt.Compare(y.UpdatedAt)
		}
		return sign * cmp.Or(result, cmp.Compare(x.ID, y.ID))
	}
}

// isbnTaken reports whether a book other than selfID holds isbn. Callers hold the lock.
func (repository *BookRepository) isbnTaken(isbn *string, selfID int64) bool {
	if isbn == nil {
		return false
	}
	for _, existing := range repository.store.books {
		if existing.ID != selfID && existing.ISBN != nil && *existing.ISBN == *isbn {
			return true
		}
	}
	return false
}

// check applies the foreign key and the partial unique index. Callers hold the lock.
func (repository *BookRepository) check(b *book.Book) error {
	if _, ok := repository.store.authors[b.AuthorID]; !ok {
		return errMissingReference()
	}
	if repository.isbnTaken(b.ISBN, b.ID) {
		return errConflict()
	}
	return nil
}

// insert assigns identity and timestamps. Callers hold the lock.
func (repository *BookRepository) insert(b *book.Book) {
	s := repository.store
	b.ID = s.nextBookID
	s.nextBookID++
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt
	s.books[b.ID] = copyBook(b)
}

func (repository *BookRepository) Create(_ context.Context, b *book.Book) error {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = 0
	if err := repository.check(b); err != nil {
		return err
	}
	repository.insert(b)
	return nil
}

func (repository *BookRepository) GetByID(_ context.Context, id int64) (*book.Book, error) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return copyBook(b), nil
}

func (repository *BookRepository) GetByISBN(_ context.Context, isbn string) (*book.Book, error) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.books {
		if b.ISBN != nil && *b.ISBN == isbn {
			return copyBook(b), nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *BookRepository) matching(filter book.Filter) []*book.Book {
	var books []*book.Book
	for _, b := range repository.store.books {
		if matchesBook(b, filter) {
			books = append(books, copyBook(b))
		}
	}
	slices.SortFunc(books, compareBooks(filter))
	return books
}

func (repository *BookRepository) List(_ context.Context, filter book.Filter, limit, offset int) ([]*book.Book, error) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return page(repository.matching(filter), limit, offset), nil
}

func (repository *BookRepository) Count(_ context.Context, filter book.Filter) (int, error) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(repository.matching(filter)), nil
}

func (repository *BookRepository) Update(_ context.Context, b *book.Book) error {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.books[b.ID]
	if !ok {
		return dberr.ErrNotFound
	}
	if err := repository.check(b); err != nil {
		return err
	}

	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = s.now()
	s.books[b.ID] = copyBook(b)
	return nil
}

func (repository *BookRepository) Delete(_ context.Context, id int64) error {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(s.books, id)
	return nil
}

// BulkCreate inserts every book or none: all rows are checked, including
// against each other, before the first insert.
func (repository *BookRepository) BulkCreate(_ context.Context, books []*book.Book) ([]*book.Book, error) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(books))
	for _, b := range books {
		b.ID = 0
		if err := repository.check(b); err != nil {
			return nil, err
		}
		if b.ISBN == nil {
			continue
		}
		if _, duplicate := seen[*b.ISBN]; duplicate {
			return nil, errConflict()
		}
		seen[*b.ISBN] = struct{}{}
	}

	created := make([]*book.Book, 0, len(books))
	for _, b := range books {
		repository.insert(b)
		created = append(created, b)
	}
	return created, nil
}
