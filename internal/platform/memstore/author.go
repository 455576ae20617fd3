// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/taibuivan/bookshelf/internal/author"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

var _ author.Repository = (*AuthorRepository)(nil)

// AuthorRepository implements [author.Repository] in memory.
type AuthorRepository struct {
	store *Store
}

func copyAuthor(a *author.Author) *author.Author {
	clone := *a
	return &clone
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesAuthor(a *author.Author, filter author.Filter) bool {
	if filter.Name != "" && !containsFold(a.Name, filter.Name) {
		return false
	}
	if filter.Nationality != "" && (a.Nationality == nil || !containsFold(*a.Nationality, filter.Nationality)) {
		return false
	}
	return true
}

// nameTaken reports whether another author holds name. Callers hold the lock.
func (repository *AuthorRepository) nameTaken(name string, selfID int64) bool {
	for _, existing := range repository.store.authors {
		if existing.ID != selfID && author.SameName(existing.Name, name) {
			return true
		}
	}
	return false
}

func (repository *AuthorRepository) Create(_ context.Context, a *author.Author) error {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if repository.nameTaken(a.Name, 0) {
		return errConflict()
	}

	a.ID = s.nextAuthorID
	s.nextAuthorID++
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt

	s.authors[a.ID] = copyAuthor(a)
	return nil
}

func (repository *AuthorRepository) GetByID(_ context.Context, id int64) (*author.Author, error) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.authors[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return copyAuthor(a), nil
}

func (repository *AuthorRepository) GetByName(_ context.Context, name string) (*author.Author, error) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.authors {
		if author.SameName(a.Name, name) {
			return copyAuthor(a), nil
		}
	}
	return nil, dberr.ErrNotFound
}

// matching returns the filtered authors ordered by name, then id.
func (repository *AuthorRepository) matching(filter author.Filter) []*author.Author {
	var authors []*author.Author
	for _, a := range repository.store.authors {
		if matchesAuthor(a, filter) {
			authors = append(authors, copyAuthor(a))
		}
	}

	slices.SortFunc(authors, func(x, y *author.Author) int {
		return cmp.Or(cmp.Compare(x.Name, y.Name), cmp.Compare(x.ID, y.ID))
	})
	return authors
}

func (repository *AuthorRepository) List(_ context.Context, filter author.Filter, limit, offset int) ([]*author.Author, error) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return page(repository.matching(filter), limit, offset), nil
}

func (repository *AuthorRepository) Count(_ context.Context, filter author.Filter) (int, error) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(repository.matching(filter)), nil
}

func (repository *AuthorRepository) Update(_ context.Context, a *author.Author) error {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.authors[a.ID]
	if !ok {
		return dberr.ErrNotFound
	}
	if repository.nameTaken(a.Name, a.ID) {
		return errConflict()
	}

	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = s.now()
	s.authors[a.ID] = copyAuthor(a)
	return nil
}

// Delete removes the author together with every book that references it.
func (repository *AuthorRepository) Delete(_ context.Context, id int64) error {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.authors[id]; !ok {
		return dberr.ErrNotFound
	}

	delete(s.authors, id)
	for bookID, b := range s.books {
		if b.AuthorID == id {
			delete(s.books, bookID)
		}
	}
	return nil
}
