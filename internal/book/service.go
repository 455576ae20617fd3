// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/pagination"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

// isbnPattern allows digits and hyphens only.
var isbnPattern = regexp.MustCompile(`^[0-9-]+$`)

// Service enforces the book business rules before delegating to storage.
type Service struct {
	repo    Repository
	authors AuthorLookup
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a book service. authors is consulted to check that every
// book references an existing author.
func NewService(repo Repository, authors AuthorLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		authors: authors,
		logger:  logger,
		now:     time.Now,
	}
}

// ListBooks returns one page of books matching every filter that is set.
//
// # Returns
//   - The page of books with the total number of matches and the page count.
//   - A validation error for out-of-range pagination, an unknown order or genre.
func (service *Service) ListBooks(context context.Context, filter Filter, params pagination.Params) (pagination.Result[*Book], error) {
	if err := params.Validate(); err != nil {
		return pagination.Result[*Book]{}, apperr.ValidationError(err.Error())
	}

	filter, err := normalizeFilter(filter)
	if err != nil {
		return pagination.Result[*Book]{}, err
	}

	books, err := service.repo.List(context, filter, params.Limit(), params.Offset())
	if err != nil {
		return pagination.Result[*Book]{}, err
	}

	total, err := service.repo.Count(context, filter)
	if err != nil {
		return pagination.Result[*Book]{}, err
	}

	return pagination.NewResult(books, total, params), nil
}

// normalizeFilter trims text filters and canonicalises order and genre.
func normalizeFilter(filter Filter) (Filter, error) {
	filter.Title = strings.TrimSpace(filter.Title)
	filter.SortBy = strings.TrimSpace(filter.SortBy)

	switch order := strings.ToLower(strings.TrimSpace(filter.Order)); order {
	case "", OrderAsc:
		filter.Order = OrderAsc
	case OrderDesc:
		filter.Order = OrderDesc
	default:
		return filter, validate.FieldError(FieldOrder, "Order must be 'asc' or 'desc'")
	}

	if filter.Genre != "" {
		genre, err := ParseGenre(string(filter.Genre))
		if err != nil {
			return filter, err
		}
		filter.Genre = genre
	}

	return filter, nil
}

func (service *Service) GetBook(context context.Context, id int64) (*Book, error) {
	book, err := service.repo.GetByID(context, id)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, apperr.NotFoundID("Book", id)
	}
	return book, err
}

// CreateBook validates the book, checks its author and ISBN, and persists it.
func (service *Service) CreateBook(context context.Context, book *Book) (*Book, error) {
	if err := service.validate(context, book); err != nil {
		return nil, err
	}

	if book.ISBN != nil {
		if err := service.ensureISBNFree(context, *book.ISBN, 0); err != nil {
			return nil, err
		}
	}

	if err := service.repo.Create(context, book); err != nil {
		return nil, isbnConflict(book.ISBN, err)
	}

	service.logger.Info("book_created", slog.Int64("book_id", book.ID), slog.Int64("author_id", book.AuthorID))
	return book, nil
}

// UpdateBook replaces the mutable fields of an existing book. The ISBN is
// re-checked only when it changes.
func (service *Service) UpdateBook(context context.Context, id int64, book *Book) (*Book, error) {
	existing, err := service.GetBook(context, id)
	if err != nil {
		return nil, err
	}

	book.ID = id
	if err := service.validate(context, book); err != nil {
		return nil, err
	}

	if book.ISBN != nil && pointer.Val(existing.ISBN) != *book.ISBN {
		if err := service.ensureISBNFree(context, *book.ISBN, id); err != nil {
			return nil, err
		}
	}

	if err := service.repo.Update(context, book); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFoundID("Book", id)
		}
		return nil, isbnConflict(book.ISBN, err)
	}

	service.logger.Info("book_updated", slog.Int64("book_id", id))
	return book, nil
}

func (service *Service) DeleteBook(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFoundID("Book", id)
		}
		return err
	}

	service.logger.Warn("book_deleted", slog.Int64("book_id", id))
	return nil
}

// BulkCreateBooks persists every book or none.
//
// # Flow
//  1. Validate each book; the first invalid one aborts the batch.
//  2. Reject ISBNs repeated inside the batch.
//  3. Reject ISBNs already stored.
//  4. Insert all rows in a single transaction.
func (service *Service) BulkCreateBooks(context context.Context, books []*Book) ([]*Book, error) {
	// ── 1. Per-book validation ────────────────────────────────────────────
	for index, book := range books {
		if err := service.validate(context, book); err != nil {
			return nil, atIndex(index, err)
		}
	}

	// ── 2. Internal duplicates ────────────────────────────────────────────
	seen := make(map[string]struct{}, len(books))
	isbns := make([]string, 0, len(books))
	for _, book := range books {
		if book.ISBN == nil {
			continue
		}
		if _, duplicate := seen[*book.ISBN]; duplicate {
			return nil, validate.FieldError(FieldISBN, "Duplicate ISBNs in bulk import")
		}
		seen[*book.ISBN] = struct{}{}
		isbns = append(isbns, *book.ISBN)
	}

	// ── 3. Stored duplicates ──────────────────────────────────────────────
	for _, isbn := range isbns {
		if err := service.ensureISBNFree(context, isbn, 0); err != nil {
			return nil, err
		}
	}

	// ── 4. Atomic insert ──────────────────────────────────────────────────
	created, err := service.repo.BulkCreate(context, books)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("One or more ISBNs already exist")
		}
		return nil, err
	}

	service.logger.Info("books_bulk_created", slog.Int("count", len(created)))
	return created, nil
}

// validate normalises the book in place and checks every field rule, then
// confirms the referenced author exists.
func (service *Service) validate(context context.Context, book *Book) error {
	book.Title = strings.TrimSpace(book.Title)
	book.ISBN = trimOptional(book.ISBN)
	book.Description = trimOptional(book.Description)

	currentYear := service.now().Year()
	isbn := pointer.Val(book.ISBN)

	yearOutOfRange := book.PublishedYear < MinPublishedYear || book.PublishedYear > currentYear

	err := validate.New().
		Custom(FieldTitle, book.Title == "", "Book title cannot be empty").
		MaxLen(FieldTitle, book.Title, MaxTitleLength).
		Custom(FieldGenre, !book.Genre.IsValid(), fmt.Sprintf("Invalid genre: %s", book.Genre)).
		Custom(FieldPublishedYear, yearOutOfRange,
			fmt.Sprintf("Published year must be between %d and %d", MinPublishedYear, currentYear)).
		Custom(FieldISBN, book.ISBN != nil && !isbnPattern.MatchString(isbn), "ISBN may only contain digits and hyphens").
		MaxLen(FieldISBN, isbn, MaxISBNLength).
		MaxLen(FieldDescription, pointer.Val(book.Description), MaxDescriptionLength).
		Err()
	if err != nil {
		return err
	}

	return service.ensureAuthorExists(context, book.AuthorID)
}

func (service *Service) ensureAuthorExists(context context.Context, authorID int64) error {
	_, err := service.authors.GetByID(context, authorID)
	if errors.Is(err, dberr.ErrNotFound) {
		return validate.FieldError(FieldAuthorID, fmt.Sprintf("Author with id %d does not exist", authorID))
	}
	return err
}

// ensureISBNFree fails with a conflict when a book other than selfID holds isbn.
func (service *Service) ensureISBNFree(context context.Context, isbn string, selfID int64) error {
	existing, err := service.repo.GetByISBN(context, isbn)
	switch {
	case errors.Is(err, dberr.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return isbnTaken(isbn)
	default:
		return nil
	}
}

// isbnConflict rewrites a storage-level unique violation into the ISBN clash message.
func isbnConflict(isbn *string, err error) error {
	if isbn != nil && apperr.HasCode(err, apperr.CodeConflict) {
		return isbnTaken(*isbn)
	}
	return err
}

func isbnTaken(isbn string) error {
	return apperr.Conflict(fmt.Sprintf("Book with ISBN %s already exists", isbn))
}

// atIndex prefixes validation details with the position of the offending book.
func atIndex(index int, err error) error {
	appErr := apperr.As(err)
	if appErr == nil || appErr.Code != apperr.CodeValidation {
		return err
	}
	return appErr.WithFieldPrefix(fmt.Sprintf("books[%d].", index))
}

// trimOptional trims s and maps blank values to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
