// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package author

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/pagination"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

// Service enforces the author business rules before delegating to storage.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates an author service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// ListAuthors returns one page of authors ordered by name.
//
// # Returns
//   - The page of authors with the total number of matches and the page count.
//   - A validation error when page < 1 or size is outside [1, 100].
func (service *Service) ListAuthors(context context.Context, filter Filter, params pagination.Params) (pagination.Result[*Author], error) {
	if err := params.Validate(); err != nil {
		return pagination.Result[*Author]{}, apperr.ValidationError(err.Error())
	}

	filter.Name = strings.TrimSpace(filter.Name)
	filter.Nationality = strings.TrimSpace(filter.Nationality)

	authors, err := service.repo.List(context, filter, params.Limit(), params.Offset())
	if err != nil {
		return pagination.Result[*Author]{}, err
	}

	total, err := service.repo.Count(context, filter)
	if err != nil {
		return pagination.Result[*Author]{}, err
	}

	return pagination.NewResult(authors, total, params), nil
}

func (service *Service) GetAuthor(context context.Context, id int64) (*Author, error) {
	author, err := service.repo.GetByID(context, id)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil, apperr.NotFoundID("Author", id)
	}
	return author, err
}

// CreateAuthor validates the author, rejects case-insensitive name clashes and
// persists it. The returned record carries the assigned ID and timestamps.
func (service *Service) CreateAuthor(context context.Context, author *Author) (*Author, error) {
	author.Name = strings.TrimSpace(author.Name)
	if err := service.validate(author); err != nil {
		return nil, err
	}

	if err := service.ensureNameFree(context, author.Name, 0); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, author); err != nil {
		return nil, service.nameConflict(author.Name, err)
	}

	service.logger.Info("author_created", slog.Int64("author_id", author.ID), slog.String("name", author.Name))
	return author, nil
}

// UpdateAuthor replaces the mutable fields of an existing author.
// The uniqueness check only runs when the name changes beyond letter case.
func (service *Service) UpdateAuthor(context context.Context, id int64, author *Author) (*Author, error) {
	existing, err := service.GetAuthor(context, id)
	if err != nil {
		return nil, err
	}

	author.ID = id
	author.Name = strings.TrimSpace(author.Name)
	if err := service.validate(author); err != nil {
		return nil, err
	}

	if !SameName(author.Name, existing.Name) {
		if err := service.ensureNameFree(context, author.Name, id); err != nil {
			return nil, err
		}
	}

	if err := service.repo.Update(context, author); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, apperr.NotFoundID("Author", id)
		}
		return nil, service.nameConflict(author.Name, err)
	}

	service.logger.Info("author_updated", slog.Int64("author_id", id))
	return author, nil
}

// DeleteAuthor removes the author and, by cascade, all of its books.
func (service *Service) DeleteAuthor(context context.Context, id int64) error {
	if err := service.repo.Delete(context, id); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return apperr.NotFoundID("Author", id)
		}
		return err
	}

	service.logger.Warn("author_deleted", slog.Int64("author_id", id))
	return nil
}

// validate checks field rules. The name must already be trimmed.
func (service *Service) validate(author *Author) error {
	currentYear := service.now().Year()

	return validate.New().
		Custom(FieldName, author.Name == "", "Author name cannot be empty").
		MaxLen(FieldName, author.Name, MaxNameLength).
		OptionalRange(FieldBirthYear, author.BirthYear, MinBirthYear, currentYear,
			fmt.Sprintf("Birth year must be between %d and %d", MinBirthYear, currentYear)).
		MaxLen(FieldBiography, pointer.Val(author.Biography), MaxBiographyLength).
		MaxLen(FieldNationality, pointer.Val(author.Nationality), MaxNationalityLength).
		Err()
}

// ensureNameFree fails with a conflict when another author (not selfID) holds name.
func (service *Service) ensureNameFree(context context.Context, name string, selfID int64) error {
	existing, err := service.repo.GetByName(context, name)
	switch {
	case errors.Is(err, dberr.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return nameTaken(name)
	default:
		return nil
	}
}

// nameConflict rewrites a storage-level unique violation into the name clash
// message; a concurrent writer can win the race after ensureNameFree.
func (service *Service) nameConflict(name string, err error) error {
	if apperr.HasCode(err, apperr.CodeConflict) {
		return nameTaken(name)
	}
	return err
}

func nameTaken(name string) error {
	return apperr.Conflict(fmt.Sprintf("Author with name '%s' already exists", name))
}
