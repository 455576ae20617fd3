// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

func TestValidator_NoFailures(t *testing.T) {
	err := validate.New().
		MaxLen("name", "Le Guin", 10).
		OptionalRange("birth_year", nil, 1, 2000, "out of range").
		OptionalRange("birth_year", pointer.To(1929), 1, 2000, "out of range").
		Custom("name", false, "unused").
		Err()

	assert.NoError(t, err)
}

func TestValidator_CollectsInOrder(t *testing.T) {
	err := validate.New().
		Custom("title", true, "Book title cannot be empty").
		MaxLen("isbn", "1234567890", 5).
		OptionalRange("published_year", pointer.To(1700), 1800, 2026, "Published year must be between 1800 and 2026").
		Err()

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Equal(t, "Book title cannot be empty", appErr.Message)
	require.Len(t, appErr.Details, 3)
	assert.Equal(t, "isbn", appErr.Details[1].Field)
	assert.Equal(t, "isbn must be at most 5 characters", appErr.Details[1].Message)
	assert.Equal(t, "published_year", appErr.Details[2].Field)
}

func TestValidator_MaxLenCountsRunes(t *testing.T) {
	assert.NoError(t, validate.New().MaxLen("name", "Žižek", 5).Err())
	assert.Error(t, validate.New().MaxLen("name", "Žižeks", 5).Err())
}

func TestFieldError(t *testing.T) {
	appErr := validate.FieldError("genre", "Invalid genre: Cooking")

	assert.Equal(t, "Invalid genre: Cooking", appErr.Message)
	assert.Equal(t, []apperr.FieldError{{Field: "genre", Message: "Invalid genre: Cooking"}}, appErr.Details)
}

type signup struct {
	Email    string
	Username string
}

func (s signup) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Email, validation.Required.Error("Email is required")),
		validation.Field(&s.Username, validation.Required.Error("Username is required")),
	)
}

func TestFromRules_OrdersDetails(t *testing.T) {
	for range 5 {
		appErr := apperr.As(validate.FromRules(signup{}.Validate(), "Email", "Username"))
		require.NotNil(t, appErr)

		assert.Equal(t, "Email is required", appErr.Message)
		require.Len(t, appErr.Details, 2)
		assert.Equal(t, "Username", appErr.Details[1].Field)
	}
}

func TestFromRules_PassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, validate.FromRules(boom, "Email"))
	assert.NoError(t, validate.FromRules(nil, "Email"))
}
