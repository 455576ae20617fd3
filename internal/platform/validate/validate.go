// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate turns rule failures into VALIDATION_ERROR responses.
//
// Catalogue services chain a [Validator] over their own rules. Request bodies
// with declarative ozzo-validation rules go through [FromRules] instead. Both
// paths produce one [apperr.AppError] whose message is the first failure and
// whose details list every failing field.
package validate

import (
	"errors"
	"fmt"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
)

// ErrInvalidJSON is returned when a request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field failures in the order the rules run.
// It is not safe for concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

// New returns an empty [Validator].
func New() *Validator {
	return &Validator{}
}

// MaxLen fails when value has more than max characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return v
}

// OptionalRange fails when value is set and outside [min, max].
func (v *Validator) OptionalRange(field string, value *int, min, max int, message string) *Validator {
	if value != nil && (*value < min || *value > max) {
		v.add(field, message)
	}
	return v
}

// Custom records message for field when failed is true.
//
// # Example
//
//	v.Custom("title", strings.TrimSpace(title) == "", "Book title cannot be empty")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns the collected failures as a VALIDATION_ERROR, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(v.errs[0].Message, v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// FieldError builds a VALIDATION_ERROR for a single field.
func FieldError(field, message string) *apperr.AppError {
	return apperr.ValidationError(message, apperr.FieldError{
		Field:   field,
		Message: message,
	})
}

// FromRules converts the result of validation.ValidateStruct into a
// VALIDATION_ERROR. Details follow the order of fields, so the headline is
// stable even though ozzo reports failures as a map. Errors that are not
// field errors are returned unchanged.
func FromRules(err error, fields ...string) error {
	var fieldErrors validation.Errors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	details := make([]apperr.FieldError, 0, len(fieldErrors))
	for _, field := range fields {
		if fieldErr, ok := fieldErrors[field]; ok {
			details = append(details, apperr.FieldError{Field: field, Message: fieldErr.Error()})
		}
	}
	if len(details) == 0 {
		return apperr.ValidationError(err.Error())
	}
	return apperr.ValidationError(details[0].Message, details...)
}
