// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
Every parse failure is returned as a VALIDATION_ERROR [apperr.AppError].
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/pkg/pagination"
	"github.com/taibuivan/bookshelf/pkg/query"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to cap the body size)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxJSONBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named integer URL parameter from the request.

Returns:
  - int64: the parsed identifier
  - error: a validation error when the segment is not a positive integer
*/
func ID(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, validate.FieldError(name, "Must be a positive integer")
	}
	return id, nil
}

/*
OptionalInt parses an optional integer query parameter.
*/
func OptionalInt(request *http.Request, key string) (*int, error) {
	value, err := query.OptionalInt(request.URL.Query(), key)
	if err != nil {
		return nil, validate.FieldError(key, err.Error())
	}
	return value, nil
}

/*
Pagination parses the page and size query parameters. Range checks are
performed by the service layer.
*/
func Pagination(request *http.Request) (pagination.Params, error) {
	params, err := pagination.FromRequest(request)
	if err != nil {
		return pagination.Params{}, apperr.ValidationError(err.Error())
	}
	return params, nil
}

/*
Principal returns the authenticated caller, or an Unauthorized error for
anonymous requests.
*/
func Principal(request *http.Request) (ctxutil.Principal, error) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		return nil, apperr.Unauthorized("Not authenticated")
	}
	return principal, nil
}
