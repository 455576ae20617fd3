// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/api"
	"github.com/taibuivan/bookshelf/internal/auth"
	"github.com/taibuivan/bookshelf/internal/author"
	"github.com/taibuivan/bookshelf/internal/book"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/memstore"
	"github.com/taibuivan/bookshelf/internal/platform/metrics"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]int  `json:"meta"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

type testAPI struct {
	t      *testing.T
	router *chi.Mux
}

func newTestAPI(t *testing.T, deps api.HealthDependencies) *testAPI {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstore.New()

	tokens, err := sec.NewHMACTokenService("test-secret", "bookshelf-test")
	require.NoError(t, err)

	collectors := metrics.New()
	authService := auth.NewService(store.Users(), tokens, store.Revocations(), 30*time.Minute, logger)

	liveness, readiness := api.NewHealthHandlers(deps, logger)
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Author:    author.NewHandler(author.NewService(store.Authors(), logger)),
		Book:      book.NewHandler(book.NewService(store.Books(), store.Authors(), logger), collectors),
	}

	cfg := &config.Config{Environment: "test"}
	return &testAPI{t: t, router: api.NewRouter(ctx, cfg, logger, authService, collectors, handlers)}
}

func (a *testAPI) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	a.t.Helper()

	request := httptest.NewRequest(method, path, body)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	a.router.ServeHTTP(recorder, request)
	return recorder
}

func (a *testAPI) json(method, path, token string, payload any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(a.t, err)
		body = bytes.NewReader(raw)
	}

	recorder := a.do(method, path, token, body, "application/json")

	var env envelope
	if recorder.Body.Len() > 0 && strings.HasPrefix(recorder.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(recorder.Body.Bytes(), &env))
	}
	return recorder, env
}

// login registers a user and returns a bearer token for it.
func (a *testAPI) login() string {
	a.t.Helper()

	recorder, _ := a.json(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "reader@example.com", "username": "reader", "password": "Secret123",
	})
	require.Equal(a.t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder, env := a.json(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"login": "reader", "password": "Secret123",
	})
	require.Equal(a.t, http.StatusOK, recorder.Code, recorder.Body.String())

	var token auth.TokenResponse
	require.NoError(a.t, json.Unmarshal(env.Data, &token))
	assert.Equal(a.t, "bearer", token.TokenType)
	return token.AccessToken
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(raw, &value))
	return value
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t, api.HealthDependencies{})

	recorder := a.do(http.MethodGet, "/health", "", nil, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"ok"`)
}

func TestReady(t *testing.T) {
	healthy := newTestAPI(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
	})
	assert.Equal(t, http.StatusOK, healthy.do(http.MethodGet, "/ready", "", nil, "").Code)

	degraded := newTestAPI(t, api.HealthDependencies{
		CheckDatabase: func(context.Context) error { return nil },
		CheckCache:    func(context.Context) error { return errors.New("connection refused") },
	})
	recorder := degraded.do(http.MethodGet, "/ready", "", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "degraded")
}

func TestWritesRequireAuthentication(t *testing.T) {
	a := newTestAPI(t, api.HealthDependencies{})

	recorder, env := a.json(http.MethodPost, "/api/v1/authors", "", map[string]string{"name": "Anonymous"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "UNAUTHORIZED", env.Code)

	recorder, _ = a.json(http.MethodPost, "/api/v1/authors", "garbage", map[string]string{"name": "Anonymous"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder, _ = a.json(http.MethodGet, "/api/v1/authors", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code, "reads are public")
}

func TestLogin_FormEncoded(t *testing.T) {
	a := newTestAPI(t, api.HealthDependencies{})
	a.login()

	form := url.Values{"username": {"reader@example.com"}, "password": {"Secret123"}}
	recorder := a.do(http.MethodPost, "/api/v1/auth/login", "", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	form.Set("password", "Wrong1234")
	recorder = a.do(http.MethodPost, "/api/v1/auth/login", "", strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Incorrect username or password")
}

func TestMeAndLogout(t *testing.T) {
	a := newTestAPI(t, api.HealthDependencies{})
	token := a.login()

	recorder, env := a.json(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	me := decode[map[string]any](t, env.Data)
	assert.Equal(t, "reader", me["username"])
	assert.NotContains(t, me, "hashed_password")

	recorder, _ = a.json(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder, _ = a.json(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestCatalogueFlow(t *testing.T) {
	a := newTestAPI(t, api.HealthDependencies{})
	token := a.login()

	// ── Authors ──
	recorder, env := a.json(http.MethodPost, "/api/v1/authors", token, map[string]any{
		"name": "Frank Herbert", "birth_year": 1920,
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	herbert := decode[author.Author](t, env.Data)

	recorder, env = a.json(http.MethodPost, "/api/v1/authors", token, map[string]any{"name": "frank herbert"})
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "CONFLICT", env.Code)

	// ── Books ──
	recorder, env = a.json(http.MethodPost, "/api/v1/books", token, map[string]any{
		"title": "Dune", "author_id": herbert.ID, "genre": "fiction", "published_year": 1965, "isbn": "0-441-17271-7",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	dune := decode[book.Book](t, env.Data)
	assert.Equal(t, book.GenreFiction, dune.Genre)

	recorder, _ = a.json(http.MethodPost, "/api/v1/books", token, map[string]any{
		"title": "Dune", "author_id": herbert.ID, "genre": "Fiction", "published_year": 1965, "isbn": "0-441-17271-7",
	})
	assert.Equal(t, http.StatusConflict, recorder.Code)

	recorder, env = a.json(http.MethodPost, "/api/v1/books/bulk", token, map[string]any{
		"books": []map[string]any{
			{"title": "Dune Messiah", "author_id": herbert.ID, "genre": "Fiction", "published_year": 1969},
			{"title": "Children of Dune", "author_id": herbert.ID, "genre": "Cooking", "published_year": 1976},
		},
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)

	recorder, env = a.json(http.MethodPost, "/api/v1/books/bulk", token, map[string]any{
		"books": []map[string]any{
			{"title": "Dune Messiah", "author_id": herbert.ID, "genre": "Fiction", "published_year": 1969},
			{"title": "Children of Dune", "author_id": herbert.ID, "genre": "Fiction", "published_year": 1976},
		},
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Len(t, decode[[]book.Book](t, env.Data), 2)

	recorder, env = a.json(http.MethodGet, fmt.Sprintf("/api/v1/books?title=dune&author_id=%d&year_from=1966&sort_by=published_year&order=desc&size=1", herbert.ID), "", nil)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	page := decode[[]book.Book](t, env.Data)
	require.Len(t, page, 1)
	assert.Equal(t, "Children of Dune", page[0].Title)
	assert.Equal(t, 2, env.Meta["total"])
	assert.Equal(t, 2, env.Meta["pages"])

	recorder, _ = a.json(http.MethodGet, "/api/v1/books?size=500", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder, _ = a.json(http.MethodGet, "/api/v1/books?year_from=soon", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// ── Cascade ──
	recorder, _ = a.json(http.MethodDelete, fmt.Sprintf("/api/v1/authors/%d", herbert.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder, _ = a.json(http.MethodGet, fmt.Sprintf("/api/v1/books/%d", dune.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder, _ = a.json(http.MethodGet, "/api/v1/books/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestImportExport(t *testing.T) {
	a := newTestAPI(t, api.HealthDependencies{})
	token := a.login()

	recorder, env := a.json(http.MethodPost, "/api/v1/authors", token, map[string]any{"name": "Emily Dickinson"})
	require.Equal(t, http.StatusCreated, recorder.Code)
	poet := decode[author.Author](t, env.Data)

	csvBody := fmt.Sprintf("title,author_id,genre,published_year,isbn\nPoems,%d,Poetry,1890,\nLetters,%d,Biography,1894,978-0\n", poet.ID, poet.ID)

	upload := func(filename, content string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		return a.do(http.MethodPost, "/api/v1/import-export/import/csv", token, &body, writer.FormDataContentType())
	}

	recorder = upload("books.json", csvBody)
	assert.Equal(t, http.StatusBadRequest, recorder.Code, "extension must match the format")

	recorder = upload("books.csv", csvBody)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	var imported envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &imported))
	books := decode[[]book.Book](t, imported.Data)
	require.Len(t, books, 2)
	assert.Equal(t, "Poems", books[0].Title)
	assert.NotZero(t, books[0].ID)
	assert.Equal(t, poet.ID, books[1].AuthorID)

	recorder = a.do(http.MethodGet, "/api/v1/import-export/export/csv", "", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/csv", recorder.Header().Get("Content-Type"))
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "books_export.csv")
	lines := strings.Split(strings.TrimSpace(recorder.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,title,author_id,genre,published_year,isbn,description", lines[0])

	recorder = a.do(http.MethodGet, "/api/v1/import-export/export/json", "", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Disposition"), "books_export.json")

	recorder = a.do(http.MethodGet, "/metrics", "", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `bookshelf_catalogue_books_imported_total{format="csv"} 2`)
	assert.Contains(t, recorder.Body.String(), `route="/api/v1/import-export/export/csv"`)
}
