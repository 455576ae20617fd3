// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/ctxutil"
	"github.com/taibuivan/bookshelf/internal/platform/middleware"
)

type stubPrincipal struct{ id int64 }

func (p stubPrincipal) PrincipalID() int64 { return p.id }

type stubResolver struct {
	principal ctxutil.Principal
	err       error
	seenToken string
}

func (s *stubResolver) ResolvePrincipal(_ context.Context, token string) (ctxutil.Principal, error) {
	s.seenToken = token
	return s.principal, s.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetRequestID(r.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "client-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "client-id", seen)

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "forged\nlog line")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.NotContains(t, seen, "forged")
	assert.Len(t, seen, 36)
}

func TestAuthenticate(t *testing.T) {
	t.Run("anonymous_passes_through", func(t *testing.T) {
		resolver := &stubResolver{}
		recorder := httptest.NewRecorder()

		middleware.Authenticate(resolver)(okHandler()).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Empty(t, resolver.seenToken)
	})

	t.Run("bad_scheme_rejected", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Basic abc")
		recorder := httptest.NewRecorder()

		middleware.Authenticate(&stubResolver{})(okHandler()).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("resolver_error_rejected", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer expired")
		recorder := httptest.NewRecorder()
		resolver := &stubResolver{err: apperr.Unauthorized("Could not validate credentials")}

		middleware.Authenticate(resolver)(okHandler()).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "expired", resolver.seenToken)
	})

	t.Run("principal_injected", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "bearer good-token")
		resolver := &stubResolver{principal: stubPrincipal{id: 12}}

		var principal ctxutil.Principal
		var token string
		handler := middleware.Authenticate(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal = ctxutil.GetPrincipal(r.Context())
			token = ctxutil.GetAccessToken(r.Context())
		}))
		handler.ServeHTTP(httptest.NewRecorder(), request)

		require.NotNil(t, principal)
		assert.Equal(t, int64(12), principal.PrincipalID())
		assert.Equal(t, "good-token", token)
	})
}

func TestRequireAuth(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.RequireAuth(okHandler()).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	ctx := ctxutil.WithPrincipal(context.Background(), stubPrincipal{id: 1}, "t")
	recorder = httptest.NewRecorder()
	middleware.RequireAuth(okHandler()).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", nil).WithContext(ctx))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestStructuredLogger_ReportsResolvedUser(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))
	resolver := &stubResolver{principal: stubPrincipal{id: 99}}

	chain := middleware.StructuredLogger(logger)(middleware.Authenticate(resolver)(okHandler()))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	request.Header.Set("Authorization", "Bearer token")
	chain.ServeHTTP(httptest.NewRecorder(), request)

	assert.Contains(t, buffer.String(), `"msg":"http_request_finished"`)
	assert.Contains(t, buffer.String(), `"user_id":99`)
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 2)
	handler := limiter.Handler(okHandler())

	codes := make([]int, 0, 3)
	for range 3 {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.1:5000"
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	recorder := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))

	request.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", middleware.RealIP(request))

	request.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", middleware.RealIP(request))
}
