// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/bookshelf/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// Principal is the authenticated caller of a request.
//
// The concrete type lives in the auth domain; the platform only needs an
// identifier for logging.
type Principal interface {
	PrincipalID() int64
}

// WithPrincipal returns a new context carrying the authenticated caller and
// the bearer token it was resolved from.
func WithPrincipal(ctx context.Context, principal Principal, accessToken string) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeyPrincipal, principal)
	return context.WithValue(ctx, ctxkey.KeyAccessToken, accessToken)
}

// GetPrincipal retrieves the authenticated caller, or nil for anonymous requests.
func GetPrincipal(ctx context.Context) Principal {
	principal, ok := ctx.Value(ctxkey.KeyPrincipal).(Principal)
	if !ok {
		return nil
	}
	return principal
}

// GetAccessToken retrieves the bearer token the principal was resolved from.
func GetAccessToken(ctx context.Context) string {
	token, _ := ctx.Value(ctxkey.KeyAccessToken).(string)
	return token
}
