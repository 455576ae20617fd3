// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the context keys shared by middleware and handlers.
// Values are read and written through package ctxutil only.
package ctxkey

type key string

const (
	// KeyRequestID carries the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyPrincipal carries the authenticated user.
	KeyPrincipal key = "principal"

	// KeyAccessToken carries the raw bearer token so logout can revoke it.
	KeyAccessToken key = "access_token"

	// KeyLogger carries the request-scoped logger.
	KeyLogger key = "logger"
)
