// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for user accounts.
//
// Lookups return dberr.ErrNotFound on a miss. Email and username lookups are
// case-insensitive.
type UserRepository interface {
	Create(context context.Context, user *User) error
	GetByID(context context.Context, id int64) (*User, error)
	GetByEmail(context context.Context, email string) (*User, error)
	GetByUsername(context context.Context, username string) (*User, error)
}

// RevocationStore records access tokens that were explicitly logged out.
//
// Entries only need to outlive the token itself, so every revocation carries
// the remaining lifetime of the token.
type RevocationStore interface {
	Revoke(context context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(context context.Context, tokenID string) (bool, error)
}
