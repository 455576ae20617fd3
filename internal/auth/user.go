// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth manages user accounts and bearer-token authentication.
//
// # Architecture
//
// Registration hashes passwords with bcrypt through [sec.HashPassword]; login
// issues a signed, time-limited JWT whose subject is the user id. Every
// authenticated request resolves that token back into an active [User].
package auth

import (
	"strconv"
	"time"
)

// User is a registered account.
//
// # Rules
//   - Email and Username are unique, compared case-insensitively.
//   - HashedPassword is produced by the service only and never serialised.
//   - Inactive users cannot log in or use previously issued tokens.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PrincipalID implements ctxutil.Principal.
func (u *User) PrincipalID() int64 {
	return u.ID
}

// Subject is the JWT subject claim for the user.
func (u *User) Subject() string {
	return strconv.FormatInt(u.ID, 10)
}

// Global field names for validation
const (
	FieldEmail    = "email"
	FieldUsername = "username"
	FieldPassword = "password"
)

// Constraints for registration input.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 100
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
	MaxEmailLength    = 255
)
