// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memstore

import (
	"context"
	"strings"
	"time"

	"github.com/taibuivan/bookshelf/internal/auth"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
)

var (
	_ auth.UserRepository  = (*UserRepository)(nil)
	_ auth.RevocationStore = (*RevocationStore)(nil)
)

// UserRepository implements [auth.UserRepository] in memory.
type UserRepository struct {
	store *Store
}

func copyUser(u *auth.User) *auth.User {
	clone := *u
	return &clone
}

func (repository *UserRepository) Create(_ context.Context, u *auth.User) error {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) || strings.EqualFold(existing.Username, u.Username) {
			return errConflict()
		}
	}

	u.ID = s.nextUserID
	s.nextUserID++
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = copyUser(u)
	return nil
}

func (repository *UserRepository) GetByID(_ context.Context, id int64) (*auth.User, error) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return copyUser(u), nil
}

func (repository *UserRepository) GetByEmail(_ context.Context, email string) (*auth.User, error) {
	return repository.find(func(u *auth.User) bool { return strings.EqualFold(u.Email, email) })
}

func (repository *UserRepository) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	return repository.find(func(u *auth.User) bool { return strings.EqualFold(u.Username, username) })
}

func (repository *UserRepository) find(match func(*auth.User) bool) (*auth.User, error) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, dberr.ErrNotFound
}

// SetActive flips the active flag of a stored user, for deactivation scenarios.
func (repository *UserRepository) SetActive(id int64, active bool) {
	s := repository.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		u.IsActive = active
	}
}

// RevocationStore implements [auth.RevocationStore] with expiring entries.
type RevocationStore struct {
	store *Store
}

func (revocations *RevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	s := revocations.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revoked[tokenID] = s.now().Add(ttl)
	return nil
}

func (revocations *RevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s := revocations.store
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !s.now().Before(expiresAt) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
