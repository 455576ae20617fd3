// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
)

// RedisRevocationStore implements [RevocationStore] with expiring Redis keys.
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore creates a Redis-backed revocation store.
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

func revocationKey(tokenID string) string {
	return constants.RedisPrefixRevokedToken + tokenID
}

// Revoke marks tokenID as revoked until ttl elapses. Non-positive ttls are
// ignored since the token has already expired.
func (store *RedisRevocationStore) Revoke(context context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := store.client.Set(context, revocationKey(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis_revoke_token_failed: %w", err)
	}
	return nil
}

func (store *RedisRevocationStore) IsRevoked(context context.Context, tokenID string) (bool, error) {
	count, err := store.client.Exists(context, revocationKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_check_revoked_failed: %w", err)
	}
	return count > 0, nil
}

// NoopRevocationStore is used when Redis is not configured. Logout then only
// discards the token client-side.
type NoopRevocationStore struct{}

func (NoopRevocationStore) Revoke(context.Context, string, time.Duration) error { return nil }

func (NoopRevocationStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }
