// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis connects to the optional Redis instance that holds revoked
access-token ids until they expire.

Callers receive a nil client when no URL is configured and fall back to an
in-process no-op revocation store.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// ClientOptions tunes the connection pool. Zero fields keep go-redis defaults.
type ClientOptions struct {
	PoolSize     int
	MinIdleConns int
	// OpTimeout bounds dialing and every read and write.
	OpTimeout time.Duration
}

// NewClient parses redisURL, applies options and pings the server.
// An empty URL yields a nil client and no error.
func NewClient(context stdctx.Context, redisURL string, options ClientOptions, logger *slog.Logger) (*redis.Client, error) {
	if redisURL == "" {
		logger.Info("redis_disabled", slog.String("revocation", "noop"))
		return nil, nil
	}

	redisOptions, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	applyOptions(redisOptions, options)

	client := redis.NewClient(redisOptions)
	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected",
		slog.String("addr", redisOptions.Addr),
		slog.Int("db", redisOptions.DB),
		slog.Int("pool_size", redisOptions.PoolSize),
	)
	return client, nil
}

func applyOptions(target *redis.Options, options ClientOptions) {
	if options.PoolSize > 0 {
		target.PoolSize = options.PoolSize
	}
	if options.MinIdleConns > 0 {
		target.MinIdleConns = options.MinIdleConns
	}
	if options.OpTimeout > 0 {
		target.DialTimeout = options.OpTimeout
		target.ReadTimeout = options.OpTimeout
		target.WriteTimeout = options.OpTimeout
	}
}

// Ping checks that the server answers within a short deadline.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
