// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_EmptyURLDisablesRedis(t *testing.T) {
	client, err := NewClient(context.Background(), "", ClientOptions{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "http://localhost:6379", ClientOptions{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.ErrorContains(t, err, "invalid URL")
}

func TestApplyOptions(t *testing.T) {
	target, err := redis.ParseURL("redis://localhost:6379/2")
	require.NoError(t, err)

	applyOptions(target, ClientOptions{PoolSize: 7, OpTimeout: time.Second})

	assert.Equal(t, 2, target.DB)
	assert.Equal(t, 7, target.PoolSize)
	assert.Equal(t, 0, target.MinIdleConns)
	assert.Equal(t, time.Second, target.ReadTimeout)
	assert.Equal(t, time.Second, target.DialTimeout)
}
