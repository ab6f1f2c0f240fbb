package redis

import (
	"context"
	"testing"

	"github.com/shenikar/ignis_incident_service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_FromConfig(t *testing.T) {
	cfg := &config.Config{RedisAddr: "cache:6380", RedisPass: "pw", RedisDB: 2, RedisPoolSize: 32}

	opts := options(cfg)

	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 32, opts.PoolSize)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRedisClient(ctx, &config.Config{RedisAddr: "127.0.0.1:1", RedisPoolSize: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
