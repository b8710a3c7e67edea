package services

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRedis answers SET and EXISTS from a map so the client never dials.
type memoryRedis struct {
	keys map[string]time.Duration
}

func (m *memoryRedis) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("unexpected dial to %s", addr)
	}
}

func (m *memoryRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.StatusCmd:
			if cmd.Name() != "set" {
				break
			}
			ttl := time.Duration(0)
			if len(args) == 5 && args[3] == "ex" {
				ttl = time.Duration(args[4].(int64)) * time.Second
			}
			m.keys[args[1].(string)] = ttl
			c.SetVal("OK")
			return nil
		case *redis.IntCmd:
			if cmd.Name() != "exists" {
				break
			}
			var n int64
			for _, k := range args[1:] {
				if _, ok := m.keys[k.(string)]; ok {
					n++
				}
			}
			c.SetVal(n)
			return nil
		}
		return fmt.Errorf("unexpected command %v", args)
	}
}

func (m *memoryRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisRevoker(t *testing.T) {
	ctx := context.Background()
	store := &memoryRedis{keys: map[string]time.Duration{}}
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	rdb.AddHook(store)
	t.Cleanup(func() { _ = rdb.Close() })

	revoker := NewRedisRevoker(rdb)

	revoked, err := revoker.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revoker.Revoke(ctx, "token-1", time.Hour))
	assert.Equal(t, time.Hour, store.keys["tagblog:revoked:token-1"])

	revoked, err = revoker.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = revoker.IsRevoked(ctx, "token-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevokerAgainstServer(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()

	rdb, err := NewRedisClient(ctx, addr, os.Getenv("REDIS_PASSWORD"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	revoker := NewRedisRevoker(rdb)
	id := fmt.Sprintf("test-%d", time.Now().UnixNano())
	t.Cleanup(func() { rdb.Del(ctx, revokedKey(id)) })

	require.NoError(t, revoker.Revoke(ctx, id, time.Minute))
	revoked, err := revoker.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := rdb.TTL(ctx, revokedKey(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
