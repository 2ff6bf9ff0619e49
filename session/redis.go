package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the TaskPilot client.
var ErrRedisUnavailable = errors.New("redis unavailable")

// RedisStore defines a public type used by taskpilot APIs.
//
// RedisStore persists session entries in Redis under a fixed key prefix.
// It suits headless agents and bots that share one logical session across
// restarts or replicas; the single-writer rule still applies per prefix.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// NewRedisStore performs no I/O. A zero ttl means entries never expire; a
// positive ttl bounds how long a persisted session outlives its last write.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	if prefix == "" {
		prefix = "tp"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}, nil
}

func (r *RedisStore) tokenKey() string    { return r.prefix + ":session:token" }
func (r *RedisStore) snapshotKey() string { return r.prefix + ":session:snapshot" }

// SaveToken describes the savetoken operation and its observable behavior.
//
// SaveToken may return [ErrRedisUnavailable] when the backend cannot be reached.
func (r *RedisStore) SaveToken(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, r.tokenKey(), token, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// LoadToken describes the loadtoken operation and its observable behavior.
//
// LoadToken returns [ErrNotFound] when no token is persisted under the prefix.
func (r *RedisStore) LoadToken(ctx context.Context) (string, error) {
	val, err := r.client.Get(ctx, r.tokenKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return val, nil
}

// SaveSnapshot describes the savesnapshot operation and its observable behavior.
//
// SaveSnapshot may return [ErrRedisUnavailable] when the backend cannot be reached.
func (r *RedisStore) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.snapshotKey(), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// LoadSnapshot describes the loadsnapshot operation and its observable behavior.
//
// LoadSnapshot returns [ErrNotFound] when no snapshot is persisted and
// [ErrCorrupt] when the stored bytes cannot be decoded.
func (r *RedisStore) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	data, err := r.client.Get(ctx, r.snapshotKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return decodeSnapshot(data)
}

// Clear describes the clear operation and its observable behavior.
//
// Clear removes both entries in one round-trip and is idempotent.
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.tokenKey(), r.snapshotKey()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
