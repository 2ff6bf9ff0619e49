package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisTestStore(t *testing.T, prefix string, ttl time.Duration) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start failed: %v", err)
	}
	t.Cleanup(mr.Close)

	store, err := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), prefix, ttl)
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	return mr, store
}

func TestNewRedisStoreRequiresClient(t *testing.T) {
	if _, err := NewRedisStore(nil, "tp", 0); err == nil {
		t.Fatal("expected error for nil client")
	}
}

func TestRedisStoreKeysUnderPrefix(t *testing.T) {
	mr, store := newRedisTestStore(t, "bot7", 0)

	ctx := context.Background()
	if err := store.SaveToken(ctx, "abc123"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}
	if err := store.SaveSnapshot(ctx, Snapshot{Token: "abc123"}); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if got, err := mr.Get("bot7:session:token"); err != nil || got != "abc123" {
		t.Fatalf("token key = %q, %v", got, err)
	}
	if !mr.Exists("bot7:session:snapshot") {
		t.Fatal("snapshot key missing")
	}
}

func TestRedisStoreDefaultPrefix(t *testing.T) {
	mr, store := newRedisTestStore(t, "", 0)

	if err := store.SaveToken(context.Background(), "abc123"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}
	if !mr.Exists("tp:session:token") {
		t.Fatal("empty prefix must fall back to tp")
	}
}

func TestRedisStoreTTL(t *testing.T) {
	mr, store := newRedisTestStore(t, "tp", time.Minute)

	ctx := context.Background()
	if err := store.SaveToken(ctx, "abc123"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	if ttl := mr.TTL("tp:session:token"); ttl != time.Minute {
		t.Fatalf("ttl = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.LoadToken(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired token error = %v, want ErrNotFound", err)
	}
}

func TestRedisStoreCorruptSnapshot(t *testing.T) {
	mr, store := newRedisTestStore(t, "tp", 0)

	if err := mr.Set("tp:session:snapshot", "{broken"); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	if _, err := store.LoadSnapshot(context.Background()); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("error = %v, want ErrCorrupt", err)
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, store := newRedisTestStore(t, "tp", 0)
	mr.Close()

	ctx := context.Background()
	if err := store.SaveToken(ctx, "abc123"); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("SaveToken error = %v, want ErrRedisUnavailable", err)
	}
	if _, err := store.LoadToken(ctx); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("LoadToken error = %v, want ErrRedisUnavailable", err)
	}
}
