package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// runStoreConformance exercises the Store contract shared by every backend.
func runStoreConformance(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := store.LoadToken(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty LoadToken = %v, want ErrNotFound", err)
	}
	if _, err := store.LoadSnapshot(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty LoadSnapshot = %v, want ErrNotFound", err)
	}

	if err := store.SaveToken(ctx, "abc123"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}
	tok, err := store.LoadToken(ctx)
	if err != nil || tok != "abc123" {
		t.Fatalf("LoadToken = %q, %v", tok, err)
	}

	user := &User{ID: "u1", Email: "alice@example.com", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := store.SaveSnapshot(ctx, Snapshot{User: user, Token: "abc123"}); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	snap, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if snap.Token != "abc123" || snap.User == nil || snap.User.ID != "u1" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if !snap.User.CreatedAt.Equal(user.CreatedAt) {
		t.Fatalf("created_at = %v, want %v", snap.User.CreatedAt, user.CreatedAt)
	}

	// Overwrites replace, not append.
	if err := store.SaveToken(ctx, "rotated"); err != nil {
		t.Fatalf("SaveToken rotate failed: %v", err)
	}
	if tok, _ := store.LoadToken(ctx); tok != "rotated" {
		t.Fatalf("rotated token = %q", tok)
	}

	// Clear removes both entries and is idempotent.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.LoadToken(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatal("token survived Clear")
	}
	if _, err := store.LoadSnapshot(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatal("snapshot survived Clear")
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
}

func TestMemoryStoreConformance(t *testing.T) {
	runStoreConformance(t, NewMemoryStore())
}

func TestFileStoreConformance(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	runStoreConformance(t, store)
}

func TestRedisStoreConformance(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start failed: %v", err)
	}
	defer mr.Close()

	store, err := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "tp", 0)
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	runStoreConformance(t, store)
}

func TestSnapshotEnvelopeVersioning(t *testing.T) {
	data, err := encodeSnapshot(Snapshot{Token: "abc123"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	snap, err := decodeSnapshot(data)
	if err != nil || snap.Token != "abc123" {
		t.Fatalf("roundtrip = %+v, %v", snap, err)
	}

	if _, err := decodeSnapshot([]byte(`{"v":99,"session":{}}`)); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("unknown version error = %v, want ErrCorrupt", err)
	}
	if _, err := decodeSnapshot([]byte(`not json`)); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("garbage error = %v, want ErrCorrupt", err)
	}
}

func TestSessionClone(t *testing.T) {
	original := Session{
		User:            &User{ID: "u1"},
		Token:           "abc123",
		IsAuthenticated: true,
	}

	clone := original.Clone()
	clone.User.ID = "mutated"

	if original.User.ID != "u1" {
		t.Fatal("clone shares the User pointer")
	}
}
