package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestNewFileStoreRequiresPath(t *testing.T) {
	if _, err := NewFileStore(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestFileStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}

	path := filepath.Join(t.TempDir(), "taskpilot", "session.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if err := store.SaveToken(context.Background(), "abc123"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("file mode = %o, want 600", perm)
	}

	dirInfo, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("stat session dir: %v", err)
	}
	if perm := dirInfo.Mode().Perm(); perm != 0o700 {
		t.Fatalf("dir mode = %o, want 700", perm)
	}
}

func TestFileStoreTokenAndSnapshotIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	ctx := context.Background()
	if err := store.SaveToken(ctx, "abc123"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}
	if err := store.SaveSnapshot(ctx, Snapshot{Token: "abc123", User: &User{ID: "u1"}}); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	// Writing one entry must not clobber the other.
	if tok, err := store.LoadToken(ctx); err != nil || tok != "abc123" {
		t.Fatalf("LoadToken = %q, %v", tok, err)
	}
	if snap, err := store.LoadSnapshot(ctx); err != nil || snap.User == nil {
		t.Fatalf("LoadSnapshot = %+v, %v", snap, err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	if _, err := store.LoadToken(context.Background()); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("error = %v, want ErrCorrupt", err)
	}
}

func TestFileStoreClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	ctx := context.Background()
	if err := store.SaveToken(ctx, "abc123"); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("session file should be gone after Clear")
	}
}

func TestDefaultFilePath(t *testing.T) {
	path, err := DefaultFilePath()
	if err != nil {
		t.Skipf("no user config dir in this environment: %v", err)
	}
	if !strings.HasSuffix(path, filepath.Join("taskpilot", "session.json")) {
		t.Fatalf("path = %q", path)
	}
}
