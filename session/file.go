package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore defines a public type used by taskpilot APIs.
//
// FileStore persists session entries as a single JSON file with 0600
// permissions, typically under the user's config directory. Writes go through
// a temp file and rename so a crash never leaves a half-written session.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileEntries struct {
	Token    *string         `json:"token,omitempty"`
	Snapshot json.RawMessage `json:"snapshot,omitempty"`
}

// NewFileStore describes the newfilestore operation and its observable behavior.
//
// NewFileStore validates the path but performs no I/O until the first read or
// write; parent directories are created lazily on write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path required")
	}
	return &FileStore{path: path}, nil
}

// DefaultFilePath returns the conventional session file location under the
// user's config directory, e.g. ~/.config/taskpilot/session.json on Linux.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "taskpilot", "session.json"), nil
}

// SaveToken describes the savetoken operation and its observable behavior.
//
// SaveToken may return an error when the session file cannot be written.
func (f *FileStore) SaveToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return err
	}
	entries.Token = &token
	return f.write(entries)
}

// LoadToken describes the loadtoken operation and its observable behavior.
//
// LoadToken returns [ErrNotFound] when no token is persisted.
func (f *FileStore) LoadToken(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return "", err
	}
	if entries.Token == nil {
		return "", ErrNotFound
	}
	return *entries.Token, nil
}

// SaveSnapshot describes the savesnapshot operation and its observable behavior.
//
// SaveSnapshot may return an error when the session file cannot be written.
func (f *FileStore) SaveSnapshot(_ context.Context, snap Snapshot) error {
	data, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return err
	}
	entries.Snapshot = data
	return f.write(entries)
}

// LoadSnapshot describes the loadsnapshot operation and its observable behavior.
//
// LoadSnapshot returns [ErrNotFound] when no snapshot is persisted and
// [ErrCorrupt] when the persisted bytes cannot be decoded.
func (f *FileStore) LoadSnapshot(_ context.Context) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.read()
	if err != nil {
		return Snapshot{}, err
	}
	if entries.Snapshot == nil {
		return Snapshot{}, ErrNotFound
	}
	return decodeSnapshot(entries.Snapshot)
}

// Clear describes the clear operation and its observable behavior.
//
// Clear removes the session file entirely and is idempotent.
func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session file: %w", err)
	}
	return nil
}

func (f *FileStore) read() (fileEntries, error) {
	var entries fileEntries
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entries, nil
		}
		return entries, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return fileEntries{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return entries, nil
}

func (f *FileStore) write(entries fileEntries) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
