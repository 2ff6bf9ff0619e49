package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Store reads when no entry exists.
var ErrNotFound = errors.New("session entry not found")

// ErrCorrupt is returned when a persisted snapshot cannot be decoded.
var ErrCorrupt = errors.New("session snapshot corrupt")

// Store defines a public type used by taskpilot APIs.
//
// Store is the durable side of a session: a small key-value surface holding
// the raw bearer token and the serialized {user, token} snapshot. All methods
// take a context because backends may be remote (see [NewRedisStore]).
// Implementations must be safe for concurrent use.
type Store interface {
	SaveToken(ctx context.Context, token string) error
	LoadToken(ctx context.Context) (string, error)
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	LoadSnapshot(ctx context.Context) (Snapshot, error)
	// Clear removes both the token and the snapshot. It is idempotent.
	Clear(ctx context.Context) error
}

const snapshotSchemaVersion = 1

type snapshotEnvelope struct {
	Version  int      `json:"v"`
	Snapshot Snapshot `json:"session"`
}

func encodeSnapshot(snap Snapshot) ([]byte, error) {
	return json.Marshal(snapshotEnvelope{
		Version:  snapshotSchemaVersion,
		Snapshot: snap,
	})
}

func decodeSnapshot(data []byte) (Snapshot, error) {
	var env snapshotEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.Version != snapshotSchemaVersion {
		return Snapshot{}, fmt.Errorf("%w: unknown schema version %d", ErrCorrupt, env.Version)
	}
	return env.Snapshot, nil
}
