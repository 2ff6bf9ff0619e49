// Package taskpilot provides a Go client for the TaskPilot task-management API:
// authenticated sessions with durable recovery across process restarts, task
// CRUD with filtering and statistics, chat-based task creation, and AI message
// analysis.
//
// The package is designed for long-lived client processes: Client methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// taskpilot is the public surface. It exposes [Client], [Builder], [Config],
// and value types (Task, TaskStats, ChatResponse, etc.). All internal
// coordination — HTTP transport, single-flight guarding, event dispatch —
// lives under internal/ and is never exported. Durable session storage
// backends live in the session sub-package.
//
// # What this package must NOT do
//
//   - Verify credentials or tokens locally. All verification is delegated to
//     the remote auth service; [Client.TokenInfo] only inspects claims.
//   - Expose HTTP wire details, storage encodings, or the guard in its public
//     API.
//   - Perform I/O outside of Client methods (construction via Builder only
//     reads the persisted session snapshot).
//
// # Session contract
//
// The client is the single writer of its durable session entries. A session
// reports IsAuthenticated only while both a user profile and a bearer token
// are held; rehydration after a restart requires an explicit
// [Client.CheckAuth] round-trip.
package taskpilot
