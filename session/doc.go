// Package session holds the client-local session model and its durable
// storage backends.
//
// A [Session] is the in-memory record of the currently authenticated user.
// The durable side is split into two entries, mirroring what the client
// persists: the raw bearer token under one key and a serialized
// [Snapshot] of {user, token} under another, used for fast rehydration on
// startup. [Store.Clear] removes both.
//
// Only the taskpilot Client writes to a Store; backends must not be shared
// with other writers under the same key prefix.
package session
