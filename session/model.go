package session

import "time"

// User defines a public type used by taskpilot APIs.
//
// User instances are returned by the remote profile endpoint and are treated
// as immutable once stored in a session.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Session defines a public type used by taskpilot APIs.
//
// Session is a point-in-time copy of the client's auth state. Readers get a
// snapshot; mutations happen only through Client operations.
type Session struct {
	User            *User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
}

// Snapshot is the persisted subset of a session: the user profile and token
// pair written to durable storage for rehydration. The authenticated and
// loading flags are never persisted; they reset on every process start.
type Snapshot struct {
	User  *User  `json:"user,omitempty"`
	Token string `json:"token,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate stored state through
// the shared User pointer.
func (s Session) Clone() Session {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
