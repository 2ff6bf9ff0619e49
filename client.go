package taskpilot

import (
	"context"
	"sync"
	"time"

	"github.com/taskpilot/taskpilot-go/internal/guard"
	"github.com/taskpilot/taskpilot-go/internal/httpapi"
	"github.com/taskpilot/taskpilot-go/session"
)

// Client defines a public type used by taskpilot APIs.
//
// Client is the single source of truth for "who is logged in" within one
// process. It owns the in-memory session and is the only writer of the
// durable session entries. Construct it through [Builder.Build]; after that
// all methods are safe for concurrent use.
type Client struct {
	config  Config
	api     *httpapi.Client
	store   session.Store
	guard   *guard.Guard
	metrics *Metrics
	events  *eventDispatcher

	mu           sync.RWMutex
	sess         session.Session
	lastCheckErr error
}

// Close describes the close operation and its observable behavior.
//
// Close flushes and stops the event dispatcher. The client must not be used
// after Close.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.events != nil {
		c.events.Close()
	}
}

// Session returns a point-in-time copy of the auth state. Mutating the copy
// has no effect on the client.
func (c *Client) Session() session.Session {
	if c == nil {
		return session.Session{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sess.Clone()
}

// IsAuthenticated describes the isauthenticated operation and its observable behavior.
//
// IsAuthenticated does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) IsAuthenticated() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sess.IsAuthenticated
}

// CurrentUser returns the held profile, or nil when unauthenticated or not
// yet rehydrated.
func (c *Client) CurrentUser() *User {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sess.User == nil {
		return nil
	}
	u := *c.sess.User
	return &u
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// EventsDropped describes the eventsdropped operation and its observable behavior.
//
// EventsDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) EventsDropped() uint64 {
	if c == nil || c.events == nil {
		return 0
	}
	return c.events.Dropped()
}

// currentToken feeds the transport interceptor. Task, chat, and AI calls
// authenticate with whatever token the session currently holds.
func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sess.Token
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

func (c *Client) observeLatency(start time.Time) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Observe(MetricRequestLatency, time.Since(start))
}

func (c *Client) emitEvent(ctx context.Context, eventType, userID string, success bool, opErr error, metadata func() map[string]string) {
	if c == nil || c.events == nil {
		return
	}
	event := ClientEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		UserID:    userID,
		Success:   success,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}
	c.events.Emit(ctx, event)
}
