package taskpilot

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// ClientEvent is one observable lifecycle event: an auth transition, a task
// mutation, or a swallowed rehydration failure. Error carries the reason for
// failures whose public contract only exposes resulting state (CheckAuth).
type ClientEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	UserID    string            `json:"user_id,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// EventSink receives client events from the async dispatcher.
type EventSink interface {
	Emit(ctx context.Context, event ClientEvent)
}

// NoOpSink discards all events.
type NoOpSink struct{}

// Emit implements EventSink.
func (NoOpSink) Emit(context.Context, ClientEvent) {}

// ChannelSink forwards events to a buffered channel for consumption by the
// caller's own loop.
type ChannelSink struct {
	events chan ClientEvent
}

// NewChannelSink describes the newchannelsink operation and its observable behavior.
//
// NewChannelSink clamps buffer to at least one slot.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan ClientEvent, buffer),
	}
}

// Emit implements EventSink. It blocks until the channel accepts the event
// or ctx is cancelled.
func (s *ChannelSink) Emit(ctx context.Context, event ClientEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the receiving side of the sink.
func (s *ChannelSink) Events() <-chan ClientEvent {
	return s.events
}

// JSONWriterSink writes one JSON line per event, suitable for log shipping.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink describes the newjsonwritersink operation and its observable behavior.
//
// NewJSONWriterSink does not take ownership of w; closing it is the caller's job.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit implements EventSink. Marshal failures are dropped silently; an event
// sink must never fail the operation that produced the event.
func (s *JSONWriterSink) Emit(_ context.Context, event ClientEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

const (
	eventLoginSuccess     = "login_success"
	eventLoginFailure     = "login_failure"
	eventRegisterSuccess  = "register_success"
	eventRegisterFailure  = "register_failure"
	eventLogout           = "logout"
	eventCheckAuthSuccess = "checkauth_success"
	eventCheckAuthFailure = "checkauth_failure"
	eventAuthRejected     = "auth_rejected_in_flight"
	eventTaskCreated      = "task_created"
	eventTaskDeleted      = "task_deleted"
	eventChatMessage      = "chat_message"
)
