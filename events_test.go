package taskpilot

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/taskpilot/taskpilot-go/session"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, ClientEvent) {
	s.count.Add(1)
}

type gateSink struct {
	gate chan struct{}
}

func newGateSink() *gateSink {
	return &gateSink{gate: make(chan struct{})}
}

func (s *gateSink) Emit(context.Context, ClientEvent) {
	<-s.gate
}

func TestDispatcherDisabledReturnsNil(t *testing.T) {
	if d := newEventDispatcher(EventsConfig{Enabled: false}, &countingSink{}); d != nil {
		t.Fatal("disabled config must yield a nil dispatcher")
	}

	// Nil dispatcher methods are all no-ops.
	var d *eventDispatcher
	d.Emit(context.Background(), ClientEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher dropped counter")
	}
}

func TestDispatcherDeliversAndDrainsOnClose(t *testing.T) {
	sink := &countingSink{}
	d := newEventDispatcher(EventsConfig{Enabled: true, BufferSize: 16}, sink)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		d.Emit(ctx, ClientEvent{EventType: eventLoginSuccess})
	}
	d.Close()

	if got := sink.count.Load(); got != 10 {
		t.Fatalf("delivered = %d, want 10", got)
	}
	if d.Dropped() != 0 {
		t.Fatalf("dropped = %d, want 0", d.Dropped())
	}
}

func TestDispatcherDropIfFull(t *testing.T) {
	sink := newGateSink()
	d := newEventDispatcher(EventsConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	ctx := context.Background()
	// First event occupies the worker, second fills the buffer; everything
	// after that must be counted as dropped, never blocked on.
	d.Emit(ctx, ClientEvent{EventType: eventLoginSuccess})
	deadline := time.After(2 * time.Second)
	for {
		d.Emit(ctx, ClientEvent{EventType: eventLoginSuccess})
		if d.Dropped() > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("dispatcher never reported a drop")
		case <-time.After(time.Millisecond):
		}
	}

	close(sink.gate)
	d.Close()
}

func TestDispatcherEmitAfterClose(t *testing.T) {
	sink := &countingSink{}
	d := newEventDispatcher(EventsConfig{Enabled: true, BufferSize: 4}, sink)
	d.Close()

	d.Emit(context.Background(), ClientEvent{EventType: eventLogout})

	if got := sink.count.Load(); got != 0 {
		t.Fatalf("delivered after close = %d, want 0", got)
	}
}

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(4)

	event := ClientEvent{EventType: eventTaskCreated, UserID: "u1", Success: true}
	sink.Emit(context.Background(), event)

	select {
	case got := <-sink.Events():
		if got.EventType != eventTaskCreated || got.UserID != "u1" {
			t.Fatalf("unexpected event %+v", got)
		}
	default:
		t.Fatal("event not delivered to channel")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), ClientEvent{
		EventType: eventCheckAuthFailure,
		Success:   false,
		Error:     "unauthorized",
		Metadata:  map[string]string{"stage": "profile_fetch"},
	})

	line := strings.TrimSpace(buf.String())
	var decoded ClientEvent
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("output is not one JSON line: %v", err)
	}
	if decoded.EventType != eventCheckAuthFailure || decoded.Error != "unauthorized" {
		t.Fatalf("unexpected event %+v", decoded)
	}
	if decoded.Metadata["stage"] != "profile_fetch" {
		t.Fatalf("metadata = %+v", decoded.Metadata)
	}
}

func TestClientEmitsLifecycleEvents(t *testing.T) {
	api := newFakeAPI()
	sink := NewChannelSink(16)

	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	client, err := New().
		WithBaseURL(srv.URL).
		WithSessionStore(session.NewMemoryStore()).
		WithEventSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx := context.Background()
	if err := client.Login(ctx, "alice@example.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	client.Close()

	types := map[string]int{}
	for {
		select {
		case e := <-sink.Events():
			types[e.EventType]++
		default:
			if types[eventLoginSuccess] != 1 || types[eventLogout] != 1 {
				t.Fatalf("event types = %+v", types)
			}
			return
		}
	}
}
