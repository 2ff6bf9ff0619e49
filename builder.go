package taskpilot

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/taskpilot/taskpilot-go/internal/guard"
	"github.com/taskpilot/taskpilot-go/internal/httpapi"
	"github.com/taskpilot/taskpilot-go/session"
)

// Builder defines a public type used by taskpilot APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	store      session.Store
	redis      redis.UniversalClient
	httpClient *http.Client
	eventSink  EventSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL describes the withbaseurl operation and its observable behavior.
//
// WithBaseURL does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
//
// WithHTTPClient replaces the default transport; the supplied client's
// Transport is still wrapped by the bearer/request-id interceptor at Build.
func (b *Builder) WithHTTPClient(hc *http.Client) *Builder {
	b.httpClient = hc
	return b
}

// WithSessionStore describes the withsessionstore operation and its observable behavior.
//
// WithSessionStore selects the durable backend holding the session token and
// snapshot. Exactly one of WithSessionStore or WithRedis must be used.
func (b *Builder) WithSessionStore(store session.Store) *Builder {
	b.store = store
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis is a convenience that builds a redis-backed session store from
// Config.Session at Build time.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithEventSink describes the witheventsink operation and its observable behavior.
//
// WithEventSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.eventSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build validates the configuration, wires the transport, and reads the
// persisted session snapshot. The authenticated and loading flags always
// start false; call [Client.CheckAuth] to re-establish a previous session.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := b.store
	if store == nil && b.redis != nil {
		rs, err := session.NewRedisStore(b.redis, cfg.Session.RedisPrefix, cfg.Session.TTL)
		if err != nil {
			return nil, err
		}
		store = rs
	}
	if store == nil {
		return nil, errors.New("session store required")
	}

	c := &Client{
		config:  cfg,
		store:   store,
		guard:   guard.New(),
		metrics: NewMetrics(cfg.Metrics),
		events:  newEventDispatcher(cfg.Events, b.eventSink),
	}

	hc := b.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.API.Timeout}
	}
	base := hc.Transport
	wrapped := *hc
	wrapped.Transport = httpapi.NewTransport(base, c.currentToken)

	api, err := httpapi.New(cfg.API.BaseURL, &wrapped)
	if err != nil {
		return nil, err
	}
	c.api = api

	// Rehydrate the persisted {user, token} pair. Absence is normal on first
	// run; a corrupt snapshot is noted and treated as absent.
	snap, err := store.LoadSnapshot(context.Background())
	switch {
	case err == nil:
		c.sess.User = snap.User
		c.sess.Token = snap.Token
	case errors.Is(err, session.ErrNotFound):
	default:
		log.Print("taskpilot: session snapshot unreadable, starting unauthenticated")
	}

	b.built = true
	return c, nil
}
