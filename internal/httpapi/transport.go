package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type requestIDContextKey struct{}

// ContextWithRequestID attaches a caller-chosen request ID, overriding the
// generated uuid for that request.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}

// TokenSource yields the bearer token to attach to outgoing requests, or ""
// when no session is held. It is read per request, so token rotation between
// calls is picked up without rebuilding the transport.
type TokenSource func() string

// Transport is the cross-cutting request interceptor: it injects the
// Authorization header from a TokenSource and stamps each request with an
// X-Request-ID. Requests that already carry either header are left alone,
// which is how explicit-token calls (the profile fetch during login) bypass
// the ambient session token.
type Transport struct {
	Base    http.RoundTripper
	Token   TokenSource
	Request RequestIDSource
}

// RequestIDSource yields the request ID for an outgoing call. The default
// generates a fresh uuid per request.
type RequestIDSource func(r *http.Request) string

// NewTransport wraps base with token and request-id injection. A nil base
// falls back to http.DefaultTransport.
func NewTransport(base http.RoundTripper, token TokenSource) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, Token: token}
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// mutation, per the RoundTripper contract.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	clone := r.Clone(r.Context())

	if clone.Header.Get("Authorization") == "" && t.Token != nil {
		if tok := t.Token(); tok != "" {
			clone.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	if clone.Header.Get("X-Request-ID") == "" {
		id := requestIDFromContext(clone.Context())
		if id == "" && t.Request != nil {
			id = t.Request(clone)
		}
		if id == "" {
			id = uuid.NewString()
		}
		clone.Header.Set("X-Request-ID", id)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// BearerHeader formats a token for explicit Authorization headers.
func BearerHeader(token string) string {
	return "Bearer " + token
}
