package taskpilot

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo defines a public type used by taskpilot APIs.
//
// TokenInfo is the decoded, UNVERIFIED view of a bearer token's claims. It
// exists for display and scheduling (e.g. showing session expiry on a
// profile view); authorization decisions always go through the remote
// service.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token's exp claim lies in the past. A token
// without an exp claim never reports expired.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && t.ExpiresAt.Before(now)
}

// InspectToken describes the inspecttoken operation and its observable behavior.
//
// InspectToken decodes the claims without checking the signature; the signing
// key lives on the server only. Returns [ErrTokenInvalid] for malformed
// tokens.
func InspectToken(token string) (TokenInfo, error) {
	if token == "" {
		return TokenInfo{}, fmt.Errorf("%w: empty token", ErrTokenInvalid)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	info := TokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}

// TokenInfo returns the decoded claims of the currently held session token,
// or [ErrNoSession] when none is held.
func (c *Client) TokenInfo() (TokenInfo, error) {
	if c == nil {
		return TokenInfo{}, ErrClientNotReady
	}
	token := c.currentToken()
	if token == "" {
		return TokenInfo{}, ErrNoSession
	}
	return InspectToken(token)
}
