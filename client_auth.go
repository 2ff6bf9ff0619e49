package taskpilot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/taskpilot/taskpilot-go/internal/httpapi"
	"github.com/taskpilot/taskpilot-go/session"
)

const (
	opLogin     = "login"
	opRegister  = "register"
	opCheckAuth = "checkauth"
)

// Login describes the login operation and its observable behavior.
//
// Login exchanges credentials for a bearer token, persists the token, fetches
// the profile with that token explicitly, and only then commits the
// authenticated state in one step. On any failure the in-memory session is
// left as it was before the call (loading flag aside) and the error is
// returned for display.
//
// A second Login while one is in flight is rejected with [ErrAuthInFlight]
// rather than racing the first.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if c == nil || c.api == nil {
		return ErrClientNotReady
	}
	if !c.guard.TryAcquire(opLogin) {
		c.metricInc(MetricAuthRejectedInFlight)
		c.emitEvent(ctx, eventAuthRejected, "", false, ErrAuthInFlight, func() map[string]string {
			return map[string]string{"operation": opLogin}
		})
		return ErrAuthInFlight
	}
	defer c.guard.Release(opLogin)

	return c.login(ctx, email, password)
}

// login runs the full effect sequence without guard handling so Register can
// chain into it while holding its own slot.
func (c *Client) login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		c.metricInc(MetricLoginFailure)
		return fmt.Errorf("%w: empty email or password", ErrInvalidCredentials)
	}

	c.setLoading(true)

	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	start := time.Now()
	var tok tokenResponse
	err := c.api.PostForm(ctx, "/auth/login", form, &tok)
	c.observeLatency(start)
	if err != nil {
		c.setLoading(false)
		mapped := mapCredentialError(err)
		c.metricInc(MetricLoginFailure)
		c.emitEvent(ctx, eventLoginFailure, "", false, mapped, func() map[string]string {
			return map[string]string{"email": email, "stage": "credential_exchange"}
		})
		return mapped
	}

	// Persist before the profile fetch. This write is deliberately not rolled
	// back if the fetch below fails: rehydration via CheckAuth either
	// revalidates the stale entry or clears it.
	if err := c.store.SaveToken(ctx, tok.AccessToken); err != nil {
		c.setLoading(false)
		c.metricInc(MetricLoginFailure)
		c.emitEvent(ctx, eventLoginFailure, "", false, err, func() map[string]string {
			return map[string]string{"email": email, "stage": "persist_token"}
		})
		return fmt.Errorf("persist token: %w", err)
	}

	user, err := c.fetchProfile(ctx, tok.AccessToken)
	if err != nil {
		c.setLoading(false)
		c.metricInc(MetricLoginFailure)
		c.emitEvent(ctx, eventLoginFailure, "", false, err, func() map[string]string {
			return map[string]string{"email": email, "stage": "profile_fetch"}
		})
		return err
	}

	c.mu.Lock()
	c.sess = session.Session{
		User:            user,
		Token:           tok.AccessToken,
		IsAuthenticated: true,
		IsLoading:       false,
	}
	c.lastCheckErr = nil
	c.mu.Unlock()

	// Snapshot write is best-effort and must not fail a completed login.
	if err := c.store.SaveSnapshot(ctx, session.Snapshot{User: user, Token: tok.AccessToken}); err != nil {
		log.Print("taskpilot: session snapshot write failed")
	}

	c.metricInc(MetricLoginSuccess)
	c.emitEvent(ctx, eventLoginSuccess, user.ID, true, nil, nil)
	return nil
}

// Register describes the register operation and its observable behavior.
//
// Register creates the account and then runs the full Login sequence with the
// same credentials, so a successful call always ends in an authenticated
// session. A registration-stage failure clears the loading flag and returns
// the error; a login-stage failure propagates from Login's own failure path.
func (c *Client) Register(ctx context.Context, email, password, name string) error {
	if c == nil || c.api == nil {
		return ErrClientNotReady
	}
	if !c.guard.TryAcquire(opRegister) {
		c.metricInc(MetricAuthRejectedInFlight)
		c.emitEvent(ctx, eventAuthRejected, "", false, ErrAuthInFlight, func() map[string]string {
			return map[string]string{"operation": opRegister}
		})
		return ErrAuthInFlight
	}
	defer c.guard.Release(opRegister)

	if email == "" || password == "" {
		c.metricInc(MetricRegisterFailure)
		return fmt.Errorf("%w: empty email or password", ErrRegistrationInvalid)
	}

	c.setLoading(true)

	start := time.Now()
	var created User
	err := c.api.PostJSON(ctx, "/auth/register", nil, registerRequest{
		Email:    email,
		Password: password,
		Name:     name,
	}, &created)
	c.observeLatency(start)
	if err != nil {
		c.setLoading(false)
		mapped := mapRegistrationError(err)
		c.metricInc(MetricRegisterFailure)
		c.emitEvent(ctx, eventRegisterFailure, "", false, mapped, func() map[string]string {
			return map[string]string{"email": email}
		})
		return mapped
	}

	c.metricInc(MetricRegisterSuccess)
	c.emitEvent(ctx, eventRegisterSuccess, created.ID, true, nil, nil)

	return c.login(ctx, email, password)
}

// Logout describes the logout operation and its observable behavior.
//
// Logout is idempotent and purely local: it removes both durable entries and
// clears the in-memory user and token. No remote call is made and the loading
// flag is untouched. If the storage clear fails the session is left intact
// and the error returned, preserving the memory/storage pairing invariant.
func (c *Client) Logout(ctx context.Context) error {
	if c == nil {
		return ErrClientNotReady
	}

	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session storage: %w", err)
	}

	c.mu.Lock()
	userID := ""
	if c.sess.User != nil {
		userID = c.sess.User.ID
	}
	c.sess.User = nil
	c.sess.Token = ""
	c.sess.IsAuthenticated = false
	c.mu.Unlock()

	c.metricInc(MetricLogout)
	c.emitEvent(ctx, eventLogout, userID, true, nil, nil)
	return nil
}

// CheckAuth describes the checkauth operation and its observable behavior.
//
// CheckAuth rehydrates the session from durable storage, typically once at
// process start. With no persisted token it resets to unauthenticated without
// any remote call. With a token it revalidates against the profile endpoint;
// rejection clears both durable entries and the in-memory state. The failure
// reason is not part of the return value, only the resulting state is; the
// reason is kept readable via [Client.CheckAuthError] and emitted as an
// event.
func (c *Client) CheckAuth(ctx context.Context) bool {
	if c == nil || c.api == nil {
		return false
	}
	if !c.guard.TryAcquire(opCheckAuth) {
		c.metricInc(MetricAuthRejectedInFlight)
		return c.IsAuthenticated()
	}
	defer c.guard.Release(opCheckAuth)

	token, err := c.store.LoadToken(ctx)
	if errors.Is(err, session.ErrNotFound) || (err == nil && token == "") {
		c.resetSession(nil)
		c.metricInc(MetricCheckAuthNoToken)
		return false
	}
	if err != nil {
		c.resetSession(err)
		c.metricInc(MetricCheckAuthFailure)
		c.emitEvent(ctx, eventCheckAuthFailure, "", false, err, func() map[string]string {
			return map[string]string{"stage": "storage_read"}
		})
		return false
	}

	user, err := c.fetchProfile(ctx, token)
	if err != nil {
		if clearErr := c.store.Clear(ctx); clearErr != nil {
			log.Print("taskpilot: failed to clear rejected session from storage")
		}
		c.resetSession(err)
		c.metricInc(MetricCheckAuthFailure)
		c.emitEvent(ctx, eventCheckAuthFailure, "", false, err, func() map[string]string {
			return map[string]string{"stage": "profile_fetch"}
		})
		return false
	}

	c.mu.Lock()
	c.sess.User = user
	c.sess.Token = token
	c.sess.IsAuthenticated = true
	c.lastCheckErr = nil
	c.mu.Unlock()

	c.metricInc(MetricCheckAuthSuccess)
	c.emitEvent(ctx, eventCheckAuthSuccess, user.ID, true, nil, nil)
	return true
}

// CheckAuthError returns the reason the most recent CheckAuth left the
// session unauthenticated, or nil after a success. It exists for diagnosis;
// the public state machine still exposes only the boolean outcome.
func (c *Client) CheckAuthError() error {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastCheckErr
}

// fetchProfile calls the profile endpoint with an explicit bearer token. The
// token dependency is a parameter on purpose: the ambient transport token is
// not consulted, so Login's ordering cannot silently regress.
func (c *Client) fetchProfile(ctx context.Context, token string) (*session.User, error) {
	start := time.Now()
	var user session.User
	err := c.api.GetJSONAuthed(ctx, "/auth/me", token, &user)
	c.observeLatency(start)
	if err != nil {
		return nil, mapProfileError(err)
	}
	return &user, nil
}

func (c *Client) setLoading(loading bool) {
	c.mu.Lock()
	c.sess.IsLoading = loading
	c.mu.Unlock()
}

func (c *Client) resetSession(reason error) {
	c.mu.Lock()
	c.sess.User = nil
	c.sess.Token = ""
	c.sess.IsAuthenticated = false
	c.lastCheckErr = reason
	c.mu.Unlock()
}

func mapCredentialError(err error) error {
	var se *httpapi.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	switch {
	case se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden:
		return wrapDetail(ErrInvalidCredentials, se.Detail)
	case se.StatusCode >= 400 && se.StatusCode < 500:
		return wrapDetail(ErrInvalidCredentials, se.Detail)
	default:
		return wrapDetail(ErrServiceUnavailable, se.Detail)
	}
}

func mapRegistrationError(err error) error {
	var se *httpapi.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	switch {
	case se.StatusCode == http.StatusBadRequest || se.StatusCode == http.StatusConflict:
		return wrapDetail(ErrAccountExists, se.Detail)
	case se.StatusCode >= 400 && se.StatusCode < 500:
		return wrapDetail(ErrRegistrationInvalid, se.Detail)
	default:
		return wrapDetail(ErrServiceUnavailable, se.Detail)
	}
}

func mapProfileError(err error) error {
	var se *httpapi.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	if se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden {
		return wrapDetail(ErrUnauthorized, se.Detail)
	}
	return wrapDetail(ErrServiceUnavailable, se.Detail)
}

func wrapDetail(sentinel error, detail string) error {
	if detail == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, detail)
}
