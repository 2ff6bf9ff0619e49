// Package httpapi is the thin REST layer under the public client. It owns
// URL building, request encoding, response decoding, and translation of
// error bodies into StatusError values. Nothing here knows about sessions.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// StatusError carries a non-2xx response: the HTTP status code and the
// detail message supplied by the service, when one was present.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
}

// Client issues requests against a fixed base URL. It is safe for concurrent
// use when its http.Client is.
type Client struct {
	base *url.URL
	hc   *http.Client
}

// New validates the base URL and wraps the given http.Client. The caller
// owns transport concerns (timeouts, interceptors).
func New(baseURL string, hc *http.Client) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("base url required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{base: u, hc: hc}, nil
}

// GetJSON issues a GET with optional query parameters and decodes the JSON
// response into out. A nil out discards the body.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, "", nil, out)
}

// GetJSONAuthed issues a GET carrying an explicit bearer token. The ambient
// transport leaves a pre-set Authorization header untouched, so this bypasses
// whatever session token the transport would otherwise inject.
func (c *Client) GetJSONAuthed(ctx context.Context, path, token string, out any) error {
	return c.doWithAuth(ctx, http.MethodGet, path, nil, "", nil, token, out)
}

// PostJSON issues a POST with a JSON body. in may be nil for bodyless posts.
func (c *Client) PostJSON(ctx context.Context, path string, query url.Values, in, out any) error {
	body, contentType, err := jsonBody(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, query, contentType, body, out)
}

// PostForm issues a POST with a form-encoded body. The auth service's
// credential exchange uses this shape rather than JSON.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, out any) error {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, http.MethodPost, path, nil, "application/x-www-form-urlencoded", body, out)
}

// PutJSON issues a PUT with a JSON body.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	body, contentType, err := jsonBody(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, nil, contentType, body, out)
}

// Delete issues a DELETE and discards any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil, nil)
}

func jsonBody(in any) (io.Reader, string, error) {
	if in == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	return c.doWithAuth(ctx, method, path, query, contentType, body, "", out)
}

func (c *Client) doWithAuth(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, token string, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", BearerHeader(token))
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// errorBody matches the service's error envelope: {"detail": "..."}.
// detail may also arrive as a structured validation list; anything non-string
// is flattened to its JSON text.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func decodeError(resp *http.Response) error {
	se := &StatusError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(data) == 0 {
		return se
	}

	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil || len(eb.Detail) == 0 {
		return se
	}

	var detail string
	if err := json.Unmarshal(eb.Detail, &detail); err != nil {
		detail = string(eb.Detail)
	}
	se.Detail = detail
	return se
}
