// Package supabase is the thin client for the hosted backend: GoTrue for
// auth and PostgREST for table access.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"welux-admin/internal/backend"
	"welux-admin/internal/util"
)

type Client struct {
	BaseURL    string
	AnonKey    string
	HTTPClient *http.Client
	Limiter    *util.HostLimiter

	sessions  backend.SessionStore
	listeners backend.Listeners
	now       func() time.Time

	// refreshes shares one token refresh between concurrent callers,
	// keyed by the refresh token. storeMu orders the writes that follow.
	refreshes singleflight.Group
	storeMu   sync.Mutex
}

var _ backend.Backend = (*Client)(nil)

type Option func(*Client)

func New(baseURL, anonKey string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AnonKey:    anonKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		sessions:   backend.NewMemorySessionStore(nil),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

func WithLimiter(l *util.HostLimiter) Option {
	return func(c *Client) { c.Limiter = l }
}

// WithSessionStore sets where the signed-in session is persisted.
func WithSessionStore(s backend.SessionStore) Option {
	return func(c *Client) {
		if s != nil {
			c.sessions = s
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	bearer string
	prefer string
}

func (c *Client) do(ctx context.Context, r request, dest any) error {
	u := c.BaseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	if err := c.Limiter.WaitURL(ctx, u); err != nil {
		return err
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", r.path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.AnonKey)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	bearer := r.bearer
	if bearer == "" {
		bearer = c.AnonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return decodeError(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s response: %w", r.path, err)
	}
	return nil
}
