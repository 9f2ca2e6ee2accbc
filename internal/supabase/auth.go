package supabase

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"welux-admin/internal/backend"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *Client) session(tr tokenResponse) backend.Session {
	s := backend.Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		User:         backend.User{ID: tr.User.ID, Email: tr.User.Email},
	}
	switch {
	case tr.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(tr.ExpiresAt, 0).UTC()
	default:
		if exp, ok := tokenExpiry(tr.AccessToken); ok {
			s.ExpiresAt = exp.UTC()
		} else if tr.ExpiresIn > 0 {
			s.ExpiresAt = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second).UTC()
		}
	}
	return s
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (backend.Session, error) {
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   map[string]string{"email": email, "password": password},
	}, &tr)
	if err != nil {
		return backend.Session{}, err
	}
	if tr.AccessToken == "" {
		return backend.Session{}, &backend.RemoteError{Status: http.StatusBadGateway, Message: "auth response missing access token"}
	}

	s := c.session(tr)
	if err := c.sessions.Save(s); err != nil {
		log.Printf("level=warn msg=\"session persist failed\" err=%v", err)
	}
	c.listeners.Emit(backend.SignedIn, &s)
	return s, nil
}

// SignOut clears the local session even if the remote logout fails.
func (c *Client) SignOut(ctx context.Context) error {
	cur, _ := c.sessions.Load()

	var remoteErr error
	if cur != nil && cur.AccessToken != "" {
		remoteErr = c.do(ctx, request{
			method: http.MethodPost,
			path:   "/auth/v1/logout",
			bearer: cur.AccessToken,
		}, nil)
		var re *backend.RemoteError
		if errors.As(remoteErr, &re) && re.Status == http.StatusUnauthorized {
			remoteErr = nil
		}
	}

	if err := c.sessions.Clear(); err != nil {
		log.Printf("level=warn msg=\"session clear failed\" err=%v", err)
	}
	c.listeners.Emit(backend.SignedOut, nil)
	return remoteErr
}

// GetSession returns the stored session, refreshing it once when the
// access token has expired. Concurrent callers share one refresh.
func (c *Client) GetSession(ctx context.Context) (*backend.Session, error) {
	cur, err := c.sessions.Load()
	if err != nil || cur == nil {
		return nil, err
	}
	if !cur.Expired(c.now()) {
		return cur, nil
	}
	if cur.RefreshToken == "" {
		c.clearIfHolds(cur.RefreshToken)
		return nil, nil
	}

	token := cur.RefreshToken
	ch := c.refreshes.DoChan(token, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx), token)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*backend.Session), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) refresh(ctx context.Context, token string) (*backend.Session, error) {
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": token},
	}, &tr)

	c.storeMu.Lock()
	if err != nil {
		// A refresh that already rotated the token wins over this one.
		if stored, _ := c.sessions.Load(); stored != nil && stored.RefreshToken != token && !stored.Expired(c.now()) {
			c.storeMu.Unlock()
			return stored, nil
		}
		cleared := c.clearLocked(token)
		c.storeMu.Unlock()
		if cleared {
			c.listeners.Emit(backend.SignedOut, nil)
		}
		return nil, err
	}
	s := c.session(tr)
	if err := c.sessions.Save(s); err != nil {
		log.Printf("level=warn msg=\"session persist failed\" err=%v", err)
	}
	c.storeMu.Unlock()

	c.listeners.Emit(backend.TokenRefreshed, &s)
	return &s, nil
}

// clearIfHolds drops the stored session if it still carries refreshToken.
func (c *Client) clearIfHolds(refreshToken string) {
	c.storeMu.Lock()
	c.clearLocked(refreshToken)
	c.storeMu.Unlock()
}

func (c *Client) clearLocked(refreshToken string) bool {
	stored, _ := c.sessions.Load()
	if stored == nil || stored.RefreshToken != refreshToken {
		return false
	}
	if err := c.sessions.Clear(); err != nil {
		log.Printf("level=warn msg=\"session clear failed\" err=%v", err)
	}
	return true
}

func (c *Client) OnAuthStateChange(fn func(backend.AuthEvent, *backend.Session)) func() {
	return c.listeners.Add(fn)
}

// accessToken is the bearer for table calls: the session token when signed
// in, else the anon key.
func (c *Client) accessToken(ctx context.Context) string {
	s, err := c.GetSession(ctx)
	if err != nil || s == nil {
		return ""
	}
	return s.AccessToken
}
