// Package session holds the auth gate: the single owner of the current
// session, and the component that decides which navigation stack mounts.
package session

import (
	"context"
	"log"
	"sync"

	"welux-admin/internal/backend"
	"welux-admin/internal/events"
)

type Stack string

const (
	StackLoading Stack = "loading"
	StackLogin   Stack = "login"
	StackTabs    Stack = "tabs"
)

type Gate struct {
	auth backend.Auth
	hub  *events.Hub

	mu      sync.RWMutex
	session *backend.Session
	loading bool
	// notified is set once a change notification has been applied; the
	// initial lookup never overwrites it.
	notified bool
	unsub    func()
}

func NewGate(auth backend.Auth, hub *events.Hub) *Gate {
	return &Gate{auth: auth, hub: hub, loading: true}
}

// Init resolves the initial session once and subscribes to later changes.
// A failed lookup counts as signed out; there is no retry.
// Subscribing comes first so no change is missed while the lookup is out.
func (g *Gate) Init(ctx context.Context) {
	unsub := g.auth.OnAuthStateChange(g.onChange)
	g.mu.Lock()
	g.unsub = unsub
	g.mu.Unlock()

	s, err := g.auth.GetSession(ctx)
	if err != nil {
		log.Printf("level=warn msg=\"session check failed\" err=%v", err)
		s = nil
	}

	g.mu.Lock()
	if !g.notified {
		g.session = s
	}
	g.loading = false
	g.mu.Unlock()

	log.Printf("level=info msg=\"auth gate ready\" stack=%s", g.Stack())
}

func (g *Gate) onChange(evt backend.AuthEvent, s *backend.Session) {
	var cp *backend.Session
	if s != nil && evt != backend.SignedOut {
		c := *s
		cp = &c
	}

	g.mu.Lock()
	g.session = cp
	g.notified = true
	g.mu.Unlock()

	email := ""
	if cp != nil {
		email = cp.User.Email
	}
	g.hub.Emit("", events.TypeAuthChanged, map[string]any{
		"event": string(evt),
		"stack": g.Stack(),
		"email": email,
	})
}

func (g *Gate) Loading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading
}

// Session returns a copy of the current session, or nil.
func (g *Gate) Session() *backend.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return nil
	}
	cp := *g.session
	return &cp
}

func (g *Gate) UserID() string {
	if s := g.Session(); s != nil {
		return s.User.ID
	}
	return ""
}

func (g *Gate) Stack() Stack {
	g.mu.RLock()
	defer g.mu.RUnlock()
	switch {
	case g.loading:
		return StackLoading
	case g.session != nil:
		return StackTabs
	default:
		return StackLogin
	}
}

func (g *Gate) Close() {
	g.mu.Lock()
	unsub := g.unsub
	g.unsub = nil
	g.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
