// Package backend defines the contract between the admin screens and the
// remote data/auth service. Two implementations exist: the Supabase client
// and the local sqlite store.
package backend

import (
	"context"
	"time"
)

type AuthEvent string

const (
	SignedIn       AuthEvent = "SIGNED_IN"
	SignedOut      AuthEvent = "SIGNED_OUT"
	TokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the authenticated-user state returned by the auth service.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Auth interface {
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context) error
	// GetSession returns nil, nil when nobody is signed in.
	GetSession(ctx context.Context) (*Session, error)
	OnAuthStateChange(fn func(AuthEvent, *Session)) (unsubscribe func())
}

// Order is the column ordering of a select-all.
type Order struct {
	Column    string
	Ascending bool
}

// NewestFirst is the ordering every list screen uses.
var NewestFirst = Order{Column: "created_at"}

// Tables is row access against named tables. dest arguments are pointers
// that receive the JSON-shaped rows (a slice for SelectAll, a struct
// otherwise). dest may be nil on writes.
type Tables interface {
	SelectAll(ctx context.Context, table string, order Order, dest any) error
	SelectByID(ctx context.Context, table, id string, dest any) error
	Insert(ctx context.Context, table string, row any, dest any) error
	Update(ctx context.Context, table, id string, fields map[string]any, dest any) error
	Delete(ctx context.Context, table, id string) error
}

type Backend interface {
	Auth
	Tables
}
