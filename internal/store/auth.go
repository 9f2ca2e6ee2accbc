package store

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"welux-admin/internal/backend"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

type claims struct {
	Email string `json:"email"`
	Typ   string `json:"typ"`
	jwt.RegisteredClaims
}

func invalidCredentials() error {
	return &backend.RemoteError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_grant",
		Message: "Invalid login credentials",
	}
}

// EnsureAdmin creates the admin account if the email is not registered yet.
func (s *Store) EnsureAdmin(ctx context.Context, email, password string) (created bool, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, fmt.Errorf("admin email and password are required")
	}

	var exists int
	err = s.db.Pool.QueryRowContext(ctx, `SELECT 1 FROM admin_users WHERE email = ? LIMIT 1;`, email).Scan(&exists)
	if err == nil {
		return false, nil
	}
	if !isNoRows(err) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	_, err = s.db.Pool.ExecContext(ctx, `
INSERT INTO admin_users(id, email, password_hash, created_at)
VALUES(?,?,?,?);`, uuid.NewString(), email, string(hash), s.timestamp())
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) SignInWithPassword(ctx context.Context, email, password string) (backend.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var id, hash string
	err := s.db.Pool.QueryRowContext(ctx,
		`SELECT id, password_hash FROM admin_users WHERE email = ? LIMIT 1;`, email,
	).Scan(&id, &hash)
	if isNoRows(err) {
		return backend.Session{}, invalidCredentials()
	}
	if err != nil {
		return backend.Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return backend.Session{}, invalidCredentials()
	}

	sess, err := s.issue(backend.User{ID: id, Email: email})
	if err != nil {
		return backend.Session{}, err
	}
	if err := s.sessions.Save(sess); err != nil {
		log.Printf("level=warn msg=\"session persist failed\" err=%v", err)
	}
	s.listeners.Emit(backend.SignedIn, &sess)
	return sess, nil
}

func (s *Store) SignOut(ctx context.Context) error {
	if err := s.sessions.Clear(); err != nil {
		log.Printf("level=warn msg=\"session clear failed\" err=%v", err)
	}
	s.listeners.Emit(backend.SignedOut, nil)
	return nil
}

// GetSession verifies the stored access token, falling back to the refresh
// token once. Anything unverifiable counts as signed out.
func (s *Store) GetSession(ctx context.Context) (*backend.Session, error) {
	cur, err := s.sessions.Load()
	if err != nil || cur == nil {
		return nil, err
	}
	if _, err := s.verify(cur.AccessToken, tokenAccess); err == nil {
		return cur, nil
	}

	c, err := s.verify(cur.RefreshToken, tokenRefresh)
	if err != nil {
		_ = s.sessions.Clear()
		return nil, nil
	}
	if !s.userExists(ctx, c.Subject) {
		_ = s.sessions.Clear()
		return nil, nil
	}

	sess, err := s.issue(backend.User{ID: c.Subject, Email: c.Email})
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(sess); err != nil {
		log.Printf("level=warn msg=\"session persist failed\" err=%v", err)
	}
	s.listeners.Emit(backend.TokenRefreshed, &sess)
	return &sess, nil
}

func (s *Store) OnAuthStateChange(fn func(backend.AuthEvent, *backend.Session)) func() {
	return s.listeners.Add(fn)
}

func (s *Store) userExists(ctx context.Context, id string) bool {
	var one int
	return s.db.Pool.QueryRowContext(ctx, `SELECT 1 FROM admin_users WHERE id = ? LIMIT 1;`, id).Scan(&one) == nil
}

func (s *Store) issue(u backend.User) (backend.Session, error) {
	now := s.now()
	access, err := s.sign(u, tokenAccess, now, now.Add(s.AccessTTL))
	if err != nil {
		return backend.Session{}, err
	}
	refresh, err := s.sign(u, tokenRefresh, now, now.Add(s.RefreshTTL))
	if err != nil {
		return backend.Session{}, err
	}
	return backend.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(s.AccessTTL).UTC().Truncate(time.Second),
		User:         u,
	}, nil
}

func (s *Store) sign(u backend.User, typ string, iat, exp time.Time) (string, error) {
	c := claims{
		Email: u.Email,
		Typ:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *Store) verify(token, typ string) (*claims, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if c.Typ != typ {
		return nil, fmt.Errorf("token type %q, want %q", c.Typ, typ)
	}
	return c, nil
}
