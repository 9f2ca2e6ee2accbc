// Package store is the local sqlite backend. It serves the same tables and
// auth contract as the hosted backend so the engine can run offline and
// tests can exercise real persistence.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"welux-admin/internal/backend"
)

type Store struct {
	db        *DB
	sessions  backend.SessionStore
	listeners backend.Listeners
	secret    []byte
	now       func() time.Time

	// HashCost is the bcrypt cost for new admin passwords.
	HashCost int
	// AccessTTL and RefreshTTL bound local session tokens.
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

var _ backend.Backend = (*Store)(nil)

// New migrates db and returns a backend over it. sessions may be nil.
func New(db *DB, sessions backend.SessionStore) (*Store, error) {
	if db == nil || db.Pool == nil {
		return nil, errors.New("store: nil database")
	}
	if err := Migrate(db.Pool); err != nil {
		return nil, fmt.Errorf("store migrate: %w", err)
	}
	if sessions == nil {
		sessions = backend.NewMemorySessionStore(nil)
	}

	var secret string
	if err := db.Pool.QueryRow(`SELECT value FROM meta WHERE key = 'jwt_secret';`).Scan(&secret); err != nil {
		return nil, fmt.Errorf("store load signing secret: %w", err)
	}

	return &Store{
		db:         db,
		sessions:   sessions,
		secret:     []byte(secret),
		now:        time.Now,
		HashCost:   12,
		AccessTTL:  time.Hour,
		RefreshTTL: 30 * 24 * time.Hour,
	}, nil
}

// SetClock replaces the time source (tests).
func (s *Store) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// EnsureStreamConfig creates the singleton stream row when missing.
func (s *Store) EnsureStreamConfig(ctx context.Context) error {
	_, err := s.db.Pool.ExecContext(ctx, `
INSERT INTO stream_config(id, platform, updated_at)
SELECT 'main', 'youtube', ?
WHERE NOT EXISTS (SELECT 1 FROM stream_config);`, s.timestamp())
	return err
}
