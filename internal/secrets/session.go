package secrets

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"

	"welux-admin/internal/backend"
)

const (
	// "Service" groups the app's secrets in the OS keychain.
	KeyringService = "welux-admin"
)

// KeyringSessionStore keeps the signed-in session in the OS keychain so
// the auth gate can restore it on the next start.
type KeyringSessionStore struct {
	Account string
}

var _ backend.SessionStore = KeyringSessionStore{}

// SessionAccount scopes the stored session to one backend project.
func SessionAccount(backendURL string) string {
	host := backendURL
	if u, err := url.Parse(backendURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("welux:session:%s", strings.ToLower(strings.TrimSpace(host)))
}

func (k KeyringSessionStore) Load() (*backend.Session, error) {
	if strings.TrimSpace(k.Account) == "" {
		return nil, errors.New("keyring account name is empty")
	}
	raw, err := keyring.Get(KeyringService, k.Account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("keyring get: %w", err)
	}

	var s backend.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		// Unreadable entry: behave as signed out.
		_ = keyring.Delete(KeyringService, k.Account)
		return nil, nil
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return nil, nil
	}
	return &s, nil
}

func (k KeyringSessionStore) Save(s backend.Session) error {
	if strings.TrimSpace(k.Account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(s.AccessToken) == "" {
		return errors.New("session has no access token")
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return keyring.Set(KeyringService, k.Account, string(b))
}

func (k KeyringSessionStore) Clear() error {
	if strings.TrimSpace(k.Account) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, k.Account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
