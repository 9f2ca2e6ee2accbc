package screens

import (
	"context"
	"strings"
	"sync"

	"welux-admin/internal/backend"
	"welux-admin/internal/domain"
	"welux-admin/internal/nav"
)

// Login is the sign-in form.
type Login struct {
	auth backend.Auth
	nav  nav.Navigator

	mu    sync.Mutex
	busy  bool
	alert *Alert
}

func NewLogin(auth backend.Auth, n nav.Navigator) *Login {
	return &Login{auth: auth, nav: n}
}

func (l *Login) Submit(ctx context.Context, email, password string) (backend.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		err := &domain.ValidationError{
			Title:  "Input required",
			Fields: missingCredentials(email, password),
			Msg:    "Please enter email and password",
		}
		l.setAlert(alertFor("Input required", err))
		return backend.Session{}, err
	}

	l.mu.Lock()
	l.busy = true
	l.mu.Unlock()

	sess, err := l.auth.SignInWithPassword(ctx, email, password)

	l.mu.Lock()
	l.busy = false
	l.mu.Unlock()
	if err != nil {
		l.setAlert(&Alert{Title: "Login Failed", Message: backend.Message(err)})
		return backend.Session{}, err
	}
	l.setAlert(nil)
	l.nav.Reset(nav.Route{Name: nav.MainTabs})
	return sess, nil
}

func missingCredentials(email, password string) []string {
	var f []string
	if email == "" {
		f = append(f, "email")
	}
	if password == "" {
		f = append(f, "password")
	}
	return f
}

func (l *Login) setAlert(a *Alert) {
	l.mu.Lock()
	l.alert = a
	l.mu.Unlock()
}

func (l *Login) Alert() *Alert {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.alert
}

func (l *Login) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy
}

// Settings holds the sign-out action.
type Settings struct {
	auth backend.Auth
	nav  nav.Navigator
}

func NewSettings(auth backend.Auth, n nav.Navigator) *Settings {
	return &Settings{auth: auth, nav: n}
}

// Logout signs out and returns to the login screen. The local session is
// dropped even when the server call fails.
func (s *Settings) Logout(ctx context.Context) error {
	err := s.auth.SignOut(ctx)
	s.nav.Reset(nav.Route{Name: nav.Login})
	return err
}
