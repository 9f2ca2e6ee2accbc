package secrets

import (
	"testing"
	"time"

	"github.com/zalando/go-keyring"

	"welux-admin/internal/backend"
)

func TestSessionAccount(t *testing.T) {
	got := SessionAccount("https://Proj.supabase.co/")
	if got != "welux:session:proj.supabase.co" {
		t.Fatalf("account = %q", got)
	}
	if got := SessionAccount("local"); got != "welux:session:local" {
		t.Fatalf("account = %q", got)
	}
}

func TestKeyringSessionStoreRoundTrip(t *testing.T) {
	keyring.MockInit()
	st := KeyringSessionStore{Account: SessionAccount("https://proj.supabase.co")}

	if s, err := st.Load(); s != nil || err != nil {
		t.Fatalf("empty load = %v, %v", s, err)
	}

	want := backend.Session{
		AccessToken:  "a",
		RefreshToken: "r",
		ExpiresAt:    time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		User:         backend.User{ID: "u1", Email: "admin@welux.com"},
	}
	if err := st.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Load()
	if err != nil || got == nil {
		t.Fatalf("Load = %v, %v", got, err)
	}
	if got.RefreshToken != "r" || !got.ExpiresAt.Equal(want.ExpiresAt) || got.User.Email != want.User.Email {
		t.Fatalf("loaded = %+v", got)
	}

	if err := st.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if s, _ := st.Load(); s != nil {
		t.Fatal("expected nothing after Clear")
	}
}

func TestKeyringSessionStoreRejectsEmpty(t *testing.T) {
	keyring.MockInit()
	if err := (KeyringSessionStore{}).Save(backend.Session{AccessToken: "a"}); err == nil {
		t.Fatal("expected error for empty account")
	}
	if err := (KeyringSessionStore{Account: "x"}).Save(backend.Session{}); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestTelegramTokenRoundTrip(t *testing.T) {
	keyring.MockInit()
	if _, err := GetTelegramToken(); err == nil {
		t.Fatal("expected missing token error")
	}
	if err := SetTelegramToken("  "); err == nil {
		t.Fatal("blank token should be rejected")
	}
	if err := SetTelegramToken(" 123:abc "); err != nil {
		t.Fatal(err)
	}
	if tok, err := GetTelegramToken(); err != nil || tok != "123:abc" {
		t.Fatalf("token = %q, %v", tok, err)
	}
	if err := DeleteTelegramToken(); err != nil {
		t.Fatal(err)
	}
	if err := DeleteTelegramToken(); err != nil {
		t.Fatalf("second delete = %v", err)
	}
}
