package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validSupabase() Config {
	c := Defaults()
	c.Backend.URL = "https://abc.supabase.co/"
	c.Backend.AnonKey = "anon"
	return c
}

func TestEnsureUserConfigWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	p, err := EnsureUserConfig(dir, filepath.Join(dir, "missing.yml"))
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 38471 || cfg.Backend.Driver != DriverSupabase || cfg.Watch.Seconds != 60 {
		t.Fatalf("defaults not written: %+v", cfg)
	}

	// An existing file is left alone.
	if err := os.WriteFile(p, []byte("app:\n  port: 4000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := EnsureUserConfig(dir, ""); err != nil {
		t.Fatal(err)
	}
	cfg, _ = Load(p)
	if cfg.App.Port != 4000 || cfg.Dashboard.Days != 7 {
		t.Fatalf("partial file should overlay defaults: %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvBackend:       "local",
		EnvSupabaseURL:   "https://x.supabase.co",
		EnvTelegramToken: "123:abc",
		EnvTelegramChat:  "-100200",
		EnvAdminPassword: "pw",
		EnvPort:          "notanumber",
	}
	cfg := Defaults()
	ApplyEnv(&cfg, func(k string) string { return env[k] })

	if cfg.Backend.Driver != "local" || cfg.Backend.URL != "https://x.supabase.co" {
		t.Fatalf("backend = %+v", cfg.Backend)
	}
	if cfg.Notify.Telegram.Token != "123:abc" || cfg.Notify.Telegram.ChatID != -100200 {
		t.Fatalf("telegram = %+v", cfg.Notify.Telegram)
	}
	if cfg.Local.AdminPassword != "pw" || cfg.App.Port != 38471 {
		t.Fatalf("local=%+v port=%d", cfg.Local, cfg.App.Port)
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	out, vr := NormalizeAndValidate(validSupabase())
	if !vr.OK() {
		t.Fatalf("unexpected errors: %v", vr.Errors)
	}
	if out.Backend.URL != "https://abc.supabase.co" {
		t.Fatalf("url not normalized: %q", out.Backend.URL)
	}

	bad := Defaults()
	bad.Backend.Driver = "firebase"
	bad.Dashboard.Days = 0
	bad.Notify.Telegram.Enabled = true
	_, vr = NormalizeAndValidate(bad)
	joined := strings.Join(vr.Errors, "\n")
	for _, want := range []string{"backend.driver", "dashboard.days", "notify.telegram.chat_id"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing %q in %v", want, vr.Errors)
		}
	}

	local := Defaults()
	local.Backend.Driver = "LOCAL"
	_, vr = NormalizeAndValidate(local)
	if !vr.OK() || len(vr.Warnings) == 0 {
		t.Fatalf("local without admin should warn only: %+v", vr)
	}
}

func TestSaveAtomicKeepsBackup(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yml")
	cfg := validSupabase()
	if err := SaveAtomic(p, cfg); err != nil {
		t.Fatalf("first save: %v", err)
	}
	cfg.App.Port = 40000
	if err := SaveAtomic(p, cfg); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if _, err := os.Stat(p + ".bak"); err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	got, err := Load(p)
	if err != nil || got.App.Port != 40000 {
		t.Fatalf("reload = %+v, %v", got.App, err)
	}

	cfg.App.Port = 0
	if err := SaveAtomic(p, cfg); err == nil {
		t.Fatal("invalid config must not save")
	}
}

func TestSecretsNeverPersisted(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yml")
	cfg := validSupabase()
	cfg.Notify.Telegram.Token = "secret-token"
	cfg.Local.AdminPassword = "secret-pw"
	if err := SaveAtomic(p, cfg); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(p)
	if strings.Contains(string(b), "secret") {
		t.Fatalf("secret written to disk:\n%s", b)
	}
}

func TestEnsureUserConfigCopiesTemplate(t *testing.T) {
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "template.yml")
	if err := os.WriteFile(tmpl, []byte("app:\n  port: 41000\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	data := filepath.Join(dir, "data")
	p, err := EnsureUserConfig(data, tmpl)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	cfg, err := Load(p)
	if err != nil || cfg.App.Port != 41000 {
		t.Fatalf("template not copied: %+v, %v", cfg.App, err)
	}
}
