package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment overrides.
const (
	EnvDataDir       = "WELUX_DATA_DIR"
	EnvBackend       = "WELUX_BACKEND"
	EnvSupabaseURL   = "WELUX_SUPABASE_URL"
	EnvSupabaseKey   = "WELUX_SUPABASE_ANON_KEY"
	EnvTelegramToken = "WELUX_TELEGRAM_TOKEN"
	EnvTelegramChat  = "WELUX_TELEGRAM_CHAT_ID"
	EnvAdminEmail    = "WELUX_ADMIN_EMAIL"
	EnvAdminPassword = "WELUX_ADMIN_PASSWORD"
	EnvPort          = "WELUX_PORT"
)

// LoadDotEnv loads .env from each dir that has one. Variables already set
// in the process environment win.
func LoadDotEnv(dirs ...string) {
	for _, dir := range dirs {
		p := filepath.Join(dir, ".env")
		err := godotenv.Load(p)
		if err == nil {
			log.Printf("level=info msg=\"loaded env file\" path=%s", p)
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("level=warn msg=\"env file unreadable\" path=%s err=%v", p, err)
		}
	}
}

// ApplyEnv overlays the WELUX_* variables onto cfg. getenv is usually
// os.Getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	set(EnvDataDir, &cfg.App.DataDir)
	set(EnvBackend, &cfg.Backend.Driver)
	set(EnvSupabaseURL, &cfg.Backend.URL)
	set(EnvSupabaseKey, &cfg.Backend.AnonKey)
	set(EnvTelegramToken, &cfg.Notify.Telegram.Token)
	set(EnvAdminEmail, &cfg.Local.AdminEmail)
	if v := getenv(EnvAdminPassword); v != "" {
		cfg.Local.AdminPassword = v
	}

	if v := strings.TrimSpace(getenv(EnvPort)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = n
		} else {
			log.Printf("level=warn msg=\"ignoring bad env\" key=%s value=%q", EnvPort, v)
		}
	}
	if v := strings.TrimSpace(getenv(EnvTelegramChat)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Notify.Telegram.ChatID = n
		} else {
			log.Printf("level=warn msg=\"ignoring bad env\" key=%s value=%q", EnvTelegramChat, v)
		}
	}
}
