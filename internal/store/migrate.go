package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

const schemaVersion = 1

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= schemaVersion {
		return tx.Commit()
	}

	// ---- Schema v1: tables ----

	stmts := []string{`
CREATE TABLE IF NOT EXISTS leads (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT,
  event_type TEXT NOT NULL DEFAULT '',
  event_date TEXT,
  guest_count INTEGER,
  message TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT 'new'
    CHECK (status IN ('new','contacted','negotiating','booked','lost')),
  is_archived INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS vlogs (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  video_url TEXT,
  thumbnail_url TEXT,
  duration TEXT,
  status TEXT NOT NULL DEFAULT 'draft'
    CHECK (status IN ('draft','processing','published','archived')),
  views_count INTEGER NOT NULL DEFAULT 0,
  user_id TEXT,
  created_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS jobs (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  company TEXT NOT NULL,
  location TEXT,
  description TEXT NOT NULL DEFAULT '',
  requirements TEXT NOT NULL DEFAULT '[]',
  salary_range TEXT,
  deadline TEXT,
  status TEXT NOT NULL DEFAULT 'draft'
    CHECK (status IN ('active','draft','filled','expired')),
  applicants_count INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS stream_config (
  id TEXT PRIMARY KEY,
  video_id TEXT NOT NULL DEFAULT '',
  video_title TEXT NOT NULL DEFAULT '',
  platform TEXT NOT NULL DEFAULT 'youtube',
  is_live INTEGER NOT NULL DEFAULT 0,
  current_viewers INTEGER NOT NULL DEFAULT 0,
  last_ping TEXT,
  updated_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS admin_users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT NOT NULL
);`, `
CREATE TABLE IF NOT EXISTS meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);`,

		// ---- Schema v1: indexes ----

		`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_vlogs_created_at ON vlogs(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Token signing secret for local sessions; generated once per database.
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR IGNORE INTO meta(key, value) VALUES('jwt_secret', ?);`, hex.EncodeToString(secret)); err != nil {
		return err
	}

	// Mark schema v1
	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version = %d;`, schemaVersion)); err != nil {
		return err
	}

	return tx.Commit()
}
