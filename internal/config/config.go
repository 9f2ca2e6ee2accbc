package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DriverSupabase = "supabase"
	DriverLocal    = "local"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Backend struct {
		Driver            string  `yaml:"driver" json:"driver"`
		URL               string  `yaml:"url" json:"url"`
		AnonKey           string  `yaml:"anon_key" json:"anon_key"`
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" json:"burst"`
		TimeoutSeconds    int     `yaml:"timeout_seconds" json:"timeout_seconds"`
	} `yaml:"backend" json:"backend"`

	Local struct {
		DBFile     string `yaml:"db_file" json:"db_file"`
		AdminEmail string `yaml:"admin_email" json:"admin_email"`
		// AdminPassword only comes from the environment.
		AdminPassword string `yaml:"-" json:"-"`
	} `yaml:"local" json:"local"`

	Stream struct {
		TitleLookup          bool `yaml:"title_lookup" json:"title_lookup"`
		LookupTimeoutSeconds int  `yaml:"lookup_timeout_seconds" json:"lookup_timeout_seconds"`
	} `yaml:"stream" json:"stream"`

	Dashboard struct {
		Days int `yaml:"days" json:"days"`
	} `yaml:"dashboard" json:"dashboard"`

	Watch struct {
		// Seconds between lead/stream checks; 0 disables the watcher.
		Seconds int `yaml:"seconds" json:"seconds"`
	} `yaml:"watch" json:"watch"`

	Notify struct {
		Telegram struct {
			Enabled  bool   `yaml:"enabled" json:"enabled"`
			ChatID   int64  `yaml:"chat_id" json:"chat_id"`
			Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
			// Token only comes from the environment.
			Token string `yaml:"-" json:"-"`
		} `yaml:"telegram" json:"telegram"`
	} `yaml:"notify" json:"notify"`
}

func Defaults() Config {
	var c Config
	c.App.Port = 38471
	c.App.DataDir = "."
	c.Backend.Driver = DriverSupabase
	c.Backend.RequestsPerSecond = 5
	c.Backend.Burst = 10
	c.Backend.TimeoutSeconds = 15
	c.Local.DBFile = "welux.db"
	c.Stream.TitleLookup = true
	c.Stream.LookupTimeoutSeconds = 10
	c.Dashboard.Days = 7
	c.Watch.Seconds = 60
	return c
}

// Load reads path over the defaults, so keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
