package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a trimmed copy of cfg and what is wrong
// with it. Secrets are not checked here; they come from the environment.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Backend.Driver = strings.ToLower(strings.TrimSpace(out.Backend.Driver))
	out.Backend.URL = strings.TrimRight(strings.TrimSpace(out.Backend.URL), "/")
	out.Backend.AnonKey = strings.TrimSpace(out.Backend.AnonKey)
	out.Local.DBFile = strings.TrimSpace(out.Local.DBFile)
	out.Local.AdminEmail = strings.ToLower(strings.TrimSpace(out.Local.AdminEmail))

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	switch out.Backend.Driver {
	case DriverSupabase:
		if out.Backend.URL == "" {
			res.addErr("backend.url is required when backend.driver=supabase")
		} else if u, err := url.Parse(out.Backend.URL); err != nil || u.Scheme == "" || u.Host == "" {
			res.addErr("backend.url must be an absolute URL")
		} else if u.Scheme != "https" {
			res.addWarn("backend.url is not https; session tokens travel in the clear.")
		}
		if out.Backend.AnonKey == "" {
			res.addErr("backend.anon_key is required when backend.driver=supabase")
		}
	case DriverLocal:
		if out.Local.DBFile == "" {
			res.addErr("local.db_file is required when backend.driver=local")
		}
		if out.Local.AdminEmail == "" {
			res.addWarn("local.admin_email is empty; no admin account will be seeded.")
		}
	default:
		res.addErr("backend.driver must be %q or %q", DriverSupabase, DriverLocal)
	}

	if out.Backend.RequestsPerSecond < 0 {
		res.addErr("backend.requests_per_second must be >= 0")
	}
	if out.Backend.Burst <= 0 {
		res.addErr("backend.burst must be > 0")
	}
	if out.Backend.TimeoutSeconds <= 0 {
		res.addErr("backend.timeout_seconds must be > 0")
	}

	if out.Stream.TitleLookup && out.Stream.LookupTimeoutSeconds <= 0 {
		res.addErr("stream.lookup_timeout_seconds must be > 0 when stream.title_lookup=true")
	}

	if out.Dashboard.Days <= 0 || out.Dashboard.Days > 90 {
		res.addErr("dashboard.days must be 1..90")
	}

	if out.Watch.Seconds < 0 {
		res.addErr("watch.seconds must be >= 0")
	} else if out.Watch.Seconds > 0 && out.Watch.Seconds < 10 {
		res.addWarn("watch.seconds is very low (%d) and may hit backend rate limits.", out.Watch.Seconds)
	}

	if out.Notify.Telegram.Enabled {
		if out.Notify.Telegram.ChatID == 0 {
			res.addErr("notify.telegram.chat_id is required when notify.telegram.enabled=true")
		}
		if out.Watch.Seconds == 0 {
			res.addWarn("notify.telegram is enabled but watch.seconds=0; no alerts will be sent.")
		}
	}

	return out, res
}
