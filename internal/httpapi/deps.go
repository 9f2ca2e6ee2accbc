package httpapi

import (
	"context"
	"sync/atomic"

	"welux-admin/internal/config"
	"welux-admin/internal/events"
	"welux-admin/internal/poll"
	"welux-admin/internal/screens"
)

type Deps struct {
	App *screens.App
	Hub *events.Hub

	// Driver names the backend in /health.
	Driver string

	// Atomic stores
	CfgVal      *atomic.Value // stores config.Config
	WatchStatus *atomic.Value // stores poll.Status

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// RunWatch runs one watcher pass; nil when the watcher is off.
	RunWatch func(ctx context.Context) (poll.Result, error)

	// Checkpoint flushes the local database; nil for the hosted backend.
	Checkpoint func(ctx context.Context) error

	// SetTelegramToken stores the notifier token.
	SetTelegramToken func(token string) error
}
