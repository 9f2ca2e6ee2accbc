package poll

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"welux-admin/internal/config"
	"welux-admin/internal/scheduler"
)

type Status struct {
	LastRunAt  string `json:"last_run_at"`
	LastOkAt   string `json:"last_ok_at"`
	LastError  string `json:"last_error"`
	LastNew    int    `json:"last_new"`
	StreamLive bool   `json:"stream_live"`
	Running    bool   `json:"running"`
	Enabled    bool   `json:"enabled"`
}

// StartPoller runs w on the watch interval from cfgVal until ctx ends.
// active gates each pass; the hosted backend needs a signed-in session.
func StartPoller(ctx context.Context, w *Watcher, cfgVal *atomic.Value, status *atomic.Value, active func() bool) {
	interval := func() time.Duration {
		cfg, ok := cfgVal.Load().(config.Config)
		if !ok {
			return 0
		}
		return time.Duration(cfg.Watch.Seconds) * time.Second
	}

	go scheduler.Every(ctx, interval, 30*time.Second, "watch", func(ctx context.Context) error {
		if active != nil && !active() {
			return nil
		}

		st := loadStatus(status)
		st.Enabled = true
		st.Running = true
		st.LastRunAt = time.Now().Format(time.RFC3339)
		status.Store(st)

		pctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		res, err := w.PollOnce(pctx)
		cancel()

		st = loadStatus(status)
		st.Running = false
		if err != nil {
			st.LastError = err.Error()
			status.Store(st)
			return err
		}
		st.LastError = ""
		st.LastOkAt = time.Now().Format(time.RFC3339)
		st.LastNew = len(res.NewLeads)
		if res.Stream != nil {
			st.StreamLive = res.Stream.IsLive
		}
		status.Store(st)
		log.Printf("level=info msg=\"watch pass\" new_leads=%d stream_changed=%v", len(res.NewLeads), res.StreamChanged)
		return nil
	})
}

func loadStatus(v *atomic.Value) Status {
	if st, ok := v.Load().(Status); ok {
		return st
	}
	return Status{}
}
