package poll

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"welux-admin/internal/backend"
	"welux-admin/internal/domain"
	"welux-admin/internal/events"
	"welux-admin/internal/notify"
	"welux-admin/internal/screens"
)

// Result is what one pass found.
type Result struct {
	NewLeads      []domain.Lead
	Stream        *domain.StreamConfig
	StreamChanged bool
}

// Watcher remembers which leads and which stream state it has already
// reported. The first pass only primes that memory.
type Watcher struct {
	Tables   backend.Tables
	Notifier notify.Notifier
	Hub      *events.Hub

	mu     sync.Mutex
	primed bool
	seen   map[string]struct{}
	stream *domain.StreamConfig
}

func NewWatcher(tables backend.Tables, n notify.Notifier, hub *events.Hub) *Watcher {
	if n == nil {
		n = notify.Nop{}
	}
	return &Watcher{Tables: tables, Notifier: n, Hub: hub, seen: map[string]struct{}{}}
}

// PollOnce fetches leads and the stream row concurrently and reports what
// changed since the previous pass. Passes are serialized.
func (w *Watcher) PollOnce(ctx context.Context) (Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var (
		leads  []domain.Lead
		stream *domain.StreamConfig
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Tables.SelectAll(gctx, domain.TableLeads, backend.NewestFirst, &leads)
	})
	g.Go(func() error {
		cfg, err := screens.FetchStream(gctx, w.Tables)
		if errors.Is(err, backend.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		stream = &cfg
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for _, l := range leads {
		if _, ok := w.seen[l.ID]; ok {
			continue
		}
		w.seen[l.ID] = struct{}{}
		if w.primed && !l.IsArchived {
			res.NewLeads = append(res.NewLeads, l)
		}
	}

	res.Stream = stream
	if stream != nil && w.primed && streamDiffers(w.stream, stream) {
		res.StreamChanged = true
	}
	if stream != nil {
		w.stream = stream
	}
	w.primed = true

	// Oldest first so alerts arrive in submission order.
	for i := len(res.NewLeads) - 1; i >= 0; i-- {
		l := res.NewLeads[i]
		w.Hub.Emit("", events.TypeLeadCreated, l)
		if err := w.Notifier.NewLead(ctx, l); err != nil {
			log.Printf("level=warn msg=\"lead notification failed\" lead_id=%s err=%v", l.ID, err)
		}
	}
	if res.StreamChanged {
		w.Hub.Emit("", events.TypeStreamChanged, stream)
	}
	return res, nil
}

func streamDiffers(prev, cur *domain.StreamConfig) bool {
	if prev == nil {
		return true
	}
	return prev.IsLive != cur.IsLive || prev.VideoID != cur.VideoID || prev.VideoTitle != cur.VideoTitle
}
