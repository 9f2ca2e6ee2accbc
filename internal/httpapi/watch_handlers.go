package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"

	"welux-admin/internal/poll"
)

type WatchHandler struct {
	Status *atomic.Value // stores poll.Status
	Run    func(ctx context.Context) (poll.Result, error)
}

func (h WatchHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	var st poll.Status
	if h.Status != nil {
		if v, ok := h.Status.Load().(poll.Status); ok {
			st = v
		}
	}
	writeJSON(w, st)
}

func (h WatchHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	if h.Run == nil {
		WriteError(w, r, http.StatusNotFound, "not_found", "watcher is off")
		return
	}
	res, err := h.Run(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, res)
}
