package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"welux-admin/internal/events"
)

// sseKeepAlive keeps idle proxies and the shell's EventSource from
// dropping a quiet stream.
const sseKeepAlive = 20 * time.Second

type EventsHandler struct {
	Hub *events.Hub
}

func writeSSE(w http.ResponseWriter, f http.Flusher, msg string) {
	fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
	f.Flush()
}

// ServeSSE streams hub events until the client goes away. The first frame
// is a ping so the shell knows the engine is up.
func (h EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "streaming unsupported")
		return
	}
	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	writeSSE(w, flusher, events.MakeEvent(RequestIDFrom(r.Context()), events.TypePing, 1, nil))

	tick := time.NewTicker(sseKeepAlive)
	defer tick.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-tick.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			writeSSE(w, flusher, msg)
		}
	}
}
