package httpapi

import (
	"net/http"
	"time"

	"welux-admin/internal/events"
)

type HealthHandler struct {
	Driver string
	Hub    *events.Hub
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"ok":          true,
		"backend":     h.Driver,
		"sse_clients": h.Hub.Clients(),
		"time":        time.Now().Format(time.RFC3339),
	})
}
