package httpapi

import (
	"context"
	"net/http"
)

// DBHandler exposes maintenance for the local database. Flush is nil when
// the engine talks to the hosted backend.
type DBHandler struct {
	Flush func(ctx context.Context) error
}

func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	if !isLocal(r) {
		WriteError(w, r, http.StatusForbidden, "forbidden", "forbidden")
		return
	}
	if h.Flush == nil {
		WriteError(w, r, http.StatusNotFound, "not_found", "no local database")
		return
	}
	if err := h.Flush(r.Context()); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "checkpoint_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
