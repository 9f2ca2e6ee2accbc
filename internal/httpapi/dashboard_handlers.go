package httpapi

import (
	"bytes"
	"errors"
	"net/http"

	"welux-admin/internal/screens"
)

type DashboardHandler struct {
	Dashboard *screens.Dashboard
}

func (h DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	if err := h.Dashboard.Load(r.Context()); err != nil && !errors.Is(err, screens.ErrStale) {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, h.Dashboard.State())
}

func (h DashboardHandler) Chart(w http.ResponseWriter, r *http.Request) {
	if h.Dashboard.State().Summary == nil {
		if err := h.Dashboard.Load(r.Context()); err != nil && !errors.Is(err, screens.ErrStale) {
			writeErr(w, r, err)
			return
		}
	}
	var buf bytes.Buffer
	if err := h.Dashboard.Chart(&buf); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(buf.Bytes())
}
