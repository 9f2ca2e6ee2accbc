package httpapi

import (
	"errors"
	"net/http"

	"welux-admin/internal/screens"
)

type StreamHandler struct {
	Stream *screens.Stream
}

func (h StreamHandler) Get(w http.ResponseWriter, r *http.Request) {
	if err := h.Stream.Load(r.Context()); err != nil && !errors.Is(err, screens.ErrStale) {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, h.Stream.State())
}

// ensure loads the stream row if the screen has none yet.
func (h StreamHandler) ensure(r *http.Request) error {
	if h.Stream.State().Config != nil {
		return nil
	}
	return h.Stream.Load(r.Context())
}

func (h StreamHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := h.ensure(r); err != nil {
		writeErr(w, r, err)
		return
	}
	if _, err := h.Stream.ToggleLive(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, h.Stream.State())
}

type sourceReq struct {
	Source string `json:"source"`
}

func (h StreamHandler) SetSource(w http.ResponseWriter, r *http.Request) {
	var req sourceReq
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if err := h.ensure(r); err != nil {
		writeErr(w, r, err)
		return
	}
	if _, err := h.Stream.UpdateSource(r.Context(), req.Source); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, h.Stream.State())
}
