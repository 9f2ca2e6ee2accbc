package httpapi

import (
	"errors"
	"net/http"

	"welux-admin/internal/domain"
	"welux-admin/internal/nav"
	"welux-admin/internal/screens"
)

type SessionHandler struct {
	App *screens.App
}

type sessionView struct {
	Loading bool      `json:"loading"`
	Stack   string    `json:"stack"`
	User    *userView `json:"user"`
	Route   nav.Route `json:"route"`
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (h SessionHandler) view() sessionView {
	v := sessionView{
		Loading: h.App.Gate.Loading(),
		Stack:   string(h.App.Gate.Stack()),
		Route:   h.App.Nav.Current(),
	}
	if s := h.App.Gate.Session(); s != nil {
		v.User = &userView{ID: s.User.ID, Email: s.User.Email}
	}
	return v
}

func (h SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.view())
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}

	_, err := h.App.Login.Submit(r.Context(), req.Email, req.Password)
	var ve *domain.ValidationError
	switch {
	case err == nil:
		writeJSON(w, h.view())
	case errors.As(err, &ve):
		writeErr(w, r, err)
	default:
		// Login Failed: show the server's reason.
		a := h.App.Login.Alert()
		msg := err.Error()
		if a != nil {
			msg = a.Message
		}
		WriteError(w, r, http.StatusUnauthorized, "unauthorized", msg)
	}
}

func (h SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Settings.Logout(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, h.view())
}

func (h SessionHandler) Nav(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"route": h.App.Nav.Current(), "depth": h.App.Nav.Depth()})
}

func (h SessionHandler) Push(w http.ResponseWriter, r *http.Request) {
	var route nav.Route
	if err := decodeJSON(r, &route); err != nil {
		badRequest(w, r, err)
		return
	}
	if !nav.Known(route.Name) {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "unknown route "+route.Name)
		return
	}
	h.App.Nav.Push(route)
	writeJSON(w, map[string]any{"route": h.App.Nav.Current(), "depth": h.App.Nav.Depth()})
}

func (h SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	route := h.App.Back()
	writeJSON(w, map[string]any{"route": route, "depth": h.App.Nav.Depth()})
}
