package httpapi

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"welux-admin/internal/domain"
	"welux-admin/internal/screens"
)

// RecordsHandler serves a list screen with its add and edit screens.
type RecordsHandler[D screens.Draft[D], R domain.Record] struct {
	List *screens.List[R]
	Add  *screens.Add[D, R]
	Edit *screens.Edit[D, R]
}

func (h RecordsHandler[D, R]) mount(r *mux.Router, prefix string) {
	r.HandleFunc(prefix, h.Index).Methods(http.MethodGet)
	r.HandleFunc(prefix, h.Create).Methods(http.MethodPost)
	r.HandleFunc(prefix+"/refresh", h.Refresh).Methods(http.MethodPost)
	r.HandleFunc(prefix+"/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc(prefix+"/{id}", h.Save).Methods(http.MethodPut)
	r.HandleFunc(prefix+"/{id}", h.Delete).Methods(http.MethodDelete)
}

func (h RecordsHandler[D, R]) Index(w http.ResponseWriter, r *http.Request) {
	if f, ok := r.URL.Query()["filter"]; ok {
		if err := h.List.SetFilter(f[0]); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	if !flag(r, "cached") {
		_ = h.List.Load(r.Context())
	}
	writeJSON(w, h.List.State())
}

func (h RecordsHandler[D, R]) Refresh(w http.ResponseWriter, r *http.Request) {
	_ = h.List.Refresh(r.Context())
	writeJSON(w, h.List.State())
}

func (h RecordsHandler[D, R]) Create(w http.ResponseWriter, r *http.Request) {
	var d D
	if err := decodeJSON(r, &d); err != nil {
		badRequest(w, r, err)
		return
	}
	h.Add.SetDraft(d)
	rec, err := h.Add.Submit(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, rec)
}

func (h RecordsHandler[D, R]) Get(w http.ResponseWriter, r *http.Request) {
	if err := h.Edit.Load(r.Context(), mux.Vars(r)["id"]); err != nil && !errors.Is(err, screens.ErrStale) {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, h.Edit.State())
}

// bind makes sure the edit screen holds id before a write.
func (h RecordsHandler[D, R]) bind(r *http.Request) error {
	id := mux.Vars(r)["id"]
	if h.Edit.ID() == id && h.Edit.State().Record != nil {
		return nil
	}
	return h.Edit.Load(r.Context(), id)
}

func (h RecordsHandler[D, R]) Save(w http.ResponseWriter, r *http.Request) {
	var d D
	if err := decodeJSON(r, &d); err != nil {
		badRequest(w, r, err)
		return
	}
	if err := h.bind(r); err != nil {
		writeErr(w, r, err)
		return
	}
	h.Edit.SetDraft(d)
	rec, err := h.Edit.Save(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, rec)
}

// Delete needs ?confirm=true; without it nothing is called.
func (h RecordsHandler[D, R]) Delete(w http.ResponseWriter, r *http.Request) {
	confirmed := flag(r, "confirm")
	if !confirmed {
		WriteError(w, r, http.StatusConflict, "confirm_required", "deletion must be confirmed")
		return
	}
	if err := h.bind(r); err != nil {
		writeErr(w, r, err)
		return
	}
	ok, err := h.Edit.Delete(r.Context(), screens.ConfirmFunc(func(string, string) bool { return confirmed }))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": ok, "id": mux.Vars(r)["id"]})
}
