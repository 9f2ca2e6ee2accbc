package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"welux-admin/internal/domain"
	"welux-admin/internal/report"
	"welux-admin/internal/screens"
)

type LeadsHandler struct {
	Leads *screens.Leads
}

type leadsView struct {
	screens.ListState[domain.Lead]
	Expanded string `json:"expanded,omitempty"`
}

func (h LeadsHandler) view() leadsView {
	return leadsView{ListState: h.Leads.State(), Expanded: h.Leads.Expanded()}
}

// List applies ?filter= and fetches unless ?cached=true. Fetch failures
// are reported in the state, next to the items kept from before.
func (h LeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	if f, ok := r.URL.Query()["filter"]; ok {
		if err := h.Leads.SetFilter(f[0]); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	if !flag(r, "cached") {
		_ = h.Leads.Load(r.Context())
	}
	writeJSON(w, h.view())
}

func (h LeadsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	_ = h.Leads.Refresh(r.Context())
	writeJSON(w, h.view())
}

type statusReq struct {
	Status string `json:"status"`
}

func (h LeadsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	lead, err := h.Leads.SetStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, lead)
}

func (h LeadsHandler) Archive(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Leads.Archive(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, lead)
}

func (h LeadsHandler) Expand(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"expanded": h.Leads.ToggleExpand(mux.Vars(r)["id"])})
}

// ExportPDF prints the leads under ?filter= (default: the screen's filter)
// from the held list, fetching first if the screen never loaded.
func (h LeadsHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = h.Leads.Filter()
	}
	if h.Leads.State().Loading {
		if err := h.Leads.Load(r.Context()); err != nil && !errors.Is(err, screens.ErrStale) {
			writeErr(w, r, err)
			return
		}
	}
	leads := domain.FilterLeads(h.Leads.Items(), filter)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="welux-leads.pdf"`)
	if err := report.LeadsPDF(w, leads, filter, time.Now()); err != nil {
		writeErr(w, r, err)
	}
}
