package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"welux-admin/internal/domain"
)

// NewRouter returns the router so main() can still attach /shutdown
// (needs srv+token).
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	app := d.App

	// Public
	hh := HealthHandler{Driver: d.Driver, Hub: d.Hub}
	r.HandleFunc("/health", hh.Health).Methods(http.MethodGet)

	sh := SessionHandler{App: app}
	r.HandleFunc("/session", sh.Get).Methods(http.MethodGet)
	r.HandleFunc("/login", sh.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", sh.Logout).Methods(http.MethodPost)
	r.HandleFunc("/nav", sh.Nav).Methods(http.MethodGet)
	r.HandleFunc("/nav/push", sh.Push).Methods(http.MethodPost)
	r.HandleFunc("/nav/back", sh.Back).Methods(http.MethodPost)

	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	r.HandleFunc("/config", ch.Get).Methods(http.MethodGet)
	r.HandleFunc("/config", ch.Put).Methods(http.MethodPut)
	r.HandleFunc("/config/path", ch.Path).Methods(http.MethodGet)
	r.HandleFunc("/config/validate", ch.Validate).Methods(http.MethodGet)

	sec := SecretsHandler{SetTelegramToken: d.SetTelegramToken}
	r.HandleFunc("/secrets/telegram", sec.SetTelegram).Methods(http.MethodPut)

	wh := WatchHandler{Status: d.WatchStatus, Run: d.RunWatch}
	r.HandleFunc("/watch/status", wh.GetStatus).Methods(http.MethodGet)

	dbh := DBHandler{Flush: d.Checkpoint}
	r.HandleFunc("/db/checkpoint", dbh.Checkpoint).Methods(http.MethodPost)

	eh := EventsHandler{Hub: d.Hub}
	r.HandleFunc("/events", eh.ServeSSE).Methods(http.MethodGet)

	// Signed-in only
	api := r.NewRoute().Subrouter()
	api.Use(mux.MiddlewareFunc(RequireSession(app.Gate)))

	api.HandleFunc("/watch/run", wh.RunNow).Methods(http.MethodPost)

	lh := LeadsHandler{Leads: app.Leads}
	api.HandleFunc("/leads", lh.List).Methods(http.MethodGet)
	api.HandleFunc("/leads/refresh", lh.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/leads/export.pdf", lh.ExportPDF).Methods(http.MethodGet)
	api.HandleFunc("/leads/{id}/status", lh.SetStatus).Methods(http.MethodPatch)
	api.HandleFunc("/leads/{id}/archive", lh.Archive).Methods(http.MethodPost)
	api.HandleFunc("/leads/{id}/expand", lh.Expand).Methods(http.MethodPost)

	vh := RecordsHandler[domain.VlogDraft, domain.Vlog]{List: app.Vlogs, Add: app.VlogAdd, Edit: app.VlogEdit}
	vh.mount(api, "/vlogs")

	jh := RecordsHandler[domain.JobDraft, domain.Job]{List: app.Jobs, Add: app.JobAdd, Edit: app.JobEdit}
	jh.mount(api, "/jobs")

	st := StreamHandler{Stream: app.Stream}
	api.HandleFunc("/stream", st.Get).Methods(http.MethodGet)
	api.HandleFunc("/stream/toggle", st.Toggle).Methods(http.MethodPost)
	api.HandleFunc("/stream/source", st.SetSource).Methods(http.MethodPut)

	dh := DashboardHandler{Dashboard: app.Dashboard}
	api.HandleFunc("/dashboard", dh.Get).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/chart.png", dh.Chart).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusNotFound, "not_found", "no such route")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		WriteError(w, req, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}
