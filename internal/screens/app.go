package screens

import (
	"welux-admin/internal/backend"
	"welux-admin/internal/domain"
	"welux-admin/internal/events"
	"welux-admin/internal/nav"
	"welux-admin/internal/session"
)

// App is every screen the shell can mount, sharing one backend, gate and
// navigation stack.
type App struct {
	Gate *session.Gate
	Nav  *nav.Stack

	Leads     *Leads
	Vlogs     *List[domain.Vlog]
	VlogAdd   *Add[domain.VlogDraft, domain.Vlog]
	VlogEdit  *Edit[domain.VlogDraft, domain.Vlog]
	Jobs      *List[domain.Job]
	JobAdd    *Add[domain.JobDraft, domain.Job]
	JobEdit   *Edit[domain.JobDraft, domain.Job]
	Stream    *Stream
	Dashboard *Dashboard
	Login     *Login
	Settings  *Settings
}

type AppOptions struct {
	Titles        TitleLookup
	DashboardDays int
}

// NewApp wires the screens. The navigation stack starts at the route that
// matches the gate's current stack.
func NewApp(b backend.Backend, gate *session.Gate, hub *events.Hub, opts AppOptions) *App {
	start := nav.Route{Name: nav.Login}
	if gate.Stack() == session.StackTabs {
		start = nav.Route{Name: nav.MainTabs}
	}
	stack := nav.NewStack(start)
	stack.OnChange(func(r nav.Route) {
		hub.Emit("", events.TypeNavChanged, r)
	})

	return &App{
		Gate:      gate,
		Nav:       stack,
		Leads:     NewLeads(b, stack, hub),
		Vlogs:     NewVlogList(b, stack),
		VlogAdd:   NewVlogAdd(b, stack, hub, gate.UserID),
		VlogEdit:  NewVlogEdit(b, stack, hub),
		Jobs:      NewJobList(b, stack),
		JobAdd:    NewJobAdd(b, stack, hub),
		JobEdit:   NewJobEdit(b, stack, hub),
		Stream:    NewStream(b, hub, opts.Titles),
		Dashboard: NewDashboard(b, opts.DashboardDays),
		Login:     NewLogin(b, stack),
		Settings:  NewSettings(b, stack),
	}
}

// Unmount drops pending responses of the screens behind route.
func (a *App) Unmount(route string) {
	switch route {
	case nav.MainTabs:
		a.Leads.Unmount()
		a.Dashboard.Unmount()
	case nav.VlogList:
		a.Vlogs.Unmount()
	case nav.VlogAdd:
		a.VlogAdd.Unmount()
	case nav.VlogEdit:
		a.VlogEdit.Unmount()
	case nav.JobList:
		a.Jobs.Unmount()
	case nav.JobAdd:
		a.JobAdd.Unmount()
	case nav.JobEdit:
		a.JobEdit.Unmount()
	case nav.StreamControl:
		a.Stream.Unmount()
	}
}

// Back leaves the current screen.
func (a *App) Back() nav.Route {
	a.Unmount(a.Nav.Current().Name)
	a.Nav.Pop()
	return a.Nav.Current()
}
