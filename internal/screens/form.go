package screens

import (
	"context"
	"errors"
	"sync"

	"welux-admin/internal/backend"
	"welux-admin/internal/domain"
	"welux-admin/internal/events"
	"welux-admin/internal/nav"
)

// Draft is the form state of an add or edit screen.
type Draft[D any] interface {
	Normalize() D
	Validate() error
	Fields() map[string]any
}

type formKind[D Draft[D], R domain.Record] struct {
	table      string
	noun       string
	addRoute   string
	editRoute  string
	fromRecord func(R) D
	defaults   func(row map[string]any)
	created    string
	updated    string
	deleted    string
}

// FormState is what an add or edit screen renders.
type FormState[D any, R any] struct {
	Loading bool   `json:"loading"`
	Saving  bool   `json:"saving"`
	Draft   D      `json:"draft"`
	Record  *R     `json:"record,omitempty"`
	Alert   *Alert `json:"alert,omitempty"`
}

// Add is an add screen. Submit validates locally before any call.
type Add[D Draft[D], R domain.Record] struct {
	tables backend.Tables
	nav    nav.Navigator
	hub    *events.Hub
	kind   formKind[D, R]

	mu     sync.Mutex
	fl     inflight
	draft  D
	saving bool
	alert  *Alert
}

func (a *Add[D, R]) SetDraft(d D) {
	a.mu.Lock()
	a.draft = d
	a.mu.Unlock()
}

func (a *Add[D, R]) State() FormState[D, R] {
	a.mu.Lock()
	defer a.mu.Unlock()
	return FormState[D, R]{Saving: a.saving, Draft: a.draft, Alert: a.alert}
}

// Submit inserts the draft and, when the add route is on top, pops back
// on success. A failure keeps the draft for another attempt.
func (a *Add[D, R]) Submit(ctx context.Context) (R, error) {
	var zero R

	a.mu.Lock()
	d := a.draft.Normalize()
	if err := d.Validate(); err != nil {
		a.alert = alertFor("Missing fields", err)
		a.mu.Unlock()
		return zero, err
	}
	row := domain.InsertFields(d.Fields())
	if a.kind.defaults != nil {
		a.kind.defaults(row)
	}
	ctx, gen := a.fl.begin(ctx)
	a.saving = true
	a.mu.Unlock()

	var rec R
	err := a.tables.Insert(ctx, a.kind.table, row, &rec)

	a.mu.Lock()
	current := a.fl.finish(gen)
	if current {
		a.saving = false
	}
	if err != nil {
		if current {
			a.alert = alertFor("Error", err)
		}
		a.mu.Unlock()
		return zero, err
	}
	var empty D
	a.draft = empty
	a.alert = nil
	a.mu.Unlock()

	a.hub.Emit("", a.kind.created, rec)
	if current {
		a.nav.PopIf(a.kind.addRoute)
	}
	return rec, nil
}

// Unmount abandons a pending submit response.
func (a *Add[D, R]) Unmount() {
	a.mu.Lock()
	a.fl.stop()
	a.saving = false
	a.mu.Unlock()
}

// Edit is an edit screen bound to one record.
type Edit[D Draft[D], R domain.Record] struct {
	tables backend.Tables
	nav    nav.Navigator
	hub    *events.Hub
	kind   formKind[D, R]

	mu      sync.Mutex
	fl      inflight // loads
	wgen    uint64   // last write issued
	wseq    uint64   // writes applied
	id      string
	record  *R
	draft   D
	loading bool
	saving  bool
	alert   *Alert
}

// Load fetches the record and fills the form. A missing record alerts and
// navigates back.
func (e *Edit[D, R]) Load(ctx context.Context, id string) error {
	e.mu.Lock()
	ctx, gen := e.fl.begin(ctx)
	e.id = id
	e.loading = true
	since := e.wseq
	e.mu.Unlock()

	var rec R
	err := e.tables.SelectByID(ctx, e.kind.table, id, &rec)

	e.mu.Lock()
	if !e.fl.finish(gen) {
		e.mu.Unlock()
		return ErrStale
	}
	e.loading = false
	if e.wseq != since {
		// A write to this record landed while the read was out; its
		// reply is newer than this snapshot.
		e.mu.Unlock()
		return nil
	}
	if err != nil {
		e.record = nil
		if errors.Is(err, backend.ErrNotFound) {
			e.alert = &Alert{Title: "Not Found", Message: "This " + e.kind.noun + " no longer exists."}
			e.mu.Unlock()
			e.nav.PopIf(e.kind.editRoute)
			return err
		}
		e.alert = alertFor("Error", err)
		e.mu.Unlock()
		return err
	}
	e.record = &rec
	e.draft = e.kind.fromRecord(rec)
	e.mu.Unlock()
	return nil
}

func (e *Edit[D, R]) SetDraft(d D) {
	e.mu.Lock()
	e.draft = d
	e.mu.Unlock()
}

func (e *Edit[D, R]) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

func (e *Edit[D, R]) State() FormState[D, R] {
	e.mu.Lock()
	defer e.mu.Unlock()
	var rec *R
	if e.record != nil {
		cp := *e.record
		rec = &cp
	}
	return FormState[D, R]{Loading: e.loading, Saving: e.saving, Draft: e.draft, Record: rec, Alert: e.alert}
}

// Save writes the mutable fields of the draft and pops back on success.
func (e *Edit[D, R]) Save(ctx context.Context) (R, error) {
	var zero R

	e.mu.Lock()
	if e.id == "" {
		e.mu.Unlock()
		return zero, backend.ErrNotFound
	}
	d := e.draft.Normalize()
	if err := d.Validate(); err != nil {
		e.alert = alertFor("Missing fields", err)
		e.mu.Unlock()
		return zero, err
	}
	id := e.id
	gen := e.beginWrite()
	e.mu.Unlock()

	var rec R
	err := e.tables.Update(ctx, e.kind.table, id, d.Fields(), &rec)

	e.mu.Lock()
	current := e.finishWrite(gen, id)
	if err != nil {
		if current {
			e.alert = alertFor("Error", err)
		}
		e.mu.Unlock()
		return zero, err
	}
	if current {
		e.record = &rec
		e.draft = d
		e.alert = nil
		e.wseq++
	}
	e.mu.Unlock()

	e.hub.Emit("", e.kind.updated, rec)
	if current {
		e.nav.PopIf(e.kind.editRoute)
	}
	return rec, nil
}

// Delete asks for confirmation, then removes the record and pops back.
// A declined prompt makes no call and reports false.
func (e *Edit[D, R]) Delete(ctx context.Context, c Confirmer) (bool, error) {
	e.mu.Lock()
	id := e.id
	e.mu.Unlock()
	if id == "" {
		return false, backend.ErrNotFound
	}

	if c == nil || !c.Confirm("Delete "+e.kind.noun, "Are you sure you want to delete this "+e.kind.noun+"?") {
		return false, nil
	}

	e.mu.Lock()
	gen := e.beginWrite()
	e.mu.Unlock()

	err := e.tables.Delete(ctx, e.kind.table, id)

	e.mu.Lock()
	current := e.finishWrite(gen, id)
	if err != nil {
		if current {
			e.alert = alertFor("Error", err)
		}
		e.mu.Unlock()
		return false, err
	}
	if current {
		e.record = nil
		e.id = ""
		e.wseq++
	}
	e.mu.Unlock()

	e.hub.Emit("", e.kind.deleted, map[string]string{"id": id})
	if current {
		e.nav.PopIf(e.kind.editRoute)
	}
	return true, nil
}

// beginWrite issues a write generation. Writes are never cancelled, not
// by a later load and not by a later write. Callers hold e.mu.
func (e *Edit[D, R]) beginWrite() uint64 {
	e.wgen++
	e.saving = true
	return e.wgen
}

// finishWrite reports whether the write of gen to id may update the screen:
// it is the newest write and the screen still shows id. Callers hold e.mu.
func (e *Edit[D, R]) finishWrite(gen uint64, id string) bool {
	if gen != e.wgen {
		return false
	}
	e.saving = false
	return e.id == id
}

func (e *Edit[D, R]) Unmount() {
	e.mu.Lock()
	e.fl.stop()
	e.wgen++
	e.loading = false
	e.saving = false
	e.mu.Unlock()
}

func vlogKind(userID func() string) formKind[domain.VlogDraft, domain.Vlog] {
	return formKind[domain.VlogDraft, domain.Vlog]{
		table:      domain.TableVlogs,
		noun:       "vlog",
		addRoute:   nav.VlogAdd,
		editRoute:  nav.VlogEdit,
		fromRecord: domain.DraftFromVlog,
		defaults: func(row map[string]any) {
			row["status"] = domain.VlogStatusDraft
			if userID != nil {
				if id := userID(); id != "" {
					row["user_id"] = id
				}
			}
		},
		created: events.TypeVlogCreated,
		updated: events.TypeVlogUpdated,
		deleted: events.TypeVlogDeleted,
	}
}

func jobKind() formKind[domain.JobDraft, domain.Job] {
	return formKind[domain.JobDraft, domain.Job]{
		table:      domain.TableJobs,
		noun:       "job",
		addRoute:   nav.JobAdd,
		editRoute:  nav.JobEdit,
		fromRecord: domain.DraftFromJob,
		defaults: func(row map[string]any) {
			if s, _ := row["status"].(string); s == "" {
				row["status"] = domain.JobStatusDraft
			}
		},
		created: events.TypeJobCreated,
		updated: events.TypeJobUpdated,
		deleted: events.TypeJobDeleted,
	}
}

// NewVlogAdd stamps new vlogs with the signed-in user from userID.
func NewVlogAdd(tables backend.Tables, n nav.Navigator, hub *events.Hub, userID func() string) *Add[domain.VlogDraft, domain.Vlog] {
	return &Add[domain.VlogDraft, domain.Vlog]{tables: tables, nav: n, hub: hub, kind: vlogKind(userID)}
}

func NewVlogEdit(tables backend.Tables, n nav.Navigator, hub *events.Hub) *Edit[domain.VlogDraft, domain.Vlog] {
	return &Edit[domain.VlogDraft, domain.Vlog]{tables: tables, nav: n, hub: hub, kind: vlogKind(nil)}
}

func NewJobAdd(tables backend.Tables, n nav.Navigator, hub *events.Hub) *Add[domain.JobDraft, domain.Job] {
	return &Add[domain.JobDraft, domain.Job]{tables: tables, nav: n, hub: hub, kind: jobKind()}
}

func NewJobEdit(tables backend.Tables, n nav.Navigator, hub *events.Hub) *Edit[domain.JobDraft, domain.Job] {
	return &Edit[domain.JobDraft, domain.Job]{tables: tables, nav: n, hub: hub, kind: jobKind()}
}
