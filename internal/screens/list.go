package screens

import (
	"context"
	"strings"
	"sync"

	"welux-admin/internal/backend"
	"welux-admin/internal/domain"
	"welux-admin/internal/nav"
)

// ListState is what a list screen renders.
type ListState[T any] struct {
	Loading bool     `json:"loading"`
	Filter  string   `json:"filter"`
	Filters []string `json:"filters"`
	Items   []T      `json:"items"`
	Empty   bool     `json:"empty"`
	Error   string   `json:"error,omitempty"`
	Alert   *Alert   `json:"alert,omitempty"`
}

type listConfig[T domain.Record] struct {
	table     string
	filters   []string // chips, first is the default
	accepted  []string // extra filter ids beyond the chips
	apply     func([]T, string) []T
	addRoute  string
	editRoute string
}

// List is the shared controller behind the leads, vlogs and jobs screens.
type List[T domain.Record] struct {
	tables backend.Tables
	nav    nav.Navigator
	cfg    listConfig[T]

	mu     sync.Mutex
	fl     inflight
	loaded bool
	items  []T

	// wseq counts row writes. written holds the rows a pending fetch
	// may predate.
	wseq    uint64
	written []writtenRow[T]

	filter string
	errMsg string
	alert  *Alert
}

type writtenRow[T any] struct {
	seq uint64
	row T
}

func newList[T domain.Record](tables backend.Tables, n nav.Navigator, cfg listConfig[T]) *List[T] {
	if cfg.apply == nil {
		cfg.apply = domain.FilterByStatus[T]
	}
	return &List[T]{tables: tables, nav: n, cfg: cfg, filter: cfg.filters[0]}
}

// Load fetches the list on mount or focus.
func (l *List[T]) Load(ctx context.Context) error { return l.fetch(ctx) }

// Refresh is pull-to-refresh. It is the same single fetch as Load.
func (l *List[T]) Refresh(ctx context.Context) error { return l.fetch(ctx) }

func (l *List[T]) fetch(ctx context.Context) error {
	l.mu.Lock()
	ctx, gen := l.fl.begin(ctx)
	since := l.wseq
	l.mu.Unlock()

	var rows []T
	err := l.tables.SelectAll(ctx, l.cfg.table, backend.NewestFirst, &rows)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.fl.finish(gen) {
		return ErrStale
	}
	l.loaded = true
	if err != nil {
		l.errMsg = backend.Message(err)
		l.alert = alertFor("Error", err)
		return err
	}
	if rows == nil {
		rows = []T{}
	}
	l.items = rows
	for _, w := range l.written {
		if w.seq > since {
			l.replaceLocked(w.row)
		}
	}
	l.written = nil
	l.errMsg = ""
	return nil
}

// SetFilter selects a chip. It never touches the network.
func (l *List[T]) SetFilter(id string) error {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		id = l.cfg.filters[0]
	}
	if !l.accepts(id) {
		return &domain.ValidationError{
			Title:  "Unknown filter",
			Fields: []string{"filter"},
			Msg:    "filter must be one of " + strings.Join(l.cfg.filters, ", "),
		}
	}
	l.mu.Lock()
	l.filter = id
	l.mu.Unlock()
	return nil
}

func (l *List[T]) accepts(id string) bool {
	for _, group := range [][]string{l.cfg.filters, l.cfg.accepted} {
		for _, f := range group {
			if f == id {
				return true
			}
		}
	}
	return false
}

func (l *List[T]) Filter() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// Visible returns the held items that pass the current filter.
func (l *List[T]) Visible() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visibleLocked()
}

func (l *List[T]) visibleLocked() []T {
	out := l.cfg.apply(l.items, l.filter)
	if out == nil {
		out = []T{}
	}
	return out
}

func (l *List[T]) Empty() bool { return len(l.Visible()) == 0 }

// Items returns every held row regardless of filter.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

func (l *List[T]) State() ListState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	vis := l.visibleLocked()
	return ListState[T]{
		Loading: !l.loaded,
		Filter:  l.filter,
		Filters: l.cfg.filters,
		Items:   vis,
		Empty:   len(vis) == 0,
		Error:   l.errMsg,
		Alert:   l.alert,
	}
}

// DismissAlert clears the alert once the UI has shown it.
func (l *List[T]) DismissAlert() {
	l.mu.Lock()
	l.alert = nil
	l.mu.Unlock()
}

// Select opens the edit screen for id.
func (l *List[T]) Select(id string) {
	if l.cfg.editRoute == "" || l.nav == nil {
		return
	}
	l.nav.Push(nav.Route{Name: l.cfg.editRoute, Params: map[string]string{"id": id}})
}

// Add opens the add screen.
func (l *List[T]) Add() {
	if l.cfg.addRoute == "" || l.nav == nil {
		return
	}
	l.nav.Push(nav.Route{Name: l.cfg.addRoute})
}

// Unmount drops any pending response.
func (l *List[T]) Unmount() {
	l.mu.Lock()
	l.fl.stop()
	l.mu.Unlock()
}

// wroteLocked records a row the server returned from a write so a fetch
// that started earlier does not roll it back. Callers hold l.mu.
func (l *List[T]) wroteLocked(row T) {
	l.wseq++
	l.replaceLocked(row)
	if l.fl.cancel != nil {
		l.written = append(l.written, writtenRow[T]{seq: l.wseq, row: row})
	}
}

// replace swaps the held row with the same identity. Callers hold l.mu.
func (l *List[T]) replaceLocked(row T) {
	for i := range l.items {
		if l.items[i].RecordID() == row.RecordID() {
			l.items[i] = row
			return
		}
	}
}

func NewVlogList(tables backend.Tables, n nav.Navigator) *List[domain.Vlog] {
	return newList(tables, n, listConfig[domain.Vlog]{
		table:     domain.TableVlogs,
		filters:   domain.VlogFilters,
		accepted:  domain.VlogStatuses,
		addRoute:  nav.VlogAdd,
		editRoute: nav.VlogEdit,
	})
}

func NewJobList(tables backend.Tables, n nav.Navigator) *List[domain.Job] {
	return newList(tables, n, listConfig[domain.Job]{
		table:     domain.TableJobs,
		filters:   domain.JobFilters,
		accepted:  domain.JobStatuses,
		addRoute:  nav.JobAdd,
		editRoute: nav.JobEdit,
	})
}
