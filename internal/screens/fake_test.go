package screens

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"welux-admin/internal/backend"
	"welux-admin/internal/nav"
)

// fakeTables is an in-memory backend.Tables that counts calls.
type fakeTables struct {
	mu     sync.Mutex
	rows   map[string][]map[string]any
	calls  map[string]int
	seq    int
	fail   map[string]error
	writes []map[string]any

	// beforeSelect runs outside the lock with the 1-based select number,
	// after the rows the call will return were copied.
	beforeSelect func(ctx context.Context, n int) error
	// beforeUpdate runs outside the lock before an update is applied.
	beforeUpdate func(ctx context.Context) error
}

func newFakeTables() *fakeTables {
	return &fakeTables{
		rows:  map[string][]map[string]any{},
		calls: map[string]int{},
		fail:  map[string]error{},
	}
}

func (f *fakeTables) count(op, table string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op+":"+table]
}

func (f *fakeTables) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeTables) seed(table string, rows ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rows {
		m := mustMap(r)
		f.rows[table] = append(f.rows[table], m)
	}
}

func (f *fakeTables) record(op, table string) error {
	f.calls[op+":"+table]++
	return f.fail[op+":"+table]
}

func (f *fakeTables) SelectAll(ctx context.Context, table string, _ backend.Order, dest any) error {
	f.mu.Lock()
	err := f.record("select", table)
	n := f.calls["select:"+table]
	snap := make([]map[string]any, 0, len(f.rows[table]))
	for _, r := range f.rows[table] {
		cp := make(map[string]any, len(r))
		for k, v := range r {
			cp[k] = v
		}
		snap = append(snap, cp)
	}
	hook := f.beforeSelect
	f.mu.Unlock()

	if hook != nil {
		if herr := hook(ctx, n); herr != nil {
			return herr
		}
	}
	if err != nil {
		return err
	}
	return remarshal(snap, dest)
}

func (f *fakeTables) SelectByID(ctx context.Context, table, id string, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("get", table); err != nil {
		return err
	}
	for _, r := range f.rows[table] {
		if r["id"] == id {
			return remarshal(r, dest)
		}
	}
	return backend.ErrNotFound
}

func (f *fakeTables) Insert(ctx context.Context, table string, row any, dest any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("insert", table); err != nil {
		return err
	}
	m := mustMap(row)
	f.seq++
	m["id"] = fmt.Sprintf("%s-%d", table, f.seq)
	f.rows[table] = append([]map[string]any{m}, f.rows[table]...)
	f.writes = append(f.writes, m)
	if dest == nil {
		return nil
	}
	return remarshal(m, dest)
}

func (f *fakeTables) Update(ctx context.Context, table, id string, fields map[string]any, dest any) error {
	f.mu.Lock()
	hook := f.beforeUpdate
	f.mu.Unlock()
	if hook != nil {
		if err := hook(ctx); err != nil {
			return err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("update", table); err != nil {
		return err
	}
	f.writes = append(f.writes, mustMap(fields))
	for _, r := range f.rows[table] {
		if r["id"] != id {
			continue
		}
		for k, v := range mustMap(fields) {
			r[k] = v
		}
		if dest == nil {
			return nil
		}
		return remarshal(r, dest)
	}
	return backend.ErrNotFound
}

func (f *fakeTables) Delete(ctx context.Context, table, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("delete", table); err != nil {
		return err
	}
	rows := f.rows[table]
	for i, r := range rows {
		if r["id"] == id {
			f.rows[table] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

func (f *fakeTables) lastWrite() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return nil
	}
	return f.writes[len(f.writes)-1]
}

func mustMap(v any) map[string]any {
	m := map[string]any{}
	if err := remarshal(v, &m); err != nil {
		panic(err)
	}
	return m
}

func remarshal(v, dest any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dest)
}

// fakeNav records navigation calls over a route stack.
type fakeNav struct {
	mu     sync.Mutex
	calls  []string
	routes []string
}

// newFakeNav starts on the given stack without logging it.
func newFakeNav(routes ...string) *fakeNav {
	return &fakeNav{routes: routes}
}

func (n *fakeNav) add(s string) {
	n.calls = append(n.calls, s)
}

func (n *fakeNav) Push(r nav.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.add("push:" + r.Name)
	n.routes = append(n.routes, r.Name)
}

func (n *fakeNav) Pop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.add("pop")
	if len(n.routes) > 1 {
		n.routes = n.routes[:len(n.routes)-1]
	}
}

func (n *fakeNav) PopIf(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) < 2 || n.routes[len(n.routes)-1] != name {
		return false
	}
	n.add("pop")
	n.routes = n.routes[:len(n.routes)-1]
	return true
}

func (n *fakeNav) Replace(r nav.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.add("replace:" + r.Name)
	if len(n.routes) == 0 {
		n.routes = []string{r.Name}
		return
	}
	n.routes[len(n.routes)-1] = r.Name
}

func (n *fakeNav) Reset(r nav.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.add("reset:" + r.Name)
	n.routes = []string{r.Name}
}

func (n *fakeNav) Current() nav.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return nav.Route{}
	}
	return nav.Route{Name: n.routes[len(n.routes)-1]}
}

func (n *fakeNav) log() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

// fakeAuth is a scripted backend.Auth.
type fakeAuth struct {
	signInErr error
	signIns   int
	signOuts  int
}

func (a *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (backend.Session, error) {
	a.signIns++
	if a.signInErr != nil {
		return backend.Session{}, a.signInErr
	}
	return backend.Session{AccessToken: "tok", User: backend.User{ID: "u1", Email: email}}, nil
}

func (a *fakeAuth) SignOut(ctx context.Context) error {
	a.signOuts++
	return nil
}

func (a *fakeAuth) GetSession(ctx context.Context) (*backend.Session, error) { return nil, nil }

func (a *fakeAuth) OnAuthStateChange(fn func(backend.AuthEvent, *backend.Session)) func() {
	return func() {}
}
