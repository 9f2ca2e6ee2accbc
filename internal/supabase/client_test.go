package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"welux-admin/internal/backend"
	"welux-admin/internal/domain"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	APIKey string
	Prefer string
	Body   string
}

type fakeSupabase struct {
	mu       sync.Mutex
	reqs     []recorded
	handlers map[string]http.HandlerFunc // "METHOD /path"
}

func (f *fakeSupabase) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.reqs = append(f.reqs, recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		APIKey: r.Header.Get("apikey"),
		Prefer: r.Header.Get("Prefer"),
		Body:   string(b),
	})
	h := f.handlers[r.Method+" "+r.URL.Path]
	f.mu.Unlock()
	if h == nil {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (f *fakeSupabase) requests() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.reqs...)
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newTestClient(t *testing.T, f *fakeSupabase, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return New(srv.URL, "anon-key", opts...)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestSelectAllOrdersNewestFirst(t *testing.T) {
	f := &fakeSupabase{handlers: map[string]http.HandlerFunc{
		"GET /rest/v1/leads": jsonHandler(200, `[{"id":"2","status":"booked"},{"id":"1","status":"new"}]`),
	}}
	c := newTestClient(t, f)

	var leads []domain.Lead
	if err := c.SelectAll(context.Background(), domain.TableLeads, backend.NewestFirst, &leads); err != nil {
		t.Fatalf("SelectAll: %v", err)
	}
	if len(leads) != 2 || leads[0].ID != "2" {
		t.Fatalf("leads = %+v", leads)
	}

	reqs := f.requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if !strings.Contains(reqs[0].Query, "order=created_at.desc") || !strings.Contains(reqs[0].Query, "select=%2A") {
		t.Fatalf("query = %q", reqs[0].Query)
	}
	if reqs[0].APIKey != "anon-key" || reqs[0].Auth != "Bearer anon-key" {
		t.Fatalf("headers apikey=%q auth=%q", reqs[0].APIKey, reqs[0].Auth)
	}
}

func TestSelectByIDNotFound(t *testing.T) {
	f := &fakeSupabase{handlers: map[string]http.HandlerFunc{
		"GET /rest/v1/jobs": jsonHandler(200, `[]`),
	}}
	c := newTestClient(t, f)

	var j domain.Job
	err := c.SelectByID(context.Background(), domain.TableJobs, "missing", &j)
	if !errors.Is(err, backend.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if q := f.requests()[0].Query; !strings.Contains(q, "id=eq.missing") {
		t.Fatalf("query = %q", q)
	}
}

func TestInsertUpdateDeleteShapes(t *testing.T) {
	f := &fakeSupabase{handlers: map[string]http.HandlerFunc{
		"POST /rest/v1/vlogs":   jsonHandler(201, `[{"id":"v1","title":"Gala","status":"draft"}]`),
		"PATCH /rest/v1/vlogs":  jsonHandler(200, `[{"id":"v1","title":"Gala 2026","status":"draft"}]`),
		"DELETE /rest/v1/vlogs": jsonHandler(200, `[{"id":"v1"}]`),
	}}
	c := newTestClient(t, f)
	ctx := context.Background()

	var v domain.Vlog
	if err := c.Insert(ctx, domain.TableVlogs, map[string]any{"title": "Gala", "status": "draft"}, &v); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if v.ID != "v1" {
		t.Fatalf("inserted = %+v", v)
	}
	if err := c.Update(ctx, domain.TableVlogs, "v1", map[string]any{"title": "Gala 2026"}, &v); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v.Title != "Gala 2026" {
		t.Fatalf("updated = %+v", v)
	}
	if err := c.Delete(ctx, domain.TableVlogs, "v1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	reqs := f.requests()
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(reqs))
	}
	for _, r := range reqs {
		if r.Prefer != "return=representation" {
			t.Fatalf("%s missing Prefer header", r.Method)
		}
	}
	var body map[string]any
	_ = json.Unmarshal([]byte(reqs[1].Body), &body)
	if len(body) != 1 || body["title"] != "Gala 2026" {
		t.Fatalf("patch body = %s", reqs[1].Body)
	}
	if !strings.Contains(reqs[1].Query, "id=eq.v1") || !strings.Contains(reqs[2].Query, "id=eq.v1") {
		t.Fatalf("id filters missing: %q / %q", reqs[1].Query, reqs[2].Query)
	}
}

func TestDeleteMissingRowIsNotFound(t *testing.T) {
	f := &fakeSupabase{handlers: map[string]http.HandlerFunc{
		"DELETE /rest/v1/jobs": jsonHandler(200, `[]`),
	}}
	c := newTestClient(t, f)
	if err := c.Delete(context.Background(), domain.TableJobs, "gone"); !errors.Is(err, backend.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRemoteErrorDecoding(t *testing.T) {
	f := &fakeSupabase{handlers: map[string]http.HandlerFunc{
		"POST /rest/v1/jobs":  jsonHandler(400, `{"code":"23502","message":"null value in column \"company\"","hint":null}`),
		"POST /auth/v1/token": jsonHandler(400, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`),
	}}
	c := newTestClient(t, f)

	err := c.Insert(context.Background(), domain.TableJobs, map[string]any{"title": "x"}, nil)
	var re *backend.RemoteError
	if !errors.As(err, &re) || re.Code != "23502" || !strings.Contains(re.Message, "company") {
		t.Fatalf("insert error = %#v", err)
	}

	_, err = c.SignInWithPassword(context.Background(), "admin@welux.com", "wrong")
	if !errors.As(err, &re) || re.Message != "Invalid login credentials" {
		t.Fatalf("sign-in error = %#v", err)
	}
}

func TestSignInPersistsAndAuthorizesTableCalls(t *testing.T) {
	tok := signedToken(t, time.Now().Add(time.Hour))
	f := &fakeSupabase{handlers: map[string]http.HandlerFunc{
		"POST /auth/v1/token": jsonHandler(200, `{"access_token":"`+tok+`","refresh_token":"r1","expires_in":3600,"user":{"id":"u1","email":"admin@welux.com"}}`),
		"GET /rest/v1/leads":  jsonHandler(200, `[]`),
	}}
	store := backend.NewMemorySessionStore(nil)
	c := newTestClient(t, f, WithSessionStore(store))

	var events []backend.AuthEvent
	c.OnAuthStateChange(func(evt backend.AuthEvent, _ *backend.Session) { events = append(events, evt) })

	s, err := c.SignInWithPassword(context.Background(), "admin@welux.com", "secret")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if s.User.Email != "admin@welux.com" || s.ExpiresAt.IsZero() {
		t.Fatalf("session = %+v", s)
	}
	if stored, _ := store.Load(); stored == nil || stored.RefreshToken != "r1" {
		t.Fatalf("stored session = %+v", stored)
	}
	if len(events) != 1 || events[0] != backend.SignedIn {
		t.Fatalf("events = %v", events)
	}

	var leads []domain.Lead
	_ = c.SelectAll(context.Background(), domain.TableLeads, backend.NewestFirst, &leads)
	reqs := f.requests()
	if got := reqs[len(reqs)-1].Auth; got != "Bearer "+tok {
		t.Fatalf("table call auth = %q", got)
	}
	if !strings.Contains(reqs[0].Query, "grant_type=password") {
		t.Fatalf("token query = %q", reqs[0].Query)
	}
}

func TestGetSessionRefreshesExpiredToken(t *testing.T) {
	fresh := signedToken(t, time.Now().Add(time.Hour))
	f := &fakeSupabase{handlers: map[string]http.HandlerFunc{
		"POST /auth/v1/token": jsonHandler(200, `{"access_token":"`+fresh+`","refresh_token":"r2","user":{"id":"u1","email":"a@b.c"}}`),
	}}
	store := backend.NewMemorySessionStore(&backend.Session{
		AccessToken:  "old",
		RefreshToken: "r1",
		ExpiresAt:    time.Now().Add(-time.Minute),
	})
	c := newTestClient(t, f, WithSessionStore(store))

	s, err := c.GetSession(context.Background())
	if err != nil || s == nil {
		t.Fatalf("GetSession = %v, %v", s, err)
	}
	if s.AccessToken != fresh || s.RefreshToken != "r2" {
		t.Fatalf("refreshed session = %+v", s)
	}
	reqs := f.requests()
	if len(reqs) != 1 || !strings.Contains(reqs[0].Query, "grant_type=refresh_token") {
		t.Fatalf("requests = %+v", reqs)
	}
}

func TestConcurrentCallsShareOneRefresh(t *testing.T) {
	fresh := signedToken(t, time.Now().Add(time.Hour))
	var (
		mu        sync.Mutex
		used      = map[string]bool{}
		refreshes int
	)
	f := &fakeSupabase{handlers: map[string]http.HandlerFunc{
		"POST /auth/v1/token": func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				RefreshToken string `json:"refresh_token"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			// Hold the refresh open so every caller joins it.
			time.Sleep(200 * time.Millisecond)
			mu.Lock()
			refreshes++
			reused := used[body.RefreshToken]
			used[body.RefreshToken] = true
			mu.Unlock()
			if reused {
				jsonHandler(400, `{"error":"invalid_grant","error_description":"Invalid Refresh Token: Already Used"}`)(w, r)
				return
			}
			jsonHandler(200, `{"access_token":"`+fresh+`","refresh_token":"r2","user":{"id":"u1"}}`)(w, r)
		},
		"GET /rest/v1/leads": jsonHandler(200, `[]`),
	}}
	store := backend.NewMemorySessionStore(&backend.Session{
		AccessToken: "old", RefreshToken: "r1", ExpiresAt: time.Now().Add(-time.Minute),
	})
	c := newTestClient(t, f, WithSessionStore(store))

	var signedOut int
	var evMu sync.Mutex
	unsub := c.OnAuthStateChange(func(evt backend.AuthEvent, _ *backend.Session) {
		if evt == backend.SignedOut {
			evMu.Lock()
			signedOut++
			evMu.Unlock()
		}
	})
	defer unsub()

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var leads []domain.Lead
			errs <- c.SelectAll(context.Background(), domain.TableLeads, backend.NewestFirst, &leads)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("SelectAll: %v", err)
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if refreshes != 1 {
		t.Fatalf("refresh calls = %d, want 1", refreshes)
	}
	evMu.Lock()
	defer evMu.Unlock()
	if signedOut != 0 {
		t.Fatalf("signed out %d times", signedOut)
	}
	if stored, _ := store.Load(); stored == nil || stored.RefreshToken != "r2" {
		t.Fatalf("stored session = %+v", stored)
	}
	for _, r := range f.requests() {
		if r.Path == "/rest/v1/leads" && r.Auth != "Bearer "+fresh {
			t.Fatalf("table call went out with %q", r.Auth)
		}
	}
}

func TestGetSessionFailedRefreshClears(t *testing.T) {
	f := &fakeSupabase{handlers: map[string]http.HandlerFunc{
		"POST /auth/v1/token": jsonHandler(400, `{"error":"invalid_grant","error_description":"Refresh Token Not Found"}`),
	}}
	store := backend.NewMemorySessionStore(&backend.Session{
		AccessToken: "old", RefreshToken: "r1", ExpiresAt: time.Now().Add(-time.Minute),
	})
	c := newTestClient(t, f, WithSessionStore(store))

	s, err := c.GetSession(context.Background())
	if s != nil || err == nil {
		t.Fatalf("GetSession = %v, %v", s, err)
	}
	if stored, _ := store.Load(); stored != nil {
		t.Fatal("expected session cleared after failed refresh")
	}
}

func TestSignOutClearsEvenOnRemoteFailure(t *testing.T) {
	f := &fakeSupabase{handlers: map[string]http.HandlerFunc{
		"POST /auth/v1/logout": jsonHandler(500, `{"msg":"boom"}`),
	}}
	store := backend.NewMemorySessionStore(&backend.Session{AccessToken: "a", ExpiresAt: time.Now().Add(time.Hour)})
	c := newTestClient(t, f, WithSessionStore(store))

	var gotOut bool
	c.OnAuthStateChange(func(evt backend.AuthEvent, s *backend.Session) { gotOut = evt == backend.SignedOut && s == nil })

	if err := c.SignOut(context.Background()); err == nil {
		t.Fatal("expected remote error to surface")
	}
	if stored, _ := store.Load(); stored != nil {
		t.Fatal("local session should be cleared")
	}
	if !gotOut {
		t.Fatal("expected SIGNED_OUT notification")
	}
}

func TestInvalidTableName(t *testing.T) {
	c := New("http://127.0.0.1:1", "k")
	if err := c.Delete(context.Background(), "leads;drop", "1"); err == nil {
		t.Fatal("expected invalid table error")
	}
}
