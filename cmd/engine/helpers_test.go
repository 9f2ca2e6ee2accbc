package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRandomTokenIsHex(t *testing.T) {
	a, err := randomToken(16)
	if err != nil || len(a) != 32 {
		t.Fatalf("token = %q, %v", a, err)
	}
	b, _ := randomToken(16)
	if a == b {
		t.Fatal("tokens repeat")
	}
}

func TestShutdownHandlerGuards(t *testing.T) {
	stopped := make(chan struct{}, 1)
	h := shutdownHandler("abc", func(context.Context) error {
		stopped <- struct{}{}
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "10.0.0.5:1234"
	req.Header.Set(shutdownHeader, "abc")
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("remote caller = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	req.Header.Set(shutdownHeader, "wrong")
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d", rec.Code)
	}

	select {
	case <-stopped:
		t.Fatal("stop ran for a rejected request")
	default:
	}

	req = httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "[::1]:1234"
	req.Header.Set(shutdownHeader, "abc")
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("good request = %d", rec.Code)
	}
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop never ran")
	}
}

func TestFromLoopback(t *testing.T) {
	cases := map[string]bool{
		"127.0.0.1:80": true,
		"[::1]:80":     true,
		"localhost":    true,
		"127.0.0.2:80": true,
		"192.168.1.4":  false,
		"":             false,
	}
	for addr, want := range cases {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = addr
		if got := fromLoopback(r); got != want {
			t.Errorf("fromLoopback(%q) = %v, want %v", addr, got, want)
		}
	}
}
