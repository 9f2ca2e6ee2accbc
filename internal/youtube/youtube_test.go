package youtube

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"welux-admin/internal/domain"
)

func TestParseVideoID(t *testing.T) {
	cases := map[string]string{
		"dQw4w9WgXcQ":     "dQw4w9WgXcQ",
		"  dQw4w9WgXcQ  ": "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s": "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc":               "dQw4w9WgXcQ",
		"https://www.youtube.com/live/dQw4w9WgXcQ":          "dQw4w9WgXcQ",
		"https://m.youtube.com/embed/dQw4w9WgXcQ":           "dQw4w9WgXcQ",
		"youtube.com/shorts/dQw4w9WgXcQ":                    "dQw4w9WgXcQ",
	}
	for in, want := range cases {
		got, err := ParseVideoID(in)
		if err != nil || got != want {
			t.Errorf("ParseVideoID(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	for _, bad := range []string{"", "short", "https://vimeo.com/123456789", "https://www.youtube.com/channel/UCxyz", "https://youtu.be/"} {
		_, err := ParseVideoID(bad)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("ParseVideoID(%q) error = %v, want ValidationError", bad, err)
		}
	}
}

func TestTitleFetcherPrefersOGTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/watch" || r.URL.Query().Get("v") != "dQw4w9WgXcQ" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `<html><head>
<title>Fallback - YouTube</title>
<meta property="og:title" content="Welux Summer Gala LIVE">
</head><body></body></html>`)
	}))
	defer srv.Close()

	f := NewTitleFetcher(nil)
	f.BaseURL = srv.URL
	got, err := f.Title(context.Background(), "dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if got != "Welux Summer Gala LIVE" {
		t.Fatalf("title = %q", got)
	}
}

func TestTitleFetcherFallsBackToTitleTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><head><title>Rooftop Party - YouTube</title></head></html>`)
	}))
	defer srv.Close()

	f := NewTitleFetcher(nil)
	f.BaseURL = srv.URL
	got, _ := f.Title(context.Background(), "dQw4w9WgXcQ")
	if got != "Rooftop Party" {
		t.Fatalf("title = %q", got)
	}
}

func TestTitleFetcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewTitleFetcher(nil)
	f.BaseURL = srv.URL
	if _, err := f.Title(context.Background(), "dQw4w9WgXcQ"); err == nil {
		t.Fatal("expected status error")
	}
}
