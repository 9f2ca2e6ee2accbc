package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"welux-admin/internal/events"
)

func TestServeSSEStreamsHubEvents(t *testing.T) {
	hub := events.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		EventsHandler{Hub: hub}.ServeSSE(rec, req)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	hub.Emit("", events.TypeStreamChanged, map[string]any{"is_live": true})

	// Give the handler a moment to write the frame before hanging up.
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after cancel")
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"type":"ping"`) {
		t.Fatalf("no ping frame:\n%s", body)
	}
	if !strings.Contains(body, `"type":"stream_changed"`) {
		t.Fatalf("event not streamed:\n%s", body)
	}
	if hub.Clients() != 0 {
		t.Fatalf("subscriber leaked: %d", hub.Clients())
	}
}
