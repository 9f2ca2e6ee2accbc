package util

import (
	"context"
	"testing"
	"time"
)

func TestHostLimiterPerHost(t *testing.T) {
	hl := NewHostLimiter(0.001, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := hl.WaitURL(ctx, "https://a.supabase.co/rest/v1/leads"); err != nil {
		t.Fatalf("first call on host a: %v", err)
	}
	if err := hl.WaitURL(ctx, "https://www.youtube.com/watch?v=x"); err != nil {
		t.Fatalf("first call on host b: %v", err)
	}
	if err := hl.WaitURL(ctx, "https://A.supabase.co/rest/v1/jobs"); err == nil {
		t.Fatal("second call on host a should exceed the deadline")
	}
}

func TestHostLimiterDisabled(t *testing.T) {
	hl := NewHostLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if err := hl.WaitURL(context.Background(), "http://127.0.0.1/x"); err != nil {
			t.Fatalf("unexpected wait error: %v", err)
		}
	}
	var nilLimiter *HostLimiter
	if err := nilLimiter.WaitURL(context.Background(), "http://x"); err != nil {
		t.Fatalf("nil limiter: %v", err)
	}
}
