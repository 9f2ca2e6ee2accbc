package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestEveryRunsImmediatelyAndRepeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var n atomic.Int32
	done := make(chan struct{})
	go func() {
		Every(ctx, func() time.Duration { return 10 * time.Millisecond }, time.Second, "test", func(context.Context) error {
			if n.Add(1) == 3 {
				cancel()
			}
			return nil
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	if n.Load() < 3 {
		t.Fatalf("runs = %d", n.Load())
	}
}

func TestEveryPausedWhileIntervalIsZero(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var n atomic.Int32
	Every(ctx, func() time.Duration { return 0 }, 5*time.Millisecond, "paused", func(context.Context) error {
		n.Add(1)
		return nil
	})
	if n.Load() != 0 {
		t.Fatalf("paused task ran %d times", n.Load())
	}
}
