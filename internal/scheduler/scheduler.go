package scheduler

import (
	"context"
	"log"
	"time"
)

type Task func(ctx context.Context) error

// Every runs task immediately and then after each interval until ctx ends.
// interval is read before every wait, so a reloaded config takes effect on
// the next tick; a non-positive interval pauses the task and re-checks
// after idle.
func Every(ctx context.Context, interval func() time.Duration, idle time.Duration, name string, task Task) {
	run := func() {
		if err := task(ctx); err != nil {
			log.Printf("level=warn msg=\"task failed\" task=%s err=%v", name, err)
		}
	}
	if interval() > 0 {
		run()
	}

	for {
		d := interval()
		wait := d
		if wait <= 0 {
			wait = idle
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
			if d > 0 {
				run()
			}
		}
	}
}
