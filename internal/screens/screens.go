// Package screens holds the engine side of every admin screen: the state a
// screen shows, and the backend calls its user actions make.
package screens

import (
	"context"
	"errors"

	"welux-admin/internal/backend"
	"welux-admin/internal/domain"
)

// ErrStale is returned when a response arrived after the screen moved on
// (a newer request started, or the screen unmounted). The response was
// dropped and the screen state is unchanged.
var ErrStale = errors.New("screens: response superseded")

// Alert is a blocking message the UI must show.
type Alert struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// alertFor builds the alert for a failed action. Validation errors carry
// their own title.
func alertFor(title string, err error) *Alert {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return &Alert{Title: ve.Title, Message: ve.Msg}
	}
	return &Alert{Title: title, Message: backend.Message(err)}
}

// inflight tracks the request a screen is waiting on. Callers hold the
// screen mutex.
type inflight struct {
	gen    uint64
	cancel context.CancelFunc
}

// begin supersedes any pending request and returns the context and
// generation of the new one.
func (f *inflight) begin(ctx context.Context) (context.Context, uint64) {
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	ctx, f.cancel = context.WithCancel(ctx)
	return ctx, f.gen
}

// finish reports whether gen is still current and releases its context.
func (f *inflight) finish(gen uint64) bool {
	if gen != f.gen {
		return false
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	return true
}

func (f *inflight) stop() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(title, message string) bool
}

type ConfirmFunc func(title, message string) bool

func (f ConfirmFunc) Confirm(title, message string) bool { return f(title, message) }
