package backend

import "sync"

// Listeners is the auth-state subscription registry shared by the
// backend implementations. Callbacks run synchronously in Emit.
type Listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(AuthEvent, *Session)
}

func (l *Listeners) Add(fn func(AuthEvent, *Session)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(AuthEvent, *Session))
	}
	id := l.next
	l.next++
	l.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.fns, id)
			l.mu.Unlock()
		})
	}
}

func (l *Listeners) Emit(evt AuthEvent, s *Session) {
	l.mu.Lock()
	fns := make([]func(AuthEvent, *Session), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(evt, s)
	}
}
