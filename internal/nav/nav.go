// Package nav is the engine-side navigation stack the UI shell mirrors.
package nav

import "sync"

const (
	Login         = "Login"
	MainTabs      = "MainTabs"
	VlogList      = "VlogList"
	VlogAdd       = "VlogAdd"
	VlogEdit      = "VlogEdit"
	JobList       = "JobList"
	JobAdd        = "JobAdd"
	JobEdit       = "JobEdit"
	StreamControl = "StreamControl"
)

type Route struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params,omitempty"`
}

// Navigator is what screens need from the navigation shell.
type Navigator interface {
	Push(r Route)
	Pop()
	Replace(r Route)
	Reset(r Route)
	Current() Route
	// PopIf pops only while name is on top, and reports whether it did.
	PopIf(name string) bool
}

// Stack is a route stack that never becomes empty.
type Stack struct {
	mu       sync.Mutex
	routes   []Route
	onChange func(Route)
}

func NewStack(initial Route) *Stack {
	return &Stack{routes: []Route{initial}}
}

// OnChange registers a callback run after every change with the new top.
func (s *Stack) OnChange(fn func(Route)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Stack) Push(r Route) {
	s.mu.Lock()
	s.routes = append(s.routes, r)
	s.notifyLocked()
}

// Pop on a single-entry stack is a no-op.
func (s *Stack) Pop() {
	s.mu.Lock()
	if len(s.routes) > 1 {
		s.routes = s.routes[:len(s.routes)-1]
	}
	s.notifyLocked()
}

func (s *Stack) PopIf(name string) bool {
	s.mu.Lock()
	if len(s.routes) < 2 || s.routes[len(s.routes)-1].Name != name {
		s.mu.Unlock()
		return false
	}
	s.routes = s.routes[:len(s.routes)-1]
	s.notifyLocked()
	return true
}

func (s *Stack) Replace(r Route) {
	s.mu.Lock()
	s.routes[len(s.routes)-1] = r
	s.notifyLocked()
}

// Reset drops the history and starts over at r.
func (s *Stack) Reset(r Route) {
	s.mu.Lock()
	s.routes = []Route{r}
	s.notifyLocked()
}

func (s *Stack) Current() Route {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.routes[len(s.routes)-1]
}

func (s *Stack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.routes)
}

// notifyLocked releases s.mu before running the callback.
func (s *Stack) notifyLocked() {
	top := s.routes[len(s.routes)-1]
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(top)
	}
}

// Known reports whether name is a route the shell can mount.
func Known(name string) bool {
	switch name {
	case Login, MainTabs, VlogList, VlogAdd, VlogEdit, JobList, JobAdd, JobEdit, StreamControl:
		return true
	}
	return false
}
