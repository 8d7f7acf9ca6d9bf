package arch

import "sync"

// State holds one current value and broadcasts every replacement. A new
// observer is replayed the current value first.
type State[S any] struct {
	mu        sync.Mutex
	value     S
	observers observers[S]
	closed    bool
	box       *mailbox
}

// NewState creates a State holding initial.
func NewState[S any](initial S) *State[S] {
	return newState(initial, &mailbox{})
}

func newState[S any](initial S, box *mailbox) *State[S] {
	return &State[S]{value: initial, box: box}
}

// Value returns the current value.
func (s *State[S]) Value() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the current value. Each call produces exactly one
// notification per active observer, even when v equals the old value.
func (s *State[S]) Set(v S) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return &DisposedError{Op: "set state"}
	}
	s.value = v
	targets := s.observers.snapshot()
	s.box.push(func() {
		for _, o := range targets {
			o.deliver(v)
		}
	})
	s.mu.Unlock()

	s.box.drain()
	return nil
}

// Observe registers fn. fn receives the current value right away, then
// every later Set until the subscription is removed.
func (s *State[S]) Observe(fn func(S)) Subscription {
	o := newObserver(fn)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return noopSubscription{}
	}
	s.observers.add(o)
	v := s.value
	s.box.push(func() { o.deliver(v) })
	s.mu.Unlock()

	s.box.drain()

	return &subscription{detach: func() {
		o.active.Store(false)
		s.mu.Lock()
		s.observers.remove(o)
		s.mu.Unlock()
	}}
}

func (s *State[S]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.observers.clear()
}
