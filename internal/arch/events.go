package arch

import "sync"

// Event is a fire-once side-effect request, like "open this url".
type Event interface {
	EventName() string
}

// Events fans each posted event out to the observers subscribed at the time
// of the post. Nothing is retained or replayed.
type Events struct {
	mu        sync.Mutex
	observers observers[Event]
	closed    bool
	box       *mailbox
}

// NewEvents creates an event stream.
func NewEvents() *Events {
	return newEvents(&mailbox{})
}

func newEvents(box *mailbox) *Events {
	return &Events{box: box}
}

// Post delivers e to the current observers.
func (e *Events) Post(ev Event) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return &DisposedError{Op: "post event"}
	}
	targets := e.observers.snapshot()
	e.box.push(func() {
		for _, o := range targets {
			o.deliver(ev)
		}
	})
	e.mu.Unlock()

	e.box.drain()
	return nil
}

// Observe registers fn for events posted from now on.
func (e *Events) Observe(fn func(Event)) Subscription {
	o := newObserver(fn)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return noopSubscription{}
	}
	e.observers.add(o)

	return &subscription{detach: func() {
		o.active.Store(false)
		e.mu.Lock()
		e.observers.remove(o)
		e.mu.Unlock()
	}}
}

func (e *Events) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.observers.clear()
}
