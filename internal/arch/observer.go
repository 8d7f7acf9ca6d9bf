package arch

import "sync/atomic"

// Subscription detaches an observer.
type Subscription interface {
	Unsubscribe()
}

type observer[T any] struct {
	fn     func(T)
	active atomic.Bool
}

func newObserver[T any](fn func(T)) *observer[T] {
	o := &observer[T]{fn: fn}
	o.active.Store(true)
	return o
}

func (o *observer[T]) deliver(v T) {
	if o.active.Load() {
		o.fn(v)
	}
}

// observers is a subscription list. Callers hold the owner's lock.
type observers[T any] struct {
	list []*observer[T]
}

func (l *observers[T]) add(o *observer[T]) {
	l.list = append(l.list, o)
}

func (l *observers[T]) remove(o *observer[T]) {
	for i, cur := range l.list {
		if cur == o {
			l.list = append(l.list[:i:i], l.list[i+1:]...)
			return
		}
	}
}

func (l *observers[T]) snapshot() []*observer[T] {
	out := make([]*observer[T], len(l.list))
	copy(out, l.list)
	return out
}

func (l *observers[T]) clear() {
	for _, o := range l.list {
		o.active.Store(false)
	}
	l.list = nil
}

type subscription struct {
	once   atomic.Bool
	detach func()
}

func (s *subscription) Unsubscribe() {
	if s.once.CompareAndSwap(false, true) && s.detach != nil {
		s.detach()
	}
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}
