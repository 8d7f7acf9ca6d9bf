package arch

import (
	"context"
	"sync"
)

// Dispatcher decides where the results of background work are applied.
type Dispatcher interface {
	Dispatch(fn func())
}

// Immediate applies results on the worker goroutine that produced them,
// one at a time.
type Immediate struct {
	mu sync.Mutex
}

// Dispatch runs fn before returning.
func (d *Immediate) Dispatch(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// Looper is a single UI goroutine: everything dispatched to it runs on the
// goroutine that called Run, in dispatch order.
type Looper struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLooper creates a looper with room for size queued functions.
func NewLooper(size int) *Looper {
	if size < 1 {
		size = 64
	}
	return &Looper{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Dispatch queues fn. After Run has returned fn is dropped.
func (l *Looper) Dispatch(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Post is Dispatch for callers on other goroutines that want to run
// something on the UI goroutine.
func (l *Looper) Post(fn func()) {
	l.Dispatch(fn)
}

// Run processes queued functions until ctx is done.
func (l *Looper) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-ctx.Done():
			return
		}
	}
}
