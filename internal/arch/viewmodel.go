// Package arch holds the screen-side plumbing: a last-value state holder, a
// one-shot event stream, and ViewModel which ties both to cancellable
// background work.
package arch

import (
	"context"
	"sync"
)

// Work runs off the UI goroutine. It returns the function that applies its
// result on the dispatcher, or nil when there is nothing to apply.
type Work func(ctx context.Context) (apply func())

// Option configures a ViewModel.
type Option func(*options)

type options struct {
	dispatcher Dispatcher
	pool       *Pool
}

// WithDispatcher sets where results are applied. Defaults to Immediate.
func WithDispatcher(d Dispatcher) Option {
	return func(o *options) { o.dispatcher = d }
}

// WithPool sets the worker pool. Defaults to IO.
func WithPool(p *Pool) Option {
	return func(o *options) { o.pool = p }
}

// ViewModel owns one screen's state, its event stream and its background
// work. Embed it in a concrete screen view-model.
type ViewModel[S any] struct {
	state  *State[S]
	events *Events

	ctx    context.Context
	cancel context.CancelFunc

	dispatcher Dispatcher
	pool       *Pool

	mu       sync.Mutex
	gens     map[string]uint64
	inflight map[string]context.CancelFunc
	disposed bool
	wg       sync.WaitGroup
}

// NewViewModel creates a view-model whose state starts at initial.
func NewViewModel[S any](initial S, opts ...Option) *ViewModel[S] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dispatcher == nil {
		o.dispatcher = &Immediate{}
	}
	if o.pool == nil {
		o.pool = IO
	}

	box := &mailbox{}
	ctx, cancel := context.WithCancel(context.Background())

	return &ViewModel[S]{
		state:      newState(initial, box),
		events:     newEvents(box),
		ctx:        ctx,
		cancel:     cancel,
		dispatcher: o.dispatcher,
		pool:       o.pool,
		gens:       make(map[string]uint64),
		inflight:   make(map[string]context.CancelFunc),
	}
}

// ViewState returns the current state.
func (vm *ViewModel[S]) ViewState() S {
	return vm.state.Value()
}

// SetState replaces the current state and notifies observers.
func (vm *ViewModel[S]) SetState(s S) error {
	return vm.state.Set(s)
}

// PostEvent sends a one-shot event to the current event observers.
func (vm *ViewModel[S]) PostEvent(e Event) error {
	return vm.events.Post(e)
}

// ObserveState subscribes to state, replaying the current value.
func (vm *ViewModel[S]) ObserveState(fn func(S)) Subscription {
	return vm.state.Observe(fn)
}

// ObserveEvents subscribes to events posted from now on.
func (vm *ViewModel[S]) ObserveEvents(fn func(Event)) Subscription {
	return vm.events.Observe(fn)
}

// Launch runs work in the background. Launches share a generation counter
// per key: a new launch cancels the previous one with the same key, and a
// result is applied only if no newer launch for its key has started and the
// view-model is not disposed. Both checks happen when the dispatcher runs the
// result, which on a Looper can be long after work returned.
func (vm *ViewModel[S]) Launch(key string, work Work) error {
	vm.mu.Lock()
	if vm.disposed {
		vm.mu.Unlock()
		return &DisposedError{Op: "launch"}
	}
	if prev, ok := vm.inflight[key]; ok {
		prev()
	}
	vm.gens[key]++
	gen := vm.gens[key]
	ctx, cancel := context.WithCancel(vm.ctx)
	vm.inflight[key] = cancel
	vm.wg.Add(1)
	vm.mu.Unlock()

	go func() {
		defer vm.wg.Done()
		defer vm.finish(key, gen, cancel)

		if err := vm.pool.acquire(ctx); err != nil {
			return
		}
		apply := work(ctx)
		vm.pool.release()

		if apply == nil {
			return
		}
		vm.dispatcher.Dispatch(func() {
			if vm.isCurrent(key, gen) {
				apply()
			}
		})
	}()
	return nil
}

// isCurrent does not look at the launch ctx: finish cancels it as soon as the
// result is handed off, before a Looper gets to run it.
func (vm *ViewModel[S]) isCurrent(key string, gen uint64) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return !vm.disposed && vm.gens[key] == gen
}

func (vm *ViewModel[S]) finish(key string, gen uint64, cancel context.CancelFunc) {
	cancel()
	vm.mu.Lock()
	if vm.gens[key] == gen {
		delete(vm.inflight, key)
	}
	vm.mu.Unlock()
}

// Wait blocks until all launched work has returned and handed its result
// to the dispatcher.
func (vm *ViewModel[S]) Wait() {
	vm.wg.Wait()
}

// Disposed reports whether Dispose has been called.
func (vm *ViewModel[S]) Disposed() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.disposed
}

// Dispose cancels all background work and detaches every observer. It is
// safe to call more than once.
func (vm *ViewModel[S]) Dispose() {
	vm.mu.Lock()
	if vm.disposed {
		vm.mu.Unlock()
		return
	}
	vm.disposed = true
	vm.mu.Unlock()

	vm.cancel()
	vm.state.close()
	vm.events.close()
}
