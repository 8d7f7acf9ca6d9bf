// Package navigator keeps the back stack of screens.
package navigator

import "sync"

// Screen is a view-model that can be pushed onto the stack.
type Screen interface {
	Name() string
	Dispose()
}

// Navigator moves between screens.
type Navigator interface {
	// Add pushes s and makes it the current screen.
	Add(s Screen)
	// Pop removes the current screen. It returns false when only the root
	// screen is left, which the caller treats as "exit".
	Pop() bool
}

// Stack is a Navigator that disposes every screen it pops.
type Stack struct {
	mu      sync.Mutex
	screens []Screen
	onTop   func(Screen)
}

// NewStack creates an empty stack. onTop, if set, is called with the new
// current screen after every Add and successful Pop.
func NewStack(onTop func(Screen)) *Stack {
	return &Stack{onTop: onTop}
}

// Add pushes s.
func (st *Stack) Add(s Screen) {
	st.mu.Lock()
	st.screens = append(st.screens, s)
	st.mu.Unlock()

	if st.onTop != nil {
		st.onTop(s)
	}
}

// Pop disposes and removes the current screen.
func (st *Stack) Pop() bool {
	st.mu.Lock()
	if len(st.screens) <= 1 {
		st.mu.Unlock()
		return false
	}
	top := st.screens[len(st.screens)-1]
	st.screens[len(st.screens)-1] = nil
	st.screens = st.screens[:len(st.screens)-1]
	current := st.screens[len(st.screens)-1]
	st.mu.Unlock()

	top.Dispose()
	if st.onTop != nil {
		st.onTop(current)
	}
	return true
}

// Top returns the current screen, or nil when the stack is empty.
func (st *Stack) Top() Screen {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.screens) == 0 {
		return nil
	}
	return st.screens[len(st.screens)-1]
}

// Len returns the number of screens on the stack.
func (st *Stack) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.screens)
}

// Each calls fn for every screen, bottom first.
func (st *Stack) Each(fn func(Screen)) {
	st.mu.Lock()
	screens := append([]Screen(nil), st.screens...)
	st.mu.Unlock()

	for _, s := range screens {
		fn(s)
	}
}

// Clear disposes every screen, top first.
func (st *Stack) Clear() {
	st.mu.Lock()
	screens := st.screens
	st.screens = nil
	st.mu.Unlock()

	for i := len(screens) - 1; i >= 0; i-- {
		screens[i].Dispose()
	}
}
