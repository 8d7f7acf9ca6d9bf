package arch

import "sync"

// mailbox runs queued notifications one at a time, in push order. Whoever
// finds the mailbox idle drains it; a push from inside a notification (or
// from another goroutine mid-drain) only queues and returns.
type mailbox struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

func (m *mailbox) push(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

func (m *mailbox) drain() {
	m.mu.Lock()
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true

	defer func() {
		if r := recover(); r != nil {
			m.mu.Lock()
			m.draining = false
			m.mu.Unlock()
			panic(r)
		}
	}()

	for len(m.queue) > 0 {
		next := m.queue[0]
		m.queue[0] = nil
		m.queue = m.queue[1:]
		m.mu.Unlock()

		next()

		m.mu.Lock()
	}
	m.draining = false
	m.mu.Unlock()
}
