package canvas

import (
	"context"
	"sync"
)

type request struct {
	name string
	fn   func(ctx context.Context)
	done chan struct{}
}

// mailbox is an unbounded FIFO queue drained by the reconciler loop. Producers never
// block, so engine callbacks can post from inside a reconciliation step.
type mailbox struct {
	mu     sync.Mutex
	queue  []request
	signal chan struct{}
	closed bool
}

func newMailbox() *mailbox {
	return &mailbox{signal: make(chan struct{}, 1)}
}

func (m *mailbox) push(req request) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	m.queue = append(m.queue, req)
	select {
	case m.signal <- struct{}{}:
	default:
	}
	return true
}

func (m *mailbox) drain() []request {
	m.mu.Lock()
	defer m.mu.Unlock()
	queue := m.queue
	m.queue = nil
	return queue
}

func (m *mailbox) close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.queue = nil
}

// closeAndDrain closes the mailbox and returns the requests still queued.
func (m *mailbox) closeAndDrain() []request {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	queue := m.queue
	m.queue = nil
	return queue
}
