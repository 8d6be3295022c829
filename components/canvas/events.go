package canvas

import (
	"context"

	"go.uber.org/zap"
)

// eventQueue delivers outbound notifications in order on its own goroutine, so a
// notifier may call back into the reconciler (e.g. echo a changed template) without
// stalling the loop.
type eventQueue struct {
	target Notifier
	log    *zap.Logger
	inbox  *mailbox
	stop   chan struct{}
	done   chan struct{}
}

func newEventQueue(target Notifier, logger *zap.Logger) *eventQueue {
	return &eventQueue{
		target: target,
		log:    logger,
		inbox:  newMailbox(),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Notify queues event for delivery. It never blocks.
func (q *eventQueue) Notify(ctx context.Context, event Event) error {
	ctx = context.WithoutCancel(ctx)
	pushed := q.inbox.push(request{name: string(event.Type), fn: func(context.Context) {
		if err := q.target.Notify(ctx, event); err != nil {
			q.log.Warn("canvas: notify", zap.String("event", string(event.Type)), zap.Error(err))
		}
	}})
	if !pushed {
		q.log.Debug("canvas: dropped event after stop", zap.String("event", string(event.Type)))
	}
	return nil
}

// run delivers queued events until close is called, then delivers what is left.
func (q *eventQueue) run() {
	defer close(q.done)
	for {
		select {
		case <-q.inbox.signal:
			q.deliver(q.inbox.drain())
		case <-q.stop:
			q.deliver(q.inbox.closeAndDrain())
			return
		}
	}
}

func (q *eventQueue) deliver(reqs []request) {
	for _, req := range reqs {
		if req.fn != nil {
			q.safeCall(req)
		}
		if req.done != nil {
			close(req.done)
		}
	}
}

func (q *eventQueue) safeCall(req request) {
	defer func() {
		if rec := recover(); rec != nil {
			q.log.Error("canvas: notifier panicked", zap.String("event", req.name), zap.Any("panic", rec))
		}
	}()
	req.fn(context.Background())
}

// close stops the delivery goroutine after the pending events went out.
func (q *eventQueue) close() {
	close(q.stop)
	<-q.done
}

// flush waits until every event queued before the call was delivered.
func (q *eventQueue) flush(ctx context.Context) error {
	done := make(chan struct{})
	if !q.inbox.push(request{name: "flush", done: done}) {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
