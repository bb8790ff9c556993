package pubsub

import "context"

// Listener wraps one subscription for callers that pull events in a loop.
type Listener[T any] struct {
	ch <-chan Event[T]
}

// NewListener subscribes to s for the lifetime of ctx.
func NewListener[T any](ctx context.Context, s Subscriber[T]) *Listener[T] {
	return &Listener[T]{ch: s.Subscribe(ctx)}
}

// Next blocks until an event arrives. It reports false when ctx is done
// or the subscription is closed.
func (l *Listener[T]) Next(ctx context.Context) (Event[T], bool) {
	select {
	case <-ctx.Done():
		return Event[T]{}, false
	case ev, ok := <-l.ch:
		return ev, ok
	}
}

// C exposes the subscription channel for use in select statements.
func (l *Listener[T]) C() <-chan Event[T] {
	return l.ch
}
