// Package queue provides the bounded hand-off queues that connect the
// pipeline stages, plus the broker payloads mirrored out for external
// consumers.  A queue transfers ownership of the item it carries: the
// producer must not touch it after a successful put.
package queue

import (
	"context"
)

// Queue is a bounded FIFO built on a buffered channel.  Take blocks
// while empty and Put blocks while full, which is what gives the
// pipeline its backpressure; both are woken by context cancellation so
// a parked stage can be shut down with an empty queue.
type Queue[T any] struct {
	ch chan T
}

// NewBounded builds a queue with the given capacity (minimum 1).
func NewBounded[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Put enqueues v, blocking while the queue is full.  It returns the
// context's error if cancelled while waiting.
func (q *Queue[T]) Put(ctx context.Context, v T) error {
	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPut enqueues v only if there is room, reporting whether it did.
// This is the intake contract: a full queue means "not accepted", the
// caller is never stalled.
func (q *Queue[T]) TryPut(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// Take dequeues the next item, blocking while the queue is empty.  It
// returns the context's error if cancelled while waiting; items already
// queued at cancellation time are left in place.
func (q *Queue[T]) Take(ctx context.Context) (T, error) {
	var zero T
	select {
	case v := <-q.ch:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int { return len(q.ch) }

// Cap returns the queue's fixed capacity.
func (q *Queue[T]) Cap() int { return cap(q.ch) }
