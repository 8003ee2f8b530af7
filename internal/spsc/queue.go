// Package spsc provides a bounded lock-free queue for exactly one producer
// goroutine and one consumer goroutine.
//
// The producer exclusively owns the head counter, the consumer the tail
// counter, so neither counter is ever written by two goroutines and no lock
// is needed. Each side reads the other side's counter with an atomic load
// (acquire) and publishes its own with an atomic store (release); the
// release store of head after the slot write is what guarantees the
// consumer never observes a published position before the item behind it.
//
// This structure is SPSC only. A second producer or consumer corrupts it;
// multi-producer designs need CAS retry loops and belong in a different
// type.
package spsc

import (
	"fmt"
	"sync/atomic"
)

type pad [56]byte // pushes the neighbouring counter onto its own cache line

// Queue is a fixed-capacity single-producer single-consumer ring.
type Queue[T any] struct {
	head atomic.Uint64 // next write position, producer-owned
	_    pad
	tail atomic.Uint64 // next read position, consumer-owned
	_    pad
	mask uint64
	buf  []T
}

// New creates a queue. capacity must be a power of two and at least 2.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("spsc: capacity %d is not a power of two >= 2", capacity)
	}
	return &Queue[T]{
		mask: uint64(capacity - 1),
		buf:  make([]T, capacity),
	}, nil
}

// TryPush enqueues item. Producer goroutine only. Returns false when the
// queue is full, leaving it unchanged; the caller decides whether to drop,
// retry or back off, and keeps its own drop counter.
func (q *Queue[T]) TryPush(item T) bool {
	head := q.head.Load() // own counter, no other writer
	next := head + 1
	tail := q.tail.Load() // acquire: must see the consumer's progress
	if next-tail > q.mask {
		return false
	}
	q.buf[head&q.mask] = item
	q.head.Store(next) // release: slot write is visible before the position
	return true
}

// TryPop dequeues into *item. Consumer goroutine only. Returns false when
// the queue is empty.
func (q *Queue[T]) TryPop(item *T) bool {
	tail := q.tail.Load()
	head := q.head.Load() // acquire: must see the producer's progress
	if tail == head {
		return false
	}
	*item = q.buf[tail&q.mask]
	q.tail.Store(tail + 1) // release: frees the slot for the producer
	return true
}

// Cap returns the queue capacity.
func (q *Queue[T]) Cap() int { return len(q.buf) }

// Len returns the current element count. Approximate under concurrent use;
// monitoring only, never a correctness input.
func (q *Queue[T]) Len() int {
	return int(q.head.Load() - q.tail.Load())
}

// IsEmpty reports whether the queue looks empty. Monitoring only.
func (q *Queue[T]) IsEmpty() bool {
	return q.tail.Load() == q.head.Load()
}

// IsFull reports whether the next push would fail. Monitoring only.
func (q *Queue[T]) IsFull() bool {
	return q.head.Load()+1-q.tail.Load() > q.mask
}

// Utilization returns fill level in [0,1]. Monitoring only.
func (q *Queue[T]) Utilization() float64 {
	return float64(q.Len()) / float64(len(q.buf))
}
