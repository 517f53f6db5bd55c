// Package queue carries collection snapshots from the service to the persister.
//
// The queue is bounded and never blocks the producer: when it is full,
// Enqueue reports false and the caller saves synchronously instead.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/metrics"
)

const defaultQueueCapacity = 64

// Snapshot is a deep copy of the collection after a mutation.
// Seq increases with every mutation, so later snapshots supersede earlier ones.
type Snapshot struct {
	Seq        uint64
	At         time.Time
	Collection model.Collection
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a snapshot. It returns false if the queue is full or closed.
	Enqueue(ctx context.Context, s Snapshot) bool

	// Dequeue returns the channel snapshots arrive on. It is closed by Close
	// once the remaining snapshots have been received.
	Dequeue(ctx context.Context) <-chan Snapshot

	// Len returns the number of pending snapshots.
	Len(ctx context.Context) int

	// Close stops accepting snapshots.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	snapshots chan Snapshot
	capacity  int
	mu        sync.RWMutex
	closed    bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.snapshots = make(chan Snapshot, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a snapshot to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s Snapshot) bool { //nolint:gocritic // hugeParam: passed by value for channel semantics
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.snapshots <- s:
		metrics.UpdateQueueSize(len(q.snapshots))
		return true
	case <-ctx.Done():
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

// Dequeue returns the receive side of the queue.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Snapshot {
	return q.snapshots
}

// Len returns the number of pending snapshots.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.snapshots)
	metrics.UpdateQueueSize(size)
	return size
}

// Capacity returns the configured bound.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close stops accepting snapshots. Pending snapshots can still be received.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.snapshots)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
