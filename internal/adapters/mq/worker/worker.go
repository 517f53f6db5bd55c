// Package worker runs the background persister that writes collection
// snapshots to the store.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/arena/internal/adapters/mq/queue"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

const defaultSaveTimeout = 10 * time.Second

// Saver writes a full collection.
type Saver interface {
	Save(ctx context.Context, c model.Collection) error
}

// Queue defines how the persister receives snapshots.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Snapshot
}

// Persister drains the snapshot queue into a Saver.
//
// Snapshots already waiting in the queue are coalesced, so only the newest
// one is written. Persist is also the synchronous path; it never writes a
// snapshot older than the last one saved.
type Persister struct {
	queue       Queue
	saver       Saver
	name        string
	saveTimeout time.Duration
	logger      logger.Logger

	mu    sync.Mutex
	saved uint64

	shutdown chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewPersister creates a persister reading from q and writing to s.
func NewPersister(q Queue, s Saver, opts ...Option) *Persister {
	p := &Persister{
		queue:       q,
		saver:       s,
		name:        "persister",
		saveTimeout: defaultSaveTimeout,
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named(p.name)
	}
	return p
}

// Run consumes snapshots until the queue is closed and drained, Shutdown
// is called, or ctx is cancelled.
func (p *Persister) Run(ctx context.Context) {
	defer close(p.done)

	ch := p.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			p.drain(ctx, ch)
			return
		case s, ok := <-ch:
			if !ok {
				return
			}
			p.persistLatest(ctx, ch, s)
		}
	}
}

// drain saves whatever is pending without waiting for more.
func (p *Persister) drain(ctx context.Context, ch <-chan queue.Snapshot) {
	select {
	case s, ok := <-ch:
		if ok {
			p.persistLatest(ctx, ch, s)
		}
	default:
	}
}

func (p *Persister) persistLatest(ctx context.Context, ch <-chan queue.Snapshot, s queue.Snapshot) { //nolint:gocritic // hugeParam: snapshot passed by value
	latest := s
	skipped := 0
coalesce:
	for {
		select {
		case next, ok := <-ch:
			if !ok {
				break coalesce
			}
			if next.Seq > latest.Seq {
				latest = next
			}
			skipped++
		default:
			break coalesce
		}
	}
	metrics.UpdateQueueSize(len(ch))
	if skipped > 0 {
		p.logger.Debug(ctx, "coalesced snapshots", logger.Int("skipped", skipped), logger.Any("seq", latest.Seq))
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.saveTimeout)
	defer cancel()
	if err := p.Persist(saveCtx, latest); err != nil {
		p.logger.Error(ctx, "background save failed", logger.Any("seq", latest.Seq), logger.Error(err))
	}
}

// Persist writes s unless a newer snapshot has already been saved.
func (p *Persister) Persist(ctx context.Context, s queue.Snapshot) error { //nolint:gocritic // hugeParam: snapshot passed by value
	p.mu.Lock()
	defer p.mu.Unlock()

	if s.Seq != 0 && s.Seq <= p.saved {
		return nil
	}

	start := time.Now()
	err := p.saver.Save(ctx, s.Collection)
	latency := float64(time.Since(start).Milliseconds())
	metrics.RecordPersist(err == nil, latency)
	if err != nil {
		metrics.RecordErrorByComponent("worker", "persist_error")
		metrics.RecordErrorByType("persist_error", "high")
		return fmt.Errorf("persist snapshot %d: %w", s.Seq, err)
	}
	if s.Seq > p.saved {
		p.saved = s.Seq
	}
	return nil
}

// Saved returns the sequence number of the newest saved snapshot.
func (p *Persister) Saved() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saved
}

// Shutdown stops the loop after saving anything still pending and waits for
// it to finish.
func (p *Persister) Shutdown(ctx context.Context) error {
	p.once.Do(func() { close(p.shutdown) })

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		p.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}
