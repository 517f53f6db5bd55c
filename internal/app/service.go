// Package service owns the arena collection. It serializes mutations,
// recomputes ratings through the replay engine after each one, and hands
// snapshots to the write-behind persister.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/arena/internal/adapters/mq/queue"
	"github.com/okian/arena/internal/adapters/mq/worker"
	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/domain/dedupe"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/replay"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Default service configuration.
const (
	defaultQueueSize  = 64
	defaultDedupeSize = 10_000
)

// Service implements the API dependencies for the arena system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     repository.Store
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	persister *worker.Persister
	cancelRun context.CancelFunc

	// Configuration
	queueSize  int
	dedupeSize int
	seed       bool
	now        func() time.Time

	// State
	coll    model.Collection
	seq     uint64
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:  defaultQueueSize,
		dedupeSize: defaultDedupeSize,
		seed:       true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	return s
}

// Start loads the collection, replays every arena and starts the persister.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting arena service...")

	coll, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load collection: %w", err)
	}
	dirty := false
	if len(coll.Arenas) == 0 && s.seed {
		coll = model.DefaultCollection()
		dirty = true
		s.logger.Info(ctx, "seeded default arena", logger.String("arena", coll.Arenas[0].Key))
	}
	for i := range coll.Arenas {
		if dropped := coll.Arenas[i].Prune(); dropped > 0 {
			dirty = true
			s.logger.Warn(ctx, "dropped invalid outcomes",
				logger.String("arena", coll.Arenas[i].Key),
				logger.Int("dropped", dropped),
			)
		}
		coll.Arenas[i] = s.replayArena(ctx, coll.Arenas[i])
	}
	s.coll = coll

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.persister = worker.NewPersister(s.queue, s.store, worker.WithLogger(s.logger.Named("persister")))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelRun = cancel
	go s.persister.Run(runCtx)

	s.started = true
	if dirty {
		s.commitLocked(ctx)
	}
	s.updateSizeMetricsLocked()

	s.logger.Info(ctx, "arena service started",
		logger.Int("arenas", len(s.coll.Arenas)),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains pending snapshots, writes the final state and stops the
// persister. The store stays open.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping arena service...")

	_ = s.queue.Close()
	shutdownErr := s.persister.Shutdown(ctx)
	s.cancelRun()

	// Anything the loop could not write in time is saved here.
	var err error
	if s.seq > 0 {
		err = s.persister.Persist(ctx, s.snapshotLocked())
	}
	s.started = false

	if shutdownErr != nil {
		s.logger.Warn(ctx, "persister shutdown incomplete", logger.Error(shutdownErr))
	}
	if err != nil {
		s.logger.Error(ctx, "final save failed", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "arena service stopped")
	return nil
}

// Flush synchronously saves the current collection.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}
	return s.persister.Persist(ctx, s.snapshotLocked())
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"queueCapacity": s.queueSize,
		"dedupeSize":    s.dedupeSize,
	}
	if !s.started {
		return stats
	}

	items, outcomes := 0, 0
	for _, a := range s.coll.Arenas {
		items += len(a.Items)
		outcomes += len(a.Outcomes)
	}
	stats["arenas"] = len(s.coll.Arenas)
	stats["items"] = items
	stats["outcomes"] = outcomes
	stats["queueLength"] = s.queue.Len(ctx)
	stats["dedupeEntries"] = s.deduper.Size()
	stats["sequence"] = s.seq
	stats["savedSequence"] = s.persister.Saved()
	return stats
}

// mutate applies fn to a copy of the arena with the given key. When fn
// succeeds the copy is replayed if asked, swapped in and persisted.
func (s *Service) mutate(ctx context.Context, key string, rerate bool, fn func(a *model.Arena) error) (model.Arena, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Arena{}, ErrNotStarted
	}
	idx := s.coll.Find(key)
	if idx < 0 {
		return model.Arena{}, fmt.Errorf("%w: %q", ErrArenaNotFound, key)
	}
	a := s.coll.Arenas[idx].Clone()
	if err := fn(&a); err != nil {
		return model.Arena{}, err
	}
	if rerate {
		a = s.replayArena(ctx, a)
	}
	s.coll.Arenas[idx] = a
	s.commitLocked(ctx)
	return a.Clone(), nil
}

// view runs fn on the arena with the given key under the read lock.
func (s *Service) view(key string, fn func(a *model.Arena) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}
	idx := s.coll.Find(key)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrArenaNotFound, key)
	}
	return fn(&s.coll.Arenas[idx])
}

func (s *Service) replayArena(ctx context.Context, a model.Arena) model.Arena {
	start := time.Now()
	out, res := replay.Arena(a)
	metrics.RecordReplay(float64(time.Since(start).Microseconds())/1000, res.Applied, res.Resets)
	if res.Skipped > 0 || res.Resets > 0 {
		s.logger.Warn(ctx, "replay adjusted history",
			logger.String("arena", a.Key),
			logger.Int("skipped", res.Skipped),
			logger.Int("resets", res.Resets),
		)
	}
	return out
}

func (s *Service) snapshotLocked() queue.Snapshot {
	return queue.Snapshot{Seq: s.seq, At: s.now(), Collection: s.coll.Clone()}
}

// commitLocked hands the current state to the persister. A full queue falls
// back to a synchronous save.
func (s *Service) commitLocked(ctx context.Context) {
	s.seq++
	snap := s.snapshotLocked()
	if !s.queue.Enqueue(ctx, snap) {
		s.logger.Warn(ctx, "snapshot queue full, saving synchronously", logger.Any("seq", snap.Seq))
		if err := s.persister.Persist(ctx, snap); err != nil {
			s.logger.Error(ctx, "synchronous save failed", logger.Error(err))
		}
	}
	s.updateSizeMetricsLocked()
}

func (s *Service) updateSizeMetricsLocked() {
	items := 0
	for _, a := range s.coll.Arenas {
		items += len(a.Items)
	}
	metrics.UpdateCollectionSize(len(s.coll.Arenas), items)
}
