package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/arena/internal/adapters/mq/queue"
	worker "github.com/okian/arena/internal/adapters/mq/worker"
	model "github.com/okian/arena/internal/domain/model"
	logging "github.com/okian/arena/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logging.Init()
}

type mockSaver struct {
	mu     sync.Mutex
	saved  []model.Collection
	err    error
	gate   chan struct{}
	called chan struct{}
}

func newMockSaver() *mockSaver {
	return &mockSaver{called: make(chan struct{}, 100)}
}

func (m *mockSaver) Save(ctx context.Context, c model.Collection) error {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called <- struct{}{}
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, c)
	return nil
}

func (m *mockSaver) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func (m *mockSaver) last() model.Collection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[len(m.saved)-1]
}

func snapshot(seq uint64, name string) queue.Snapshot {
	c := model.DefaultCollection()
	c.Arenas[0].Name = name
	return queue.Snapshot{Seq: seq, At: time.Now(), Collection: c}
}

func TestPersister(t *testing.T) {
	convey.Convey("Given a persister over a snapshot queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		saver := newMockSaver()
		p := worker.NewPersister(q, saver,
			worker.WithName("test-persister"),
			worker.WithLogger(logging.Get()),
			worker.WithSaveTimeout(time.Second),
		)

		convey.Convey("When snapshots pile up before the loop starts", func() {
			q.Enqueue(ctx, snapshot(1, "one"))
			q.Enqueue(ctx, snapshot(2, "two"))
			q.Enqueue(ctx, snapshot(3, "three"))

			go p.Run(ctx)
			_ = q.Close()
			convey.So(p.Shutdown(ctx), convey.ShouldBeNil)

			convey.Convey("Then only the newest snapshot is written", func() {
				convey.So(saver.count(), convey.ShouldEqual, 1)
				convey.So(saver.last().Arenas[0].Name, convey.ShouldEqual, "three")
				convey.So(p.Saved(), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When snapshots arrive one at a time", func() {
			go p.Run(ctx)
			q.Enqueue(ctx, snapshot(1, "one"))
			<-saver.called
			q.Enqueue(ctx, snapshot(2, "two"))
			<-saver.called

			convey.So(p.Shutdown(ctx), convey.ShouldBeNil)

			convey.Convey("Then each one is written in order", func() {
				convey.So(saver.count(), convey.ShouldEqual, 2)
				convey.So(saver.last().Arenas[0].Name, convey.ShouldEqual, "two")
			})
		})

		convey.Convey("When a newer snapshot was saved synchronously", func() {
			convey.So(p.Persist(ctx, snapshot(5, "five")), convey.ShouldBeNil)
			convey.So(p.Persist(ctx, snapshot(4, "four")), convey.ShouldBeNil)

			convey.Convey("Then the older snapshot is skipped", func() {
				convey.So(saver.count(), convey.ShouldEqual, 1)
				convey.So(saver.last().Arenas[0].Name, convey.ShouldEqual, "five")
				convey.So(p.Saved(), convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When the store fails", func() {
			saver.err = errors.New("disk full")
			err := p.Persist(ctx, snapshot(1, "one"))

			convey.Convey("Then the error is returned and the sequence is not advanced", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "disk full")
				convey.So(p.Saved(), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When shutdown outlives its context", func() {
			saver.gate = make(chan struct{})
			go p.Run(ctx)
			q.Enqueue(ctx, snapshot(1, "one"))

			shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
			defer cancel()
			err := p.Shutdown(shortCtx)
			close(saver.gate)

			convey.Convey("Then it reports the timeout", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, context.DeadlineExceeded), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the run context is cancelled", func() {
			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan struct{})
			go func() {
				p.Run(runCtx)
				close(done)
			}()
			cancel()

			convey.Convey("Then the loop exits", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					t.Fatal("persister did not stop")
				}
				convey.So(p.Shutdown(ctx), convey.ShouldBeNil)
			})
		})
	})
}
