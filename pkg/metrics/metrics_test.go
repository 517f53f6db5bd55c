package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a dedicated registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register its collectors there", func() {
				So(manager, ShouldNotBeNil)
				manager.outcomesRecorded.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("arena"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metric names should use the namespace and subsystem", func() {
				manager.outcomesRecorded.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if strings.HasPrefix(f.GetName(), "test_arena_") {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording engine metrics", func() {
			before := testutil.ToFloat64(globalManager.outcomesRecorded)
			RecordOutcomeRecorded()
			RecordOutcomeRecorded()

			Convey("Then the counter should advance", func() {
				So(testutil.ToFloat64(globalManager.outcomesRecorded), ShouldEqual, before+2)
			})

			Convey("And the other recorders should not panic", func() {
				So(func() {
					RecordOutcomesDeleted(3)
					RecordOutcomeRejected("self_match")
					RecordDuplicateSubmission()
					RecordReplay(1.5, 10, 0)
					RecordReplay(2.5, 20, 1)
					UpdateCollectionSize(2, 7)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording persistence and HTTP metrics", func() {
			So(func() {
				RecordPersist(true, 3)
				RecordPersist(false, 4)
				UpdateQueueSize(1)
				UpdateQueueCapacity(64)
				RecordHTTPRequest("arenas", "GET", "200")
				RecordHTTPRequestDuration("arenas", "GET", "200", 12)
				RecordErrorByComponent("repository", "save_failed")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("outcomes", "POST", "client_error")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(10)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)

			Convey("Then the gauges should hold the last value", func() {
				So(testutil.ToFloat64(globalManager.queueCapacity), ShouldEqual, 64)
			})
		})

		Convey("When fetching the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
