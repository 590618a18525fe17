package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options on a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created and registered", func() {
				So(manager, ShouldNotBeNil)
				manager.handCorrections.Inc()
				count, err := testutil.GatherAndCount(registry, "test_unit_hand_corrections_total")
				So(err, ShouldBeNil)
				So(count, ShouldEqual, 1)
			})
		})

		Convey("When two managers share a registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording hands", func() {
			before := testutil.ToFloat64(globalManager.handsRecorded.WithLabelValues("set"))
			RecordHandRecorded("set")

			Convey("Then the outcome counter grows", func() {
				So(testutil.ToFloat64(globalManager.handsRecorded.WithLabelValues("set")), ShouldEqual, before+1)
			})
		})

		Convey("When a store call fails", func() {
			before := testutil.ToFloat64(globalManager.storeErrors.WithLabelValues("save_current"))
			RecordStoreOperation("save_current", 1.5, errors.New("disk full"))
			RecordStoreOperation("save_current", 0.5, nil)

			Convey("Then only the failure is counted as an error", func() {
				So(testutil.ToFloat64(globalManager.storeErrors.WithLabelValues("save_current")), ShouldEqual, before+1)
			})
		})

		Convey("When gauges are updated", func() {
			UpdateActiveGame(true)
			UpdateRegisteredPlayers(4)

			Convey("Then they hold the latest value", func() {
				So(testutil.ToFloat64(globalManager.activeGame), ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.registeredPlayers), ShouldEqual, 4)
				UpdateActiveGame(false)
				So(testutil.ToFloat64(globalManager.activeGame), ShouldEqual, 0)
			})
		})

		Convey("When recording the rest", func() {
			So(func() {
				RecordMeldResolution("forfeited")
				RecordValidationFailure("enter_bid")
				RecordHandCorrection()
				RecordGameStarted("4")
				RecordGameCompleted("team")
				RecordHTTPRequest("games", "GET", "200")
				RecordHTTPRequestDuration("games", "GET", "200", 3)
				RecordErrorByEndpoint("games", "POST", "client_error")
				RecordErrorByType("client_error", "medium")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
