package metrics

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/a2a-subscribe/pkg/a2a"
)

func TestNewLifecycle(t *testing.T) {
	Convey("When creating a new metrics instance", t, func() {
		m := NewLifecycle()

		Convey("Then an empty snapshot has no averages to divide by", func() {
			snapshot := m.GetMetrics()

			So(snapshot["submitted"], ShouldEqual, int64(0))
			So(snapshot["avg_run_duration"], ShouldEqual, 0.0)
			So(snapshot["avg_delivery_latency"], ShouldEqual, 0.0)
		})
	})
}

func TestRecord(t *testing.T) {
	Convey("Given recorded runs and deliveries", t, func() {
		m := NewLifecycle()

		m.RecordSubmitted()
		m.RecordSubmitted()
		m.RecordFinished(a2a.TaskStateCompleted, time.Second)
		m.RecordFinished(a2a.TaskStateFailed, 3*time.Second)
		m.RecordDelivery(true, 100*time.Millisecond)
		m.RecordDelivery(false, 300*time.Millisecond)

		Convey("Then the snapshot reflects them", func() {
			snapshot := m.GetMetrics()

			So(snapshot["submitted"], ShouldEqual, int64(2))
			So(snapshot["finished"], ShouldResemble, map[string]int64{"completed": 1, "failed": 1})
			So(snapshot["avg_run_duration"], ShouldAlmostEqual, 2.0)
			So(snapshot["deliveries"], ShouldEqual, int64(2))
			So(snapshot["failed_deliveries"], ShouldEqual, int64(1))
			So(snapshot["avg_delivery_latency"], ShouldAlmostEqual, 0.2)
		})
	})
}
