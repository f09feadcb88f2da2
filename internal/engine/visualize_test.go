package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/amarogs/simtravel/internal/vehicle"
)

func TestStepForVisualizationReportsTheAdvancedTick(t *testing.T) {
	Convey("Given a freshly built engine", t, func() {
		v := vehicle.New(1, 0, 0)
		e := newTestEngine(t, []*vehicle.Vehicle{v})

		Convey("StepForVisualization advances one tick and reports it in the snapshot", func() {
			snap := e.StepForVisualization(3)
			So(snap.Repetition, ShouldEqual, 3)
			So(snap.Tick, ShouldEqual, 1)
			So(snap.Grid, ShouldEqual, e.Grid)
			So(snap.Vehicles, ShouldResemble, e.Vehicles)
		})
	})
}
