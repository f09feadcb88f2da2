package metrics

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/amarogs/simtravel/internal/citybuilder"
	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/station"
	"github.com/amarogs/simtravel/internal/vehicle"
)

func testGrid(t *testing.T) *grid.Grid {
	g, err := citybuilder.Build(citybuilder.Params{RoundaboutSideLength: 6, AvenueLength: 1, Scale: 1})
	So(err, ShouldBeNil)
	return g
}

func TestSampleCountsEveryState(t *testing.T) {
	Convey("Given a fleet spread across several states", t, func() {
		g := testGrid(t)
		ids := g.All()

		moving := vehicle.New(1, ids[0], 0)
		moving.State = vehicle.TowardsDest
		idle := vehicle.New(2, ids[1], 0)
		idle.State = vehicle.AtDest

		r := New(g, nil, 1, nil)

		Convey("A single sample records one count per state", func() {
			r.Sample([]*vehicle.Vehicle{moving, idle}, nil)
			So(r.states[vehicle.TowardsDest], ShouldResemble, []int{1})
			So(r.states[vehicle.AtDest], ShouldResemble, []int{1})
			So(r.states[vehicle.Charging], ShouldResemble, []int{0})
		})
	})
}

func TestSampleTracksMobilityBetweenSamples(t *testing.T) {
	Convey("Given a vehicle that moves one cell between two samples", t, func() {
		g := testGrid(t)
		ids := g.All()
		v := vehicle.New(1, ids[0], 0)
		v.State = vehicle.TowardsDest

		r := New(g, nil, 2, nil)
		r.Sample([]*vehicle.Vehicle{v}, nil)

		next := g.Cell(ids[0]).Successors[0]
		v.Cell = next

		Convey("The second sample's mobility reflects the lattice distance moved", func() {
			r.Sample([]*vehicle.Vehicle{v}, nil)
			So(r.mobility[1], ShouldBeGreaterThan, 0)
		})
	})
}

func TestSampleTakesHeatMapSnapshotsAtConfiguredIndices(t *testing.T) {
	Convey("Given a recorder configured to snapshot at sample index 1", t, func() {
		g := testGrid(t)
		ids := g.All()
		v := vehicle.New(1, ids[0], 0)
		v.State = vehicle.TowardsDest

		r := New(g, nil, 1, []int{1})

		Convey("Only the second sample produces a snapshot", func() {
			r.Sample([]*vehicle.Vehicle{v}, nil)
			So(r.heatMapSnapshots, ShouldBeEmpty)
			r.Sample([]*vehicle.Vehicle{v}, nil)
			So(r.heatMapSnapshots, ShouldHaveLength, 1)
			So(r.heatMapSnapshots[0][v.Cell], ShouldBeGreaterThan, 0)
		})
	})
}

func TestOccupationTracksStationSeries(t *testing.T) {
	Convey("Given a station with one charger in use", t, func() {
		g := testGrid(t)
		st := station.New(1, g.All()[0], 2)
		st.ReserveCharger()

		r := New(g, []*station.Station{st}, 1, nil)

		Convey("Sample appends the station's current occupation", func() {
			r.Sample(nil, []*station.Station{st})
			So(r.occupation[st.ID], ShouldResemble, []int{1})
		})
	})
}

func TestFinishComputesGlobalMeans(t *testing.T) {
	Convey("Given vehicles with seeking and queueing histories", t, func() {
		g := testGrid(t)
		ids := g.All()
		v1 := vehicle.NewElectric(1, ids[0], 0, 10)
		v1.SeekingHistory = []int{2, 4}
		v1.QueueingHistory = []int{6}
		v2 := vehicle.NewElectric(2, ids[1], 0, 10)
		// v2 never sought a station: its empty histories must not skew the mean.

		r := New(g, nil, 1, nil)

		Convey("Finish averages only vehicles with a non-empty history", func() {
			rec := r.Finish([]*vehicle.Vehicle{v1, v2})
			So(rec.Seeking, ShouldEqual, 3.0)
			So(rec.Queueing, ShouldEqual, 6.0)
		})
	})
}
