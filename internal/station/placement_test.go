package station

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/amarogs/simtravel/internal/citybuilder"
	"github.com/amarogs/simtravel/internal/grid"
)

func TestDeriveCounts(t *testing.T) {
	Convey("DeriveCounts rounds up to a perfect square multiple of 4", t, func() {
		_, n := DeriveCounts(2, 10)
		So(n, ShouldEqual, 16)

		_, n = DeriveCounts(2, 16)
		So(n, ShouldEqual, 16)

		_, n = DeriveCounts(2, 17)
		So(n, ShouldEqual, 36)
	})
}

func testCity(t *testing.T) *grid.Grid {
	g, err := citybuilder.Build(citybuilder.Params{RoundaboutSideLength: 6, AvenueLength: 1, Scale: 1})
	So(err, ShouldBeNil)
	return g
}

func TestPlaceCentral(t *testing.T) {
	Convey("Given a small city with a central layout", t, func() {
		g := testCity(t)
		stations, area, err := Place(g, Params{Layout: Central, MinChargersPerStation: 2, MinDistributedStations: 4})
		So(err, ShouldBeNil)

		Convey("There is exactly one station", func() {
			So(len(stations), ShouldEqual, 1)
		})

		Convey("Every drivable cell's service area contains that station", func() {
			for _, id := range g.All() {
				So(area[id], ShouldResemble, stations)
			}
		})
	})
}

func TestPlaceFour(t *testing.T) {
	Convey("Given a small city with a four-quadrant layout", t, func() {
		g := testCity(t)
		stations, area, err := Place(g, Params{Layout: Four, MinChargersPerStation: 2, MinDistributedStations: 4})
		So(err, ShouldBeNil)

		Convey("There are exactly four stations", func() {
			So(len(stations), ShouldEqual, 4)
		})

		Convey("Every drivable cell maps to exactly one station", func() {
			for _, id := range g.All() {
				So(len(area[id]), ShouldEqual, 1)
			}
		})
	})
}

func TestPlaceDistributed(t *testing.T) {
	Convey("Given a small city with a distributed layout", t, func() {
		g := testCity(t)
		stations, area, err := Place(g, Params{
			Layout:                 Distributed,
			MinChargersPerStation:  2,
			MinDistributedStations: 4,
			DistrictsPerSide:       2,
		})
		So(err, ShouldBeNil)

		Convey("The station count is a perfect square multiple of 4", func() {
			So(len(stations), ShouldEqual, 4)
		})

		Convey("Every station sits on a street cell", func() {
			for _, s := range stations {
				So(g.Cell(s.Cell).Type, ShouldEqual, grid.Street)
			}
		})

		Convey("The service area covers every drivable cell", func() {
			So(len(area), ShouldEqual, g.NumCells())
		})
	})
}
