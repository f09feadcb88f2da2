package citybuilder

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/amarogs/simtravel/internal/grid"
)

func smallParams() Params {
	return Params{RoundaboutSideLength: tileSize, AvenueLength: 1, Scale: 1}
}

func TestBuildRejectsBadParams(t *testing.T) {
	Convey("Given a roundabout side length that isn't the tile size", t, func() {
		p := smallParams()
		p.RoundaboutSideLength = 4

		Convey("Build reports an error instead of panicking", func() {
			_, err := Build(p)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestBuildProducesDrivableGrid(t *testing.T) {
	Convey("Given the smallest valid city", t, func() {
		p := smallParams()
		g, err := Build(p)
		So(err, ShouldBeNil)

		Convey("Its side matches Params.Side", func() {
			So(g.N, ShouldEqual, p.Side())
		})

		Convey("It has avenues, streets and roundabouts, but no house cells", func() {
			So(len(g.ByType(grid.Avenue)), ShouldBeGreaterThan, 0)
			So(len(g.ByType(grid.Street)), ShouldBeGreaterThan, 0)
			So(len(g.ByType(grid.Roundabout)), ShouldBeGreaterThan, 0)
			So(len(g.ByType(grid.House)), ShouldEqual, 0)
		})

		Convey("Every drivable cell has at least one successor", func() {
			for _, id := range g.All() {
				c := g.Cell(id)
				So(len(c.Successors), ShouldBeGreaterThan, 0)
			}
		})

		Convey("Priority successors are always a subset of successors", func() {
			for _, id := range g.All() {
				c := g.Cell(id)
				for _, ps := range c.PrioSuccessors {
					So(c.IsPrioSuccessor(ps), ShouldBeTrue)
					So(contains(c.Successors, ps), ShouldBeTrue)
				}
			}
		})

		Convey("A roundabout's circulating lane cells point to each other with priority", func() {
			rbCells := g.ByType(grid.Roundabout)
			foundPrioCycleEdge := false
			for _, id := range rbCells {
				if len(g.Cell(id).PrioSuccessors) > 0 {
					foundPrioCycleEdge = true
					break
				}
			}
			So(foundPrioCycleEdge, ShouldBeTrue)
		})
	})
}

func TestNearestOfType(t *testing.T) {
	Convey("Given a built city", t, func() {
		g, err := Build(smallParams())
		So(err, ShouldBeNil)

		Convey("NearestOfType(Roundabout) returns a real roundabout cell", func() {
			id, ok := NearestOfType(g, grid.Roundabout, 0, 0)
			So(ok, ShouldBeTrue)
			So(g.Cell(id).Type, ShouldEqual, grid.Roundabout)
		})
	})
}

func TestInDistrict(t *testing.T) {
	Convey("Given a built city", t, func() {
		g, err := Build(smallParams())
		So(err, ShouldBeNil)

		Convey("A district covering the whole grid contains every cell", func() {
			ids := InDistrict(g, 0, 0, g.N, g.N)
			So(len(ids), ShouldEqual, g.NumCells())
		})

		Convey("An empty district contains nothing", func() {
			ids := InDistrict(g, 0, 0, 0, 0)
			So(ids, ShouldBeEmpty)
		})
	})
}

func contains(ids []grid.CellID, target grid.CellID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
