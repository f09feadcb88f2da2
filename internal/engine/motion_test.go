package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/vehicle"
)

// laneChangeGrid builds three cells: from -> blocked (the priority successor, straight
// ahead) and from -> alt (a second successor, not priority, reachable only by a lane
// change). blocked is pre-occupied by a stationary vehicle, so a vehicle at from can only
// advance by diverting onto alt.
func laneChangeGrid(t *testing.T) (g *grid.Grid, from, blocked, alt grid.CellID) {
	g = grid.New(4)
	from = g.AddCell(0, 0, grid.Street)
	blocked = g.AddCell(1, 0, grid.Street)
	alt = g.AddCell(0, 1, grid.Street)
	g.SetSuccessors(from, []grid.CellID{blocked, alt}, []grid.CellID{blocked})
	g.SetSuccessors(blocked, nil, nil)
	g.SetSuccessors(alt, nil, nil)
	g.ComputePrioPredecessors()
	return g, from, blocked, alt
}

func newMotionTestEngine(t *testing.T, g *grid.Grid, pSearchAlt float64, vehicles []*vehicle.Vehicle) *Engine {
	cfg := testConfig()
	cfg.PSearchAlt = pSearchAlt
	return New(g, testUnits(), cfg, nil, nil, vehicles, 7)
}

func TestPriorityMoveNeverDivertsWhenPSearchAltIsZero(t *testing.T) {
	Convey("Given a vehicle whose priority successor is occupied and p_search_alt is 0", t, func() {
		g, from, blocked, _ := laneChangeGrid(t)
		g.Cell(blocked).Occupied = true

		v := vehicle.New(1, from, 0)
		v.Path = []grid.CellID{blocked}
		e := newMotionTestEngine(t, g, 0, []*vehicle.Vehicle{v})
		ps := newPhaseState(g)
		ps.claim(blocked)

		e.computeNextPosition(v, ps)

		Convey("the vehicle stays put, never diverting onto the open lane-change candidate", func() {
			So(v.Cell, ShouldEqual, from)
		})
	})
}

func TestPriorityMoveAlwaysDivertsWhenPSearchAltIsOneAndALegalCandidateExists(t *testing.T) {
	Convey("Given a vehicle whose priority successor is occupied and p_search_alt is 1", t, func() {
		g, from, blocked, alt := laneChangeGrid(t)
		g.Cell(blocked).Occupied = true

		v := vehicle.New(1, from, 0)
		v.Path = []grid.CellID{blocked}
		e := newMotionTestEngine(t, g, 1, []*vehicle.Vehicle{v})
		ps := newPhaseState(g)
		ps.claim(blocked)

		e.computeNextPosition(v, ps)

		Convey("the vehicle diverts onto the only legal lane-change candidate", func() {
			So(v.Cell, ShouldEqual, alt)
			So(v.RecomputePath, ShouldBeTrue)
		})
	})
}
