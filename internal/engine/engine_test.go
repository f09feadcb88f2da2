package engine

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/amarogs/simtravel/internal/citybuilder"
	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/station"
	"github.com/amarogs/simtravel/internal/units"
	"github.com/amarogs/simtravel/internal/vehicle"
)

func testCity(t *testing.T) *grid.Grid {
	g, err := citybuilder.Build(citybuilder.Params{RoundaboutSideLength: 6, AvenueLength: 1, Scale: 1})
	So(err, ShouldBeNil)
	return g
}

func testUnits() *units.Units {
	return units.New(units.Options{
		SpeedKmh:             30,
		CellLengthM:          5,
		SimSpeedCellsPerStep: 1,
		BatteryKwh:           40,
		CsPowerKw:            50,
		AutonomyKm:           200,
	})
}

func testConfig() Config {
	return Config{
		BatteryThresholdCells: 5,
		AutonomyCells:         100,
		DesiredChargeStd:      2,
		IdleLower:             1,
		IdleUpper:             3,
		IdleStdCoeff:          0.1,
		PSearchAlt:            1.0,
		DeltaSteps:            10,
		TotalSteps:            100,
	}
}

func newTestEngine(t *testing.T, vehicles []*vehicle.Vehicle) *Engine {
	g := testCity(t)
	return New(g, testUnits(), testConfig(), nil, map[grid.CellID][]*station.Station{}, vehicles, 1)
}

func TestStepAdvancesAnIdleVehicleToATrip(t *testing.T) {
	Convey("Given a vehicle idling with a zero wait time", t, func() {
		v := vehicle.New(1, 0, 0)
		e := newTestEngine(t, []*vehicle.Vehicle{v})

		Convey("Step moves it into TOWARDS_DEST with a claimed cell and a planned path", func() {
			e.Step()
			So(v.State, ShouldEqual, vehicle.TowardsDest)
			So(v.Path, ShouldNotBeEmpty)
			So(e.Grid.Cell(v.Cell).Occupied, ShouldBeTrue)
		})
	})
}

func TestStepEventuallyReachesDestination(t *testing.T) {
	Convey("Given a vehicle driving toward a destination", t, func() {
		v := vehicle.New(1, 0, 0)
		e := newTestEngine(t, []*vehicle.Vehicle{v})
		e.Step() // AT_DEST -> TOWARDS_DEST with a path planned

		Convey("Stepping until the path is exhausted lands it AT_DEST again", func() {
			dest := v.Destination
			for i := 0; i < 5000 && v.State != vehicle.AtDest; i++ {
				e.Step()
			}
			So(v.State, ShouldEqual, vehicle.AtDest)
			So(v.Cell, ShouldEqual, dest)
			So(e.Grid.Cell(v.Cell).Occupied, ShouldBeFalse)
		})
	})
}

func TestElectricVehicleDepletesAndStopsWithoutAStation(t *testing.T) {
	Convey("Given an electric vehicle with almost no battery and no station coverage", t, func() {
		v := vehicle.NewElectric(1, 0, 0, 1)
		e := newTestEngine(t, []*vehicle.Vehicle{v})

		Convey("It eventually runs out of battery and halts for good", func() {
			for i := 0; i < 50 && v.State != vehicle.NoBattery; i++ {
				e.Step()
			}
			So(v.State, ShouldEqual, vehicle.NoBattery)
			So(e.Grid.Cell(v.Cell).Occupied, ShouldBeFalse)

			before := v.Cell
			e.Step()
			So(v.Cell, ShouldEqual, before)
			So(v.State, ShouldEqual, vehicle.NoBattery)
		})
	})
}

func TestFullTripThroughAStation(t *testing.T) {
	Convey("Given an electric vehicle and a station covering its cell", t, func() {
		g := testCity(t)
		ids := g.All()
		start := ids[0]
		stationCell := ids[len(ids)/3]

		v := vehicle.NewElectric(1, start, 0, 3)
		st := station.New(1, stationCell, 1)
		serviceArea := map[grid.CellID][]*station.Station{}
		for _, id := range ids {
			serviceArea[id] = []*station.Station{st}
		}

		e := New(g, testUnits(), testConfig(), []*station.Station{st}, serviceArea, []*vehicle.Vehicle{v}, 7)

		Convey("It seeks the station, queues, charges, and resumes a trip", func() {
			sawQueueing, sawCharging, sawTowardsDest := false, false, false
			for i := 0; i < 5000; i++ {
				e.Step()
				switch v.State {
				case vehicle.Queueing:
					sawQueueing = true
				case vehicle.Charging:
					sawCharging = true
				case vehicle.TowardsDest:
					if sawCharging {
						sawTowardsDest = true
					}
				}
				if sawTowardsDest {
					break
				}
			}
			So(sawQueueing, ShouldBeTrue)
			So(sawCharging, ShouldBeTrue)
			So(sawTowardsDest, ShouldBeTrue)
			So(v.Battery, ShouldBeGreaterThan, 0)
			So(v.QueueingHistory, ShouldNotBeEmpty)
			So(v.SeekingHistory, ShouldNotBeEmpty)
		})
	})
}

func TestTwoVehiclesNeverOccupyTheSameCell(t *testing.T) {
	Convey("Given many vehicles sharing one city", t, func() {
		g := testCity(t)
		ids := g.All()
		vehicles := make([]*vehicle.Vehicle, 0, 30)
		for i := 0; i < 30; i++ {
			vehicles = append(vehicles, vehicle.New(i, ids[i%len(ids)], i%3))
		}
		e := New(g, testUnits(), testConfig(), nil, map[grid.CellID][]*station.Station{}, vehicles, 42)

		Convey("No two moving vehicles ever share a cell", func() {
			for i := 0; i < 200; i++ {
				e.Step()
				seen := map[grid.CellID]int{}
				for _, v := range vehicles {
					if v.State.Moving() {
						seen[v.Cell]++
					}
				}
				for _, count := range seen {
					So(count, ShouldBeLessThanOrEqualTo, 1)
				}
			}
		})
	})
}

func TestRestartReturnsToInitialState(t *testing.T) {
	Convey("Given a repetition that has run for a while", t, func() {
		v := vehicle.New(1, 0, 0)
		e := newTestEngine(t, []*vehicle.Vehicle{v})
		for i := 0; i < 20; i++ {
			e.Step()
		}

		Convey("Restart zeroes the tick counter and resets vehicles and occupancy", func() {
			e.Restart(99)
			So(e.Tick(), ShouldEqual, 0)
			So(v.State, ShouldEqual, vehicle.AtDest)
			So(e.Grid.CountOccupied(), ShouldEqual, 0)
		})
	})
}
