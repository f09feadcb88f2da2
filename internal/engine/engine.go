// Package engine drives the per-tick agent state machine: destination and station
// trips, lane-keeping and yield-governed motion, station queueing and charging, and the
// two-phase occupancy commit that moves avenue and roundabout traffic before street
// traffic.
package engine

import (
	"math/rand"

	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/station"
	"github.com/amarogs/simtravel/internal/units"
	"github.com/amarogs/simtravel/internal/vehicle"
)

// Engine owns one repetition's mutable world: a grid, its stations and service area, a
// vehicle population, and the PRNG that alone supplies this repetition's randomness.
type Engine struct {
	Grid        *grid.Grid
	Units       *units.Units
	Config      Config
	Stations    []*station.Station
	ServiceArea map[grid.CellID][]*station.Station
	Vehicles    []*vehicle.Vehicle

	rng          *rand.Rand
	vehicleByID  map[int]*vehicle.Vehicle
	stationByIDM map[int]*station.Station
	allCells     []grid.CellID
	tick         int
}

// New builds an Engine over an already-placed city and station layout. The caller owns
// grid, stations, and serviceArea, and may share them read-only across every
// repetition's Engine, since only vehicle state and the grid's Occupied flags mutate
// during a run, and each repetition gets its own seeded rng.
func New(g *grid.Grid, u *units.Units, cfg Config, stations []*station.Station, serviceArea map[grid.CellID][]*station.Station, vehicles []*vehicle.Vehicle, seed int64) *Engine {
	e := &Engine{
		Grid:         g,
		Units:        u,
		Config:       cfg,
		Stations:     stations,
		ServiceArea:  serviceArea,
		Vehicles:     vehicles,
		rng:          rand.New(rand.NewSource(seed)),
		vehicleByID:  make(map[int]*vehicle.Vehicle, len(vehicles)),
		stationByIDM: make(map[int]*station.Station, len(stations)),
		allCells:     g.All(),
	}
	for _, v := range vehicles {
		e.vehicleByID[v.ID] = v
	}
	for _, s := range stations {
		e.stationByIDM[s.ID] = s
	}
	return e
}

// stationByID looks up a station by its integer id, as stored on a vehicle.
func (e *Engine) stationByID(id int) *station.Station {
	return e.stationByIDM[id]
}

// Restart returns every vehicle and station to its initial state and reseeds the PRNG,
// for running a fresh repetition over a shared grid/station layout without rebuilding
// either.
func (e *Engine) Restart(seed int64) {
	for _, v := range e.Vehicles {
		v.Restart()
	}
	for _, s := range e.Stations {
		s.Restart()
	}
	for _, id := range e.allCells {
		e.Grid.Cell(id).Occupied = false
	}
	e.rng = rand.New(rand.NewSource(seed))
	e.tick = 0
}

// Tick returns the number of ticks executed so far in this repetition.
func (e *Engine) Tick() int {
	return e.tick
}

func (e *Engine) randomDrivableCell() grid.CellID {
	return e.allCells[e.rng.Intn(len(e.allCells))]
}

func (e *Engine) chooseStation(cell grid.CellID) *station.Station {
	candidates := e.ServiceArea[cell]
	if len(candidates) == 0 {
		return nil
	}
	return candidates[e.rng.Intn(len(candidates))]
}

// sampleClamped draws from Normal(mean, std) and clamps the result to [lo, hi].
func (e *Engine) sampleClamped(mean, std, lo, hi float64) float64 {
	v := e.rng.NormFloat64()*std + mean
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (e *Engine) sampleIdleWait() int {
	mean := float64(e.Config.IdleLower+e.Config.IdleUpper) / 2
	std := e.Config.IdleStdCoeff * mean
	return int(e.sampleClamped(mean, std, float64(e.Config.IdleLower), float64(e.Config.IdleUpper)))
}

func (e *Engine) sampleDesiredCharge() float64 {
	mean := e.Config.AutonomyCells / 2
	return e.sampleClamped(mean, e.Config.DesiredChargeStd, e.Config.BatteryThresholdCells, e.Config.AutonomyCells)
}
