package engine

import (
	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/pathfinder"
	"github.com/amarogs/simtravel/internal/vehicle"
)

// Step advances the whole repetition by one tick. Traffic is resolved in two phases so
// that the priority backbone moves before the streets that feed it: Phase A moves every
// vehicle currently on an avenue or roundabout cell, commits, and only then does Phase B
// move everyone else. Within a phase vehicles are processed in slice order, and a claim
// made earlier in the phase is visible to the vehicles after it. QUEUEING vehicles hold
// no cell and are left to the station pass that follows both phases.
func (e *Engine) Step() {
	handled := make([]bool, len(e.Vehicles))
	phaseA := newPhaseState(e.Grid)
	for i, v := range e.Vehicles {
		if !v.State.Moving() {
			continue
		}
		if e.Grid.Cell(v.Cell).Type == grid.Street {
			continue
		}
		handled[i] = true
		e.stepVehicle(v, phaseA)
	}
	e.Grid.Commit(phaseA.flush())

	phaseB := newPhaseState(e.Grid)
	for i, v := range e.Vehicles {
		if v.State == vehicle.Queueing {
			continue
		}
		if handled[i] {
			continue // already handled in phase A
		}
		e.stepVehicle(v, phaseB)
	}
	e.Grid.Commit(phaseB.flush())

	e.processStations()
	e.tick++
}

// stepVehicle dispatches a single vehicle according to its current lifecycle state.
func (e *Engine) stepVehicle(v *vehicle.Vehicle, ps *phaseState) {
	switch v.State {
	case vehicle.AtDest:
		e.dispatchAtDest(v, ps)
	case vehicle.TowardsDest:
		e.dispatchTowardsDest(v, ps)
	case vehicle.TowardsSt:
		e.dispatchTowardsSt(v, ps)
	case vehicle.Charging:
		e.dispatchCharging(v, ps)
	case vehicle.NoBattery:
		// Terminal: nothing left to do for the rest of the repetition.
	}
}

func (e *Engine) dispatchAtDest(v *vehicle.Vehicle, ps *phaseState) {
	v.WaitTime--
	if v.WaitTime > 0 {
		return
	}
	if ps.isOccupied(v.Cell) {
		v.WaitTime = 1
		return
	}

	v.Destination = e.randomDrivableCell()
	for v.Destination == v.Cell {
		v.Destination = e.randomDrivableCell()
	}
	path, ok := pathfinder.Find(e.Grid, v.Cell, v.Destination)
	if !ok {
		v.WaitTime = 1
		return
	}
	v.Path = path
	v.State = vehicle.TowardsDest
	ps.claim(v.Cell)
}

func (e *Engine) dispatchTowardsDest(v *vehicle.Vehicle, ps *phaseState) {
	if v.IsElectric && v.Battery <= int(e.Config.BatteryThresholdCells) {
		if e.startSeekingStation(v, ps) {
			return
		}
	}

	before := v.Cell
	e.computeNextPosition(v, ps)
	e.maybeRepair(v)
	moved := v.Cell != before

	if v.IsElectric && moved {
		v.Battery--
	}

	if _, more := v.NextCell(); !more && v.Cell == v.Destination {
		ps.free(v.Cell)
		v.State = vehicle.AtDest
		v.WaitTime = e.sampleIdleWait()
		v.IdleHistory = append(v.IdleHistory, v.WaitTime)
		return
	}

	if v.IsElectric && v.Battery <= 0 {
		ps.free(v.Cell)
		v.State = vehicle.NoBattery
	}
}

// startSeekingStation attempts to redirect a low-battery EV, currently driving toward a
// destination, onto a station in its current cell's service area, reporting whether it
// succeeded. On success the vehicle has already taken this tick's move as TOWARDS_ST and
// dispatchTowardsDest should do nothing further; on failure (no covering station, or no
// route to the one chosen) the caller falls through to ordinary TOWARDS_DEST movement, so
// a vehicle with no station in range keeps inching toward its destination and eventually
// runs out of battery rather than stalling in place forever.
func (e *Engine) startSeekingStation(v *vehicle.Vehicle, ps *phaseState) bool {
	st := e.chooseStation(v.Cell)
	if st == nil {
		return false
	}
	path, ok := pathfinder.Find(e.Grid, v.Cell, st.Cell)
	if !ok {
		return false
	}
	v.StationID = st.ID
	v.HasStation = true
	v.Path = path
	v.Seeking = 0
	v.State = vehicle.TowardsSt

	before := v.Cell
	e.computeNextPosition(v, ps)
	e.maybeRepair(v)
	if v.Cell != before {
		v.Battery--
		if v.Battery <= 0 {
			ps.free(v.Cell)
			v.State = vehicle.NoBattery
		}
	}
	return true
}

func (e *Engine) dispatchTowardsSt(v *vehicle.Vehicle, ps *phaseState) {
	v.Seeking++

	before := v.Cell
	e.computeNextPosition(v, ps)
	e.maybeRepair(v)
	if v.Cell != before {
		v.Battery--
	}
	if v.Battery <= 0 {
		ps.free(v.Cell)
		v.State = vehicle.NoBattery
		return
	}

	if _, more := v.NextCell(); more {
		return
	}
	st := e.stationByID(v.StationID)
	if st == nil || v.Cell != st.Cell {
		return
	}

	ps.free(v.Cell)
	v.SeekingHistory = append(v.SeekingHistory, v.Seeking)
	v.State = vehicle.Queueing
	v.Queueing = 0
	st.Enqueue(v.ID)
}

func (e *Engine) dispatchCharging(v *vehicle.Vehicle, ps *phaseState) {
	v.WaitTime--
	if v.WaitTime > 0 {
		return
	}
	if ps.isOccupied(v.Cell) {
		v.WaitTime = 1
		return
	}

	st := e.stationByID(v.StationID)
	if st != nil {
		st.ReleaseCharger()
	}
	v.ChargingHistory = append(v.ChargingHistory, v.Battery)
	v.Battery = v.DesiredCharge
	v.HasStation = false
	v.StationID = 0

	// The trip is resumed, not restarted: v.Destination is left exactly as it was before
	// the vehicle diverted to charge.
	path, ok := pathfinder.Find(e.Grid, v.Cell, v.Destination)
	if !ok {
		v.Path = nil
	} else {
		v.Path = path
	}
	v.State = vehicle.TowardsDest
	// A charging vehicle holds no cell; claim its current one now that it re-enters
	// moving traffic, same as AT_DEST does when it starts a new trip.
	ps.claim(v.Cell)
}

// maybeRepair splices a fresh route onto a vehicle's path after a lane-change or
// priority-lane divert left it off its planned route.
func (e *Engine) maybeRepair(v *vehicle.Vehicle) {
	if !v.RecomputePath {
		return
	}
	v.RecomputePath = false
	target := v.Destination
	if v.State == vehicle.TowardsSt {
		if st := e.stationByID(v.StationID); st != nil {
			target = st.Cell
		}
	}
	repaired, ok := pathfinder.Repair(e.Grid, v.Path, v.Cell, target)
	if !ok {
		return
	}
	v.Path = repaired
}

// processStations runs after both grid phases have committed. QUEUEING vehicles hold no
// cell, so advancing a station's queue needs no occupancy commit of its own: every
// waiting vehicle's queueing counter ticks up, and then, for as long as chargers remain
// free, the station pulls the next vehicle off the front of its queue and starts it
// charging.
func (e *Engine) processStations() {
	for _, st := range e.Stations {
		for _, id := range st.QueueIDs() {
			if v, ok := e.vehicleByID[id]; ok {
				v.Queueing++
			}
		}
		for st.ReserveCharger() {
			id, ok := st.DequeueFront()
			if !ok {
				st.ReleaseCharger()
				break
			}
			v := e.vehicleByID[id]
			if v == nil {
				continue
			}
			v.QueueingHistory = append(v.QueueingHistory, v.Queueing)
			v.DesiredCharge = int(e.sampleDesiredCharge())
			v.WaitTime = int(e.Units.StepsToRechargeSteps(float64(v.DesiredCharge) - float64(v.Battery)))
			if v.WaitTime < 1 {
				v.WaitTime = 1
			}
			v.State = vehicle.Charging
		}
	}
}
