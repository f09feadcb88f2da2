// Package vehicle holds the per-agent mutable state the stepping engine drives: current
// cell, planned path, lifecycle state, and (for electric vehicles) battery, the station
// they're bound for, and seeking/queueing histories. Vehicles have no autonomous
// behavior; every field here is read and written by the engine.
package vehicle

import "github.com/amarogs/simtravel/internal/grid"

// State is a vehicle's position in the trip-idle-recharge lifecycle.
type State int

const (
	// TowardsDest is driving toward a freely chosen destination.
	TowardsDest State = iota
	// AtDest is idling at a reached destination, counting down wait_time.
	AtDest
	// TowardsSt is driving toward a charging station (electric vehicles only).
	TowardsSt
	// Queueing is waiting in a station's FIFO queue for a free charger.
	Queueing
	// Charging holds a charger and is counting down to a full desired charge.
	Charging
	// NoBattery is terminal for the rest of the repetition: battery reached zero en route.
	NoBattery
)

func (s State) String() string {
	switch s {
	case TowardsDest:
		return "TOWARDS_DEST"
	case AtDest:
		return "AT_DEST"
	case TowardsSt:
		return "TOWARDS_ST"
	case Queueing:
		return "QUEUEING"
	case Charging:
		return "CHARGING"
	case NoBattery:
		return "NO_BATTERY"
	default:
		return "UNKNOWN"
	}
}

// Moving reports whether s holds a cell visible to other traffic.
func (s State) Moving() bool {
	return s == TowardsDest || s == TowardsSt
}

// Vehicle is one agent. Electric-only fields are present but inert on conventional
// vehicles: IsElectric gates whether the engine ever reads or writes them.
type Vehicle struct {
	ID int

	Cell        grid.CellID
	Destination grid.CellID
	// Path is a stack of cells to take, top (index 0) is the next step.
	Path          []grid.CellID
	State         State
	WaitTime      int
	RecomputePath bool

	IsElectric bool

	// Battery is in steps of travel remaining; meaningless for conventional vehicles.
	Battery int
	// DesiredCharge is the battery level a charging session tops up to.
	DesiredCharge int
	// StationID identifies the reserved station while TowardsSt, Queueing, or Charging.
	// A plain int (not a *station.Station) keeps this package independent of station,
	// which independently keeps station independent of vehicle.
	StationID  int
	HasStation bool
	// Seeking and Queueing count ticks spent in TOWARDS_ST and QUEUEING respectively,
	// reset to 0 each time the corresponding state is entered.
	Seeking  int
	Queueing int

	SeekingHistory  []int
	QueueingHistory []int
	IdleHistory     []int
	ChargingHistory []int

	initialCell     grid.CellID
	initialWaitTime int
	initialBattery  int
}

// New creates a conventional vehicle starting at initialCell, idling for
// initialWaitTime steps before its first trip.
func New(id int, initialCell grid.CellID, initialWaitTime int) *Vehicle {
	v := &Vehicle{
		ID:              id,
		initialCell:     initialCell,
		initialWaitTime: initialWaitTime,
	}
	v.Restart()
	return v
}

// NewElectric creates an electric vehicle whose battery starts at initialBattery.
func NewElectric(id int, initialCell grid.CellID, initialWaitTime, initialBattery int) *Vehicle {
	v := &Vehicle{
		ID:              id,
		IsElectric:      true,
		initialCell:     initialCell,
		initialWaitTime: initialWaitTime,
		initialBattery:  initialBattery,
	}
	v.Restart()
	return v
}

// Restart returns the vehicle to its original position with every attribute as at the
// start of the simulation: the state the engine calls between repetitions.
func (v *Vehicle) Restart() {
	v.Cell = v.initialCell
	v.Destination = 0
	v.Path = nil
	v.State = AtDest
	v.WaitTime = v.initialWaitTime
	v.RecomputePath = false
	v.IdleHistory = nil

	if v.IsElectric {
		v.Battery = v.initialBattery
		v.DesiredCharge = 0
		v.HasStation = false
		v.StationID = 0
		v.Seeking = 0
		v.Queueing = 0
		v.SeekingHistory = nil
		v.QueueingHistory = nil
		v.ChargingHistory = nil
	}
}

// NextCell returns the top of the path stack without popping it.
func (v *Vehicle) NextCell() (grid.CellID, bool) {
	if len(v.Path) == 0 {
		return 0, false
	}
	return v.Path[0], true
}

// PopCell removes and returns the top of the path stack.
func (v *Vehicle) PopCell() grid.CellID {
	c := v.Path[0]
	v.Path = v.Path[1:]
	return c
}

// PushCell pushes a cell back onto the top of the path stack, so that the next PopCell
// returns it again.
func (v *Vehicle) PushCell(c grid.CellID) {
	v.Path = append([]grid.CellID{c}, v.Path...)
}
