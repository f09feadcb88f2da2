package visualization

import (
	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/station"
	"github.com/amarogs/simtravel/internal/vehicle"
)

// Snapshot is one tick's worth of observable state, handed to the view pipeline after
// every rendered tick of a running repetition.
type Snapshot struct {
	Repetition int
	Tick       int
	Grid       *grid.Grid
	Vehicles   []*vehicle.Vehicle
	Stations   []*station.Station
}

// Cell is the grid-view's view-model: one cell's static type plus whatever is currently
// true of it (occupied, which vehicle state, a station marker).
type Cell struct {
	X, Y int

	Type string

	// Occupied is true if a vehicle currently holds this cell.
	Occupied bool
	// VehicleState is the occupying vehicle's state name, or "" if unoccupied.
	VehicleState string

	// Station is true if a station sits on this cell.
	Station bool
	// StationLoad is occupied/capacity chargers in use, meaningful only if Station.
	StationLoad     int
	StationCapacity int
}

// ToCells renders a Snapshot into the dense X,Y grid the grid view template expects.
func ToCells(s Snapshot) [][]Cell {
	n := s.Grid.N
	cells := make([][]Cell, n)
	for x := range cells {
		cells[x] = make([]Cell, n)
		for y := range cells[x] {
			cells[x][y] = Cell{X: x, Y: y}
		}
	}

	for _, id := range s.Grid.All() {
		c := s.Grid.Cell(id)
		cells[c.X][c.Y].Type = c.Type.String()
	}

	for _, st := range s.Stations {
		c := s.Grid.Cell(st.Cell)
		cells[c.X][c.Y].Station = true
		cells[c.X][c.Y].StationLoad = st.Occupied()
		cells[c.X][c.Y].StationCapacity = st.Capacity
	}

	for _, v := range s.Vehicles {
		if !v.State.Moving() {
			continue
		}
		c := s.Grid.Cell(v.Cell)
		cells[c.X][c.Y].Occupied = true
		cells[c.X][c.Y].VehicleState = v.State.String()
	}

	return cells
}
