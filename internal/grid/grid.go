// Package grid implements the immutable cell topology: a toroidal square of cells
// addressed by small integer ids, each owning its successors, priority successors
// (straight-ahead, keep-in-lane moves) and priority predecessors (cells whose occupants
// force a yielding vehicle to wait). Cells are materialized once by a city builder and
// never change shape afterward; only the per-cell Occupied flag mutates, and only through
// a Grid's Commit step.
package grid

import "fmt"

// CellType classifies a cell for routing cost and station placement.
type CellType int

const (
	// House cells are non-drivable and absent from the drivable graph.
	House CellType = iota
	Street
	Avenue
	Roundabout
)

func (t CellType) String() string {
	switch t {
	case House:
		return "HOUSE"
	case Street:
		return "STREET"
	case Avenue:
		return "AVENUE"
	case Roundabout:
		return "ROUNDABOUT"
	default:
		return "UNKNOWN"
	}
}

// CellID is a dense index into a Grid's cell slice. Adjacency lists store CellIDs, not
// pointers, so the cyclic successor/predecessor graph has no ownership cycle.
type CellID int32

// Cell is immutable after Grid construction, save for the Occupied flag.
type Cell struct {
	X, Y int
	Type CellType

	// Successors are cells reachable in one step from this one.
	Successors []CellID
	// PrioSuccessors is the subset of Successors that are straight-ahead, same-lane moves.
	PrioSuccessors []CellID
	// PrioPredecessors are cells whose occupants would force a yielding entrant of this
	// cell to wait: if any is occupied, a non-priority move into this cell is illegal.
	PrioPredecessors []CellID

	Occupied bool
}

// IsPrioSuccessor reports whether candidate is one of cell's priority successors.
func (c *Cell) IsPrioSuccessor(candidate CellID) bool {
	for _, s := range c.PrioSuccessors {
		if s == candidate {
			return true
		}
	}
	return false
}

// Grid is a toroidal square of side N: coordinates wrap, and lattice distance is the
// wrapped (toroidal) Manhattan distance.
type Grid struct {
	N     int
	cells []Cell
	// index maps (x,y) to a CellID for drivable cells only; house cells have no entry.
	index map[[2]int]CellID
}

// New allocates a Grid of side n with no cells yet materialized. Builders call
// AddCell for every drivable position, then SetSuccessors for each cell and finally
// ComputePrioPredecessors.
func New(n int) *Grid {
	return &Grid{
		N:     n,
		index: make(map[[2]int]CellID),
	}
}

// AddCell materializes a new drivable cell at (x,y) and returns its id. House cells are
// never added: they are absent from the drivable graph by construction.
func (g *Grid) AddCell(x, y int, t CellType) CellID {
	id := CellID(len(g.cells))
	g.cells = append(g.cells, Cell{X: x, Y: y, Type: t})
	g.index[[2]int{x, y}] = id
	return id
}

// Lookup returns the CellID for a drivable cell at (x,y), or false if that position is a
// house cell (non-drivable). Coordinates outside [0,N) wrap around the torus.
func (g *Grid) Lookup(x, y int) (CellID, bool) {
	id, ok := g.index[[2]int{wrap(x, g.N), wrap(y, g.N)}]
	return id, ok
}

// Cell returns a pointer to the cell for id. The pointer is valid for the Grid's lifetime.
func (g *Grid) Cell(id CellID) *Cell {
	return &g.cells[id]
}

// SetSuccessors records the successor and priority-successor lists for a cell. Builders
// call this in a second pass, after every drivable cell has been added, so that Lookup
// resolves every neighbor.
func (g *Grid) SetSuccessors(id CellID, successors, prioSuccessors []CellID) {
	g.cells[id].Successors = successors
	g.cells[id].PrioSuccessors = prioSuccessors
}

// ComputePrioPredecessors derives, for every cell, the set of cells from which the
// priority-successor relation points into it: the inverse of PrioSuccessors. Builders
// call this once, after every SetSuccessors call has run.
func (g *Grid) ComputePrioPredecessors() {
	for from := range g.cells {
		for _, to := range g.cells[from].PrioSuccessors {
			g.cells[to].PrioPredecessors = append(g.cells[to].PrioPredecessors, CellID(from))
		}
	}
}

// NumCells returns the number of drivable cells in the grid.
func (g *Grid) NumCells() int {
	return len(g.cells)
}

// All returns every drivable cell id, in construction order.
func (g *Grid) All() []CellID {
	ids := make([]CellID, len(g.cells))
	for i := range g.cells {
		ids[i] = CellID(i)
	}
	return ids
}

// ByType returns every drivable cell id whose Type equals t.
func (g *Grid) ByType(t CellType) []CellID {
	var ids []CellID
	for i := range g.cells {
		if g.cells[i].Type == t {
			ids = append(ids, CellID(i))
		}
	}
	return ids
}

// LatticeDistance returns the toroidal Manhattan distance between two drivable cells.
func (g *Grid) LatticeDistance(a, b CellID) int {
	ca, cb := &g.cells[a], &g.cells[b]
	return latticeDistance(ca.X, ca.Y, cb.X, cb.Y, g.N)
}

// LatticeDistanceXY is LatticeDistance for raw coordinates, used by placement code before
// cell ids exist for every candidate point.
func (g *Grid) LatticeDistanceXY(x1, y1, x2, y2 int) int {
	return latticeDistance(x1, y1, x2, y2, g.N)
}

func latticeDistance(x1, y1, x2, y2, n int) int {
	dx := absInt(x1 - x2)
	if dx > n-dx {
		dx = n - dx
	}
	dy := absInt(y1 - y2)
	if dy > n-dy {
		dy = n - dy
	}
	return dx + dy
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Commit applies a batch of occupancy changes in one shot. Per spec.md §5 and Design
// Note §9, occupancy must never be mutated mid-phase; callers accumulate Delta values
// during a phase and Commit them all at once at the phase boundary.
type Delta struct {
	Cell     CellID
	Occupied bool
}

// Commit applies every delta in order. Later deltas for the same cell win.
func (g *Grid) Commit(deltas []Delta) {
	for _, d := range deltas {
		g.cells[d.Cell].Occupied = d.Occupied
	}
}

// CountOccupied returns the number of currently occupied cells, used by invariant checks.
func (g *Grid) CountOccupied() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Occupied {
			n++
		}
	}
	return n
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell(%d,%d,%s)", c.X, c.Y, c.Type)
}
