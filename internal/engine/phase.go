package engine

import "github.com/amarogs/simtravel/internal/grid"

// phaseState batches occupancy changes made during one phase (Phase A or Phase B) so
// the grid's authoritative Occupied flags only change once, at the phase boundary, via
// Grid.Commit. Within the phase, isOccupied consults this batch first: a cell claimed or
// freed earlier in the same phase is immediately visible to later vehicles in that
// phase, matching how vehicles are processed in sequence, while the grid itself never
// exposes a half-updated tick to anything outside the engine.
type phaseState struct {
	g       *grid.Grid
	claimed map[grid.CellID]bool
	freed   map[grid.CellID]bool
}

func newPhaseState(g *grid.Grid) *phaseState {
	return &phaseState{
		g:       g,
		claimed: make(map[grid.CellID]bool),
		freed:   make(map[grid.CellID]bool),
	}
}

func (p *phaseState) isOccupied(c grid.CellID) bool {
	if p.freed[c] {
		return false
	}
	if p.claimed[c] {
		return true
	}
	return p.g.Cell(c).Occupied
}

func (p *phaseState) claim(c grid.CellID) {
	delete(p.freed, c)
	p.claimed[c] = true
}

func (p *phaseState) free(c grid.CellID) {
	delete(p.claimed, c)
	p.freed[c] = true
}

// flush returns the accumulated deltas as a batch for Grid.Commit.
func (p *phaseState) flush() []grid.Delta {
	deltas := make([]grid.Delta, 0, len(p.claimed)+len(p.freed))
	for c := range p.claimed {
		deltas = append(deltas, grid.Delta{Cell: c, Occupied: true})
	}
	for c := range p.freed {
		deltas = append(deltas, grid.Delta{Cell: c, Occupied: false})
	}
	return deltas
}
