package engine

import (
	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/vehicle"
)

// anyPrioPredecessorOccupied reports whether any cell holding priority into target is
// currently occupied. A yielding vehicle may never enter target while this holds: doing
// so would cut off a priority-lane vehicle already committed to that move.
func anyPrioPredecessorOccupied(g *grid.Grid, target grid.CellID, ps *phaseState) bool {
	for _, pred := range g.Cell(target).PrioPredecessors {
		if ps.isOccupied(pred) {
			return true
		}
	}
	return false
}

// move advances v onto next: frees v's current cell, claims next, and pops next off the
// path stack.
func move(v *vehicle.Vehicle, next grid.CellID, ps *phaseState) {
	ps.free(v.Cell)
	ps.claim(next)
	v.Cell = next
	v.PopCell()
}

// computeNextPosition attempts to advance v by one cell for this tick, implementing the
// two-tier right-of-way rule: a priority (keep-in-lane) move only has to check the target
// cell itself, while a non-priority (yield) move must also find every cell with priority
// into the target clear. Either way, when the preferred move is blocked the vehicle rolls
// p_search_alt for one alternative before settling for waiting in place.
func (e *Engine) computeNextPosition(v *vehicle.Vehicle, ps *phaseState) {
	next, ok := v.NextCell()
	if !ok {
		return
	}

	current := e.Grid.Cell(v.Cell)
	if current.IsPrioSuccessor(next) {
		e.computePriorityMove(v, current, next, ps)
		return
	}
	e.computeYieldMove(v, current, next, ps)
}

func (e *Engine) computePriorityMove(v *vehicle.Vehicle, current *grid.Cell, next grid.CellID, ps *phaseState) {
	if !ps.isOccupied(next) {
		move(v, next, ps)
		return
	}
	if e.rng.Float64() >= e.Config.PSearchAlt {
		return
	}
	// Straight ahead is blocked: scan successors in order and take the first legal lane
	// change, where legal means free and not itself yielding to an occupied prio lane.
	for _, alt := range current.Successors {
		if alt == next || ps.isOccupied(alt) || anyPrioPredecessorOccupied(e.Grid, alt, ps) {
			continue
		}
		move(v, alt, ps)
		v.RecomputePath = true
		return
	}
}

func (e *Engine) computeYieldMove(v *vehicle.Vehicle, current *grid.Cell, next grid.CellID, ps *phaseState) {
	blocked := ps.isOccupied(next) || anyPrioPredecessorOccupied(e.Grid, next, ps)
	if !blocked {
		move(v, next, ps)
		return
	}
	if e.rng.Float64() >= e.Config.PSearchAlt {
		return
	}
	// Yielding is taking too long: try diverting directly onto the priority lane's first
	// successor.
	if len(current.PrioSuccessors) == 0 {
		return
	}
	alt := current.PrioSuccessors[0]
	if alt == next || ps.isOccupied(alt) {
		return
	}
	move(v, alt, ps)
	v.RecomputePath = true
}
