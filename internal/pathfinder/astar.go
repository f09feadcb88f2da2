// Package pathfinder finds routes through a grid.Grid with A*, using a toroidal lattice
// distance heuristic and a road-type-weighted edge cost, and repairs an in-progress path
// incrementally rather than always recomputing it from scratch.
package pathfinder

import (
	"container/heap"

	"github.com/amarogs/simtravel/internal/grid"
)

// CostFor returns the per-step cost of entering a cell of type t. Avenues are fast
// lanes and cost the least; streets are last-mile and penalized to push traffic onto
// avenues; roundabouts sit in between.
func CostFor(t grid.CellType) float64 {
	switch t {
	case grid.Avenue:
		return 1.0
	case grid.Roundabout:
		return 2.0
	case grid.Street:
		return 4.0
	default:
		return 1.0
	}
}

// laneChangePenalty is added to an edge's cost when the move is not a priority
// (keep-in-lane) successor, discouraging routes that weave across lanes.
const laneChangePenalty = 1.0

// node is one A* priority queue entry.
type node struct {
	cell   grid.CellID
	g      float64 // cost from the start
	f      float64 // g + heuristic
	parent *node
	index  int // heap index, maintained by container/heap
}

type openHeap []*node

func (h openHeap) Len() int            { return len(h) }
func (h openHeap) Less(i, j int) bool  { return h[i].f < h[j].f }
func (h openHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *openHeap) Push(x interface{}) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return x
}

// Find returns the sequence of cells from start to goal, exclusive of start and
// inclusive of goal, in the order a vehicle should traverse them. A nil path with
// ok=false means no path exists (the goal is unreachable from start).
func Find(g *grid.Grid, start, goal grid.CellID) (path []grid.CellID, ok bool) {
	if start == goal {
		return nil, true
	}

	open := &openHeap{}
	heap.Init(open)
	heap.Push(open, &node{cell: start, g: 0, f: heuristic(g, start, goal)})

	best := map[grid.CellID]*node{start: (*open)[0]}
	closed := make(map[grid.CellID]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		if closed[current.cell] {
			continue
		}
		closed[current.cell] = true

		if current.cell == goal {
			return reconstruct(current), true
		}

		curCell := g.Cell(current.cell)
		for _, next := range curCell.Successors {
			if closed[next] {
				continue
			}
			stepCost := CostFor(g.Cell(next).Type)
			if !curCell.IsPrioSuccessor(next) {
				stepCost += laneChangePenalty
			}
			tentativeG := current.g + stepCost

			existing, seen := best[next]
			if seen && tentativeG >= existing.g {
				continue
			}

			n := &node{
				cell:   next,
				g:      tentativeG,
				f:      tentativeG + heuristic(g, next, goal),
				parent: current,
			}
			best[next] = n
			heap.Push(open, n)
		}
	}

	return nil, false
}

// heuristic is the toroidal lattice distance to the goal. Since the cheapest possible
// edge (an avenue, taken in-lane) costs exactly 1, lattice distance never overestimates
// the true remaining cost, so A* stays admissible.
func heuristic(g *grid.Grid, from, goal grid.CellID) float64 {
	return float64(g.LatticeDistance(from, goal))
}

func reconstruct(n *node) []grid.CellID {
	var rev []grid.CellID
	for cur := n; cur.parent != nil; cur = cur.parent {
		rev = append(rev, cur.cell)
	}
	path := make([]grid.CellID, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}
