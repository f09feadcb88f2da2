package pathfinder

import "github.com/amarogs/simtravel/internal/grid"

// Repair adapts an existing path to a vehicle's actual position, instead of always
// recomputing the whole route. path is ordered top-first: path[0] is the next cell to
// take, path[len(path)-1] is the eventual target.
//
// If the path still has a second waypoint, only the first leg is rerouted: a fresh A*
// runs from currentCell to that second waypoint, and the result is spliced onto the
// untouched remainder of the old path. Otherwise (the path was down to its last step, or
// empty) a full A* to target replaces it outright.
//
// ok is false only when the necessary A* search found no route.
func Repair(g *grid.Grid, path []grid.CellID, currentCell, target grid.CellID) (repaired []grid.CellID, ok bool) {
	if len(path) > 1 {
		secondWaypoint := path[1]
		detour, found := Find(g, currentCell, secondWaypoint)
		if !found {
			return nil, false
		}
		return append(detour, path[2:]...), true
	}
	return Find(g, currentCell, target)
}
