package citybuilder

import "github.com/amarogs/simtravel/internal/grid"

// NearestOfType returns the cell of type t closest, by toroidal lattice distance, to
// (x,y). Ties are broken by construction order, which keeps the result deterministic
// across repetitions that share a grid.
func NearestOfType(g *grid.Grid, t grid.CellType, x, y int) (grid.CellID, bool) {
	candidates := g.ByType(t)
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0]
	bestDist := g.LatticeDistanceXY(x, y, g.Cell(best).X, g.Cell(best).Y)
	for _, c := range candidates[1:] {
		d := g.LatticeDistanceXY(x, y, g.Cell(c).X, g.Cell(c).Y)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, true
}

// InDistrict returns every drivable cell whose coordinates fall within the rectangle
// [x0,x0+w) x [y0,y0+h), wrapped toroidally.
func InDistrict(g *grid.Grid, x0, y0, w, h int) []grid.CellID {
	var ids []grid.CellID
	for _, id := range g.All() {
		c := g.Cell(id)
		dx := wrapInt(c.X-x0, g.N)
		dy := wrapInt(c.Y-y0, g.N)
		if dx < w && dy < h {
			ids = append(ids, id)
		}
	}
	return ids
}

// RoundaboutCenters returns the (x,y) grid coordinate of every roundabout's own center
// tile position.
func (p Params) RoundaboutCenters() [][2]int {
	super := p.superSize()
	blockCells := super * tileSize
	var centers [][2]int
	for bx := 0; bx < p.Scale*2; bx++ {
		for by := 0; by < p.Scale*2; by++ {
			cx := bx*blockCells + p.AvenueLength*tileSize + tileSize/2
			cy := by*blockCells + p.AvenueLength*tileSize + tileSize/2
			centers = append(centers, [2]int{cx, cy})
		}
	}
	return centers
}
