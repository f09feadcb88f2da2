// Package citybuilder assembles a drivable grid.Grid by tiling four atomic 6x6 road
// patterns (a north-south avenue, an east-west avenue, a neutral residential block, and
// a roundabout) into a repeating super-block, then tiling that super-block to size.
package citybuilder

import (
	"fmt"

	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/simerr"
)

// Params controls city geometry. The three fields are the builder's only degrees of
// freedom; everything else (tile shapes, lane permissions) is fixed.
type Params struct {
	// RoundaboutSideLength is the cell side length of the roundabout tile itself. Only
	// the canonical 6-cell tile is supported; any other value is rejected.
	RoundaboutSideLength int
	// AvenueLength is the number of neutral-block tiles, on each side, between a
	// roundabout and the next one along an avenue (the original's block_scale).
	AvenueLength int
	// Scale is half the number of super-block repetitions per grid side (the original's
	// sqrt_roundabouts): a side holds 2*Scale super-blocks, so the total roundabout count
	// is Scale*Scale*4.
	Scale int
}

// Validate checks that Params describe a buildable city.
func (p Params) Validate() error {
	if p.RoundaboutSideLength != tileSize {
		return fmt.Errorf("citybuilder: roundabout_side_length must be %d, got %d: %w", tileSize, p.RoundaboutSideLength, simerr.ErrConfigInvalid)
	}
	if p.AvenueLength < 1 {
		return fmt.Errorf("citybuilder: avenue_length_between_roundabouts must be >= 1, got %d: %w", p.AvenueLength, simerr.ErrConfigInvalid)
	}
	if p.Scale < 1 {
		return fmt.Errorf("citybuilder: scale must be >= 1, got %d: %w", p.Scale, simerr.ErrConfigInvalid)
	}
	return nil
}

// superSize is the tile-grid side length of one super-block: AvenueLength neutral tiles,
// one avenue/roundabout tile, then AvenueLength more neutral tiles.
func (p Params) superSize() int {
	return 2*p.AvenueLength + 1
}

// Side returns N, the cell side length of the resulting toroidal grid.
func (p Params) Side() int {
	return p.Scale * 2 * p.superSize() * tileSize
}

// tileAt returns the atomic tile pattern covering grid position (x,y).
func (p Params) tileAt(x, y int) *[tileSize][tileSize]tileCell {
	super := p.superSize()
	tileX := (x / tileSize) % super
	tileY := (y / tileSize) % super
	mid := p.AvenueLength

	switch {
	case tileX == mid && tileY == mid:
		return &tileRB
	case tileY == mid:
		return &tileAvNS
	case tileX == mid:
		return &tileAvEW
	default:
		return &tileNG
	}
}

func (p Params) cellDefAt(x, y int) tileCell {
	n := p.Side()
	x = wrapInt(x, n)
	y = wrapInt(y, n)
	t := p.tileAt(x, y)
	return t[x%tileSize][y%tileSize]
}

func wrapInt(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Build materializes a grid.Grid satisfying Params: every non-house cell is added, its
// successors and priority successors are computed from tile lane permissions, and
// priority predecessors are derived for the whole grid.
func Build(p Params) (*grid.Grid, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.Side()
	g := grid.New(n)

	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			def := p.cellDefAt(x, y)
			if def.typ == grid.House {
				continue
			}
			g.AddCell(x, y, def.typ)
		}
	}

	for _, id := range g.All() {
		c := g.Cell(id)
		def := p.cellDefAt(c.X, c.Y)

		var successors, prioSuccessors []grid.CellID
		for d := DirN; d <= DirE; d++ {
			if def.perm[d] != Allowed {
				continue
			}
			dx, dy := delta[d][0], delta[d][1]
			nx, ny := c.X+dx, c.Y+dy
			neighborID, ok := g.Lookup(nx, ny)
			if !ok {
				continue
			}
			neighborDef := p.cellDefAt(nx, ny)
			if neighborDef.perm[opposite[d]] == WrongWay {
				continue
			}
			successors = append(successors, neighborID)
			if def.lane == d {
				prioSuccessors = append(prioSuccessors, neighborID)
			}
		}
		g.SetSuccessors(id, successors, prioSuccessors)
	}

	g.ComputePrioPredecessors()
	return g, nil
}
