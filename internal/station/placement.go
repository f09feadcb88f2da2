package station

import (
	"fmt"

	"github.com/amarogs/simtravel/internal/citybuilder"
	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/simerr"
)

// Layout names a station placement policy.
type Layout string

const (
	// Central places every charger in a single station at the city's middle avenue cell.
	Central Layout = "central"
	// Four splits the city into four quadrants, one station per quadrant.
	Four Layout = "four"
	// Distributed scatters many small stations across a regular lattice of street cells.
	Distributed Layout = "distributed"
)

// Params configures Place.
type Params struct {
	Layout Layout
	// MinChargersPerStation is the floor on chargers at any one station (central and four
	// derive their own per-station capacity from the total; distributed uses this value
	// directly as each station's capacity).
	MinChargersPerStation int
	// MinDistributedStations is the floor on the distributed layout's station count; the
	// actual count is rounded up to the nearest value that is both a perfect square and a
	// multiple of 4, matching the avenues-and-roundabouts symmetry of the city grid.
	MinDistributedStations int
	// DistrictsPerSide is the number of districts per grid side used to determine which
	// district each distributed station (and each drivable cell) belongs to. It has no
	// effect on the central and four layouts, whose district counts are fixed at 1 and 4.
	DistrictsPerSide int
}

// DeriveCounts rounds minDStations up to the nearest value that is a perfect square and a
// multiple of 4, and returns that count along with the total charger count implied by
// minChargers per station.
func DeriveCounts(minChargers, minDStations int) (totalPlugs, totalStations int) {
	n := minDStations
	for n%4 != 0 || !isPerfectSquare(n) {
		n++
	}
	return minChargers * n, n
}

func isPerfectSquare(n int) bool {
	if n < 0 {
		return false
	}
	r := isqrt(n)
	return r*r == n
}

func isqrt(n int) int {
	if n == 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

type district struct {
	x0, y0, w, h int
}

func (d district) contains(g *grid.Grid, x, y int) bool {
	return inRange(x, d.x0, d.w, g.N) && inRange(y, d.y0, d.h, g.N)
}

func inRange(v, lo, span, n int) bool {
	d := v - lo
	d %= n
	if d < 0 {
		d += n
	}
	return d < span
}

// Place builds stations per p's layout and a service_area mapping every drivable cell to
// the (possibly shared) slice of stations that can serve it.
func Place(g *grid.Grid, p Params) ([]*Station, map[grid.CellID][]*Station, error) {
	totalPlugs, totalDStations := DeriveCounts(p.MinChargersPerStation, p.MinDistributedStations)

	var districts []district
	var stations []*Station

	switch p.Layout {
	case Central:
		districts = []district{{0, 0, g.N, g.N}}
		cell, ok := placementCell(g, districts[0])
		if !ok {
			return nil, nil, fmt.Errorf("station: no avenue cell found for central station: %w", simerr.ErrPlacementInfeasible)
		}
		stations = []*Station{New(0, cell, totalPlugs)}

	case Four:
		half := g.N / 2
		if half*2 != g.N {
			return nil, nil, fmt.Errorf("station: four layout requires an even grid side, got %d: %w", g.N, simerr.ErrConfigInvalid)
		}
		for _, x0 := range []int{0, half} {
			for _, y0 := range []int{0, half} {
				districts = append(districts, district{x0, y0, half, half})
			}
		}
		perStation := totalPlugs / 4
		for idx, d := range districts {
			cell, ok := placementCell(g, d)
			if !ok {
				return nil, nil, fmt.Errorf("station: no avenue cell found for district %v: %w", d, simerr.ErrPlacementInfeasible)
			}
			stations = append(stations, New(idx, cell, perStation))
		}

	case Distributed:
		if p.DistrictsPerSide <= 0 {
			return nil, nil, fmt.Errorf("station: distributed layout requires DistrictsPerSide > 0: %w", simerr.ErrConfigInvalid)
		}
		step := g.N / p.DistrictsPerSide
		if step <= 0 {
			return nil, nil, fmt.Errorf("station: grid side %d too small for %d districts: %w", g.N, p.DistrictsPerSide, simerr.ErrConfigInvalid)
		}
		for x0 := 0; x0 < g.N; x0 += step {
			for y0 := 0; y0 < g.N; y0 += step {
				districts = append(districts, district{x0, y0, step, step})
			}
		}

		side := isqrt(totalDStations)
		spacing := float64(g.N) / float64(side)
		id := 0
		for i := 0; i < side; i++ {
			for j := 0; j < side; j++ {
				x := int(float64(i) * spacing)
				y := int(float64(j) * spacing)
				cell, ok := citybuilder.NearestOfType(g, grid.Street, x, y)
				if !ok {
					return nil, nil, fmt.Errorf("station: no street cell found near (%d,%d): %w", x, y, simerr.ErrPlacementInfeasible)
				}
				stations = append(stations, New(id, cell, p.MinChargersPerStation))
				id++
			}
		}

	default:
		return nil, nil, fmt.Errorf("station: unknown layout %q: %w", p.Layout, simerr.ErrConfigInvalid)
	}

	serviceArea := buildServiceArea(g, districts, stations)
	return stations, serviceArea, nil
}

// placementCell finds the avenue cell nearest a district's midpoint, used by the central
// and four layouts to anchor their one station per district.
func placementCell(g *grid.Grid, d district) (grid.CellID, bool) {
	midX := d.x0 + d.w/2
	midY := d.y0 + d.h/2
	return citybuilder.NearestOfType(g, grid.Avenue, midX, midY)
}

// buildServiceArea assigns every station to the district containing its cell, then maps
// every drivable cell to its own district's station list. A district can end up with no
// station at all (a sparse distributed layout is the realistic case), leaving every cell
// in it mapped to an empty slice; the engine treats that as a starvation condition rather
// than this function treating it as a placement error.
func buildServiceArea(g *grid.Grid, districts []district, stations []*Station) map[grid.CellID][]*Station {
	perDistrict := make([][]*Station, len(districts))
	for _, s := range stations {
		c := g.Cell(s.Cell)
		for di, d := range districts {
			if d.contains(g, c.X, c.Y) {
				perDistrict[di] = append(perDistrict[di], s)
				break
			}
		}
	}

	serviceArea := make(map[grid.CellID][]*Station, g.NumCells())
	for _, id := range g.All() {
		c := g.Cell(id)
		for di, d := range districts {
			if d.contains(g, c.X, c.Y) {
				serviceArea[id] = perDistrict[di]
				break
			}
		}
	}
	return serviceArea
}
