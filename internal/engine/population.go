package engine

import (
	"math/rand"

	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/vehicle"
)

// NewPopulation builds totalVehicles vehicles, the first totalEV of them electric, each
// placed on its own shuffled cell from cells. It mirrors the original's create_vehicles:
// every vehicle gets an independently sampled initial idle wait, and every EV an
// independently sampled initial battery, using the same clamped-normal distributions the
// stepping engine itself resamples from at a destination or a charging station.
func NewPopulation(rng *rand.Rand, cfg Config, cells []grid.CellID, totalVehicles, totalEV int) []*vehicle.Vehicle {
	pool := make([]grid.CellID, len(cells))
	copy(pool, cells)
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	sampler := &Engine{rng: rng, Config: cfg}

	vehicles := make([]*vehicle.Vehicle, 0, totalVehicles)
	for i := 0; i < totalVehicles && i < len(pool); i++ {
		idle := sampler.sampleIdleWait()
		if i < totalEV {
			battery := int(sampler.sampleDesiredCharge())
			vehicles = append(vehicles, vehicle.NewElectric(i, pool[i], idle, battery))
		} else {
			vehicles = append(vehicles, vehicle.New(i, pool[i], idle))
		}
	}
	return vehicles
}
