package engine

import (
	"context"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"

	"github.com/amarogs/simtravel/atomic_float"
	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/metrics"
	"github.com/amarogs/simtravel/internal/station"
	"github.com/amarogs/simtravel/internal/units"
	"github.com/amarogs/simtravel/internal/vehicle"
)

// Result is one repetition's final, already-stopped Engine plus its finished Recording.
type Result struct {
	RepetitionIndex int
	Engine          *Engine
	Recording       metrics.Recording
}

// RecorderFactory builds the metrics.Recorder for repetition index i, over that
// repetition's (possibly shared) grid and station set.
type RecorderFactory func(repetitionIndex int) *metrics.Recorder

// Factory builds one repetition's independent world: a fresh vehicle population (and
// Engine wrapping it) seeded for repetition index i. Grid, stations, and service area are
// safe to share read-only across repetitions since only vehicle state and grid occupancy
// mutate, and each repetition's Engine owns its own vehicle slice and occupancy.
type Factory func(repetitionIndex int, seed int64) *Engine

// NewFactory builds the default Factory: every repetition gets its own fresh vehicle
// slice (via newVehicles) over the shared grid, stations, and units.
func NewFactory(g *grid.Grid, u *units.Units, cfg Config, stations []*station.Station, serviceArea map[grid.CellID][]*station.Station, newVehicles func() []*vehicle.Vehicle) Factory {
	return func(repetitionIndex int, seed int64) *Engine {
		return New(g, u, cfg, stations, serviceArea, newVehicles(), seed)
	}
}

// Run executes nrepetitions independent repetitions of totalSteps ticks each, spread
// across a fixed worker pool, and reports results as they finish. Each worker pulls the
// next unclaimed repetition index off a shared channel rather than being pre-assigned a
// fixed share, so a slow repetition never stalls a worker that could pick up more work;
// results fan in through channerics.Merge exactly as the teacher's episode-generating
// agent workers do. progress, if non-nil, is advanced atomically by 1 after every
// completed tick across every worker, letting a caller sample overall completion without
// synchronizing on the workers directly.
func Run(ctx context.Context, nworkers, nrepetitions, totalSteps int, seeds []int64, factory Factory, recorders RecorderFactory, progress *float64) ([]Result, error) {
	jobs := make(chan int)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer close(jobs)
		for i := 0; i < nrepetitions; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	done := gctx.Done()
	workers := make([]<-chan Result, 0, nworkers)
	for w := 0; w < nworkers; w++ {
		workers = append(workers, runWorker(gctx, jobs, totalSteps, seeds, factory, recorders, progress))
	}
	results := channerics.Merge(done, workers...)

	var collected []Result
	for r := range results {
		collected = append(collected, r)
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return collected, nil
}

// runWorker drains repetition indices from jobs until it's exhausted or cancelled,
// running each repetition's Engine to completion, sampling its metrics.Recorder every
// DeltaSteps ticks, and emitting the finished Result.
func runWorker(ctx context.Context, jobs <-chan int, totalSteps int, seeds []int64, factory Factory, recorders RecorderFactory, progress *float64) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		for {
			select {
			case i, ok := <-jobs:
				if !ok {
					return
				}
				e := factory(i, seeds[i])
				rec := recorders(i)
				delta := e.Config.DeltaSteps
				if delta <= 0 {
					delta = 1
				}
				for t := 0; t < totalSteps; t++ {
					select {
					case <-ctx.Done():
						return
					default:
					}
					e.Step()
					if progress != nil {
						atomic_float.AtomicAdd(progress, 1)
					}
					if (t+1)%delta == 0 {
						rec.Sample(e.Vehicles, e.Stations)
					}
				}
				select {
				case out <- Result{RepetitionIndex: i, Engine: e, Recording: rec.Finish(e.Vehicles)}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
