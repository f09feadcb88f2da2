/*
Simtravel runs a matrix of independent repetitions of the toroidal EV traffic
simulation to completion, records per-tick metrics for each, and writes one JSON
result document. Pass -visualize to instead serve a live websocket view of repetition
0: in that mode only repetition 0 runs and no result document is written.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amarogs/simtravel/atomic_float"
	"github.com/amarogs/simtravel/internal/citybuilder"
	"github.com/amarogs/simtravel/internal/cliflags"
	"github.com/amarogs/simtravel/internal/config"
	"github.com/amarogs/simtravel/internal/engine"
	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/metrics"
	"github.com/amarogs/simtravel/internal/persistence"
	"github.com/amarogs/simtravel/internal/station"
	"github.com/amarogs/simtravel/internal/units"
	"github.com/amarogs/simtravel/internal/vehicle"
	"github.com/amarogs/simtravel/internal/visualization"
)

func runApp(flags *cliflags.Flags) (err error) {
	cfg, err := config.FromYaml(flags.ConfigPath)
	if err != nil {
		return err
	}

	g, err := citybuilder.Build(citybuilder.Params{
		RoundaboutSideLength: cfg.RoundaboutSide,
		AvenueLength:         cfg.AvenueLength,
		Scale:                cfg.Scale,
	})
	if err != nil {
		return err
	}

	stations, serviceArea, err := station.Place(g, station.Params{
		Layout:                 cfg.StLayout,
		MinChargersPerStation:  cfg.MinPlugsPerStation,
		MinDistributedStations: cfg.MinNumStations,
		DistrictsPerSide:       districtsPerSide(cfg.MinNumStations),
	})
	if err != nil {
		return err
	}

	u := units.New(units.Options{
		SpeedKmh:             cfg.SpeedKmh,
		CellLengthM:          cfg.CellLengthM,
		SimSpeedCellsPerStep: cfg.SimSpeed,
		BatteryKwh:           cfg.BatteryKwh,
		CsPowerKw:            cfg.CsPowerKw,
		AutonomyKm:           cfg.AutonomyKm,
	})

	engCfg := engineConfig(cfg, u)
	allCells := g.All()
	totalVehicles := int(cfg.TfDensity * float64(len(allCells)))
	totalEV := int(cfg.EvDensity * float64(totalVehicles))
	totalSteps := int(u.MinutesToSteps(cfg.TotalTimeH * 60))
	deltaSteps := int(u.MinutesToSteps(cfg.MeasurePeriodMin))
	if deltaSteps <= 0 {
		deltaSteps = 1
	}
	engCfg.DeltaSteps = deltaSteps
	engCfg.TotalSteps = totalSteps

	seeds := make([]int64, cfg.Repetitions)
	seedSource := rand.New(rand.NewSource(1))
	for i := range seeds {
		seeds[i] = seedSource.Int63()
	}

	newVehicles := func() []*vehicle.Vehicle {
		return engine.NewPopulation(rand.New(rand.NewSource(seedSource.Int63())), engCfg, allCells, totalVehicles, totalEV)
	}
	factory := engine.NewFactory(g, u, engCfg, stations, serviceArea, newVehicles)

	recorders := func(repetitionIndex int) *metrics.Recorder {
		return metrics.New(g, stations, deltaSteps, snapshotIndices(totalSteps, deltaSteps, cfg.HeatMapSnapshots))
	}

	appCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var progress float64
	if flags.Debug {
		go logProgress(appCtx, &progress, float64(cfg.Repetitions*totalSteps))
	}

	if flags.Visualize {
		return runWithVisualization(appCtx, flags, cfg, engCfg, factory, recorders, totalSteps)
	}

	results, err := engine.Run(appCtx, flags.Workers, cfg.Repetitions, totalSteps, seeds, factory, recorders, &progress)
	if err != nil {
		return fmt.Errorf("simtravel: running repetitions: %w", err)
	}
	return persistResults(g, cfg, totalVehicles, totalSteps, deltaSteps, results)
}

// runWithVisualization drives repetition 0's engine one tick at a time through a
// visualization.Server until totalSteps ticks have run, and returns when ctx is
// cancelled. No other repetition runs and no results are persisted.
func runWithVisualization(
	ctx context.Context,
	flags *cliflags.Flags,
	cfg *config.Config,
	engCfg engine.Config,
	factory engine.Factory,
	recorders engine.RecorderFactory,
	totalSteps int,
) error {
	live := factory(0, 1)
	updates := make(chan visualization.Snapshot)
	initial := visualization.Snapshot{Repetition: 0, Tick: 0, Grid: live.Grid, Vehicles: live.Vehicles, Stations: live.Stations}

	srv, err := visualization.NewServer(ctx, flags.Addr, initial, updates)
	if err != nil {
		return fmt.Errorf("simtravel: building visualization server: %w", err)
	}

	go func() {
		if err := srv.Serve(); err != nil {
			log.Println("simtravel: visualization server stopped:", err)
		}
	}()

	go func() {
		rec := recorders(0)
		for t := 0; t < totalSteps; t++ {
			select {
			case <-ctx.Done():
				return
			default:
			}
			snap := live.StepForVisualization(0)
			if (t+1)%engCfg.DeltaSteps == 0 {
				rec.Sample(live.Vehicles, live.Stations)
			}
			select {
			case updates <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Printf("simtravel: serving live view on %s, repetition 0 of %d", flags.Addr, cfg.Repetitions)
	<-ctx.Done()
	return nil
}

func persistResults(g *grid.Grid, cfg *config.Config, totalVehicles, totalSteps, deltaSteps int, results []engine.Result) error {
	totalPlugs, totalDStations := station.DeriveCounts(cfg.MinPlugsPerStation, cfg.MinNumStations)
	attrs := persistence.Attributes{
		EvDensity:       cfg.EvDensity,
		TfDensity:       cfg.TfDensity,
		StLayout:        string(cfg.StLayout),
		SpeedKmh:        cfg.SpeedKmh,
		CellLengthM:     cfg.CellLengthM,
		SimulationSpeed: cfg.SimSpeed,
		BatteryKwh:      cfg.BatteryKwh,
		CsPowerKw:       cfg.CsPowerKw,
		AutonomyKm:      cfg.AutonomyKm,
		TotalVehicles:   totalVehicles,
		Repetitions:     cfg.Repetitions,
		DeltaTsteps:     deltaSteps,
		TotalTsteps:     totalSteps,
		TotalPlugs:      totalPlugs,
		TotalDStations:  totalDStations,
	}

	simID := fmt.Sprintf("%v#%v#%v", cfg.EvDensity, cfg.TfDensity, cfg.StLayout)
	writer := persistence.NewJSONWriter(cfg.ResultsPath, simID, attrs)

	start := time.Now()
	for _, res := range results {
		if err := writer.WriteRepetition(res.RepetitionIndex, persistence.FromRecording(g, res.Recording)); err != nil {
			return fmt.Errorf("simtravel: writing repetition %d: %w", res.RepetitionIndex, err)
		}
	}
	attrs.ElapsedSeconds = time.Since(start).Seconds()

	if err := writer.Close(); err != nil {
		return fmt.Errorf("simtravel: closing results writer: %w", err)
	}
	log.Printf("simtravel: wrote %d repetitions to %s", len(results), cfg.ResultsPath)
	return nil
}

func deltaStepsFromResults(results []engine.Result) int {
	for _, res := range results {
		return len(res.Recording.Speed)
	}
	return 0
}

// snapshotIndices picks snapshots equispaced sample indices across the run for heat-map
// snapshotting, one per k = 0..snapshots-1, taken at tick ((k+1)*totalSteps)/(snapshots*
// deltaSteps)*deltaSteps and converted to the corresponding 0-based sample index.
func snapshotIndices(totalSteps, deltaSteps, snapshots int) []int {
	if deltaSteps <= 0 || snapshots <= 0 {
		return nil
	}
	totalSamples := totalSteps / deltaSteps
	if totalSamples <= 0 {
		return nil
	}
	indices := make([]int, 0, snapshots)
	for k := 0; k < snapshots; k++ {
		tick := ((k + 1) * totalSteps) / (snapshots * deltaSteps) * deltaSteps
		idx := tick/deltaSteps - 1
		if idx < 0 {
			idx = 0
		}
		if idx >= totalSamples {
			idx = totalSamples - 1
		}
		indices = append(indices, idx)
	}
	return indices
}

// districtsPerSide picks a district grid fine enough to hold minStations distinct cells
// without crowding every station into one district; only the distributed layout reads it.
func districtsPerSide(minStations int) int {
	side := 1
	for side*side < minStations {
		side++
	}
	if side < 1 {
		side = 1
	}
	return side
}

func engineConfig(cfg *config.Config, u *units.Units) engine.Config {
	return engine.Config{
		BatteryThresholdCells: cfg.BatteryThreshold * u.AutonomyCells(),
		AutonomyCells:         u.AutonomyCells(),
		DesiredChargeStd:      cfg.BatteryStd * u.AutonomyCells(),
		IdleLower:             int(u.MinutesToSteps(cfg.IdleLowerMin)),
		IdleUpper:             int(u.MinutesToSteps(cfg.IdleUpperMin)),
		IdleStdCoeff:          cfg.IdleStd,
		PSearchAlt:            cfg.PSearchAlt,
	}
}

func logProgress(ctx context.Context, progress *float64, total float64) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if total > 0 {
				log.Printf("simtravel: progress %.1f%%", 100*atomic_float.AtomicRead(progress)/total)
			}
		}
	}
}

func main() {
	flags, err := cliflags.Parse(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if err := runApp(flags); err != nil {
		fmt.Println(err)
	}
}
