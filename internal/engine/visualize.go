package engine

import "github.com/amarogs/simtravel/internal/visualization"

// StepForVisualization advances one tick and returns the resulting world state as a
// visualization.Snapshot, for a caller pushing live views of a running repetition.
func (e *Engine) StepForVisualization(repetitionIndex int) visualization.Snapshot {
	e.Step()
	return visualization.Snapshot{
		Repetition: repetitionIndex,
		Tick:       e.tick,
		Grid:       e.Grid,
		Vehicles:   e.Vehicles,
		Stations:   e.Stations,
	}
}
