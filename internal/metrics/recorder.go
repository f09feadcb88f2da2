// Package metrics accumulates the per-tick observations a repetition produces: state
// occupancy over time, station occupation, fleet speed and mobility, heat-map snapshots,
// and the global seeking/queueing summary, ready for a persistence collaborator to write
// out under the logical schema the host expects.
package metrics

import (
	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/station"
	"github.com/amarogs/simtravel/internal/vehicle"
)

// HeatMap maps a cell to the number of times a moving vehicle has occupied it.
type HeatMap map[grid.CellID]int

// Recording is one repetition's complete, finished set of metrics.
type Recording struct {
	// States maps each vehicle.State to its per-sample occupancy count, one entry per
	// delta_steps ticks, in tick order.
	States map[vehicle.State][]int

	// Speed is the mean lane speed, in cells/step, of vehicles moving both this sample and
	// the last. Mobility is the mean lattice displacement of every vehicle this sample,
	// regardless of whether it was moving.
	Speed    []float64
	Mobility []float64

	// Occupation is per-station time-series of the number of vehicles holding a charger.
	Occupation map[int][]int

	// HeatMapSnapshots are cumulative occupancy counts taken at a fixed number of
	// equispaced sample indices across the run.
	HeatMapSnapshots []HeatMap

	// Seeking and Queueing are the grand mean, across every vehicle with a non-empty
	// history, of that vehicle's own mean ticks spent in TOWARDS_ST and QUEUEING
	// respectively.
	Seeking  float64
	Queueing float64
}

// Recorder accumulates one repetition's metrics sample by sample. Callers invoke Sample
// once every delta_steps ticks and call Finish once at the end of the repetition.
type Recorder struct {
	grid *grid.Grid

	deltaSteps       int
	snapshotAt       map[int]bool
	sampleIndex      int
	lastPositions    map[int]grid.CellID
	lastMoving       map[int]bool
	heatMap          HeatMap
	heatMapSnapshots []HeatMap

	states     map[vehicle.State][]int
	speed      []float64
	mobility   []float64
	occupation map[int][]int
}

// New creates a Recorder for a repetition over the given grid and stations, sampling
// every deltaSteps ticks and snapshotting the heat map at the given sample indices
// (0-based, over the full TOTAL_STEPS/delta_steps sample count).
func New(g *grid.Grid, stations []*station.Station, deltaSteps int, snapshotSampleIndices []int) *Recorder {
	snapshotAt := make(map[int]bool, len(snapshotSampleIndices))
	for _, i := range snapshotSampleIndices {
		snapshotAt[i] = true
	}
	occupation := make(map[int][]int, len(stations))
	for _, st := range stations {
		occupation[st.ID] = nil
	}
	return &Recorder{
		grid:          g,
		deltaSteps:    deltaSteps,
		snapshotAt:    snapshotAt,
		lastPositions: make(map[int]grid.CellID),
		lastMoving:    make(map[int]bool),
		heatMap:       make(HeatMap),
		states:        make(map[vehicle.State][]int),
		occupation:    occupation,
	}
}

// Sample records one measurement point over the current fleet and station set. Callers
// call this once every deltaSteps ticks of the driving Step loop.
func (r *Recorder) Sample(vehicles []*vehicle.Vehicle, stations []*station.Station) {
	counts := map[vehicle.State]int{}
	for _, v := range vehicles {
		counts[v.State]++
	}
	for _, s := range allStates {
		r.states[s] = append(r.states[s], counts[s])
	}

	var speeds, mobilities []float64
	for _, v := range vehicles {
		moving := v.State.Moving()
		lastPos, hadLast := r.lastPositions[v.ID]
		lastMoving := r.lastMoving[v.ID]

		if moving {
			r.heatMap[v.Cell]++
			if hadLast && lastMoving {
				d := float64(r.lastDistance(lastPos, v.Cell))
				speeds = append(speeds, d)
			}
		}
		if hadLast {
			mobilities = append(mobilities, float64(r.lastDistance(lastPos, v.Cell)))
		}

		r.lastPositions[v.ID] = v.Cell
		r.lastMoving[v.ID] = moving
	}

	r.speed = append(r.speed, meanOrZero(speeds)/float64(r.deltaSteps))
	r.mobility = append(r.mobility, meanOrZero(mobilities)/float64(r.deltaSteps))

	for _, st := range stations {
		r.occupation[st.ID] = append(r.occupation[st.ID], st.Occupied())
	}

	if r.snapshotAt[r.sampleIndex] {
		snap := make(HeatMap, len(r.heatMap))
		for c, n := range r.heatMap {
			snap[c] = n
		}
		r.heatMapSnapshots = append(r.heatMapSnapshots, snap)
	}
	r.sampleIndex++
}

func (r *Recorder) lastDistance(a, b grid.CellID) int {
	return r.grid.LatticeDistance(a, b)
}

var allStates = []vehicle.State{
	vehicle.TowardsDest,
	vehicle.AtDest,
	vehicle.TowardsSt,
	vehicle.Queueing,
	vehicle.Charging,
	vehicle.NoBattery,
}

func meanOrZero(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Finish computes the global seeking/queueing means and returns the completed Recording.
func (r *Recorder) Finish(vehicles []*vehicle.Vehicle) Recording {
	var seekingMeans, queueingMeans []float64
	for _, v := range vehicles {
		if len(v.SeekingHistory) > 0 {
			seekingMeans = append(seekingMeans, meanOrZero(toFloats(v.SeekingHistory)))
		}
		if len(v.QueueingHistory) > 0 {
			queueingMeans = append(queueingMeans, meanOrZero(toFloats(v.QueueingHistory)))
		}
	}

	return Recording{
		States:           r.states,
		Speed:            r.speed,
		Mobility:         r.mobility,
		Occupation:       r.occupation,
		HeatMapSnapshots: r.heatMapSnapshots,
		Seeking:          meanOrZero(seekingMeans),
		Queueing:         meanOrZero(queueingMeans),
	}
}

func toFloats(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}
