// Package persistence implements the logical result schema spec.md §6 describes,
// independent of whatever real result store (HDF5, a database) a host eventually wires
// in: ResultWriter is the seam, and the default JSON implementation here satisfies every
// field of that schema without committing the core to a storage format it was never
// asked to pick.
package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/metrics"
)

// Attributes mirrors the configuration, one set per simulation identifier.
type Attributes struct {
	EvDensity        float64 `json:"EV_DEN"`
	TfDensity        float64 `json:"TF_DEN"`
	StLayout         string  `json:"ST_LAYOUT"`
	SpeedKmh         float64 `json:"SPEED"`
	CellLengthM      float64 `json:"CELL_LENGTH"`
	SimulationSpeed  float64 `json:"SIMULATION_SPEED"`
	BatteryKwh       float64 `json:"BATTERY"`
	CsPowerKw        float64 `json:"CS_POWER"`
	AutonomyKm       float64 `json:"AUTONOMY"`
	TotalVehicles    int     `json:"TOTAL_VEHICLES"`
	Repetitions      int     `json:"REPETITIONS"`
	DeltaTsteps      int     `json:"DELTA_TSTEPS"`
	TotalTsteps      int     `json:"TOTAL_TSTEPS"`
	ElapsedSeconds   float64 `json:"ELAPSED"`
	TotalPlugs       int     `json:"TOTAL_PLUGS"`
	TotalDStations   int     `json:"TOTAL_D_ST"`
}

// RepetitionRecord is one repetition's persisted subgroups: per-state time-series,
// velocity series, heat-map snapshots rendered as dense 2-D arrays, per-station
// occupation series, and the global seeking/queueing scalars.
type RepetitionRecord struct {
	States     map[string][]int `json:"states"`
	Speed      []float64        `json:"velocities_speed"`
	Mobility   []float64        `json:"velocities_mobility"`
	HeatMap    [][][]int        `json:"heat_map"`
	Occupation map[string][]int `json:"occupation"`
	Seeking    float64          `json:"global_seeking"`
	Queueing   float64          `json:"global_queueing"`
}

// Document is the whole per-simulation-identifier persisted store.
type Document struct {
	Attributes  Attributes                  `json:"attributes"`
	Repetitions map[string]RepetitionRecord `json:"repetitions"`
}

// ResultWriter is the seam between the core and a real result store. WriteRepetition is
// called once per finished repetition; Close flushes and finalizes the simulation
// identifier's document. A repetition that never reaches WriteRepetition (the run was
// aborted) is never partially persisted.
type ResultWriter interface {
	WriteRepetition(repetitionIndex int, rec RepetitionRecord) error
	Close() error
}

// JSONWriter accumulates every repetition of one simulation identifier in memory and
// writes a single JSON document to disk on Close.
type JSONWriter struct {
	path       string
	attributes Attributes
	doc        Document
}

// NewJSONWriter creates a writer for simID ("<ev>#<tf>#<layout>") under resultsDir,
// stamped with attrs.
func NewJSONWriter(resultsDir, simID string, attrs Attributes) *JSONWriter {
	return &JSONWriter{
		path:       filepath.Join(resultsDir, simID+".json"),
		attributes: attrs,
		doc: Document{
			Attributes:  attrs,
			Repetitions: make(map[string]RepetitionRecord),
		},
	}
}

// WriteRepetition stages one repetition's record in memory; nothing touches disk until
// Close.
func (w *JSONWriter) WriteRepetition(repetitionIndex int, rec RepetitionRecord) error {
	w.doc.Repetitions[fmt.Sprintf("%d", repetitionIndex)] = rec
	return nil
}

// Close writes the accumulated document to disk as one JSON file, creating resultsDir if
// needed.
func (w *JSONWriter) Close() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("persistence: creating results directory: %w", err)
	}
	data, err := json.MarshalIndent(w.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("persistence: marshaling %s: %w", w.path, err)
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("persistence: writing %s: %w", w.path, err)
	}
	return nil
}

// RenderHeatMap converts a metrics.HeatMap (sparse, keyed by cell id) into the dense
// SIZE x SIZE integer array the logical schema calls for.
func RenderHeatMap(g *grid.Grid, hm metrics.HeatMap) [][]int {
	n := g.N
	out := make([][]int, n)
	for i := range out {
		out[i] = make([]int, n)
	}
	for cell, count := range hm {
		c := g.Cell(cell)
		out[c.X][c.Y] = count
	}
	return out
}

// RenderHeatMaps converts every snapshot in snapshots to its dense array form, in order.
func RenderHeatMaps(g *grid.Grid, snapshots []metrics.HeatMap) [][][]int {
	out := make([][][]int, len(snapshots))
	for i, hm := range snapshots {
		out[i] = RenderHeatMap(g, hm)
	}
	return out
}

// FromRecording builds a RepetitionRecord from a finished metrics.Recording, rendering
// its sparse heat-map snapshots into the dense arrays the schema specifies.
func FromRecording(g *grid.Grid, rec metrics.Recording) RepetitionRecord {
	states := make(map[string][]int, len(rec.States))
	for state, series := range rec.States {
		states[state.String()] = series
	}
	occupation := make(map[string][]int, len(rec.Occupation))
	for stationID, series := range rec.Occupation {
		occupation[fmt.Sprintf("%d", stationID)] = series
	}
	return RepetitionRecord{
		States:     states,
		Speed:      rec.Speed,
		Mobility:   rec.Mobility,
		HeatMap:    RenderHeatMaps(g, rec.HeatMapSnapshots),
		Occupation: occupation,
		Seeking:    rec.Seeking,
		Queueing:   rec.Queueing,
	}
}
