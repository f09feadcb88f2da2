package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/amarogs/simtravel/internal/citybuilder"
	"github.com/amarogs/simtravel/internal/grid"
	"github.com/amarogs/simtravel/internal/metrics"
	"github.com/amarogs/simtravel/internal/vehicle"
)

func testGrid(t *testing.T) *grid.Grid {
	g, err := citybuilder.Build(citybuilder.Params{RoundaboutSideLength: 6, AvenueLength: 1, Scale: 1})
	So(err, ShouldBeNil)
	return g
}

func TestRenderHeatMapPlacesCountsAtCellCoordinates(t *testing.T) {
	Convey("Given a heat map with one occupied cell", t, func() {
		g := testGrid(t)
		id := g.All()[0]
		hm := metrics.HeatMap{id: 7}

		Convey("RenderHeatMap places the count at that cell's X,Y", func() {
			dense := RenderHeatMap(g, hm)
			c := g.Cell(id)
			So(dense[c.X][c.Y], ShouldEqual, 7)
			So(len(dense), ShouldEqual, g.N)
			So(len(dense[0]), ShouldEqual, g.N)
		})
	})
}

func TestFromRecordingTranslatesStateKeysToNames(t *testing.T) {
	Convey("Given a finished recording with per-state series", t, func() {
		g := testGrid(t)
		rec := metrics.Recording{
			States: map[vehicle.State][]int{
				vehicle.TowardsDest: {3, 2},
				vehicle.AtDest:      {1, 2},
			},
			Speed:      []float64{0.5, 0.6},
			Mobility:   []float64{0.4, 0.5},
			Occupation: map[int][]int{1: {0, 1}},
			Seeking:    2.5,
			Queueing:   1.0,
		}

		Convey("FromRecording renders string-keyed subgroups", func() {
			r := FromRecording(g, rec)
			So(r.States["TOWARDS_DEST"], ShouldResemble, []int{3, 2})
			So(r.States["AT_DEST"], ShouldResemble, []int{1, 2})
			So(r.Occupation["1"], ShouldResemble, []int{0, 1})
			So(r.Seeking, ShouldEqual, 2.5)
			So(r.Queueing, ShouldEqual, 1.0)
			So(r.HeatMap, ShouldBeEmpty)
		})
	})
}

func TestJSONWriterWritesOneDocumentPerSimulationIdentifier(t *testing.T) {
	Convey("Given a writer for one simulation identifier", t, func() {
		dir := t.TempDir()
		attrs := Attributes{
			EvDensity:     0.3,
			TfDensity:     0.3,
			StLayout:      "central",
			TotalVehicles: 50,
			Repetitions:   2,
		}
		w := NewJSONWriter(dir, "0.3#0.3#central", attrs)

		Convey("WriteRepetition stages records and Close flushes one file", func() {
			err := w.WriteRepetition(0, RepetitionRecord{
				States:   map[string][]int{"AT_DEST": {1, 2}},
				Speed:    []float64{0.1},
				Mobility: []float64{0.2},
				Seeking:  1.5,
				Queueing: 0.5,
			})
			So(err, ShouldBeNil)
			So(w.Close(), ShouldBeNil)

			path := filepath.Join(dir, "0.3#0.3#central.json")
			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)

			var doc Document
			So(json.Unmarshal(data, &doc), ShouldBeNil)
			So(doc.Attributes.TotalVehicles, ShouldEqual, 50)
			So(doc.Repetitions["0"].States["AT_DEST"], ShouldResemble, []int{1, 2})
			So(doc.Repetitions["0"].Seeking, ShouldEqual, 1.5)
		})
	})
}

func TestJSONWriterAccumulatesMultipleRepetitionsBeforeClose(t *testing.T) {
	Convey("Given a writer that receives two repetitions", t, func() {
		dir := t.TempDir()
		w := NewJSONWriter(dir, "sim", Attributes{Repetitions: 2})

		So(w.WriteRepetition(0, RepetitionRecord{Seeking: 1}), ShouldBeNil)
		So(w.WriteRepetition(1, RepetitionRecord{Seeking: 2}), ShouldBeNil)

		Convey("Close writes both repetitions into one document", func() {
			So(w.Close(), ShouldBeNil)
			data, err := os.ReadFile(filepath.Join(dir, "sim.json"))
			So(err, ShouldBeNil)

			var doc Document
			So(json.Unmarshal(data, &doc), ShouldBeNil)
			So(doc.Repetitions, ShouldHaveLength, 2)
			So(doc.Repetitions["0"].Seeking, ShouldEqual, 1)
			So(doc.Repetitions["1"].Seeking, ShouldEqual, 2)
		})
	})
}
