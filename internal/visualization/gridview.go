package visualization

import (
	"fmt"
	"html/template"
	"strings"

	channerics "github.com/niceyeti/channerics/channels"
)

// cellTypeColors maps a cell's type to an svg fill color; vehicleStateColors below covers
// occupied cells.
var cellTypeColors = map[string]string{
	"HOUSE":      "#f5f5f0",
	"STREET":     "#d9d9d9",
	"AVENUE":     "#bfbfbf",
	"ROUNDABOUT": "#9e9e9e",
}

var vehicleStateColors = map[string]string{
	"TOWARDS_DEST": "#1f77b4",
	"TOWARDS_ST":   "#ff7f0e",
}

// GridView renders the grid as an svg of colored cells, pushing only the deltas needed
// to reflect each new snapshot.
type GridView struct {
	id      string
	updates chan []EleUpdate
}

// NewGridView builds a GridView keyed by id, consuming view-model updates from cells
// until done closes.
func NewGridView(
	id string,
	done <-chan struct{},
	cells <-chan [][]Cell,
) ViewComponent {
	if strings.Contains(id, "-") {
		id = strings.ReplaceAll(id, "-", "_")
	}
	gv := &GridView{id: template.HTMLEscapeString(id)}
	gv.init(done, cells)
	return gv
}

func (gv *GridView) init(done <-chan struct{}, cells <-chan [][]Cell) {
	updates := make(chan []EleUpdate)
	go func() {
		defer close(updates)
		for next := range channerics.OrDone(done, cells) {
			ops := gv.diff(next)
			select {
			case updates <- ops:
			case <-done:
				return
			}
		}
	}()
	gv.updates = updates
}

// Updates returns the channel of ele-updates this view emits.
func (gv *GridView) Updates() <-chan []EleUpdate {
	return gv.updates
}

// Parse registers the grid's initial svg markup with the parent template.
func (gv *GridView) Parse(parent *template.Template) (name string, err error) {
	name = gv.id
	_, err = parent.New(name).Parse(
		`<div id="grid">
			{{ $cols := len . }}
			{{ $rows := len (index . 0) }}
			{{ $cw := 16 }}
			{{ $ch := 16 }}
			<svg id="` + gv.id + `"
				width="{{ mult $cols $cw }}px"
				height="{{ mult $rows $ch }}px"
				style="shape-rendering: crispEdges;">
				{{ range $col := . }}
					{{ range $cell := $col }}
					<rect id="{{ $cell.X }}-{{ $cell.Y }}-rect"
						x="{{ mult $cell.X $cw }}"
						y="{{ mult $cell.Y $ch }}"
						width="{{ $cw }}"
						height="{{ $ch }}"
						fill="{{ cellFill $cell }}"
						stroke="#888"
						stroke-width="0.5"/>
					{{ end }}
				{{ end }}
			</svg>
		</div>`)
	return name, err
}

// FuncMap returns the template functions GridView's markup depends on.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"add":  func(i, j int) int { return i + j },
		"mult": func(i, j int) int { return i * j },
		"cellFill": func(c Cell) string {
			return fillFor(c)
		},
	}
}

func fillFor(c Cell) string {
	if c.Station {
		if c.StationLoad >= c.StationCapacity && c.StationCapacity > 0 {
			return "#d62728"
		}
		return "#2ca02c"
	}
	if c.Occupied {
		if color, ok := vehicleStateColors[c.VehicleState]; ok {
			return color
		}
	}
	if color, ok := cellTypeColors[c.Type]; ok {
		return color
	}
	return "#ffffff"
}

// diff returns the ele-updates needed to reflect cells' fill colors. Every rect is
// resent every sample, unchanged fills included; the client drops whole batches that
// arrive within its publish window rather than merging them.
func (gv *GridView) diff(cells [][]Cell) (ops []EleUpdate) {
	for _, col := range cells {
		for _, cell := range col {
			ops = append(ops, EleUpdate{
				EleId: fmt.Sprintf("%d-%d-rect", cell.X, cell.Y),
				Ops: []Op{
					{Key: "fill", Value: fillFor(cell)},
				},
			})
		}
	}
	return ops
}
