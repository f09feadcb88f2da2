package visualization

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
)

// Server serves a single live grid view, pushing every Snapshot it receives to
// whichever browser tabs are connected over /ws.
type Server struct {
	addr      string
	router    *mux.Router
	view      ViewComponent
	lastCells [][]Cell
	index     *template.Template
}

// NewServer builds the view pipeline over updates and returns a Server ready to Serve.
// initial seeds the page rendered before any websocket connects; ctx cancellation tears
// down the view pipeline and any connected clients.
func NewServer(
	ctx context.Context,
	addr string,
	initial Snapshot,
	updates <-chan Snapshot,
) (*Server, error) {
	views, err := NewViewBuilder[Snapshot, [][]Cell]().
		WithContext(ctx).
		WithModel(updates, ToCells).
		WithView(func(done <-chan struct{}, cells <-chan [][]Cell) ViewComponent {
			return NewGridView("grid", done, cells)
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("visualization: building view pipeline: %w", err)
	}
	view := views[0]

	index := template.New("index").Funcs(FuncMap())
	name, err := view.Parse(index)
	if err != nil {
		return nil, fmt.Errorf("visualization: parsing grid view template: %w", err)
	}
	if _, err := index.New("index").Parse(indexPage(name)); err != nil {
		return nil, fmt.Errorf("visualization: parsing index page: %w", err)
	}

	s := &Server{
		addr:      addr,
		router:    mux.NewRouter(),
		view:      view,
		lastCells: ToCells(initial),
		index:     index,
	}
	s.router.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.serveWebsocket)
	return s, nil
}

// Serve blocks, serving the index page and websocket endpoint until an error occurs.
func (s *Server) Serve() error {
	if err := http.ListenAndServe(s.addr, s.router); err != nil {
		return fmt.Errorf("visualization: serve: %w", err)
	}
	return nil
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if err := s.index.ExecuteTemplate(w, "index", s.lastCells); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	cli, err := newClient(s.view.Updates(), w, r)
	if err != nil {
		return
	}
	defer cli.ws.Close()
	_ = cli.Sync()
}

func indexPage(gridTemplateName string) string {
	return `
	{{ define "index" }}
	<!DOCTYPE html>
	<html>
		<head>
			<link rel="icon" href="data:,">
			<script>
				const ws = new WebSocket("ws://" + window.location.host + "/ws");
				ws.onerror = function(event) { console.log("websocket error:", event); };
				ws.onmessage = function(event) {
					const updates = JSON.parse(event.data);
					for (const update of updates) {
						const ele = document.getElementById(update.EleId);
						if (!ele) { continue; }
						for (const op of update.Ops) {
							if (op.Key === "textContent") {
								ele.textContent = op.Value;
							} else {
								ele.setAttribute(op.Key, op.Value);
							}
						}
					}
				};
			</script>
		</head>
		<body>
			{{ template "` + gridTemplateName + `" . }}
		</body>
	</html>
	{{ end }}
	`
}
