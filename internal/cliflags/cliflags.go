// Package cliflags parses the command line surface of cmd/simtravel, grounded on the
// teacher's main.go init() flag registration, with parsing moved inside a function so
// tests can call it directly instead of relying on package init().
package cliflags

import (
	"flag"
	"runtime"
)

// Flags is the parsed command line.
type Flags struct {
	ConfigPath string
	Workers    int
	Debug      bool
	Visualize  bool
	Addr       string
}

// Parse parses args (typically os.Args[1:]) into a Flags, applying runtime.NumCPU() as
// the default worker count exactly as the teacher's init() does.
func Parse(args []string) (*Flags, error) {
	fs := flag.NewFlagSet("simtravel", flag.ContinueOnError)
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "./config.yaml", "path to the simulation config yaml")
	fs.IntVar(&f.Workers, "workers", runtime.NumCPU(), "number of repetition worker goroutines")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.BoolVar(&f.Visualize, "visualize", false, "serve a live websocket view of repetition 0")
	fs.StringVar(&f.Addr, "addr", ":8080", "address to serve the live view on, when -visualize is set")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}
