// Package simerr names the error kinds that can surface from city construction, station
// placement, and configuration loading. Tick-time anomalies (an unreachable path, a
// starved queue) are recovered locally by the engine and never wrapped in these: they
// show up only as degraded metrics, per the taxonomy's fatal/non-fatal split.
package simerr

import "errors"

// ErrConfigInvalid is returned when a loaded configuration fails validation: an
// out-of-range density, a non-positive dimension, idle_upper <= idle_lower, or an
// unrecognized station layout. Fatal, and always surfaced before any tick runs.
var ErrConfigInvalid error = errors.New("simtravel: invalid configuration")

// ErrPlacementInfeasible is returned when no drivable cell exists within a station's
// target region, e.g. a grid too small for the requested minimum station count. Fatal
// at setup, before any vehicle is created.
var ErrPlacementInfeasible error = errors.New("simtravel: station placement infeasible")
