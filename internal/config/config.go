// Package config loads and validates the frozen inputs of one simulation run: physical
// units, city geometry, station policy, vehicle population densities, and timing.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/amarogs/simtravel/internal/simerr"
	"github.com/amarogs/simtravel/internal/station"
)

// Config is the complete, validated set of inputs a simulation matrix run needs, mirroring
// spec.md's external-interfaces configuration key set.
type Config struct {
	// Physical units.
	SpeedKmh    float64 `mapstructure:"speed_kmh"`
	CellLengthM float64 `mapstructure:"cell_length_m"`
	SimSpeed    float64 `mapstructure:"sim_speed"`
	BatteryKwh  float64 `mapstructure:"battery_kwh"`
	CsPowerKw   float64 `mapstructure:"cs_power_kw"`
	AutonomyKm  float64 `mapstructure:"autonomy_km"`

	// City geometry.
	RoundaboutSide int `mapstructure:"roundabout_side"`
	AvenueLength   int `mapstructure:"avenue_length"`
	Scale          int `mapstructure:"scale"`

	// Station policy.
	MinPlugsPerStation int            `mapstructure:"min_plugs_per_station"`
	MinNumStations     int            `mapstructure:"min_num_stations"`
	StLayout           station.Layout `mapstructure:"st_layout"`

	// Battery and idle-time sampling.
	BatteryThreshold float64 `mapstructure:"battery_threshold"`
	BatteryStd       float64 `mapstructure:"battery_std"`
	IdleUpperMin     float64 `mapstructure:"idle_upper_min"`
	IdleLowerMin     float64 `mapstructure:"idle_lower_min"`
	IdleStd          float64 `mapstructure:"idle_std"`

	// PSearchAlt is the probability a blocked vehicle attempts a lane change or
	// priority-lane divert instead of waiting; defaults to 0.3 when unset.
	PSearchAlt float64 `mapstructure:"p_search_alt"`

	// Population.
	EvDensity float64 `mapstructure:"ev_density"`
	TfDensity float64 `mapstructure:"tf_density"`

	// Timing and output.
	TotalTimeH       float64 `mapstructure:"total_time_h"`
	MeasurePeriodMin float64 `mapstructure:"measure_period_min"`
	Repetitions      int     `mapstructure:"repetitions"`
	ResultsPath      string  `mapstructure:"results_path"`

	// HeatMapSnapshots is the number of equispaced heat-map snapshots taken over a
	// repetition's run; defaults to 3 when unset.
	HeatMapSnapshots int `mapstructure:"heat_map_snapshots"`
}

var validLayouts = map[station.Layout]bool{
	station.Central:     true,
	station.Four:        true,
	station.Distributed: true,
}

// Validate checks Config against spec.md's invalidity conditions: out-of-range
// densities, non-positive dimensions, an inverted idle window, or an unknown layout.
func (c Config) Validate() error {
	if c.EvDensity < 0 || c.EvDensity > 1 {
		return fmt.Errorf("config: ev_density must be in [0,1], got %v: %w", c.EvDensity, simerr.ErrConfigInvalid)
	}
	if c.TfDensity < 0 || c.TfDensity > 1 {
		return fmt.Errorf("config: tf_density must be in [0,1], got %v: %w", c.TfDensity, simerr.ErrConfigInvalid)
	}
	if c.BatteryThreshold <= 0 || c.BatteryThreshold >= 1 {
		return fmt.Errorf("config: battery_threshold must be in (0,1), got %v: %w", c.BatteryThreshold, simerr.ErrConfigInvalid)
	}
	if c.BatteryStd <= 0 || c.BatteryStd >= 1 {
		return fmt.Errorf("config: battery_std must be in (0,1), got %v: %w", c.BatteryStd, simerr.ErrConfigInvalid)
	}
	if c.IdleStd <= 0 || c.IdleStd >= 1 {
		return fmt.Errorf("config: idle_std must be in (0,1), got %v: %w", c.IdleStd, simerr.ErrConfigInvalid)
	}
	if c.PSearchAlt < 0 || c.PSearchAlt > 1 {
		return fmt.Errorf("config: p_search_alt must be in [0,1], got %v: %w", c.PSearchAlt, simerr.ErrConfigInvalid)
	}
	if c.IdleUpperMin <= c.IdleLowerMin {
		return fmt.Errorf("config: idle_upper_min (%v) must be > idle_lower_min (%v): %w", c.IdleUpperMin, c.IdleLowerMin, simerr.ErrConfigInvalid)
	}
	if c.Scale <= 0 || c.AvenueLength <= 0 || c.RoundaboutSide <= 0 {
		return fmt.Errorf("config: scale, avenue_length, and roundabout_side must be positive: %w", simerr.ErrConfigInvalid)
	}
	if c.Repetitions <= 0 {
		return fmt.Errorf("config: repetitions must be positive, got %d: %w", c.Repetitions, simerr.ErrConfigInvalid)
	}
	if !validLayouts[c.StLayout] {
		return fmt.Errorf("config: unknown st_layout %q: %w", c.StLayout, simerr.ErrConfigInvalid)
	}
	if c.ResultsPath == "" {
		return fmt.Errorf("config: results_path must not be empty: %w", simerr.ErrConfigInvalid)
	}
	if c.HeatMapSnapshots <= 0 {
		return fmt.Errorf("config: heat_map_snapshots must be positive, got %d: %w", c.HeatMapSnapshots, simerr.ErrConfigInvalid)
	}
	return nil
}

// FromYaml loads and validates a Config from a YAML file at path. There was no strong
// reason to use viper beyond the teacher's own config loader doing so; it finds and reads
// the file, and mapstructure tags drive the field mapping.
func FromYaml(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	vp.SetDefault("p_search_alt", 0.3)
	vp.SetDefault("heat_map_snapshots", 3)

	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := vp.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
