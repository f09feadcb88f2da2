package config

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/amarogs/simtravel/internal/simerr"
	"github.com/amarogs/simtravel/internal/station"
)

func validConfig() Config {
	return Config{
		SpeedKmh:           30,
		CellLengthM:        5,
		SimSpeed:           1,
		BatteryKwh:         40,
		CsPowerKw:          50,
		AutonomyKm:         200,
		RoundaboutSide:     6,
		AvenueLength:       2,
		Scale:              2,
		MinPlugsPerStation: 4,
		MinNumStations:     4,
		StLayout:           station.Central,
		BatteryThreshold:   0.2,
		BatteryStd:         0.1,
		IdleUpperMin:       30,
		IdleLowerMin:       5,
		IdleStd:            0.2,
		PSearchAlt:         0.3,
		EvDensity:          0.3,
		TfDensity:          0.3,
		TotalTimeH:         2,
		MeasurePeriodMin:   5,
		Repetitions:        3,
		ResultsPath:        "/tmp/results",
		HeatMapSnapshots:   3,
	}
}

func TestValidateAcceptsAWellFormedConfig(t *testing.T) {
	Convey("Given a configuration with every field in range", t, func() {
		c := validConfig()

		Convey("Validate reports no error", func() {
			So(c.Validate(), ShouldBeNil)
		})
	})
}

func TestValidateRejectsBadValues(t *testing.T) {
	Convey("Given configurations each with one field out of range", t, func() {
		cases := []func(*Config){
			func(c *Config) { c.EvDensity = 1.5 },
			func(c *Config) { c.TfDensity = -0.1 },
			func(c *Config) { c.BatteryThreshold = 0 },
			func(c *Config) { c.BatteryStd = 1 },
			func(c *Config) { c.IdleStd = 0 },
			func(c *Config) { c.PSearchAlt = 1.5 },
			func(c *Config) { c.IdleUpperMin = 5; c.IdleLowerMin = 5 },
			func(c *Config) { c.Scale = 0 },
			func(c *Config) { c.Repetitions = 0 },
			func(c *Config) { c.StLayout = "diagonal" },
			func(c *Config) { c.ResultsPath = "" },
			func(c *Config) { c.HeatMapSnapshots = 0 },
		}

		Convey("Validate reports ErrConfigInvalid for every one", func() {
			for _, mutate := range cases {
				c := validConfig()
				mutate(&c)
				err := c.Validate()
				So(err, ShouldNotBeNil)
				So(errors.Is(err, simerr.ErrConfigInvalid), ShouldBeTrue)
			}
		})
	})
}
