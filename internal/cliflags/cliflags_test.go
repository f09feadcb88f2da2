package cliflags

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseAppliesDefaults(t *testing.T) {
	Convey("Given no arguments", t, func() {
		f, err := Parse(nil)
		So(err, ShouldBeNil)

		Convey("Workers defaults to a positive count and config.yaml is the default path", func() {
			So(f.Workers, ShouldBeGreaterThan, 0)
			So(f.ConfigPath, ShouldEqual, "./config.yaml")
			So(f.Debug, ShouldBeFalse)
			So(f.Visualize, ShouldBeFalse)
		})
	})
}

func TestParseOverridesDefaults(t *testing.T) {
	Convey("Given explicit flag values", t, func() {
		f, err := Parse([]string{"-config", "custom.yaml", "-workers", "4", "-debug", "-visualize", "-addr", ":9090"})
		So(err, ShouldBeNil)

		Convey("Parse reports the overridden values", func() {
			So(f.ConfigPath, ShouldEqual, "custom.yaml")
			So(f.Workers, ShouldEqual, 4)
			So(f.Debug, ShouldBeTrue)
			So(f.Visualize, ShouldBeTrue)
			So(f.Addr, ShouldEqual, ":9090")
		})
	})
}
