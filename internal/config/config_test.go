package config_test

import (
	"context"
	"testing"

	"github.com/okian/arena/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverFile)
			convey.So(cfg.StorePath, convey.ShouldEqual, "arenas.json")
			convey.So(cfg.PersistQueueSize, convey.ShouldEqual, 64)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.SeedDefaultArena, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("And origins should be split and trimmed", func() {
			cfg.CORSAllowedOrigins = "http://a.test, http://b.test,,"
			convey.So(cfg.Origins(), convey.ShouldResemble, []string{"http://a.test", "http://b.test"})
		})
	})
}
