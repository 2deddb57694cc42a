package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/simonev/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StorageDriver, convey.ShouldEqual, config.StorageFile)
			convey.So(cfg.DefaultEventWeight, convey.ShouldEqual, 10)
			convey.So(cfg.FastBonus, convey.ShouldEqual, 5)
			convey.So(cfg.NormalBonus, convey.ShouldEqual, 2)
			convey.So(cfg.FastWindow(), convey.ShouldEqual, 72*time.Hour)
			convey.So(cfg.SummaryTimeout(), convey.ShouldEqual, 20*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given options", t, func() {
		cfg := config.New(
			config.WithAddr(":7000"),
			config.WithStorage(config.StorageSQLite, "/tmp/x.db"),
			config.WithSummaryAPIKey("k"),
			config.WithAddr(""),
		)

		convey.Convey("Then they override defaults and ignore empties", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
			convey.So(cfg.StorageDriver, convey.ShouldEqual, config.StorageSQLite)
			convey.So(cfg.StoragePath, convey.ShouldEqual, "/tmp/x.db")
			convey.So(cfg.SummaryAPIKey, convey.ShouldEqual, "k")
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configs", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":        func(c *config.Config) { c.Addr = "" },
			"unknown driver":    func(c *config.Config) { c.StorageDriver = "mongo" },
			"empty file path":   func(c *config.Config) { c.StoragePath = "" },
			"negative bonus":    func(c *config.Config) { c.FastBonus = -1 },
			"negative window":   func(c *config.Config) { c.FastWindowDays = -1 },
			"zero limit":        func(c *config.Config) { c.MaxRankingLimit = 0 },
			"zero persist size": func(c *config.Config) { c.PersistQueueSize = 0 },
			"zero timeout":      func(c *config.Config) { c.SummaryTimeoutMS = 0 },
			"negative timeout":  func(c *config.Config) { c.SummaryTimeoutMS = -5 },
		}
		for name, mutate := range cases {
			convey.Convey("When "+name, func() {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then it should wrap ErrInvalidConfig", func() {
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("Then the memory driver needs no path", func() {
			cfg := config.New(config.WithStorage(config.StorageMemory, ""))
			cfg.StoragePath = ""
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
