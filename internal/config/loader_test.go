package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/pinochle/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars(t)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverFile)
				convey.So(cfg.TeamPlay, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			clearConfigEnvVars(t)
			t.Setenv("PINOCHLE_ADDR", ":8080")
			t.Setenv("PINOCHLE_STORE_DRIVER", "sqlite")
			t.Setenv("PINOCHLE_DB_PATH", "/tmp/p.db")
			t.Setenv("PINOCHLE_MAX_LEADERBOARD_LIMIT", "25")
			t.Setenv("PINOCHLE_TEAM_PLAY", "false")
			t.Setenv("PINOCHLE_LOG_FORMAT", "json")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverSQLite)
				convey.So(cfg.DBPath, convey.ShouldEqual, "/tmp/p.db")
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 25)
				convey.So(cfg.TeamPlay, convey.ShouldBeFalse)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars(t)
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := "addr: \":7070\"\nstore_driver: memory\nlog_level: debug\nmax_leaderboard_limit: 10\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			t.Setenv("PINOCHLE_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.StoreDriver, convey.ShouldEqual, config.DriverMemory)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 10)
			})

			convey.Convey("And env overrides the file", func() {
				t.Setenv("PINOCHLE_ADDR", ":6060")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			})
		})

		convey.Convey("When the YAML file is missing", func() {
			clearConfigEnvVars(t)
			t.Setenv("PINOCHLE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value fails validation", func() {
			clearConfigEnvVars(t)
			t.Setenv("PINOCHLE_STORE_DRIVER", "postgres")

			_, err := config.Load(ctx)

			convey.Convey("Then an invalid config error is returned", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PINOCHLE_CONFIG", "PINOCHLE_ADDR", "PINOCHLE_STORE_DRIVER", "PINOCHLE_DATA_DIR",
		"PINOCHLE_DB_PATH", "PINOCHLE_MAX_LEADERBOARD_LIMIT", "PINOCHLE_TEAM_PLAY",
		"PINOCHLE_LOG_LEVEL", "PINOCHLE_LOG_FORMAT",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}
