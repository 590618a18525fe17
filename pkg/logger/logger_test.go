package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(Init(WithWriter(&bytes.Buffer{})), ShouldBeNil)

		Convey("Then it can be fetched and named", func() {
			So(Get(), ShouldNotBeNil)
			So(Named("test"), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithFormat("json")), ShouldBeNil)
		log := Named("games")

		Convey("When an info line is logged", func() {
			log.Info(context.Background(), "hand recorded",
				String("game", "g1"), Int("hand", 3), Bool("set", true), Duration("took", time.Second))

			Convey("Then every field is present", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "hand recorded")
				So(line["logger"], ShouldEqual, "games")
				So(line["game"], ShouldEqual, "g1")
				So(line["hand"], ShouldEqual, 3)
				So(line["set"], ShouldEqual, true)
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised", func() {
			So(SetLevelString("error"), ShouldBeNil)
			log.Info(context.Background(), "quiet")
			So(buf.Len(), ShouldEqual, 0)
			So(SetLevelString("info"), ShouldBeNil)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for _, lvl := range []string{"debug", "INFO", "warn", "warning", "error", ""} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("loud"), ShouldNotBeNil)
		So(SetLevelString("info"), ShouldBeNil)
	})
}
