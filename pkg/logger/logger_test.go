package logger

import (
	"context"
	"log/slog"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInitAndGet(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then Get returns it without panicking", func() {
			So(func() { Get() }, ShouldNotPanic)
			So(Get(), ShouldNotBeNil)
		})

		Convey("Then Named derives a scoped logger", func() {
			So(Named("scoring"), ShouldNotBeNil)
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Given the nop logger", t, func() {
		log := Nop()
		ctx := context.Background()

		Convey("Then every level accepts fields without output or panic", func() {
			So(func() {
				log.Debug(ctx, "msg", String("k", "v"))
				log.Info(ctx, "msg", Int("n", 1))
				log.Warn(ctx, "msg", Float64("f", 1.5))
				log.Error(ctx, "msg", Any("v", struct{}{}), Error(nil))
				log.Named("sub").Info(ctx, "msg")
			}, ShouldNotPanic)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Known names are accepted", func() {
			for _, level := range []string{"debug", "info", "warn", "warning", "error", "", " INFO "} {
				So(SetLevelString(level), ShouldBeNil)
			}
		})

		Convey("The parsed level takes effect", func() {
			So(SetLevelString("error"), ShouldBeNil)
			So(levelVar.Level(), ShouldEqual, slog.LevelError)

			So(SetLevelString("debug"), ShouldBeNil)
			So(levelVar.Level(), ShouldEqual, slog.LevelDebug)
		})

		Convey("Unknown names are refused", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
