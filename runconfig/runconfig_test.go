package runconfig

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"spreadsim/engine"
)

func TestEngineModeDefaultsToRocket(t *testing.T) {
	Convey("Given a RunConfig with an empty mode", t, func() {
		cfg := &RunConfig{}

		Convey("EngineMode returns ModeRocket", func() {
			So(cfg.EngineMode(), ShouldEqual, engine.ModeRocket)
		})
	})

	Convey("Given a RunConfig with mode \"starship\"", t, func() {
		cfg := &RunConfig{Mode: "starship"}

		Convey("EngineMode returns ModeStarship", func() {
			So(cfg.EngineMode(), ShouldEqual, engine.ModeStarship)
		})
	})
}

func TestWithDeadlineWithoutADeadlineNeverExpires(t *testing.T) {
	Convey("Given a RunConfig with no deadline", t, func() {
		cfg := &RunConfig{}

		Convey("WithDeadline returns a cancellable but otherwise unbounded context", func() {
			ctx, cancel, err := cfg.WithDeadline(context.Background())
			defer cancel()
			So(err, ShouldBeNil)
			So(ctx.Err(), ShouldBeNil)
		})
	})
}

func TestWithDeadlineRejectsAnUnparsableDuration(t *testing.T) {
	Convey("Given a RunConfig with a malformed deadline", t, func() {
		cfg := &RunConfig{Deadline: "not-a-duration"}

		Convey("WithDeadline returns an error", func() {
			_, _, err := cfg.WithDeadline(context.Background())
			So(err, ShouldNotBeNil)
		})
	})
}
