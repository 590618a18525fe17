package simulate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/pinochle/internal/adapters/http/api"
	"github.com/okian/pinochle/internal/adapters/repository"
	service "github.com/okian/pinochle/internal/app"
	"github.com/okian/pinochle/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func startServer(ctx context.Context) (*httptest.Server, *service.Service) {
	quiet := logger.New(logger.WithWriter(io.Discard))
	svc := service.New(service.WithStore(repository.NewMemoryStore()), service.WithLogger(quiet))
	So(svc.Start(ctx), ShouldBeNil)
	srv := httptest.NewServer(api.NewServer(svc, api.WithLogger(quiet)).Handler())
	return srv, svc
}

func TestRun(t *testing.T) {
	quiet := logger.New(logger.WithWriter(io.Discard))

	Convey("Given a running scorekeeper", t, func() {
		ctx := context.Background()
		srv, svc := startServer(ctx)
		defer srv.Close()

		for _, players := range []int{2, 3, 4} {
			Convey(fmt.Sprintf("When %d-player games are simulated to the target", players), func() {
				stats, err := Run(ctx, Config{
					BaseURL:  srv.URL,
					Games:    2,
					Players:  players,
					MaxHands: 500,
					Seed:     uint64(players),
					Timeout:  5 * time.Second,
				}, quiet)

				Convey("Then every total matches the replay", func() {
					So(err, ShouldBeNil)
					So(stats.GamesPlayed, ShouldEqual, 2)
					So(stats.GamesWon, ShouldEqual, 2)
					So(stats.Corrections, ShouldEqual, 2)
					So(stats.HandsRecorded, ShouldBeGreaterThan, 2)
				})

				Convey("Then the games are in the server history", func() {
					history, err := svc.History(ctx)
					So(err, ShouldBeNil)
					So(history, ShouldHaveLength, 2)
				})
			})
		}

		Convey("When games stop before anyone reaches the target", func() {
			stats, err := Run(ctx, Config{BaseURL: srv.URL, Games: 1, Players: 3, MaxHands: 1, Seed: 9}, quiet)

			Convey("Then the leader is declared the winner", func() {
				So(err, ShouldBeNil)
				So(stats.GamesPlayed, ShouldEqual, 1)
				So(stats.GamesWon, ShouldEqual, 0)
				So(stats.HandsRecorded, ShouldEqual, 1)
			})
		})
	})

	Convey("Given an invalid config", t, func() {
		_, err := Run(context.Background(), Config{BaseURL: "http://localhost:1", Games: 1, Players: 5, MaxHands: 1}, quiet)

		Convey("Then the run is refused", func() {
			So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
		})
	})

	Convey("Given a server that is not listening", t, func() {
		srv := httptest.NewServer(nil)
		url := srv.URL
		srv.Close()

		_, err := Run(context.Background(), Config{BaseURL: url, Games: 1, Players: 2, MaxHands: 1, Timeout: time.Second}, quiet)

		Convey("Then readiness fails", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "readiness")
		})
	})
}
