package service_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/okian/pinochle/internal/adapters/repository"
	service "github.com/okian/pinochle/internal/app"
	"github.com/okian/pinochle/internal/domain/hand"
	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/round"
	"github.com/okian/pinochle/internal/domain/session"
	"github.com/okian/pinochle/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

var start = time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)

func newService(store repository.Store) *service.Service {
	return service.New(
		service.WithStore(store),
		service.WithLogger(logger.New(logger.WithWriter(io.Discard))),
		service.WithClock(func() time.Time { return start }),
	)
}

// startTwoHanded registers Ann and Bob and opens a game with Ann dealing.
func startTwoHanded(ctx context.Context, svc *service.Service) (model.Player, model.Player) {
	ann, err := svc.RegisterPlayer(ctx, "Ann")
	So(err, ShouldBeNil)
	bob, err := svc.RegisterPlayer(ctx, "Bob")
	So(err, ShouldBeNil)
	_, err = svc.NewGame(ctx, service.GameRequest{PlayerIDs: []model.PlayerID{ann.ID, bob.ID}})
	So(err, ShouldBeNil)
	return ann, bob
}

func playHand(ctx context.Context, svc *service.Service, bid int, bidder model.PlayerID,
	meld map[model.PlayerID]int, tricks map[model.PlayerID]int,
) service.HandResult {
	_, err := svc.EnterBid(ctx, bid, bidder)
	So(err, ShouldBeNil)
	_, err = svc.EnterMeld(ctx, meld, nil)
	So(err, ShouldBeNil)
	res, err := svc.SubmitTricks(ctx, tricks)
	So(err, ShouldBeNil)
	return res
}

func moon(ctx context.Context, svc *service.Service, bidder model.PlayerID, meld map[model.PlayerID]int) service.HandResult {
	_, err := svc.EnterBid(ctx, 150, bidder)
	So(err, ShouldBeNil)
	_, err = svc.EnterMeld(ctx, meld, nil)
	So(err, ShouldBeNil)
	res, err := svc.ShootTheMoon(ctx)
	So(err, ShouldBeNil)
	return res
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that has not started", t, func() {
		ctx := context.Background()
		svc := newService(repository.NewMemoryStore())

		Convey("Then calls fail with ErrNotStarted", func() {
			_, err := svc.RegisterPlayer(ctx, "Ann")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(svc.GetStats()["started"], ShouldBeFalse)
		})

		Convey("When it starts", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then it reports no active game", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["activeGame"], ShouldBeFalse)
				_, err := svc.Status(ctx)
				So(errors.Is(err, service.ErrNoActiveGame), ShouldBeTrue)
				So(svc.Ping(ctx), ShouldBeNil)
			})

			Convey("And starting twice is harmless", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})
}

func TestService_Players(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := newService(repository.NewMemoryStore())
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When players register", func() {
			ann, err := svc.RegisterPlayer(ctx, "  Ann ")
			So(err, ShouldBeNil)

			Convey("Then names are trimmed and ids assigned", func() {
				So(ann.Name, ShouldEqual, "Ann")
				So(ann.ID, ShouldNotBeEmpty)
				So(svc.Players(ctx), ShouldResemble, []model.Player{ann})
			})

			Convey("Then a duplicate name is refused regardless of case", func() {
				_, err := svc.RegisterPlayer(ctx, "ANN")
				So(errors.Is(err, service.ErrDuplicatePlayer), ShouldBeTrue)
			})

			Convey("Then an empty name is refused", func() {
				_, err := svc.RegisterPlayer(ctx, "   ")
				So(errors.Is(err, service.ErrInvalidName), ShouldBeTrue)
			})
		})
	})
}

func TestService_NewGame(t *testing.T) {
	Convey("Given registered players", t, func() {
		ctx := context.Background()
		svc := newService(repository.NewMemoryStore())
		So(svc.Start(ctx), ShouldBeNil)
		ids := make([]model.PlayerID, 0, 5)
		for _, name := range []string{"Ann", "Bob", "Cy", "Di", "Ed"} {
			p, err := svc.RegisterPlayer(ctx, name)
			So(err, ShouldBeNil)
			ids = append(ids, p.ID)
		}

		Convey("When a game names an unknown player", func() {
			_, err := svc.NewGame(ctx, service.GameRequest{PlayerIDs: []model.PlayerID{ids[0], "ghost"}})
			So(errors.Is(err, service.ErrUnknownPlayer), ShouldBeTrue)
		})

		Convey("When a game has too many players", func() {
			_, err := svc.NewGame(ctx, service.GameRequest{PlayerIDs: ids})
			So(errors.Is(err, session.ErrInvalidGameType), ShouldBeTrue)
		})

		Convey("When a four-player game starts", func() {
			st, err := svc.NewGame(ctx, service.GameRequest{PlayerIDs: ids[:4], Dealer: 2})

			Convey("Then partners sit across and the target is 1500", func() {
				So(err, ShouldBeNil)
				So(st.TargetScore, ShouldEqual, 1500)
				So(st.HandNumber, ShouldEqual, 1)
				So(st.Dealer.Name, ShouldEqual, "Cy")
				So(st.Teams, ShouldHaveLength, 2)
				So(st.Teams[0].Name, ShouldEqual, "Ann & Cy")
			})

			Convey("Then a second game is refused", func() {
				_, err := svc.NewGame(ctx, service.GameRequest{PlayerIDs: ids[:2]})
				So(errors.Is(err, service.ErrGameInProgress), ShouldBeTrue)
			})
		})

		Convey("When partnership is turned off for a four-player game", func() {
			off := false
			_, err := svc.NewGame(ctx, service.GameRequest{PlayerIDs: ids[:4], Partnership: &off})
			So(err, ShouldBeNil)
			cur, err := svc.Current(ctx)
			So(err, ShouldBeNil)
			So(cur.Partnership, ShouldBeFalse)
		})
	})
}

func TestService_Hands(t *testing.T) {
	Convey("Given a two-handed game", t, func() {
		ctx := context.Background()
		svc := newService(repository.NewMemoryStore())
		So(svc.Start(ctx), ShouldBeNil)
		ann, bob := startTwoHanded(ctx, svc)

		Convey("When Ann makes her bid", func() {
			res := playHand(ctx, svc, 150, ann.ID,
				map[model.PlayerID]int{ann.ID: 60, bob.ID: 40},
				map[model.PlayerID]int{ann.ID: 15, bob.ID: 10})

			Convey("Then both players score meld plus tricks", func() {
				So(res.Outcome, ShouldEqual, "made")
				So(res.Deltas[ann.ID], ShouldEqual, 210)
				So(res.Deltas[bob.ID], ShouldEqual, 140)
				So(res.Status.HandNumber, ShouldEqual, 2)
				So(res.Status.Dealer.ID, ShouldEqual, bob.ID)
				So(res.Status.Leader.PlayerID, ShouldEqual, ann.ID)
			})
		})

		Convey("When Ann is set", func() {
			res := playHand(ctx, svc, 300, ann.ID,
				map[model.PlayerID]int{ann.ID: 40, bob.ID: 20},
				map[model.PlayerID]int{ann.ID: 10, bob.ID: 15})

			Convey("Then she loses her bid and Bob scores normally", func() {
				So(res.Outcome, ShouldEqual, "set")
				So(res.Deltas[ann.ID], ShouldEqual, -300)
				So(res.Deltas[bob.ID], ShouldEqual, 170)
			})
		})

		Convey("When Bob takes no tricks", func() {
			_, err := svc.EnterBid(ctx, 150, ann.ID)
			So(err, ShouldBeNil)

			Convey("Then claimed nines are kept", func() {
				_, err := svc.EnterMeld(ctx, map[model.PlayerID]int{ann.ID: 100, bob.ID: 20},
					map[model.PlayerID]bool{bob.ID: true})
				So(err, ShouldBeNil)
				res, err := svc.SubmitTricks(ctx, map[model.PlayerID]int{ann.ID: 25, bob.ID: 0})
				So(err, ShouldBeNil)
				So(res.Melds, ShouldHaveLength, 1)
				So(res.Melds[0].Status, ShouldEqual, hand.MeldSafeNinesOnly)
				So(res.Deltas[bob.ID], ShouldEqual, 20)
			})

			Convey("Then other meld is forfeited", func() {
				_, err := svc.EnterMeld(ctx, map[model.PlayerID]int{ann.ID: 100, bob.ID: 60}, nil)
				So(err, ShouldBeNil)
				res, err := svc.SubmitTricks(ctx, map[model.PlayerID]int{ann.ID: 25})
				So(err, ShouldBeNil)
				So(res.Melds[0].Status, ShouldEqual, hand.MeldForfeited)
				So(res.Deltas[bob.ID], ShouldEqual, 0)
			})
		})

		Convey("When Ann shoots the moon", func() {
			res := moon(ctx, svc, ann.ID, map[model.PlayerID]int{ann.ID: 80, bob.ID: 30})

			Convey("Then she scores 500 and Bob keeps his meld", func() {
				So(res.Outcome, ShouldEqual, "moon")
				So(res.Hand.ShotTheMoon, ShouldBeTrue)
				So(res.Deltas[ann.ID], ShouldEqual, 500)
				So(res.Deltas[bob.ID], ShouldEqual, 30)
			})
		})

		Convey("When the hand is thrown in", func() {
			res, err := svc.ThrowIn(ctx)

			Convey("Then nobody scores but the deal moves", func() {
				So(err, ShouldBeNil)
				So(res.Outcome, ShouldEqual, "thrown_in")
				So(res.Deltas[ann.ID], ShouldEqual, 0)
				So(res.Status.Dealer.ID, ShouldEqual, bob.ID)
				So(res.Status.HandNumber, ShouldEqual, 2)
			})
		})

		Convey("When input is out of order or invalid", func() {
			_, err := svc.SubmitTricks(ctx, map[model.PlayerID]int{ann.ID: 10})
			So(errors.Is(err, round.ErrWrongPhase), ShouldBeTrue)

			_, err = svc.EnterBid(ctx, 155, ann.ID)
			So(errors.Is(err, hand.ErrInvalidHand), ShouldBeTrue)
			So(hand.Problems(err), ShouldNotBeEmpty)

			_, err = svc.EnterBid(ctx, 150, "ghost")
			So(errors.Is(err, round.ErrUnknownPlayer), ShouldBeTrue)

			_, err = svc.EnterBid(ctx, 150, ann.ID)
			So(err, ShouldBeNil)
			_, err = svc.ThrowIn(ctx)
			So(errors.Is(err, round.ErrWrongPhase), ShouldBeTrue)

			_, err = svc.EnterMeld(ctx, map[model.PlayerID]int{ann.ID: 10}, nil)
			So(err, ShouldBeNil)
			_, err = svc.SubmitTricks(ctx, map[model.PlayerID]int{ann.ID: 20, bob.ID: 10})
			So(errors.Is(err, hand.ErrInvalidHand), ShouldBeTrue)

			Convey("Then stepping back clears the entered phases", func() {
				st, err := svc.Back(ctx)
				So(err, ShouldBeNil)
				So(st.Phase, ShouldEqual, "bid_set")
				st, err = svc.Back(ctx)
				So(err, ShouldBeNil)
				So(st.Phase, ShouldEqual, "no_hand")
				_, err = svc.Back(ctx)
				So(errors.Is(err, round.ErrWrongPhase), ShouldBeTrue)
			})
		})
	})
}

func TestService_EditHand(t *testing.T) {
	Convey("Given a game with one recorded hand", t, func() {
		ctx := context.Background()
		svc := newService(repository.NewMemoryStore())
		So(svc.Start(ctx), ShouldBeNil)
		ann, bob := startTwoHanded(ctx, svc)
		playHand(ctx, svc, 150, ann.ID,
			map[model.PlayerID]int{ann.ID: 60, bob.ID: 40},
			map[model.PlayerID]int{ann.ID: 15, bob.ID: 10})

		Convey("When Ann's tricks are corrected down", func() {
			st, err := svc.EditHand(ctx, 1, hand.Correction{Tricks: map[model.PlayerID]int{ann.ID: 5}})

			Convey("Then the totals are replayed and she is set", func() {
				So(err, ShouldBeNil)
				So(st.Standings[0].Score, ShouldEqual, -150)
				So(st.Standings[1].Score, ShouldEqual, 140)
			})
		})

		Convey("When an unknown hand is corrected", func() {
			_, err := svc.EditHand(ctx, 9, hand.Correction{})
			So(errors.Is(err, session.ErrHandNotFound), ShouldBeTrue)
		})

		Convey("When a thrown-in hand is corrected", func() {
			_, err := svc.ThrowIn(ctx)
			So(err, ShouldBeNil)
			bid := 200
			_, err = svc.EditHand(ctx, 2, hand.Correction{Bid: &bid})
			So(errors.Is(err, session.ErrThrownInHand), ShouldBeTrue)
		})
	})
}

func TestService_EndGame(t *testing.T) {
	Convey("Given a two-handed game", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := newService(store)
		So(svc.Start(ctx), ShouldBeNil)
		ann, bob := startTwoHanded(ctx, svc)

		Convey("When nobody has reached the target", func() {
			_, ok, err := svc.CheckForWinner(ctx)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
			_, err = svc.EndGame(ctx, "")
			So(errors.Is(err, service.ErrNoWinner), ShouldBeTrue)

			Convey("Then a named winner must be seated", func() {
				_, err := svc.EndGame(ctx, "ghost")
				So(errors.Is(err, service.ErrUnknownPlayer), ShouldBeTrue)
			})
		})

		Convey("When Ann shoots the moon twice", func() {
			moon(ctx, svc, ann.ID, map[model.PlayerID]int{ann.ID: 0, bob.ID: 20})
			moon(ctx, svc, ann.ID, map[model.PlayerID]int{ann.ID: 0, bob.ID: 20})

			w, ok, err := svc.CheckForWinner(ctx)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(w.ID, ShouldEqual, string(ann.ID))
			So(w.Score, ShouldEqual, 1000)

			Convey("Then play continues until the game is ended", func() {
				st, err := svc.Status(ctx)
				So(err, ShouldBeNil)
				So(st.Ended, ShouldBeFalse)
				So(st.Winner.Name, ShouldEqual, "Ann")
			})

			Convey("Then ending it archives the game", func() {
				data, err := svc.EndGame(ctx, "")
				So(err, ShouldBeNil)
				So(*data.WinnerID, ShouldEqual, string(ann.ID))
				So(data.EndTime, ShouldNotBeNil)

				_, err = svc.Current(ctx)
				So(errors.Is(err, service.ErrNoActiveGame), ShouldBeTrue)

				history, err := svc.History(ctx)
				So(err, ShouldBeNil)
				So(history, ShouldHaveLength, 1)

				board, err := svc.Leaderboard(ctx, 10)
				So(err, ShouldBeNil)
				So(board, ShouldHaveLength, 2)
				So(board[0].Name, ShouldEqual, "Ann")
				So(board[0].GamesWon, ShouldEqual, 1)

				entry, err := svc.Rank(ctx, bob.ID)
				So(err, ShouldBeNil)
				So(entry.Rank, ShouldEqual, 2)

				st, err := svc.PlayerStats(ctx, ann.ID)
				So(err, ShouldBeNil)
				So(st.MoonShots, ShouldEqual, 2)
				So(st.BidsMade, ShouldEqual, 2)
			})
		})
	})
}

func TestService_Restart(t *testing.T) {
	Convey("Given a game in progress on a shared store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		svc := newService(store)
		So(svc.Start(ctx), ShouldBeNil)
		ann, bob := startTwoHanded(ctx, svc)
		playHand(ctx, svc, 150, ann.ID,
			map[model.PlayerID]int{ann.ID: 60, bob.ID: 40},
			map[model.PlayerID]int{ann.ID: 15, bob.ID: 10})
		_, err := svc.EnterBid(ctx, 160, bob.ID)
		So(err, ShouldBeNil)

		Convey("When a new service starts on the same store", func() {
			next := newService(store)
			So(next.Start(ctx), ShouldBeNil)

			Convey("Then the game and its totals are restored", func() {
				st, err := next.Status(ctx)
				So(err, ShouldBeNil)
				So(st.HandNumber, ShouldEqual, 2)
				So(st.Standings[0].Score, ShouldEqual, 210)
				So(next.Players(ctx), ShouldHaveLength, 2)
			})

			Convey("Then the unfinished bid is not", func() {
				rs, err := next.Round(ctx)
				So(err, ShouldBeNil)
				So(rs.Phase, ShouldEqual, "no_hand")
			})
		})
	})
}
