package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/pinochle/internal/adapters/http/api"
	"github.com/okian/pinochle/internal/adapters/repository"
	service "github.com/okian/pinochle/internal/app"
	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type harness struct {
	handler http.Handler
}

func newHarness(checkers ...api.Checker) *harness {
	log := logger.New(logger.WithWriter(io.Discard))
	svc := service.New(service.WithStore(repository.NewMemoryStore()), service.WithLogger(log))
	So(svc.Start(context.Background()), ShouldBeNil)
	opts := []api.Option{api.WithLogger(log), api.WithMaxLeaderboardLimit(50)}
	for _, c := range checkers {
		opts = append(opts, api.WithChecker(c))
	}
	return &harness{handler: api.NewServer(svc, opts...).Handler()}
}

func (h *harness) do(method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		So(err, ShouldBeNil)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](rec *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(rec.Body.Bytes(), &v), ShouldBeNil)
	return v
}

type apiError struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Problems []string `json:"problems"`
}

func (h *harness) register(name string) model.Player {
	rec := h.do(http.MethodPost, "/players", map[string]string{"name": name})
	So(rec.Code, ShouldEqual, http.StatusCreated)
	return decode[model.Player](rec)
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given an API server", t, func() {
		h := newHarness(
			api.Checker{Name: "store", Check: func(context.Context) error { return nil }},
		)

		Convey("Then /healthz serves Prometheus metrics", func() {
			h.do(http.MethodGet, "/players", nil)
			rec := h.do(http.MethodGet, "/healthz", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "pinochle_scorekeeper_http_requests_total")
		})

		Convey("Then /readyz reports each checker", func() {
			rec := h.do(http.MethodGet, "/readyz", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]map[string]string](rec)["store"]["status"], ShouldEqual, "ok")
		})

		Convey("Then /stats reports the service state", func() {
			rec := h.do(http.MethodGet, "/stats", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]any](rec)["started"], ShouldEqual, true)
		})
	})

	Convey("Given a failing checker", t, func() {
		h := newHarness(
			api.Checker{Name: "store", Check: func(context.Context) error { return errors.New("down") }},
		)
		rec := h.do(http.MethodGet, "/readyz", nil)
		So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
	})
}

func TestPlayersAPI(t *testing.T) {
	Convey("Given an API server", t, func() {
		h := newHarness()

		Convey("When a player registers", func() {
			ann := h.register("Ann")

			Convey("Then they are listed", func() {
				rec := h.do(http.MethodGet, "/players", nil)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(decode[[]model.Player](rec), ShouldResemble, []model.Player{ann})
			})

			Convey("Then a duplicate is a conflict", func() {
				rec := h.do(http.MethodPost, "/players", map[string]string{"name": "ann"})
				So(rec.Code, ShouldEqual, http.StatusConflict)
				So(decode[apiError](rec).Code, ShouldEqual, "duplicate_player")
			})

			Convey("Then their stats are empty", func() {
				rec := h.do(http.MethodGet, "/players/"+string(ann.ID)+"/stats", nil)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]any](rec)["gamesPlayed"], ShouldEqual, 0)
			})
		})

		Convey("When the body is malformed", func() {
			req := httptest.NewRequest(http.MethodPost, "/players", strings.NewReader("{"))
			rec := httptest.NewRecorder()
			h.handler.ServeHTTP(rec, req)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When an unknown player is looked up", func() {
			rec := h.do(http.MethodGet, "/players/ghost/stats", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGameAPI(t *testing.T) {
	Convey("Given two registered players", t, func() {
		h := newHarness()
		ann, bob := h.register("Ann"), h.register("Bob")

		Convey("When no game is open", func() {
			rec := h.do(http.MethodGet, "/games/current/status", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(decode[apiError](rec).Code, ShouldEqual, "no_active_game")
		})

		Convey("When a game starts", func() {
			rec := h.do(http.MethodPost, "/games", service.GameRequest{PlayerIDs: []model.PlayerID{ann.ID, bob.ID}})
			So(rec.Code, ShouldEqual, http.StatusCreated)
			So(decode[map[string]any](rec)["targetScore"], ShouldEqual, 1000)

			Convey("Then a hand can be entered phase by phase", func() {
				rec := h.do(http.MethodPost, "/games/current/round/bid", map[string]any{"bid": 150, "bidderId": ann.ID})
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]any](rec)["phase"], ShouldEqual, "bid_set")

				rec = h.do(http.MethodPost, "/games/current/round/meld", map[string]any{
					"meld": map[model.PlayerID]int{ann.ID: 60, bob.ID: 40},
				})
				So(rec.Code, ShouldEqual, http.StatusOK)

				rec = h.do(http.MethodPost, "/games/current/round/tricks", map[string]any{
					"tricks": map[model.PlayerID]int{ann.ID: 15, bob.ID: 10},
				})
				So(rec.Code, ShouldEqual, http.StatusCreated)
				res := decode[service.HandResult](rec)
				So(res.Outcome, ShouldEqual, "made")
				So(res.Deltas[ann.ID], ShouldEqual, 210)
				So(res.Status.HandNumber, ShouldEqual, 2)

				Convey("And corrected afterwards", func() {
					rec := h.do(http.MethodPut, "/games/current/hands/1", map[string]any{
						"tricks": map[model.PlayerID]int{ann.ID: 5},
					})
					So(rec.Code, ShouldEqual, http.StatusOK)
					st := decode[map[string]any](rec)
					So(st["leader"].(map[string]any)["name"], ShouldEqual, "Bob")
				})

				Convey("And history stays empty until the game ends", func() {
					rec := h.do(http.MethodGet, "/history", nil)
					So(rec.Code, ShouldEqual, http.StatusOK)
					So(decode[[]any](rec), ShouldBeEmpty)

					rec = h.do(http.MethodPost, "/games/current/end", map[string]string{"winnerId": string(ann.ID)})
					So(rec.Code, ShouldEqual, http.StatusOK)

					rec = h.do(http.MethodGet, "/history", nil)
					So(decode[[]any](rec), ShouldHaveLength, 1)

					rec = h.do(http.MethodGet, "/leaderboard?limit=5", nil)
					So(rec.Code, ShouldEqual, http.StatusOK)
					board := decode[[]map[string]any](rec)
					So(board, ShouldHaveLength, 2)
					So(board[0]["name"], ShouldEqual, "Ann")

					rec = h.do(http.MethodGet, "/players/"+string(bob.ID)+"/rank", nil)
					So(rec.Code, ShouldEqual, http.StatusOK)
					So(decode[map[string]any](rec)["rank"], ShouldEqual, 2)
				})
			})

			Convey("Then invalid input returns every problem", func() {
				h.do(http.MethodPost, "/games/current/round/bid", map[string]any{"bid": 150, "bidderId": ann.ID})
				rec := h.do(http.MethodPost, "/games/current/round/meld", map[string]any{
					"meld": map[model.PlayerID]int{ann.ID: -5, bob.ID: 15},
				})
				So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
				body := decode[apiError](rec)
				So(body.Code, ShouldEqual, "validation_failed")
				So(len(body.Problems), ShouldEqual, 3)
			})

			Convey("Then out-of-phase actions conflict", func() {
				rec := h.do(http.MethodPost, "/games/current/round/moon", nil)
				So(rec.Code, ShouldEqual, http.StatusConflict)
				So(decode[apiError](rec).Code, ShouldEqual, "wrong_phase")
			})

			Convey("Then a throw-in moves the deal", func() {
				rec := h.do(http.MethodPost, "/games/current/round/throw-in", nil)
				So(rec.Code, ShouldEqual, http.StatusCreated)
				res := decode[service.HandResult](rec)
				So(res.Status.Dealer.ID, ShouldEqual, bob.ID)
			})

			Convey("Then ending without a winner conflicts", func() {
				rec := h.do(http.MethodPost, "/games/current/end", nil)
				So(rec.Code, ShouldEqual, http.StatusConflict)
				So(decode[apiError](rec).Code, ShouldEqual, "no_winner")

				rec = h.do(http.MethodGet, "/games/current/winner", nil)
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]any](rec)["found"], ShouldEqual, false)
			})

			Convey("Then a bad hand number is rejected", func() {
				rec := h.do(http.MethodPut, "/games/current/hands/zero", map[string]any{"bid": 200})
				So(rec.Code, ShouldEqual, http.StatusBadRequest)
				rec = h.do(http.MethodPut, "/games/current/hands/4", map[string]any{"bid": 200})
				So(rec.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestLeaderboardLimits(t *testing.T) {
	Convey("Given an API server with a limit of 50", t, func() {
		h := newHarness()

		Convey("Then limits outside 1..50 are rejected", func() {
			So(h.do(http.MethodGet, "/leaderboard?limit=0", nil).Code, ShouldEqual, http.StatusBadRequest)
			So(h.do(http.MethodGet, "/leaderboard?limit=x", nil).Code, ShouldEqual, http.StatusBadRequest)
			rec := h.do(http.MethodGet, "/leaderboard?limit=51", nil)
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[apiError](rec).Code, ShouldEqual, "limit_exceeded")
		})

		Convey("Then a missing limit uses the default", func() {
			rec := h.do(http.MethodGet, "/leaderboard", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(decode[[]any](rec), ShouldBeEmpty)
		})
	})
}
