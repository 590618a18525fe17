package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	service "github.com/okian/pinochle/internal/app"
	"github.com/okian/pinochle/internal/domain/hand"
	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/round"
	"github.com/okian/pinochle/internal/domain/session"
)

// GameDependencies defines the interface for playing and recording a game.
type GameDependencies interface {
	NewGame(ctx context.Context, req service.GameRequest) (session.Status, error)
	Current(ctx context.Context) (session.Data, error)
	Status(ctx context.Context) (session.Status, error)
	Round(ctx context.Context) (round.State, error)
	EnterBid(ctx context.Context, bid int, bidderID model.PlayerID) (round.State, error)
	EnterMeld(ctx context.Context, meld map[model.PlayerID]int, ninesOnly map[model.PlayerID]bool) (round.State, error)
	SubmitTricks(ctx context.Context, tricks map[model.PlayerID]int) (service.HandResult, error)
	ShootTheMoon(ctx context.Context) (service.HandResult, error)
	ThrowIn(ctx context.Context) (service.HandResult, error)
	Back(ctx context.Context) (round.State, error)
	EditHand(ctx context.Context, number int, c hand.Correction) (session.Status, error)
	CheckForWinner(ctx context.Context) (session.Winner, bool, error)
	EndGame(ctx context.Context, winnerID string) (session.Data, error)
	History(ctx context.Context) ([]session.Data, error)
}

// GameHandler handles game and hand-entry requests.
type GameHandler struct {
	deps GameDependencies
}

// NewGameHandler creates a new game handler.
func NewGameHandler(deps GameDependencies) *GameHandler {
	return &GameHandler{deps: deps}
}

type bidRequest struct {
	Bid      int            `json:"bid"`
	BidderID model.PlayerID `json:"bidderId"`
}

type meldRequest struct {
	Meld      map[model.PlayerID]int  `json:"meld"`
	NinesOnly map[model.PlayerID]bool `json:"ninesOnly,omitempty"`
}

type tricksRequest struct {
	Tricks map[model.PlayerID]int `json:"tricks"`
}

type endRequest struct {
	WinnerID string `json:"winnerId,omitempty"`
}

type winnerResponse struct {
	Found  bool            `json:"found"`
	Winner *session.Winner `json:"winner,omitempty"`
}

// HandleNewGame handles POST /games.
func (h *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req service.GameRequest
	if err := readJSON(r, &req); err != nil {
		fail(w, err)
		return
	}
	v, err := h.deps.NewGame(r.Context(), req)
	respond(w, http.StatusCreated, v, err)
}

// HandleCurrent handles GET /games/current.
func (h *GameHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Current(r.Context())
	respond(w, http.StatusOK, v, err)
}

// HandleStatus handles GET /games/current/status.
func (h *GameHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Status(r.Context())
	respond(w, http.StatusOK, v, err)
}

// HandleWinner handles GET /games/current/winner.
func (h *GameHandler) HandleWinner(w http.ResponseWriter, r *http.Request) {
	winner, ok, err := h.deps.CheckForWinner(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	resp := winnerResponse{Found: ok}
	if ok {
		resp.Winner = &winner
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleRound handles GET /games/current/round.
func (h *GameHandler) HandleRound(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Round(r.Context())
	respond(w, http.StatusOK, v, err)
}

// HandleBid handles POST /games/current/round/bid.
func (h *GameHandler) HandleBid(w http.ResponseWriter, r *http.Request) {
	var req bidRequest
	if err := readJSON(r, &req); err != nil {
		fail(w, err)
		return
	}
	v, err := h.deps.EnterBid(r.Context(), req.Bid, req.BidderID)
	respond(w, http.StatusOK, v, err)
}

// HandleMeld handles POST /games/current/round/meld.
func (h *GameHandler) HandleMeld(w http.ResponseWriter, r *http.Request) {
	var req meldRequest
	if err := readJSON(r, &req); err != nil {
		fail(w, err)
		return
	}
	v, err := h.deps.EnterMeld(r.Context(), req.Meld, req.NinesOnly)
	respond(w, http.StatusOK, v, err)
}

// HandleTricks handles POST /games/current/round/tricks.
func (h *GameHandler) HandleTricks(w http.ResponseWriter, r *http.Request) {
	var req tricksRequest
	if err := readJSON(r, &req); err != nil {
		fail(w, err)
		return
	}
	v, err := h.deps.SubmitTricks(r.Context(), req.Tricks)
	respond(w, http.StatusCreated, v, err)
}

// HandleMoon handles POST /games/current/round/moon.
func (h *GameHandler) HandleMoon(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.ShootTheMoon(r.Context())
	respond(w, http.StatusCreated, v, err)
}

// HandleThrowIn handles POST /games/current/round/throw-in.
func (h *GameHandler) HandleThrowIn(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.ThrowIn(r.Context())
	respond(w, http.StatusCreated, v, err)
}

// HandleBack handles POST /games/current/round/back.
func (h *GameHandler) HandleBack(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Back(r.Context())
	respond(w, http.StatusOK, v, err)
}

// HandleEditHand handles PUT /games/current/hands/{number}.
func (h *GameHandler) HandleEditHand(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		fail(w, fmt.Errorf("%w: hand number must be a positive integer", ErrBadRequest))
		return
	}
	var c hand.Correction
	if err := readJSON(r, &c); err != nil {
		fail(w, err)
		return
	}
	if c.Empty() {
		fail(w, fmt.Errorf("%w: correction changes nothing", ErrBadRequest))
		return
	}
	v, err := h.deps.EditHand(r.Context(), number, c)
	respond(w, http.StatusOK, v, err)
}

// HandleEnd handles POST /games/current/end. The body is optional.
func (h *GameHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		fail(w, err)
		return
	}
	v, err := h.deps.EndGame(r.Context(), req.WinnerID)
	respond(w, http.StatusOK, v, err)
}

// HandleHistory handles GET /history.
func (h *GameHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	games, err := h.deps.History(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	if games == nil {
		games = []session.Data{}
	}
	writeJSON(w, http.StatusOK, games)
}

// respond writes v with status, or the classified error.
func respond(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, status, v)
}
