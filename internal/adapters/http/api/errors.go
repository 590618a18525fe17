package api

import (
	"errors"
	"net/http"

	service "github.com/okian/pinochle/internal/app"
	"github.com/okian/pinochle/internal/domain/hand"
	"github.com/okian/pinochle/internal/domain/round"
	"github.com/okian/pinochle/internal/domain/session"
	"github.com/okian/pinochle/internal/domain/stats"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// errorKind maps a domain error to an HTTP status and a stable error code.
type errorKind struct {
	target error
	status int
	code   string
}

var errorKinds = []errorKind{
	{hand.ErrInvalidHand, http.StatusUnprocessableEntity, "validation_failed"},
	{ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{service.ErrInvalidName, http.StatusBadRequest, "bad_request"},
	{session.ErrInvalidGameType, http.StatusBadRequest, "invalid_game_type"},
	{session.ErrInvalidPlayers, http.StatusBadRequest, "invalid_players"},
	{service.ErrUnknownPlayer, http.StatusNotFound, "unknown_player"},
	{round.ErrUnknownPlayer, http.StatusNotFound, "unknown_player"},
	{stats.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrNoActiveGame, http.StatusNotFound, "no_active_game"},
	{session.ErrHandNotFound, http.StatusNotFound, "hand_not_found"},
	{service.ErrDuplicatePlayer, http.StatusConflict, "duplicate_player"},
	{service.ErrGameInProgress, http.StatusConflict, "game_in_progress"},
	{service.ErrNoWinner, http.StatusConflict, "no_winner"},
	{round.ErrWrongPhase, http.StatusConflict, "wrong_phase"},
	{session.ErrGameEnded, http.StatusConflict, "game_ended"},
	{session.ErrThrownInHand, http.StatusConflict, "thrown_in"},
	{service.ErrNotStarted, http.StatusServiceUnavailable, "unavailable"},
}

// classify returns the status and code for err, defaulting to 500.
func classify(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
