package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/stats"
	"github.com/okian/pinochle/internal/domain/types"
)

const defaultLimit = 10

// LeaderboardDependencies defines the interface for aggregate read operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, limit int) ([]types.Entry, error)
	Rank(ctx context.Context, id model.PlayerID) (types.Entry, error)
	PlayerStats(ctx context.Context, id model.PlayerID) (stats.PlayerStats, error)
}

// LeaderboardHandler handles leaderboard and player record requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N requests.
// A missing limit means min(10, max).
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := min(defaultLimit, h.maxLimit)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", ErrBadRequest)
		return
	}
	entries, err := h.deps.Leaderboard(r.Context(), n)
	if err != nil {
		fail(w, err)
		return
	}
	if entries == nil {
		entries = []types.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetRank handles GET /players/{id}/rank.
func (h *LeaderboardHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	entry, err := h.deps.Rank(r.Context(), model.PlayerID(chi.URLParam(r, "id")))
	respond(w, http.StatusOK, entry, err)
}

// HandleGetPlayerStats handles GET /players/{id}/stats.
func (h *LeaderboardHandler) HandleGetPlayerStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.PlayerStats(r.Context(), model.PlayerID(chi.URLParam(r, "id")))
	respond(w, http.StatusOK, st, err)
}
