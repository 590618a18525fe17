package api

import (
	"context"
	"net/http"

	"github.com/okian/pinochle/internal/domain/model"
)

// PlayerDependencies defines the interface for the player registry.
type PlayerDependencies interface {
	RegisterPlayer(ctx context.Context, name string) (model.Player, error)
	Players(ctx context.Context) []model.Player
}

// PlayerHandler handles player registry requests.
type PlayerHandler struct {
	deps PlayerDependencies
}

// NewPlayerHandler creates a new player handler.
func NewPlayerHandler(deps PlayerDependencies) *PlayerHandler {
	return &PlayerHandler{deps: deps}
}

type registerRequest struct {
	Name string `json:"name"`
}

// HandleRegister handles POST /players.
func (h *PlayerHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(r, &req); err != nil {
		fail(w, err)
		return
	}
	p, err := h.deps.RegisterPlayer(r.Context(), req.Name)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleList handles GET /players.
func (h *PlayerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	players := h.deps.Players(r.Context())
	if players == nil {
		players = []model.Player{}
	}
	writeJSON(w, http.StatusOK, players)
}
