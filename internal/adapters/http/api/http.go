// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/pinochle/internal/adapters/http/swagger"
	"github.com/okian/pinochle/internal/domain/hand"
	"github.com/okian/pinochle/pkg/logger"
)

const defaultMaxLimit = 100

// Dependencies required by HTTP handlers. The app service satisfies it.
type Dependencies interface {
	PlayerDependencies
	GameDependencies
	LeaderboardDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	playerHandler      *PlayerHandler
	gameHandler        *GameHandler
	leaderboardHandler *LeaderboardHandler

	logger   logger.Logger
	maxLimit int
	checkers []Checker
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps GET /leaderboard?limit.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChecker adds a readiness check served at /readyz.
func WithChecker(c Checker) Option {
	return func(s *Server) {
		if c.Check != nil {
			s.checkers = append(s.checkers, c)
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}
	s.healthHandler = NewHealthHandler(s.logger, s.checkers...)
	s.statsHandler = NewStatsHandler(deps)
	s.playerHandler = NewPlayerHandler(deps)
	s.gameHandler = NewGameHandler(deps)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.maxLimit)
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	swagger.Register(r)
	s.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/readyz", MetricsMiddleware(s.healthHandler.HandleReady, "readyz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/players", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.playerHandler.HandleList, "players"))
		r.Post("/", MetricsMiddleware(s.playerHandler.HandleRegister, "players"))
		r.Get("/{id}/stats", MetricsMiddleware(s.leaderboardHandler.HandleGetPlayerStats, "player_stats"))
		r.Get("/{id}/rank", MetricsMiddleware(s.leaderboardHandler.HandleGetRank, "rank"))
	})

	r.Post("/games", MetricsMiddleware(s.gameHandler.HandleNewGame, "games"))
	r.Route("/games/current", func(r chi.Router) {
		g := s.gameHandler
		r.Get("/", MetricsMiddleware(g.HandleCurrent, "current"))
		r.Get("/status", MetricsMiddleware(g.HandleStatus, "status"))
		r.Get("/winner", MetricsMiddleware(g.HandleWinner, "winner"))
		r.Post("/end", MetricsMiddleware(g.HandleEnd, "end"))
		r.Put("/hands/{number}", MetricsMiddleware(g.HandleEditHand, "edit_hand"))

		r.Get("/round", MetricsMiddleware(g.HandleRound, "round"))
		r.Post("/round/bid", MetricsMiddleware(g.HandleBid, "bid"))
		r.Post("/round/meld", MetricsMiddleware(g.HandleMeld, "meld"))
		r.Post("/round/tricks", MetricsMiddleware(g.HandleTricks, "tricks"))
		r.Post("/round/moon", MetricsMiddleware(g.HandleMoon, "moon"))
		r.Post("/round/throw-in", MetricsMiddleware(g.HandleThrowIn, "throw_in"))
		r.Post("/round/back", MetricsMiddleware(g.HandleBack, "back"))
	})

	r.Get("/history", MetricsMiddleware(s.gameHandler.HandleHistory, "history"))
	r.Get("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
}

type errorResponse struct {
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Problems []string `json:"problems,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, Problems: hand.Problems(err)})
}

// fail classifies err and writes it.
func fail(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
