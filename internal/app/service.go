// Package service is the scorekeeper behind the HTTP API: the player
// registry, the open game with its hand in progress, and finished games.
// Every call is serialised; every mutation is saved before it returns.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/pinochle/internal/adapters/repository"
	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/round"
	"github.com/okian/pinochle/internal/domain/session"
	"github.com/okian/pinochle/pkg/logger"
	"github.com/okian/pinochle/pkg/metrics"
)

// Service implements the API dependencies for the scorekeeper.
type Service struct {
	mu sync.RWMutex

	store repository.Store
	clock func() time.Time

	// teamPlay is the default win mode of new 4-player games.
	teamPlay bool

	players []model.Player
	game    *session.Session
	round   *round.Round

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the persistence backend. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock overrides time.Now for game start and end stamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithTeamPlay sets whether 4-player games are won by partnerships unless
// the request says otherwise.
func WithTeamPlay(enabled bool) Option {
	return func(s *Service) {
		s.teamPlay = enabled
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		clock:    time.Now,
		teamPlay: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	return s
}

// Start loads the player registry and any game left open.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	players, err := s.store.LoadPlayers(ctx)
	if err != nil {
		return fmt.Errorf("load players: %w", err)
	}
	s.players = players

	data, err := s.store.LoadCurrent(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load current game: %w", err)
	default:
		game, err := session.FromData(data)
		if err != nil {
			return fmt.Errorf("restore game %s: %w", data.ID, err)
		}
		s.game = game
		s.round = round.New(game.Players)
	}

	s.started = true
	metrics.UpdateRegisteredPlayers(len(s.players))
	metrics.UpdateActiveGame(s.game != nil)

	fields := []logger.Field{logger.Int("players", len(s.players))}
	if s.game != nil {
		fields = append(fields, logger.String("game", s.game.ID), logger.Int("hands", len(s.game.Hands)))
	}
	s.logger.Info(ctx, "scorekeeper started", fields...)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "close store", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "scorekeeper stopped")
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":    s.started,
		"players":    len(s.players),
		"activeGame": s.game != nil,
		"teamPlay":   s.teamPlay,
	}
	if s.game != nil {
		stats["gameId"] = s.game.ID
		stats["handsPlayed"] = len(s.game.Hands)
		stats["phase"] = s.round.Phase().String()
	}
	return stats
}

func (s *Service) ready() error {
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// active returns the open game or ErrNoActiveGame. Callers hold the lock.
func (s *Service) active() (*session.Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if s.game == nil {
		return nil, ErrNoActiveGame
	}
	return s.game, nil
}

func (s *Service) saveCurrent(ctx context.Context) error {
	if err := s.store.SaveCurrent(ctx, s.game.Data()); err != nil {
		s.logger.Error(ctx, "save game", logger.String("game", s.game.ID), logger.Error(err))
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}
