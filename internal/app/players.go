package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/pkg/logger"
	"github.com/okian/pinochle/pkg/metrics"
)

// RegisterPlayer adds a player to the registry. Names are unique, ignoring case.
func (s *Service) RegisterPlayer(ctx context.Context, name string) (model.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return model.Player{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Player{}, ErrInvalidName
	}
	for _, p := range s.players {
		if strings.EqualFold(p.Name, name) {
			return model.Player{}, fmt.Errorf("%q: %w", name, ErrDuplicatePlayer)
		}
	}

	p := model.Player{ID: model.PlayerID(uuid.NewString()), Name: name}
	next := append(slices.Clone(s.players), p)
	if err := s.store.SavePlayers(ctx, next); err != nil {
		return model.Player{}, fmt.Errorf("save players: %w", err)
	}
	s.players = next

	metrics.UpdateRegisteredPlayers(len(s.players))
	s.logger.Info(ctx, "player registered", logger.String("id", string(p.ID)), logger.String("name", p.Name))
	return p, nil
}

// Players returns the registry in registration order.
func (s *Service) Players(_ context.Context) []model.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.players)
}

func (s *Service) lookup(ids []model.PlayerID) ([]model.Player, error) {
	out := make([]model.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := model.FindPlayer(s.players, id)
		if !ok {
			return nil, fmt.Errorf("%q: %w", id, ErrUnknownPlayer)
		}
		out = append(out, p)
	}
	return out, nil
}
