package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/session"
	"github.com/okian/pinochle/internal/domain/stats"
	"github.com/okian/pinochle/internal/domain/types"
)

// History returns finished games, oldest first.
func (s *Service) History(ctx context.Context) ([]session.Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.LoadHistory(ctx)
}

// Stats aggregates every finished game per player.
func (s *Service) Stats(ctx context.Context) ([]stats.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.stats(ctx)
}

// PlayerStats returns one player's aggregate record.
func (s *Service) PlayerStats(ctx context.Context, id model.PlayerID) (stats.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.stats(ctx)
	if err != nil {
		return stats.PlayerStats{}, err
	}
	p, ok := model.FindPlayer(s.players, id)
	if !ok {
		return stats.PlayerStats{}, fmt.Errorf("%q: %w", id, ErrUnknownPlayer)
	}
	st, err := stats.For(all, id)
	if errors.Is(err, stats.ErrNotFound) {
		// Registered but never finished a game.
		return stats.PlayerStats{PlayerID: p.ID, Name: p.Name}, nil
	}
	return st, err
}

// Leaderboard returns at most limit ranked entries.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.stats(ctx)
	if err != nil {
		return nil, err
	}
	return stats.TopN(stats.Leaderboard(all), limit), nil
}

// Rank returns a player's leaderboard entry.
func (s *Service) Rank(ctx context.Context, id model.PlayerID) (types.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.stats(ctx)
	if err != nil {
		return types.Entry{}, err
	}
	return stats.Rank(stats.Leaderboard(all), id)
}

func (s *Service) stats(ctx context.Context) ([]stats.PlayerStats, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	records, err := s.store.LoadHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	games := make([]*session.Session, 0, len(records))
	for _, d := range records {
		g, err := session.FromData(d)
		if err != nil {
			return nil, fmt.Errorf("restore game %s: %w", d.ID, err)
		}
		games = append(games, g)
	}
	return stats.Compute(games), nil
}
