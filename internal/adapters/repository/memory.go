package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/session"
)

// MemoryStore keeps encoded records in memory. Values are stored as JSON so
// callers never share maps or slices with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	players []byte
	current []byte
	history [][]byte
	ids     []string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadPlayers(_ context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var players []model.Player
	if s.players == nil {
		return players, nil
	}
	if err := json.Unmarshal(s.players, &players); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	return players, nil
}

func (s *MemoryStore) SavePlayers(_ context.Context, players []model.Player) error {
	raw, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	s.mu.Lock()
	s.players = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadCurrent(_ context.Context) (session.Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return session.Data{}, ErrNotFound
	}
	return decodeSession(s.current)
}

func (s *MemoryStore) SaveCurrent(_ context.Context, d session.Data) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", d.ID, err)
	}
	s.mu.Lock()
	s.current = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) ClearCurrent(_ context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) LoadHistory(_ context.Context) ([]session.Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]session.Data, 0, len(s.history))
	for _, raw := range s.history {
		d, err := decodeSession(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *MemoryStore) AppendHistory(_ context.Context, d session.Data) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", d.ID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.Index(s.ids, d.ID); i >= 0 {
		s.history[i] = raw
		return nil
	}
	s.ids = append(s.ids, d.ID)
	s.history = append(s.history, raw)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func decodeSession(raw []byte) (session.Data, error) {
	var d session.Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return session.Data{}, fmt.Errorf("decode session: %w", err)
	}
	return d, nil
}
