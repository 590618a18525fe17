// Package repository persists players, the game in progress and finished games.
package repository

import (
	"context"

	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/session"
)

// Store is the persistence boundary. Every write replaces what was there
// before; the last write wins.
type Store interface {
	// LoadPlayers returns registered players in registration order.
	LoadPlayers(ctx context.Context) ([]model.Player, error)
	// SavePlayers replaces the registry.
	SavePlayers(ctx context.Context, players []model.Player) error

	// LoadCurrent returns the open game. Returns ErrNotFound if there is none.
	LoadCurrent(ctx context.Context) (session.Data, error)
	// SaveCurrent replaces the open game.
	SaveCurrent(ctx context.Context, d session.Data) error
	// ClearCurrent forgets the open game.
	ClearCurrent(ctx context.Context) error

	// LoadHistory returns finished games, oldest first.
	LoadHistory(ctx context.Context) ([]session.Data, error)
	// AppendHistory records a finished game. Saving the same game twice keeps one copy.
	AppendHistory(ctx context.Context, d session.Data) error

	Close() error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLStore)(nil)
)
