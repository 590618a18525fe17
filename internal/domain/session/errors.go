package session

import (
	"errors"

	"github.com/okian/pinochle/internal/domain/hand"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidGameType = errors.New("game type must be 2, 3 or 4 players")
	ErrInvalidPlayers  = errors.New("invalid players")
	ErrGameEnded       = errors.New("game has ended")
	ErrHandNotFound    = errors.New("hand not found")
	ErrHandOutOfOrder  = errors.New("hand number out of order")
	ErrThrownInHand    = hand.ErrThrownIn
)
