package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrNoActiveGame    = errors.New("no game in progress")
	ErrGameInProgress  = errors.New("a game is already in progress")
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrDuplicatePlayer = errors.New("player already registered")
	ErrInvalidName     = errors.New("player name must not be empty")
	ErrNoWinner        = errors.New("no player has reached the target score")
)
