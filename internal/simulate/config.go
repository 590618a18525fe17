// Package simulate plays randomly generated, valid pinochle games against a
// running scorekeeper over HTTP and checks every total it reports against a
// local replay of the same hands.
package simulate

import (
	"errors"
	"fmt"
	"time"
)

// Defaults.
const (
	DefaultGames    = 5
	DefaultPlayers  = 3
	DefaultMaxHands = 200
	DefaultTimeout  = 10 * time.Second
)

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig = errors.New("invalid simulation config")
	ErrMismatch      = errors.New("server disagrees with local replay")
	ErrAPI           = errors.New("api request failed")
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Games    int           // Games to play
	Players  int           // Seats per game: 2, 3 or 4
	MaxHands int           // Hands after which a game without a winner is ended anyway
	Seed     uint64        // Random seed; the same seed replays the same games
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Log every hand
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url must not be empty", ErrInvalidConfig)
	case c.Games < 1:
		return fmt.Errorf("%w: games must be >= 1", ErrInvalidConfig)
	case c.Players < 2 || c.Players > 4:
		return fmt.Errorf("%w: players must be 2, 3 or 4", ErrInvalidConfig)
	case c.MaxHands < 1:
		return fmt.Errorf("%w: max hands must be >= 1", ErrInvalidConfig)
	}
	return nil
}

// Stats holds run statistics.
type Stats struct {
	GamesPlayed   int
	GamesWon      int
	HandsRecorded int
	ThrownIn      int
	MoonShots     int
	BidsSet       int
	Corrections   int
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
}
