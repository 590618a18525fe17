// Package session holds one game of pinochle: the seated players, the hands
// played so far, and the totals derived from them.
package session

import (
	"fmt"
	"time"

	"github.com/okian/pinochle/internal/domain/hand"
	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/scoring"
)

const (
	minPlayers = 2
	maxPlayers = 4
)

// Session is a single game. Players, GameType and Teams never change after
// creation. Scores are always a replay of Hands.
type Session struct {
	ID          string
	GameType    int
	Players     []model.Player
	Teams       []model.Team
	Partnership bool
	TargetScore int
	DealerIndex int
	Hands       []*hand.Hand
	StartTime   time.Time
	EndTime     *time.Time
	WinnerID    string
	WinnerName  string

	scores scoring.Totals
}

// New seats players for a game of gameType. Four-player games default to
// partnership scoring with partners across the table.
func New(id string, players []model.Player, gameType int, opts ...Option) (*Session, error) {
	if gameType < minPlayers || gameType > maxPlayers {
		return nil, fmt.Errorf("%d: %w", gameType, ErrInvalidGameType)
	}
	if len(players) != gameType {
		return nil, fmt.Errorf("%d players for a %d-player game: %w", len(players), gameType, ErrInvalidGameType)
	}
	seen := make(map[model.PlayerID]bool, len(players))
	for _, p := range players {
		if p.ID == "" || seen[p.ID] {
			return nil, fmt.Errorf("player %q: %w", p.ID, ErrInvalidPlayers)
		}
		seen[p.ID] = true
	}

	s := &Session{
		ID:          id,
		GameType:    gameType,
		Players:     append([]model.Player(nil), players...),
		Partnership: gameType == maxPlayers,
		TargetScore: hand.TargetScore(gameType),
		StartTime:   time.Now().UTC().Round(0),
	}
	s.Teams = model.TeamsBySeat(s.Players)
	for _, opt := range opts {
		opt(s)
	}
	s.RecalculateScores()
	return s, nil
}

// CurrentDealer returns the player dealing the next hand.
func (s *Session) CurrentDealer() model.Player {
	return s.Players[s.DealerIndex]
}

// AdvanceDealer passes the deal to the next seat.
func (s *Session) AdvanceDealer() {
	s.DealerIndex = (s.DealerIndex + 1) % len(s.Players)
}

// NextHandNumber is the number the next dealt hand will carry.
func (s *Session) NextHandNumber() int {
	return len(s.Hands) + 1
}

// NewHand deals an empty hand with the next number and the current dealer.
func (s *Session) NewHand() *hand.Hand {
	return hand.New(s.NextHandNumber(), s.CurrentDealer())
}

// AddHand appends a finished hand, replays the totals and moves the deal on.
// Thrown-in hands move the deal too.
func (s *Session) AddHand(h *hand.Hand) error {
	if s.Ended() {
		return ErrGameEnded
	}
	if h.Number != s.NextHandNumber() {
		return fmt.Errorf("got hand %d, expected %d: %w", h.Number, s.NextHandNumber(), ErrHandOutOfOrder)
	}
	s.Hands = append(s.Hands, h)
	s.RecalculateScores()
	s.AdvanceDealer()
	return nil
}

// RecalculateScores replaces the totals with a full replay of every hand.
func (s *Session) RecalculateScores() {
	s.scores = scoring.Compute(s.Hands, s.Players)
}

// Scores returns a copy of the current totals.
func (s *Session) Scores() scoring.Totals {
	return s.scores.Clone()
}

// Score returns one player's total.
func (s *Session) Score(id model.PlayerID) int {
	return s.scores[id]
}

// TeamScores returns partnership totals, or nil when there are no teams.
func (s *Session) TeamScores() map[string]int {
	if len(s.Teams) == 0 {
		return nil
	}
	return scoring.TeamTotals(s.scores, s.Teams)
}

// Hand looks up a hand by number.
func (s *Session) Hand(number int) (*hand.Hand, error) {
	if number < 1 || number > len(s.Hands) {
		return nil, fmt.Errorf("hand %d: %w", number, ErrHandNotFound)
	}
	return s.Hands[number-1], nil
}

// EditHand corrects a recorded hand in place and replays the totals.
func (s *Session) EditHand(number int, c hand.Correction) error {
	if s.Ended() {
		return ErrGameEnded
	}
	h, err := s.Hand(number)
	if err != nil {
		return err
	}
	if err := h.Correct(c, s.Players, s.GameType); err != nil {
		return err
	}
	s.RecalculateScores()
	return nil
}

// Ended reports whether EndGame has been called.
func (s *Session) Ended() bool {
	return s.EndTime != nil
}

// EndGame stamps the winner and the end time. It can only happen once.
func (s *Session) EndGame(winnerID, winnerName string, at time.Time) error {
	if s.Ended() {
		return ErrGameEnded
	}
	end := at.UTC().Round(0)
	s.EndTime = &end
	s.WinnerID = winnerID
	s.WinnerName = winnerName
	return nil
}
