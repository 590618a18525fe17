package session

import (
	"time"

	"github.com/okian/pinochle/internal/domain/model"
)

// Standing is one player's place in the game.
type Standing struct {
	PlayerID model.PlayerID `json:"playerId"`
	Name     string         `json:"name"`
	Score    int            `json:"score"`
}

// TeamStanding is one partnership's place in the game.
type TeamStanding struct {
	Name    string         `json:"name"`
	Members []model.Player `json:"members"`
	Score   int            `json:"score"`
}

// Status summarises a game for display.
type Status struct {
	ID          string         `json:"id"`
	Leader      Standing       `json:"leader"`
	Standings   []Standing     `json:"standings"`
	Teams       []TeamStanding `json:"teams,omitempty"`
	TargetScore int            `json:"targetScore"`
	HandNumber  int            `json:"handNumber"`
	Dealer      model.Player   `json:"dealer"`
	Winner      *Winner        `json:"winner,omitempty"`
	Ended       bool           `json:"ended"`
	Duration    time.Duration  `json:"duration"`
	Elapsed     string         `json:"elapsed"`
}

// Status reports the leader, target, next hand, win state and elapsed time.
// now is used for the elapsed time of a game that has not ended.
func (s *Session) Status(now time.Time) Status {
	st := Status{
		ID:          s.ID,
		TargetScore: s.TargetScore,
		HandNumber:  s.NextHandNumber(),
		Dealer:      s.CurrentDealer(),
		Ended:       s.Ended(),
	}
	for i, p := range s.Players {
		standing := Standing{PlayerID: p.ID, Name: p.Name, Score: s.scores[p.ID]}
		st.Standings = append(st.Standings, standing)
		if i == 0 || standing.Score > st.Leader.Score {
			st.Leader = standing
		}
	}
	if sums := s.TeamScores(); sums != nil {
		for _, t := range s.Teams {
			st.Teams = append(st.Teams, TeamStanding{Name: t.Name, Members: t.Members, Score: sums[t.Name]})
		}
	}
	if s.Ended() {
		w := s.recordedWinner()
		st.Winner = &w
	} else if w, ok := s.CheckForWinner(); ok {
		st.Winner = &w
	}

	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	st.Duration = end.Sub(s.StartTime)
	if st.Duration < 0 {
		st.Duration = 0
	}
	st.Elapsed = st.Duration.Round(time.Second).String()
	return st
}
