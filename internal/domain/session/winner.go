package session

import "github.com/okian/pinochle/internal/domain/model"

// Winner is the player or partnership that reached the target first.
// For a team, ID is the team name.
type Winner struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Score   int            `json:"score"`
	Team    bool           `json:"team"`
	Members []model.Player `json:"members,omitempty"`
}

// CheckForWinner applies team rules for a partnership game and individual
// rules otherwise.
func (s *Session) CheckForWinner() (Winner, bool) {
	if s.Partnership && len(s.Teams) == 2 {
		return s.TeamWinner()
	}
	return s.IndividualWinner()
}

// IndividualWinner returns the highest total at or above the target.
// On a tie the player seated first wins.
func (s *Session) IndividualWinner() (Winner, bool) {
	var best Winner
	found := false
	for _, p := range s.Players {
		score := s.scores[p.ID]
		if score < s.TargetScore {
			continue
		}
		if !found || score > best.Score {
			best = Winner{ID: string(p.ID), Name: p.Name, Score: score}
			found = true
		}
	}
	return best, found
}

// TeamWinner returns the partnership with the highest combined total at or
// above the target. On a tie the first team wins.
func (s *Session) TeamWinner() (Winner, bool) {
	var best Winner
	found := false
	sums := s.TeamScores()
	for _, t := range s.Teams {
		score := sums[t.Name]
		if score < s.TargetScore {
			continue
		}
		if !found || score > best.Score {
			best = Winner{ID: t.Name, Name: t.Name, Score: score, Team: true, Members: t.Members}
			found = true
		}
	}
	return best, found
}

// recordedWinner expands the stored winner of an ended game with its score
// and, for a partnership, its members.
func (s *Session) recordedWinner() Winner {
	w := Winner{ID: s.WinnerID, Name: s.WinnerName}
	if p, ok := model.FindPlayer(s.Players, model.PlayerID(s.WinnerID)); ok {
		w.Score = s.scores[p.ID]
		return w
	}
	if sums := s.TeamScores(); sums != nil {
		for _, t := range s.Teams {
			if t.Name == s.WinnerID {
				w.Score, w.Team, w.Members = sums[t.Name], true, t.Members
			}
		}
	}
	return w
}
