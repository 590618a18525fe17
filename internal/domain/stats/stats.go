// Package stats derives per-player records from finished games.
package stats

import (
	"cmp"
	"errors"
	"slices"

	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/scoring"
	"github.com/okian/pinochle/internal/domain/session"
	"github.com/okian/pinochle/internal/domain/types"
)

// ErrNotFound is returned when a player has no recorded games.
var ErrNotFound = errors.New("player not found")

// PlayerStats aggregates one player's results.
type PlayerStats struct {
	PlayerID     model.PlayerID `json:"playerId"`
	Name         string         `json:"name"`
	GamesPlayed  int            `json:"gamesPlayed"`
	GamesWon     int            `json:"gamesWon"`
	WinRate      float64        `json:"winRate"`
	TotalPoints  int            `json:"totalPoints"`
	AverageScore float64        `json:"averageScore"`
	BestScore    int            `json:"bestScore"`
	HandsPlayed  int            `json:"handsPlayed"`
	BidsWon      int            `json:"bidsWon"`
	BidsMade     int            `json:"bidsMade"`
	BidsSet      int            `json:"bidsSet"`
	MoonShots    int            `json:"moonShots"`
	TotalMeld    int            `json:"totalMeld"`
	BestMeld     int            `json:"bestMeld"`
}

// Compute aggregates games in the order players first appear.
func Compute(games []*session.Session) []PlayerStats {
	index := map[model.PlayerID]int{}
	var out []PlayerStats

	for _, g := range games {
		final := g.Scores()
		for _, p := range g.Players {
			i, ok := index[p.ID]
			if !ok {
				i = len(out)
				index[p.ID] = i
				out = append(out, PlayerStats{PlayerID: p.ID})
			}
			st := &out[i]
			st.Name = p.Name
			st.GamesPlayed++
			if won(g, p.ID) {
				st.GamesWon++
			}
			score := final[p.ID]
			st.TotalPoints += score
			if st.GamesPlayed == 1 || score > st.BestScore {
				st.BestScore = score
			}
			for _, h := range g.Hands {
				if h.ThrownIn {
					continue
				}
				st.HandsPlayed++
				meld := h.Meld[p.ID]
				st.TotalMeld += meld
				st.BestMeld = max(st.BestMeld, meld)
				if h.BidderID != p.ID || !h.HasBid() {
					continue
				}
				st.BidsWon++
				if h.ShotTheMoon {
					st.MoonShots++
				}
				if scoring.Classify(h) == scoring.OutcomeSet {
					st.BidsSet++
				} else {
					st.BidsMade++
				}
			}
		}
	}
	for i := range out {
		st := &out[i]
		st.WinRate = float64(st.GamesWon) / float64(st.GamesPlayed)
		st.AverageScore = float64(st.TotalPoints) / float64(st.GamesPlayed)
	}
	return out
}

// won reports whether id won g, alone or as part of the winning partnership.
func won(g *session.Session, id model.PlayerID) bool {
	if !g.Ended() || g.WinnerID == "" {
		return false
	}
	if g.WinnerID == string(id) {
		return true
	}
	for _, t := range g.Teams {
		if t.Name == g.WinnerID && t.Has(id) {
			return true
		}
	}
	return false
}

// Leaderboard orders players by wins, then win rate, then average score, then name.
func Leaderboard(all []PlayerStats) []types.Entry {
	sorted := slices.Clone(all)
	slices.SortStableFunc(sorted, func(a, b PlayerStats) int {
		if c := cmp.Compare(b.GamesWon, a.GamesWon); c != 0 {
			return c
		}
		if c := cmp.Compare(b.WinRate, a.WinRate); c != 0 {
			return c
		}
		if c := cmp.Compare(b.AverageScore, a.AverageScore); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	entries := make([]types.Entry, len(sorted))
	for i, st := range sorted {
		entries[i] = types.Entry{
			Rank:         i + 1,
			PlayerID:     string(st.PlayerID),
			Name:         st.Name,
			GamesPlayed:  st.GamesPlayed,
			GamesWon:     st.GamesWon,
			WinRate:      st.WinRate,
			AverageScore: st.AverageScore,
		}
	}
	return entries
}

// TopN returns at most n leading entries.
func TopN(entries []types.Entry, n int) []types.Entry {
	if n < 0 {
		n = 0
	}
	return entries[:min(n, len(entries))]
}

// Rank finds a player's leaderboard entry.
func Rank(entries []types.Entry, id model.PlayerID) (types.Entry, error) {
	for _, e := range entries {
		if e.PlayerID == string(id) {
			return e, nil
		}
	}
	return types.Entry{}, ErrNotFound
}

// For returns a single player's stats.
func For(all []PlayerStats, id model.PlayerID) (PlayerStats, error) {
	for _, st := range all {
		if st.PlayerID == id {
			return st, nil
		}
	}
	return PlayerStats{}, ErrNotFound
}
