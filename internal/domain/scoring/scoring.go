// Package scoring replays hands into running totals. Totals are always
// derived from the hand list and never edited in place.
package scoring

import (
	"maps"

	"github.com/okian/pinochle/internal/domain/hand"
	"github.com/okian/pinochle/internal/domain/model"
)

// Totals maps each player to their running score.
type Totals map[model.PlayerID]int

// Outcome classifies how a hand was scored.
type Outcome int

const (
	OutcomeNoBid Outcome = iota
	OutcomeMade
	OutcomeSet
	OutcomeThrownIn
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoBid:
		return "no_bid"
	case OutcomeMade:
		return "made"
	case OutcomeSet:
		return "set"
	case OutcomeThrownIn:
		return "thrown_in"
	default:
		return "unknown"
	}
}

// Classify reports the outcome of a single hand.
func Classify(h *hand.Hand) Outcome {
	switch {
	case h.ThrownIn:
		return OutcomeThrownIn
	case !h.HasBid():
		return OutcomeNoBid
	case h.IsBidderSet():
		return OutcomeSet
	default:
		return OutcomeMade
	}
}

// Compute replays hands in order from a zero baseline for every player.
func Compute(hands []*hand.Hand, players []model.Player) Totals {
	t := make(Totals, len(players))
	for _, p := range players {
		t[p.ID] = 0
	}
	for _, h := range hands {
		Apply(t, h, players)
	}
	return t
}

// Apply folds one hand into t.
func Apply(t Totals, h *hand.Hand, players []model.Player) {
	for id, d := range Deltas(h, players) {
		t[id] += d
	}
}

// Deltas returns what a hand adds to each player's total. A set bidder loses
// the bid and keeps nothing from the hand. A thrown-in hand changes nothing.
func Deltas(h *hand.Hand, players []model.Player) map[model.PlayerID]int {
	d := make(map[model.PlayerID]int, len(players))
	if h.ThrownIn {
		for _, p := range players {
			d[p.ID] = 0
		}
		return d
	}
	set := h.IsBidderSet()
	for _, p := range players {
		if set && p.ID == h.BidderID {
			d[p.ID] = -h.Bid
			continue
		}
		d[p.ID] = h.PlayerHandTotal(p.ID)
	}
	return d
}

// TeamTotals sums member totals per team, keyed by team name.
func TeamTotals(t Totals, teams []model.Team) map[string]int {
	out := make(map[string]int, len(teams))
	for _, team := range teams {
		sum := 0
		for _, m := range team.Members {
			sum += t[m.ID]
		}
		out[team.Name] = sum
	}
	return out
}

// Clone copies t.
func (t Totals) Clone() Totals {
	return maps.Clone(t)
}
