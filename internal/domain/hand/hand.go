// Package hand models a single dealt-and-played round of pinochle and the
// table rules that apply to one.
package hand

import (
	"fmt"
	"maps"
	"slices"

	"github.com/okian/pinochle/internal/domain/model"
)

// Hand is one round of play. A zero Bid or empty BidderID means nobody won
// the bidding. Meld and TrickScore hold points, and a missing key counts as zero.
type Hand struct {
	Number     int
	DealerID   model.PlayerID
	DealerName string

	Bid        int
	BidderID   model.PlayerID
	BidderName string

	Meld       map[model.PlayerID]int
	TrickScore map[model.PlayerID]int

	ThrownIn    bool
	ShotTheMoon bool
}

// New starts an empty hand dealt by dealer.
func New(number int, dealer model.Player) *Hand {
	return &Hand{
		Number:     number,
		DealerID:   dealer.ID,
		DealerName: dealer.Name,
		Meld:       map[model.PlayerID]int{},
		TrickScore: map[model.PlayerID]int{},
	}
}

// SetWinningBid records the auction result. The bid is not checked here.
func (h *Hand) SetWinningBid(bid int, bidder model.Player) {
	h.Bid = bid
	h.BidderID = bidder.ID
	h.BidderName = bidder.Name
}

// SetPlayerMeld overwrites a player's meld points.
func (h *Hand) SetPlayerMeld(id model.PlayerID, meld int) {
	h.Meld[id] = meld
}

// SetPlayerScore overwrites a player's trick points.
func (h *Hand) SetPlayerScore(id model.PlayerID, trickScore int) {
	h.TrickScore[id] = trickScore
}

// ThrowIn marks the hand as abandoned. All bid and score data is cleared.
func (h *Hand) ThrowIn() {
	h.ThrownIn = true
	h.ShotTheMoon = false
	h.Bid = 0
	h.BidderID = ""
	h.BidderName = ""
	h.Meld = map[model.PlayerID]int{}
	h.TrickScore = map[model.PlayerID]int{}
}

// HasBid reports whether both a bid and a bidder were recorded.
func (h *Hand) HasBid() bool {
	return h.Bid > 0 && h.BidderID != ""
}

// IsBidderSet reports whether the bidder fell short of the bid.
// Meeting the bid exactly is a make.
func (h *Hand) IsBidderSet() bool {
	if !h.HasBid() {
		return false
	}
	return h.PlayerHandTotal(h.BidderID) < h.Bid
}

// PlayerHandTotal is the player's meld plus trick points.
func (h *Hand) PlayerHandTotal(id model.PlayerID) int {
	return h.Meld[id] + h.TrickScore[id]
}

// Tricks returns the trick count behind a player's trick points.
func (h *Hand) Tricks(id model.PlayerID) int {
	return h.TrickScore[id] / PointsPerTrick
}

// TotalTricks sums trick counts across the table.
func (h *Hand) TotalTricks() int {
	total := 0
	for _, s := range h.TrickScore {
		total += s
	}
	return total / PointsPerTrick
}

// Validate lists every problem with the recorded data. It never mutates the
// hand and does not judge the bid. Thrown-in hands are always valid.
func (h *Hand) Validate(players []model.Player) []string {
	if h.ThrownIn {
		return nil
	}
	var problems []string
	for _, id := range h.orderedIDs(players, h.Meld) {
		problems = append(problems, ValidateMeld(displayName(players, id), h.Meld[id])...)
	}
	for _, id := range h.orderedIDs(players, h.TrickScore) {
		if s := h.TrickScore[id]; s < 0 {
			problems = append(problems, fmt.Sprintf("%s: trick score %d cannot be negative", displayName(players, id), s))
		}
	}
	if !h.ShotTheMoon {
		problems = append(problems, ValidateTrickTotal(h.TotalTricks())...)
	}
	return problems
}

// Clone returns a deep copy.
func (h *Hand) Clone() *Hand {
	c := *h
	c.Meld = maps.Clone(h.Meld)
	c.TrickScore = maps.Clone(h.TrickScore)
	if c.Meld == nil {
		c.Meld = map[model.PlayerID]int{}
	}
	if c.TrickScore == nil {
		c.TrickScore = map[model.PlayerID]int{}
	}
	return &c
}

// orderedIDs yields seated players first, in seat order, then any other keys sorted.
func (h *Hand) orderedIDs(players []model.Player, m map[model.PlayerID]int) []model.PlayerID {
	ids := make([]model.PlayerID, 0, len(m))
	seen := make(map[model.PlayerID]bool, len(players))
	for _, p := range players {
		seen[p.ID] = true
		if _, ok := m[p.ID]; ok {
			ids = append(ids, p.ID)
		}
	}
	var extra []model.PlayerID
	for id := range m {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	return append(ids, extra...)
}

func displayName(players []model.Player, id model.PlayerID) string {
	if p, ok := model.FindPlayer(players, id); ok && p.Name != "" {
		return p.Name
	}
	return string(id)
}
