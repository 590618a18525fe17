package hand

import (
	"fmt"

	"github.com/okian/pinochle/internal/domain/model"
)

// Correction changes the recorded values of a finished hand. Nil fields are
// left alone. Tricks holds trick counts, not points.
type Correction struct {
	Bid      *int                   `json:"bid,omitempty"`
	BidderID *model.PlayerID        `json:"bidderId,omitempty"`
	Meld     map[model.PlayerID]int `json:"meld,omitempty"`
	Tricks   map[model.PlayerID]int `json:"tricks,omitempty"`
}

// Empty reports whether the correction changes nothing.
func (c Correction) Empty() bool {
	return c.Bid == nil && c.BidderID == nil && len(c.Meld) == 0 && len(c.Tricks) == 0
}

// Correct applies c after validating it against the seated players. On any
// problem the hand is left untouched. Thrown-in hands cannot be corrected.
func (h *Hand) Correct(c Correction, players []model.Player, gameType int) error {
	if h.ThrownIn {
		return ErrThrownIn
	}
	next := h.Clone()
	var problems []string

	if c.Bid != nil {
		problems = append(problems, ValidateBid(*c.Bid, gameType)...)
		next.Bid = *c.Bid
	}
	if c.BidderID != nil {
		p, ok := model.FindPlayer(players, *c.BidderID)
		if !ok {
			problems = append(problems, fmt.Sprintf("bidder %q is not seated at this table", *c.BidderID))
		}
		next.BidderID, next.BidderName = p.ID, p.Name
	}
	for _, p := range players {
		if meld, ok := c.Meld[p.ID]; ok {
			problems = append(problems, ValidateMeld(p.Name, meld)...)
			next.Meld[p.ID] = meld
		}
	}
	if len(c.Tricks) > 0 {
		total := 0
		for _, p := range players {
			tricks, ok := c.Tricks[p.ID]
			if !ok {
				tricks = next.Tricks(p.ID)
			}
			problems = append(problems, ValidateTricks(p.Name, tricks)...)
			next.TrickScore[p.ID] = TrickScore(tricks)
			total += tricks
		}
		problems = append(problems, ValidateTrickTotal(total)...)
		next.ShotTheMoon = false
	}
	for id := range c.Meld {
		if _, ok := model.FindPlayer(players, id); !ok {
			problems = append(problems, fmt.Sprintf("meld given for %q, who is not seated", id))
		}
	}
	for id := range c.Tricks {
		if _, ok := model.FindPlayer(players, id); !ok {
			problems = append(problems, fmt.Sprintf("tricks given for %q, who is not seated", id))
		}
	}
	if next.ShotTheMoon {
		problems = append(problems, ValidateMoonBid(next.Bid)...)
	}
	if len(problems) > 0 {
		return Invalid(problems)
	}
	if err := Invalid(next.Validate(players)); err != nil {
		return err
	}
	*h = *next
	return nil
}
