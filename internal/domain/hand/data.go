package hand

import (
	"maps"

	"github.com/okian/pinochle/internal/domain/model"
)

// Data is the persisted form of a Hand. Absent bid fields are null.
type Data struct {
	HandNumber   int                    `json:"handNumber"`
	DealerID     model.PlayerID         `json:"dealerId"`
	DealerName   string                 `json:"dealerName"`
	WinningBid   *int                   `json:"winningBid"`
	BidderID     *model.PlayerID        `json:"bidderId"`
	BidderName   *string                `json:"bidderName"`
	PlayerMeld   map[model.PlayerID]int `json:"playerMeld"`
	PlayerScores map[model.PlayerID]int `json:"playerScores"`
	ThrownIn     bool                   `json:"thrownIn"`
	ShotTheMoon  bool                   `json:"shotTheMoon,omitempty"`
}

// Data converts the hand to its persisted form.
func (h *Hand) Data() Data {
	d := Data{
		HandNumber:   h.Number,
		DealerID:     h.DealerID,
		DealerName:   h.DealerName,
		PlayerMeld:   copyPoints(h.Meld),
		PlayerScores: copyPoints(h.TrickScore),
		ThrownIn:     h.ThrownIn,
		ShotTheMoon:  h.ShotTheMoon,
	}
	if h.Bid != 0 {
		bid := h.Bid
		d.WinningBid = &bid
	}
	if h.BidderID != "" {
		id, name := h.BidderID, h.BidderName
		d.BidderID = &id
		d.BidderName = &name
	}
	return d
}

// FromData rebuilds a hand from its persisted form.
func FromData(d Data) *Hand {
	h := &Hand{
		Number:      d.HandNumber,
		DealerID:    d.DealerID,
		DealerName:  d.DealerName,
		Meld:        copyPoints(d.PlayerMeld),
		TrickScore:  copyPoints(d.PlayerScores),
		ThrownIn:    d.ThrownIn,
		ShotTheMoon: d.ShotTheMoon,
	}
	if d.WinningBid != nil {
		h.Bid = *d.WinningBid
	}
	if d.BidderID != nil {
		h.BidderID = *d.BidderID
	}
	if d.BidderName != nil {
		h.BidderName = *d.BidderName
	}
	return h
}

func copyPoints(m map[model.PlayerID]int) map[model.PlayerID]int {
	if m == nil {
		return map[model.PlayerID]int{}
	}
	return maps.Clone(m)
}
