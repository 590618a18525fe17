// Package round drives entry of a hand that is still being played: the bid,
// then the meld, then either the tricks or a shoot-the-moon. Nothing here is
// persisted; an abandoned round leaves no trace.
package round

import (
	"fmt"
	"maps"

	"github.com/okian/pinochle/internal/domain/hand"
	"github.com/okian/pinochle/internal/domain/model"
)

// Phase is the position of a round in the entry workflow.
type Phase int

const (
	PhaseNoHand Phase = iota
	PhaseBidSet
	PhaseMeldSet
)

func (p Phase) String() string {
	switch p {
	case PhaseNoHand:
		return "no_hand"
	case PhaseBidSet:
		return "bid_set"
	case PhaseMeldSet:
		return "meld_set"
	default:
		return "unknown"
	}
}

// MeldResolution records what happened to one non-bidder's declared meld.
type MeldResolution struct {
	PlayerID model.PlayerID  `json:"playerId"`
	Declared int             `json:"declared"`
	Kept     int             `json:"kept"`
	Status   hand.MeldStatus `json:"status"`
}

// Result is a finished hand plus the meld decisions made while finishing it.
type Result struct {
	Hand  *hand.Hand
	Melds []MeldResolution
}

// State is a read-only view of the round for display.
type State struct {
	Phase      string                  `json:"phase"`
	Bid        int                     `json:"bid,omitempty"`
	BidderID   model.PlayerID          `json:"bidderId,omitempty"`
	BidderName string                  `json:"bidderName,omitempty"`
	Meld       map[model.PlayerID]int  `json:"meld,omitempty"`
	NinesOnly  map[model.PlayerID]bool `json:"ninesOnly,omitempty"`
}

// Round holds the inputs of the hand in progress.
type Round struct {
	players   []model.Player
	phase     Phase
	bid       int
	bidder    model.Player
	meld      map[model.PlayerID]int
	ninesOnly map[model.PlayerID]bool
}

// New starts an empty round for the seated players.
func New(players []model.Player) *Round {
	return &Round{players: players}
}

// Phase returns the current phase.
func (r *Round) Phase() Phase { return r.phase }

// State returns a snapshot for display.
func (r *Round) State() State {
	s := State{Phase: r.phase.String()}
	if r.phase >= PhaseBidSet {
		s.Bid, s.BidderID, s.BidderName = r.bid, r.bidder.ID, r.bidder.Name
	}
	if r.phase == PhaseMeldSet {
		s.Meld = maps.Clone(r.meld)
		s.NinesOnly = maps.Clone(r.ninesOnly)
	}
	return s
}

// EnterBid records the auction winner. Allowed only before anything else is entered.
func (r *Round) EnterBid(bid int, bidderID model.PlayerID) error {
	if r.phase != PhaseNoHand {
		return fmt.Errorf("enter bid in %s: %w", r.phase, ErrWrongPhase)
	}
	bidder, ok := model.FindPlayer(r.players, bidderID)
	if !ok {
		return fmt.Errorf("bidder %q: %w", bidderID, ErrUnknownPlayer)
	}
	if err := hand.Invalid(hand.ValidateBid(bid, len(r.players))); err != nil {
		return err
	}
	r.bid, r.bidder = bid, bidder
	r.phase = PhaseBidSet
	return nil
}

// EnterMeld records every player's declared meld. Missing players meld zero.
// ninesOnly marks non-bidders whose meld is nothing but trump nines.
func (r *Round) EnterMeld(meld map[model.PlayerID]int, ninesOnly map[model.PlayerID]bool) error {
	if r.phase != PhaseBidSet {
		return fmt.Errorf("enter meld in %s: %w", r.phase, ErrWrongPhase)
	}
	if err := r.checkSeated(meld); err != nil {
		return err
	}
	var problems []string
	for _, p := range r.players {
		problems = append(problems, hand.ValidateMeld(p.Name, meld[p.ID])...)
	}
	if err := hand.Invalid(problems); err != nil {
		return err
	}
	r.meld = make(map[model.PlayerID]int, len(r.players))
	r.ninesOnly = make(map[model.PlayerID]bool)
	for _, p := range r.players {
		r.meld[p.ID] = meld[p.ID]
		if ninesOnly[p.ID] && p.ID != r.bidder.ID {
			r.ninesOnly[p.ID] = true
		}
	}
	r.phase = PhaseMeldSet
	return nil
}

// SubmitTricks finishes the hand from each player's trick count. Non-bidders
// who took no trick lose their meld unless it is safe nines.
func (r *Round) SubmitTricks(base *hand.Hand, tricks map[model.PlayerID]int) (Result, error) {
	if r.phase != PhaseMeldSet {
		return Result{}, fmt.Errorf("submit tricks in %s: %w", r.phase, ErrWrongPhase)
	}
	if err := r.checkSeated(tricks); err != nil {
		return Result{}, err
	}
	var problems []string
	total := 0
	for _, p := range r.players {
		problems = append(problems, hand.ValidateTricks(p.Name, tricks[p.ID])...)
		total += tricks[p.ID]
	}
	problems = append(problems, hand.ValidateTrickTotal(total)...)
	if err := hand.Invalid(problems); err != nil {
		return Result{}, err
	}

	h := base
	h.SetWinningBid(r.bid, r.bidder)
	var melds []MeldResolution
	for _, p := range r.players {
		taken := tricks[p.ID]
		h.SetPlayerScore(p.ID, hand.TrickScore(taken))
		if p.ID == r.bidder.ID {
			h.SetPlayerMeld(p.ID, r.meld[p.ID])
			continue
		}
		status, kept := hand.ResolveMeld(r.meld[p.ID], taken, r.ninesOnly[p.ID])
		h.SetPlayerMeld(p.ID, kept)
		melds = append(melds, MeldResolution{PlayerID: p.ID, Declared: r.meld[p.ID], Kept: kept, Status: status})
	}
	r.Reset()
	return Result{Hand: h, Melds: melds}, nil
}

// ShootTheMoon finishes the hand with the bidder taking every trick.
// Non-bidders keep their declared meld and score no tricks.
func (r *Round) ShootTheMoon(base *hand.Hand) (Result, error) {
	if r.phase != PhaseMeldSet {
		return Result{}, fmt.Errorf("shoot the moon in %s: %w", r.phase, ErrWrongPhase)
	}
	if err := hand.Invalid(hand.ValidateMoonBid(r.bid)); err != nil {
		return Result{}, err
	}
	h := base
	h.SetWinningBid(r.bid, r.bidder)
	h.ShotTheMoon = true
	for _, p := range r.players {
		if p.ID == r.bidder.ID {
			h.SetPlayerMeld(p.ID, 0)
			h.SetPlayerScore(p.ID, hand.MoonTrickScore)
			continue
		}
		h.SetPlayerMeld(p.ID, r.meld[p.ID])
		h.SetPlayerScore(p.ID, 0)
	}
	r.Reset()
	return Result{Hand: h}, nil
}

// ThrowIn abandons the deal before any bid is entered.
func (r *Round) ThrowIn(base *hand.Hand) (Result, error) {
	if r.phase != PhaseNoHand {
		return Result{}, fmt.Errorf("throw in during %s: %w", r.phase, ErrWrongPhase)
	}
	base.ThrowIn()
	return Result{Hand: base}, nil
}

// Back steps to the previous phase, discarding what that phase entered.
func (r *Round) Back() error {
	switch r.phase {
	case PhaseMeldSet:
		r.meld, r.ninesOnly = nil, nil
		r.phase = PhaseBidSet
	case PhaseBidSet:
		r.bid, r.bidder = 0, model.Player{}
		r.phase = PhaseNoHand
	default:
		return fmt.Errorf("back from %s: %w", r.phase, ErrWrongPhase)
	}
	return nil
}

// Reset discards everything entered so far.
func (r *Round) Reset() {
	r.phase = PhaseNoHand
	r.bid, r.bidder = 0, model.Player{}
	r.meld, r.ninesOnly = nil, nil
}

func (r *Round) checkSeated(values map[model.PlayerID]int) error {
	for id := range values {
		if _, ok := model.FindPlayer(r.players, id); !ok {
			return fmt.Errorf("player %q: %w", id, ErrUnknownPlayer)
		}
	}
	return nil
}
