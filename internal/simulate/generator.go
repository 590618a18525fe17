package simulate

import (
	"math/rand/v2"

	"github.com/okian/pinochle/internal/domain/hand"
)

// Odds out of 100.
const (
	throwInChance   = 5
	moonChance      = 3
	ninesOnlyChance = 30
	zeroMeldChance  = 15
)

const (
	maxMeld      = 300
	maxBidRaise  = 100
	moonMaxBid   = hand.MoonTrickScore
	unit         = 10
	nineOnlyMeld = 20
)

// Plan is one randomly generated hand, indexed by seat.
type Plan struct {
	ThrowIn   bool
	Moon      bool
	Bid       int
	Bidder    int
	Meld      []int
	NinesOnly []bool
	Tricks    []int
}

// Generator produces valid hands from a seed.
type Generator struct {
	rng     *rand.Rand
	players int
}

// NewGenerator creates a generator for a table of players seats.
func NewGenerator(seed uint64, players int) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), players: players}
}

func (g *Generator) chance(pct int) bool { return g.rng.IntN(100) < pct }

// Next returns the next hand.
func (g *Generator) Next() Plan {
	if g.chance(throwInChance) {
		return Plan{ThrowIn: true}
	}

	p := Plan{
		Bidder:    g.rng.IntN(g.players),
		Bid:       hand.MinBid(g.players) + unit*g.rng.IntN(maxBidRaise/unit+1),
		Meld:      make([]int, g.players),
		NinesOnly: make([]bool, g.players),
		Tricks:    make([]int, g.players),
	}
	for seat := range p.Meld {
		switch {
		case g.chance(zeroMeldChance):
		case seat != p.Bidder && g.chance(ninesOnlyChance):
			p.Meld[seat] = unit * (1 + g.rng.IntN(nineOnlyMeld/unit))
			p.NinesOnly[seat] = true
		default:
			p.Meld[seat] = unit * g.rng.IntN(maxMeld/unit+1)
		}
	}
	if p.Bid <= moonMaxBid && g.chance(moonChance) {
		p.Moon = true
		return p
	}

	// Deal out up to every trick, one at a time. The bidder draws twice.
	left := hand.TricksPerHand - g.rng.IntN(3)
	for ; left > 0; left-- {
		seat := g.rng.IntN(g.players + 1)
		if seat == g.players {
			seat = p.Bidder
		}
		p.Tricks[seat]++
	}
	return p
}
