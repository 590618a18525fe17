package hand

// MeldStatus records how a non-bidder's meld was resolved at the end of a hand.
type MeldStatus int

const (
	// MeldMadeByTricks means the player took at least one trick and keeps the meld.
	MeldMadeByTricks MeldStatus = iota
	// MeldSafeNinesOnly means no tricks were taken but the meld is only trump nines.
	MeldSafeNinesOnly
	// MeldForfeited means the meld is lost.
	MeldForfeited
)

func (s MeldStatus) String() string {
	switch s {
	case MeldMadeByTricks:
		return "made_by_tricks"
	case MeldSafeNinesOnly:
		return "safe_nines_only"
	case MeldForfeited:
		return "forfeited"
	default:
		return "unknown"
	}
}

// ResolveMeld applies the non-bidder meld rule and returns the status and the
// meld that counts. ninesOnly is the player's claim that their meld is made of
// nines of trump and nothing else.
func ResolveMeld(meld, tricks int, ninesOnly bool) (MeldStatus, int) {
	if tricks > 0 {
		return MeldMadeByTricks, meld
	}
	if ninesOnly && NinesOnlyEligible(meld) {
		return MeldSafeNinesOnly, meld
	}
	return MeldForfeited, 0
}

// NinesOnlyEligible reports whether a meld value could be made of trump nines alone.
func NinesOnlyEligible(meld int) bool {
	return meld == nineOfTrumpMeld || meld == bothNinesTrumpMeld
}
