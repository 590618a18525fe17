package hand

import "fmt"

// Table constants.
const (
	TricksPerHand  = 25
	PointsPerTrick = 10
	MoonTrickScore = 500

	meldUnit = 10
	bidUnit  = 10

	minBidTwoHanded    = 150
	minBidMultiHanded  = 250
	targetTwoHanded    = 1000
	targetMultiHanded  = 1500
	twoHanded          = 2
	nineOfTrumpMeld    = 10
	bothNinesTrumpMeld = 20
)

// MinBid returns the lowest legal opening bid for a table of gameType players.
func MinBid(gameType int) int {
	if gameType == twoHanded {
		return minBidTwoHanded
	}
	return minBidMultiHanded
}

// TargetScore returns the score that wins a game of gameType players.
func TargetScore(gameType int) int {
	if gameType == twoHanded {
		return targetTwoHanded
	}
	return targetMultiHanded
}

// ValidateBid checks a bid against the table minimum and the bidding unit.
func ValidateBid(bid, gameType int) []string {
	var problems []string
	if min := MinBid(gameType); bid < min {
		problems = append(problems, fmt.Sprintf("bid %d is below the minimum of %d", bid, min))
	}
	if bid%bidUnit != 0 {
		problems = append(problems, fmt.Sprintf("bid %d must be a multiple of %d", bid, bidUnit))
	}
	return problems
}

// ValidateMoonBid checks that a moon hand can cover its bid with the fixed
// moon score.
func ValidateMoonBid(bid int) []string {
	if bid > MoonTrickScore {
		return []string{fmt.Sprintf("bid %d is above the moon score of %d", bid, MoonTrickScore)}
	}
	return nil
}

// ValidateMeld checks one player's declared meld.
func ValidateMeld(name string, meld int) []string {
	var problems []string
	if meld < 0 {
		problems = append(problems, fmt.Sprintf("%s: meld %d cannot be negative", name, meld))
	}
	if meld%meldUnit != 0 {
		problems = append(problems, fmt.Sprintf("%s: meld %d must be a multiple of %d", name, meld, meldUnit))
	}
	return problems
}

// ValidateTricks checks one player's trick count.
func ValidateTricks(name string, tricks int) []string {
	if tricks < 0 || tricks > TricksPerHand {
		return []string{fmt.Sprintf("%s: tricks %d must be between 0 and %d", name, tricks, TricksPerHand)}
	}
	return nil
}

// ValidateTrickTotal checks the number of tricks taken across the table.
func ValidateTrickTotal(total int) []string {
	if total > TricksPerHand {
		return []string{fmt.Sprintf("total tricks %d cannot exceed %d", total, TricksPerHand)}
	}
	return nil
}

// TrickScore converts a trick count to points.
func TrickScore(tricks int) int {
	return tricks * PointsPerTrick
}
