package simulate

import (
	"fmt"

	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/scoring"
	"github.com/okian/pinochle/internal/domain/session"
)

// compareStatus checks the server's standings, hand number and dealer
// against a full replay of the local hands.
func compareStatus(got session.Status, local *session.Session) error {
	want := scoring.Compute(local.Hands, local.Players)
	if len(got.Standings) != len(local.Players) {
		return fmt.Errorf("%w: %d standings, want %d", ErrMismatch, len(got.Standings), len(local.Players))
	}
	for _, s := range got.Standings {
		if s.Score != want[s.PlayerID] {
			return fmt.Errorf("%w: %s has %d, want %d", ErrMismatch, s.Name, s.Score, want[s.PlayerID])
		}
	}
	if got.HandNumber != local.NextHandNumber() {
		return fmt.Errorf("%w: next hand %d, want %d", ErrMismatch, got.HandNumber, local.NextHandNumber())
	}
	if got.Dealer.ID != local.CurrentDealer().ID {
		return fmt.Errorf("%w: dealer %s, want %s", ErrMismatch, got.Dealer.Name, local.CurrentDealer().Name)
	}
	return nil
}

func compareDeltas(number int, got, want map[model.PlayerID]int) error {
	for id, w := range want {
		if got[id] != w {
			return fmt.Errorf("%w: hand %d player %s scored %d, want %d", ErrMismatch, number, id, got[id], w)
		}
	}
	return nil
}
