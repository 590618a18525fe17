package round

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrWrongPhase    = errors.New("action not allowed in this phase")
	ErrUnknownPlayer = errors.New("player is not seated")
)
