package hand

import (
	"errors"
	"strings"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidHand = errors.New("invalid hand")
	ErrThrownIn    = errors.New("hand was thrown in")
)

// ValidationError carries every problem found in a hand or its inputs.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return ErrInvalidHand.Error() + ": " + strings.Join(e.Problems, "; ")
}

// Is makes errors.Is(err, ErrInvalidHand) hold for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidHand
}

// Invalid wraps problems into a *ValidationError, or returns nil when there are none.
func Invalid(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

// Problems extracts the problem list from err, if it is a validation failure.
func Problems(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Problems
	}
	return nil
}
