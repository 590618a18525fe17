package session

import "time"

// Option applies a configuration option to a Session.
type Option func(*Session)

// WithStartTime sets when the game began.
func WithStartTime(t time.Time) Option {
	return func(s *Session) {
		if !t.IsZero() {
			s.StartTime = t
		}
	}
}

// WithPartnership turns team win checking on or off. It only has an effect
// at a four-player table.
func WithPartnership(enabled bool) Option {
	return func(s *Session) {
		s.Partnership = enabled && len(s.Teams) == 2
	}
}

// WithTargetScore overrides the table's default winning score.
func WithTargetScore(target int) Option {
	return func(s *Session) {
		if target > 0 {
			s.TargetScore = target
		}
	}
}

// WithDealer seats the first dealer at index i.
func WithDealer(i int) Option {
	return func(s *Session) {
		if i >= 0 && i < len(s.Players) {
			s.DealerIndex = i
		}
	}
}
