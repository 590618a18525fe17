package session

import (
	"time"

	"github.com/okian/pinochle/internal/domain/hand"
	"github.com/okian/pinochle/internal/domain/model"
)

// Data is the persisted form of a Session. Scores are written for readers
// of the stored record but are replayed from the hands on load.
type Data struct {
	ID                 string                 `json:"id"`
	GameType           int                    `json:"gameType"`
	Players            []model.Player         `json:"players"`
	Partnership        bool                   `json:"partnership"`
	TargetScore        int                    `json:"targetScore"`
	CurrentDealerIndex int                    `json:"currentDealerIndex"`
	Hands              []hand.Data            `json:"hands"`
	Scores             map[model.PlayerID]int `json:"scores"`
	StartTime          time.Time              `json:"startTime"`
	EndTime            *time.Time             `json:"endTime"`
	WinnerID           *string                `json:"winnerId"`
	WinnerName         *string                `json:"winnerName"`
}

// Data converts the session to its persisted form.
func (s *Session) Data() Data {
	d := Data{
		ID:                 s.ID,
		GameType:           s.GameType,
		Players:            append([]model.Player(nil), s.Players...),
		Partnership:        s.Partnership,
		TargetScore:        s.TargetScore,
		CurrentDealerIndex: s.DealerIndex,
		Hands:              make([]hand.Data, len(s.Hands)),
		Scores:             s.Scores(),
		StartTime:          s.StartTime,
	}
	for i, h := range s.Hands {
		d.Hands[i] = h.Data()
	}
	if s.EndTime != nil {
		end := *s.EndTime
		d.EndTime = &end
	}
	if s.WinnerID != "" || s.WinnerName != "" {
		id, name := s.WinnerID, s.WinnerName
		d.WinnerID = &id
		d.WinnerName = &name
	}
	return d
}

// FromData rebuilds a session from its persisted form.
func FromData(d Data) (*Session, error) {
	s, err := New(d.ID, d.Players, d.GameType,
		WithPartnership(d.Partnership),
		WithTargetScore(d.TargetScore),
		WithDealer(d.CurrentDealerIndex),
		WithStartTime(d.StartTime),
	)
	if err != nil {
		return nil, err
	}
	for _, hd := range d.Hands {
		s.Hands = append(s.Hands, hand.FromData(hd))
	}
	if d.EndTime != nil {
		end := *d.EndTime
		s.EndTime = &end
	}
	if d.WinnerID != nil {
		s.WinnerID = *d.WinnerID
	}
	if d.WinnerName != nil {
		s.WinnerName = *d.WinnerName
	}
	s.RecalculateScores()
	return s, nil
}
