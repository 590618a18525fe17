package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/pinochle/internal/domain/hand"
	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/round"
	"github.com/okian/pinochle/internal/domain/scoring"
	"github.com/okian/pinochle/internal/domain/session"
	"github.com/okian/pinochle/pkg/logger"
	"github.com/okian/pinochle/pkg/metrics"
)

// GameRequest describes a game to start. Players are listed in seat order.
type GameRequest struct {
	PlayerIDs []model.PlayerID `json:"playerIds"`
	// Partnership overrides the default win mode of a 4-player game.
	Partnership *bool `json:"partnership,omitempty"`
	// Dealer is the seat of the first dealer.
	Dealer int `json:"dealer,omitempty"`
}

// HandResult is what the caller sees after a hand is recorded.
type HandResult struct {
	Hand    hand.Data              `json:"hand"`
	Outcome string                 `json:"outcome"`
	Deltas  map[model.PlayerID]int `json:"deltas"`
	Melds   []round.MeldResolution `json:"melds,omitempty"`
	Status  session.Status         `json:"status"`
}

// NewGame opens a game for registered players. Only one game may be open.
func (s *Service) NewGame(ctx context.Context, req GameRequest) (session.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return session.Status{}, err
	}
	if s.game != nil {
		return session.Status{}, fmt.Errorf("%s: %w", s.game.ID, ErrGameInProgress)
	}
	players, err := s.lookup(req.PlayerIDs)
	if err != nil {
		return session.Status{}, err
	}

	partnership := s.teamPlay
	if req.Partnership != nil {
		partnership = *req.Partnership
	}
	game, err := session.New(uuid.NewString(), players, len(players),
		session.WithStartTime(s.clock()),
		session.WithPartnership(partnership),
		session.WithDealer(req.Dealer),
	)
	if err != nil {
		return session.Status{}, err
	}

	s.game = game
	s.round = round.New(game.Players)
	if err := s.saveCurrent(ctx); err != nil {
		s.game, s.round = nil, nil
		return session.Status{}, err
	}

	metrics.RecordGameStarted(strconv.Itoa(len(players)))
	metrics.UpdateActiveGame(true)
	s.logger.Info(ctx, "game started",
		logger.String("game", game.ID),
		logger.Int("players", len(players)),
		logger.Bool("partnership", game.Partnership && len(game.Teams) == 2),
		logger.Int("target", game.TargetScore),
		logger.String("dealer", game.CurrentDealer().Name),
	)
	return game.Status(s.clock()), nil
}

// Current returns the open game.
func (s *Service) Current(_ context.Context) (session.Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, err := s.active()
	if err != nil {
		return session.Data{}, err
	}
	return game.Data(), nil
}

// Status reports leader, target, hand number and win state of the open game.
func (s *Service) Status(_ context.Context) (session.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, err := s.active()
	if err != nil {
		return session.Status{}, err
	}
	return game.Status(s.clock()), nil
}

// Round returns the state of the hand being entered.
func (s *Service) Round(_ context.Context) (round.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.active(); err != nil {
		return round.State{}, err
	}
	return s.round.State(), nil
}

// EnterBid records the winning bid of the hand in progress.
func (s *Service) EnterBid(ctx context.Context, bid int, bidderID model.PlayerID) (round.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.playable(); err != nil {
		return round.State{}, err
	}
	if err := s.round.EnterBid(bid, bidderID); err != nil {
		return round.State{}, s.rejected(ctx, "bid", err)
	}
	st := s.round.State()
	s.logger.Info(ctx, "bid entered",
		logger.String("game", s.game.ID),
		logger.Int("hand", s.game.NextHandNumber()),
		logger.Int("bid", st.Bid),
		logger.String("bidder", st.BidderName),
	)
	return st, nil
}

// EnterMeld records the declared meld of every player.
func (s *Service) EnterMeld(ctx context.Context, meld map[model.PlayerID]int, ninesOnly map[model.PlayerID]bool) (round.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.playable(); err != nil {
		return round.State{}, err
	}
	if err := s.round.EnterMeld(meld, ninesOnly); err != nil {
		return round.State{}, s.rejected(ctx, "meld", err)
	}
	s.logger.Info(ctx, "meld entered", logger.String("game", s.game.ID), logger.Any("meld", meld))
	return s.round.State(), nil
}

// SubmitTricks finishes the hand in progress from trick counts.
func (s *Service) SubmitTricks(ctx context.Context, tricks map[model.PlayerID]int) (HandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.playable(); err != nil {
		return HandResult{}, err
	}
	res, err := s.round.SubmitTricks(s.game.NewHand(), tricks)
	if err != nil {
		return HandResult{}, s.rejected(ctx, "tricks", err)
	}
	return s.record(ctx, res)
}

// ShootTheMoon finishes the hand in progress with the bidder taking every trick.
func (s *Service) ShootTheMoon(ctx context.Context) (HandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.playable(); err != nil {
		return HandResult{}, err
	}
	res, err := s.round.ShootTheMoon(s.game.NewHand())
	if err != nil {
		return HandResult{}, s.rejected(ctx, "moon", err)
	}
	return s.record(ctx, res)
}

// ThrowIn records a misdeal. Nobody scores and the deal passes on.
func (s *Service) ThrowIn(ctx context.Context) (HandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.playable(); err != nil {
		return HandResult{}, err
	}
	res, err := s.round.ThrowIn(s.game.NewHand())
	if err != nil {
		return HandResult{}, s.rejected(ctx, "throw_in", err)
	}
	return s.record(ctx, res)
}

// Back steps the hand in progress back one phase.
func (s *Service) Back(ctx context.Context) (round.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.playable(); err != nil {
		return round.State{}, err
	}
	if err := s.round.Back(); err != nil {
		return round.State{}, s.rejected(ctx, "back", err)
	}
	st := s.round.State()
	s.logger.Debug(ctx, "round stepped back", logger.String("phase", st.Phase))
	return st, nil
}

// EditHand corrects a recorded hand and replays the totals.
func (s *Service) EditHand(ctx context.Context, number int, c hand.Correction) (session.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.active()
	if err != nil {
		return session.Status{}, err
	}
	if err := game.EditHand(number, c); err != nil {
		return session.Status{}, s.rejected(ctx, "correction", err)
	}
	if err := s.saveCurrent(ctx); err != nil {
		return session.Status{}, err
	}

	metrics.RecordHandCorrection()
	s.logger.Info(ctx, "hand corrected",
		logger.String("game", game.ID),
		logger.Int("hand", number),
		logger.Any("scores", game.Scores()),
	)
	return game.Status(s.clock()), nil
}

// CheckForWinner reports who has won the open game, if anyone.
func (s *Service) CheckForWinner(_ context.Context) (session.Winner, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, err := s.active()
	if err != nil {
		return session.Winner{}, false, err
	}
	w, ok := game.CheckForWinner()
	return w, ok, nil
}

// EndGame finalises the open game and moves it to history. An empty
// winnerID takes the current winner, failing with ErrNoWinner if there is
// none; otherwise it must name a seated player or, in a partnership game, a team.
func (s *Service) EndGame(ctx context.Context, winnerID string) (session.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, err := s.active()
	if err != nil {
		return session.Data{}, err
	}
	w, err := s.resolveWinner(game, winnerID)
	if err != nil {
		return session.Data{}, err
	}

	// The open game stays untouched until both store calls succeed, so a
	// failed end can be retried. AppendHistory keeps one copy per game.
	ended, err := session.FromData(game.Data())
	if err != nil {
		return session.Data{}, err
	}
	if err := ended.EndGame(w.ID, w.Name, s.clock()); err != nil {
		return session.Data{}, err
	}
	data := ended.Data()
	if err := s.store.AppendHistory(ctx, data); err != nil {
		s.logger.Error(ctx, "archive game", logger.String("game", data.ID), logger.Error(err))
		return session.Data{}, fmt.Errorf("archive game: %w", err)
	}
	if err := s.store.ClearCurrent(ctx); err != nil {
		s.logger.Error(ctx, "clear current game", logger.String("game", data.ID), logger.Error(err))
		return session.Data{}, fmt.Errorf("clear current game: %w", err)
	}
	s.game, s.round = nil, nil

	mode := "individual"
	if w.Team {
		mode = "team"
	}
	metrics.RecordGameCompleted(mode)
	metrics.UpdateActiveGame(false)
	s.logger.Info(ctx, "game ended",
		logger.String("game", data.ID),
		logger.String("winner", w.Name),
		logger.Int("hands", len(data.Hands)),
		logger.Duration("duration", ended.Status(s.clock()).Duration),
	)
	return data, nil
}

func (s *Service) resolveWinner(game *session.Session, winnerID string) (session.Winner, error) {
	if winnerID == "" {
		w, ok := game.CheckForWinner()
		if !ok {
			return session.Winner{}, ErrNoWinner
		}
		return w, nil
	}
	if p, ok := model.FindPlayer(game.Players, model.PlayerID(winnerID)); ok {
		return session.Winner{ID: string(p.ID), Name: p.Name, Score: game.Score(p.ID)}, nil
	}
	if game.Partnership {
		sums := game.TeamScores()
		for _, t := range game.Teams {
			if t.Name == winnerID {
				return session.Winner{ID: t.Name, Name: t.Name, Score: sums[t.Name], Team: true, Members: t.Members}, nil
			}
		}
	}
	return session.Winner{}, fmt.Errorf("winner %q: %w", winnerID, ErrUnknownPlayer)
}

// playable is active plus a guard against entering hands into an ended game.
func (s *Service) playable() error {
	game, err := s.active()
	if err != nil {
		return err
	}
	if game.Ended() {
		return session.ErrGameEnded
	}
	return nil
}

// record appends a finished hand, saves the game and reports the result.
func (s *Service) record(ctx context.Context, res round.Result) (HandResult, error) {
	game := s.game
	if err := game.AddHand(res.Hand); err != nil {
		return HandResult{}, err
	}
	if err := s.saveCurrent(ctx); err != nil {
		return HandResult{}, err
	}

	h := res.Hand
	outcome := scoring.Classify(h).String()
	if h.ShotTheMoon {
		outcome = "moon"
	}
	metrics.RecordHandRecorded(outcome)
	for _, m := range res.Melds {
		metrics.RecordMeldResolution(m.Status.String())
	}

	out := HandResult{
		Hand:    h.Data(),
		Outcome: outcome,
		Deltas:  scoring.Deltas(h, game.Players),
		Melds:   res.Melds,
		Status:  game.Status(s.clock()),
	}
	fields := []logger.Field{
		logger.String("game", game.ID),
		logger.Int("hand", h.Number),
		logger.String("outcome", outcome),
		logger.Any("scores", game.Scores()),
	}
	if out.Status.Winner != nil {
		fields = append(fields, logger.String("leader", out.Status.Winner.Name))
		s.logger.Info(ctx, "target reached", fields...)
	} else {
		s.logger.Info(ctx, "hand recorded", fields...)
	}
	return out, nil
}

// rejected counts and logs a refused input, passing err through.
func (s *Service) rejected(ctx context.Context, op string, err error) error {
	fields := []logger.Field{logger.String("op", op), logger.Error(err)}
	if problems := hand.Problems(err); len(problems) > 0 {
		metrics.RecordValidationFailure(op)
		fields = append(fields, logger.Any("problems", problems))
	} else if errors.Is(err, round.ErrUnknownPlayer) {
		metrics.RecordValidationFailure(op)
	}
	s.logger.Warn(ctx, "input rejected", fields...)
	return err
}
