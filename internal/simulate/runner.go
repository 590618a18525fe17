package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	service "github.com/okian/pinochle/internal/app"
	"github.com/okian/pinochle/internal/domain/hand"
	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/round"
	"github.com/okian/pinochle/internal/domain/scoring"
	"github.com/okian/pinochle/internal/domain/session"
	"github.com/okian/pinochle/pkg/logger"
)

const leaderboardSize = 10

// Runner plays simulated games against one server.
type Runner struct {
	cfg    Config
	client *Client
	gen    *Generator
	log    logger.Logger
	stats  Stats
}

// NewRunner validates cfg and prepares a run.
func NewRunner(cfg Config, log logger.Logger) (*Runner, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		client: NewClient(cfg.BaseURL, cfg.Timeout),
		gen:    NewGenerator(cfg.Seed, cfg.Players),
		log:    log,
	}, nil
}

// Run executes the complete simulation.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Stats, error) {
	r, err := NewRunner(cfg, log)
	if err != nil {
		return Stats{}, err
	}
	return r.Run(ctx)
}

// Run plays every configured game and returns the statistics.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	r.stats = Stats{StartTime: time.Now()}
	r.log.Info(ctx, "starting simulation",
		logger.String("baseURL", r.cfg.BaseURL),
		logger.Int("games", r.cfg.Games),
		logger.Int("players", r.cfg.Players),
		logger.Any("seed", r.cfg.Seed),
	)

	if err := r.client.Ready(ctx); err != nil {
		return r.stats, fmt.Errorf("service readiness check failed: %w", err)
	}
	players, err := r.registerPlayers(ctx)
	if err != nil {
		return r.stats, fmt.Errorf("register players: %w", err)
	}
	for i := range r.cfg.Games {
		if err := r.playGame(ctx, players); err != nil {
			return r.stats, fmt.Errorf("game %d: %w", i+1, err)
		}
	}

	board, err := r.client.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return r.stats, fmt.Errorf("leaderboard: %w", err)
	}
	for _, e := range board {
		r.log.Info(ctx, "leaderboard",
			logger.Int("rank", e.Rank),
			logger.String("name", e.Name),
			logger.Int("won", e.GamesWon),
			logger.Int("played", e.GamesPlayed),
		)
	}

	r.stats.EndTime = time.Now()
	r.stats.Duration = r.stats.EndTime.Sub(r.stats.StartTime)
	r.log.Info(ctx, "simulation finished",
		logger.Int("games", r.stats.GamesPlayed),
		logger.Int("hands", r.stats.HandsRecorded),
		logger.Int("thrownIn", r.stats.ThrownIn),
		logger.Int("moons", r.stats.MoonShots),
		logger.Int("sets", r.stats.BidsSet),
		logger.Duration("duration", r.stats.Duration),
	)
	return r.stats, nil
}

// registerPlayers registers a fresh table concurrently, keeping seat order.
func (r *Runner) registerPlayers(ctx context.Context) ([]model.Player, error) {
	players := make([]model.Player, r.cfg.Players)
	tag := uuid.NewString()[:8]

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Players)
	for seat := range players {
		g.Go(func() error {
			p, err := r.client.RegisterPlayer(gctx, fmt.Sprintf("sim-%s-%d", tag, seat+1))
			if err != nil {
				return err
			}
			players[seat] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *Runner) playGame(ctx context.Context, players []model.Player) error {
	ids := make([]model.PlayerID, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	partnership := len(players) == 4
	st, err := r.client.NewGame(ctx, service.GameRequest{PlayerIDs: ids, Partnership: &partnership})
	if err != nil {
		return err
	}
	local, err := session.New(st.ID, players, len(players), session.WithPartnership(partnership))
	if err != nil {
		return err
	}

	for range r.cfg.MaxHands {
		if err := r.playHand(ctx, local, r.gen.Next()); err != nil {
			return err
		}
		if _, ok := local.CheckForWinner(); ok {
			break
		}
	}
	if err := r.correctFirstHand(ctx, local); err != nil {
		return err
	}
	return r.endGame(ctx, local)
}

// playHand enters plan on the server and into the local replay, then compares.
func (r *Runner) playHand(ctx context.Context, local *session.Session, plan Plan) error {
	players := local.Players
	rd := round.New(players)
	var (
		res      service.HandResult
		expected round.Result
		err      error
	)

	if plan.ThrowIn {
		if res, err = r.client.ThrowIn(ctx); err != nil {
			return err
		}
		if expected, err = rd.ThrowIn(local.NewHand()); err != nil {
			return err
		}
	} else {
		bidder := players[plan.Bidder].ID
		meld, nines, tricks := bySeat(players, plan)

		if err := r.client.Bid(ctx, plan.Bid, bidder); err != nil {
			return err
		}
		if err := rd.EnterBid(plan.Bid, bidder); err != nil {
			return err
		}
		if err := r.client.Meld(ctx, meld, nines); err != nil {
			return err
		}
		if err := rd.EnterMeld(meld, nines); err != nil {
			return err
		}
		if plan.Moon {
			if res, err = r.client.Moon(ctx); err != nil {
				return err
			}
			expected, err = rd.ShootTheMoon(local.NewHand())
		} else {
			if res, err = r.client.Tricks(ctx, tricks); err != nil {
				return err
			}
			expected, err = rd.SubmitTricks(local.NewHand(), tricks)
		}
		if err != nil {
			return err
		}
	}

	h := expected.Hand
	if err := local.AddHand(h); err != nil {
		return err
	}
	r.count(h)
	if err := compareDeltas(h.Number, res.Deltas, scoring.Deltas(h, players)); err != nil {
		return err
	}
	if r.cfg.Verbose {
		r.log.Debug(ctx, "hand played",
			logger.Int("hand", h.Number),
			logger.String("outcome", res.Outcome),
			logger.Any("deltas", res.Deltas),
		)
	}
	return compareStatus(res.Status, local)
}

// correctFirstHand re-enters the first played hand's bid at the table minimum.
func (r *Runner) correctFirstHand(ctx context.Context, local *session.Session) error {
	for _, h := range local.Hands {
		if h.ThrownIn {
			continue
		}
		bid := hand.MinBid(local.GameType)
		c := hand.Correction{Bid: &bid}
		st, err := r.client.EditHand(ctx, h.Number, c)
		if err != nil {
			return err
		}
		if err := local.EditHand(h.Number, c); err != nil {
			return err
		}
		r.stats.Corrections++
		return compareStatus(st, local)
	}
	return nil
}

func (r *Runner) endGame(ctx context.Context, local *session.Session) error {
	want, ok := local.CheckForWinner()
	winnerID := ""
	if !ok {
		// Nobody reached the target within MaxHands; the leader takes it.
		leader := local.Status(time.Now()).Leader
		want = session.Winner{ID: string(leader.PlayerID), Name: leader.Name}
		winnerID = want.ID
	}
	data, err := r.client.EndGame(ctx, winnerID)
	if err != nil {
		return err
	}
	if data.WinnerID == nil {
		return fmt.Errorf("%w: no winner recorded, want %s", ErrMismatch, want.ID)
	}
	if *data.WinnerID != want.ID {
		return fmt.Errorf("%w: winner %s, want %s", ErrMismatch, *data.WinnerID, want.ID)
	}

	r.stats.GamesPlayed++
	if ok {
		r.stats.GamesWon++
	}
	r.log.Info(ctx, "game finished",
		logger.String("game", local.ID),
		logger.String("winner", want.Name),
		logger.Bool("reachedTarget", ok),
		logger.Int("hands", len(local.Hands)),
	)
	return nil
}

func (r *Runner) count(h *hand.Hand) {
	r.stats.HandsRecorded++
	switch {
	case h.ThrownIn:
		r.stats.ThrownIn++
	case h.ShotTheMoon:
		r.stats.MoonShots++
	case scoring.Classify(h) == scoring.OutcomeSet:
		r.stats.BidsSet++
	}
}

func bySeat(players []model.Player, plan Plan) (map[model.PlayerID]int, map[model.PlayerID]bool, map[model.PlayerID]int) {
	meld := make(map[model.PlayerID]int, len(players))
	nines := make(map[model.PlayerID]bool)
	tricks := make(map[model.PlayerID]int, len(players))
	for seat, p := range players {
		meld[p.ID] = plan.Meld[seat]
		tricks[p.ID] = plan.Tricks[seat]
		if plan.NinesOnly[seat] {
			nines[p.ID] = true
		}
	}
	return meld, nines, tricks
}
