package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/session"
	"github.com/okian/pinochle/pkg/metrics"
)

// Instrument wraps a Store so every call records latency and failures.
func Instrument(s Store) Store {
	return &instrumented{next: s}
}

var _ Store = (*instrumented)(nil)

type instrumented struct {
	next Store
}

func observe(op string, start time.Time, err error) {
	metrics.RecordStoreOperation(op, float64(time.Since(start).Microseconds())/1000, err)
}

func (i *instrumented) LoadPlayers(ctx context.Context) (players []model.Player, err error) {
	defer func(start time.Time) { observe("load_players", start, err) }(time.Now())
	return i.next.LoadPlayers(ctx)
}

func (i *instrumented) SavePlayers(ctx context.Context, players []model.Player) (err error) {
	defer func(start time.Time) { observe("save_players", start, err) }(time.Now())
	return i.next.SavePlayers(ctx, players)
}

func (i *instrumented) LoadCurrent(ctx context.Context) (d session.Data, err error) {
	defer func(start time.Time) {
		if errors.Is(err, ErrNotFound) {
			observe("load_current", start, nil)
			return
		}
		observe("load_current", start, err)
	}(time.Now())
	return i.next.LoadCurrent(ctx)
}

func (i *instrumented) SaveCurrent(ctx context.Context, d session.Data) (err error) {
	defer func(start time.Time) { observe("save_current", start, err) }(time.Now())
	return i.next.SaveCurrent(ctx, d)
}

func (i *instrumented) ClearCurrent(ctx context.Context) (err error) {
	defer func(start time.Time) { observe("clear_current", start, err) }(time.Now())
	return i.next.ClearCurrent(ctx)
}

func (i *instrumented) LoadHistory(ctx context.Context) (games []session.Data, err error) {
	defer func(start time.Time) { observe("load_history", start, err) }(time.Now())
	return i.next.LoadHistory(ctx)
}

func (i *instrumented) AppendHistory(ctx context.Context, d session.Data) (err error) {
	defer func(start time.Time) { observe("append_history", start, err) }(time.Now())
	return i.next.AppendHistory(ctx, d)
}

func (i *instrumented) Close() error { return i.next.Close() }

// Ping forwards to the wrapped store when it can be pinged.
func (i *instrumented) Ping(ctx context.Context) error {
	if p, ok := i.next.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
