package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/session"
)

const (
	statusCurrent   = "current"
	statusCompleted = "completed"
)

// stampLayout is fixed width so updated_at sorts as text.
const stampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLStore keeps players and sessions as JSONB documents in a libSQL
// database. The schema is owned by package database.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sql.DB, opts ...SQLOption) *SQLStore {
	s := &SQLStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SQLStore) LoadPlayers(ctx context.Context) ([]model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT json(data) FROM players ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var players []model.Player
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		var p model.Player
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("decode player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLStore) SavePlayers(ctx context.Context, players []model.Player) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("clear players: %w", err)
	}
	for i, p := range players {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode player %s: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO players (id, seq, data) VALUES (?, ?, jsonb(?))`,
			string(p.ID), i, string(raw),
		); err != nil {
			return fmt.Errorf("insert player %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) LoadCurrent(ctx context.Context) (session.Data, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM sessions WHERE status = ? ORDER BY updated_at DESC LIMIT 1`, statusCurrent,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Data{}, ErrNotFound
	}
	if err != nil {
		return session.Data{}, fmt.Errorf("query current: %w", err)
	}
	return decodeSession([]byte(raw))
}

func (s *SQLStore) SaveCurrent(ctx context.Context, d session.Data) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE status = ? AND id <> ?`, statusCurrent, d.ID,
	); err != nil {
		return fmt.Errorf("clear current: %w", err)
	}
	if err := s.put(ctx, tx, d, statusCurrent); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) ClearCurrent(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE status = ?`, statusCurrent); err != nil {
		return fmt.Errorf("clear current: %w", err)
	}
	return nil
}

func (s *SQLStore) LoadHistory(ctx context.Context) ([]session.Data, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM sessions WHERE status = ? ORDER BY updated_at, rowid`, statusCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	games := []session.Data{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		d, err := decodeSession([]byte(raw))
		if err != nil {
			return nil, err
		}
		games = append(games, d)
	}
	return games, rows.Err()
}

func (s *SQLStore) AppendHistory(ctx context.Context, d session.Data) error {
	return s.put(ctx, s.db, d, statusCompleted)
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLStore) put(ctx context.Context, ex execer, d session.Data, status string) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", d.ID, err)
	}
	_, err = ex.ExecContext(ctx,
		`INSERT INTO sessions (id, status, updated_at, data) VALUES (?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at, data = excluded.data`,
		d.ID, status, s.now().UTC().Format(stampLayout), string(raw),
	)
	if err != nil {
		return fmt.Errorf("upsert session %s: %w", d.ID, err)
	}
	return nil
}
