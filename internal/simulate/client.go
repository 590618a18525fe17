package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	service "github.com/okian/pinochle/internal/app"
	"github.com/okian/pinochle/internal/domain/hand"
	"github.com/okian/pinochle/internal/domain/model"
	"github.com/okian/pinochle/internal/domain/round"
	"github.com/okian/pinochle/internal/domain/session"
	"github.com/okian/pinochle/internal/domain/types"
)

// Client calls the scorekeeper API.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{base: baseURL, http: &http.Client{Timeout: timeout}}
}

// APIError is a non-2xx response.
type APIError struct {
	Status   int      `json:"-"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Problems []string `json:"problems"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return ErrAPI }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, r)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return fmt.Errorf("%s %s: %w", method, path, apiErr)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Ready calls /readyz.
func (c *Client) Ready(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/readyz", nil, nil)
}

// RegisterPlayer calls POST /players.
func (c *Client) RegisterPlayer(ctx context.Context, name string) (model.Player, error) {
	var p model.Player
	err := c.do(ctx, http.MethodPost, "/players", map[string]string{"name": name}, &p)
	return p, err
}

// NewGame calls POST /games.
func (c *Client) NewGame(ctx context.Context, req service.GameRequest) (session.Status, error) {
	var st session.Status
	err := c.do(ctx, http.MethodPost, "/games", req, &st)
	return st, err
}

// Status calls GET /games/current/status.
func (c *Client) Status(ctx context.Context) (session.Status, error) {
	var st session.Status
	err := c.do(ctx, http.MethodGet, "/games/current/status", nil, &st)
	return st, err
}

// Bid calls POST /games/current/round/bid.
func (c *Client) Bid(ctx context.Context, bid int, bidder model.PlayerID) error {
	var st round.State
	return c.do(ctx, http.MethodPost, "/games/current/round/bid",
		map[string]any{"bid": bid, "bidderId": bidder}, &st)
}

// Meld calls POST /games/current/round/meld.
func (c *Client) Meld(ctx context.Context, meld map[model.PlayerID]int, ninesOnly map[model.PlayerID]bool) error {
	var st round.State
	return c.do(ctx, http.MethodPost, "/games/current/round/meld",
		map[string]any{"meld": meld, "ninesOnly": ninesOnly}, &st)
}

// Tricks calls POST /games/current/round/tricks.
func (c *Client) Tricks(ctx context.Context, tricks map[model.PlayerID]int) (service.HandResult, error) {
	var res service.HandResult
	err := c.do(ctx, http.MethodPost, "/games/current/round/tricks", map[string]any{"tricks": tricks}, &res)
	return res, err
}

// Moon calls POST /games/current/round/moon.
func (c *Client) Moon(ctx context.Context) (service.HandResult, error) {
	var res service.HandResult
	err := c.do(ctx, http.MethodPost, "/games/current/round/moon", nil, &res)
	return res, err
}

// ThrowIn calls POST /games/current/round/throw-in.
func (c *Client) ThrowIn(ctx context.Context) (service.HandResult, error) {
	var res service.HandResult
	err := c.do(ctx, http.MethodPost, "/games/current/round/throw-in", nil, &res)
	return res, err
}

// EditHand calls PUT /games/current/hands/{number}.
func (c *Client) EditHand(ctx context.Context, number int, corr hand.Correction) (session.Status, error) {
	var st session.Status
	err := c.do(ctx, http.MethodPut, "/games/current/hands/"+strconv.Itoa(number), corr, &st)
	return st, err
}

// EndGame calls POST /games/current/end.
func (c *Client) EndGame(ctx context.Context, winnerID string) (session.Data, error) {
	var d session.Data
	err := c.do(ctx, http.MethodPost, "/games/current/end", map[string]string{"winnerId": winnerID}, &d)
	return d, err
}

// Leaderboard calls GET /leaderboard.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	var entries []types.Entry
	err := c.do(ctx, http.MethodGet, "/leaderboard?limit="+strconv.Itoa(limit), nil, &entries)
	return entries, err
}
