// Package types contains read models shared by the service and its adapters.
package types

// Entry represents a leaderboard row.
type Entry struct {
	Rank         int     `json:"rank"`
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"name"`
	GamesPlayed  int     `json:"games_played"`
	GamesWon     int     `json:"games_won"`
	WinRate      float64 `json:"win_rate"`
	AverageScore float64 `json:"average_score"`
}
