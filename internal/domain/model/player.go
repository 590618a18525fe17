// Package model contains domain models passed between layers.
package model

import "strings"

// PlayerID identifies a registered player.
type PlayerID string

// Player is a seated participant. Name is a display snapshot; identity is ID.
type Player struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

// Team is a fixed partnership in a four-player game.
type Team struct {
	Name    string   `json:"name"`
	Members []Player `json:"members"`
}

// Has reports whether id belongs to the team.
func (t Team) Has(id PlayerID) bool {
	for _, m := range t.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// TeamsBySeat pairs players sitting across from each other: seats 0 and 2
// against seats 1 and 3. Returns nil unless exactly four players are seated.
func TeamsBySeat(players []Player) []Team {
	if len(players) != 4 {
		return nil
	}
	teams := make([]Team, 2)
	for i, p := range players {
		teams[i%2].Members = append(teams[i%2].Members, p)
	}
	for i := range teams {
		teams[i].Name = teamName(teams[i].Members)
	}
	return teams
}

func teamName(members []Player) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return strings.Join(names, " & ")
}

// FindPlayer returns the player with id, if seated.
func FindPlayer(players []Player, id PlayerID) (Player, bool) {
	for _, p := range players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}
