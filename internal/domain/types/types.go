// Package types contains common types used across the application
package types

import "time"

// Entry represents a leaderboard row
type Entry struct {
	Rank       int      `json:"rank"`
	ItemID     string   `json:"item_id"`
	Name       string   `json:"name"`
	Elo        float64  `json:"elo"`
	Glicko     float64  `json:"glicko"`
	RD         float64  `json:"rd"`
	Volatility float64  `json:"volatility"`
	Cost       *float64 `json:"cost"`
	Adjusted   *float64 `json:"adjusted_score"`
	Pareto     bool     `json:"pareto"`
}

// ArenaSummary describes an arena without its contents
type ArenaSummary struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Items    int    `json:"items"`
	Outcomes int    `json:"outcomes"`
}

// HistoryEntry is an outcome with participant names resolved
type HistoryEntry struct {
	Position   int       `json:"position"`
	OutcomeID  string    `json:"outcome_id"`
	At         time.Time `json:"at"`
	Item1ID    string    `json:"item1_id"`
	Item1Name  string    `json:"item1_name"`
	Item2ID    string    `json:"item2_id"`
	Item2Name  string    `json:"item2_name"`
	WinnerID   string    `json:"winner_id"`
	WinnerName string    `json:"winner_name"`
}
