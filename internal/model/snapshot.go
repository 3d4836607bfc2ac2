package model

import "time"

// Snapshot is the single serializable unit handed across the persistence
// boundary. The engine emits one after each committed tick and accepts one
// as a cold-start parameter; it never reads or writes storage itself.
type Snapshot struct {
	Tick        int           `json:"tick"`
	Day         int           `json:"day"`
	MarketOpen  bool          `json:"market_open"`
	Assets      []Asset       `json:"assets"`
	Player      *Player       `json:"player"`
	Posts       []SocialPost  `json:"posts"`
	Articles    []NewsArticle `json:"articles"`
	Shocks      []Shock       `json:"shocks"`
	SavedAt     time.Time     `json:"saved_at"`
}
