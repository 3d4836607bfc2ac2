package model

// Sentiment is the direction of a post or article.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// PostType selects how a social post is interpreted.
type PostType string

const (
	PostHype     PostType = "hype"     // bullish shill
	PostFUD      PostType = "fud"      // bearish attack
	PostAnalysis PostType = "analysis" // directional call with a timeframe
)

// SocialPost is an append-only record of a player post. Analysis posts
// carry a call that is graded when the horizon elapses.
type SocialPost struct {
	ID        string    `json:"id"`
	Tick      int       `json:"tick"`
	Day       int       `json:"day"`
	AssetID   string    `json:"asset_id"`
	Type      PostType  `json:"type"`
	Content   string    `json:"content"`
	Sentiment Sentiment `json:"sentiment"`
	Magnitude float64   `json:"magnitude"` // post-fatigue, 0~1

	// analysis calls only
	CallDirection Sentiment `json:"call_direction,omitempty"`
	CallExpiry    int       `json:"call_expiry,omitempty"` // tick
	CallBasePrice float64   `json:"call_base_price,omitempty"`
	Resolved      bool      `json:"resolved,omitempty"`
	Correct       bool      `json:"correct,omitempty"`
}

// NewsArticle is an append-only news item. Fake articles may later be
// debunked, which zeroes their remaining price influence but never
// rewrites history.
type NewsArticle struct {
	ID          string    `json:"id"`
	Tick        int       `json:"tick"`
	Day         int       `json:"day"`
	AssetID     string    `json:"asset_id"`
	Headline    string    `json:"headline"`
	Category    string    `json:"category"`
	Sentiment   Sentiment `json:"sentiment"`
	Magnitude   float64   `json:"magnitude"`
	IsFake      bool      `json:"is_fake"`
	Actor       string    `json:"actor,omitempty"`
	Debunked    bool      `json:"debunked,omitempty"`
	DebunkedDay int       `json:"debunked_day,omitempty"`
}

// Shock is a transient drift applied to one asset's price. It is consumed
// by the price engine on the tick after it is enqueued and decays linearly
// over Duration ticks. SourceID ties it back to the post or article that
// created it so a debunk can zero it.
type Shock struct {
	AssetID   string    `json:"asset_id"`
	Sentiment Sentiment `json:"sentiment"`
	Magnitude float64   `json:"magnitude"`
	Duration  int       `json:"duration"`
	Elapsed   int       `json:"elapsed"`
	SourceID  string    `json:"source_id"`
}

// Drift returns the signed per-tick drift remaining in the shock.
func (s *Shock) Drift() float64 {
	if s.Elapsed >= s.Duration || s.Duration <= 0 {
		return 0
	}
	m := s.Magnitude * (1 - float64(s.Elapsed)/float64(s.Duration))
	switch s.Sentiment {
	case SentimentBearish:
		return -m
	case SentimentBullish:
		return m
	default:
		return 0
	}
}
