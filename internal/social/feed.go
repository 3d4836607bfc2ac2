package social

import (
	"fmt"

	"RugTycoon/internal/model"

	"github.com/google/uuid"
)

// hypeDecay shrinks every asset's social hype a little each tick so hype
// dies off unless it is fed.
const hypeDecay = 0.98

// credSmoothing is the weight of history in the credibility update:
// cred <- 0.8*cred + 0.2*outcome.
const credSmoothing = 0.8

// CallMeta parameterizes an analysis post.
type CallMeta struct {
	Direction    model.Sentiment // bullish or bearish call
	HorizonTicks int             // 0 means the configured default
}

// Feed owns all social posts, news articles, and the sentiment shocks they
// feed into the price engine. Shocks enqueued during a tick are consumed
// at the start of the next price pass, never mid-tick.
type Feed struct {
	FatigueFactor float64
	FakeDamping   float64
	CallHorizon   int
	ShockDuration int

	Posts    []model.SocialPost
	Articles []model.NewsArticle

	pending []model.Shock
	active  []model.Shock

	debunkedFakes map[string]int // actor -> debunked fake count
}

// NewFeed returns a feed with the given tuning.
func NewFeed(fatigueFactor, fakeDamping float64, callHorizon, shockDuration int) *Feed {
	return &Feed{
		FatigueFactor: fatigueFactor,
		FakeDamping:   fakeDamping,
		CallHorizon:   callHorizon,
		ShockDuration: shockDuration,
		debunkedFakes: make(map[string]int),
	}
}

// CreatePost records a player post against an asset and enqueues its
// sentiment shock. The n-th post of the day carries magnitude scaled by
// fatigueFactor^(n-1), so spamming decays engagement monotonically.
func (f *Feed) CreatePost(p *model.Player, a *model.Asset, typ model.PostType, content string, meta *CallMeta, tick, day int) (*model.SocialPost, error) {
	var sentiment model.Sentiment
	switch typ {
	case model.PostHype:
		sentiment = model.SentimentBullish
	case model.PostFUD:
		sentiment = model.SentimentBearish
	case model.PostAnalysis:
		if meta == nil || (meta.Direction != model.SentimentBullish && meta.Direction != model.SentimentBearish) {
			return nil, fmt.Errorf("analysis post needs a bullish or bearish call")
		}
		sentiment = model.SentimentNeutral // the call itself moves nothing until graded
	default:
		return nil, fmt.Errorf("unknown post type %q", typ)
	}

	magnitude := (0.01 + 0.04*p.Stats.Influence/100) * pow(f.FatigueFactor, p.PostsToday)
	if a.IsPlayerToken {
		// Shilling your own token lands harder with your own followers.
		magnitude *= 1.5
	}

	post := model.SocialPost{
		ID:        uuid.NewString(),
		Tick:      tick,
		Day:       day,
		AssetID:   a.ID,
		Type:      typ,
		Content:   content,
		Sentiment: sentiment,
		Magnitude: magnitude,
	}
	if typ == model.PostAnalysis {
		horizon := meta.HorizonTicks
		if horizon <= 0 {
			horizon = f.CallHorizon
		}
		post.CallDirection = meta.Direction
		post.CallExpiry = tick + horizon
		post.CallBasePrice = a.Price
	}
	f.Posts = append(f.Posts, post)

	if sentiment != model.SentimentNeutral {
		f.pending = append(f.pending, model.Shock{
			AssetID:   a.ID,
			Sentiment: sentiment,
			Magnitude: magnitude,
			Duration:  f.ShockDuration,
			SourceID:  post.ID,
		})
		bumpHype(a, magnitude)
	}

	p.PostsToday++
	p.Stats.Exposure += 2
	p.Stats.Influence += 0.5
	if typ == model.PostFUD {
		p.Stats.Scrutiny += 2
	} else {
		p.Stats.Scrutiny += 1
	}
	p.Stats.Clamp()
	if p.Stats.Scrutiny >= 100 {
		p.Blacklisted = true
	}

	return &f.Posts[len(f.Posts)-1], nil
}

// PublishArticle records a news article and enqueues its shock. A fake
// from an actor with k already-debunked fakes lands at magnitude
// scaled by fakeDamping^k.
func (f *Feed) PublishArticle(a *model.Asset, headline, category string, sentiment model.Sentiment, magnitude float64, isFake bool, actor string, tick, day int) *model.NewsArticle {
	if isFake {
		magnitude *= pow(f.FakeDamping, f.debunkedFakes[actor])
	}

	article := model.NewsArticle{
		ID:        uuid.NewString(),
		Tick:      tick,
		Day:       day,
		AssetID:   a.ID,
		Headline:  headline,
		Category:  category,
		Sentiment: sentiment,
		Magnitude: magnitude,
		IsFake:    isFake,
		Actor:     actor,
	}
	f.Articles = append(f.Articles, article)

	if sentiment != model.SentimentNeutral {
		f.pending = append(f.pending, model.Shock{
			AssetID:   a.ID,
			Sentiment: sentiment,
			Magnitude: magnitude,
			Duration:  f.ShockDuration,
			SourceID:  article.ID,
		})
		bumpHype(a, magnitude)
	}
	return &f.Articles[len(f.Articles)-1]
}

// DebunkArticle marks a fake article as debunked: its remaining shock
// contribution is zeroed immediately and the actor's future fakes are
// damped. History is never rewritten.
func (f *Feed) DebunkArticle(articleID string, day int) (*model.NewsArticle, error) {
	for i := range f.Articles {
		art := &f.Articles[i]
		if art.ID != articleID {
			continue
		}
		if !art.IsFake {
			return nil, fmt.Errorf("article %s is not fake", articleID)
		}
		if art.Debunked {
			return nil, fmt.Errorf("article %s already debunked", articleID)
		}
		art.Debunked = true
		art.DebunkedDay = day
		f.debunkedFakes[art.Actor]++
		f.zeroShocks(articleID)
		return art, nil
	}
	return nil, fmt.Errorf("unknown article %q", articleID)
}

func (f *Feed) zeroShocks(sourceID string) {
	for i := range f.pending {
		if f.pending[i].SourceID == sourceID {
			f.pending[i].Magnitude = 0
		}
	}
	for i := range f.active {
		if f.active[i].SourceID == sourceID {
			f.active[i].Magnitude = 0
		}
	}
}

// Drift promotes pending shocks and returns the summed per-asset drift for
// this tick, then ages every active shock. A shock contributes its full
// magnitude on the first pass after it was enqueued and decays linearly to
// zero over its duration.
func (f *Feed) Drift() map[string]float64 {
	f.active = append(f.active, f.pending...)
	f.pending = f.pending[:0]

	drift := make(map[string]float64)
	kept := f.active[:0]
	for i := range f.active {
		s := &f.active[i]
		drift[s.AssetID] += s.Drift()
		s.Elapsed++
		if s.Elapsed < s.Duration && s.Magnitude > 0 {
			kept = append(kept, *s)
		}
	}
	f.active = kept
	return drift
}

// DecayHype shrinks every asset's hype toward zero.
func (f *Feed) DecayHype(assets []*model.Asset) {
	for _, a := range assets {
		a.SocialHype *= hypeDecay
	}
}

// ResolveAnalysisCalls grades every expired, unresolved analysis call
// against actual price movement and folds the outcome into the player's
// smoothed credibility. Returns the posts graded this tick.
func (f *Feed) ResolveAnalysisCalls(tick int, lookup func(id string) (*model.Asset, error), p *model.Player) []model.SocialPost {
	var graded []model.SocialPost
	for i := range f.Posts {
		post := &f.Posts[i]
		if post.Type != model.PostAnalysis || post.Resolved || post.CallExpiry > tick {
			continue
		}
		a, err := lookup(post.AssetID)
		if err != nil {
			post.Resolved = true
			continue
		}
		wentUp := a.Price > post.CallBasePrice
		post.Correct = (post.CallDirection == model.SentimentBullish) == wentUp
		post.Resolved = true

		outcome := 0.0
		if post.Correct {
			outcome = 1.0
			p.Stats.Reputation += 2
			p.Stats.Influence += 1
		} else {
			p.Stats.Reputation -= 1
		}
		p.Credibility = credSmoothing*p.Credibility + (1-credSmoothing)*outcome
		p.Stats.Clamp()
		graded = append(graded, *post)
	}
	return graded
}

// ActiveShocks returns copies of the not-yet-expired shocks, pending ones
// included, for snapshotting.
func (f *Feed) ActiveShocks() []model.Shock {
	out := make([]model.Shock, 0, len(f.active)+len(f.pending))
	out = append(out, f.active...)
	out = append(out, f.pending...)
	return out
}

// Restore reloads feed state from a snapshot.
func (f *Feed) Restore(posts []model.SocialPost, articles []model.NewsArticle, shocks []model.Shock) {
	f.Posts = posts
	f.Articles = articles
	f.pending = nil
	f.active = shocks
	f.debunkedFakes = make(map[string]int)
	for _, art := range articles {
		if art.Debunked {
			f.debunkedFakes[art.Actor]++
		}
	}
}

func bumpHype(a *model.Asset, magnitude float64) {
	a.SocialHype += magnitude * 5
	if a.SocialHype > 1 {
		a.SocialHype = 1
	}
}

func pow(base float64, n int) float64 {
	out := 1.0
	for i := 0; i < n; i++ {
		out *= base
	}
	return out
}
