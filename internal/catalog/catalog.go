package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"RugTycoon/internal/model"

	"github.com/google/uuid"
)

// AssetSeed is one entry of the asset catalog JSON.
type AssetSeed struct {
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	Tier            string  `json:"tier"`
	IsPlayerToken   bool    `json:"isPlayerToken"`
	BasePrice       float64 `json:"basePrice"`
	BaseVolatility  float64 `json:"baseVolatility"`
	LiquidityUSD    float64 `json:"liquidityUSD"`
	DevTokensPct    float64 `json:"devTokensPct"`
	AuditScore      float64 `json:"auditScore"`
	GovFavorScore   float64 `json:"govFavorScore"`
	LaunchedDaysAgo int     `json:"launchedDaysAgo"`
	UnlockNetWorth  float64 `json:"unlockNetWorth"`
}

// NewsSeed is one entry of the news headline catalog JSON. Source is the
// publishing outlet; fake-news damping is tracked per source.
type NewsSeed struct {
	Headline  string `json:"headline"`
	Sentiment string `json:"sentiment"`
	Category  string `json:"category"`
	Source    string `json:"source"`
	IsFake    bool   `json:"isFake"`
}

// LoadAssets reads and validates the asset catalog, returning game-ready
// assets. Unlockable assets start locked; everything else starts unlocked.
func LoadAssets(path string) ([]model.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset catalog: %w", err)
	}
	var seeds []AssetSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse asset catalog: %w", err)
	}
	if len(seeds) == 0 {
		return nil, fmt.Errorf("asset catalog %s is empty", path)
	}

	assets := make([]model.Asset, 0, len(seeds))
	for i, s := range seeds {
		if err := validateAssetSeed(&s); err != nil {
			return nil, fmt.Errorf("asset catalog entry %d (%s): %w", i, s.Symbol, err)
		}
		tier := model.AssetTier(s.Tier)
		assets = append(assets, model.Asset{
			ID:             uuid.NewString(),
			Symbol:         s.Symbol,
			Name:           s.Name,
			Tier:           tier,
			IsPlayerToken:  s.IsPlayerToken,
			BasePrice:      s.BasePrice,
			Price:          s.BasePrice,
			BaseVolatility: s.BaseVolatility,
			LiquidityUSD:   s.LiquidityUSD,
			DevTokensPct:   s.DevTokensPct,
			AuditScore:     s.AuditScore,
			GovFavorScore:  s.GovFavorScore,
			Unlocked:       tier != model.TierUnlockable,
			UnlockNetWorth: s.UnlockNetWorth,
		})
	}
	return assets, nil
}

func validateAssetSeed(s *AssetSeed) error {
	if s.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	switch model.AssetTier(s.Tier) {
	case model.TierCore, model.TierBase, model.TierUnlockable:
	default:
		return fmt.Errorf("unknown tier %q", s.Tier)
	}
	if s.BasePrice < model.MinPrice {
		return fmt.Errorf("basePrice %g below floor %g", s.BasePrice, model.MinPrice)
	}
	if s.BaseVolatility <= 0 {
		return fmt.Errorf("baseVolatility must be positive")
	}
	if s.LiquidityUSD < 0 {
		return fmt.Errorf("liquidityUSD must not be negative")
	}
	if s.DevTokensPct < 0 || s.DevTokensPct > 100 {
		return fmt.Errorf("devTokensPct must be in [0,100]")
	}
	if s.AuditScore < 0 || s.AuditScore > 1 {
		return fmt.Errorf("auditScore must be in [0,1]")
	}
	if s.GovFavorScore < 0 || s.GovFavorScore > 1 {
		return fmt.Errorf("govFavorScore must be in [0,1]")
	}
	if s.LaunchedDaysAgo < 0 {
		return fmt.Errorf("launchedDaysAgo must not be negative")
	}
	if model.AssetTier(s.Tier) == model.TierUnlockable && s.UnlockNetWorth <= 0 {
		return fmt.Errorf("unlockable asset needs a positive unlockNetWorth")
	}
	return nil
}

// LoadNews reads and validates the news headline catalog.
func LoadNews(path string) ([]NewsSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // news catalog is optional
		}
		return nil, fmt.Errorf("read news catalog: %w", err)
	}
	var seeds []NewsSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse news catalog: %w", err)
	}
	for i, s := range seeds {
		if s.Headline == "" {
			return nil, fmt.Errorf("news catalog entry %d: headline is required", i)
		}
		switch model.Sentiment(s.Sentiment) {
		case model.SentimentBullish, model.SentimentBearish, model.SentimentNeutral:
		default:
			return nil, fmt.Errorf("news catalog entry %d: unknown sentiment %q", i, s.Sentiment)
		}
	}
	return seeds, nil
}
