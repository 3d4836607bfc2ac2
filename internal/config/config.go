package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Game struct {
		TicksPerDay  int     `yaml:"ticks_per_day"`
		StartingCash float64 `yaml:"starting_cash"`
		TradeFeeUSD  float64 `yaml:"trade_fee_usd"`
		Seed         int64   `yaml:"seed"`
	} `yaml:"game"`
	Pricing struct {
		HypeAmplifier   float64 `yaml:"hype_amplifier"`    // extra volatility per unit of hype
		HypeBias        float64 `yaml:"hype_bias"`         // directional drift per unit of hype
		LiquidityRefUSD float64 `yaml:"liquidity_ref_usd"` // dampener reference scale
		ShockDuration   int     `yaml:"shock_duration"`    // ticks a shock lingers
	} `yaml:"pricing"`
	Risk struct {
		MaxRugChance  float64 `yaml:"max_rug_chance"` // per-tick ceiling
		FlagThreshold float64 `yaml:"flag_threshold"` // risk score at which flagged is set
	} `yaml:"risk"`
	Social struct {
		FatigueFactor float64 `yaml:"fatigue_factor"` // multiplier per extra same-day post
		FakeDamping   float64 `yaml:"fake_damping"`   // multiplier per debunked fake by same actor
		CallHorizon   int     `yaml:"call_horizon"`   // default analysis-call horizon, ticks
	} `yaml:"social"`
	Catalog struct {
		AssetsPath string `yaml:"assets_path"`
		NewsPath   string `yaml:"news_path"`
	} `yaml:"catalog"`
	Schedule struct {
		TickCron string `yaml:"tick_cron"`
	} `yaml:"schedule"`
	Storage struct {
		SnapshotPath string `yaml:"snapshot_path"`
		SQLitePath   string `yaml:"sqlite_path"`
	} `yaml:"storage"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("GAME_SEED"); v != "" {
		var seed int64
		if _, err := fmt.Sscanf(v, "%d", &seed); err == nil {
			cfg.Game.Seed = seed
		}
	}
	if v := os.Getenv("STARTING_CASH"); v != "" {
		var cash float64
		if _, err := fmt.Sscanf(v, "%f", &cash); err == nil {
			cfg.Game.StartingCash = cash
		}
	}
	if v := os.Getenv("ASSETS_PATH"); v != "" {
		cfg.Catalog.AssetsPath = v
	}
	if v := os.Getenv("NEWS_PATH"); v != "" {
		cfg.Catalog.NewsPath = v
	}
	if v := os.Getenv("TICK_CRON"); v != "" {
		cfg.Schedule.TickCron = v
	}
	if v := os.Getenv("SNAPSHOT_PATH"); v != "" {
		cfg.Storage.SnapshotPath = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	// Defaults
	if cfg.Game.TicksPerDay == 0 {
		cfg.Game.TicksPerDay = 24
	}
	if cfg.Game.StartingCash == 0 {
		cfg.Game.StartingCash = 10000
	}
	if cfg.Game.TradeFeeUSD == 0 {
		cfg.Game.TradeFeeUSD = 2.0
	}
	if cfg.Game.Seed == 0 {
		cfg.Game.Seed = 1337
	}
	if cfg.Pricing.HypeAmplifier == 0 {
		cfg.Pricing.HypeAmplifier = 1.5
	}
	if cfg.Pricing.HypeBias == 0 {
		cfg.Pricing.HypeBias = 0.004
	}
	if cfg.Pricing.LiquidityRefUSD == 0 {
		cfg.Pricing.LiquidityRefUSD = 1_000_000
	}
	if cfg.Pricing.ShockDuration == 0 {
		cfg.Pricing.ShockDuration = 8
	}
	if cfg.Risk.MaxRugChance == 0 {
		cfg.Risk.MaxRugChance = 0.02
	}
	if cfg.Risk.FlagThreshold == 0 {
		cfg.Risk.FlagThreshold = 0.55
	}
	if cfg.Social.FatigueFactor == 0 {
		cfg.Social.FatigueFactor = 0.6
	}
	if cfg.Social.FakeDamping == 0 {
		cfg.Social.FakeDamping = 0.5
	}
	if cfg.Social.CallHorizon == 0 {
		cfg.Social.CallHorizon = 12
	}
	if cfg.Catalog.AssetsPath == "" {
		cfg.Catalog.AssetsPath = "data/assets.json"
	}
	if cfg.Catalog.NewsPath == "" {
		cfg.Catalog.NewsPath = "data/news.json"
	}
	if cfg.Schedule.TickCron == "" {
		cfg.Schedule.TickCron = "*/5 * * * * *"
	}
	if cfg.Storage.SnapshotPath == "" {
		cfg.Storage.SnapshotPath = "data/profile.json"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "data/rugtycoon.db"
	}

	return cfg, nil
}

// Validate checks that all tunables are in sane ranges.
func (c *Config) Validate() error {
	if c.Game.TicksPerDay <= 0 {
		return fmt.Errorf("game.ticks_per_day must be positive")
	}
	if c.Game.StartingCash <= 0 {
		return fmt.Errorf("game.starting_cash must be positive")
	}
	if c.Game.TradeFeeUSD < 0 {
		return fmt.Errorf("game.trade_fee_usd must not be negative")
	}
	if c.Risk.MaxRugChance < 0 || c.Risk.MaxRugChance > 1 {
		return fmt.Errorf("risk.max_rug_chance must be in [0,1]")
	}
	if c.Risk.FlagThreshold < 0 || c.Risk.FlagThreshold > 1 {
		return fmt.Errorf("risk.flag_threshold must be in [0,1]")
	}
	if c.Social.FatigueFactor <= 0 || c.Social.FatigueFactor >= 1 {
		return fmt.Errorf("social.fatigue_factor must be in (0,1)")
	}
	if c.Social.FakeDamping <= 0 || c.Social.FakeDamping >= 1 {
		return fmt.Errorf("social.fake_damping must be in (0,1)")
	}
	if c.Pricing.ShockDuration <= 0 {
		return fmt.Errorf("pricing.shock_duration must be positive")
	}
	if c.Catalog.AssetsPath == "" {
		return fmt.Errorf("catalog.assets_path is required")
	}
	return nil
}
