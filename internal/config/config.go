// Package config loads runtime configuration from the environment, with an
// optional .env file for local development. All variables share the
// SHOPFRONT_ prefix.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/talgya/shopfront/internal/market"
)

// Config is the full runtime configuration.
type Config struct {
	Port     int    `default:"8080"`
	AdminKey string `split_words:"true"`

	AnthropicKey string `split_words:"true"`
	RandomOrgKey string `split_words:"true"`

	DBPath   string `envconfig:"DB_PATH" default:"shopfront.db"`
	RoomCode string `split_words:"true" default:"4271"`

	RoundSeconds      int    `split_words:"true" default:"180"`
	StartingFunds     int    `split_words:"true" default:"500"`
	CustomersPerRound int    `split_words:"true" default:"5"`
	AllowRefunds      bool   `split_words:"true" default:"true"`
	Bias              string `default:"random"`
	Seed              int64  `default:"0"`

	// Optional YAML catalog overrides; built-ins are used when empty.
	ProductsPath string `split_words:"true"`
	EventsPath   string `split_words:"true"`
	TiersPath    string `split_words:"true"`

	// Market tunables, defaulted to the standard rule set.
	HotItemSurcharge      float64 `split_words:"true" default:"0.2"`
	ColdItemDiscount      float64 `split_words:"true" default:"0.2"`
	FluctuationChance     float64 `split_words:"true" default:"0.7"`
	StorageFeeRate        float64 `split_words:"true" default:"1.0"`
	UpgradeCostMultiplier float64 `split_words:"true" default:"1.0"`
	RefundAmount          int     `split_words:"true" default:"50"`
	PriceParseBound       int     `split_words:"true" default:"10"`
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("shopfront", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &cfg, nil
}

// Market assembles the market rule set from the tunables.
func (c *Config) Market() market.Config {
	return market.Config{
		HotItemSurcharge:      c.HotItemSurcharge,
		ColdItemDiscount:      c.ColdItemDiscount,
		FluctuationChance:     c.FluctuationChance,
		StorageFeeRate:        c.StorageFeeRate,
		UpgradeCostMultiplier: c.UpgradeCostMultiplier,
		RefundAmount:          c.RefundAmount,
		PriceParseBound:       c.PriceParseBound,
	}
}
