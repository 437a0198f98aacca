// Package market computes effective procurement costs from the active global
// event and at most one live fluctuation, and rolls new fluctuations at round
// boundaries.
package market

import (
	"math"

	"github.com/talgya/shopfront/internal/catalog"
)

// Tag explains why an effective cost deviates from the base cost.
type Tag string

const (
	TagNone        Tag = ""
	TagSurge       Tag = "surge"        // Active fluctuation, price up
	TagCrash       Tag = "crash"        // Active fluctuation, price down
	TagSurgeDemand Tag = "surge_demand" // High demand tier from the global event
	TagCrashDemand Tag = "crash_demand" // Low demand tier from the global event
)

// DemandTier classifies a category under the active global event.
type DemandTier uint8

const (
	DemandLow DemandTier = iota
	DemandMedium
	DemandHigh
)

// Config holds the host-tunable market parameters.
type Config struct {
	HotItemSurcharge      float64 `json:"hot_item_surcharge"`
	ColdItemDiscount      float64 `json:"cold_item_discount"`
	FluctuationChance     float64 `json:"fluctuation_chance"`
	StorageFeeRate        float64 `json:"storage_fee_rate"`
	UpgradeCostMultiplier float64 `json:"upgrade_cost_multiplier"`
	RefundAmount          int     `json:"refund_amount"`
	PriceParseBound       int     `json:"price_parse_bound"` // Free-text price override rejected at bound × base price
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		HotItemSurcharge:      0.2,
		ColdItemDiscount:      0.2,
		FluctuationChance:     0.7,
		StorageFeeRate:        1.0,
		UpgradeCostMultiplier: 1.0,
		RefundAmount:          50,
		PriceParseBound:       10,
	}
}

// DemandFor returns the demand tier of a category under the active event:
// high if boosted, medium if a non-boosted staple, low otherwise.
func DemandFor(c catalog.Category, event catalog.GameEvent) DemandTier {
	if event.Boosts(c) {
		return DemandHigh
	}
	if c.IsStaple() {
		return DemandMedium
	}
	return DemandLow
}

// EffectiveCost computes the procurement cost of a product. An active
// fluctuation on the product's category takes priority over the demand tier;
// the two never stack. The result is clamped to a minimum of 1.
func EffectiveCost(p catalog.Product, event catalog.GameEvent, fluct *Fluctuation, cfg Config) (int, Tag) {
	if fluct != nil && fluct.Category == p.Category {
		cost := int(math.Floor(float64(p.BaseCost) * fluct.Modifier))
		return clampCost(cost), Tag(fluct.Kind)
	}

	switch DemandFor(p.Category, event) {
	case DemandHigh:
		cost := int(math.Ceil(float64(p.BaseCost) * (1 + cfg.HotItemSurcharge)))
		return clampCost(cost), TagSurgeDemand
	case DemandLow:
		cost := int(math.Floor(float64(p.BaseCost) * (1 - cfg.ColdItemDiscount)))
		return clampCost(cost), TagCrashDemand
	default:
		return clampCost(p.BaseCost), TagNone
	}
}

func clampCost(c int) int {
	if c < 1 {
		return 1
	}
	return c
}
