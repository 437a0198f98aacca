package catalog

// ShopTier describes one step of the shop progression ladder.
// Levels are 1-based and strictly ordered; upgrading advances exactly one step.
type ShopTier struct {
	Level       int    `json:"level" yaml:"level"`
	Name        string `json:"name" yaml:"name"`
	MaxStock    int    `json:"max_stock" yaml:"max_stock"`
	UpgradeCost int    `json:"upgrade_cost" yaml:"upgrade_cost"` // Cost to reach this tier from the previous one
}

// DefaultTiers is the built-in progression ladder.
var DefaultTiers = []ShopTier{
	{Level: 1, Name: "Street Stall", MaxStock: 20, UpgradeCost: 0},
	{Level: 2, Name: "Corner Shop", MaxStock: 40, UpgradeCost: 500},
	{Level: 3, Name: "Boutique", MaxStock: 70, UpgradeCost: 1200},
	{Level: 4, Name: "Department Store", MaxStock: 110, UpgradeCost: 2500},
	{Level: 5, Name: "Flagship Emporium", MaxStock: 160, UpgradeCost: 5000},
}

// TierForLevel returns the tier config for a 1-based shop level.
func TierForLevel(tiers []ShopTier, level int) (ShopTier, bool) {
	for _, t := range tiers {
		if t.Level == level {
			return t, true
		}
	}
	return ShopTier{}, false
}

// MaxLevel returns the highest level in the ladder.
func MaxLevel(tiers []ShopTier) int {
	max := 0
	for _, t := range tiers {
		if t.Level > max {
			max = t.Level
		}
	}
	return max
}
