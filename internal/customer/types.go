// Package customer provides the customer card model, the algorithmic
// generator, and the shared pool drawn down as rounds progress.
package customer

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/talgya/shopfront/internal/catalog"
)

// Trait is a customer's personality tag. It biases willingness and shifts
// the direct-deal interest thresholds.
type Trait string

const (
	TraitPriceSensitive Trait = "price_sensitive"
	TraitQualityFirst   Trait = "quality_first"
	TraitImpulsive      Trait = "impulsive"
	TraitSkeptical      Trait = "skeptical"
	TraitTrendFollower  Trait = "trend_follower"
)

// AllTraits lists every valid trait.
var AllTraits = []Trait{
	TraitPriceSensitive, TraitQualityFirst, TraitImpulsive,
	TraitSkeptical, TraitTrendFollower,
}

// Intent is what a customer walked in to do.
type Intent string

const (
	IntentBuying     Intent = "buying"
	IntentConsulting Intent = "consulting"
	IntentBrowsing   Intent = "browsing"
	IntentReturning  Intent = "returning"
	IntentThief      Intent = "thief"
)

// Reactions holds canned lines keyed by situation, used when the oracle is
// unavailable or for scripted sub-flows.
type Reactions struct {
	Expensive string `json:"expensive"`
	Cheap     string `json:"cheap"`
	Flattery  string `json:"flattery"`
	Logic     string `json:"logic"`
	Angry     string `json:"angry"`
	Happy     string `json:"happy"`
}

// Card is a generated negotiation counterpart. It is consumed exactly once by
// the negotiation machine and never mutated afterwards, except the narrow
// returning→browsing reclassification when the session has no sales history.
type Card struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Avatar string `json:"avatar"`

	Trait  Trait  `json:"trait" validate:"oneof=price_sensitive quality_first impulsive skeptical trend_follower"`
	Intent Intent `json:"intent" validate:"oneof=buying consulting browsing returning thief"`

	PreferredCategories []catalog.Category `json:"preferred_categories"`

	Willingness      float64 `json:"willingness" validate:"gt=0"` // Max acceptable price as a multiple of base cost
	PurchaseQuantity int     `json:"purchase_quantity" validate:"min=1"`
	BasePatience     int     `json:"base_patience" validate:"min=0,max=100"`
	BaseInterest     int     `json:"base_interest" validate:"min=0,max=100"`

	Opening   string    `json:"opening"`
	Reactions Reactions `json:"reactions"`
}

var validate = validator.New()

// Normalize coerces an externally produced card into the valid envelope:
// missing ids are minted, numeric fields clamped, unknown categories dropped.
// Oracle payload shapes are never trusted directly.
func (c *Card) Normalize() {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.PurchaseQuantity < 1 {
		c.PurchaseQuantity = 1
	}
	if c.PurchaseQuantity > 2 {
		c.PurchaseQuantity = 2
	}
	if c.Willingness <= 0 {
		c.Willingness = 1.0
	}
	c.BasePatience = clampInt(c.BasePatience, 0, 100)
	c.BaseInterest = clampInt(c.BaseInterest, 0, 100)

	valid := c.PreferredCategories[:0]
	for _, cat := range c.PreferredCategories {
		if cat.Valid() {
			valid = append(valid, cat)
		}
	}
	c.PreferredCategories = valid
}

// Validate checks the card against the trait/intent/category enumerations and
// numeric bounds. Cards failing validation must not enter the pool.
func (c *Card) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("customer card %q: %w", c.ID, err)
	}
	for _, cat := range c.PreferredCategories {
		if !cat.Valid() {
			return fmt.Errorf("customer card %q: unknown category %q", c.ID, cat)
		}
	}
	return nil
}

// Prefers reports whether the card's preferences include the category.
func (c *Card) Prefers(cat catalog.Category) bool {
	for _, p := range c.PreferredCategories {
		if p == cat {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
