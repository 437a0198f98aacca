// Direct-deal resolution and free-text price parsing — the deterministic
// rules that bypass the oracle entirely.
package negotiation

import (
	"regexp"
	"strconv"

	"github.com/talgya/shopfront/internal/customer"
)

// DealDecision is the outcome of the deterministic direct-deal rule.
type DealDecision struct {
	Accepted         bool
	OverLimit        bool // Price exceeded the customer's hard ceiling
	RequiredInterest int  // Threshold the customer's interest was held to
}

// DecideDirectDeal applies the direct-deal rule. It is a pure function of
// its inputs: the same price, cost, willingness, interest, and trait always
// produce the same decision.
//
// The hard ceiling is baseCost × willingness, stretched 10% when interest is
// above 80. Below the ceiling, the price/cost ratio sets a required-interest
// ladder which the customer's trait then shifts.
func DecideDirectDeal(price, baseCost int, willingness float64, interest int, trait customer.Trait) DealDecision {
	internalMax := float64(baseCost) * willingness
	tolerance := 1.0
	if interest > 80 {
		tolerance = 1.1
	}

	if float64(price) > internalMax*tolerance {
		return DealDecision{OverLimit: true}
	}

	ratio := float64(price) / float64(baseCost)
	var required int
	switch {
	case ratio >= 3.0:
		required = 95
	case ratio >= 2.0:
		required = 80
	case ratio >= 1.5:
		required = 60
	case ratio >= 1.2:
		required = 40
	default:
		required = 10
	}

	switch trait {
	case customer.TraitSkeptical:
		required += 20
	case customer.TraitPriceSensitive:
		if ratio > 1.5 {
			required += 15
		}
	case customer.TraitImpulsive:
		required -= 15
	case customer.TraitQualityFirst:
		if ratio > 2.0 {
			required -= 10
		}
	}

	if required < 5 {
		required = 5
	}
	if required > 95 {
		required = 95
	}

	return DealDecision{
		Accepted:         interest >= required,
		RequiredInterest: required,
	}
}

var priceRe = regexp.MustCompile(`\d+`)

// ParsePriceOverride extracts a price override from free text: the first
// embedded positive integer, accepted only below bound × basePrice. Returns
// (0, false) when no valid override is present — the prior price stands.
// Decimals and negative numbers are ignored by construction.
func ParsePriceOverride(text string, basePrice, bound int) (int, bool) {
	m := priceRe.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil || n <= 0 {
		return 0, false
	}
	if n >= bound*basePrice {
		return 0, false
	}
	return n, true
}
