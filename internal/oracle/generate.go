package oracle

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talgya/shopfront/internal/catalog"
	"github.com/talgya/shopfront/internal/customer"
)

// Bias skews a generated batch's difficulty.
type Bias string

const (
	BiasRandom Bias = "random"
	BiasEasy   Bias = "easy"
	BiasHard   Bias = "hard"
	BiasChaos  Bias = "chaos"
)

var biasHints = map[Bias]string{
	BiasRandom: "Mix personalities and intents naturally.",
	BiasEasy:   "Skew generous: higher willingness, more buying intent, patient customers.",
	BiasHard:   "Skew difficult: lower willingness, more skeptical and price-sensitive traits.",
	BiasChaos:  "Skew weird: more thieves, returners, and extreme personalities.",
}

const generateSystem = `You generate customer cards for a shop negotiation game.

Each card is a JSON object with fields:
  id (empty string), name, avatar (single emoji), trait (one of: price_sensitive,
  quality_first, impulsive, skeptical, trend_follower), intent (one of: buying,
  consulting, browsing, returning, thief), preferred_categories (1-2 of: food,
  daily, electronics, clothing, toys, beauty, sports, books, home, health,
  luxury, stationery, snacks, drinks), willingness (float, max price as a multiple
  of base cost, 0.6-1.8), purchase_quantity (1 or 2), base_patience (0-100),
  base_interest (0-100), opening (the customer's first line, in character),
  reactions (object with keys expensive, cheap, flattery, logic, angry, happy —
  one short in-character line each).

Respond ONLY with a JSON array of the requested number of card objects.`

// GenerateBatch asks the oracle for count customer cards. Best-effort:
// invalid entries are dropped and an empty slice on failure is a valid
// result — the pool backfills algorithmically.
func (c *Client) GenerateBatch(count, round int, event catalog.GameEvent, bias Bias) []*customer.Card {
	if !c.Enabled() || count <= 0 {
		return nil
	}

	hint, ok := biasHints[bias]
	if !ok {
		hint = biasHints[BiasRandom]
	}

	prompt := fmt.Sprintf(
		"Generate %d customer cards for round %d.\nToday's event: %s — %s (boosted categories: %s).\n%s",
		count, round, event.Name, event.Description,
		strings.Join(categoryNames(event.BoostedCategories), ", "), hint)

	raw, err := c.Complete(generateSystem, prompt, 4000)
	if err != nil {
		slog.Warn("customer batch generation failed", "error", err)
		return nil
	}

	jsonStr, err := extractJSONArray(raw)
	if err != nil {
		slog.Warn("customer batch parse failed", "error", err)
		return nil
	}

	var cards []*customer.Card
	if err := json.Unmarshal([]byte(jsonStr), &cards); err != nil {
		slog.Warn("customer batch unmarshal failed", "error", err)
		return nil
	}

	valid := cards[:0]
	for _, card := range cards {
		if card == nil {
			continue
		}
		card.Normalize()
		if err := card.Validate(); err != nil {
			slog.Warn("dropping invalid generated card", "error", err)
			continue
		}
		valid = append(valid, card)
	}
	return valid
}

func categoryNames(cats []catalog.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}
