// Algorithmic customer generation — the fallback path that never blocks on
// the oracle. Intent, trait, preferences, and dialogue come from weighted
// draws and intent-conditioned templates.
package customer

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/talgya/shopfront/internal/catalog"
)

// Generator creates customer cards from a seeded random source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed + 300))}
}

// Generate produces one customer card. allowRefunds controls whether the
// returning intent can be drawn; when false its weight folds into consulting.
func (g *Generator) Generate(roundNumber int, event catalog.GameEvent, allowRefunds bool) *Card {
	intent := g.rollIntent(allowRefunds)
	trait := AllTraits[g.rng.Intn(len(AllTraits))]
	prefs := g.rollPreferences(event)

	card := &Card{
		ID:                  uuid.NewString(),
		Name:                g.generateName(),
		Avatar:              avatars[g.rng.Intn(len(avatars))],
		Trait:               trait,
		Intent:              intent,
		PreferredCategories: prefs,
		Willingness:         g.willingnessFor(trait),
		PurchaseQuantity:    1 + g.rng.Intn(2),
		BasePatience:        60 + g.rng.Intn(41), // 60–100
		BaseInterest:        40 + g.rng.Intn(31), // 40–70
	}
	card.Opening = g.openingFor(card)
	card.Reactions = reactionsFor(trait)
	return card
}

// rollIntent draws from the fixed weighted distribution:
// 25% buying, 50% consulting, 15% browsing, 5% returning, 5% thief.
func (g *Generator) rollIntent(allowRefunds bool) Intent {
	r := g.rng.Float64()
	switch {
	case r < 0.25:
		return IntentBuying
	case r < 0.75:
		return IntentConsulting
	case r < 0.90:
		return IntentBrowsing
	case r < 0.95:
		if allowRefunds {
			return IntentReturning
		}
		return IntentConsulting
	default:
		return IntentThief
	}
}

// rollPreferences builds the preferred-category set, tiered toward the
// event's boosted categories, then staples, then anything else. A secondary
// category is appended ~40% of the time. The result is deduplicated.
func (g *Generator) rollPreferences(event catalog.GameEvent) []catalog.Category {
	var prefs []catalog.Category

	boosted := event.BoostedCategories
	switch {
	case len(boosted) > 0 && g.rng.Float64() < 0.55:
		prefs = append(prefs, boosted...)
	case g.rng.Float64() < 0.30:
		if staple := g.pickCategory(func(c catalog.Category) bool {
			return c.IsStaple() && !event.Boosts(c)
		}); staple != "" {
			prefs = append(prefs, staple)
		}
	default:
		if other := g.pickCategory(func(c catalog.Category) bool {
			return !c.IsStaple() && !event.Boosts(c)
		}); other != "" {
			prefs = append(prefs, other)
		}
	}

	if g.rng.Float64() < 0.40 {
		prefs = append(prefs, catalog.AllCategories[g.rng.Intn(len(catalog.AllCategories))])
	}

	return dedupeCategories(prefs)
}

// pickCategory draws a uniform random category satisfying the predicate, or
// "" when none qualifies.
func (g *Generator) pickCategory(ok func(catalog.Category) bool) catalog.Category {
	var candidates []catalog.Category
	for _, c := range catalog.AllCategories {
		if ok(c) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return candidates[g.rng.Intn(len(candidates))]
}

// willingnessFor derives the max-price multiplier from the trait.
func (g *Generator) willingnessFor(t Trait) float64 {
	switch t {
	case TraitQualityFirst, TraitTrendFollower:
		return 1.3 + g.rng.Float64()*0.4 // ~1.5×, pays up for the right thing
	case TraitPriceSensitive:
		return 0.6 + g.rng.Float64()*0.2 // ~0.7×, bargain hunter
	default:
		return 0.9 + g.rng.Float64()*0.4
	}
}

func (g *Generator) openingFor(c *Card) string {
	switch c.Intent {
	case IntentBuying:
		want := "something good"
		if len(c.PreferredCategories) > 0 {
			want = string(c.PreferredCategories[g.rng.Intn(len(c.PreferredCategories))])
		}
		return fmt.Sprintf(buyingOpenings[g.rng.Intn(len(buyingOpenings))], want)
	case IntentBrowsing:
		return browsingOpenings[g.rng.Intn(len(browsingOpenings))]
	case IntentReturning:
		return returningOpenings[g.rng.Intn(len(returningOpenings))]
	case IntentThief:
		return thiefOpenings[g.rng.Intn(len(thiefOpenings))]
	default:
		return consultingOpenings[c.Trait][g.rng.Intn(len(consultingOpenings[c.Trait]))]
	}
}

func (g *Generator) generateName() string {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	return first + " " + last
}

func dedupeCategories(in []catalog.Category) []catalog.Category {
	seen := make(map[catalog.Category]bool, len(in))
	out := in[:0]
	for _, c := range in {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func reactionsFor(t Trait) Reactions {
	switch t {
	case TraitPriceSensitive:
		return Reactions{
			Expensive: "That's robbery! I've seen it for half that down the street.",
			Cheap:     "Now that's a price I can live with.",
			Flattery:  "Compliments don't lower the price, do they?",
			Logic:     "Fine, the numbers check out. Barely.",
			Angry:     "You're wasting my time and my money.",
			Happy:     "A fair deal at last!",
		}
	case TraitQualityFirst:
		return Reactions{
			Expensive: "Expensive, yes. But is it worth it?",
			Cheap:     "Cheap worries me. What's wrong with it?",
			Flattery:  "I appreciate a shopkeeper with taste.",
			Logic:     "Good. Tell me more about the craftsmanship.",
			Angry:     "I expected better from this establishment.",
			Happy:     "Quality speaks for itself.",
		}
	case TraitImpulsive:
		return Reactions{
			Expensive: "Ooh, pricey... but I kind of want it anyway.",
			Cheap:     "At that price I'll take two!",
			Flattery:  "Stop it, you're going to make me buy everything.",
			Logic:     "Yeah yeah, sure, does it come in red?",
			Angry:     "Ugh, mood killed. I'm out.",
			Happy:     "Yes! Wrap it up before I change my mind!",
		}
	case TraitSkeptical:
		return Reactions{
			Expensive: "And what exactly justifies that number?",
			Cheap:     "Suspiciously cheap. What aren't you telling me?",
			Flattery:  "Flattery. How original.",
			Logic:     "Hmm. That's... actually a fair point.",
			Angry:     "I knew this place couldn't be trusted.",
			Happy:     "Against my better judgment, I'm satisfied.",
		}
	default: // trend_follower
		return Reactions{
			Expensive: "Worth it if everyone's buying one, I guess?",
			Cheap:     "Wait, it's cheap? Is it still cool?",
			Flattery:  "You really think it suits me?",
			Logic:     "My feed says the same thing, honestly.",
			Angry:     "I'm posting about this. One star.",
			Happy:     "Everyone is going to be so jealous!",
		}
	}
}

// Dialogue template pools. Buying templates take the wanted category.
var buyingOpenings = []string{
	"I need %s, today, right now. What have you got?",
	"No time to browse — show me your best %s!",
	"I'm here for %s and I'm not leaving without it.",
}

var browsingOpenings = []string{
	"Just looking around, don't mind me.",
	"No need for help, I'm only browsing.",
	"I'm fine on my own, thanks. Just passing time.",
}

var returningOpenings = []string{
	"I bought something here and I want my money back.",
	"This didn't work out. I'd like a refund, please.",
	"I'm returning a purchase. Can we sort out the refund?",
}

var thiefOpenings = []string{
	"Nice place... say, where do you keep the really valuable stuff?",
	"That display case in the back — is it alarmed?",
	"Quiet in here today, huh? Just you minding the till?",
}

var consultingOpenings = map[Trait][]string{
	TraitPriceSensitive: {
		"What's the best deal you've got today?",
		"Talk to me about discounts before anything else.",
	},
	TraitQualityFirst: {
		"I'm after something that will last. What do you recommend?",
		"Show me your finest, not your cheapest.",
	},
	TraitImpulsive: {
		"Surprise me! What's fun in here?",
		"I wasn't planning to buy anything, but convince me.",
	},
	TraitSkeptical: {
		"Everyone says this shop is good. Prove it.",
		"I have questions. A lot of questions.",
	},
	TraitTrendFollower: {
		"What's everyone buying this week?",
		"I saw this shop online — what's the thing to get?",
	},
}

// Name and avatar pools for procedural generation.
var firstNames = []string{
	"Mabel", "Oscar", "Priya", "Hugo", "Nadia", "Felix", "Greta", "Idris",
	"Lena", "Marco", "Yuki", "Tomas", "Amara", "Boris", "Celia", "Dmitri",
	"Esther", "Farid", "Gwen", "Henrik", "Ines", "Jonah", "Keiko", "Lars",
	"Mona", "Nico", "Opal", "Pablo", "Quinn", "Rosa", "Sven", "Talia",
}

var lastNames = []string{
	"Albright", "Baranov", "Castellano", "Duarte", "Eriksen", "Fontaine",
	"Grimaldi", "Huang", "Iwata", "Jansen", "Kowalski", "Lindqvist",
	"Moreau", "Novak", "Okafor", "Petrova", "Quintero", "Rossi",
	"Svensson", "Takahashi", "Ueda", "Vargas", "Whitfield", "Xu",
	"Yamamoto", "Zielinski",
}

var avatars = []string{
	"🧑", "👩", "👨", "🧓", "👵", "👴", "👱", "🧔", "👩‍🦰", "👨‍🦱",
	"👩‍🦳", "👨‍🦲", "🧕", "👲", "👸", "🤵",
}
