package market

import (
	"math/rand"

	"github.com/talgya/shopfront/internal/catalog"
	"github.com/talgya/shopfront/internal/entropy"
)

// FluctuationKind is the direction of a market fluctuation.
type FluctuationKind string

const (
	KindSurge FluctuationKind = "surge"
	KindCrash FluctuationKind = "crash"
)

// Fluctuation is the single ephemeral market shock. At most one is active;
// a new roll overwrites it and a round reset clears it.
type Fluctuation struct {
	Category catalog.Category `json:"category"`
	Kind     FluctuationKind  `json:"kind"`
	Modifier float64          `json:"modifier"` // Multiplicative cost factor, always > 0
	Reason   string           `json:"reason"`
}

// Roller rolls fluctuations at round start and on the host's manual trigger.
// The probability gate draws from the entropy source (true randomness when a
// random.org key is configured); the shape of the fluctuation draws from the
// seeded rng so replicas replay identically once told the outcome.
type Roller struct {
	rng *rand.Rand
	ent *entropy.Client
	cfg Config
}

// NewRoller creates a fluctuation roller.
func NewRoller(rng *rand.Rand, ent *entropy.Client, cfg Config) *Roller {
	return &Roller{rng: rng, ent: ent, cfg: cfg}
}

// Roll produces a new fluctuation, or nil when the probability gate says the
// market stays calm. force bypasses the gate — a host-triggered event always
// lands.
func (r *Roller) Roll(event catalog.GameEvent, force bool) *Fluctuation {
	if !force && entropy.FloatFromSource(r.ent) > r.cfg.FluctuationChance {
		return nil
	}

	kind := KindSurge
	if r.rng.Float64() < 0.5 {
		kind = KindCrash
	}

	// Prefer a category the event already has in motion.
	var cat catalog.Category
	if len(event.BoostedCategories) > 0 {
		cat = event.BoostedCategories[r.rng.Intn(len(event.BoostedCategories))]
	} else {
		cat = catalog.AllCategories[r.rng.Intn(len(catalog.AllCategories))]
	}

	var modifier float64
	var reason string
	switch kind {
	case KindCrash:
		modifier = 0.6 + r.rng.Float64()*0.2 // 0.6–0.8× cost
		reason = crashReasons[r.rng.Intn(len(crashReasons))]
	default:
		modifier = 1.2 + r.rng.Float64()*0.4 // 1.2–1.6× cost
		reason = surgeReasons[r.rng.Intn(len(surgeReasons))]
	}

	return &Fluctuation{
		Category: cat,
		Kind:     kind,
		Modifier: modifier,
		Reason:   reason,
	}
}

var surgeReasons = []string{
	"A supplier warehouse fire chokes deliveries",
	"A viral unboxing video empties wholesalers overnight",
	"Port congestion delays every inbound container",
	"A celebrity endorsement triples wholesale orders",
	"Panic buying sweeps the wholesale district",
	"A customs dispute holds imports at the border",
}

var crashReasons = []string{
	"A mega-warehouse dumps overstock at clearance rates",
	"A cancelled export order floods the local market",
	"New factory capacity comes online ahead of schedule",
	"A rival chain liquidates its entire inventory",
	"Suppliers race to clear last season's stock",
	"A bumper import shipment arrives two weeks early",
}
