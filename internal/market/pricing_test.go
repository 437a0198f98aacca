package market

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shopfront/internal/catalog"
)

func boostedEvent(cats ...catalog.Category) catalog.GameEvent {
	return catalog.GameEvent{ID: "test_event", Name: "Test Event", BoostedCategories: cats}
}

func TestEffectiveCostHighDemand(t *testing.T) {
	p := catalog.Product{ID: "p1", Category: catalog.CategoryToys, BaseCost: 100}
	event := boostedEvent(catalog.CategoryToys)

	cost, tag := EffectiveCost(p, event, nil, DefaultConfig())
	assert.Equal(t, 120, cost, "high demand is ceil(base * 1.2)")
	assert.Equal(t, TagSurgeDemand, tag)
}

func TestEffectiveCostLowDemand(t *testing.T) {
	p := catalog.Product{ID: "p1", Category: catalog.CategoryToys, BaseCost: 100}
	event := boostedEvent(catalog.CategoryBooks)

	cost, tag := EffectiveCost(p, event, nil, DefaultConfig())
	assert.Equal(t, 80, cost, "low demand is floor(base * 0.8)")
	assert.Equal(t, TagCrashDemand, tag)
}

func TestEffectiveCostStapleStaysMedium(t *testing.T) {
	p := catalog.Product{ID: "p1", Category: catalog.CategoryFood, BaseCost: 100}
	event := boostedEvent(catalog.CategoryBooks)

	cost, tag := EffectiveCost(p, event, nil, DefaultConfig())
	assert.Equal(t, 100, cost, "non-boosted staples stay at base cost")
	assert.Equal(t, TagNone, tag)
}

func TestEffectiveCostFluctuationBeatsDemandTier(t *testing.T) {
	p := catalog.Product{ID: "p1", Category: catalog.CategoryToys, BaseCost: 100}
	event := boostedEvent(catalog.CategoryToys) // would be high demand
	fluct := &Fluctuation{Category: catalog.CategoryToys, Kind: KindCrash, Modifier: 0.7}

	cost, tag := EffectiveCost(p, event, fluct, DefaultConfig())
	assert.Equal(t, 70, cost, "fluctuation is floor(base * modifier), demand tier never stacks")
	assert.Equal(t, TagCrash, tag)
}

func TestEffectiveCostFluctuationOtherCategoryIgnored(t *testing.T) {
	p := catalog.Product{ID: "p1", Category: catalog.CategoryToys, BaseCost: 100}
	event := boostedEvent(catalog.CategoryToys)
	fluct := &Fluctuation{Category: catalog.CategoryBooks, Kind: KindCrash, Modifier: 0.7}

	cost, tag := EffectiveCost(p, event, fluct, DefaultConfig())
	assert.Equal(t, 120, cost)
	assert.Equal(t, TagSurgeDemand, tag)
}

func TestEffectiveCostFloor(t *testing.T) {
	cfg := DefaultConfig()
	event := boostedEvent(catalog.CategoryBooks)
	fluct := &Fluctuation{Category: catalog.CategoryToys, Kind: KindCrash, Modifier: 0.6}

	for _, base := range []int{1, 2, 3} {
		p := catalog.Product{ID: "p1", Category: catalog.CategoryToys, BaseCost: base}
		cost, _ := EffectiveCost(p, event, fluct, cfg)
		assert.GreaterOrEqual(t, cost, 1, "cost floor holds at base %d", base)

		cost, _ = EffectiveCost(p, boostedEvent(), nil, cfg)
		assert.GreaterOrEqual(t, cost, 1)
	}
}

func TestRollerForcedAlwaysLands(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	roller := NewRoller(rng, nil, DefaultConfig())
	event := boostedEvent(catalog.CategoryToys, catalog.CategoryBooks)

	for i := 0; i < 50; i++ {
		f := roller.Roll(event, true)
		require.NotNil(t, f, "forced roll must always produce a fluctuation")
		assert.Contains(t, event.BoostedCategories, f.Category,
			"fluctuation prefers a boosted category")
		assert.NotEmpty(t, f.Reason)

		switch f.Kind {
		case KindCrash:
			assert.GreaterOrEqual(t, f.Modifier, 0.6)
			assert.Less(t, f.Modifier, 0.8)
		case KindSurge:
			assert.GreaterOrEqual(t, f.Modifier, 1.2)
			assert.Less(t, f.Modifier, 1.6)
		default:
			t.Fatalf("unknown fluctuation kind %q", f.Kind)
		}
	}
}

func TestRollerNeverFiresAtZeroChance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FluctuationChance = 0
	roller := NewRoller(rand.New(rand.NewSource(7)), nil, cfg)

	for i := 0; i < 20; i++ {
		assert.Nil(t, roller.Roll(boostedEvent(catalog.CategoryToys), false))
	}
}
