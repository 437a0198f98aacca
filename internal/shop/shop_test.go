package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shopfront/internal/catalog"
)

var (
	lamp = catalog.Product{ID: "lamp", Name: "Brass Lamp", Category: catalog.CategoryHome, BaseCost: 100, BasePrice: 150}
	soap = catalog.Product{ID: "soap", Name: "Pine Soap", Category: catalog.CategoryDaily, BaseCost: 5, BasePrice: 9}
)

func testShop(funds int) *State {
	return New("p1", "Rosa", "Rosa's Curios", funds)
}

func TestProcureGates(t *testing.T) {
	s := testShop(500)

	require.NoError(t, s.Procure(lamp, 3, 100, catalog.DefaultTiers))
	assert.Equal(t, 200, s.Funds)
	assert.Equal(t, 300, s.RoundCosts)
	assert.Equal(t, 3, s.TotalStock())

	err := s.Procure(lamp, 5, 100, catalog.DefaultTiers)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 200, s.Funds, "rejected procurement must not mutate")

	// Tier 1 warehouse caps at 20 units.
	err = s.Procure(soap, 18, 1, catalog.DefaultTiers)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 3, s.TotalStock())
}

func TestStockConservation(t *testing.T) {
	s := testShop(1000)
	require.NoError(t, s.Procure(lamp, 5, 100, catalog.DefaultTiers))
	before := s.TotalStock()

	require.NoError(t, s.ApplySale("lamp", 150, 2))
	require.NoError(t, s.ApplyTheft("lamp"))
	assert.Equal(t, before-2-1, s.TotalStock())

	// Overselling the remaining 2 must fail without mutation.
	err := s.ApplySale("lamp", 150, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, s.TotalStock())

	require.NoError(t, s.ApplySale("lamp", 150, 2))
	assert.Equal(t, 0, s.TotalStock())
	assert.ErrorIs(t, s.ApplyTheft("lamp"), ErrInsufficientStock)
}

func TestSaleArithmetic(t *testing.T) {
	s := testShop(1000)
	require.NoError(t, s.Procure(lamp, 5, 100, catalog.DefaultTiers))
	fundsBefore := s.Funds

	require.NoError(t, s.ApplySale("lamp", 150, 2))
	assert.Equal(t, fundsBefore+300, s.Funds, "revenue is price × qty")
	assert.Equal(t, 100, s.RoundProfit, "profit is (price − baseCost) × qty")
	assert.Equal(t, 52, s.Reputation)

	tally := s.RoundSales["lamp"]
	assert.Equal(t, 100, tally.Profit)
	assert.Equal(t, 2, tally.Quantity)
}

func TestTheftBooksLoss(t *testing.T) {
	s := testShop(1000)
	require.NoError(t, s.Procure(lamp, 2, 100, catalog.DefaultTiers))
	costsBefore := s.RoundCosts

	require.NoError(t, s.ApplyTheft("lamp"))
	assert.Equal(t, -100, s.RoundProfit, "stolen item's base cost is pure loss")
	assert.Equal(t, costsBefore+100, s.RoundCosts)
}

func TestReputationBounds(t *testing.T) {
	s := testShop(100000)
	require.NoError(t, s.Procure(soap, 20, 5, catalog.DefaultTiers))

	for i := 0; i < 40; i++ {
		s.AddReputation(7)
	}
	assert.Equal(t, 100, s.Reputation)

	for i := 0; i < 40; i++ {
		s.AddReputation(-15)
	}
	assert.Equal(t, 0, s.Reputation)

	s.ApplyRefund(50)
	assert.Equal(t, 5, s.Reputation)
}

func TestRefundFloorsFunds(t *testing.T) {
	s := testShop(30)
	s.ApplyRefund(50)
	assert.Equal(t, 0, s.Funds, "funds clamp at zero")
	assert.Equal(t, -50, s.RoundProfit)
}

func TestSettlementArithmetic(t *testing.T) {
	s := testShop(2000)
	// 12 units left on the shelf, 500 profit on the books.
	require.NoError(t, s.Procure(soap, 12, 5, catalog.DefaultTiers))
	s.RoundProfit = 500
	fundsBefore := s.Funds

	res := s.Settle(1.0)
	assert.Equal(t, 12, res.RemainingStock)
	assert.Equal(t, 12, res.StorageFee)
	assert.Equal(t, 488, res.NetProfit)
	assert.Equal(t, fundsBefore-12, s.Funds)
	assert.Equal(t, StatusSettling, s.Status)
	assert.Equal(t, CampaignNone, s.Campaign)
}

func TestSettlementIsIdempotent(t *testing.T) {
	s := testShop(2000)
	require.NoError(t, s.Procure(soap, 12, 5, catalog.DefaultTiers))
	s.RoundProfit = 500

	first := s.Settle(1.0)
	fundsAfter := s.Funds
	second := s.Settle(1.0)

	assert.Equal(t, first, second, "re-settling returns the same figures")
	assert.Equal(t, fundsAfter, s.Funds, "storage fee must never double-charge")

	// A round start re-arms settlement.
	s.StartRound()
	assert.False(t, s.Settled())
	assert.Equal(t, 0, s.RoundProfit)
	assert.Equal(t, StatusProcurement, s.Status)
}

func TestStartRoundResetsSoldCounters(t *testing.T) {
	s := testShop(2000)
	require.NoError(t, s.Procure(lamp, 3, 100, catalog.DefaultTiers))
	require.NoError(t, s.ApplySale("lamp", 150, 1))

	s.StartRound()
	it, ok := s.Item("lamp")
	require.True(t, ok)
	assert.Equal(t, 0, it.Sold)
	assert.Equal(t, 2, it.Stock, "inventory carries forward")
	assert.Empty(t, s.RoundSales)
}

func TestUpgradeLadder(t *testing.T) {
	s := testShop(50)

	err := s.Upgrade(catalog.DefaultTiers, 1.0)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, 1, s.Level)

	s.Funds = 100000
	repBefore := s.Reputation
	for s.Level < catalog.MaxLevel(catalog.DefaultTiers) {
		require.NoError(t, s.Upgrade(catalog.DefaultTiers, 1.0))
	}
	assert.Equal(t, ErrMaxTier, s.Upgrade(catalog.DefaultTiers, 1.0))
	assert.Greater(t, s.Reputation, repBefore, "each upgrade grants reputation")
}

func TestUpgradeCostMultiplierRoundsUp(t *testing.T) {
	s := testShop(100000)
	next, ok := catalog.TierForLevel(catalog.DefaultTiers, 2)
	require.True(t, ok)
	fundsBefore := s.Funds

	require.NoError(t, s.Upgrade(catalog.DefaultTiers, 1.5))
	want := fundsBefore - (next.UpgradeCost*3+1)/2 // ceil(cost × 1.5)
	assert.Equal(t, want, s.Funds)
}

func TestCampaignPurchase(t *testing.T) {
	s := testShop(100)
	assert.ErrorIs(t, s.BuyCampaign(CampaignInfluencer), ErrInsufficientFunds)

	require.NoError(t, s.BuyCampaign(CampaignFlyer))
	assert.Equal(t, CampaignFlyer, s.Campaign)
	assert.Equal(t, 20, s.Funds)
}

func TestOutOfStockMovesToWaiting(t *testing.T) {
	s := testShop(1000)
	require.NoError(t, s.Procure(lamp, 1, 100, catalog.DefaultTiers))
	s.Open()
	require.Equal(t, StatusOpen, s.Status)

	require.NoError(t, s.ApplySale("lamp", 150, 1))
	assert.Equal(t, StatusWaiting, s.Status)
}
