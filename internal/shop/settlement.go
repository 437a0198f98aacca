// Round settlement — converts per-sale events plus storage costs into
// updated shop finances, and resets the per-round state for the next round.
package shop

import (
	"math"

	"github.com/talgya/shopfront/internal/catalog"
)

// SettlementResult is the per-shop breakdown shown on the big screen.
type SettlementResult struct {
	RemainingStock int                     `json:"remaining_stock"`
	StorageFee     int                     `json:"storage_fee"`
	GrossProfit    int                     `json:"gross_profit"`
	NetProfit      int                     `json:"net_profit"`
	Sales          map[string]ProductTally `json:"sales"`
}

// Settle closes the round: charges the storage fee on remaining stock and
// freezes the round figures. Calling it a second time before StartRound is a
// no-op returning the same figures — settlement must never double-charge.
func (s *State) Settle(storageFeeRate float64) SettlementResult {
	if s.settled {
		return s.lastSettlement()
	}
	s.settled = true

	remaining := s.TotalStock()
	fee := int(math.Floor(float64(remaining) * storageFeeRate))

	s.Funds -= fee
	if s.Funds < 0 {
		s.Funds = 0
	}
	s.TotalProfit -= fee

	s.LastTurnProfit = s.RoundProfit - fee
	s.LastTurnCosts = s.RoundCosts + fee
	s.Status = StatusSettling
	s.Campaign = CampaignNone

	return s.lastSettlement()
}

// Settled reports whether this round has been settled already.
func (s *State) Settled() bool {
	return s.settled
}

func (s *State) lastSettlement() SettlementResult {
	sales := make(map[string]ProductTally, len(s.RoundSales))
	for id, t := range s.RoundSales {
		sales[id] = t
	}
	return SettlementResult{
		RemainingStock: s.TotalStock(),
		StorageFee:     s.LastTurnCosts - s.RoundCosts,
		GrossProfit:    s.RoundProfit,
		NetProfit:      s.LastTurnProfit,
		Sales:          sales,
	}
}

// StartRound transitions into the next round's procurement phase, carrying
// forward funds, inventory, reputation, and level; per-round counters reset.
func (s *State) StartRound() {
	s.RoundProfit = 0
	s.RoundCosts = 0
	s.RoundSales = make(map[string]ProductTally)
	s.ProcessedCustomers = 0
	s.Campaign = CampaignNone
	s.Status = StatusProcurement
	s.settled = false
	for _, it := range s.Inventory {
		it.Sold = 0
	}
}

// Open flips the shop into the serving phase once the round timer starts.
func (s *State) Open() {
	if s.TotalStock() == 0 {
		s.Status = StatusWaiting
		return
	}
	s.Status = StatusOpen
}

// Upgrade advances the shop one tier, consuming ceil(upgradeCost × multiplier)
// funds and granting +10 reputation. Rejected without mutation when funds are
// short or the ladder is exhausted. Irreversible.
func (s *State) Upgrade(tiers []catalog.ShopTier, multiplier float64) error {
	next, ok := catalog.TierForLevel(tiers, s.Level+1)
	if !ok {
		return ErrMaxTier
	}
	cost := int(math.Ceil(float64(next.UpgradeCost) * multiplier))
	if cost > s.Funds {
		return ErrInsufficientFunds
	}

	s.Funds -= cost
	s.Level++
	s.AddReputation(10)
	return nil
}
