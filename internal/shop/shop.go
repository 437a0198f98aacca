// Package shop holds the per-player shop state and the mutations the
// negotiation outcomes and round settlement apply to it.
package shop

import (
	"errors"
	"fmt"

	"github.com/talgya/shopfront/internal/catalog"
)

// Rejections surfaced at the point of action; no state mutates on any of them.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCapacityExceeded  = errors.New("warehouse capacity exceeded")
	ErrMaxTier           = errors.New("already at max tier")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnknownProduct    = errors.New("product not in inventory")
)

// Campaign is the active marketing campaign. It resets each round.
type Campaign string

const (
	CampaignNone       Campaign = "none"
	CampaignFlyer      Campaign = "flyer"
	CampaignInfluencer Campaign = "influencer"
)

// CampaignCost returns the price of buying a campaign.
func CampaignCost(c Campaign) int {
	switch c {
	case CampaignFlyer:
		return 80
	case CampaignInfluencer:
		return 200
	default:
		return 0
	}
}

// Status is the shop's phase within a round.
type Status string

const (
	StatusProcurement Status = "procurement" // Stocking up before the round opens
	StatusOpen        Status = "open"        // Serving queued customers
	StatusWaiting     Status = "waiting"     // Out of stock or out of customers
	StatusSettling    Status = "settling"    // Round over, awaiting the next one
)

// InventoryItem is a mutable copy of a catalog product with on-hand stock.
// Sold counts units sold this round and resets at round start.
type InventoryItem struct {
	Product catalog.Product `json:"product"`
	Stock   int             `json:"stock"`
	Sold    int             `json:"sold"`
}

// ProductTally accumulates per-product results for the settlement breakdown.
type ProductTally struct {
	Profit   int `json:"profit"`
	Quantity int `json:"quantity"`
}

// State is one player's complete shop state.
type State struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	ShopName   string `json:"shop_name"`
	ShopLogo   string `json:"shop_logo"`

	Funds      int              `json:"funds"`      // Clamped ≥ 0
	Inventory  []*InventoryItem `json:"inventory"`
	Reputation int              `json:"reputation"` // Bounded [0, 100]
	Campaign   Campaign         `json:"campaign"`
	Level      int              `json:"level"` // 1-based tier index

	TotalProfit int `json:"total_profit"` // Unbounded accumulator across rounds

	// Per-round transients, reset by StartRound.
	RoundProfit        int                     `json:"round_profit"`
	RoundCosts         int                     `json:"round_costs"`
	RoundSales         map[string]ProductTally `json:"round_sales"`
	ProcessedCustomers int                     `json:"processed_customers"`

	// Previous round's settled figures, shown on the standings board.
	LastTurnProfit int `json:"last_turn_profit"`
	LastTurnCosts  int `json:"last_turn_costs"`

	Status  Status   `json:"status"`
	Events  []string `json:"events"` // Recent shop log lines, bounded
	settled bool
}

// New creates a fresh shop for a player.
func New(playerID, playerName, shopName string, startingFunds int) *State {
	return &State{
		PlayerID:   playerID,
		PlayerName: playerName,
		ShopName:   shopName,
		Funds:      startingFunds,
		Reputation: 50,
		Campaign:   CampaignNone,
		Level:      1,
		RoundSales: make(map[string]ProductTally),
		Status:     StatusProcurement,
	}
}

// Item returns the inventory entry for a product id, if held.
func (s *State) Item(productID string) (*InventoryItem, bool) {
	for _, it := range s.Inventory {
		if it.Product.ID == productID {
			return it, true
		}
	}
	return nil, false
}

// TotalStock sums units on hand across the inventory.
func (s *State) TotalStock() int {
	total := 0
	for _, it := range s.Inventory {
		total += it.Stock
	}
	return total
}

// Procure buys qty units of a product at unitCost each. Rejected without
// mutation when funds are short or the tier's warehouse would overflow.
func (s *State) Procure(p catalog.Product, qty, unitCost int, tiers []catalog.ShopTier) error {
	if qty < 1 {
		return fmt.Errorf("procure %s: quantity must be positive", p.ID)
	}
	cost := unitCost * qty
	if cost > s.Funds {
		return fmt.Errorf("procure %s: %w", p.ID, ErrInsufficientFunds)
	}
	tier, ok := catalog.TierForLevel(tiers, s.Level)
	if ok && s.TotalStock()+qty > tier.MaxStock {
		return fmt.Errorf("procure %s: %w", p.ID, ErrCapacityExceeded)
	}

	s.Funds -= cost
	s.RoundCosts += cost
	if it, held := s.Item(p.ID); held {
		it.Stock += qty
	} else {
		s.Inventory = append(s.Inventory, &InventoryItem{Product: p, Stock: qty})
	}
	return nil
}

// BuyCampaign activates a marketing campaign for the current round.
func (s *State) BuyCampaign(c Campaign) error {
	cost := CampaignCost(c)
	if cost > s.Funds {
		return fmt.Errorf("campaign %s: %w", c, ErrInsufficientFunds)
	}
	s.Funds -= cost
	s.RoundCosts += cost
	s.Campaign = c
	return nil
}

// ApplySale books a completed sale: revenue in, stock out, reputation up.
// Fails without mutation when the sale would exceed available stock.
func (s *State) ApplySale(productID string, price, qty int) error {
	it, ok := s.Item(productID)
	if !ok {
		return fmt.Errorf("sale %s: %w", productID, ErrUnknownProduct)
	}
	if qty > it.Stock {
		return fmt.Errorf("sale %s: %w", productID, ErrInsufficientStock)
	}

	profit := (price - it.Product.BaseCost) * qty
	revenue := price * qty

	it.Stock -= qty
	it.Sold += qty
	s.Funds += revenue
	s.TotalProfit += profit
	s.RoundProfit += profit
	s.AddReputation(2)

	tally := s.RoundSales[productID]
	tally.Profit += profit
	tally.Quantity += qty
	s.RoundSales[productID] = tally

	s.checkStock()
	return nil
}

// ApplyTheft removes one unit of stock and books its base cost as pure loss.
func (s *State) ApplyTheft(productID string) error {
	it, ok := s.Item(productID)
	if !ok {
		return fmt.Errorf("theft %s: %w", productID, ErrUnknownProduct)
	}
	if it.Stock < 1 {
		return fmt.Errorf("theft %s: %w", productID, ErrInsufficientStock)
	}

	it.Stock--
	loss := it.Product.BaseCost
	s.TotalProfit -= loss
	s.RoundProfit -= loss
	s.RoundCosts += loss

	s.checkStock()
	return nil
}

// ApplyRefund settles a granted refund: funds out (floored at 0), goodwill up.
func (s *State) ApplyRefund(amount int) {
	s.Funds -= amount
	if s.Funds < 0 {
		s.Funds = 0
	}
	s.RoundProfit -= amount
	s.TotalProfit -= amount
	s.AddReputation(5)
}

// AddReputation adjusts reputation, clamped to [0, 100].
func (s *State) AddReputation(delta int) {
	s.Reputation += delta
	if s.Reputation > 100 {
		s.Reputation = 100
	}
	if s.Reputation < 0 {
		s.Reputation = 0
	}
}

// Log appends a shop event line, keeping the most recent 50.
func (s *State) Log(line string) {
	s.Events = append(s.Events, line)
	if len(s.Events) > 50 {
		s.Events = s.Events[len(s.Events)-50:]
	}
}

// checkStock transitions to waiting when the shelves are bare. Not an error,
// a terminal condition for the round.
func (s *State) checkStock() {
	if s.Status == StatusOpen && s.TotalStock() == 0 {
		s.Status = StatusWaiting
	}
}
