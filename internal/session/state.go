// Package session owns the authoritative game loop for one room: the round
// engine, the shared customer pool, per-player shops and negotiations, and
// the snapshot broadcast. Single authoritative distributor; replicated
// snapshots are last-writer-wins per field.
package session

import (
	"github.com/talgya/shopfront/internal/catalog"
	"github.com/talgya/shopfront/internal/market"
	"github.com/talgya/shopfront/internal/shop"
)

// recentEventCap bounds the announcement ring buffer.
const recentEventCap = 20

// PlayerSnapshot is a shop's public state as broadcast to every participant.
// Log lines are stripped; only board-visible figures travel.
type PlayerSnapshot struct {
	PlayerID           string        `json:"player_id"`
	PlayerName         string        `json:"player_name"`
	ShopName           string        `json:"shop_name"`
	ShopLogo           string        `json:"shop_logo"`
	Funds              int           `json:"funds"`
	Reputation         int           `json:"reputation"`
	Level              int           `json:"level"`
	Campaign           shop.Campaign `json:"campaign"`
	Status             shop.Status   `json:"status"`
	TotalProfit        int           `json:"total_profit"`
	LastTurnProfit     int           `json:"last_turn_profit"`
	ProcessedCustomers int           `json:"processed_customers"`
}

// snapshotOf projects the broadcast view of a shop.
func snapshotOf(s *shop.State) PlayerSnapshot {
	return PlayerSnapshot{
		PlayerID:           s.PlayerID,
		PlayerName:         s.PlayerName,
		ShopName:           s.ShopName,
		ShopLogo:           s.ShopLogo,
		Funds:              s.Funds,
		Reputation:         s.Reputation,
		Level:              s.Level,
		Campaign:           s.Campaign,
		Status:             s.Status,
		TotalProfit:        s.TotalProfit,
		LastTurnProfit:     s.LastTurnProfit,
		ProcessedCustomers: s.ProcessedCustomers,
	}
}

// GameState is the host's full-state broadcast payload.
type GameState struct {
	RoomCode    string              `json:"room_code"`
	Started     bool                `json:"started"`
	Running     bool                `json:"running"`
	Round       int                 `json:"round"`
	TimeLeft    int                 `json:"time_left"`
	Event       catalog.GameEvent   `json:"event"`
	Fluctuation *market.Fluctuation `json:"fluctuation,omitempty"`
	Market      market.Config       `json:"market"`
	Players     []PlayerSnapshot    `json:"players"`

	// RecentEvents is a bounded ring of announcement lines, most recent first.
	RecentEvents []string `json:"recent_events"`
}

// PushEvent prepends an announcement line, trimming the ring to its cap.
func (g *GameState) PushEvent(line string) {
	g.RecentEvents = append([]string{line}, g.RecentEvents...)
	if len(g.RecentEvents) > recentEventCap {
		g.RecentEvents = g.RecentEvents[:recentEventCap]
	}
}
