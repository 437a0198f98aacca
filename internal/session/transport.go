package session

import (
	"sync"

	"github.com/talgya/shopfront/internal/shop"
)

// Transport is the session-sync capability the host consumes. The wire layer
// itself lives outside this module; Loopback serves local-simulation mode.
type Transport interface {
	// BroadcastSnapshot pushes the full game state to every participant.
	BroadcastSnapshot(state GameState) error
	// SendShopState pushes one player's shop state to the host.
	SendShopState(playerID string, state *shop.State) error
	// Announce broadcasts a fire-and-forget announcement line.
	Announce(text string) error
}

// Loopback is the in-process Transport: it records what was sent so local
// mode and tests can observe the traffic. All methods are safe for
// concurrent use and never fail.
type Loopback struct {
	mu         sync.Mutex
	snapshots  []GameState
	shopPushes map[string]*shop.State
	announced  []string
}

// NewLoopback creates an empty loopback transport.
func NewLoopback() *Loopback {
	return &Loopback{shopPushes: make(map[string]*shop.State)}
}

func (l *Loopback) BroadcastSnapshot(state GameState) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snapshots = append(l.snapshots, state)
	return nil
}

func (l *Loopback) SendShopState(playerID string, state *shop.State) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.shopPushes[playerID] = state
	return nil
}

func (l *Loopback) Announce(text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.announced = append(l.announced, text)
	return nil
}

// LastSnapshot returns the most recent broadcast, if any.
func (l *Loopback) LastSnapshot() (GameState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.snapshots) == 0 {
		return GameState{}, false
	}
	return l.snapshots[len(l.snapshots)-1], true
}

// Announced returns a copy of every announcement sent so far.
func (l *Loopback) Announced() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.announced))
	copy(out, l.announced)
	return out
}
