package customer

import (
	"sync"

	"github.com/talgya/shopfront/internal/catalog"
)

// Pool is the shared queue of generated cards, filled ahead of need by the
// oracle and drained by the single authoritative distributor. When the pool
// runs dry, Next falls back to the algorithmic generator so no shop ever
// blocks on oracle latency.
type Pool struct {
	mu    sync.Mutex
	queue []*Card
	seen  map[string]bool // ids ever accepted, popped or queued
	gen   *Generator
}

// NewPool creates a pool backed by the given fallback generator.
func NewPool(gen *Generator) *Pool {
	return &Pool{
		seen: make(map[string]bool),
		gen:  gen,
	}
}

// Fill appends cards to the pool. Cards are normalized and validated first;
// invalid or already-seen ids are dropped. Returns how many were accepted.
func (p *Pool) Fill(cards []*Card) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	accepted := 0
	for _, c := range cards {
		if c == nil {
			continue
		}
		c.Normalize()
		if err := c.Validate(); err != nil {
			continue
		}
		if p.seen[c.ID] {
			continue
		}
		p.seen[c.ID] = true
		p.queue = append(p.queue, c)
		accepted++
	}
	return accepted
}

// Next pops the oldest pooled card, or generates one on demand when the pool
// is empty.
func (p *Pool) Next(roundNumber int, event catalog.GameEvent, allowRefunds bool) *Card {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) > 0 {
		c := p.queue[0]
		p.queue = p.queue[1:]
		return c
	}

	c := p.gen.Generate(roundNumber, event, allowRefunds)
	p.seen[c.ID] = true
	return c
}

// Size returns the number of queued cards.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}
