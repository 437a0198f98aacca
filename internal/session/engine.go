package session

import (
	"log/slog"
	"sync"
	"time"
)

// RoundEngine counts a round down one second at a time. OnTick fires every
// second with the remaining time; OnRoundEnd fires exactly once per round,
// when the timer hits zero or settlement is forced.
type RoundEngine struct {
	mu       sync.Mutex
	interval time.Duration
	left     int
	running  bool
	paused   bool
	forced   bool

	OnTick     func(secondsLeft int)
	OnRoundEnd func()
}

// NewRoundEngine creates a stopped engine with a 1-second tick.
func NewRoundEngine() *RoundEngine {
	return &RoundEngine{interval: time.Second}
}

// Start arms the countdown and runs it in a new goroutine. Starting an
// already-running engine is a no-op.
func (e *RoundEngine) Start(seconds int) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.left = seconds
	e.running = true
	e.paused = false
	e.forced = false
	e.mu.Unlock()

	slog.Info("round timer started", "seconds", seconds)
	go e.run()
}

func (e *RoundEngine) run() {
	for {
		time.Sleep(e.interval)

		e.mu.Lock()
		if !e.running {
			e.mu.Unlock()
			return
		}
		if e.paused && !e.forced {
			e.mu.Unlock()
			continue
		}
		if !e.forced {
			e.left--
		}
		left := e.left
		done := e.forced || left <= 0
		if done {
			e.running = false
		}
		e.mu.Unlock()

		if done {
			slog.Info("round timer ended", "forced", left > 0)
			if e.OnRoundEnd != nil {
				e.OnRoundEnd()
			}
			return
		}
		if e.OnTick != nil {
			e.OnTick(left)
		}
	}
}

// Force ends the round on the next tick regardless of time left.
func (e *RoundEngine) Force() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		e.forced = true
	}
}

// Pause freezes the countdown; Resume continues it.
func (e *RoundEngine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = true
}

func (e *RoundEngine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = false
}

// Stop halts the engine without firing OnRoundEnd.
func (e *RoundEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

// Running reports whether a countdown is in progress.
func (e *RoundEngine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// SecondsLeft returns the remaining round time.
func (e *RoundEngine) SecondsLeft() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.left
}
