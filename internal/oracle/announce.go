package oracle

import (
	"fmt"
	"log/slog"
	"time"
)

const announceAttempts = 3

// Overridable for tests; backoff doubles from this base per failed attempt.
var announceBackoff = 500 * time.Millisecond

const announceSystem = `You are the town crier of a bustling market street. Rewrite the
given announcement as one short, colorful line (under 25 words). Respond with
the line only — no quotes, no preamble.`

// Announce dresses up a game announcement and delivers it. Fire-and-forget:
// after three failed attempts with doubling backoff the announcement is
// dropped with a log line. Callers run this in a goroutine.
func (c *Client) Announce(text, audience string) string {
	if !c.Enabled() {
		return text
	}

	prompt := fmt.Sprintf("Audience: %s.\nAnnouncement: %s", audience, text)

	delay := announceBackoff
	var lastErr error
	for attempt := 1; attempt <= announceAttempts; attempt++ {
		line, err := c.Complete(announceSystem, prompt, 100)
		if err == nil && line != "" {
			return line
		}
		lastErr = err
		if attempt < announceAttempts {
			time.Sleep(delay)
			delay *= 2
		}
	}

	slog.Warn("announcement dropped after retries",
		"attempts", announceAttempts,
		"error", lastErr,
	)
	return text
}
