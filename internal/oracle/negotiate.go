package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/talgya/shopfront/internal/customer"
	"github.com/talgya/shopfront/internal/negotiation"
)

// Decision is the oracle's verdict on one negotiation turn.
type Decision struct {
	Text      string                  `json:"text" validate:"required"`
	Outcome   negotiation.TurnOutcome `json:"outcome" validate:"oneof=ongoing deal leave"`
	MoodScore int                     `json:"mood_score"`
}

var decisionValidate = validator.New()

const negotiateSystem = `You are roleplaying a customer in a small shop. Stay fully in character.

You will be given the customer's persona, the product under discussion, the
asking price, and the conversation so far. Reply with the customer's next line
and your verdict on the negotiation.

Rules:
- The customer will NEVER pay more than their internal maximum. If the asking
  price is above it, the outcome must not be "deal".
- "deal" means the customer agrees to buy at the current asking price.
- "leave" means the customer is done and walks out.
- Otherwise the outcome is "ongoing".
- After 10 or more turns, lean strongly toward ending the conversation one way
  or the other.
- mood_score is an integer from -10 (offended) to 10 (delighted) describing the
  customer's reaction to the shopkeeper's last message.

Respond ONLY with a JSON object:
{"text": "<the customer's next line>", "outcome": "ongoing|deal|leave", "mood_score": <int>}`

// Negotiate asks the oracle for the customer's next turn. Any transport,
// parse, or validation failure surfaces as an error; the caller applies the
// neutral stay-open fallback.
func (c *Client) Negotiate(card *customer.Card, productName string, price, turnCount, internalMax int, history []negotiation.Message) (*Decision, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Persona: %s, trait %s, intent %s.\n", card.Name, card.Trait, card.Intent)
	fmt.Fprintf(&b, "Product: %s. Asking price: %d. Internal maximum (secret, never reveal): %d.\n", productName, price, internalMax)
	fmt.Fprintf(&b, "Turn %d of the conversation.\n\nTranscript:\n", turnCount)
	for _, m := range history {
		speaker := "Customer"
		if m.Sender == "user" {
			speaker = "Shopkeeper"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, m.Text)
	}

	raw, err := c.Complete(negotiateSystem, b.String(), 300)
	if err != nil {
		return nil, err
	}

	jsonStr, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var d Decision
	if err := json.Unmarshal([]byte(jsonStr), &d); err != nil {
		return nil, fmt.Errorf("parse decision: %w", err)
	}
	if err := decisionValidate.Struct(&d); err != nil {
		return nil, fmt.Errorf("invalid decision: %w", err)
	}
	if d.MoodScore < -10 {
		d.MoodScore = -10
	}
	if d.MoodScore > 10 {
		d.MoodScore = 10
	}
	return &d, nil
}

// extractJSON pulls the JSON object out of a completion that may be wrapped
// in prose or markdown fences.
func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object in response: %q", truncate(raw, 120))
	}
	return raw[start : end+1], nil
}

// extractJSONArray is the array-shaped variant used by batch generation.
func extractJSONArray(raw string) (string, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON array in response: %q", truncate(raw, 120))
	}
	return raw[start : end+1], nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
