package negotiation

import (
	"math/rand"

	"github.com/talgya/shopfront/internal/catalog"
	"github.com/talgya/shopfront/internal/customer"
	"github.com/talgya/shopfront/internal/market"
)

// Phase is the negotiation machine's current stage.
type Phase string

const (
	PhaseIntro          Phase = "intro"
	PhaseNegotiation    Phase = "negotiation"
	PhaseRefundDecision Phase = "refund_decision"
	PhaseThiefChase     Phase = "thief_chase"
	PhaseResult         Phase = "result"
)

// ResultKind is the terminal outcome of a negotiation.
type ResultKind string

const (
	ResultNone           ResultKind = ""
	ResultSold           ResultKind = "sold"
	ResultLost           ResultKind = "lost"
	ResultRefunded       ResultKind = "refunded"
	ResultTheftRecovered ResultKind = "theft_recovered"
	ResultTheftLost      ResultKind = "theft_lost"
)

// State is the full negotiation state for one customer. It is a value; the
// reducer returns an updated copy alongside the effects to execute.
type State struct {
	Phase    Phase             `json:"phase"`
	Customer *customer.Card    `json:"customer"`
	Event    catalog.GameEvent `json:"event"`

	Product      *catalog.Product `json:"product,omitempty"`
	CurrentPrice int              `json:"current_price"`

	Interest  int `json:"interest"` // [0, 100]
	Patience  int `json:"patience"` // ≥ 0
	TurnCount int `json:"turn_count"`

	// Seq identifies the oracle turn currently in flight. A reply carrying
	// an older seq — or arriving after the phase closed — is discarded.
	Seq            int  `json:"seq"`
	AwaitingOracle bool `json:"awaiting_oracle"`

	History []Message    `json:"history"`
	Hand    []ActionCard `json:"hand,omitempty"`

	Result ResultKind `json:"result"`

	// lastTurnWasCard gates follow-up hand dealing: only card turns answered
	// with "ongoing" deal a new hand.
	lastTurnWasCard bool
}

// NewState opens a negotiation with a customer. A returning customer is
// reclassified to browsing when the session has no sales at all — there is
// nothing that could be refunded. This is the only mutation a card ever sees.
func NewState(card *customer.Card, event catalog.GameEvent, sessionTotalSales int) State {
	if card.Intent == customer.IntentReturning && sessionTotalSales == 0 {
		card.Intent = customer.IntentBrowsing
	}

	phase := PhaseIntro
	if card.Intent == customer.IntentReturning {
		phase = PhaseRefundDecision
	}

	return State{
		Phase:    phase,
		Customer: card,
		Event:    event,
		Interest: card.BaseInterest,
		Patience: card.BasePatience,
		History:  []Message{{Sender: "customer", Text: card.Opening}},
	}
}

// Closed reports whether the negotiation reached its terminal phase.
func (s State) Closed() bool {
	return s.Phase == PhaseResult
}

// Machine reduces negotiation states. It carries the random source for the
// thief-chase roll and hand dealing, and the market config for the refund
// amount and price-parse bound.
type Machine struct {
	rng *rand.Rand
	cfg market.Config
}

// NewMachine creates a negotiation machine.
func NewMachine(rng *rand.Rand, cfg market.Config) *Machine {
	return &Machine{rng: rng, cfg: cfg}
}

func clampInterest(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
