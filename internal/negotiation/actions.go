// Package negotiation implements the per-customer interaction as a pure
// reducer: (State, Action) -> (State, []Effect). The machine itself is
// synchronous; oracle calls and state mutations are emitted as effects for
// the session layer to execute.
package negotiation

import "github.com/talgya/shopfront/internal/catalog"

// Action is one input to the reducer — a shop-owner move, an oracle reply,
// or the round-timer pre-emption.
type Action interface{ isAction() }

// SelectProduct offers a product to the customer, ending the intro phase.
type SelectProduct struct {
	Product catalog.Product
}

// SendCard plays a pre-scripted persuasion card as a negotiation turn.
type SendCard struct {
	Card ActionCard
}

// SendText sends free-form text as a negotiation turn. A parseable positive
// integer below the configured bound overrides the current price.
type SendText struct {
	Text string
}

// ApplyDiscount cuts the current price by a fixed percentage and forwards
// the new price as a turn.
type ApplyDiscount struct {
	Percent int
}

// DirectDeal proposes closing at the current price. Resolved by the
// deterministic rule, never the oracle.
type DirectDeal struct{}

// GiveUp walks away from the customer. Valid in any non-terminal phase.
type GiveUp struct{}

// OracleReply delivers the oracle's answer to an in-flight turn. Seq ties
// the reply to the turn that issued it; stale replies are ignored.
type OracleReply struct {
	Seq       int
	Text      string
	Outcome   TurnOutcome
	MoodScore int
	Failed    bool // Oracle error or timeout — apply the neutral fallback
}

// GrantRefund and RefuseRefund are the two terminal moves of the refund
// sub-flow for returning customers.
type GrantRefund struct{}
type RefuseRefund struct{}

// CallPolice and LetGo are the two terminal moves of the thief chase.
type CallPolice struct{}
type LetGo struct{}

// Timeout is the round timer hitting zero: the negotiation closes
// immediately and any in-flight oracle reply is discarded on arrival.
type Timeout struct{}

func (SelectProduct) isAction() {}
func (SendCard) isAction()      {}
func (SendText) isAction()      {}
func (ApplyDiscount) isAction() {}
func (DirectDeal) isAction()    {}
func (GiveUp) isAction()        {}
func (OracleReply) isAction()   {}
func (GrantRefund) isAction()   {}
func (RefuseRefund) isAction()  {}
func (CallPolice) isAction()    {}
func (LetGo) isAction()         {}
func (Timeout) isAction()       {}

// TurnOutcome is the oracle's verdict on a negotiation turn.
type TurnOutcome string

const (
	OutcomeOngoing TurnOutcome = "ongoing"
	OutcomeDeal    TurnOutcome = "deal"
	OutcomeLeave   TurnOutcome = "leave"
)

// Effect is a side effect the session layer must execute after a reduction.
type Effect interface{ isEffect() }

// CallOracle asks the customer oracle for the next dialogue turn.
type CallOracle struct {
	Seq          int
	History      []Message
	ProductName  string
	CurrentPrice int
	TurnCount    int
	InternalMax  int
}

// Sale books a completed sale on the shop.
type Sale struct {
	ProductID string
	Price     int
	Quantity  int
}

// Theft removes a stolen unit and books its cost as loss.
type Theft struct {
	ProductID string
}

// Refund pays out a granted refund.
type Refund struct {
	Amount int
}

// ReputationDelta adjusts shop reputation (the shop clamps to [0, 100]).
type ReputationDelta struct {
	Delta int
}

// Log records a shop event line.
type Log struct {
	Text string
}

func (CallOracle) isEffect()      {}
func (Sale) isEffect()            {}
func (Theft) isEffect()           {}
func (Refund) isEffect()          {}
func (ReputationDelta) isEffect() {}
func (Log) isEffect()             {}

// Message is one entry of the negotiation transcript.
type Message struct {
	Sender string `json:"sender"` // "user" or "customer"
	Text   string `json:"text"`
}
