// The reducer. Every shop-owner move, oracle reply, and the round-timer
// pre-emption flows through Reduce; terminal outcomes and state mutations
// leave as effects.
package negotiation

import (
	"fmt"

	"github.com/talgya/shopfront/internal/customer"
)

// Neutral line applied when the oracle fails or times out mid-turn. The
// negotiation stays open; no outcome is forced.
const stillThinkingLine = "Hmm... give me a moment to think about that."

// Reduce advances the negotiation by one action. Actions arriving after the
// terminal phase — or oracle replies for a superseded turn — are ignored.
func (m *Machine) Reduce(st State, action Action) (State, []Effect) {
	if st.Closed() {
		return st, nil
	}

	switch a := action.(type) {
	case GiveUp:
		return m.giveUp(st)
	case Timeout:
		return m.timeout(st)
	case SelectProduct:
		return m.selectProduct(st, a)
	case SendCard:
		return m.sendTurn(st, a.Card.Text, true)
	case SendText:
		return m.sendText(st, a)
	case ApplyDiscount:
		return m.applyDiscount(st, a)
	case DirectDeal:
		return m.directDeal(st)
	case OracleReply:
		return m.oracleReply(st, a)
	case GrantRefund:
		return m.grantRefund(st)
	case RefuseRefund:
		return m.refuseRefund(st)
	case CallPolice:
		return m.callPolice(st)
	case LetGo:
		return m.letGo(st)
	default:
		return st, nil
	}
}

// selectProduct offers a product, adjusting interest by how well its
// category matches the customer's preferences and the event's boosted set.
func (m *Machine) selectProduct(st State, a SelectProduct) (State, []Effect) {
	if st.Phase != PhaseIntro {
		return st, nil
	}

	p := a.Product
	st.Product = &p
	st.CurrentPrice = p.BasePrice

	adjust := 0
	if st.Customer.Prefers(p.Category) {
		adjust += 15
	}
	if st.Event.Boosts(p.Category) {
		adjust += 10
	}
	if adjust == 0 {
		adjust = -10
	}
	st.Interest = clampInterest(st.Interest + adjust)

	st.Phase = PhaseNegotiation
	st.Hand = dealOpeningHand(m.rng)

	return st, []Effect{Log{Text: fmt.Sprintf("offered %s to %s", p.Name, st.Customer.Name)}}
}

// sendText treats an embedded positive integer below the parse bound as a
// price override for this turn; anything else leaves the price untouched.
func (m *Machine) sendText(st State, a SendText) (State, []Effect) {
	if st.Phase == PhaseNegotiation && st.Product != nil && !st.AwaitingOracle {
		if price, ok := ParsePriceOverride(a.Text, st.Product.BasePrice, m.cfg.PriceParseBound); ok {
			st.CurrentPrice = price
		}
	}
	return m.sendTurn(st, a.Text, false)
}

// applyDiscount cuts the price by a fixed percentage and forwards it as a turn.
func (m *Machine) applyDiscount(st State, a ApplyDiscount) (State, []Effect) {
	if st.Phase != PhaseNegotiation || st.Product == nil {
		return st, nil
	}
	switch a.Percent {
	case 10, 20, 30, 50:
	default:
		return st, nil
	}

	st.CurrentPrice = st.CurrentPrice * (100 - a.Percent) / 100
	text := fmt.Sprintf("Tell you what — %d%% off, that brings it down to %d. How about it?",
		a.Percent, st.CurrentPrice)
	return m.sendTurn(st, text, false)
}

// sendTurn appends the owner's message and issues the oracle call for this
// turn. wasCard marks card-action turns, which are dealt a fresh hand when
// the oracle answers "ongoing".
func (m *Machine) sendTurn(st State, text string, wasCard bool) (State, []Effect) {
	if st.Phase != PhaseNegotiation || st.Product == nil || st.AwaitingOracle {
		return st, nil
	}

	st.History = appendMessage(st.History, Message{Sender: "user", Text: text})
	st.TurnCount++
	st.Seq++
	st.AwaitingOracle = true
	st.lastTurnWasCard = wasCard

	internalMax := int(float64(st.Product.BaseCost) * st.Customer.Willingness)
	return st, []Effect{CallOracle{
		Seq:          st.Seq,
		History:      st.History,
		ProductName:  st.Product.Name,
		CurrentPrice: st.CurrentPrice,
		TurnCount:    st.TurnCount,
		InternalMax:  internalMax,
	}}
}

// oracleReply applies the oracle's verdict. Replies for a superseded turn,
// or arriving when no turn is in flight, are discarded — this is how a
// post-timeout reply is kept from mutating a closed negotiation.
func (m *Machine) oracleReply(st State, a OracleReply) (State, []Effect) {
	if st.Phase != PhaseNegotiation || !st.AwaitingOracle || a.Seq != st.Seq {
		return st, nil
	}
	st.AwaitingOracle = false

	if a.Failed {
		st.History = appendMessage(st.History, Message{Sender: "customer", Text: stillThinkingLine})
		return st, nil
	}

	st.Interest = clampInterest(st.Interest + a.MoodScore*5)
	st.History = appendMessage(st.History, Message{Sender: "customer", Text: a.Text})

	switch a.Outcome {
	case OutcomeDeal:
		return m.resolveSale(st)
	case OutcomeLeave:
		return m.failWalkout(st, "the customer walked out")
	default:
		if st.lastTurnWasCard {
			st.Hand = dealFollowUpHand(m.rng, st.Interest)
		}
		return st, nil
	}
}

// directDeal resolves the deterministic close-now rule, never the oracle.
func (m *Machine) directDeal(st State) (State, []Effect) {
	if st.Phase != PhaseNegotiation || st.Product == nil || st.AwaitingOracle {
		return st, nil
	}

	c := st.Customer
	decision := DecideDirectDeal(st.CurrentPrice, st.Product.BaseCost, c.Willingness, st.Interest, c.Trait)

	if decision.OverLimit {
		st.Patience -= 30
		st.History = appendMessage(st.History, Message{Sender: "customer", Text: c.Reactions.Expensive})
		if st.Patience <= 0 {
			return m.failWalkout(st, "patience ran out over the price")
		}
		return st, nil
	}

	if decision.Accepted {
		return m.resolveSale(st)
	}

	st.Patience -= 20
	line := c.Reactions.Logic
	if float64(st.CurrentPrice) >= float64(st.Product.BaseCost)*1.5 {
		line = c.Reactions.Expensive
	}
	st.History = appendMessage(st.History, Message{Sender: "customer", Text: line})
	if st.Patience <= 0 {
		return m.failWalkout(st, "patience ran out")
	}
	return st, nil
}

// resolveSale closes a granted sale. A thief "granted" a sale takes the item
// and runs: stock and cost are lost immediately and the chase begins.
func (m *Machine) resolveSale(st State) (State, []Effect) {
	if st.Customer.Intent == customer.IntentThief {
		st.Phase = PhaseThiefChase
		st.Hand = nil
		return st, []Effect{
			Theft{ProductID: st.Product.ID},
			Log{Text: fmt.Sprintf("%s grabbed %s and bolted!", st.Customer.Name, st.Product.Name)},
		}
	}

	st.History = appendMessage(st.History, Message{Sender: "customer", Text: st.Customer.Reactions.Happy})
	st.Phase = PhaseResult
	st.Result = ResultSold
	st.Hand = nil
	return st, []Effect{
		Sale{ProductID: st.Product.ID, Price: st.CurrentPrice, Quantity: st.Customer.PurchaseQuantity},
		Log{Text: fmt.Sprintf("sold %d× %s to %s at %d", st.Customer.PurchaseQuantity, st.Product.Name, st.Customer.Name, st.CurrentPrice)},
	}
}

// failWalkout ends the negotiation without a sale. Browsing customers cost
// no reputation; everyone else costs 3.
func (m *Machine) failWalkout(st State, why string) (State, []Effect) {
	st.Phase = PhaseResult
	st.Result = ResultLost
	st.Hand = nil

	effects := []Effect{Log{Text: fmt.Sprintf("lost %s: %s", st.Customer.Name, why)}}
	if st.Customer.Intent != customer.IntentBrowsing {
		effects = append(effects, ReputationDelta{Delta: -3})
	}
	return st, effects
}

// giveUp walks away voluntarily: minimal reputation cost, any intent.
func (m *Machine) giveUp(st State) (State, []Effect) {
	if st.Phase == PhaseThiefChase {
		// The item is already gone; walking away here is letting the thief go.
		return m.letGo(st)
	}
	st.Phase = PhaseResult
	st.Result = ResultLost
	st.Hand = nil
	return st, []Effect{
		ReputationDelta{Delta: -1},
		Log{Text: fmt.Sprintf("gave up on %s", st.Customer.Name)},
	}
}

// timeout is the round timer pre-empting the negotiation. No penalty; any
// in-flight oracle reply will arrive with a stale seq and be discarded.
func (m *Machine) timeout(st State) (State, []Effect) {
	st.Phase = PhaseResult
	st.Result = ResultLost
	st.AwaitingOracle = false
	st.Seq++ // Invalidate any reply still in flight
	st.Hand = nil
	return st, []Effect{Log{Text: "round ended mid-negotiation"}}
}

// grantRefund and refuseRefund are the scripted refund sub-flow; neither
// consults the oracle.
func (m *Machine) grantRefund(st State) (State, []Effect) {
	if st.Phase != PhaseRefundDecision {
		return st, nil
	}
	st.History = appendMessage(st.History, Message{Sender: "customer", Text: st.Customer.Reactions.Happy})
	st.Phase = PhaseResult
	st.Result = ResultRefunded
	return st, []Effect{
		Refund{Amount: m.cfg.RefundAmount},
		Log{Text: fmt.Sprintf("refunded %d to %s", m.cfg.RefundAmount, st.Customer.Name)},
	}
}

func (m *Machine) refuseRefund(st State) (State, []Effect) {
	if st.Phase != PhaseRefundDecision {
		return st, nil
	}
	st.History = appendMessage(st.History, Message{Sender: "customer", Text: st.Customer.Reactions.Angry})
	st.Phase = PhaseResult
	st.Result = ResultLost
	return st, []Effect{
		ReputationDelta{Delta: -15},
		Log{Text: fmt.Sprintf("refused a refund to %s", st.Customer.Name)},
	}
}

// callPolice rolls the 60% recovery chance, independent of any prior state.
func (m *Machine) callPolice(st State) (State, []Effect) {
	if st.Phase != PhaseThiefChase {
		return st, nil
	}
	st.Phase = PhaseResult

	if m.rng.Float64() < 0.6 {
		st.Result = ResultTheftRecovered
		return st, []Effect{
			ReputationDelta{Delta: 5},
			Log{Text: fmt.Sprintf("police recovered the goods from %s", st.Customer.Name)},
		}
	}
	st.Result = ResultTheftLost
	return st, []Effect{
		ReputationDelta{Delta: -5},
		Log{Text: fmt.Sprintf("%s got away clean", st.Customer.Name)},
	}
}

func (m *Machine) letGo(st State) (State, []Effect) {
	if st.Phase != PhaseThiefChase {
		return st, nil
	}
	st.Phase = PhaseResult
	st.Result = ResultTheftLost
	return st, []Effect{Log{Text: fmt.Sprintf("let %s walk away", st.Customer.Name)}}
}

// appendMessage copies on append so reducer outputs never alias a previous
// state's transcript.
func appendMessage(history []Message, msg Message) []Message {
	out := make([]Message, len(history), len(history)+1)
	copy(out, history)
	return append(out, msg)
}
