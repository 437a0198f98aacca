package negotiation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shopfront/internal/catalog"
	"github.com/talgya/shopfront/internal/customer"
	"github.com/talgya/shopfront/internal/market"
)

var (
	testProduct = catalog.Product{
		ID: "lamp", Name: "Brass Lamp",
		Category: catalog.CategoryHome, BaseCost: 100, BasePrice: 150,
	}
	testEvent = catalog.GameEvent{
		ID: "moving_season", Name: "Moving Season",
		BoostedCategories: []catalog.Category{catalog.CategoryHome},
	}
)

func testCard(intent customer.Intent) *customer.Card {
	return &customer.Card{
		ID: "c1", Name: "Rosa", Trait: customer.TraitTrendFollower, Intent: intent,
		PreferredCategories: []catalog.Category{catalog.CategoryHome},
		Willingness:         2.0, PurchaseQuantity: 1,
		BasePatience: 60, BaseInterest: 50,
		Opening: "Hello there.",
		Reactions: customer.Reactions{
			Expensive: "That's steep.", Cheap: "A bargain!", Flattery: "Oh, stop.",
			Logic: "Hmm, fair point.", Angry: "Forget it!", Happy: "I'll take it!",
		},
	}
}

func testMachine() *Machine {
	return NewMachine(rand.New(rand.NewSource(1)), market.DefaultConfig())
}

// inNegotiation builds a state mid-negotiation with the price set directly,
// bypassing the oracle round-trip.
func inNegotiation(card *customer.Card, price, interest int) State {
	st := NewState(card, testEvent, 1)
	st.Phase = PhaseNegotiation
	st.Product = &testProduct
	st.CurrentPrice = price
	st.Interest = interest
	return st
}

func findSale(effects []Effect) (Sale, bool) {
	for _, e := range effects {
		if s, ok := e.(Sale); ok {
			return s, true
		}
	}
	return Sale{}, false
}

func findRepDelta(effects []Effect) (int, bool) {
	for _, e := range effects {
		if d, ok := e.(ReputationDelta); ok {
			return d.Delta, true
		}
	}
	return 0, false
}

func TestSelectProductInterestAdjustments(t *testing.T) {
	m := testMachine()

	// Preferred and event-boosted: +15 +10.
	st := NewState(testCard(customer.IntentBuying), testEvent, 1)
	st, _ = m.Reduce(st, SelectProduct{Product: testProduct})
	assert.Equal(t, 75, st.Interest)
	assert.Equal(t, PhaseNegotiation, st.Phase)
	assert.Equal(t, 150, st.CurrentPrice)
	assert.Len(t, st.Hand, 3, "opening hand is dealt on product selection")

	// Neither preferred nor boosted: −10.
	card := testCard(customer.IntentBuying)
	card.PreferredCategories = []catalog.Category{catalog.CategoryBooks}
	st = NewState(card, catalog.GameEvent{ID: "quiet"}, 1)
	st, _ = m.Reduce(st, SelectProduct{Product: testProduct})
	assert.Equal(t, 40, st.Interest)
}

func TestSendTurnIssuesOracleCall(t *testing.T) {
	m := testMachine()
	st := NewState(testCard(customer.IntentBuying), testEvent, 1)
	st, _ = m.Reduce(st, SelectProduct{Product: testProduct})

	st, effects := m.Reduce(st, SendText{Text: "Finest lamp on the street."})
	require.Len(t, effects, 1)
	call, ok := effects[0].(CallOracle)
	require.True(t, ok)

	assert.Equal(t, 1, call.Seq)
	assert.Equal(t, 1, call.TurnCount)
	assert.Equal(t, 200, call.InternalMax, "internal max is baseCost × willingness")
	assert.True(t, st.AwaitingOracle)
	assert.Equal(t, "user", call.History[len(call.History)-1].Sender)

	// A second turn while awaiting is ignored.
	_, effects = m.Reduce(st, SendText{Text: "Hello?"})
	assert.Empty(t, effects)
}

func TestSendTextPriceOverride(t *testing.T) {
	m := testMachine()
	st := inNegotiation(testCard(customer.IntentBuying), 150, 50)

	st, _ = m.Reduce(st, SendText{Text: "For you, 120."})
	assert.Equal(t, 120, st.CurrentPrice)

	// At or above bound × base price the override is ignored.
	st.AwaitingOracle = false
	st, _ = m.Reduce(st, SendText{Text: "What about 2000?"})
	assert.Equal(t, 120, st.CurrentPrice)
}

func TestApplyDiscount(t *testing.T) {
	m := testMachine()
	st := inNegotiation(testCard(customer.IntentBuying), 150, 50)

	st, effects := m.Reduce(st, ApplyDiscount{Percent: 20})
	assert.Equal(t, 120, st.CurrentPrice)
	assert.NotEmpty(t, effects, "discount forwards as an oracle turn")

	// Only the fixed percentages are honored.
	st.AwaitingOracle = false
	st, effects = m.Reduce(st, ApplyDiscount{Percent: 25})
	assert.Equal(t, 120, st.CurrentPrice)
	assert.Empty(t, effects)
}

func TestOracleReplyStaleSeqDiscarded(t *testing.T) {
	m := testMachine()
	st := inNegotiation(testCard(customer.IntentBuying), 150, 50)
	st, _ = m.Reduce(st, SendText{Text: "A fine piece."})
	require.Equal(t, 1, st.Seq)

	next, effects := m.Reduce(st, OracleReply{Seq: 0, Text: "Deal!", Outcome: OutcomeDeal})
	assert.Equal(t, st, next, "stale reply must not mutate the state")
	assert.Empty(t, effects)
}

func TestOracleReplyFailedStaysOpen(t *testing.T) {
	m := testMachine()
	st := inNegotiation(testCard(customer.IntentBuying), 150, 50)
	st, _ = m.Reduce(st, SendText{Text: "A fine piece."})

	st, effects := m.Reduce(st, OracleReply{Seq: st.Seq, Failed: true})
	assert.Empty(t, effects)
	assert.False(t, st.AwaitingOracle)
	assert.Equal(t, PhaseNegotiation, st.Phase)
	assert.Equal(t, stillThinkingLine, st.History[len(st.History)-1].Text)
}

func TestOracleReplyDealBooksSale(t *testing.T) {
	m := testMachine()
	st := inNegotiation(testCard(customer.IntentBuying), 150, 50)
	st, _ = m.Reduce(st, SendText{Text: "A fine piece."})

	st, effects := m.Reduce(st, OracleReply{Seq: st.Seq, Text: "You have a deal.", Outcome: OutcomeDeal, MoodScore: 2})
	sale, ok := findSale(effects)
	require.True(t, ok)
	assert.Equal(t, "lamp", sale.ProductID)
	assert.Equal(t, 150, sale.Price)
	assert.Equal(t, 1, sale.Quantity)
	assert.Equal(t, ResultSold, st.Result)
	assert.True(t, st.Closed())
}

func TestOracleReplyMoodMovesInterest(t *testing.T) {
	m := testMachine()
	st := inNegotiation(testCard(customer.IntentBuying), 150, 50)
	st, _ = m.Reduce(st, SendText{Text: "A fine piece."})

	st, _ = m.Reduce(st, OracleReply{Seq: st.Seq, Text: "Go on...", Outcome: OutcomeOngoing, MoodScore: 3})
	assert.Equal(t, 65, st.Interest, "interest moves by mood × 5")
}

func TestWalkoutPenaltySkipsBrowsers(t *testing.T) {
	m := testMachine()

	st := inNegotiation(testCard(customer.IntentBuying), 150, 50)
	st, _ = m.Reduce(st, SendText{Text: "Last chance."})
	st, effects := m.Reduce(st, OracleReply{Seq: st.Seq, Text: "No thanks.", Outcome: OutcomeLeave})
	delta, ok := findRepDelta(effects)
	require.True(t, ok)
	assert.Equal(t, -3, delta)
	assert.Equal(t, ResultLost, st.Result)

	st = inNegotiation(testCard(customer.IntentBrowsing), 150, 50)
	st, _ = m.Reduce(st, SendText{Text: "Last chance."})
	_, effects = m.Reduce(st, OracleReply{Seq: st.Seq, Text: "Just looking.", Outcome: OutcomeLeave})
	_, ok = findRepDelta(effects)
	assert.False(t, ok, "browsers cost no reputation on walkout")
}

func TestFollowUpHandOnlyAfterCardTurns(t *testing.T) {
	m := testMachine()
	st := inNegotiation(testCard(customer.IntentBuying), 150, 50)

	st, _ = m.Reduce(st, SendCard{Card: standardDeck[0]})
	st, _ = m.Reduce(st, OracleReply{Seq: st.Seq, Text: "Go on...", Outcome: OutcomeOngoing})
	require.Len(t, st.Hand, 3, "card turns answered ongoing deal a fresh hand")

	prev := st.Hand
	st, _ = m.Reduce(st, SendText{Text: "And it's hand-polished."})
	st, _ = m.Reduce(st, OracleReply{Seq: st.Seq, Text: "Mm.", Outcome: OutcomeOngoing})
	assert.Equal(t, prev, st.Hand, "free-text turns keep the existing hand")
}

func TestClosingCardAtHighInterest(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 20; i++ {
		hand := dealFollowUpHand(rng, closingInterestThreshold)
		require.Len(t, hand, 3)
		assert.Equal(t, KindClosing, hand[2].Kind)

		hand = dealFollowUpHand(rng, closingInterestThreshold-1)
		assert.Equal(t, KindRecovery, hand[2].Kind)
	}
}

func TestTimeoutInvalidatesInflightReply(t *testing.T) {
	m := testMachine()
	st := inNegotiation(testCard(customer.IntentBuying), 150, 50)
	st, _ = m.Reduce(st, SendText{Text: "A fine piece."})
	inflight := st.Seq

	st, _ = m.Reduce(st, Timeout{})
	assert.True(t, st.Closed())
	assert.Equal(t, ResultLost, st.Result)

	// The reply lands after the round ended: discarded entirely.
	next, effects := m.Reduce(st, OracleReply{Seq: inflight, Text: "Deal!", Outcome: OutcomeDeal})
	assert.Equal(t, st, next)
	assert.Empty(t, effects)
}

func TestDirectDealOverLimitErodesPatience(t *testing.T) {
	m := testMachine()
	st := inNegotiation(testCard(customer.IntentBuying), 250, 50) // ceiling is 200

	st, _ = m.Reduce(st, DirectDeal{})
	assert.Equal(t, 30, st.Patience)
	assert.Equal(t, PhaseNegotiation, st.Phase)
	assert.Equal(t, "That's steep.", st.History[len(st.History)-1].Text)

	st, effects := m.Reduce(st, DirectDeal{})
	assert.True(t, st.Closed(), "patience exhausted escalates to walkout")
	assert.Equal(t, ResultLost, st.Result)
	delta, ok := findRepDelta(effects)
	require.True(t, ok)
	assert.Equal(t, -3, delta)
}

func TestDirectDealAcceptedBooksSale(t *testing.T) {
	m := testMachine()
	st := inNegotiation(testCard(customer.IntentBuying), 150, 85) // ratio 1.5 needs 60

	st, effects := m.Reduce(st, DirectDeal{})
	sale, ok := findSale(effects)
	require.True(t, ok)
	assert.Equal(t, 150, sale.Price)
	assert.Equal(t, ResultSold, st.Result)
}

func TestThiefChase(t *testing.T) {
	m := testMachine()

	grant := func() State {
		st := inNegotiation(testCard(customer.IntentThief), 100, 95)
		st, effects := m.Reduce(st, DirectDeal{})
		if _, isTheft := effects[0].(Theft); !isTheft {
			t.Fatalf("thief granted a sale must produce a Theft effect, got %T", effects[0])
		}
		if st.Phase != PhaseThiefChase {
			t.Fatalf("expected thief_chase, got %s", st.Phase)
		}
		return st
	}

	// Call police: exactly one of the two branches, never both.
	st, effects := m.Reduce(grant(), CallPolice{})
	delta, ok := findRepDelta(effects)
	require.True(t, ok)
	switch st.Result {
	case ResultTheftRecovered:
		assert.Equal(t, 5, delta)
	case ResultTheftLost:
		assert.Equal(t, -5, delta)
	default:
		t.Fatalf("unexpected result %q", st.Result)
	}

	// Let go: lost, no reputation change.
	st, effects = m.Reduce(grant(), LetGo{})
	assert.Equal(t, ResultTheftLost, st.Result)
	_, ok = findRepDelta(effects)
	assert.False(t, ok)

	// Giving up mid-chase is letting the thief go.
	st, _ = m.Reduce(grant(), GiveUp{})
	assert.Equal(t, ResultTheftLost, st.Result)
}

func TestRefundFlow(t *testing.T) {
	m := testMachine()

	st := NewState(testCard(customer.IntentReturning), testEvent, 1)
	require.Equal(t, PhaseRefundDecision, st.Phase)

	granted, effects := m.Reduce(st, GrantRefund{})
	assert.Equal(t, ResultRefunded, granted.Result)
	require.NotEmpty(t, effects)
	refund, ok := effects[0].(Refund)
	require.True(t, ok)
	assert.Equal(t, 50, refund.Amount)

	refused, effects := m.Reduce(st, RefuseRefund{})
	assert.Equal(t, ResultLost, refused.Result)
	delta, ok := findRepDelta(effects)
	require.True(t, ok)
	assert.Equal(t, -15, delta)
}

func TestReturningReclassifiedWhenNothingSold(t *testing.T) {
	card := testCard(customer.IntentReturning)
	st := NewState(card, testEvent, 0)

	assert.Equal(t, customer.IntentBrowsing, card.Intent,
		"no sales this session means nothing could be refunded")
	assert.Equal(t, PhaseIntro, st.Phase)
}

func TestClosedStateIgnoresEverything(t *testing.T) {
	m := testMachine()
	st := inNegotiation(testCard(customer.IntentBuying), 150, 85)
	st, _ = m.Reduce(st, DirectDeal{})
	require.True(t, st.Closed())

	for _, action := range []Action{
		SendText{Text: "wait"}, DirectDeal{}, GiveUp{}, Timeout{},
		GrantRefund{}, CallPolice{}, ApplyDiscount{Percent: 10},
	} {
		next, effects := m.Reduce(st, action)
		assert.Equal(t, st, next, "%T on a closed negotiation", action)
		assert.Empty(t, effects)
	}
}
