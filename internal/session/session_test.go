package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shopfront/internal/catalog"
	"github.com/talgya/shopfront/internal/customer"
	"github.com/talgya/shopfront/internal/market"
	"github.com/talgya/shopfront/internal/negotiation"
)

func testConfig() Config {
	return Config{
		RoomCode:          "4271",
		RoundSeconds:      60,
		StartingFunds:     500,
		CustomersPerRound: 3,
		AllowRefunds:      true,
		Seed:              7,
		Market:            market.DefaultConfig(),
	}
}

func testSession() (*Session, *Loopback) {
	tr := NewLoopback()
	s := New(testConfig(), nil, nil, tr,
		catalog.DefaultProducts, catalog.DefaultEvents, catalog.DefaultTiers)
	return s, tr
}

func card(id string) *customer.Card {
	return &customer.Card{
		ID: id, Name: "Guest " + id,
		Trait: customer.TraitImpulsive, Intent: customer.IntentBuying,
		Willingness: 1.2, PurchaseQuantity: 1,
		BasePatience: 50, BaseInterest: 50,
		Opening: "Hi.",
	}
}

func TestJoinRoomCodeGate(t *testing.T) {
	s, _ := testSession()

	_, err := s.Join("9999", "p1", "Rosa", "Rosa's Curios", "🏮")
	assert.ErrorIs(t, err, ErrRoomCodeMismatch)
	_, ok := s.Shop("p1")
	assert.False(t, ok, "failed join must create no state")

	sh, err := s.Join("4271", "p1", "Rosa", "Rosa's Curios", "🏮")
	require.NoError(t, err)
	assert.Equal(t, 500, sh.Funds)

	_, err = s.Join("4271", "p1", "Rosa", "Rosa's Curios", "🏮")
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestMergeQueueAdditiveAndDupFree(t *testing.T) {
	local := []*customer.Card{card("a"), card("b")}
	incoming := []*customer.Card{card("b"), card("c"), card("a"), nil}

	merged := MergeQueue(local, incoming)
	require.Len(t, merged, 3)
	assert.Equal(t, "a", merged[0].ID, "local order is preserved")
	assert.Equal(t, "b", merged[1].ID)
	assert.Equal(t, "c", merged[2].ID, "new remote entries append")

	// Merging the same snapshot again changes nothing.
	again := MergeQueue(merged, incoming)
	assert.Equal(t, merged, again)
}

func TestRecentEventsRing(t *testing.T) {
	var g GameState
	for i := 0; i < 30; i++ {
		g.PushEvent(fmt.Sprintf("event %d", i))
	}
	require.Len(t, g.RecentEvents, recentEventCap)
	assert.Equal(t, "event 29", g.RecentEvents[0], "most recent first")
	assert.Equal(t, "event 10", g.RecentEvents[recentEventCap-1])
}

func TestNextCustomerSingleConsumer(t *testing.T) {
	s, _ := testSession()
	_, err := s.Join("4271", "p1", "Rosa", "Rosa's Curios", "🏮")
	require.NoError(t, err)

	s.MergeIncoming("p1", []*customer.Card{card("a"), card("b")})

	st := s.NextCustomer("p1")
	require.NotNil(t, st)
	assert.Equal(t, "a", st.Customer.ID)

	assert.Nil(t, s.NextCustomer("p1"),
		"no second customer while a negotiation is open")

	s.HandleAction("p1", negotiation.GiveUp{})
	st2 := s.NextCustomer("p1")
	require.NotNil(t, st2)
	assert.Equal(t, "b", st2.Customer.ID)
}

func TestMergeIncomingSkipsServedCustomers(t *testing.T) {
	s, _ := testSession()
	_, err := s.Join("4271", "p1", "Rosa", "Rosa's Curios", "🏮")
	require.NoError(t, err)

	s.MergeIncoming("p1", []*customer.Card{card("a")})
	st := s.NextCustomer("p1")
	require.NotNil(t, st)
	require.Equal(t, "a", st.Customer.ID)
	s.HandleAction("p1", negotiation.GiveUp{})

	// A stale snapshot still carrying the resolved customer arrives again.
	s.MergeIncoming("p1", []*customer.Card{card("a"), card("b")})

	st2 := s.NextCustomer("p1")
	require.NotNil(t, st2)
	assert.Equal(t, "b", st2.Customer.ID, "a resolved customer is never re-served")
	s.HandleAction("p1", negotiation.GiveUp{})
	assert.Nil(t, s.NextCustomer("p1"), "the queue holds nothing but the one new card")
}

func TestSelectProductRequiresStock(t *testing.T) {
	s, _ := testSession()
	sh, err := s.Join("4271", "p1", "Rosa", "Rosa's Curios", "🏮")
	require.NoError(t, err)

	s.MergeIncoming("p1", []*customer.Card{card("a")})
	require.NotNil(t, s.NextCustomer("p1"))

	p := catalog.ProductsForLevel(catalog.DefaultProducts, 1)[0]
	err = s.SelectProduct("p1", p.ID)
	assert.ErrorContains(t, err, "stock", "an unstocked product cannot be offered")
	st, _ := s.Negotiation("p1")
	assert.Nil(t, st.Product)

	require.NoError(t, sh.Procure(p, 2, p.BaseCost, catalog.DefaultTiers))
	require.NoError(t, s.SelectProduct("p1", p.ID))
	st, _ = s.Negotiation("p1")
	require.NotNil(t, st.Product)
	assert.Equal(t, p.ID, st.Product.ID)
}

func TestHandleActionAppliesEffects(t *testing.T) {
	s, _ := testSession()
	sh, err := s.Join("4271", "p1", "Rosa", "Rosa's Curios", "🏮")
	require.NoError(t, err)
	repBefore := sh.Reputation

	s.MergeIncoming("p1", []*customer.Card{card("a")})
	require.NotNil(t, s.NextCustomer("p1"))

	s.HandleAction("p1", negotiation.GiveUp{})
	assert.Equal(t, repBefore-1, sh.Reputation)
	assert.Equal(t, 1, sh.ProcessedCustomers)
}

func TestStartRoundRollsEventAndBroadcasts(t *testing.T) {
	s, tr := testSession()
	_, err := s.Join("4271", "p1", "Rosa", "Rosa's Curios", "🏮")
	require.NoError(t, err)

	s.StartRound()

	snap, ok := tr.LastSnapshot()
	require.True(t, ok)
	assert.Equal(t, 1, snap.Round)
	assert.True(t, snap.Started)
	assert.NotEmpty(t, snap.Event.ID)
	assert.NotEmpty(t, snap.RecentEvents)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, "Rosa's Curios", snap.Players[0].ShopName)
}

func TestForceFluctuationAlwaysLands(t *testing.T) {
	s, tr := testSession()
	s.StartRound()

	f := s.ForceFluctuation()
	require.NotNil(t, f, "a forced roll never comes back empty")

	snap, ok := tr.LastSnapshot()
	require.True(t, ok)
	require.NotNil(t, snap.Fluctuation)
	assert.Equal(t, f.Category, snap.Fluctuation.Category)
}

func TestForceEvent(t *testing.T) {
	s, _ := testSession()
	s.StartRound()

	_, err := s.ForceEvent("no_such_event")
	assert.Error(t, err)

	want := catalog.DefaultEvents[0]
	ev, err := s.ForceEvent(want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, ev.ID)
	assert.Equal(t, want.ID, s.Snapshot().Event.ID)
}

func TestRoundEngineForce(t *testing.T) {
	ended := make(chan struct{})
	e := NewRoundEngine()
	e.OnRoundEnd = func() { close(ended) }

	e.Start(3600)
	e.Force()

	select {
	case <-ended:
	case <-time.After(3 * time.Second):
		t.Fatal("forced round end did not fire")
	}
	assert.False(t, e.Running())
}
