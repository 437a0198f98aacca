package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/talgya/shopfront/internal/catalog"
	"github.com/talgya/shopfront/internal/customer"
	"github.com/talgya/shopfront/internal/entropy"
	"github.com/talgya/shopfront/internal/market"
	"github.com/talgya/shopfront/internal/negotiation"
	"github.com/talgya/shopfront/internal/oracle"
	"github.com/talgya/shopfront/internal/shop"
)

// Join rejections. No session state is created on either.
var (
	ErrRoomCodeMismatch = errors.New("room code mismatch")
	ErrAlreadyJoined    = errors.New("player already joined")
)

// Config carries the session's tunables.
type Config struct {
	RoomCode          string
	RoundSeconds      int
	StartingFunds     int
	CustomersPerRound int
	AllowRefunds      bool
	Seed              int64
	Market            market.Config
	Bias              oracle.Bias
}

// Session is the authoritative game loop for one room. It is the single
// consumer of the shared customer pool; every distribution and reduction
// happens under its lock.
type Session struct {
	mu  sync.Mutex
	cfg Config

	state GameState
	shops map[string]*shop.State
	order []string // join order, keeps standings stable

	queues       map[string][]*customer.Card
	negotiations map[string]*negotiation.State
	served       map[string]map[string]bool // customer ids already dealt to each player this round

	machine *negotiation.Machine
	pool    *customer.Pool
	roller  *market.Roller
	rng     *rand.Rand

	oracle    *oracle.Client
	transport Transport
	engine    *RoundEngine

	products []catalog.Product
	events   []catalog.GameEvent
	tiers    []catalog.ShopTier

	totalSales int // Session-wide completed sales; gates returning customers
	lastReport string
}

// New creates a session. The oracle client may be nil (oracle features
// degrade to local fallbacks); the entropy client may be nil (crypto/rand).
func New(cfg Config, oc *oracle.Client, ent *entropy.Client, tr Transport,
	products []catalog.Product, events []catalog.GameEvent, tiers []catalog.ShopTier) *Session {

	rng := rand.New(rand.NewSource(cfg.Seed))
	s := &Session{
		cfg:          cfg,
		shops:        make(map[string]*shop.State),
		queues:       make(map[string][]*customer.Card),
		negotiations: make(map[string]*negotiation.State),
		served:       make(map[string]map[string]bool),
		machine:      negotiation.NewMachine(rng, cfg.Market),
		pool:         customer.NewPool(customer.NewGenerator(cfg.Seed)),
		roller:       market.NewRoller(rng, ent, cfg.Market),
		rng:          rng,
		oracle:       oc,
		transport:    tr,
		engine:       NewRoundEngine(),
		products:     products,
		events:       events,
		tiers:        tiers,
	}
	s.state = GameState{
		RoomCode: cfg.RoomCode,
		Market:   cfg.Market,
	}
	s.engine.OnTick = s.onTick
	s.engine.OnRoundEnd = s.endRound
	return s
}

// Join admits a player into the session. The room code must match exactly.
func (s *Session) Join(roomCode, playerID, playerName, shopName, shopLogo string) (*shop.State, error) {
	if roomCode != s.cfg.RoomCode {
		return nil, fmt.Errorf("join %s: %w", playerID, ErrRoomCodeMismatch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shops[playerID]; ok {
		return nil, fmt.Errorf("join %s: %w", playerID, ErrAlreadyJoined)
	}

	sh := shop.New(playerID, playerName, shopName, s.cfg.StartingFunds)
	sh.ShopLogo = shopLogo
	s.shops[playerID] = sh
	s.order = append(s.order, playerID)

	slog.Info("player joined", "player", playerName, "shop", shopName)
	s.state.PushEvent(fmt.Sprintf("%s opened %s on the street", playerName, shopName))
	return sh, nil
}

// Restore re-admits a player with a previously persisted shop state. Same
// room-code rule as Join.
func (s *Session) Restore(roomCode string, sh *shop.State) error {
	if roomCode != s.cfg.RoomCode {
		return fmt.Errorf("restore %s: %w", sh.PlayerID, ErrRoomCodeMismatch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shops[sh.PlayerID]; ok {
		return fmt.Errorf("restore %s: %w", sh.PlayerID, ErrAlreadyJoined)
	}
	s.shops[sh.PlayerID] = sh
	s.order = append(s.order, sh.PlayerID)
	slog.Info("player restored", "player", sh.PlayerName, "shop", sh.ShopName)
	return nil
}

// StartRound advances the global round: rolls the event and fluctuation,
// resets every shop into procurement, and refills the customer pool. The
// round timer does not start until OpenRound.
func (s *Session) StartRound() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Started = true
	s.state.Round++
	s.state.Event = catalog.RandomEvent(s.events, s.rng)
	s.state.Fluctuation = s.roller.Roll(s.state.Event, false)
	s.state.TimeLeft = s.cfg.RoundSeconds

	for _, sh := range s.shops {
		sh.StartRound()
	}
	s.negotiations = make(map[string]*negotiation.State)
	s.queues = make(map[string][]*customer.Card)
	s.served = make(map[string]map[string]bool)

	slog.Info("round started",
		"round", s.state.Round,
		"event", s.state.Event.Name,
		"fluctuation", s.state.Fluctuation != nil,
	)
	s.state.PushEvent(fmt.Sprintf("%s Round %d: %s", s.state.Event.Icon, s.state.Round, s.state.Event.Name))
	if f := s.state.Fluctuation; f != nil {
		s.state.PushEvent(fmt.Sprintf("Market %s in %s: %s", f.Kind, f.Category, f.Reason))
	}

	go s.announce(s.state.Event.Description)
	go s.fillPool()

	s.broadcastLocked()
}

// OpenRound closes procurement: distributes customers, opens every shop, and
// starts the countdown.
func (s *Session) OpenRound() {
	s.mu.Lock()
	s.state.Running = true
	for id, sh := range s.shops {
		sh.Open()
		s.queues[id] = s.distributionFor(sh)
	}
	seconds := s.cfg.RoundSeconds
	s.broadcastLocked()
	s.mu.Unlock()

	s.engine.Start(seconds)
}

// ForceSettle ends the round immediately, as if the timer hit zero.
func (s *Session) ForceSettle() {
	s.engine.Force()
}

// ForceFluctuation rolls a guaranteed market fluctuation for the current
// round, replacing whatever the round-start roll produced.
func (s *Session) ForceFluctuation() *market.Fluctuation {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.roller.Roll(s.state.Event, true)
	s.state.Fluctuation = f
	if f != nil {
		s.state.PushEvent(fmt.Sprintf("Market %s in %s: %s", f.Kind, f.Category, f.Reason))
	}
	s.broadcastLocked()
	return f
}

// ForceEvent swaps the active game event mid-round. An empty id re-rolls a
// random one; an unknown id is an error and leaves the round untouched.
func (s *Session) ForceEvent(eventID string) (catalog.GameEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ev catalog.GameEvent
	if eventID == "" {
		ev = catalog.RandomEvent(s.events, s.rng)
	} else {
		found := false
		for _, e := range s.events {
			if e.ID == eventID {
				ev, found = e, true
				break
			}
		}
		if !found {
			return catalog.GameEvent{}, fmt.Errorf("force event: unknown event %q", eventID)
		}
	}

	s.state.Event = ev
	s.state.PushEvent(fmt.Sprintf("%s The street shifts: %s", ev.Icon, ev.Name))
	s.broadcastLocked()
	return ev, nil
}

// fillPool tops the shared pool up from the oracle. Best-effort: an empty
// batch just means every draw falls back to the algorithmic generator.
func (s *Session) fillPool() {
	s.mu.Lock()
	need := s.poolTargetLocked() - s.pool.Size()
	round := s.state.Round
	event := s.state.Event
	s.mu.Unlock()

	if need <= 0 || !s.oracle.Enabled() {
		return
	}
	batch := s.oracle.GenerateBatch(need, round, event, s.cfg.Bias)
	if n := s.pool.Fill(batch); n > 0 {
		slog.Info("customer pool filled from oracle", "accepted", n)
	}
}

func (s *Session) poolTargetLocked() int {
	return s.cfg.CustomersPerRound * (len(s.shops) + 1)
}

// distributionFor deals this round's queue for one shop: the base count plus
// the campaign draw, plus one walk-in for a well-known shop.
func (s *Session) distributionFor(sh *shop.State) []*customer.Card {
	count := s.cfg.CustomersPerRound
	switch sh.Campaign {
	case shop.CampaignFlyer:
		count++
	case shop.CampaignInfluencer:
		count += 3
	}
	if sh.Reputation >= 80 {
		count++
	}

	queue := make([]*customer.Card, 0, count)
	for i := 0; i < count; i++ {
		queue = append(queue, s.pool.Next(s.state.Round, s.state.Event, s.cfg.AllowRefunds))
	}
	return queue
}

// MergeIncoming reconciles a remote snapshot of a shop's queue into the
// local one, additively by id. A card this player has already been served —
// still queued or long resolved — never re-enters: a stale snapshot must not
// put a customer through a second terminal outcome.
func (s *Session) MergeIncoming(playerID string, incoming []*customer.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()

	served := s.served[playerID]
	fresh := make([]*customer.Card, 0, len(incoming))
	for _, c := range incoming {
		if c != nil && served[c.ID] {
			continue
		}
		fresh = append(fresh, c)
	}
	s.queues[playerID] = MergeQueue(s.queues[playerID], fresh)
}

// NextCustomer pops the shop's next queued customer and opens a negotiation.
// Returns nil when the queue is empty or a negotiation is already open.
func (s *Session) NextCustomer(playerID string) *negotiation.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.negotiations[playerID]; ok && !st.Closed() {
		return nil
	}
	queue := s.queues[playerID]
	if len(queue) == 0 {
		return nil
	}
	card := queue[0]
	s.queues[playerID] = queue[1:]
	if s.served[playerID] == nil {
		s.served[playerID] = make(map[string]bool)
	}
	s.served[playerID][card.ID] = true

	st := negotiation.NewState(card, s.state.Event, s.totalSales)
	s.negotiations[playerID] = &st
	return &st
}

// Negotiation returns the player's current negotiation state, if any.
func (s *Session) Negotiation(playerID string) (*negotiation.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.negotiations[playerID]
	return st, ok
}

// SelectProduct offers a catalog product in the player's open negotiation.
// The product must exist, be unlocked at the shop's level, and be in stock
// for the customer's full purchase quantity — otherwise a granted sale could
// never be booked and the negotiation would close sold with nothing applied.
func (s *Session) SelectProduct(playerID, productID string) error {
	s.mu.Lock()
	p, ok := catalog.ProductByID(s.products, productID)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("select product: unknown product %q", productID)
	}
	if sh, held := s.shops[playerID]; held {
		if p.UnlockLevel > sh.Level {
			s.mu.Unlock()
			return fmt.Errorf("select product: %q unlocks at level %d", productID, p.UnlockLevel)
		}
		need := 1
		if st, open := s.negotiations[playerID]; open && st.Customer != nil {
			need = st.Customer.PurchaseQuantity
		}
		if it, stocked := sh.Item(productID); !stocked || it.Stock < need {
			s.mu.Unlock()
			return fmt.Errorf("select product: fewer than %d %q in stock", need, productID)
		}
	}
	s.mu.Unlock()

	s.HandleAction(playerID, negotiation.SelectProduct{Product: p})
	return nil
}

// PlayCard plays one of the dealt hand's cards by index.
func (s *Session) PlayCard(playerID string, index int) error {
	s.mu.Lock()
	st, ok := s.negotiations[playerID]
	if !ok || index < 0 || index >= len(st.Hand) {
		s.mu.Unlock()
		return fmt.Errorf("play card: no card at index %d", index)
	}
	card := st.Hand[index]
	s.mu.Unlock()

	s.HandleAction(playerID, negotiation.SendCard{Card: card})
	return nil
}

// HandleAction reduces the player's current negotiation by one action and
// executes the resulting effects against their shop.
func (s *Session) HandleAction(playerID string, action negotiation.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.negotiations[playerID]
	if !ok {
		return
	}
	sh, ok := s.shops[playerID]
	if !ok {
		return
	}

	wasClosed := st.Closed()
	next, effects := s.machine.Reduce(*st, action)
	*st = next

	s.applyEffects(playerID, sh, effects)

	if !wasClosed && st.Closed() {
		sh.ProcessedCustomers++
	}
}

// onTick relays the countdown into the broadcast state.
func (s *Session) onTick(secondsLeft int) {
	s.mu.Lock()
	s.state.TimeLeft = secondsLeft
	s.broadcastLocked()
	s.mu.Unlock()
}

// endRound is the timer firing: every open negotiation is pre-empted, every
// shop settles, and the standings go out.
func (s *Session) endRound() {
	s.mu.Lock()

	for playerID, st := range s.negotiations {
		if st.Closed() {
			continue
		}
		sh := s.shops[playerID]
		next, effects := s.machine.Reduce(*st, negotiation.Timeout{})
		*st = next
		s.applyEffects(playerID, sh, effects)
		sh.ProcessedCustomers++
	}

	for _, sh := range s.shops {
		res := sh.Settle(s.cfg.Market.StorageFeeRate)
		slog.Info("shop settled",
			"shop", sh.ShopName,
			"net_profit", res.NetProfit,
			"storage_fee", res.StorageFee,
		)
	}

	s.state.Running = false
	s.state.TimeLeft = 0
	s.state.PushEvent(fmt.Sprintf("Round %d closed — storage fees collected", s.state.Round))
	roster := s.standingsLocked()
	eventName := s.state.Event.Name
	s.broadcastLocked()
	s.mu.Unlock()

	go func() {
		report := s.oracle.Summarize(roster, eventName)
		s.mu.Lock()
		s.lastReport = report
		s.mu.Unlock()
	}()
}

// Report returns the most recent end-of-round report.
func (s *Session) Report() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

// Upgrade attempts a tier upgrade for the player's shop.
func (s *Session) Upgrade(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shops[playerID]
	if !ok {
		return fmt.Errorf("upgrade: unknown player %s", playerID)
	}
	return sh.Upgrade(s.tiers, s.cfg.Market.UpgradeCostMultiplier)
}

// Shop returns a player's shop state.
func (s *Session) Shop(playerID string) (*shop.State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shops[playerID]
	return sh, ok
}

// Snapshot returns a copy of the broadcast game state.
func (s *Session) Snapshot() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Standings returns the report roster in join order.
func (s *Session) Standings() []oracle.Standing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.standingsLocked()
}

func (s *Session) standingsLocked() []oracle.Standing {
	roster := make([]oracle.Standing, 0, len(s.order))
	for _, id := range s.order {
		sh := s.shops[id]
		roster = append(roster, oracle.Standing{
			PlayerName: sh.PlayerName,
			ShopName:   sh.ShopName,
			Funds:      sh.Funds,
			Profit:     sh.LastTurnProfit,
			Reputation: sh.Reputation,
			Level:      sh.Level,
		})
	}
	return roster
}

func (s *Session) snapshotLocked() GameState {
	snap := s.state
	snap.Players = make([]PlayerSnapshot, 0, len(s.order))
	for _, id := range s.order {
		snap.Players = append(snap.Players, snapshotOf(s.shops[id]))
	}
	snap.RecentEvents = append([]string(nil), s.state.RecentEvents...)
	return snap
}

func (s *Session) broadcastLocked() {
	if s.transport == nil {
		return
	}
	if err := s.transport.BroadcastSnapshot(s.snapshotLocked()); err != nil {
		slog.Warn("snapshot broadcast failed", "error", err)
	}
}

// announce dresses the line up through the oracle (best-effort) and pushes
// it onto the ring and the transport.
func (s *Session) announce(text string) {
	line := s.oracle.Announce(text, "all players")

	s.mu.Lock()
	s.state.PushEvent(line)
	s.mu.Unlock()

	if s.transport != nil {
		if err := s.transport.Announce(line); err != nil {
			slog.Warn("announcement transport failed", "error", err)
		}
	}
}
