package session

import (
	"log/slog"

	"github.com/talgya/shopfront/internal/negotiation"
	"github.com/talgya/shopfront/internal/shop"
)

// applyEffects executes a reduction's effects against the player's shop.
// Called with the session lock held; the oracle call is the one effect that
// escapes to a goroutine and re-enters through HandleAction.
func (s *Session) applyEffects(playerID string, sh *shop.State, effects []negotiation.Effect) {
	for _, eff := range effects {
		switch e := eff.(type) {
		case negotiation.CallOracle:
			go s.resolveOracleTurn(playerID, e)

		case negotiation.Sale:
			if err := sh.ApplySale(e.ProductID, e.Price, e.Quantity); err != nil {
				slog.Warn("sale could not be booked", "shop", sh.ShopName, "error", err)
				continue
			}
			s.totalSales++

		case negotiation.Theft:
			if err := sh.ApplyTheft(e.ProductID); err != nil {
				slog.Warn("theft could not be booked", "shop", sh.ShopName, "error", err)
			}

		case negotiation.Refund:
			sh.ApplyRefund(e.Amount)

		case negotiation.ReputationDelta:
			sh.AddReputation(e.Delta)

		case negotiation.Log:
			sh.Log(e.Text)
			slog.Debug("shop event", "shop", sh.ShopName, "event", e.Text)
		}
	}
}

// resolveOracleTurn runs the blocking oracle call off the lock and feeds the
// verdict back in as an OracleReply. A failed call comes back with Failed set
// so the machine applies its neutral stay-open line. The reply's seq ties it
// to the turn that issued it; the machine discards it if the turn has been
// superseded by then.
func (s *Session) resolveOracleTurn(playerID string, call negotiation.CallOracle) {
	s.mu.Lock()
	st, ok := s.negotiations[playerID]
	var reply negotiation.OracleReply
	if ok {
		reply.Seq = call.Seq
		card := st.Customer
		s.mu.Unlock()

		decision, err := s.oracle.Negotiate(card, call.ProductName, call.CurrentPrice, call.TurnCount, call.InternalMax, call.History)
		if err != nil {
			slog.Warn("oracle negotiation turn failed", "error", err)
			reply.Failed = true
		} else {
			reply.Text = decision.Text
			reply.Outcome = decision.Outcome
			reply.MoodScore = decision.MoodScore
		}
	} else {
		s.mu.Unlock()
		return
	}

	s.HandleAction(playerID, reply)
}
