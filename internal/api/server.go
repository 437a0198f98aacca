// Package api provides the HTTP API for observing and steering a session.
// GET endpoints are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talgya/shopfront/internal/negotiation"
	"github.com/talgya/shopfront/internal/persistence"
	"github.com/talgya/shopfront/internal/session"
)

// Server serves the session state over HTTP.
type Server struct {
	Session  *session.Session
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	// The report endpoint consumes oracle tokens; throttle it.
	reportLimiter := NewRateLimiter(30, time.Hour)

	mux := http.NewServeMux()

	// Public endpoints (GET, read-only — anyone can watch the street).
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/standings", s.handleStandings)
	mux.HandleFunc("/api/v1/shops", s.handleShops)
	mux.HandleFunc("/api/v1/shop/", s.handleShopDetail)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/report", RateLimitMiddleware(reportLimiter, s.handleReport))

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("/api/v1/settle", s.adminOnly(s.handleSettle))
	mux.HandleFunc("/api/v1/advance", s.adminOnly(s.handleAdvance))
	mux.HandleFunc("/api/v1/open", s.adminOnly(s.handleOpen))
	mux.HandleFunc("/api/v1/fluctuation", s.adminOnly(s.handleFluctuation))
	mux.HandleFunc("/api/v1/event", s.adminOnly(s.handleEvent))
	mux.HandleFunc("/api/v1/action", s.adminOnly(s.handleAction))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS env var to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no SHOPFRONT_ADMIN_KEY set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Session.Snapshot()
	writeJSON(w, map[string]any{
		"started":     snap.Started,
		"running":     snap.Running,
		"round":       snap.Round,
		"time_left":   snap.TimeLeft,
		"event":       snap.Event,
		"fluctuation": snap.Fluctuation,
		"players":     len(snap.Players),
	})
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Session.Standings())
}

func (s *Server) handleShops(w http.ResponseWriter, r *http.Request) {
	snap := s.Session.Snapshot()
	writeJSON(w, snap.Players)
}

// handleShopDetail returns one shop's full state: GET /api/v1/shop/:playerID.
func (s *Server) handleShopDetail(w http.ResponseWriter, r *http.Request) {
	playerID := strings.TrimPrefix(r.URL.Path, "/api/v1/shop/")
	if playerID == "" {
		http.Error(w, "missing player id", http.StatusBadRequest)
		return
	}
	sh, ok := s.Session.Shop(playerID)
	if !ok {
		http.Error(w, "unknown player", http.StatusNotFound)
		return
	}
	writeJSON(w, sh)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	snap := s.Session.Snapshot()
	writeJSON(w, map[string]any{"recent_events": snap.RecentEvents})
}

// handleHistory returns the persisted announcement log — the full archive,
// beyond the live ring's last 20 lines. ?limit caps the page (default 50).
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "no event archive attached", http.StatusNotFound)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	events, err := s.DB.RecentEvents(limit)
	if err != nil {
		slog.Warn("event archive read failed", "error", err)
		http.Error(w, "event archive unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"events": events})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report := s.Session.Report()
	if report == "" {
		http.Error(w, "no round has settled yet", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"report": report})
}

// handleSettle forces the current round to settle immediately.
func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	s.Session.ForceSettle()
	writeJSON(w, map[string]any{"ok": true})
}

// handleAdvance starts the next round (procurement phase).
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	s.Session.StartRound()
	writeJSON(w, map[string]any{"ok": true, "round": s.Session.Snapshot().Round})
}

// handleOpen closes procurement and starts the round timer.
func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	s.Session.OpenRound()
	writeJSON(w, map[string]any{"ok": true})
}

// handleFluctuation forces a market fluctuation for the current round.
func (s *Server) handleFluctuation(w http.ResponseWriter, r *http.Request) {
	f := s.Session.ForceFluctuation()
	writeJSON(w, map[string]any{"ok": true, "fluctuation": f})
}

// handleEvent swaps the active game event: {"event_id": "heatwave"}, or an
// empty id for a random re-roll.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventID string `json:"event_id"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	ev, err := s.Session.ForceEvent(req.EventID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{"ok": true, "event": ev})
}

// handleAction injects a negotiation action for a player — the local-mode
// driver for playing without a frontend.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID  string `json:"player_id"`
		Kind      string `json:"kind"`
		Text      string `json:"text"`
		Percent   int    `json:"percent"`
		ProductID string `json:"product_id"`
		CardIndex int    `json:"card_index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	switch req.Kind {
	case "next":
		writeJSON(w, s.Session.NextCustomer(req.PlayerID))
		return
	case "select":
		if err := s.Session.SelectProduct(req.PlayerID, req.ProductID); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	case "card":
		if err := s.Session.PlayCard(req.PlayerID, req.CardIndex); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var action negotiation.Action
	switch req.Kind {
	case "select", "card":
		// Already dispatched above; fall through to return the state.
	case "text":
		action = negotiation.SendText{Text: req.Text}
	case "discount":
		action = negotiation.ApplyDiscount{Percent: req.Percent}
	case "deal":
		action = negotiation.DirectDeal{}
	case "give_up":
		action = negotiation.GiveUp{}
	case "grant_refund":
		action = negotiation.GrantRefund{}
	case "refuse_refund":
		action = negotiation.RefuseRefund{}
	case "call_police":
		action = negotiation.CallPolice{}
	case "let_go":
		action = negotiation.LetGo{}
	default:
		http.Error(w, fmt.Sprintf("unknown action kind %q", req.Kind), http.StatusBadRequest)
		return
	}

	if action != nil {
		s.Session.HandleAction(req.PlayerID, action)
	}
	st, ok := s.Session.Negotiation(req.PlayerID)
	if !ok {
		writeJSON(w, map[string]any{"ok": true})
		return
	}
	writeJSON(w, st)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
