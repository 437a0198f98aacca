// Command hostsim runs a Shopfront session host: the authoritative game
// loop, the HTTP control plane, and local-simulation mode with a loopback
// transport and a couple of house players.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/talgya/shopfront/internal/api"
	"github.com/talgya/shopfront/internal/catalog"
	"github.com/talgya/shopfront/internal/config"
	"github.com/talgya/shopfront/internal/entropy"
	"github.com/talgya/shopfront/internal/oracle"
	"github.com/talgya/shopfront/internal/persistence"
	"github.com/talgya/shopfront/internal/session"
	"github.com/talgya/shopfront/internal/shop"
)

const snapshotKey = "hostsim_state"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Shopfront — street-market session host")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// ── Catalog ───────────────────────────────────────────────────────
	products := catalog.DefaultProducts
	if cfg.ProductsPath != "" {
		if products, err = catalog.LoadProducts(cfg.ProductsPath); err != nil {
			slog.Error("failed to load product catalog", "path", cfg.ProductsPath, "error", err)
			os.Exit(1)
		}
	}
	events := catalog.DefaultEvents
	if cfg.EventsPath != "" {
		if events, err = catalog.LoadEvents(cfg.EventsPath); err != nil {
			slog.Error("failed to load event catalog", "path", cfg.EventsPath, "error", err)
			os.Exit(1)
		}
	}
	tiers := catalog.DefaultTiers
	if cfg.TiersPath != "" {
		if tiers, err = catalog.LoadTiers(cfg.TiersPath); err != nil {
			slog.Error("failed to load tier ladder", "path", cfg.TiersPath, "error", err)
			os.Exit(1)
		}
	}
	slog.Info("catalog loaded", "products", len(products), "events", len(events), "tiers", len(tiers))

	// ── Database ──────────────────────────────────────────────────────
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Oracle & Entropy ──────────────────────────────────────────────
	oracleClient := oracle.NewClient(cfg.AnthropicKey)
	if oracleClient.Enabled() {
		slog.Info("customer oracle enabled")
	} else {
		slog.Warn("SHOPFRONT_ANTHROPIC_KEY not set — customers will be generated algorithmically")
	}

	ent := entropy.NewClient(cfg.RandomOrgKey)
	if ent.Enabled() {
		slog.Info("true-randomness entropy source enabled")
	}

	// ── Session ───────────────────────────────────────────────────────
	sess := session.New(session.Config{
		RoomCode:          cfg.RoomCode,
		RoundSeconds:      cfg.RoundSeconds,
		StartingFunds:     cfg.StartingFunds,
		CustomersPerRound: cfg.CustomersPerRound,
		AllowRefunds:      cfg.AllowRefunds,
		Seed:              cfg.Seed,
		Market:            cfg.Market(),
		Bias:              oracle.Bias(cfg.Bias),
	}, oracleClient, ent, session.NewLoopback(), products, events, tiers)

	// Restore house shops from a previous run of the same room, or seed
	// fresh ones for local-simulation mode.
	var saved []*shop.State
	restored, err := db.LoadSnapshot(snapshotKey, cfg.RoomCode, &saved)
	if err != nil {
		slog.Warn("snapshot restore failed, starting fresh", "error", err)
	}
	if restored {
		for _, sh := range saved {
			if err := sess.Restore(cfg.RoomCode, sh); err != nil {
				slog.Warn("could not restore shop", "shop", sh.ShopName, "error", err)
			}
		}
		slog.Info("session restored", "shops", len(saved))
	} else {
		houseShops := []struct{ id, player, name, logo string }{
			{"house_mira", "Mira", "Mira's Corner", "🏮"},
			{"house_odell", "Odell", "Odell & Sons", "🏪"},
		}
		for _, h := range houseShops {
			if _, err := sess.Join(cfg.RoomCode, h.id, h.player, h.name, h.logo); err != nil {
				slog.Error("could not seat house player", "player", h.player, "error", err)
			}
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn("SHOPFRONT_ADMIN_KEY not set — admin POST endpoints will be disabled")
	}
	apiServer := &api.Server{
		Session:  sess,
		DB:       db,
		Port:     cfg.Port,
		AdminKey: cfg.AdminKey,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sess.StartRound()

	fmt.Printf("\nThe street is open: room code %s, round length %ds.\n", cfg.RoomCode, cfg.RoundSeconds)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.Port)
	fmt.Println("Hosting session... (Ctrl+C to stop)")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	// Final save on shutdown.
	snap := sess.Snapshot()
	shops := make([]*shop.State, 0, len(snap.Players))
	for _, p := range snap.Players {
		if sh, ok := sess.Shop(p.PlayerID); ok {
			shops = append(shops, sh)
		}
	}
	if err := db.SaveSnapshot(snapshotKey, cfg.RoomCode, shops); err != nil {
		slog.Error("final save failed", "error", err)
	}
	if err := db.SaveEvents(snap.Round, snap.RecentEvents); err != nil {
		slog.Error("event log save failed", "error", err)
	}

	fmt.Println("Session stopped. Shop states saved.")
}
