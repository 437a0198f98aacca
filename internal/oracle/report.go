package oracle

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Standing is one player's line in the end-of-round report.
type Standing struct {
	PlayerName string `json:"player_name"`
	ShopName   string `json:"shop_name"`
	Funds      int    `json:"funds"`
	Profit     int    `json:"profit"`
	Reputation int    `json:"reputation"`
	Level      int    `json:"level"`
}

const reportSystem = `You write the "Market Gazette", a tongue-in-cheek trade paper
covering a street of competing shops. Given the round's standings and the day's
event, write a short markdown report: a headline, one paragraph of color, and
the standings table verbatim. Keep it under 200 words.`

// Summarize produces the markdown round report. On any oracle failure the
// deterministic standings table is returned instead, so the report endpoint
// always has content.
func (c *Client) Summarize(roster []Standing, eventName string) string {
	table := standingsTable(roster, eventName)

	if !c.Enabled() {
		return table
	}

	report, err := c.Complete(reportSystem, table, 500)
	if err != nil {
		slog.Warn("round report generation failed, using standings table", "error", err)
		return table
	}
	return report
}

// standingsTable renders the fallback report: standings sorted by funds.
func standingsTable(roster []Standing, eventName string) string {
	sorted := make([]Standing, len(roster))
	copy(sorted, roster)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Funds > sorted[j].Funds
	})

	var b strings.Builder
	fmt.Fprintf(&b, "## Market Gazette\n\nToday's conditions: %s\n\n", eventName)
	b.WriteString("| # | Shop | Owner | Funds | Round Profit | Rep | Lv |\n")
	b.WriteString("|---|------|-------|-------|--------------|-----|----|\n")
	for i, s := range sorted {
		fmt.Fprintf(&b, "| %d | %s | %s | %d | %d | %d | %d |\n",
			i+1, s.ShopName, s.PlayerName, s.Funds, s.Profit, s.Reputation, s.Level)
	}
	return b.String()
}
