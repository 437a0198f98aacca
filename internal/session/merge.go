package session

import "github.com/talgya/shopfront/internal/customer"

// MergeQueue reconciles an incoming snapshot queue into the local one.
// The merge is additive by customer id: local entries are kept in order,
// and incoming cards are appended only when their id is not already queued.
// Never a wholesale replace. The session filters out customers it has
// already served before calling this.
func MergeQueue(local, incoming []*customer.Card) []*customer.Card {
	seen := make(map[string]bool, len(local))
	merged := make([]*customer.Card, 0, len(local)+len(incoming))
	for _, c := range local {
		if c == nil || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		merged = append(merged, c)
	}
	for _, c := range incoming {
		if c == nil || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		merged = append(merged, c)
	}
	return merged
}
