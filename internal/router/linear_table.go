package router

import "github.com/therealutkarshpriyadarshi/routerd/internal/addr"

// LinearTable is an append-only, unordered multiset of routing entries
// scanned linearly on every lookup, per spec.md §4.2.4 ("the scan is
// linear; no trie is required"). Adapted from the teacher's
// ip.RoutingTable.Lookup, but keyed on (prefix, prefixLength) pairs
// instead of a dotted destination/netmask pair, and using addr.Option
// for next-hop rather than a sentinel 0.0.0.0 gateway — see
// router.Entry's doc comment and DESIGN.md Open Question disposition.
type LinearTable struct {
	entries []Entry
}

// NewLinearTable creates an empty linear-scan routing table.
func NewLinearTable() *LinearTable {
	return &LinearTable{}
}

// AddRoute appends an entry. No validation beyond the Entry's own
// PrefixLength range, no deduplication, per spec.md §4.2.2.
func (t *LinearTable) AddRoute(e Entry) {
	t.entries = append(t.entries, e)
}

// Lookup scans all entries in insertion order and returns the one with
// the greatest PrefixLength among those matching dst, per spec.md
// §4.2.4.
func (t *LinearTable) Lookup(dst addr.Address) (Entry, bool) {
	best := Entry{}
	found := false
	bestLen := -1

	for _, e := range t.entries {
		if !e.matches(dst) {
			continue
		}
		if int(e.PrefixLength) > bestLen {
			best = e
			bestLen = int(e.PrefixLength)
			found = true
		}
	}

	return best, found
}
