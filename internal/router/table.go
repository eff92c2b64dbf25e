package router

import "github.com/therealutkarshpriyadarshi/routerd/internal/addr"

// Entry is a single routing table entry, per spec.md §3
// (RoutingTableEntry): a prefix/length pair, an optional next hop
// (absent means directly attached — spec.md: "the datagram's final
// destination is used as the next-hop IP"), and the egress interface
// index.
type Entry struct {
	Prefix        addr.Address
	PrefixLength  uint8 // in [0, 32]
	NextHop       addr.Option
	InterfaceNum  int
}

func (e Entry) matches(dst addr.Address) bool {
	return dst.Mask(e.PrefixLength) == e.Prefix.Mask(e.PrefixLength)
}

// Table is the longest-prefix-match routing table contract shared by
// LinearTable and TrieTable (spec.md §9: "a trie is the standard
// substitute ... behavior must be identical on unambiguous tables").
type Table interface {
	AddRoute(e Entry)
	// Lookup returns the entry with the longest matching PrefixLength
	// for dst, or (zero, false) if no entry matches. Ties are broken by
	// insertion order: the first-inserted matching entry of the winning
	// length is returned (spec.md §9, Open Question 3 disposition).
	Lookup(dst addr.Address) (Entry, bool)
}
