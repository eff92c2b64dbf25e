package router

import "github.com/therealutkarshpriyadarshi/routerd/internal/addr"

// TrieTable is a binary trie over the 32 bits of an IPv4 address, one
// level per bit with no path compression, offered as the performance substitute spec.md §9
// suggests for the linear scan. Adapted from the teacher's
// ip.TrieRoutingTable: walk the destination's bits from the MSB down,
// remembering the deepest node that carries a route, which is exactly
// longest-prefix-match by construction.
type TrieTable struct {
	root *trieNode
}

type trieNode struct {
	entry    *Entry
	children [2]*trieNode
}

// NewTrieTable creates an empty trie-backed routing table.
func NewTrieTable() *TrieTable {
	return &TrieTable{root: &trieNode{}}
}

// AddRoute inserts an entry at the trie depth given by its
// PrefixLength.
func (t *TrieTable) AddRoute(e Entry) {
	node := t.root
	prefix := e.Prefix.Mask(e.PrefixLength).IPv4Numeric()

	for depth := 0; depth < int(e.PrefixLength); depth++ {
		bit := (prefix >> (31 - depth)) & 1
		if node.children[bit] == nil {
			node.children[bit] = &trieNode{}
		}
		node = node.children[bit]
	}

	if node.entry != nil {
		// Duplicate (prefix, prefixLength): first-inserted wins, to
		// match LinearTable's tie-break (spec.md §9, Open Question 3).
		return
	}
	entryCopy := e
	node.entry = &entryCopy
}

// Lookup walks the trie following dst's bits, tracking the deepest node
// that carries a route — the longest prefix match.
func (t *TrieTable) Lookup(dst addr.Address) (Entry, bool) {
	dstNum := dst.IPv4Numeric()
	node := t.root

	var best *Entry
	if node.entry != nil {
		best = node.entry
	}

	for depth := 0; depth < 32 && node != nil; depth++ {
		bit := (dstNum >> (31 - depth)) & 1
		node = node.children[bit]
		if node != nil && node.entry != nil {
			best = node.entry
		}
	}

	if best == nil {
		return Entry{}, false
	}
	return *best, true
}
