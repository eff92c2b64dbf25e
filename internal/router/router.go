// Package router implements the IPv4 forwarding plane: a set of network
// interfaces and a longest-prefix-match routing table, enforcing TTL
// decrement, checksum recomputation, and drop-on-no-match, per
// spec.md §4.2.
package router

import (
	"github.com/sirupsen/logrus"

	"github.com/therealutkarshpriyadarshi/routerd/internal/addr"
	"github.com/therealutkarshpriyadarshi/routerd/internal/ipv4"
	"github.com/therealutkarshpriyadarshi/routerd/internal/netiface"
)

// Router owns an append-only set of interfaces (by stable index) and an
// append-only routing table. It never drives Tick or MaybeSend on its
// interfaces — that is the host's job (spec.md §4.2.3).
type Router struct {
	interfaces []*netiface.Interface
	table      Table
	log        *logrus.Entry
}

// Option configures a Router at construction time.
type Option func(*Router)

// WithTable overrides the routing table implementation (default
// LinearTable); pass NewTrieTable() for the trie-backed substitute.
func WithTable(t Table) Option {
	return func(r *Router) { r.table = t }
}

// WithLogger attaches a logger for debug-level observability only.
func WithLogger(log *logrus.Entry) Option {
	return func(r *Router) {
		if log != nil {
			r.log = log
		}
	}
}

// New constructs an empty Router.
func New(opts ...Option) *Router {
	r := &Router{
		table: NewLinearTable(),
		log:   logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddInterface appends iface and returns its stable zero-based index,
// per spec.md §4.2.1.
func (r *Router) AddInterface(iface *netiface.Interface) int {
	r.interfaces = append(r.interfaces, iface)
	return len(r.interfaces) - 1
}

// Interface returns the interface previously registered at index n.
func (r *Router) Interface(n int) *netiface.Interface {
	return r.interfaces[n]
}

// NumInterfaces returns how many interfaces have been registered.
func (r *Router) NumInterfaces() int {
	return len(r.interfaces)
}

// AddRoute appends a routing entry, per spec.md §4.2.2. No validation
// of prefixLength beyond its type's range, no deduplication.
func (r *Router) AddRoute(prefix addr.Address, prefixLength uint8, nextHop addr.Option, interfaceNum int) {
	r.table.AddRoute(Entry{
		Prefix:       prefix,
		PrefixLength: prefixLength,
		NextHop:      nextHop,
		InterfaceNum: interfaceNum,
	})
}

// Route drains every interface's RX side in index order and forwards
// each datagram per spec.md §4.2.3: longest-prefix-match lookup, drop
// on no match, TTL decrement with drop at 0/1, checksum recomputation,
// and a SendDatagram call to the chosen egress interface.
func (r *Router) Route() {
	for _, iface := range r.interfaces {
		for {
			dgram, ok := iface.MaybeReceive()
			if !ok {
				break
			}
			r.forward(dgram)
		}
	}
}

func (r *Router) forward(dgram ipv4.Datagram) {
	entry, ok := r.table.Lookup(dgram.Destination)
	if !ok {
		r.log.WithField("dst", dgram.Destination).Debug("router: no matching route, dropping")
		return
	}

	if dgram.TTL <= 1 {
		r.log.WithField("dst", dgram.Destination).Debug("router: TTL exhausted, dropping")
		return
	}
	dgram.TTL--
	dgram.RecomputeChecksum()

	nextHop, hasGateway := entry.NextHop.Get()
	if !hasGateway {
		// Directly attached: the datagram's own destination is the
		// next-hop IP, per spec.md §4.2.3 step 4.
		nextHop = dgram.Destination
	}

	if entry.InterfaceNum < 0 || entry.InterfaceNum >= len(r.interfaces) {
		r.log.WithField("iface", entry.InterfaceNum).Debug("router: route points at unknown interface, dropping")
		return
	}

	r.interfaces[entry.InterfaceNum].SendDatagram(dgram, nextHop)
}
