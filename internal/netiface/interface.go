// Package netiface implements the link-layer Network Interface:
// ARP-resolving outbound IPv4-over-Ethernet delivery with a timed cache
// and pending-datagram queue, and inbound frame handling (IPv4 delivery,
// ARP learning and reply), per spec.md §4.1.
//
// An Interface is single-threaded and cooperative (spec.md §5): every
// method runs to completion without yielding, time only advances when
// Tick is called, and the caller is responsible for external
// synchronization if an Interface is ever shared across goroutines.
package netiface

import (
	"github.com/sirupsen/logrus"

	"github.com/therealutkarshpriyadarshi/routerd/internal/addr"
	"github.com/therealutkarshpriyadarshi/routerd/internal/arp"
	"github.com/therealutkarshpriyadarshi/routerd/internal/ethernet"
	"github.com/therealutkarshpriyadarshi/routerd/internal/ipv4"
)

// Interface is a single network interface: its own Ethernet and IPv4
// address, an ARP cache with fused pending queues, a TX queue, and an
// RX queue of IPv4 datagrams already delivered and awaiting a host (or
// router.Router) to drain them.
type Interface struct {
	mac ethernet.MAC
	ip  addr.Address

	cache *cache
	tx    frameQueue
	rx    datagramQueue

	log *logrus.Entry
}

// Option configures an Interface at construction time.
type Option func(*Interface)

// WithLogger attaches a logger used only for debug-level observability;
// it never changes observable protocol behavior (spec.md §7).
func WithLogger(log *logrus.Entry) Option {
	return func(i *Interface) {
		if log != nil {
			i.log = log
		}
	}
}

// New constructs a Interface with its own Ethernet and IPv4 address.
func New(mac ethernet.MAC, ip addr.Address, opts ...Option) *Interface {
	i := &Interface{
		mac:   mac,
		ip:    ip,
		cache: newCache(),
		log:   logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// MAC returns this interface's Ethernet address.
func (i *Interface) MAC() ethernet.MAC { return i.mac }

// IP returns this interface's IPv4 address.
func (i *Interface) IP() addr.Address { return i.ip }

// SendDatagram looks up nextHopIP in the ARP cache and either sends the
// datagram immediately (cache hit), buffers it pending resolution, or
// starts a new resolution (first use of nextHopIP), per spec.md §4.1.1.
func (i *Interface) SendDatagram(dgram ipv4.Datagram, nextHopIP addr.Address) {
	switch state, entry := i.cache.lookup(nextHopIP); state {
	case lookupResolved:
		i.sendIPv4Frame(dgram, entry.mac)

	case lookupPending:
		// Do not refresh the TTL or re-emit a request: bounds ARP
		// chatter (spec.md §4.1.1, Open Question 2).
		entry.pending.push(dgram)

	default: // lookupAbsent
		i.cache.insertPending(nextHopIP, dgram)
		i.sendARPRequest(nextHopIP)
	}
}

func (i *Interface) sendIPv4Frame(dgram ipv4.Datagram, dst ethernet.MAC) {
	payload, err := dgram.Serialize()
	if err != nil {
		// Not externally observable: SendDatagram never fails
		// (spec.md §4.1.5). A datagram that cannot serialize itself
		// is a programmer error from the caller's construction of it.
		i.log.WithError(err).Debug("netiface: dropping datagram that failed to serialize")
		return
	}
	i.tx.push(ethernet.Frame{
		Destination: dst,
		Source:      i.mac,
		EtherType:   ethernet.TypeIPv4,
		Payload:     payload,
	})
}

func (i *Interface) sendARPRequest(targetIP addr.Address) {
	msg := arp.NewRequest(i.mac, i.ip, targetIP)
	i.tx.push(ethernet.Frame{
		Destination: ethernet.Broadcast,
		Source:      i.mac,
		EtherType:   ethernet.TypeARP,
		Payload:     msg.Serialize(),
	})
}

// RecvFrame processes one inbound Ethernet frame. IPv4 payloads are
// both returned and enqueued on the RX side for router.Router to drain
// via MaybeReceive; ARP payloads update the cache and may generate a
// reply, but are never surfaced as a datagram, per spec.md §4.1.2.
func (i *Interface) RecvFrame(frame ethernet.Frame) (ipv4.Datagram, bool) {
	if frame.Destination != i.mac && !frame.Destination.IsBroadcast() {
		i.log.WithField("dst", frame.Destination).Debug("netiface: dropping frame addressed to another MAC")
		return ipv4.Datagram{}, false
	}

	switch frame.EtherType {
	case ethernet.TypeIPv4:
		dgram, err := ipv4.Parse(frame.Payload)
		if err != nil {
			i.log.WithError(err).Debug("netiface: dropping unparsable IPv4 payload")
			return ipv4.Datagram{}, false
		}
		i.rx.push(dgram)
		return dgram, true

	case ethernet.TypeARP:
		msg, err := arp.Parse(frame.Payload)
		if err != nil {
			i.log.WithError(err).Debug("netiface: dropping unparsable ARP payload")
			return ipv4.Datagram{}, false
		}
		i.handleARP(msg)
		return ipv4.Datagram{}, false

	default:
		i.log.WithField("type", frame.EtherType).Debug("netiface: dropping frame with unsupported EtherType")
		return ipv4.Datagram{}, false
	}
}

func (i *Interface) handleARP(msg arp.Message) {
	state, entry := i.cache.lookup(msg.SenderIP)

	switch state {
	case lookupPending:
		// Drain the pending queue before resolving, so every queued
		// datagram is emitted in this call, in FIFO order, before any
		// reply frame generated below (spec.md §5 ordering guarantee).
		for {
			d, ok := entry.pending.pop()
			if !ok {
				break
			}
			i.sendIPv4Frame(d, msg.SenderMAC)
		}
		i.cache.resolve(msg.SenderIP, msg.SenderMAC)

	default: // lookupAbsent or lookupResolved: upsert MAC, refresh TTL.
		i.cache.resolve(msg.SenderIP, msg.SenderMAC)
	}

	if msg.IsRequest() && msg.TargetIP == i.ip {
		reply := arp.NewReply(i.mac, i.ip, msg.SenderMAC, msg.SenderIP)
		i.tx.push(ethernet.Frame{
			Destination: msg.SenderMAC,
			Source:      i.mac,
			EtherType:   ethernet.TypeARP,
			Payload:     reply.Serialize(),
		})
	}
}

// Tick advances the ARP cache's clock by ms milliseconds, expiring (and
// silently dropping the buffered datagrams of) any entry whose TTL
// reaches zero, per spec.md §4.1.3.
func (i *Interface) Tick(ms int64) {
	dropped := i.cache.tick(ms)
	if dropped > 0 {
		i.log.WithField("count", dropped).Debug("netiface: dropped pending datagrams on ARP expiry")
	}
}

// MaybeSend dequeues and returns the oldest frame on the TX queue, or
// (zero, false) if it is empty, per spec.md §4.1.4.
func (i *Interface) MaybeSend() (ethernet.Frame, bool) {
	return i.tx.pop()
}

// MaybeReceive dequeues and returns the oldest IPv4 datagram delivered
// by RecvFrame and not yet claimed, or (zero, false) if none is
// waiting. This is the operation router.Router.Route drains, per
// spec.md §4.2.3.
func (i *Interface) MaybeReceive() (ipv4.Datagram, bool) {
	return i.rx.pop()
}
