package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/therealutkarshpriyadarshi/routerd/internal/addr"
	"github.com/therealutkarshpriyadarshi/routerd/internal/arp"
	"github.com/therealutkarshpriyadarshi/routerd/internal/ethernet"
	"github.com/therealutkarshpriyadarshi/routerd/internal/ipv4"
	"github.com/therealutkarshpriyadarshi/routerd/internal/netiface"
)

func mustParse(t *testing.T, s string) addr.Address {
	t.Helper()
	a, err := addr.Parse(s)
	require.NoError(t, err)
	return a
}

func newRouterWithTwoInterfaces(t *testing.T, table Table) (*Router, *netiface.Interface, *netiface.Interface) {
	i0 := netiface.New(ethernet.MAC{0x02, 0, 0, 0, 0, 0x10}, mustParse(t, "10.0.0.1"))
	i1 := netiface.New(ethernet.MAC{0x02, 0, 0, 0, 0, 0x11}, mustParse(t, "10.1.0.1"))

	r := New(WithTable(table))
	idx0 := r.AddInterface(i0)
	idx1 := r.AddInterface(i1)
	require.Equal(t, 0, idx0)
	require.Equal(t, 1, idx1)

	r.AddRoute(mustParse(t, "10.0.0.0"), 8, addr.None(), idx0)
	r.AddRoute(mustParse(t, "10.1.0.0"), 16, addr.Some(mustParse(t, "10.0.0.7")), idx1)

	return r, i0, i1
}

// S5 — Router LPM + TTL.
func testRouterLPMAndTTL(t *testing.T, table Table) {
	r, i0, i1 := newRouterWithTwoInterfaces(t, table)

	// Pre-resolve the next hop in I1's ARP cache: SendDatagram only
	// yields an IPv4 egress frame on a cache hit, otherwise it yields an
	// ARP request instead (interface.go's lookupAbsent branch).
	nextHopIP := mustParse(t, "10.0.0.7")
	nextHopMAC := ethernet.MAC{0x02, 0, 0, 0, 0, 0x07}
	reply := arp.NewReply(nextHopMAC, nextHopIP, i1.MAC(), i1.IP())
	i1.RecvFrame(ethernet.Frame{
		Destination: i1.MAC(),
		Source:      nextHopMAC,
		EtherType:   ethernet.TypeARP,
		Payload:     reply.Serialize(),
	})

	dgram := ipv4.New(mustParse(t, "9.9.9.9"), mustParse(t, "10.1.2.3"), ipv4.ProtocolUDP, []byte("x"))
	dgram.TTL = 64

	i0.RecvFrame(ethernet.Frame{
		Destination: i0.MAC(),
		Source:      ethernet.MAC{0x02, 0, 0, 0, 0, 0x99},
		EtherType:   ethernet.TypeIPv4,
		Payload:     mustSerialize(t, dgram),
	})

	r.Route()

	frame, ok := i1.MaybeSend()
	require.True(t, ok, "expected an egress frame on I1")
	require.Equal(t, ethernet.TypeIPv4, frame.EtherType)

	got, err := ipv4.Parse(frame.Payload)
	require.NoError(t, err)
	require.EqualValues(t, 63, got.TTL)
	require.True(t, got.VerifyChecksum())

	_, ok = i0.MaybeSend()
	require.False(t, ok)
}

func TestRouterLPMAndTTL_LinearTable(t *testing.T) {
	testRouterLPMAndTTL(t, NewLinearTable())
}

func TestRouterLPMAndTTL_TrieTable(t *testing.T) {
	testRouterLPMAndTTL(t, NewTrieTable())
}

// S6 — TTL drop.
func testRouterTTLDrop(t *testing.T, table Table) {
	r, i0, i1 := newRouterWithTwoInterfaces(t, table)

	dgram := ipv4.New(mustParse(t, "9.9.9.9"), mustParse(t, "10.0.0.5"), ipv4.ProtocolUDP, []byte("x"))
	dgram.TTL = 1

	i0.RecvFrame(ethernet.Frame{
		Destination: i0.MAC(),
		Source:      ethernet.MAC{0x02, 0, 0, 0, 0, 0x99},
		EtherType:   ethernet.TypeIPv4,
		Payload:     mustSerialize(t, dgram),
	})

	r.Route()

	_, ok := i0.MaybeSend()
	require.False(t, ok)
	_, ok = i1.MaybeSend()
	require.False(t, ok)
}

func TestRouterTTLDrop_LinearTable(t *testing.T) {
	testRouterTTLDrop(t, NewLinearTable())
}

func TestRouterTTLDrop_TrieTable(t *testing.T) {
	testRouterTTLDrop(t, NewTrieTable())
}

func TestRouterDropsOnNoMatchingRoute(t *testing.T) {
	r, i0, i1 := newRouterWithTwoInterfaces(t, NewLinearTable())

	dgram := ipv4.New(mustParse(t, "9.9.9.9"), mustParse(t, "172.16.0.1"), ipv4.ProtocolUDP, []byte("x"))
	dgram.TTL = 64

	i0.RecvFrame(ethernet.Frame{
		Destination: i0.MAC(),
		Source:      ethernet.MAC{0x02, 0, 0, 0, 0, 0x99},
		EtherType:   ethernet.TypeIPv4,
		Payload:     mustSerialize(t, dgram),
	})

	r.Route()

	_, ok := i0.MaybeSend()
	require.False(t, ok)
	_, ok = i1.MaybeSend()
	require.False(t, ok)
}

func TestLinearAndTrieTable_TieBreakFirstInsertedWins(t *testing.T) {
	for name, table := range map[string]Table{"linear": NewLinearTable(), "trie": NewTrieTable()} {
		t.Run(name, func(t *testing.T) {
			table.AddRoute(Entry{Prefix: mustParse(t, "10.0.0.0"), PrefixLength: 24, NextHop: addr.None(), InterfaceNum: 0})
			table.AddRoute(Entry{Prefix: mustParse(t, "10.0.0.0"), PrefixLength: 24, NextHop: addr.None(), InterfaceNum: 1})

			e, ok := table.Lookup(mustParse(t, "10.0.0.5"))
			require.True(t, ok)
			require.Equal(t, 0, e.InterfaceNum, "first-inserted entry must win on a duplicate prefix/length")
		})
	}
}

func TestLinearAndTrieTable_LongestPrefixWins(t *testing.T) {
	for name, table := range map[string]Table{"linear": NewLinearTable(), "trie": NewTrieTable()} {
		t.Run(name, func(t *testing.T) {
			table.AddRoute(Entry{Prefix: mustParse(t, "10.0.0.0"), PrefixLength: 8, NextHop: addr.None(), InterfaceNum: 0})
			table.AddRoute(Entry{Prefix: mustParse(t, "10.1.0.0"), PrefixLength: 16, NextHop: addr.Some(mustParse(t, "10.0.0.7")), InterfaceNum: 1})

			e, ok := table.Lookup(mustParse(t, "10.1.2.3"))
			require.True(t, ok)
			require.Equal(t, uint8(16), e.PrefixLength)
			require.Equal(t, 1, e.InterfaceNum)

			e, ok = table.Lookup(mustParse(t, "10.2.2.3"))
			require.True(t, ok)
			require.Equal(t, uint8(8), e.PrefixLength)
			require.Equal(t, 0, e.InterfaceNum)
		})
	}
}

func mustSerialize(t *testing.T, d ipv4.Datagram) []byte {
	t.Helper()
	out, err := (&d).Serialize()
	require.NoError(t, err)
	return out
}
