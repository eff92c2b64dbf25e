// Package driver bridges a netiface.Interface to a real network
// interface using raw Ethernet sockets. It is the "physical medium"
// collaborator spec.md §1 places out of scope for the CORE, built the
// way other_examples/25b45dfd_mdlayher-arp__server.go.go builds its ARP
// Server: open a raw socket on a named interface, run a read pump that
// feeds frames to the CORE, and a write pump that drains frames the
// CORE produced.
package driver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/mdlayher/raw"
	"github.com/sirupsen/logrus"

	coreethernet "github.com/therealutkarshpriyadarshi/routerd/internal/ethernet"
	"github.com/therealutkarshpriyadarshi/routerd/internal/netiface"
	"github.com/therealutkarshpriyadarshi/routerd/internal/netutil"
)

// Bridge pumps frames between a real network interface and a CORE
// netiface.Interface. It owns the goroutines the CORE itself never
// starts (spec.md §5: "there is no internal thread ... I/O progresses
// only when the host calls ...").
type Bridge struct {
	conn  net.PacketConn
	iface *netiface.Interface
	bufs  *netutil.BufferPool
	log   *logrus.Entry
}

// Open binds a raw Ethernet socket to the named system interface (e.g.
// "eth0") and wraps it with iface, the CORE component that will process
// frames seen on that link. Requires CAP_NET_RAW on Linux.
func Open(ifaceName string, iface *netiface.Interface, log *logrus.Entry) (*Bridge, error) {
	nif, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return nil, fmt.Errorf("driver: lookup interface %q: %w", ifaceName, err)
	}

	// ETH_P_ALL: this bridge carries both ARP and IPv4 frames, so it
	// cannot bind to a single EtherType the way a protocol-specific
	// listener would.
	conn, err := raw.ListenPacket(nif, syscall.SOCK_RAW, syscall.ETH_P_ALL)
	if err != nil {
		return nil, fmt.Errorf("driver: open raw socket on %q: %w", ifaceName, err)
	}

	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Bridge{
		conn:  conn,
		iface: iface,
		bufs:  netutil.NewBufferPool(coreethernet.MaxFrameSize),
		log:   log.WithField("iface", ifaceName),
	}, nil
}

// Close releases the underlying raw socket.
func (b *Bridge) Close() error {
	return b.conn.Close()
}

// ReadPump reads raw frames off the wire and feeds them to the CORE's
// RecvFrame until ctx is canceled (checked between reads) or the socket
// is closed. Other read errors are logged and the loop continues.
func (b *Bridge) ReadPump(ctx context.Context) error {
	buf := make([]byte, coreethernet.MaxFrameSize)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		n, _, err := b.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			b.log.WithError(err).Debug("driver: read error")
			continue
		}

		frame, err := coreethernet.Parse(buf[:n])
		if err != nil {
			b.log.WithError(err).Debug("driver: dropping unparsable frame")
			continue
		}

		b.iface.RecvFrame(frame)
	}
}

// DrainTX dequeues every frame MaybeSend currently has available and
// writes each to the wire, addressed by its own destination MAC.
func (b *Bridge) DrainTX() error {
	for {
		frame, ok := b.iface.MaybeSend()
		if !ok {
			return nil
		}

		scratch := b.bufs.Get()
		out := frame.SerializeInto(scratch)

		dst := &raw.Addr{HardwareAddr: net.HardwareAddr(frame.Destination[:])}
		if _, err := b.conn.WriteTo(out, dst); err != nil {
			b.bufs.Put(scratch)
			return fmt.Errorf("driver: write frame: %w", err)
		}
		b.bufs.Put(scratch)
	}
}
