// Package ethernet implements Ethernet II framing: the MAC address type,
// frame header, and byte-exact parse/serialize, per spec.md §6.2.
package ethernet

import (
	"encoding/binary"
	"fmt"
	"net"
)

// Ethernet II frame format:
// +-------------------+-------------------+----------+---------+
// | Destination (6B)  | Source (6B)       | Type (2B)| Payload |
// +-------------------+-------------------+----------+---------+

const (
	// HeaderSize is the size of an Ethernet header in bytes.
	HeaderSize = 14

	// MinPayloadSize is the minimum payload size per IEEE 802.3 (46 bytes).
	MinPayloadSize = 46

	// MaxPayloadSize is the maximum payload size, the Ethernet MTU.
	MaxPayloadSize = 1500

	// MaxFrameSize is HeaderSize + MaxPayloadSize.
	MaxFrameSize = HeaderSize + MaxPayloadSize
)

// Type is the EtherType field of a frame header.
type Type uint16

// EtherType values relevant to this router, per spec.md §6.3.
const (
	TypeIPv4 Type = 0x0800
	TypeARP  Type = 0x0806
)

func (t Type) String() string {
	switch t {
	case TypeIPv4:
		return "IPv4"
	case TypeARP:
		return "ARP"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(t))
	}
}

// MAC is a 48-bit Ethernet hardware address.
type MAC [6]byte

// Broadcast is the special all-ones address that signals broadcast,
// per spec.md §3 (ETHERNET_BROADCAST).
var Broadcast = MAC{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// Zero is the unspecified hardware address, used as the placeholder
// target MAC in an ARP request per spec.md §4.1.1.
var Zero = MAC{}

func (m MAC) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// IsBroadcast reports whether m is the broadcast address.
func (m MAC) IsBroadcast() bool {
	return m == Broadcast
}

// ParseMAC parses a colon-separated MAC address string (e.g.
// "00:11:22:33:44:55").
func ParseMAC(s string) (MAC, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return MAC{}, fmt.Errorf("ethernet: %w", err)
	}
	if len(hw) != 6 {
		return MAC{}, fmt.Errorf("ethernet: invalid MAC address length: %d", len(hw))
	}
	var mac MAC
	copy(mac[:], hw)
	return mac, nil
}

// Frame is a parsed Ethernet II frame: header plus opaque payload.
type Frame struct {
	Destination MAC
	Source      MAC
	EtherType   Type
	Payload     []byte
}

// Parse parses an Ethernet frame from raw bytes. It does not validate
// or strip any FCS; that is the physical medium's concern, per
// spec.md §6.1.
func Parse(data []byte) (Frame, error) {
	if len(data) < HeaderSize {
		return Frame{}, fmt.Errorf("ethernet: frame too short: %d bytes", len(data))
	}

	var f Frame
	copy(f.Destination[:], data[0:6])
	copy(f.Source[:], data[6:12])
	f.EtherType = Type(binary.BigEndian.Uint16(data[12:14]))
	f.Payload = append([]byte(nil), data[HeaderSize:]...)
	return f, nil
}

// Serialize renders the frame to bytes, padding the payload to
// MinPayloadSize with zeroes when required by the standard.
func (f Frame) Serialize() []byte {
	payloadLen := len(f.Payload)
	if payloadLen < MinPayloadSize {
		payloadLen = MinPayloadSize
	}

	out := make([]byte, HeaderSize+payloadLen)
	copy(out[0:6], f.Destination[:])
	copy(out[6:12], f.Source[:])
	binary.BigEndian.PutUint16(out[12:14], uint16(f.EtherType))
	copy(out[HeaderSize:], f.Payload)
	return out
}

// SerializeInto writes the frame into scratch, reusing its backing
// array when it is large enough, and returns the result trimmed to the
// frame's actual length. Intended for callers pulling scratch buffers
// from a netutil.BufferPool to avoid an allocation per frame.
func (f Frame) SerializeInto(scratch []byte) []byte {
	payloadLen := len(f.Payload)
	if payloadLen < MinPayloadSize {
		payloadLen = MinPayloadSize
	}
	total := HeaderSize + payloadLen

	var out []byte
	if cap(scratch) >= total {
		out = scratch[:total]
	} else {
		out = make([]byte, total)
	}

	copy(out[0:6], f.Destination[:])
	copy(out[6:12], f.Source[:])
	binary.BigEndian.PutUint16(out[12:14], uint16(f.EtherType))
	copy(out[HeaderSize:], f.Payload)
	for i := HeaderSize + len(f.Payload); i < total; i++ {
		out[i] = 0
	}
	return out
}

func (f Frame) String() string {
	return fmt.Sprintf("Ethernet{dst=%s src=%s type=%s len=%d}", f.Destination, f.Source, f.EtherType, len(f.Payload))
}
