// Package ipv4 implements the IPv4 datagram codec (RFC 791): parsing,
// serialization, and header checksum recomputation, byte-exact per
// spec.md §6.2. Fragmentation fields are represented (so the codec
// stays general) but the router CORE never fragments or reassembles —
// that is an explicit Non-goal.
package ipv4

import (
	"encoding/binary"
	"fmt"

	"github.com/therealutkarshpriyadarshi/routerd/internal/addr"
)

const (
	Version = 4

	// MinHeaderLength is the minimum IPv4 header length in bytes.
	MinHeaderLength = 20

	// MaxHeaderLength is the maximum IPv4 header length in bytes (60 with options).
	MaxHeaderLength = 60

	// MaxDatagramSize is the maximum IPv4 datagram size in bytes.
	MaxDatagramSize = 65535

	// DefaultTTL is a reasonable default TTL for newly constructed datagrams.
	DefaultTTL = 64
)

// Flags are the 3 flag bits of the IPv4 header.
type Flags uint8

const (
	FlagReserved      Flags = 1 << 2
	FlagDontFragment  Flags = 1 << 1
	FlagMoreFragments Flags = 1 << 0
)

// Protocol is the IPv4 header's protocol field.
type Protocol uint8

const (
	ProtocolICMP Protocol = 1
	ProtocolTCP  Protocol = 6
	ProtocolUDP  Protocol = 17
)

// Datagram is a parsed IPv4 datagram, per spec.md §3 (InternetDatagram).
// Destination, TTL, and Checksum are the three fields the CORE touches;
// the rest round-trip unmodified through forwarding.
type Datagram struct {
	IHL            uint8
	DSCP           uint8
	ECN            uint8
	TotalLength    uint16
	Identification uint16
	Flags          Flags
	FragmentOffset uint16
	TTL            uint8
	Protocol       Protocol
	Checksum       uint16
	Source         addr.Address
	Destination    addr.Address
	Options        []byte
	Payload        []byte
}

// Parse parses an IPv4 datagram from raw bytes.
func Parse(data []byte) (Datagram, error) {
	if len(data) < MinHeaderLength {
		return Datagram{}, fmt.Errorf("ipv4: datagram too short: %d bytes", len(data))
	}

	var d Datagram
	versionIHL := data[0]
	version := versionIHL >> 4
	d.IHL = versionIHL & 0x0f

	if version != Version {
		return Datagram{}, fmt.Errorf("ipv4: invalid version %d", version)
	}
	if d.IHL < 5 {
		return Datagram{}, fmt.Errorf("ipv4: invalid IHL %d", d.IHL)
	}

	headerLen := int(d.IHL) * 4
	if len(data) < headerLen {
		return Datagram{}, fmt.Errorf("ipv4: datagram shorter than header: %d < %d", len(data), headerLen)
	}

	dscpECN := data[1]
	d.DSCP = dscpECN >> 2
	d.ECN = dscpECN & 0x03

	d.TotalLength = binary.BigEndian.Uint16(data[2:4])
	if int(d.TotalLength) > len(data) {
		return Datagram{}, fmt.Errorf("ipv4: total length %d exceeds buffer %d", d.TotalLength, len(data))
	}
	if int(d.TotalLength) < headerLen {
		return Datagram{}, fmt.Errorf("ipv4: total length %d shorter than header %d", d.TotalLength, headerLen)
	}

	d.Identification = binary.BigEndian.Uint16(data[4:6])

	flagsFrag := binary.BigEndian.Uint16(data[6:8])
	d.Flags = Flags(flagsFrag >> 13)
	d.FragmentOffset = flagsFrag & 0x1fff

	d.TTL = data[8]
	d.Protocol = Protocol(data[9])
	d.Checksum = binary.BigEndian.Uint16(data[10:12])

	var src, dst [4]byte
	copy(src[:], data[12:16])
	d.Source = addr.FromBytes(src)
	copy(dst[:], data[16:20])
	d.Destination = addr.FromBytes(dst)

	if d.IHL > 5 {
		d.Options = append([]byte(nil), data[20:headerLen]...)
	}

	d.Payload = append([]byte(nil), data[headerLen:d.TotalLength]...)

	return d, nil
}

// Serialize renders the datagram to bytes, recomputing IHL, TotalLength,
// and Checksum from the current field values.
func (d *Datagram) Serialize() ([]byte, error) {
	headerLen := MinHeaderLength
	if len(d.Options) > 0 {
		optLen := len(d.Options)
		if optLen%4 != 0 {
			optLen = (optLen/4 + 1) * 4
		}
		headerLen += optLen
	}
	if headerLen > MaxHeaderLength {
		return nil, fmt.Errorf("ipv4: header too long: %d bytes", headerLen)
	}
	d.IHL = uint8(headerLen / 4)

	totalLen := headerLen + len(d.Payload)
	if totalLen > MaxDatagramSize {
		return nil, fmt.Errorf("ipv4: datagram too large: %d bytes", totalLen)
	}
	d.TotalLength = uint16(totalLen)

	buf := make([]byte, totalLen)
	buf[0] = (Version << 4) | d.IHL
	buf[1] = (d.DSCP << 2) | d.ECN
	binary.BigEndian.PutUint16(buf[2:4], d.TotalLength)
	binary.BigEndian.PutUint16(buf[4:6], d.Identification)
	flagsFrag := (uint16(d.Flags) << 13) | (d.FragmentOffset & 0x1fff)
	binary.BigEndian.PutUint16(buf[6:8], flagsFrag)
	buf[8] = d.TTL
	buf[9] = uint8(d.Protocol)
	buf[10], buf[11] = 0, 0

	src := d.Source.Bytes()
	copy(buf[12:16], src[:])
	dst := d.Destination.Bytes()
	copy(buf[16:20], dst[:])

	if len(d.Options) > 0 {
		copy(buf[20:], d.Options)
		for i := 20 + len(d.Options); i < headerLen; i++ {
			buf[i] = 0
		}
	}

	d.Checksum = Checksum(buf[:headerLen])
	binary.BigEndian.PutUint16(buf[10:12], d.Checksum)

	copy(buf[headerLen:], d.Payload)

	return buf, nil
}

// RecomputeChecksum recomputes the header checksum field in place,
// returning the new value. This is the operation spec.md §4.2.3 step 3
// calls for after decrementing TTL.
func (d *Datagram) RecomputeChecksum() uint16 {
	headerLen := int(d.IHL) * 4
	if headerLen < MinHeaderLength {
		headerLen = MinHeaderLength
	}
	buf := make([]byte, headerLen)
	buf[0] = (Version << 4) | d.IHL
	buf[1] = (d.DSCP << 2) | d.ECN
	binary.BigEndian.PutUint16(buf[2:4], d.TotalLength)
	binary.BigEndian.PutUint16(buf[4:6], d.Identification)
	flagsFrag := (uint16(d.Flags) << 13) | (d.FragmentOffset & 0x1fff)
	binary.BigEndian.PutUint16(buf[6:8], flagsFrag)
	buf[8] = d.TTL
	buf[9] = uint8(d.Protocol)
	buf[10], buf[11] = 0, 0
	src := d.Source.Bytes()
	copy(buf[12:16], src[:])
	dst := d.Destination.Bytes()
	copy(buf[16:20], dst[:])
	if len(d.Options) > 0 {
		copy(buf[20:], d.Options)
	}

	d.Checksum = Checksum(buf)
	return d.Checksum
}

// VerifyChecksum reports whether the datagram's stored checksum is
// correct for its current header field values.
func (d *Datagram) VerifyChecksum() bool {
	want := d.Checksum
	got := d.RecomputeChecksum()
	d.Checksum = want
	return got == want
}

func (d Datagram) String() string {
	return fmt.Sprintf("IPv4{%s -> %s ttl=%d proto=%d len=%d}", d.Source, d.Destination, d.TTL, d.Protocol, d.TotalLength)
}

// New creates a new IPv4 datagram with default header values.
func New(src, dst addr.Address, protocol Protocol, payload []byte) Datagram {
	return Datagram{
		IHL:         5,
		TTL:         DefaultTTL,
		Protocol:    protocol,
		Source:      src,
		Destination: dst,
		Payload:     payload,
	}
}
