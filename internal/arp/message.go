// Package arp implements the Address Resolution Protocol for IPv4 over
// Ethernet (RFC 826), byte-exact per spec.md §6.2.
package arp

import (
	"encoding/binary"
	"fmt"

	"github.com/therealutkarshpriyadarshi/routerd/internal/addr"
	"github.com/therealutkarshpriyadarshi/routerd/internal/ethernet"
)

// ARP packet format (RFC 826), 28 bytes for Ethernet/IPv4:
//  0                   1                   2                   3
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |        Hardware Type          |        Protocol Type          |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// | HW Addr Len | Proto Addr Len|          Operation            |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                 Sender Hardware Address (6 bytes)             |
// |                 Sender Protocol Address (4 bytes)             |
// |                 Target Hardware Address (6 bytes)             |
// |                 Target Protocol Address (4 bytes)             |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+

const (
	// Size is the wire size of an ARP message for Ethernet/IPv4.
	Size = 28

	hardwareTypeEthernet = 1
	protocolTypeIPv4     = uint16(ethernet.TypeIPv4)
)

// Operation is the ARP opcode, per spec.md §6.3.
type Operation uint16

const (
	OpRequest Operation = 1
	OpReply   Operation = 2
)

func (op Operation) String() string {
	switch op {
	case OpRequest:
		return "REQUEST"
	case OpReply:
		return "REPLY"
	default:
		return fmt.Sprintf("Unknown(%d)", uint16(op))
	}
}

// Message is a parsed ARP message, per spec.md §3 (ARPMessage).
type Message struct {
	Operation      Operation
	SenderMAC      ethernet.MAC
	SenderIP       addr.Address
	TargetMAC      ethernet.MAC
	TargetIP       addr.Address
}

// Parse parses an ARP message from raw bytes. Unsupported hardware or
// protocol types and malformed lengths are reported as errors; callers
// in the CORE must treat these as silent drops (spec.md §7).
func Parse(data []byte) (Message, error) {
	if len(data) < Size {
		return Message{}, fmt.Errorf("arp: message too short: %d bytes", len(data))
	}

	hwType := binary.BigEndian.Uint16(data[0:2])
	protoType := binary.BigEndian.Uint16(data[2:4])
	hwLen := data[4]
	protoLen := data[5]

	if hwType != hardwareTypeEthernet {
		return Message{}, fmt.Errorf("arp: unsupported hardware type %d", hwType)
	}
	if protoType != protocolTypeIPv4 {
		return Message{}, fmt.Errorf("arp: unsupported protocol type 0x%04x", protoType)
	}
	if hwLen != 6 {
		return Message{}, fmt.Errorf("arp: invalid hardware address length %d", hwLen)
	}
	if protoLen != 4 {
		return Message{}, fmt.Errorf("arp: invalid protocol address length %d", protoLen)
	}

	var m Message
	m.Operation = Operation(binary.BigEndian.Uint16(data[6:8]))
	copy(m.SenderMAC[:], data[8:14])
	var senderIP, targetIP [4]byte
	copy(senderIP[:], data[14:18])
	m.SenderIP = addr.FromBytes(senderIP)
	copy(m.TargetMAC[:], data[18:24])
	copy(targetIP[:], data[24:28])
	m.TargetIP = addr.FromBytes(targetIP)

	return m, nil
}

// Serialize renders the message to its 28-byte wire form.
func (m Message) Serialize() []byte {
	data := make([]byte, Size)

	binary.BigEndian.PutUint16(data[0:2], hardwareTypeEthernet)
	binary.BigEndian.PutUint16(data[2:4], protocolTypeIPv4)
	data[4] = 6
	data[5] = 4
	binary.BigEndian.PutUint16(data[6:8], uint16(m.Operation))

	copy(data[8:14], m.SenderMAC[:])
	senderIP := m.SenderIP.Bytes()
	copy(data[14:18], senderIP[:])
	copy(data[18:24], m.TargetMAC[:])
	targetIP := m.TargetIP.Bytes()
	copy(data[24:28], targetIP[:])

	return data
}

func (m Message) String() string {
	return fmt.Sprintf("ARP{%s sender=%s(%s) target=%s(%s)}", m.Operation, m.SenderIP, m.SenderMAC, m.TargetIP, m.TargetMAC)
}

// NewRequest builds an ARP request: "who has targetIP? tell senderIP",
// per spec.md §4.1.1 (target MAC is the zero/unspecified address).
func NewRequest(senderMAC ethernet.MAC, senderIP, targetIP addr.Address) Message {
	return Message{
		Operation: OpRequest,
		SenderMAC: senderMAC,
		SenderIP:  senderIP,
		TargetMAC: ethernet.Zero,
		TargetIP:  targetIP,
	}
}

// NewReply builds an ARP reply: "targetIP is at targetMAC", per
// spec.md §4.1.2.
func NewReply(senderMAC ethernet.MAC, senderIP addr.Address, targetMAC ethernet.MAC, targetIP addr.Address) Message {
	return Message{
		Operation: OpReply,
		SenderMAC: senderMAC,
		SenderIP:  senderIP,
		TargetMAC: targetMAC,
		TargetIP:  targetIP,
	}
}

// IsRequest reports whether this message is an ARP request.
func (m Message) IsRequest() bool { return m.Operation == OpRequest }

// IsReply reports whether this message is an ARP reply.
func (m Message) IsReply() bool { return m.Operation == OpReply }
