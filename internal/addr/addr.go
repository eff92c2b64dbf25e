// Package addr implements the Address value type: a 32-bit IPv4 address
// with numeric and dotted-quad representations. It is the collaborator
// spec.md §6.1 assumes exists, lifted out of the ARP/IPv4/router CORE so
// those packages only ever trade in Address values, never raw uint32s
// or strings.
package addr

import (
	"encoding/binary"
	"fmt"
	"net"
)

// Address is an IPv4 address stored in network-native numeric form.
type Address struct {
	v uint32
}

// Zero is the unspecified address 0.0.0.0.
var Zero = Address{}

// FromIPv4Numeric builds an Address from a 32-bit unsigned integer.
func FromIPv4Numeric(v uint32) Address {
	return Address{v: v}
}

// FromBytes builds an Address from a 4-byte big-endian slice.
func FromBytes(b [4]byte) Address {
	return Address{v: binary.BigEndian.Uint32(b[:])}
}

// IPv4Numeric returns the address as a 32-bit unsigned integer.
func (a Address) IPv4Numeric() uint32 {
	return a.v
}

// Bytes returns the address as 4 big-endian bytes.
func (a Address) Bytes() [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], a.v)
	return b
}

// IsZero reports whether this is the unspecified address.
func (a Address) IsZero() bool {
	return a.v == 0
}

// String renders the address in dotted-quad form, e.g. "10.0.0.1".
func (a Address) String() string {
	b := a.Bytes()
	return fmt.Sprintf("%d.%d.%d.%d", b[0], b[1], b[2], b[3])
}

// Parse parses a dotted-quad string into an Address.
func Parse(s string) (Address, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return Address{}, fmt.Errorf("addr: invalid IPv4 address %q", s)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return Address{}, fmt.Errorf("addr: %q is not an IPv4 address", s)
	}
	var b [4]byte
	copy(b[:], ip4)
	return FromBytes(b), nil
}

// MustParse is like Parse but panics on error; intended for constants
// and tests, never for parsing untrusted input.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Mask returns the address with only its top prefixLen bits retained,
// the rest zeroed. prefixLen must be in [0, 32].
func (a Address) Mask(prefixLen uint8) Address {
	if prefixLen == 0 {
		return Address{}
	}
	if prefixLen >= 32 {
		return a
	}
	m := ^uint32(0) << (32 - prefixLen)
	return Address{v: a.v & m}
}

// Option represents an optional Address: present (a next-hop gateway)
// or absent (directly attached network, per spec.md §3's
// RoutingTableEntry.next_hop = None meaning).
type Option struct {
	Value Address
	Valid bool
}

// Some wraps a present Address.
func Some(a Address) Option {
	return Option{Value: a, Valid: true}
}

// None is the absent Option.
func None() Option {
	return Option{}
}

// Get returns the wrapped Address and whether it was present.
func (o Option) Get() (Address, bool) {
	return o.Value, o.Valid
}
