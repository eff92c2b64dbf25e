package arp

import (
	"testing"

	"github.com/therealutkarshpriyadarshi/routerd/internal/addr"
	"github.com/therealutkarshpriyadarshi/routerd/internal/ethernet"
)

func TestMessageSerializeParseRoundTrip(t *testing.T) {
	senderMAC := ethernet.MAC{0x02, 0, 0, 0, 0, 0x01}
	targetMAC := ethernet.MAC{0x02, 0, 0, 0, 0, 0x02}
	senderIP := addr.MustParse("10.0.0.1")
	targetIP := addr.MustParse("10.0.0.2")

	m := NewReply(senderMAC, senderIP, targetMAC, targetIP)

	got, err := Parse(m.Serialize())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got != m {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, m)
	}
}

func TestNewRequestHasZeroTargetMAC(t *testing.T) {
	senderMAC := ethernet.MAC{0x02, 0, 0, 0, 0, 0x01}
	senderIP := addr.MustParse("10.0.0.1")
	targetIP := addr.MustParse("10.0.0.2")

	req := NewRequest(senderMAC, senderIP, targetIP)

	if !req.IsRequest() {
		t.Error("IsRequest() = false, want true")
	}
	if req.TargetMAC != ethernet.Zero {
		t.Errorf("TargetMAC = %v, want zero", req.TargetMAC)
	}
}

func TestParseRejectsWrongHardwareType(t *testing.T) {
	senderMAC := ethernet.MAC{0x02, 0, 0, 0, 0, 0x01}
	senderIP := addr.MustParse("10.0.0.1")
	targetIP := addr.MustParse("10.0.0.2")
	data := NewRequest(senderMAC, senderIP, targetIP).Serialize()

	data[1] = 0x02 // corrupt hardware type

	if _, err := Parse(data); err == nil {
		t.Error("Parse() with corrupt hardware type: error = nil, want error")
	}
}

func TestParseRejectsTooShort(t *testing.T) {
	if _, err := Parse(make([]byte, Size-1)); err == nil {
		t.Error("Parse() on short message: error = nil, want error")
	}
}
