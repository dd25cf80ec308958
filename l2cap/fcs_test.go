package l2cap

import (
	"encoding/hex"
	"testing"
)

func TestComputeFCS(t *testing.T) {
	tests := []struct {
		name string
		in   string
		exp  FrameCheckSequence
	}{
		{"empty", "", 0x0000},
		{"generator", "80", 0xA001},
		{"i-frame", "0e004000020000010203040506070809", 0x6138},
		{"s-frame", "040040000101", 0x14D4},
	}

	for _, tt := range tests {
		b, err := hex.DecodeString(tt.in)
		if err != nil {
			t.Fatal(err)
		}
		if got := ComputeFCS(b, 0); got != tt.exp {
			t.Errorf("%s: expected 0x%04x, got 0x%04x", tt.name, uint16(tt.exp), uint16(got))
		}
	}
}

func TestComputeFCSIncremental(t *testing.T) {
	b, _ := hex.DecodeString("0e004000020000010203040506070809")
	whole := ComputeFCS(b, 0)
	for k := 0; k <= len(b); k++ {
		if got := ComputeFCS(b[k:], ComputeFCS(b[:k], 0)); got != whole {
			t.Fatalf("split at %d: expected 0x%04x, got 0x%04x", k, uint16(whole), uint16(got))
		}
	}
}
