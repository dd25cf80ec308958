package l2cap

import (
	"bytes"
	"testing"
)

func TestConfigOptionsEncode(t *testing.T) {
	o := ConfigOptions{
		MTU: uint16Ptr(0x02A0),
		RFC: &RFCOption{
			Mode:                  ModeEnhancedRetransmission,
			TxWindowSize:          63,
			MaxTransmit:           3,
			RetransmissionTimeout: 2000,
			MonitorTimeout:        12000,
			MaxPDUSize:            1010,
		},
		FCS: uint8Ptr(fcsType16Bit),
	}
	exp := []byte{
		0x01, 0x02, 0xA0, 0x02,
		0x04, 0x09, 0x03, 63, 3, 0xD0, 0x07, 0xE0, 0x2E, 0xF2, 0x03,
		0x05, 0x01, 0x01,
	}
	if b := o.Encode(); !bytes.Equal(b, exp) {
		t.Fatalf("expected [% x], got [% x]", exp, b)
	}

	d, err := DecodeConfigOptions(exp)
	if err != nil {
		t.Fatal(err)
	}
	if *d.MTU != 0x02A0 || *d.RFC != *o.RFC || *d.FCS != fcsType16Bit {
		t.Fatalf("decoded %v", d)
	}
}

func TestDecodeConfigOptions(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		unknown []uint8
		err     bool
	}{
		{"empty", nil, nil, false},
		{"flush timeout", []byte{0x02, 0x02, 0xFF, 0xFF}, nil, false},
		{"unknown hint", []byte{0x80 | 0x09, 0x01, 0x00}, nil, false},
		{"unknown", []byte{0x09, 0x01, 0x00, 0x0A, 0x00}, []uint8{0x09, 0x0A}, false},
		{"bad mtu length", []byte{0x01, 0x01, 0x30}, nil, true},
		{"truncated", []byte{0x01, 0x02, 0x30}, nil, true},
		{"truncated header", []byte{0x01}, nil, true},
	}

	for _, tt := range tests {
		o, err := DecodeConfigOptions(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("%s: err %v", tt.name, err)
			continue
		}
		if !bytes.Equal(o.Unknown, tt.unknown) {
			t.Errorf("%s: unknown %x, expected %x", tt.name, o.Unknown, tt.unknown)
		}
	}
}

func uint8Ptr(v uint8) *uint8 { return &v }
