package l2cap

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// Configuration option types [Vol 3, Part A, 5].
const (
	optMTU          = 0x01
	optFlushTimeout = 0x02
	optQoS          = 0x03
	optRFC          = 0x04
	optFCS          = 0x05

	optHint = 0x80
)

const (
	optMTULen          = 2
	optFlushTimeoutLen = 2
	optRFCLen          = 9
	optFCSLen          = 1
)

// FCS option values.
const (
	fcsTypeNone  = 0x00
	fcsType16Bit = 0x01
)

// RFCOption is the Retransmission and Flow Control option [Vol 3, Part A, 5.4].
type RFCOption struct {
	Mode                  ChannelMode
	TxWindowSize          uint8
	MaxTransmit           uint8
	RetransmissionTimeout uint16
	MonitorTimeout        uint16
	MaxPDUSize            uint16
}

// ConfigOptions is the decoded option list of a configuration request or
// response. Nil fields were absent.
type ConfigOptions struct {
	MTU          *uint16
	FlushTimeout *uint16
	RFC          *RFCOption
	FCS          *uint8

	// Unknown lists the types of unrecognised options that were not hints.
	Unknown []uint8
}

func (o ConfigOptions) String() string {
	s := "{"
	if o.MTU != nil {
		s += fmt.Sprintf(" mtu %d", *o.MTU)
	}
	if o.FlushTimeout != nil {
		s += fmt.Sprintf(" flush %d", *o.FlushTimeout)
	}
	if o.RFC != nil {
		s += fmt.Sprintf(" rfc %+v", *o.RFC)
	}
	if o.FCS != nil {
		s += fmt.Sprintf(" fcs %d", *o.FCS)
	}
	if len(o.Unknown) > 0 {
		s += fmt.Sprintf(" unknown %x", o.Unknown)
	}
	return s + " }"
}

// Encode returns the options in wire form. Unknown types are not encoded.
func (o ConfigOptions) Encode() []byte {
	var b []byte
	if o.MTU != nil {
		b = append(b, optMTU, optMTULen, 0, 0)
		binary.LittleEndian.PutUint16(b[len(b)-2:], *o.MTU)
	}
	if o.FlushTimeout != nil {
		b = append(b, optFlushTimeout, optFlushTimeoutLen, 0, 0)
		binary.LittleEndian.PutUint16(b[len(b)-2:], *o.FlushTimeout)
	}
	if o.RFC != nil {
		r := o.RFC
		b = append(b, optRFC, optRFCLen, uint8(r.Mode), r.TxWindowSize, r.MaxTransmit, 0, 0, 0, 0, 0, 0)
		v := b[len(b)-6:]
		binary.LittleEndian.PutUint16(v[0:], r.RetransmissionTimeout)
		binary.LittleEndian.PutUint16(v[2:], r.MonitorTimeout)
		binary.LittleEndian.PutUint16(v[4:], r.MaxPDUSize)
	}
	if o.FCS != nil {
		b = append(b, optFCS, optFCSLen, *o.FCS)
	}
	return b
}

// DecodeConfigOptions parses an option list. A known option with a bad
// length or a truncated option is an error.
func DecodeConfigOptions(b []byte) (ConfigOptions, error) {
	var o ConfigOptions
	for len(b) > 0 {
		if len(b) < 2 {
			return o, errors.New("truncated option header")
		}
		typ, n := b[0], int(b[1])
		if len(b) < 2+n {
			return o, errors.Errorf("option 0x%02x truncated: %d of %d bytes", typ, len(b)-2, n)
		}
		v := b[2 : 2+n]
		b = b[2+n:]

		switch typ &^ optHint {
		case optMTU:
			if n != optMTULen {
				return o, errors.Errorf("mtu option length %d", n)
			}
			mtu := binary.LittleEndian.Uint16(v)
			o.MTU = &mtu
		case optFlushTimeout:
			if n != optFlushTimeoutLen {
				return o, errors.Errorf("flush timeout option length %d", n)
			}
			ft := binary.LittleEndian.Uint16(v)
			o.FlushTimeout = &ft
		case optRFC:
			if n != optRFCLen {
				return o, errors.Errorf("rfc option length %d", n)
			}
			o.RFC = &RFCOption{
				Mode:                  ChannelMode(v[0]),
				TxWindowSize:          v[1],
				MaxTransmit:           v[2],
				RetransmissionTimeout: binary.LittleEndian.Uint16(v[3:]),
				MonitorTimeout:        binary.LittleEndian.Uint16(v[5:]),
				MaxPDUSize:            binary.LittleEndian.Uint16(v[7:]),
			}
		case optFCS:
			if n != optFCSLen {
				return o, errors.Errorf("fcs option length %d", n)
			}
			fcs := v[0]
			o.FCS = &fcs
		case optQoS:
			// accepted and ignored, best effort only
		default:
			if typ&optHint == 0 {
				o.Unknown = append(o.Unknown, typ)
			}
		}
	}
	return o, nil
}

// merge overlays the options of a continuation packet.
func (o *ConfigOptions) merge(n ConfigOptions) {
	if n.MTU != nil {
		o.MTU = n.MTU
	}
	if n.FlushTimeout != nil {
		o.FlushTimeout = n.FlushTimeout
	}
	if n.RFC != nil {
		o.RFC = n.RFC
	}
	if n.FCS != nil {
		o.FCS = n.FCS
	}
	o.Unknown = append(o.Unknown, n.Unknown...)
}

func uint16Ptr(v uint16) *uint16 { return &v }
