// Package l2cap implements the Logical Link Control and Adaptation Protocol
// [Vol 3, Part A] for BR/EDR and LE links: channel multiplexing, signaling,
// fragmentation and the basic, enhanced retransmission and LE credit based
// modes.
//
// Everything in this package runs on a single dispatch.Dispatcher. None of
// the types are safe for use from other goroutines.
package l2cap

import (
	"fmt"
	"time"
)

// ChannelID identifies a channel endpoint on one side of a link.
type ChannelID uint16

// Fixed and dynamic channel identifiers [Vol 3, Part A, 2.1].
const (
	InvalidChannelID        ChannelID = 0x0000
	SignalingChannelID      ChannelID = 0x0001
	ConnectionlessChannelID ChannelID = 0x0002
	AMPManagerChannelID     ChannelID = 0x0003
	ATTChannelID            ChannelID = 0x0004
	LESignalingChannelID    ChannelID = 0x0005
	LESMPChannelID          ChannelID = 0x0006
	SMPChannelID            ChannelID = 0x0007
	AMPTestManagerChannelID ChannelID = 0x003F

	FirstDynamicChannelID   ChannelID = 0x0040
	LastLEDynamicChannelID  ChannelID = 0x007F
	LastACLDynamicChannelID ChannelID = 0xFFFF
)

func (c ChannelID) String() string { return fmt.Sprintf("0x%04x", uint16(c)) }

// PSM is a Protocol/Service Multiplexer.
type PSM uint16

// Well known PSMs.
const (
	PSMSDP    PSM = 0x0001
	PSMRFCOMM PSM = 0x0003
	PSMBNEP   PSM = 0x000F
	PSMHIDCtl PSM = 0x0011
	PSMHIDInt PSM = 0x0013
	PSMAVCTP  PSM = 0x0017
	PSMAVDTP  PSM = 0x0019
	PSMATT    PSM = 0x001F
	PSMEATT   PSM = 0x0027
)

func (p PSM) String() string { return fmt.Sprintf("0x%04x", uint16(p)) }

// ChannelMode is the mode of a connection oriented channel.
type ChannelMode uint8

// The first two values are those of the RFC option [Vol 3, Part A, 5.4].
// LE credit based flow control is negotiated by its own signaling commands.
const (
	ModeBasic                  ChannelMode = 0x00
	ModeEnhancedRetransmission ChannelMode = 0x03
	ModeLECreditBasedFlowCtrl  ChannelMode = 0x80
)

func (m ChannelMode) String() string {
	switch m {
	case ModeBasic:
		return "basic"
	case ModeEnhancedRetransmission:
		return "ertm"
	case ModeLECreditBasedFlowCtrl:
		return "le credit"
	default:
		return fmt.Sprintf("mode(0x%02x)", uint8(m))
	}
}

// FCSOption selects whether a frame carries a frame check sequence.
type FCSOption int

const (
	NoFCS FCSOption = iota
	FCS16
)

// MTU limits [Vol 3, Part A, 5.1].
const (
	DefaultMTU               = 672
	MinACLMTU                = 48
	MinLEMTU                 = 23
	MaxBasicFramePayloadSize = 65535

	// BasicHeaderSize is the length and channel id preceding every payload.
	BasicHeaderSize = 4
	FCSSize         = 2
)

// InfiniteFlushTimeout means packets are never flushed [Vol 3, Part A, 5.2].
const InfiniteFlushTimeout = time.Duration(-1)

// ChannelInfo describes a channel once configuration has completed. The
// values are fixed for the lifetime of the channel.
type ChannelInfo struct {
	Mode         ChannelMode
	MaxRxSDUSize uint16
	MaxTxSDUSize uint16

	// Enhanced retransmission and credit based modes only.
	NFramesInTxWindow   uint8
	MaxTransmissions    uint8
	MaxTxPDUPayloadSize uint16

	FCS          FCSOption
	PSM          PSM
	FlushTimeout time.Duration
}

// BasicModeInfo returns the info of a basic mode channel with the given MTUs.
func BasicModeInfo(maxRx, maxTx uint16, psm PSM) ChannelInfo {
	return ChannelInfo{
		Mode:         ModeBasic,
		MaxRxSDUSize: maxRx,
		MaxTxSDUSize: maxTx,
		PSM:          psm,
		FlushTimeout: InfiniteFlushTimeout,
	}
}

// ChannelParameters are preferences for a new channel. Nil fields take
// the defaults.
type ChannelParameters struct {
	Mode         *ChannelMode
	MaxRxSDUSize *uint16
	FlushTimeout *time.Duration
}

func (p ChannelParameters) mode() ChannelMode {
	if p.Mode == nil {
		return ModeBasic
	}
	return *p.Mode
}

func (p ChannelParameters) maxRxSDUSize() uint16 {
	if p.MaxRxSDUSize == nil {
		return DefaultMTU
	}
	return *p.MaxRxSDUSize
}

func (p ChannelParameters) flushTimeout() time.Duration {
	if p.FlushTimeout == nil {
		return InfiniteFlushTimeout
	}
	return *p.FlushTimeout
}

func (p ChannelParameters) String() string {
	s := fmt.Sprintf("mode %v mtu %d", p.mode(), p.maxRxSDUSize())
	if p.FlushTimeout != nil {
		s += fmt.Sprintf(" flush %v", *p.FlushTimeout)
	}
	return s
}

// ConnectionParameters of an LE link, in controller units [Vol 3, Part A, 4.20].
type ConnectionParameters struct {
	IntervalMin       uint16
	IntervalMax       uint16
	SlaveLatency      uint16
	TimeoutMultiplier uint16
}

// Valid checks the ranges of Connection Parameter Update Request.
func (p ConnectionParameters) Valid() bool {
	switch {
	case p.IntervalMin < 0x0006 || p.IntervalMax > 0x0C80 || p.IntervalMin > p.IntervalMax:
		return false
	case p.SlaveLatency > 0x01F3:
		return false
	case p.TimeoutMultiplier < 0x000A || p.TimeoutMultiplier > 0x0C80:
		return false
	}
	// supervision timeout must exceed (1 + latency) * interval * 2
	return uint32(p.TimeoutMultiplier)*4 > (1+uint32(p.SlaveLatency))*uint32(p.IntervalMax)
}
