package l2cap

import (
	"encoding/binary"

	"github.com/rigado/bthost/linux/hci"
)

// PDU is an L2CAP frame held as the ACL fragments that carry it. The first
// fragment starts with the basic header.
type PDU struct {
	fragments []hci.ACLPacket
}

// Fragments returns the ACL packets of the frame, in order.
func (p PDU) Fragments() []hci.ACLPacket { return p.fragments }

// Valid reports whether the fragments add up to the length in the header.
func (p PDU) Valid() bool {
	if len(p.fragments) == 0 || len(p.fragments[0].Data()) < BasicHeaderSize {
		return false
	}
	return p.size() == BasicHeaderSize+p.Length()
}

// Length is the payload length declared by the basic header.
func (p PDU) Length() int {
	return int(binary.LittleEndian.Uint16(p.fragments[0].Data()[0:2]))
}

// ChannelID is the destination channel of the frame.
func (p PDU) ChannelID() ChannelID {
	return ChannelID(binary.LittleEndian.Uint16(p.fragments[0].Data()[2:4]))
}

// Bytes returns the whole frame, header included.
func (p PDU) Bytes() []byte {
	out := make([]byte, 0, p.size())
	for _, f := range p.fragments {
		out = append(out, f.Data()...)
	}
	return out
}

// Payload returns the frame without its basic header.
func (p PDU) Payload() []byte {
	return p.Bytes()[BasicHeaderSize:]
}

func (p PDU) size() int {
	n := 0
	for _, f := range p.fragments {
		n += len(f.Data())
	}
	return n
}

// bframe is a basic header followed by its payload.
type bframe []byte

func (f bframe) channelID() ChannelID { return ChannelID(binary.LittleEndian.Uint16(f[2:4])) }
func (f bframe) payload() []byte      { return f[BasicHeaderSize:] }
