package hci

import "encoding/binary"

// ACLPacket implements HCI ACL Data Packet [Vol 2, Part E, 5.4.2], without
// the H4 packet indicator.
// Packet boundary flags , bit[5:6] of handle field's MSB
// Broadcast flags. bit[7:8] of handle field's MSB
type ACLPacket []byte

// ACLHeaderLen is the size of the handle/flags and length fields.
const ACLHeaderLen = 4

// NewACLPacket builds a point-to-point packet carrying payload.
func NewACLPacket(handle uint16, pbf uint8, payload []byte) ACLPacket {
	p := make(ACLPacket, ACLHeaderLen+len(payload))
	binary.LittleEndian.PutUint16(p[0:2], (handle&0x0fff)|(uint16(pbf&0x3)<<12))
	binary.LittleEndian.PutUint16(p[2:4], uint16(len(payload)))
	copy(p[ACLHeaderLen:], payload)
	return p
}

func (a ACLPacket) Handle() uint16  { return uint16(a[0]) | (uint16(a[1]&0x0f) << 8) }
func (a ACLPacket) Pbf() uint8      { return (a[1] >> 4) & 0x3 }
func (a ACLPacket) Bcf() uint8      { return (a[1] >> 6) & 0x3 }
func (a ACLPacket) DataLength() int { return int(a[2]) | (int(a[3]) << 8) }
func (a ACLPacket) Data() []byte    { return a[ACLHeaderLen:] }

// Valid reports whether the header is present and matches the payload.
func (a ACLPacket) Valid() bool {
	return len(a) >= ACLHeaderLen && a.DataLength() == len(a)-ACLHeaderLen
}

// IsStart reports whether the packet begins a new L2CAP PDU.
func (a ACLPacket) IsStart() bool {
	return a.Pbf() != PbfContinuing
}
