package l2cap

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/rigado/bthost/linux/hci"
)

// Fragmenter splits frames into ACL packets no larger than the controller's
// buffers.
type Fragmenter struct {
	handle     uint16
	maxPayload int
}

// NewFragmenter returns a fragmenter for handle. maxPayload is the largest
// ACL data length the controller accepts.
func NewFragmenter(handle uint16, maxPayload int) *Fragmenter {
	return &Fragmenter{handle: handle, maxPayload: maxPayload}
}

// BuildFrame frames sdu for cid and fragments it. With FCS16 the check
// sequence covers header and payload and is appended little endian. The
// first fragment is marked flushable when flushable is set.
func (f *Fragmenter) BuildFrame(cid ChannelID, sdu []byte, fcs FCSOption, flushable bool) (PDU, error) {
	if cid == InvalidChannelID {
		return PDU{}, errors.New("invalid channel id")
	}
	fcsLen := 0
	if fcs == FCS16 {
		fcsLen = FCSSize
	}
	if len(sdu)+fcsLen > MaxBasicFramePayloadSize {
		return PDU{}, errors.Errorf("payload of %d bytes exceeds basic frame", len(sdu)+fcsLen)
	}
	if f.maxPayload <= 0 {
		return PDU{}, errors.Errorf("invalid fragment size %d", f.maxPayload)
	}

	frame := make([]byte, BasicHeaderSize+len(sdu)+fcsLen)
	binary.LittleEndian.PutUint16(frame[0:2], uint16(len(sdu)+fcsLen))
	binary.LittleEndian.PutUint16(frame[2:4], uint16(cid))
	copy(frame[BasicHeaderSize:], sdu)
	if fcs == FCS16 {
		v := ComputeFCS(frame[:BasicHeaderSize+len(sdu)], 0)
		binary.LittleEndian.PutUint16(frame[BasicHeaderSize+len(sdu):], uint16(v))
	}

	n := (len(frame) + f.maxPayload - 1) / f.maxPayload
	pkts := make([]hci.ACLPacket, 0, n)
	pbf := uint8(hci.PbfHostToControllerStart)
	if flushable {
		pbf = hci.PbfFlushableStart
	}
	for off := 0; off < len(frame); off += f.maxPayload {
		end := off + f.maxPayload
		if end > len(frame) {
			end = len(frame)
		}
		pkts = append(pkts, hci.NewACLPacket(f.handle, pbf, frame[off:end]))
		pbf = hci.PbfContinuing
	}

	return PDU{fragments: pkts}, nil
}
