package l2cap

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci"
)

// Recombiner reassembles inbound ACL packets of one link into frames
// [Vol 3, Part A, 7.2].
type Recombiner struct {
	handle  uint16
	partial []hci.ACLPacket
	want    int
	have    int
}

func NewRecombiner(handle uint16) *Recombiner {
	return &Recombiner{handle: handle}
}

// ConsumeFragment adds p. It returns the frame and true once p completes
// one. A start fragment discards any partial frame. An error means p was
// dropped.
func (r *Recombiner) ConsumeFragment(p hci.ACLPacket) (PDU, bool, error) {
	if !p.Valid() {
		return PDU{}, false, errors.Wrap(bthost.ErrPacketMalformed, "acl header")
	}
	if p.Handle() != r.handle {
		return PDU{}, false, errors.Errorf("fragment for handle 0x%04x on link 0x%04x", p.Handle(), r.handle)
	}

	if p.IsStart() {
		var err error
		if r.partial != nil {
			err = errors.Errorf("dropped partial frame of %d/%d bytes", r.have, r.want)
		}
		r.reset()

		d := p.Data()
		if len(d) < BasicHeaderSize {
			return PDU{}, false, errors.Wrap(bthost.ErrPacketMalformed, "start fragment shorter than basic header")
		}
		r.want = BasicHeaderSize + int(binary.LittleEndian.Uint16(d[0:2]))
		r.partial = []hci.ACLPacket{p}
		r.have = len(d)
		pdu, ok, cerr := r.complete()
		if cerr != nil {
			return pdu, ok, cerr
		}
		return pdu, ok, err
	}

	if r.partial == nil {
		return PDU{}, false, errors.New("continuing fragment without a partial frame")
	}
	r.partial = append(r.partial, p)
	r.have += len(p.Data())
	return r.complete()
}

// HasPartial reports whether a frame is being reassembled.
func (r *Recombiner) HasPartial() bool { return r.partial != nil }

func (r *Recombiner) complete() (PDU, bool, error) {
	switch {
	case r.have < r.want:
		return PDU{}, false, nil
	case r.have > r.want:
		n, w := r.have, r.want
		r.reset()
		return PDU{}, false, errors.Wrapf(bthost.ErrPacketMalformed, "frame of %d bytes, header says %d", n, w)
	}
	pdu := PDU{fragments: r.partial}
	r.reset()
	return pdu, true, nil
}

func (r *Recombiner) reset() {
	r.partial = nil
	r.want = 0
	r.have = 0
}
