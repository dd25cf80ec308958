package hci

import (
	"testing"
)

func fragments(handle uint16, tag byte, n int) []ACLPacket {
	out := make([]ACLPacket, n)
	for i := range out {
		pbf := uint8(PbfContinuing)
		if i == 0 {
			pbf = PbfHostToControllerStart
		}
		out[i] = NewACLPacket(handle, pbf, []byte{tag, byte(i)})
	}
	return out
}

type recorder struct {
	sent []ACLPacket
}

func (r *recorder) write(p ACLPacket) error {
	r.sent = append(r.sent, p)
	return nil
}

func (r *recorder) tags() []byte {
	var out []byte
	for _, p := range r.sent {
		out = append(out, p.Data()[0])
	}
	return out
}

func TestACLQueueDoesNotInterleavePDUs(t *testing.T) {
	r := &recorder{}
	q := NewACLQueue(2, r.write)

	q.Enqueue(0x0001, fragments(0x0001, 'a', 3), PriorityLow)
	q.Enqueue(0x0001, fragments(0x0001, 's', 1), PriorityHigh)

	if got := string(r.tags()); got != "aa" {
		t.Fatalf("sent %q", got)
	}

	q.Complete(0x0001, 1)
	if got := string(r.tags()); got != "aaa" {
		t.Fatalf("started PDU must finish first, sent %q", got)
	}

	q.Complete(0x0001, 2)
	if got := string(r.tags()); got != "aaas" {
		t.Fatalf("sent %q", got)
	}
	if q.Credits() != 1 {
		t.Fatalf("credits %d", q.Credits())
	}
}

func TestACLQueueHighPriorityFirst(t *testing.T) {
	r := &recorder{}
	q := NewACLQueue(0, r.write)

	q.Enqueue(0x0001, fragments(0x0001, 'd', 1), PriorityLow)
	q.Enqueue(0x0002, fragments(0x0002, 'e', 1), PriorityLow)
	q.Enqueue(0x0001, fragments(0x0001, 's', 1), PriorityHigh)

	if q.Pending() != 3 {
		t.Fatalf("pending %d", q.Pending())
	}

	// A completion for a handle with nothing in flight returns no buffers.
	q.Complete(0x0001, 5)
	if len(r.sent) != 0 {
		t.Fatalf("sent without credits")
	}

	q.credits = 3
	q.drain()
	if got := string(r.tags()); got != "sde" {
		t.Fatalf("sent %q", got)
	}
}

func TestACLQueueDropLinkReclaimsCredits(t *testing.T) {
	r := &recorder{}
	q := NewACLQueue(2, r.write)

	q.Enqueue(0x0001, fragments(0x0001, 'a', 4), PriorityLow)
	q.Enqueue(0x0002, fragments(0x0002, 'b', 1), PriorityLow)
	if q.InFlight(0x0001) != 2 {
		t.Fatalf("in flight %d", q.InFlight(0x0001))
	}

	q.DropLink(0x0001)
	if got := string(r.tags()); got != "aab" {
		t.Fatalf("sent %q", got)
	}
	if q.Credits() != 1 || q.Pending() != 0 {
		t.Fatalf("credits %d pending %d", q.Credits(), q.Pending())
	}
}

func TestACLPacketHeader(t *testing.T) {
	p := NewACLPacket(0x0ABC, PbfFlushableStart, []byte{1, 2, 3})
	if p.Handle() != 0x0ABC || p.Pbf() != PbfFlushableStart || p.DataLength() != 3 {
		t.Fatalf("unexpected header [% X]", []byte(p))
	}
	if !p.Valid() || !p.IsStart() {
		t.Fatal("expected valid start packet")
	}
}
