package hci

// aclPDU is the fragment group of one L2CAP PDU.
type aclPDU struct {
	handle uint16
	pkts   []ACLPacket
	next   int
}

// ACLQueue implements Host to Controller packet-based data flow control
// [Vol 2, Part E, 4.1.1]. Each fragment consumes one controller buffer;
// buffers come back with Number Of Completed Packets or when the link goes
// away [Vol 2, Part E, 4.3]. It is not safe for concurrent use.
type ACLQueue struct {
	credits  int
	high     []*aclPDU
	low      []*aclPDU
	current  *aclPDU
	inFlight map[uint16]int
	write    func(ACLPacket) error
}

// NewACLQueue returns a queue that owns credits controller buffers and
// hands fragments to write.
func NewACLQueue(credits int, write func(ACLPacket) error) *ACLQueue {
	return &ACLQueue{
		credits:  credits,
		inFlight: make(map[uint16]int),
		write:    write,
	}
}

// Credits returns the number of free controller buffers.
func (q *ACLQueue) Credits() int { return q.credits }

// Pending returns the number of fragments not yet handed to the controller.
func (q *ACLQueue) Pending() int {
	n := 0
	if q.current != nil {
		n += len(q.current.pkts) - q.current.next
	}
	for _, p := range q.high {
		n += len(p.pkts)
	}
	for _, p := range q.low {
		n += len(p.pkts)
	}
	return n
}

// InFlight returns the number of fragments sent on handle and not yet completed.
func (q *ACLQueue) InFlight(handle uint16) int { return q.inFlight[handle] }

// Enqueue adds the fragments of one PDU.
func (q *ACLQueue) Enqueue(handle uint16, pkts []ACLPacket, pri Priority) error {
	if len(pkts) == 0 {
		return nil
	}
	p := &aclPDU{handle: handle, pkts: pkts}
	if pri == PriorityHigh {
		q.high = append(q.high, p)
	} else {
		q.low = append(q.low, p)
	}
	return q.drain()
}

// Complete returns n buffers reported by Number Of Completed Packets.
func (q *ACLQueue) Complete(handle uint16, n int) error {
	if n > q.inFlight[handle] {
		n = q.inFlight[handle]
	}
	q.inFlight[handle] -= n
	q.credits += n
	return q.drain()
}

// DropLink discards queued fragments for handle and reclaims its buffers.
func (q *ACLQueue) DropLink(handle uint16) error {
	q.credits += q.inFlight[handle]
	delete(q.inFlight, handle)

	if q.current != nil && q.current.handle == handle {
		q.current = nil
	}
	q.high = dropHandle(q.high, handle)
	q.low = dropHandle(q.low, handle)
	return q.drain()
}

func dropHandle(in []*aclPDU, handle uint16) []*aclPDU {
	out := in[:0]
	for _, p := range in {
		if p.handle != handle {
			out = append(out, p)
		}
	}
	return out
}

func (q *ACLQueue) drain() error {
	for q.credits > 0 {
		if q.current == nil {
			switch {
			case len(q.high) > 0:
				q.current, q.high = q.high[0], q.high[1:]
			case len(q.low) > 0:
				q.current, q.low = q.low[0], q.low[1:]
			default:
				return nil
			}
		}

		p := q.current
		pkt := p.pkts[p.next]
		p.next++
		if p.next == len(p.pkts) {
			q.current = nil
		}

		q.credits--
		q.inFlight[p.handle]++
		if err := q.write(pkt); err != nil {
			return err
		}
	}
	return nil
}
