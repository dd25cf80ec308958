package h4

import (
	"time"
)

const (
	aclPacket   = 0x02
	eventPacket = 0x04

	eventHeaderLen = 3
	aclHeaderLen   = 5

	// frameTimeout discards a partial frame the stream never completed so
	// the assembler can resync on the next packet indicator.
	frameTimeout = 500 * time.Millisecond
)

// frame reassembles H4 packets from a byte stream.
type frame struct {
	b       []byte
	timeout time.Time
	out     func([]byte)
	now     func() time.Time
}

func newFrame(out func([]byte)) *frame {
	return &frame{out: out, now: time.Now}
}

// Assemble consumes b and emits every packet it completes, indicator
// included.
func (f *frame) Assemble(b []byte) {
	if len(f.b) > 0 && f.now().After(f.timeout) {
		f.reset()
	}
	for len(b) > 0 {
		if len(f.b) == 0 {
			b = f.waitStart(b)
			if len(b) == 0 {
				return
			}
			f.timeout = f.now().Add(frameTimeout)
		}
		f.b = append(f.b, b...)

		n, ok := f.frameLength()
		if !ok || len(f.b) < n {
			return
		}
		out := make([]byte, n)
		copy(out, f.b[:n])
		b = append([]byte(nil), f.b[n:]...)
		f.reset()
		f.out(out)
	}
}

func (f *frame) reset() {
	f.b = f.b[:0]
	f.timeout = time.Time{}
}

// waitStart drops bytes up to the next packet indicator.
func (f *frame) waitStart(b []byte) []byte {
	for i, v := range b {
		if v == eventPacket || v == aclPacket {
			return b[i:]
		}
	}
	return nil
}

func (f *frame) frameLength() (int, bool) {
	switch f.b[0] {
	case eventPacket:
		if len(f.b) < eventHeaderLen {
			return 0, false
		}
		return eventHeaderLen + int(f.b[2]), true
	case aclPacket:
		if len(f.b) < aclHeaderLen {
			return 0, false
		}
		return aclHeaderLen + (int(f.b[3]) | int(f.b[4])<<8), true
	default:
		return 0, false
	}
}
