package l2cap

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

// LE credit based flow control defaults.
const (
	DefaultLEInitialCredits = 10
	DefaultLEMPS            = 247

	leSDULenSize     = 2
	maxLECredits     = 0xffff
	maxQueuedKFrames = 64
	minLECreditMTU   = 23
)

// creditEngine implements LE credit based flow control mode
// [Vol 3, Part A, 10.1]. Every K-frame costs the sender one credit; the
// receiver returns credits with LE Flow Control Credit.
type creditEngine struct {
	info   ChannelInfo
	rxMPS  int
	tx     uint16
	rx     uint16
	rxInit uint16
	queue  [][]byte
	sdu    []byte
	sduLen int
	inSDU  bool
	closed bool

	deliver     func([]byte)
	sendPDU     func([]byte) bool
	sendCredits func(n uint16)
	onError     func()

	bthost.Logger
}

func newCreditEngine(info ChannelInfo, rxMPS int, txCredits, rxCredits uint16,
	deliver func([]byte), sendPDU func([]byte) bool, sendCredits func(uint16), onError func(), l bthost.Logger) *creditEngine {
	return &creditEngine{
		info:        info,
		rxMPS:       rxMPS,
		tx:          txCredits,
		rx:          rxCredits,
		rxInit:      rxCredits,
		deliver:     deliver,
		sendPDU:     sendPDU,
		sendCredits: sendCredits,
		onError:     onError,
		Logger:      l,
	}
}

// send splits sdu into K-frames of at most the peer's MPS. The first frame
// carries the SDU length [Vol 3, Part A, 3.4.2].
func (e *creditEngine) send(sdu []byte) bool {
	if e.closed || len(sdu) > int(e.info.MaxTxSDUSize) {
		return false
	}
	mps := int(e.info.MaxTxPDUPayloadSize)
	if mps <= leSDULenSize {
		return false
	}

	var frames [][]byte
	first := true
	for off := 0; off < len(sdu) || first; {
		readSz := mps
		if first {
			readSz = mps - leSDULenSize
		}
		end := off + readSz
		if end > len(sdu) {
			end = len(sdu)
		}

		var b []byte
		if first {
			b = make([]byte, leSDULenSize, leSDULenSize+end-off)
			binary.LittleEndian.PutUint16(b, uint16(len(sdu)))
			first = false
		}
		b = append(b, sdu[off:end]...)
		frames = append(frames, b)
		off = end
	}

	if len(e.queue)+len(frames) > maxQueuedKFrames && len(e.queue) > 0 {
		e.Debugf("credit: %d k-frames waiting for credits", len(e.queue))
		return false
	}
	e.queue = append(e.queue, frames...)
	e.drain()
	return true
}

func (e *creditEngine) drain() {
	for !e.closed && e.tx > 0 && len(e.queue) > 0 {
		f := e.queue[0]
		e.queue = e.queue[1:]
		e.tx--
		e.sendPDU(f)
	}
}

// addCredits handles LE Flow Control Credit from the peer.
func (e *creditEngine) addCredits(n uint16) error {
	if uint32(e.tx)+uint32(n) > maxLECredits {
		return errors.Errorf("credit overflow: have %d, adding %d", e.tx, n)
	}
	e.tx += n
	e.drain()
	return nil
}

func (e *creditEngine) receive(frame []byte) {
	if e.closed {
		return
	}
	if e.rx == 0 {
		e.Warnf("credit: k-frame received without credits")
		e.fail()
		return
	}
	e.rx--
	if len(frame) > e.rxMPS {
		e.Warnf("credit: %d byte k-frame exceeds mps %d", len(frame), e.rxMPS)
		e.fail()
		return
	}

	in := frame
	if !e.inSDU {
		if len(frame) < leSDULenSize {
			e.Warnf("credit: first k-frame without sdu length")
			e.fail()
			return
		}
		e.sduLen = int(binary.LittleEndian.Uint16(frame))
		if e.sduLen > int(e.info.MaxRxSDUSize) {
			e.Warnf("credit: sdu length %d exceeds mtu %d", e.sduLen, e.info.MaxRxSDUSize)
			e.fail()
			return
		}
		e.sdu = make([]byte, 0, e.sduLen)
		e.inSDU = true
		in = frame[leSDULenSize:]
	}

	e.sdu = append(e.sdu, in...)
	switch {
	case len(e.sdu) > e.sduLen:
		e.Warnf("credit: sdu of %d bytes, expected %d", len(e.sdu), e.sduLen)
		e.fail()
		return
	case len(e.sdu) == e.sduLen:
		sdu := e.sdu
		e.sdu, e.sduLen, e.inSDU = nil, 0, false
		e.deliver(sdu)
	}

	if !e.closed && e.rx < e.rxInit/2 {
		n := e.rxInit - e.rx
		e.rx += n
		e.sendCredits(n)
	}
}

func (e *creditEngine) fail() {
	if e.closed {
		return
	}
	e.close()
	if e.onError != nil {
		e.onError()
	}
}

func (e *creditEngine) close() {
	e.closed = true
	e.queue = nil
}
