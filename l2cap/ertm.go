package l2cap

import (
	"encoding/binary"
	"time"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/dispatch"
)

// Enhanced retransmission mode defaults [Vol 3, Part A, 8.6].
const (
	DefaultRetransmissionTimeout = 2 * time.Second
	DefaultMonitorTimeout        = 12 * time.Second
	DefaultTxWindow              = 63
	DefaultMaxTransmit           = 3

	// ertmAckTimeout bounds how long received I-frames go unacknowledged
	// when there is no outbound data to carry the acknowledgement.
	ertmAckTimeout = 200 * time.Millisecond

	ertmControlSize = 2
	ertmSDULenSize  = 2
	ertmSeqMask     = 0x3f
)

// Segmentation and reassembly field of an I-frame.
const (
	sarUnsegmented  = 0x0
	sarStart        = 0x1
	sarEnd          = 0x2
	sarContinuation = 0x3
)

// Supervisory functions of an S-frame.
const (
	sReceiverReady    = 0x0
	sReject           = 0x1
	sReceiverNotReady = 0x2
	sSelectiveReject  = 0x3
)

// ertmControl is the enhanced control field [Vol 3, Part A, 3.3.2].
type ertmControl uint16

func (c ertmControl) isSFrame() bool  { return c&0x0001 != 0 }
func (c ertmControl) txSeq() uint8    { return uint8(c>>1) & ertmSeqMask }
func (c ertmControl) final() bool     { return c&0x0080 != 0 }
func (c ertmControl) reqSeq() uint8   { return uint8(c>>8) & ertmSeqMask }
func (c ertmControl) sar() uint8      { return uint8(c >> 14) }
func (c ertmControl) function() uint8 { return uint8(c>>2) & 0x3 }
func (c ertmControl) poll() bool      { return c&0x0010 != 0 }

func iFrameControl(txSeq, reqSeq, sar uint8, final bool) ertmControl {
	c := ertmControl(txSeq&ertmSeqMask)<<1 | ertmControl(reqSeq&ertmSeqMask)<<8 | ertmControl(sar&0x3)<<14
	if final {
		c |= 0x0080
	}
	return c
}

func sFrameControl(fn, reqSeq uint8, poll, final bool) ertmControl {
	c := 0x0001 | ertmControl(fn&0x3)<<2 | ertmControl(reqSeq&ertmSeqMask)<<8
	if poll {
		c |= 0x0010
	}
	if final {
		c |= 0x0080
	}
	return c
}

// seqDiff is the distance from b forward to a, modulo 64.
func seqDiff(a, b uint8) int {
	return int((a - b) & ertmSeqMask)
}

type ertmTxFrame struct {
	seq           uint8
	sar           uint8
	sduLen        uint16
	data          []byte
	transmissions int
}

// ertmEngine implements enhanced retransmission mode [Vol 3, Part A, 8]
// for one channel: segmentation, the transmit window, acknowledgement,
// go-back-N and selective retransmission, and the poll/final exchange.
type ertmEngine struct {
	d       dispatch.Dispatcher
	info    ChannelInfo
	rxWin   int
	rto     time.Duration
	monitor time.Duration

	deliver func([]byte)
	sendPDU func([]byte) bool
	onError func()

	nextTxSeq       uint8
	expectedAckSeq  uint8
	unacked         []*ertmTxFrame
	queue           []*ertmTxFrame
	remoteBusy      bool
	pollOutstanding bool
	pollCount       int
	retransTimer    dispatch.Task
	monitorTimer    dispatch.Task

	expectedTxSeq uint8
	rejSent       bool
	unackedRx     int
	ackTimer      dispatch.Task
	sdu           []byte
	sduLen        int
	inSDU         bool

	closed bool

	bthost.Logger
}

func newERTMEngine(d dispatch.Dispatcher, info ChannelInfo, rxWindow int, rto, monitor time.Duration,
	deliver func([]byte), sendPDU func([]byte) bool, onError func(), l bthost.Logger) *ertmEngine {
	if rto <= 0 {
		rto = DefaultRetransmissionTimeout
	}
	if monitor <= 0 {
		monitor = DefaultMonitorTimeout
	}
	if rxWindow <= 0 {
		rxWindow = DefaultTxWindow
	}
	return &ertmEngine{
		d:       d,
		info:    info,
		rxWin:   rxWindow,
		rto:     rto,
		monitor: monitor,
		deliver: deliver,
		sendPDU: sendPDU,
		onError: onError,
		Logger:  l,
	}
}

func (e *ertmEngine) txWindow() int {
	if e.info.NFramesInTxWindow == 0 {
		return 1
	}
	return int(e.info.NFramesInTxWindow)
}

func (e *ertmEngine) mps() int {
	if e.info.MaxTxPDUPayloadSize <= ertmSDULenSize {
		return DefaultMTU
	}
	return int(e.info.MaxTxPDUPayloadSize)
}

// send segments sdu into I-frames. It refuses the SDU when a full window
// of frames is already waiting to be sent.
func (e *ertmEngine) send(sdu []byte) bool {
	if e.closed || len(sdu) > int(e.info.MaxTxSDUSize) {
		return false
	}

	frames := e.segment(sdu)
	if len(e.queue) > 0 && len(e.queue)+len(frames) > e.txWindow() {
		e.Debugf("ertm: tx queue full, %d frames waiting", len(e.queue))
		return false
	}
	e.queue = append(e.queue, frames...)
	e.trySend()
	return true
}

func (e *ertmEngine) segment(sdu []byte) []*ertmTxFrame {
	mps := e.mps()
	if len(sdu) <= mps {
		return []*ertmTxFrame{{sar: sarUnsegmented, data: append([]byte(nil), sdu...)}}
	}

	var out []*ertmTxFrame
	first := mps - ertmSDULenSize
	out = append(out, &ertmTxFrame{sar: sarStart, sduLen: uint16(len(sdu)), data: append([]byte(nil), sdu[:first]...)})
	for off := first; off < len(sdu); off += mps {
		end := off + mps
		sar := uint8(sarContinuation)
		if end >= len(sdu) {
			end = len(sdu)
			sar = sarEnd
		}
		out = append(out, &ertmTxFrame{sar: sar, data: append([]byte(nil), sdu[off:end]...)})
	}
	return out
}

func (e *ertmEngine) trySend() {
	for !e.closed && !e.remoteBusy && !e.pollOutstanding && len(e.unacked) < e.txWindow() && len(e.queue) > 0 {
		f := e.queue[0]
		e.queue = e.queue[1:]
		f.seq = e.nextTxSeq
		e.nextTxSeq = (e.nextTxSeq + 1) & ertmSeqMask
		e.unacked = append(e.unacked, f)
		e.transmit(f)
		if e.retransTimer == nil {
			e.startRetransTimer()
		}
	}
}

func (e *ertmEngine) transmit(f *ertmTxFrame) {
	f.transmissions++
	n := ertmControlSize + len(f.data)
	if f.sar == sarStart {
		n += ertmSDULenSize
	}
	b := make([]byte, n)
	binary.LittleEndian.PutUint16(b, uint16(iFrameControl(f.seq, e.expectedTxSeq, f.sar, false)))
	off := ertmControlSize
	if f.sar == sarStart {
		binary.LittleEndian.PutUint16(b[off:], f.sduLen)
		off += ertmSDULenSize
	}
	copy(b[off:], f.data)

	e.ackSent()
	e.sendPDU(b)
}

func (e *ertmEngine) sendSFrame(fn uint8, poll, final bool) {
	b := make([]byte, ertmControlSize)
	binary.LittleEndian.PutUint16(b, uint16(sFrameControl(fn, e.expectedTxSeq, poll, final)))
	e.ackSent()
	e.sendPDU(b)
}

func (e *ertmEngine) ackSent() {
	e.unackedRx = 0
	if e.ackTimer != nil {
		e.ackTimer.Cancel()
		e.ackTimer = nil
	}
}

func (e *ertmEngine) receive(payload []byte) {
	if e.closed {
		return
	}
	if len(payload) < ertmControlSize {
		e.Warnf("ertm: %d byte frame", len(payload))
		return
	}
	c := ertmControl(binary.LittleEndian.Uint16(payload))
	if c.isSFrame() {
		e.handleSFrame(c)
		return
	}
	e.handleIFrame(c, payload[ertmControlSize:])
}

// processReqSeq acknowledges frames up to reqSeq.
func (e *ertmEngine) processReqSeq(reqSeq uint8) bool {
	n := seqDiff(reqSeq, e.expectedAckSeq)
	if n > len(e.unacked) {
		e.Warnf("ertm: invalid reqseq %d, expected ack %d with %d unacked", reqSeq, e.expectedAckSeq, len(e.unacked))
		e.fail()
		return false
	}
	if n == 0 {
		return true
	}
	e.unacked = e.unacked[n:]
	e.expectedAckSeq = reqSeq
	if len(e.unacked) == 0 {
		e.stopRetransTimer()
	} else if !e.pollOutstanding && !e.remoteBusy {
		e.startRetransTimer()
	}
	return true
}

func (e *ertmEngine) handleFinal() {
	if !e.pollOutstanding {
		return
	}
	e.pollOutstanding = false
	e.pollCount = 0
	if e.monitorTimer != nil {
		e.monitorTimer.Cancel()
		e.monitorTimer = nil
	}
	e.retransmitAll()
}

func (e *ertmEngine) handleIFrame(c ertmControl, info []byte) {
	if !e.processReqSeq(c.reqSeq()) {
		return
	}
	if c.final() {
		e.handleFinal()
		if e.closed {
			return
		}
	}

	seq := c.txSeq()
	if seq != e.expectedTxSeq {
		if seqDiff(seq, e.expectedTxSeq) < e.rxWin {
			if !e.rejSent {
				e.Debugf("ertm: txseq %d, expected %d, sending REJ", seq, e.expectedTxSeq)
				e.rejSent = true
				e.sendSFrame(sReject, false, false)
			}
		}
		return
	}
	e.expectedTxSeq = (e.expectedTxSeq + 1) & ertmSeqMask
	e.rejSent = false

	e.reassemble(c.sar(), info)
	if e.closed {
		return
	}

	e.unackedRx++
	e.trySend()
	if e.unackedRx == 0 {
		return
	}
	if e.unackedRx >= e.ackThreshold() {
		e.sendSFrame(sReceiverReady, false, false)
	} else if e.ackTimer == nil {
		e.ackTimer = e.d.PostAfter(ertmAckTimeout, func() {
			e.ackTimer = nil
			if !e.closed && e.unackedRx > 0 {
				e.sendSFrame(sReceiverReady, false, false)
			}
		})
	}
}

func (e *ertmEngine) ackThreshold() int {
	if e.rxWin < 2 {
		return 1
	}
	return e.rxWin / 2
}

func (e *ertmEngine) reassemble(sar uint8, info []byte) {
	switch sar {
	case sarUnsegmented:
		if e.inSDU {
			e.Warnf("ertm: unsegmented frame inside sdu, dropping %d bytes", len(e.sdu))
			e.resetSDU()
		}
		if len(info) > int(e.info.MaxRxSDUSize) {
			e.Warnf("ertm: dropping %d byte sdu, mtu %d", len(info), e.info.MaxRxSDUSize)
			return
		}
		e.deliver(append([]byte(nil), info...))

	case sarStart:
		if e.inSDU {
			e.Warnf("ertm: start frame inside sdu, dropping %d bytes", len(e.sdu))
		}
		e.resetSDU()
		if len(info) < ertmSDULenSize {
			e.Warnf("ertm: start frame without sdu length")
			return
		}
		e.sduLen = int(binary.LittleEndian.Uint16(info))
		if e.sduLen > int(e.info.MaxRxSDUSize) {
			e.Warnf("ertm: sdu length %d exceeds mtu %d", e.sduLen, e.info.MaxRxSDUSize)
			return
		}
		e.sdu = append([]byte(nil), info[ertmSDULenSize:]...)
		e.inSDU = true

	case sarContinuation, sarEnd:
		if !e.inSDU {
			e.Debugf("ertm: sar %d frame outside sdu", sar)
			return
		}
		e.sdu = append(e.sdu, info...)
		switch {
		case len(e.sdu) > e.sduLen, sar == sarEnd && len(e.sdu) != e.sduLen:
			e.Warnf("ertm: sdu of %d bytes, expected %d", len(e.sdu), e.sduLen)
			e.resetSDU()
		case sar == sarEnd:
			sdu := e.sdu
			e.resetSDU()
			e.deliver(sdu)
		}
	}
}

func (e *ertmEngine) resetSDU() {
	e.sdu = nil
	e.sduLen = 0
	e.inSDU = false
}

func (e *ertmEngine) handleSFrame(c ertmControl) {
	fn := c.function()
	if fn != sSelectiveReject {
		if !e.processReqSeq(c.reqSeq()) {
			return
		}
	}

	switch fn {
	case sReceiverReady:
		e.remoteBusy = false
		if c.poll() {
			e.sendSFrame(sReceiverReady, false, true)
		}
		if c.final() {
			e.handleFinal()
		} else if len(e.unacked) > 0 && e.retransTimer == nil && !e.pollOutstanding {
			e.startRetransTimer()
		}
		e.trySend()

	case sReject:
		e.remoteBusy = false
		if c.final() && e.pollOutstanding {
			e.handleFinal()
		} else {
			e.retransmitAll()
		}
		e.trySend()

	case sReceiverNotReady:
		e.remoteBusy = true
		e.stopRetransTimer()
		if c.poll() {
			e.sendSFrame(sReceiverReady, false, true)
		}
		if c.final() && e.pollOutstanding {
			e.pollOutstanding = false
			e.pollCount = 0
			if e.monitorTimer != nil {
				e.monitorTimer.Cancel()
				e.monitorTimer = nil
			}
		}

	case sSelectiveReject:
		for _, f := range e.unacked {
			if f.seq == c.reqSeq() {
				e.retransmit(f)
				return
			}
		}
		e.Debugf("ertm: srej for unknown txseq %d", c.reqSeq())
	}
}

func (e *ertmEngine) retransmitAll() {
	for _, f := range e.unacked {
		if !e.retransmit(f) {
			return
		}
	}
	if len(e.unacked) > 0 && !e.remoteBusy {
		e.startRetransTimer()
	}
}

func (e *ertmEngine) retransmit(f *ertmTxFrame) bool {
	if e.info.MaxTransmissions != 0 && f.transmissions >= int(e.info.MaxTransmissions) {
		e.Warnf("ertm: txseq %d sent %d times", f.seq, f.transmissions)
		e.fail()
		return false
	}
	e.transmit(f)
	return true
}

func (e *ertmEngine) startRetransTimer() {
	e.stopRetransTimer()
	e.retransTimer = e.d.PostAfter(e.rto, e.onRetransTimeout)
}

func (e *ertmEngine) stopRetransTimer() {
	if e.retransTimer != nil {
		e.retransTimer.Cancel()
		e.retransTimer = nil
	}
}

func (e *ertmEngine) onRetransTimeout() {
	e.retransTimer = nil
	if e.closed || len(e.unacked) == 0 {
		return
	}
	e.pollOutstanding = true
	e.pollCount = 1
	e.sendSFrame(sReceiverReady, true, false)
	e.monitorTimer = e.d.PostAfter(e.monitor, e.onMonitorTimeout)
}

func (e *ertmEngine) onMonitorTimeout() {
	e.monitorTimer = nil
	if e.closed || !e.pollOutstanding {
		return
	}
	if e.info.MaxTransmissions != 0 && e.pollCount >= int(e.info.MaxTransmissions) {
		e.Warnf("ertm: no response to %d polls", e.pollCount)
		e.fail()
		return
	}
	e.pollCount++
	e.sendSFrame(sReceiverReady, true, false)
	e.monitorTimer = e.d.PostAfter(e.monitor, e.onMonitorTimeout)
}

func (e *ertmEngine) fail() {
	if e.closed {
		return
	}
	e.close()
	if e.onError != nil {
		e.onError()
	}
}

func (e *ertmEngine) close() {
	e.closed = true
	e.queue = nil
	e.stopRetransTimer()
	if e.monitorTimer != nil {
		e.monitorTimer.Cancel()
		e.monitorTimer = nil
	}
	if e.ackTimer != nil {
		e.ackTimer.Cancel()
		e.ackTimer = nil
	}
}
