package l2cap

import (
	"github.com/rigado/bthost"
)

// engine moves SDUs between a channel user and the frames of one channel.
type engine interface {
	// receive handles a frame payload, basic header and FCS removed.
	receive(payload []byte)

	// send queues an SDU and reports whether it was accepted.
	send(sdu []byte) bool

	close()
}

// basicEngine maps each SDU to one B-frame [Vol 3, Part A, 3.1].
type basicEngine struct {
	info    ChannelInfo
	deliver func([]byte)
	sendPDU func([]byte) bool
	closed  bool

	bthost.Logger
}

func newBasicEngine(info ChannelInfo, deliver func([]byte), sendPDU func([]byte) bool, l bthost.Logger) *basicEngine {
	return &basicEngine{info: info, deliver: deliver, sendPDU: sendPDU, Logger: l}
}

func (e *basicEngine) receive(payload []byte) {
	if e.closed {
		return
	}
	if len(payload) > int(e.info.MaxRxSDUSize) {
		e.Warnf("basic: dropping %d byte sdu, mtu %d", len(payload), e.info.MaxRxSDUSize)
		return
	}
	e.deliver(append([]byte(nil), payload...))
}

func (e *basicEngine) send(sdu []byte) bool {
	if e.closed || len(sdu) > int(e.info.MaxTxSDUSize) {
		return false
	}
	return e.sendPDU(sdu)
}

func (e *basicEngine) close() {
	e.closed = true
}
