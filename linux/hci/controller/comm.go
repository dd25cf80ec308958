package controller

import (
	"io"

	"github.com/pkg/errors"
	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/hci/evt"
)

const cmdHeaderLen = 3

type pendingCommand struct {
	op      int
	c       hci.Command
	cb      hci.CommandCallback
	timeout dispatch.Task
}

// statusEvent is the Command Status a command gets when it never reached
// the controller.
func statusEvent(op int, status hci.ErrCommand) hci.Event {
	return hci.Event{
		Code:   evt.CommandStatusCode,
		Params: []byte{uint8(status), 0, byte(op), byte(op >> 8)},
	}
}

// SendCommand queues c until the controller has a free command slot. It
// must be called on the dispatcher.
func (h *HCI) SendCommand(c hci.Command, cb hci.CommandCallback) {
	p := &pendingCommand{op: c.OpCode(), c: c, cb: cb}
	if !h.isOpen() {
		h.fail(p, hci.ErrUnspecified)
		return
	}
	h.queue = append(h.queue, p)
	h.trySend()
}

// SetEventHandler routes events with code to eh. Command Complete, Command
// Status and Number Of Completed Packets are consumed by the controller.
func (h *HCI) SetEventHandler(code uint8, eh hci.EventHandler) {
	if eh == nil {
		delete(h.handlers, code)
		return
	}
	h.handlers[code] = eh
}

func (h *HCI) trySend() {
	for h.credits > 0 && len(h.queue) > 0 {
		p := h.queue[0]
		h.queue = h.queue[1:]

		b := make([]byte, 1+cmdHeaderLen+p.c.Len())
		b[0] = hci.PktTypeCommand
		b[1] = byte(p.op)
		b[2] = byte(p.op >> 8)
		b[3] = byte(p.c.Len())
		if err := p.c.Marshal(b[1+cmdHeaderLen:]); err != nil {
			h.Errorf("can't marshal %v: %v", p.c, err)
			h.fail(p, hci.ErrInvalidParams)
			continue
		}

		if err := h.write(b); err != nil {
			h.fail(p, hci.ErrUnspecified)
			h.close(errors.Wrapf(err, "can't send %v", p.c))
			return
		}
		h.credits--
		h.sent[p.op] = append(h.sent[p.op], p)
		p.timeout = h.d.PostAfter(h.commandTimeout, func() {
			h.close(errors.Errorf("no response to %v, controller lost", p.c))
			h.failSent()
		})
	}
}

func (h *HCI) complete(p *pendingCommand, e hci.Event) {
	if p.timeout != nil {
		p.timeout.Cancel()
		p.timeout = nil
	}
	if p.cb != nil {
		p.cb(e)
	}
}

// fail answers a command that never got a controller response. The
// callback runs later so callers never see it inside SendCommand.
func (h *HCI) fail(p *pendingCommand, status hci.ErrCommand) {
	if p.timeout != nil {
		p.timeout.Cancel()
		p.timeout = nil
	}
	if p.cb == nil {
		return
	}
	cb, e := p.cb, statusEvent(p.op, status)
	h.d.Post(func() { cb(e) })
}

// resolve ends the oldest outstanding command with op.
func (h *HCI) resolve(op int, e hci.Event) bool {
	sent := h.sent[op]
	if len(sent) == 0 {
		return false
	}
	p := sent[0]
	if len(sent) == 1 {
		delete(h.sent, op)
	} else {
		h.sent[op] = sent[1:]
	}
	h.complete(p, e)
	return true
}

// failSent fails every command that is queued or waiting for an answer.
func (h *HCI) failSent() {
	for op, sent := range h.sent {
		delete(h.sent, op)
		for _, p := range sent {
			h.fail(p, hci.ErrUnspecified)
		}
	}
	queue := h.queue
	h.queue = nil
	for _, p := range queue {
		h.fail(p, hci.ErrUnspecified)
	}
}

func (h *HCI) write(b []byte) error {
	if !h.isOpen() {
		return io.EOF
	}
	n, err := h.skt.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return errors.Errorf("short write, %d of %d bytes", n, len(b))
	}
	return nil
}

func (h *HCI) writeACL(p hci.ACLPacket) error {
	b := make([]byte, 1+len(p))
	b[0] = hci.PktTypeACLData
	copy(b[1:], p)
	if err := h.write(b); err != nil {
		err = errors.Wrap(err, "can't send acl data")
		h.close(err)
		return err
	}
	return nil
}

// readLoop hands each packet read from the transport to the dispatcher. A
// read of zero bytes without an error is a transport poll timeout.
func (h *HCI) readLoop() {
	b := make([]byte, readBufferSize)
	for {
		n, err := h.skt.Read(b)
		switch {
		case !h.isOpen():
			return
		case err == io.EOF:
			h.close(err)
			h.d.Post(h.failSent)
			return
		case err != nil:
			h.close(errors.Wrap(err, "transport read"))
			h.d.Post(h.failSent)
			return
		case n == 0:
			continue
		}
		p := make([]byte, n)
		copy(p, b)
		h.d.Post(func() {
			if err := h.handlePacket(p); err != nil {
				h.Warnf("%v", err)
			}
		})
	}
}
