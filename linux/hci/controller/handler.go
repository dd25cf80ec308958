package controller

import (
	"github.com/pkg/errors"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/hci/evt"
)

const evtHeaderLen = 2

func (h *HCI) handlePacket(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty packet")
	}
	// Strip the 1-byte HCI header and pass down the rest of the packet.
	t, b := b[0], b[1:]
	switch t {
	case hci.PktTypeACLData:
		return h.handleACL(b)
	case hci.PktTypeEvent:
		return h.handleEvt(b)
	case hci.PktTypeSCOData:
		h.Debugf("dropping sco packet [% X]", b)
		return nil
	case hci.PktTypeVendor:
		// some controllers append vendor packets; they carry nothing for us
		h.Debugf("dropping vendor packet [% X]", b)
		return nil
	default:
		return errors.Errorf("invalid packet: 0x%02X [% X]", t, b)
	}
}

func (h *HCI) handleACL(b []byte) error {
	p := hci.ACLPacket(b)
	if !p.Valid() {
		return errors.Errorf("malformed acl packet [% X]", b)
	}
	if _, ok := h.links[p.Handle()]; !ok {
		h.Debugf("acl data for unknown handle 0x%04X", p.Handle())
		return nil
	}
	if h.rx != nil {
		h.rx(p)
	}
	return nil
}

func (h *HCI) handleEvt(b []byte) error {
	if len(b) < evtHeaderLen {
		return errors.Errorf("short event packet [% X]", b)
	}
	code, plen := b[0], int(b[1])
	params := b[evtHeaderLen:]
	if plen != len(params) {
		return errors.Errorf("invalid event packet [% X]", b)
	}

	switch code {
	case evt.CommandCompleteCode:
		return h.handleCommandComplete(params)
	case evt.CommandStatusCode:
		return h.handleCommandStatus(params)
	case evt.NumberOfCompletedPacketsCode:
		return h.handleNumberOfCompletedPackets(params)
	case evt.HardwareErrorCode:
		h.close(errors.Errorf("controller hardware error 0x%02X", evt.HardwareError(params).HardwareCode()))
		h.failSent()
		return nil
	}

	if eh, ok := h.handlers[code]; ok {
		eh(hci.Event{Code: code, Params: params})
		return nil
	}
	h.Debugf("unhandled event 0x%02X [% X]", code, params)
	return nil
}

func (h *HCI) handleCommandComplete(b []byte) error {
	e := evt.CommandComplete(b)
	if len(b) < 3 {
		return errors.Errorf("invalid command complete [% X]", b)
	}
	h.credits = int(e.NumHCICommandPackets())
	defer h.trySend()

	// NOP command, used for flow control purpose [Vol 2, Part E, 4.4]
	op := int(e.CommandOpcode())
	if op == 0x0000 {
		return nil
	}
	if !h.resolve(op, hci.Event{Code: evt.CommandCompleteCode, Params: b}) {
		return errors.Errorf("command complete for 0x%04X which was not sent", op)
	}
	return nil
}

func (h *HCI) handleCommandStatus(b []byte) error {
	e := evt.CommandStatus(b)
	if !e.Valid() {
		return errors.Errorf("invalid command status [% X]", b)
	}
	h.credits = int(e.NumHCICommandPackets())
	defer h.trySend()

	op := int(e.CommandOpcode())
	if op == 0x0000 {
		return nil
	}
	if !h.resolve(op, hci.Event{Code: evt.CommandStatusCode, Params: b}) {
		return errors.Errorf("command status for 0x%04X which was not sent", op)
	}
	return nil
}

// handleNumberOfCompletedPackets returns controller buffers to the queue
// of each link's transport.
func (h *HCI) handleNumberOfCompletedPackets(b []byte) error {
	e := evt.NumberOfCompletedPackets(b)
	if len(b) < 1 || len(b) < 1+4*int(e.NumberOfHandles()) {
		return errors.Errorf("invalid number of completed packets [% X]", b)
	}
	for i := 0; i < int(e.NumberOfHandles()); i++ {
		handle := e.ConnectionHandle(i)
		q := h.queueFor(handle)
		if q == nil {
			h.Debugf("completed packets for unknown handle 0x%04X", handle)
			continue
		}
		if err := q.Complete(handle, int(e.HCNumOfCompletedPackets(i))); err != nil {
			return err
		}
	}
	return nil
}
