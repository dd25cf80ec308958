package controller

import (
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci"
)

// BufferInfo returns the controller buffers available to links of lt.
func (h *HCI) BufferInfo(lt hci.LinkType) hci.BufferInfo {
	if lt != hci.LinkTypeLE {
		lt = hci.LinkTypeACL
	}
	return h.bufInfo[lt]
}

// RegisterLink makes handle eligible for sending and receiving data.
func (h *HCI) RegisterLink(handle uint16, lt hci.LinkType) {
	if _, ok := h.links[handle]; ok {
		panic(errors.Errorf("controller: handle 0x%04X registered twice", handle))
	}
	h.links[handle] = lt
}

// UnregisterLink drops the link's queued data and reclaims the buffers it
// held in the controller [Vol 2, Part E, 4.3].
func (h *HCI) UnregisterLink(handle uint16) {
	q := h.queueFor(handle)
	delete(h.links, handle)
	if q == nil {
		return
	}
	if err := q.DropLink(handle); err != nil {
		h.Warnf("dropping link 0x%04X: %v", handle, err)
	}
}

// SendPackets queues the fragments of one PDU on handle.
func (h *HCI) SendPackets(handle uint16, pkts []hci.ACLPacket, pri hci.Priority) bool {
	q := h.queueFor(handle)
	if q == nil || !h.isOpen() {
		return false
	}
	if err := q.Enqueue(handle, pkts, pri); err != nil {
		h.Warnf("sending on 0x%04X: %v", handle, err)
		return false
	}
	return true
}

// RequestAclPriority sends the vendor priority command configured with
// OptAclPriorityCommand.
func (h *HCI) RequestAclPriority(handle uint16, pri hci.AclPriority, cb func(error)) {
	if h.priorityOCF == 0 {
		h.d.Post(func() { cb(errors.Wrap(bthost.ErrNotSupported, "acl priority")) })
		return
	}
	c := hci.NewCustomCommand(hci.VendorOpcode(h.priorityOCF), hci.NewAclPriorityParams(handle, pri))
	h.SendCommand(c, func(e hci.Event) {
		cb(errors.Wrapf(e.Err(), "acl priority %v", pri))
	})
}

// SetDataRxHandler installs the receiver of inbound ACL fragments.
func (h *HCI) SetDataRxHandler(rx func(hci.ACLPacket)) {
	h.rx = rx
}

func (h *HCI) queueFor(handle uint16) *hci.ACLQueue {
	lt, ok := h.links[handle]
	if !ok {
		return nil
	}
	if lt == hci.LinkTypeLE {
		return h.le
	}
	return h.acl
}

var (
	_ hci.CommandChannel = (*HCI)(nil)
	_ hci.ACLDataChannel = (*HCI)(nil)
)
