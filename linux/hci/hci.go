package hci

import (
	"github.com/rigado/bthost/linux/hci/evt"
)

// Command ...
type Command interface {
	OpCode() int
	Len() int
	Marshal([]byte) error
}

// CommandRP ...
type CommandRP interface {
	Unmarshal(b []byte) error
}

// Event is a HCI event with its header stripped.
type Event struct {
	Code   uint8
	Params []byte
}

// Status returns the status carried by a Command Status or Command Complete
// event, or the first parameter of any other event.
func (e Event) Status() ErrCommand {
	switch e.Code {
	case evt.CommandCompleteCode:
		return ErrCommand(evt.CommandComplete(e.Params).Status())
	case evt.CommandStatusCode:
		return ErrCommand(evt.CommandStatus(e.Params).Status())
	default:
		if len(e.Params) == 0 {
			return ErrUnspecified
		}
		return ErrCommand(e.Params[0])
	}
}

// Err returns nil on success, the status otherwise.
func (e Event) Err() error {
	if s := e.Status(); s != ErrSuccess {
		return s
	}
	return nil
}

// ReturnParameters of a Command Complete event.
func (e Event) ReturnParameters() []byte {
	if e.Code != evt.CommandCompleteCode {
		return nil
	}
	return evt.CommandComplete(e.Params).ReturnParameters()
}

// Unmarshal decodes the return parameters of a Command Complete event into rp.
func (e Event) Unmarshal(rp CommandRP) error {
	if err := e.Err(); err != nil {
		return err
	}
	return rp.Unmarshal(e.ReturnParameters())
}

// CommandCallback receives the Command Status or Command Complete answering a
// command. It runs on the dispatcher.
type CommandCallback func(Event)

// EventHandler receives events of a registered code on the dispatcher.
type EventHandler func(Event)

// CommandChannel sends commands to the controller and routes events back.
type CommandChannel interface {
	// SendCommand queues c. cb may be nil. If the command cannot be issued,
	// cb is invoked with a Command Status carrying the failure.
	SendCommand(c Command, cb CommandCallback)

	// SetEventHandler replaces the handler for code; nil removes it.
	SetEventHandler(code uint8, h EventHandler)
}

// BufferInfo describes the controller's data buffers for one transport.
type BufferInfo struct {
	MaxDataLength int
	MaxNumPackets int
}

// ACLDataChannel moves L2CAP fragments between the host and controller under
// the controller's packet-based flow control [Vol 2, Part E, 4.1.1].
type ACLDataChannel interface {
	BufferInfo(LinkType) BufferInfo

	RegisterLink(handle uint16, lt LinkType)
	UnregisterLink(handle uint16)

	// SendPackets queues the fragments of one PDU. The fragments are sent
	// back-to-back; a PDU is never interleaved with another on the same link.
	SendPackets(handle uint16, pkts []ACLPacket, pri Priority) bool

	// RequestAclPriority asks for a vendor specific scheduling change.
	RequestAclPriority(handle uint16, pri AclPriority, cb func(error))

	// SetDataRxHandler installs the receiver of inbound fragments; it runs on
	// the dispatcher.
	SetDataRxHandler(func(ACLPacket))
}
