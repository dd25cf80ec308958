// Package hcitest provides an in-memory controller for protocol tests.
package hcitest

import (
	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/hci/cmd"
	"github.com/rigado/bthost/linux/hci/evt"
)

// SentPDU is one call to SendPackets.
type SentPDU struct {
	Handle   uint16
	Packets  []hci.ACLPacket
	Priority hci.Priority
}

// Frame joins the fragment payloads back into the L2CAP frame.
func (s SentPDU) Frame() []byte {
	var out []byte
	for _, p := range s.Packets {
		out = append(out, p.Data()...)
	}
	return out
}

// Fake implements hci.CommandChannel and hci.ACLDataChannel. Commands are
// answered with success unless overridden; events and inbound data are
// delivered through the dispatcher.
type Fake struct {
	d dispatch.Dispatcher

	handlers     map[uint8]hci.EventHandler
	commands     []hci.Command
	statuses     map[int]hci.ErrCommand
	returnParams map[int][]byte
	silent       map[int]bool

	rx         func(hci.ACLPacket)
	links      map[uint16]hci.LinkType
	sent       []SentPDU
	bufInfo    map[hci.LinkType]hci.BufferInfo
	priorities map[uint16]hci.AclPriority

	AclPriorityErr error
	SendFails      bool
}

func New(d dispatch.Dispatcher) *Fake {
	return &Fake{
		d:            d,
		handlers:     make(map[uint8]hci.EventHandler),
		statuses:     make(map[int]hci.ErrCommand),
		returnParams: make(map[int][]byte),
		silent:       make(map[int]bool),
		links:        make(map[uint16]hci.LinkType),
		priorities:   make(map[uint16]hci.AclPriority),
		bufInfo: map[hci.LinkType]hci.BufferInfo{
			hci.LinkTypeACL: {MaxDataLength: 1024, MaxNumPackets: 8},
			hci.LinkTypeLE:  {MaxDataLength: 251, MaxNumPackets: 8},
		},
	}
}

func (f *Fake) SendCommand(c hci.Command, cb hci.CommandCallback) {
	f.commands = append(f.commands, c)

	op := c.OpCode()
	if f.silent[op] {
		return
	}

	status := f.statuses[op]
	var e hci.Event
	if cmd.Async(op) {
		e = hci.Event{
			Code:   evt.CommandStatusCode,
			Params: []byte{uint8(status), 1, byte(op), byte(op >> 8)},
		}
	} else {
		p := []byte{1, byte(op), byte(op >> 8), uint8(status)}
		if status == hci.ErrSuccess {
			p = append(p, f.returnParams[op]...)
		}
		e = hci.Event{Code: evt.CommandCompleteCode, Params: p}
	}

	if cb != nil {
		f.d.Post(func() { cb(e) })
	}
}

func (f *Fake) SetEventHandler(code uint8, h hci.EventHandler) {
	if h == nil {
		delete(f.handlers, code)
		return
	}
	f.handlers[code] = h
}

// SetCommandStatus makes every following op fail with status.
func (f *Fake) SetCommandStatus(op int, status hci.ErrCommand) {
	f.statuses[op] = status
}

// SetReturnParams sets the parameters after the status byte for a synchronous op.
func (f *Fake) SetReturnParams(op int, params []byte) {
	f.returnParams[op] = params
}

// SetSilent stops the fake from answering op, as a controller that never
// responds would.
func (f *Fake) SetSilent(op int, silent bool) {
	f.silent[op] = silent
}

func (f *Fake) Commands() []hci.Command {
	return f.commands
}

// CommandsOf returns the recorded commands with opcode op.
func (f *Fake) CommandsOf(op int) []hci.Command {
	var out []hci.Command
	for _, c := range f.commands {
		if c.OpCode() == op {
			out = append(out, c)
		}
	}
	return out
}

// LastCommand returns the most recent command, or nil.
func (f *Fake) LastCommand() hci.Command {
	if len(f.commands) == 0 {
		return nil
	}
	return f.commands[len(f.commands)-1]
}

func (f *Fake) ClearCommands() {
	f.commands = nil
}

// InjectEvent delivers an event on the dispatcher.
func (f *Fake) InjectEvent(code uint8, params []byte) {
	e := hci.Event{Code: code, Params: params}
	f.d.Post(func() {
		if h, ok := f.handlers[code]; ok {
			h(e)
		}
	})
}

// HasHandler reports whether an event handler is registered for code.
func (f *Fake) HasHandler(code uint8) bool {
	_, ok := f.handlers[code]
	return ok
}

func (f *Fake) BufferInfo(lt hci.LinkType) hci.BufferInfo {
	if lt == hci.LinkTypeLE {
		return f.bufInfo[hci.LinkTypeLE]
	}
	return f.bufInfo[hci.LinkTypeACL]
}

func (f *Fake) SetBufferInfo(lt hci.LinkType, info hci.BufferInfo) {
	f.bufInfo[lt] = info
}

func (f *Fake) RegisterLink(handle uint16, lt hci.LinkType) {
	f.links[handle] = lt
}

func (f *Fake) UnregisterLink(handle uint16) {
	delete(f.links, handle)
}

func (f *Fake) IsRegistered(handle uint16) bool {
	_, ok := f.links[handle]
	return ok
}

func (f *Fake) SendPackets(handle uint16, pkts []hci.ACLPacket, pri hci.Priority) bool {
	if f.SendFails {
		return false
	}
	f.sent = append(f.sent, SentPDU{Handle: handle, Packets: pkts, Priority: pri})
	return true
}

func (f *Fake) RequestAclPriority(handle uint16, pri hci.AclPriority, cb func(error)) {
	err := f.AclPriorityErr
	if err == nil {
		f.priorities[handle] = pri
	}
	f.d.Post(func() { cb(err) })
}

// AclPriority returns the last priority granted for handle.
func (f *Fake) AclPriority(handle uint16) hci.AclPriority {
	return f.priorities[handle]
}

func (f *Fake) SetDataRxHandler(h func(hci.ACLPacket)) {
	f.rx = h
}

// InjectACL delivers an inbound fragment on the dispatcher.
func (f *Fake) InjectACL(p hci.ACLPacket) {
	f.d.Post(func() {
		if f.rx != nil {
			f.rx(p)
		}
	})
}

// Sent returns every PDU handed to SendPackets.
func (f *Fake) Sent() []SentPDU {
	return f.sent
}

// SentOn returns the PDUs sent on handle.
func (f *Fake) SentOn(handle uint16) []SentPDU {
	var out []SentPDU
	for _, s := range f.sent {
		if s.Handle == handle {
			out = append(out, s)
		}
	}
	return out
}

func (f *Fake) ClearSent() {
	f.sent = nil
}
