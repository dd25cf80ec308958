package l2cap

import (
	"encoding/binary"
	"time"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/dispatch"
)

const (
	signalingHeaderSize = 4

	// DefaultRTX and DefaultERTX bound the wait for a response, the latter
	// once the peer has answered pending [Vol 3, Part A, 6.2].
	DefaultRTX  = time.Second
	DefaultERTX = 60 * time.Second
)

type responseStatus int

const (
	responseSuccess responseStatus = iota
	responseReject
	responseTimeout
)

func (s responseStatus) String() string {
	switch s {
	case responseSuccess:
		return "success"
	case responseReject:
		return "rejected"
	default:
		return "timeout"
	}
}

// responseHandler receives the answer to a request. Returning true keeps the
// request outstanding under the extended timeout; it is honoured only for
// successful responses.
type responseHandler func(status responseStatus, payload []byte) bool

type requestHandler func(id CommandID, payload []byte)

type pendingCommand struct {
	request  CommandCode
	response CommandCode
	handler  responseHandler
	timer    dispatch.Task
}

// signalingChannel runs the command/response protocol of the BR/EDR or LE
// signaling channel [Vol 3, Part A, 4].
type signalingChannel struct {
	d    dispatch.Dispatcher
	cid  ChannelID
	mtu  int
	send func(payload []byte)

	nextID   CommandID
	pending  map[CommandID]*pendingCommand
	handlers map[CommandCode]requestHandler

	rtx, ertx time.Duration
	closed    bool

	bthost.Logger
}

func newSignalingChannel(d dispatch.Dispatcher, cid ChannelID, mtu int, send func([]byte), l bthost.Logger) *signalingChannel {
	s := &signalingChannel{
		d:        d,
		cid:      cid,
		mtu:      mtu,
		send:     send,
		nextID:   1,
		pending:  make(map[CommandID]*pendingCommand),
		handlers: make(map[CommandCode]requestHandler),
		rtx:      DefaultRTX,
		ertx:     DefaultERTX,
		Logger:   l,
	}
	s.serveRequest(SignalEchoRequest, s.handleEcho)
	return s
}

func (s *signalingChannel) serveRequest(code CommandCode, h requestHandler) {
	s.handlers[code] = h
}

// allocID returns the next id not in flight. Ids wrap and skip zero.
func (s *signalingChannel) allocID() (CommandID, bool) {
	for i := 0; i < 255; i++ {
		id := s.nextID
		s.nextID++
		if s.nextID == InvalidCommandID {
			s.nextID = 1
		}
		if _, busy := s.pending[id]; !busy {
			return id, true
		}
	}
	return InvalidCommandID, false
}

// sendRequest sends sig and routes its response to h. It returns false when
// every id is in flight or the channel is closed.
func (s *signalingChannel) sendRequest(sig Signal, h responseHandler) bool {
	if s.closed {
		return false
	}
	id, ok := s.allocID()
	if !ok {
		s.Errorf("sig: no free command id for code 0x%02x", sig.Code())
		return false
	}
	p := &pendingCommand{
		request:  CommandCode(sig.Code()),
		response: CommandCode(sig.Code() + 1),
		handler:  h,
	}
	p.timer = s.d.PostAfter(s.rtx, func() { s.expire(id, p) })
	s.pending[id] = p
	s.sendCommand(CommandCode(sig.Code()), id, sig.Marshal())
	return true
}

// sendIndication sends a command that has no response, such as LE Flow
// Control Credit.
func (s *signalingChannel) sendIndication(sig Signal) {
	id, ok := s.allocID()
	if !ok {
		s.Errorf("sig: no free command id for code 0x%02x", sig.Code())
		return
	}
	s.sendCommand(CommandCode(sig.Code()), id, sig.Marshal())
}

func (s *signalingChannel) sendResponse(id CommandID, sig Signal) {
	s.sendCommand(CommandCode(sig.Code()), id, sig.Marshal())
}

func (s *signalingChannel) sendReject(id CommandID, reason uint16, data []byte) {
	s.Debugf("sig: reject id %d reason %d", id, reason)
	s.sendResponse(id, &CommandReject{Reason: reason, Data: data})
}

func (s *signalingChannel) rejectInvalidCID(id CommandID, local, remote ChannelID) {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint16(data[0:], uint16(local))
	binary.LittleEndian.PutUint16(data[2:], uint16(remote))
	s.sendReject(id, RejectInvalidCID, data)
}

func (s *signalingChannel) sendCommand(code CommandCode, id CommandID, payload []byte) {
	if s.closed {
		return
	}
	b := make([]byte, signalingHeaderSize+len(payload))
	b[0] = uint8(code)
	b[1] = uint8(id)
	binary.LittleEndian.PutUint16(b[2:], uint16(len(payload)))
	copy(b[signalingHeaderSize:], payload)
	s.send(b)
}

// handleFrame processes a C-frame. BR/EDR frames may carry several commands.
func (s *signalingChannel) handleFrame(b []byte) {
	if len(b) > s.mtu {
		var id CommandID
		if len(b) > 1 {
			id = CommandID(b[1])
		}
		mtu := make([]byte, 2)
		binary.LittleEndian.PutUint16(mtu, uint16(s.mtu))
		s.Warnf("sig: %d byte frame exceeds signaling mtu %d", len(b), s.mtu)
		s.sendReject(id, RejectSignalingMTUExceeded, mtu)
		return
	}

	for len(b) > 0 && !s.closed {
		if len(b) < signalingHeaderSize {
			s.Warnf("sig: %d trailing bytes in frame", len(b))
			return
		}
		code, id := CommandCode(b[0]), CommandID(b[1])
		n := int(binary.LittleEndian.Uint16(b[2:]))
		if len(b) < signalingHeaderSize+n {
			s.Warnf("sig: command 0x%02x id %d truncated", code, id)
			s.sendReject(id, RejectNotUnderstood, nil)
			return
		}
		payload := b[signalingHeaderSize : signalingHeaderSize+n]
		b = b[signalingHeaderSize+n:]

		if id == InvalidCommandID {
			s.Warnf("sig: dropping command 0x%02x with id 0", code)
			continue
		}
		s.handleCommand(code, id, payload)
	}
}

func (s *signalingChannel) handleCommand(code CommandCode, id CommandID, payload []byte) {
	if isResponse(code) {
		s.handleResponse(code, id, payload)
		return
	}

	h, ok := s.handlers[code]
	if !ok {
		s.Debugf("sig: no handler for command 0x%02x", code)
		s.sendReject(id, RejectNotUnderstood, nil)
		return
	}
	h(id, payload)
}

func (s *signalingChannel) handleResponse(code CommandCode, id CommandID, payload []byte) {
	p, ok := s.pending[id]
	if !ok {
		s.Debugf("sig: unexpected response 0x%02x id %d", code, id)
		return
	}

	status := responseSuccess
	switch code {
	case p.response:
	case SignalCommandReject:
		status = responseReject
	default:
		s.Warnf("sig: response 0x%02x for request 0x%02x id %d", code, p.request, id)
		return
	}

	p.timer.Cancel()
	delete(s.pending, id)

	keep := p.handler(status, payload)
	if keep && status == responseSuccess && !s.closed {
		s.pending[id] = p
		p.timer = s.d.PostAfter(s.ertx, func() { s.expire(id, p) })
	}
}

func (s *signalingChannel) expire(id CommandID, p *pendingCommand) {
	if cur, ok := s.pending[id]; !ok || cur != p {
		return
	}
	delete(s.pending, id)
	s.Debugf("sig: request 0x%02x id %d timed out", p.request, id)
	p.handler(responseTimeout, nil)
}

func (s *signalingChannel) handleEcho(id CommandID, payload []byte) {
	s.sendResponse(id, &EchoResponse{Data: payload})
}

// close drops every outstanding request without calling its handler.
func (s *signalingChannel) close() {
	for _, p := range s.pending {
		p.timer.Cancel()
	}
	s.pending = make(map[CommandID]*pendingCommand)
	s.closed = true
}
