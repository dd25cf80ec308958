// Package bredr manages BR/EDR links: it sets up inbound and outbound ACL
// connections, interrogates the peer, pairs on demand and hands the link to
// L2CAP once it is usable.
package bredr

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/l2cap"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/hci/cmd"
	"github.com/rigado/bthost/linux/hci/evt"
	"github.com/rigado/bthost/peer"
	"github.com/rigado/bthost/sm"
)

const (
	// DM1, DH1, DM3, DH3, DM5 and DH5
	packetTypes = 0xCC18
	pageScanR2  = 0x02
	scanPage    = 0x02
)

// ServiceCallback receives an inbound channel once the link meets the
// service's security requirements.
type ServiceCallback func(id bthost.PeerID, ch *l2cap.Channel)

type connectionRequest struct {
	addr      bthost.Addr
	peerID    bthost.PeerID
	callbacks []ConnectCallback
	timedOut  bool
	canceled  bool

	// an inbound link to the same peer completed while the controller
	// still owed a completion for this attempt
	superseded bool
}

// ConnectionManager owns every BR/EDR connection. It is not safe for
// concurrent use; call it and deliver its events on one dispatcher.
type ConnectionManager struct {
	d     dispatch.Dispatcher
	cmd   hci.CommandChannel
	l2    *l2cap.ChannelManager
	cache *peer.Cache
	local bthost.Addr
	cfg   config

	handlers    map[uint8]hci.EventHandler
	connections map[uint16]*Connection
	scoOwner    map[uint16]*Connection

	// outbound requests by address, and the order they were made in
	requests  map[bthost.Addr]*connectionRequest
	queue     []bthost.Addr
	inFlight  *connectionRequest
	pageTimer dispatch.Task

	// accepted inbound requests awaiting Connection Complete
	inbound  map[bthost.Addr]bool
	cooldown map[bthost.Addr]dispatch.Task

	bthost.Logger
}

// NewConnectionManager registers for BR/EDR events on c and opens channels
// through l2. Peers are looked up and created in cache.
func NewConnectionManager(d dispatch.Dispatcher, c hci.CommandChannel, l2 *l2cap.ChannelManager, cache *peer.Cache, local bthost.Addr, opts ...Option) (*ConnectionManager, error) {
	m := &ConnectionManager{
		d:           d,
		cmd:         c,
		l2:          l2,
		cache:       cache,
		local:       local,
		cfg:         defaultConfig(),
		connections: make(map[uint16]*Connection),
		scoOwner:    make(map[uint16]*Connection),
		requests:    make(map[bthost.Addr]*connectionRequest),
		inbound:     make(map[bthost.Addr]bool),
		cooldown:    make(map[bthost.Addr]dispatch.Task),
		Logger:      bthost.GetLogger().ChildLogger(map[string]interface{}{"component": "bredr"}),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if m.cfg.store != nil {
		cache.SetStore(m.cfg.store)
		if err := cache.Load(); err != nil {
			return nil, err
		}
	}

	m.handlers = map[uint8]hci.EventHandler{
		evt.ConnectionRequestCode:                    m.handleConnectionRequest,
		evt.ConnectionCompleteCode:                   m.handleConnectionComplete,
		evt.DisconnectionCompleteCode:                m.handleDisconnectionComplete,
		evt.SynchronousConnectionCompleteCode:        m.handleSynchronousConnectionComplete,
		evt.RoleChangeCode:                           m.handleRoleChange,
		evt.RemoteNameRequestCompleteCode:            m.handleRemoteNameRequestComplete,
		evt.ReadRemoteVersionInformationCompleteCode: m.handleReadRemoteVersionInformationComplete,
		evt.ReadRemoteSupportedFeaturesCompleteCode:  m.handleReadRemoteSupportedFeaturesComplete,
		evt.ReadRemoteExtendedFeaturesCompleteCode:   m.handleReadRemoteExtendedFeaturesComplete,
		evt.LinkKeyRequestCode:                       m.handleLinkKeyRequest,
		evt.LinkKeyNotificationCode:                  m.handleLinkKeyNotification,
		evt.IOCapabilityRequestCode:                  m.handleIOCapabilityRequest,
		evt.IOCapabilityResponseCode:                 m.handleIOCapabilityResponse,
		evt.UserConfirmationRequestCode:              m.handleUserConfirmationRequest,
		evt.UserPasskeyRequestCode:                   m.handleUserPasskeyRequest,
		evt.UserPasskeyNotificationCode:              m.handleUserPasskeyNotification,
		evt.SimplePairingCompleteCode:                m.handleSimplePairingComplete,
		evt.AuthenticationCompleteCode:               m.handleAuthenticationComplete,
		evt.EncryptionChangeCode:                     m.handleEncryptionChange,
		evt.EncryptionKeyRefreshCompleteCode:         m.handleEncryptionKeyRefreshComplete,
	}
	for code, h := range m.handlers {
		c.SetEventHandler(code, h)
	}
	return m, nil
}

// Close unregisters the event handlers and stops every timer. Links are
// left up.
func (m *ConnectionManager) Close() {
	for code := range m.handlers {
		m.cmd.SetEventHandler(code, nil)
	}
	if m.pageTimer != nil {
		m.pageTimer.Cancel()
		m.pageTimer = nil
	}
	for addr, t := range m.cooldown {
		t.Cancel()
		delete(m.cooldown, addr)
	}
	for _, c := range m.connections {
		c.stopTimers()
	}
}

// SetPairingDelegate replaces the pairing delegate; nil rejects pairing.
func (m *ConnectionManager) SetPairingDelegate(d sm.PairingDelegate) {
	m.cfg.delegate = d
}

// SetConnectable turns page scan on or off.
func (m *ConnectionManager) SetConnectable(connectable bool, cb func(error)) {
	scan := uint8(0)
	if connectable {
		scan = scanPage
	}
	m.cmd.SendCommand(&cmd.WriteScanEnable{ScanEnable: scan}, func(e hci.Event) {
		if cb != nil {
			cb(errors.Wrap(e.Err(), "write scan enable"))
		}
	})
}

// GetConnectionHandle returns the ACL handle of the peer's connection.
func (m *ConnectionManager) GetConnectionHandle(id bthost.PeerID) (uint16, bool) {
	c := m.connByPeer(id)
	if c == nil {
		return 0, false
	}
	return c.handle, true
}

// Connection returns the peer's connection, ready or not.
func (m *ConnectionManager) Connection(id bthost.PeerID) (*Connection, bool) {
	c := m.connByPeer(id)
	return c, c != nil
}

func (m *ConnectionManager) connByAddr(addr bthost.Addr) *Connection {
	for _, c := range m.connections {
		if c.addr == addr {
			return c
		}
	}
	return nil
}

func (m *ConnectionManager) connByPeer(id bthost.PeerID) *Connection {
	for _, c := range m.connections {
		if c.peerID == id {
			return c
		}
	}
	return nil
}

// Connect connects to a peer in the cache. cb runs once the connection is
// ready or failed; it runs before Connect returns if the peer is already
// connected. Connect returns false for an unknown peer.
func (m *ConnectionManager) Connect(id bthost.PeerID, cb ConnectCallback) bool {
	p := m.cache.FindByID(id)
	if p == nil {
		m.Warnf("connect to unknown peer %v", id)
		return false
	}

	if c := m.connByAddr(p.Addr()); c != nil && !c.disconnecting {
		if c.ready {
			cb(c, nil)
			return true
		}
		c.connectCallbacks = append(c.connectCallbacks, cb)
		return true
	}

	if req, ok := m.requests[p.Addr()]; ok {
		req.callbacks = append(req.callbacks, cb)
		return true
	}

	req := &connectionRequest{addr: p.Addr(), peerID: id, callbacks: []ConnectCallback{cb}}
	m.requests[req.addr] = req
	if m.connByAddr(req.addr) == nil {
		p.SetConnectionState(peer.Initializing)
	}
	m.queue = append(m.queue, req.addr)
	m.tryCreateConnection()
	return true
}

// tryCreateConnection issues the oldest queued request if the controller
// has no Create Connection outstanding.
func (m *ConnectionManager) tryCreateConnection() {
	if m.inFlight != nil {
		return
	}
	for len(m.queue) > 0 {
		addr := m.queue[0]
		m.queue = m.queue[1:]
		req, ok := m.requests[addr]
		if !ok {
			continue
		}
		// an accepted inbound request or a link going down resolves it later
		if m.inbound[addr] || m.connByAddr(addr) != nil {
			continue
		}
		m.createConnection(req)
		return
	}
}

func (m *ConnectionManager) createConnection(req *connectionRequest) {
	m.inFlight = req
	m.Infof("connecting to %v", req.addr)

	m.cmd.SendCommand(&cmd.CreateConnection{
		BDADDR:                 req.addr,
		PacketType:             packetTypes,
		PageScanRepetitionMode: pageScanR2,
		AllowRoleSwitch:        0x01,
	}, func(e hci.Event) {
		err := e.Err()
		if err == nil {
			return
		}
		if m.inFlight == req {
			m.clearInFlight()
		}
		if !req.canceled && !req.superseded {
			m.failRequest(req, errors.Wrapf(err, "create connection to %v", req.addr))
		}
		m.tryCreateConnection()
	})

	m.pageTimer = m.d.PostAfter(m.cfg.pageTimeout, func() {
		m.pageTimer = nil
		if m.inFlight != req {
			return
		}
		m.Warnf("connection to %v timed out, canceling", req.addr)
		req.timedOut = true
		m.cmd.SendCommand(&cmd.CreateConnectionCancel{BDADDR: req.addr}, nil)
	})
}

func (m *ConnectionManager) clearInFlight() {
	m.inFlight = nil
	if m.pageTimer != nil {
		m.pageTimer.Cancel()
		m.pageTimer = nil
	}
}

// inFlightFor returns the outstanding Create Connection if it targets addr.
func (m *ConnectionManager) inFlightFor(addr bthost.Addr) *connectionRequest {
	if m.inFlight == nil || m.inFlight.addr != addr {
		return nil
	}
	return m.inFlight
}

func (m *ConnectionManager) failRequest(req *connectionRequest, err error) {
	if m.requests[req.addr] == req {
		delete(m.requests, req.addr)
	}
	if p := m.cache.FindByAddr(req.addr); p != nil && m.connByAddr(req.addr) == nil && !m.inbound[req.addr] {
		p.SetConnectionState(peer.NotConnected)
	}
	m.Infof("connection to %v failed: %v", req.addr, err)
	cbs := req.callbacks
	req.callbacks = nil
	for _, cb := range cbs {
		cb(nil, err)
	}
}

func (m *ConnectionManager) handleConnectionRequest(e hci.Event) {
	ev := evt.ConnectionRequest(e.Params)
	if !ev.Valid() {
		m.Warnf("malformed connection request [%x]", e.Params)
		return
	}
	addr := bthost.Addr(ev.BDADDR())

	if hci.LinkType(ev.LinkType()) != hci.LinkTypeACL {
		m.Infof("rejecting %v connection from %v", hci.LinkType(ev.LinkType()), addr)
		m.reject(addr, hci.ErrRejLimitedResources)
		return
	}
	if _, ok := m.cooldown[addr]; ok {
		m.Infof("rejecting %v, recently disconnected locally", addr)
		m.reject(addr, hci.ErrRejBadAddr)
		return
	}
	if m.inbound[addr] {
		m.Warnf("duplicate connection request from %v", addr)
		m.reject(addr, hci.ErrRejLimitedResources)
		return
	}
	if c := m.connByAddr(addr); c != nil {
		m.Warnf("connection request from %v which is already connected", addr)
		m.reject(addr, hci.ErrConnExists)
		return
	}

	p := m.cache.NewPeer(addr)
	p.SetConnectionState(peer.Initializing)
	m.inbound[addr] = true
	m.Infof("accepting connection from %v", addr)

	m.cmd.SendCommand(&cmd.AcceptConnectionRequest{BDADDR: addr, Role: m.cfg.acceptRole}, func(e hci.Event) {
		err := e.Err()
		if err == nil {
			return
		}
		m.Warnf("accepting %v failed: %v", addr, err)
		delete(m.inbound, addr)
		if req, ok := m.requests[addr]; ok && m.inFlight != req {
			m.queue = append(m.queue, addr)
			m.tryCreateConnection()
			return
		}
		if _, ok := m.requests[addr]; !ok && m.connByAddr(addr) == nil {
			p.SetConnectionState(peer.NotConnected)
		}
	})
}

func (m *ConnectionManager) reject(addr bthost.Addr, reason hci.ErrCommand) {
	m.cmd.SendCommand(&cmd.RejectConnectionRequest{BDADDR: addr, Reason: uint8(reason)}, nil)
}

func (m *ConnectionManager) handleConnectionComplete(e hci.Event) {
	ev := evt.ConnectionComplete(e.Params)
	if !ev.Valid() {
		m.Warnf("malformed connection complete [%x]", e.Params)
		return
	}
	addr := bthost.Addr(ev.BDADDR())
	handle := ev.ConnectionHandle()
	status := hci.ErrCommand(ev.Status())

	if hci.LinkType(ev.LinkType()) != hci.LinkTypeACL {
		m.scoComplete(status, handle, addr)
		return
	}

	req := m.inFlightFor(addr)
	defer m.tryCreateConnection()

	if status != hci.ErrSuccess {
		if req != nil {
			m.clearInFlight()
			if req.superseded {
				m.Debugf("outbound attempt to %v ended: %v", addr, status)
				return
			}
		}
		m.connectionFailed(req, addr, status)
		return
	}

	wasInbound := m.inbound[addr]
	delete(m.inbound, addr)
	switch {
	case req != nil && wasInbound:
		// the slot stays busy until the outbound attempt completes
		req.superseded = true
	case req != nil:
		m.clearInFlight()
	}

	if req != nil && (req.timedOut || req.canceled) && !wasInbound && !req.superseded {
		m.Warnf("connection to %v completed after cancel, disconnecting", addr)
		m.sendDisconnect(handle, hci.ErrRemoteUser)
		if pending, ok := m.requests[addr]; ok {
			m.failRequest(pending, errors.Wrapf(bthost.ErrTimedOut, "connect to %v", addr))
		}
		return
	}
	if old := m.connByAddr(addr); old != nil {
		m.Warnf("second link to %v, disconnecting 0x%04x", addr, handle)
		m.sendDisconnect(handle, hci.ErrConnExists)
		return
	}
	if _, ok := m.connections[handle]; ok {
		panic(fmt.Sprintf("bredr: connection handle 0x%04x reused", handle))
	}

	role := uint8(hci.RoleMaster)
	if req == nil || wasInbound {
		role = m.cfg.acceptRole
	}
	p := m.cache.NewPeer(addr)
	c := newConnection(p.ID(), addr, handle, role, m.Logger)
	if pending, ok := m.requests[addr]; ok {
		delete(m.requests, addr)
		c.connectCallbacks = pending.callbacks
		pending.callbacks = nil
	}
	m.connections[handle] = c
	p.SetConnectionState(peer.Initializing)
	c.Infof("connected, role %d", role)

	id := c.peerID
	m.l2.AddACLConnection(handle, role, func() {
		m.Disconnect(id, ReasonAclLinkError)
	}, m.upgradeSecurity)

	m.interrogate(c, p)
}

// connectionFailed resolves a failed Connection Complete. A failure that
// lost a race to another link for the same peer is not an error.
func (m *ConnectionManager) connectionFailed(req *connectionRequest, addr bthost.Addr, status hci.ErrCommand) {
	if req == nil {
		delete(m.inbound, addr)
	}
	if c := m.connByAddr(addr); c != nil {
		m.Debugf("connection complete for %v ignored, already connected: %v", addr, status)
		return
	}
	if m.inbound[addr] {
		m.Debugf("outbound connection to %v yields to inbound: %v", addr, status)
		return
	}

	pending, ok := m.requests[addr]
	if !ok {
		if p := m.cache.FindByAddr(addr); p != nil {
			p.SetConnectionState(peer.NotConnected)
		}
		m.Infof("connection with %v failed: %v", addr, status)
		return
	}
	err := errors.Wrapf(status, "connect to %v", addr)
	if pending.timedOut {
		err = errors.Wrapf(bthost.ErrTimedOut, "connect to %v", addr)
	}
	m.failRequest(pending, err)
}

func (m *ConnectionManager) interrogate(c *Connection, p *peer.Peer) {
	c.interrogation = newInterrogator(m.cmd, c, p, func(err error) {
		m.interrogationDone(c, err)
	})
	if m.cfg.interrogationTimeout > 0 {
		c.interrogationTimer = m.d.PostAfter(m.cfg.interrogationTimeout, func() {
			c.interrogationTimer = nil
			c.interrogation.abort(errors.Wrap(bthost.ErrTimedOut, "interrogation"))
		})
	}
	c.interrogation.start()
}

func (m *ConnectionManager) interrogationDone(c *Connection, err error) {
	if c.interrogationTimer != nil {
		c.interrogationTimer.Cancel()
		c.interrogationTimer = nil
	}
	if m.connections[c.handle] != c || c.disconnecting {
		return
	}
	if err != nil {
		c.Warnf("interrogation failed: %v", err)
		c.resolveConnect(err)
		m.runPendingOpens(c, err)
		m.disconnect(c, ReasonInterrogationFailed)
		return
	}
	c.interrogated = true
	c.Debugf("interrogation complete")
	m.maybeReady(c)
}

// maybeReady marks the connection usable once interrogation and pairing
// have both finished.
func (m *ConnectionManager) maybeReady(c *Connection) {
	if c.ready || !c.interrogated || c.pairingActive() || c.disconnecting {
		return
	}
	c.ready = true
	if p := m.cache.FindByID(c.peerID); p != nil {
		p.SetConnectionState(peer.Connected)
	}
	c.Infof("ready")

	c.resolveConnect(nil)
	deferred := c.deferred
	c.deferred = nil
	for _, fn := range deferred {
		fn()
	}
	m.runPendingOpens(c, nil)
}

// Disconnect tears down the peer's link and cancels any pending outbound
// request. A disconnect through the API starts the inbound cooldown. It
// returns false for an unknown peer.
func (m *ConnectionManager) Disconnect(id bthost.PeerID, reason DisconnectReason) bool {
	p := m.cache.FindByID(id)
	if p == nil {
		return false
	}
	addr := p.Addr()
	if reason == ReasonApiRequest {
		m.startCooldown(addr)
	}
	if req, ok := m.requests[addr]; ok {
		m.cancelRequest(req)
	}
	if c := m.connByAddr(addr); c != nil {
		m.disconnect(c, reason)
	}
	return true
}

func (m *ConnectionManager) cancelRequest(req *connectionRequest) {
	req.canceled = true
	if m.inFlight == req {
		m.cmd.SendCommand(&cmd.CreateConnectionCancel{BDADDR: req.addr}, nil)
	}
	m.failRequest(req, errors.Wrapf(bthost.ErrCanceled, "connect to %v", req.addr))
}

func (m *ConnectionManager) startCooldown(addr bthost.Addr) {
	if t, ok := m.cooldown[addr]; ok {
		t.Cancel()
		delete(m.cooldown, addr)
	}
	if m.cfg.cooldown == 0 {
		return
	}
	m.cooldown[addr] = m.d.PostAfter(m.cfg.cooldown, func() {
		delete(m.cooldown, addr)
	})
}

// disconnect removes synchronous links first; the ACL link follows when the
// last of them is gone.
func (m *ConnectionManager) disconnect(c *Connection, reason DisconnectReason) {
	if c.disconnecting {
		return
	}
	c.disconnecting = true
	c.disconnectReason = hci.ErrRemoteUser
	if reason == ReasonPairingFailed {
		c.disconnectReason = hci.ErrAuthFailure
	}
	c.Infof("disconnecting: %v", reason)

	if len(c.sco) == 0 {
		m.sendDisconnect(c.handle, c.disconnectReason)
		return
	}
	handles := make([]int, 0, len(c.sco))
	for h := range c.sco {
		handles = append(handles, int(h))
	}
	sort.Ints(handles)
	for _, h := range handles {
		m.sendDisconnect(uint16(h), c.disconnectReason)
	}
}

func (m *ConnectionManager) sendDisconnect(handle uint16, reason hci.ErrCommand) {
	m.cmd.SendCommand(&cmd.Disconnect{ConnectionHandle: handle, Reason: uint8(reason)}, func(e hci.Event) {
		if err := e.Err(); err != nil {
			m.Warnf("disconnect 0x%04x: %v", handle, err)
		}
	})
}

func (m *ConnectionManager) handleDisconnectionComplete(e hci.Event) {
	ev := evt.DisconnectionComplete(e.Params)
	if !ev.Valid() {
		m.Warnf("malformed disconnection complete [%x]", e.Params)
		return
	}
	handle := ev.ConnectionHandle()
	if status := hci.ErrCommand(ev.Status()); status != hci.ErrSuccess {
		m.Warnf("disconnect of 0x%04x failed: %v", handle, status)
		return
	}

	if c, ok := m.scoOwner[handle]; ok {
		delete(m.scoOwner, handle)
		delete(c.sco, handle)
		c.Debugf("sco 0x%04x disconnected", handle)
		if c.disconnecting && len(c.sco) == 0 {
			m.sendDisconnect(c.handle, c.disconnectReason)
		}
		return
	}

	c, ok := m.connections[handle]
	if !ok {
		m.Debugf("disconnection of unknown handle 0x%04x", handle)
		return
	}
	m.connectionClosed(c, hci.ErrCommand(ev.Reason()))
}

func (m *ConnectionManager) connectionClosed(c *Connection, reason hci.ErrCommand) {
	delete(m.connections, c.handle)
	for h := range c.sco {
		delete(m.scoOwner, h)
	}
	c.stopTimers()
	if c.interrogation != nil {
		c.interrogation.finished = true
	}
	m.l2.RemoveConnection(c.handle)

	p := m.cache.FindByID(c.peerID)
	if p == nil {
		panic(fmt.Sprintf("bredr: disconnection of %v whose peer left the cache", c))
	}
	p.SetConnectionState(peer.NotConnected)
	c.Infof("disconnected: %v", reason)

	err := errors.Wrapf(bthost.ErrLinkDisconnected, "%v", reason)
	c.disconnecting = true
	if c.pairingActive() {
		m.finishPairing(c, err)
	}
	c.resolveConnect(err)
	m.runPendingOpens(c, err)
	c.deferred = nil

	// a Connect made while the link was going down
	if _, ok := m.requests[c.addr]; ok {
		p.SetConnectionState(peer.Initializing)
		m.queue = append(m.queue, c.addr)
		m.tryCreateConnection()
	}
}

func (m *ConnectionManager) handleSynchronousConnectionComplete(e hci.Event) {
	ev := evt.SynchronousConnectionComplete(e.Params)
	if !ev.Valid() {
		m.Warnf("malformed synchronous connection complete [%x]", e.Params)
		return
	}
	m.scoComplete(hci.ErrCommand(ev.Status()), ev.ConnectionHandle(), bthost.Addr(ev.BDADDR()))
}

func (m *ConnectionManager) scoComplete(status hci.ErrCommand, handle uint16, addr bthost.Addr) {
	if status != hci.ErrSuccess {
		m.Debugf("sco connection with %v failed: %v", addr, status)
		return
	}
	c := m.connByAddr(addr)
	if c == nil {
		m.Warnf("sco 0x%04x with %v which has no acl link", handle, addr)
		return
	}
	c.sco[handle] = true
	m.scoOwner[handle] = c
	c.Debugf("sco 0x%04x connected", handle)
	if c.disconnecting {
		m.sendDisconnect(handle, c.disconnectReason)
	}
}

func (m *ConnectionManager) handleRoleChange(e hci.Event) {
	ev := evt.RoleChange(e.Params)
	if !ev.Valid() {
		m.Warnf("malformed role change [%x]", e.Params)
		return
	}
	addr := bthost.Addr(ev.BDADDR())
	c := m.connByAddr(addr)
	if c == nil {
		m.Debugf("role change for %v without a connection", addr)
		return
	}
	if status := hci.ErrCommand(ev.Status()); status != hci.ErrSuccess {
		c.Warnf("role change failed: %v", status)
		return
	}
	c.role = ev.NewRole()
	c.Infof("role changed to %d", c.role)
}

func (m *ConnectionManager) handleRemoteNameRequestComplete(e hci.Event) {
	ev := evt.RemoteNameRequestComplete(e.Params)
	if !ev.Valid() {
		return
	}
	if c := m.connByAddr(bthost.Addr(ev.BDADDR())); c != nil && c.interrogation != nil {
		c.interrogation.onName(ev)
	}
}

func (m *ConnectionManager) handleReadRemoteVersionInformationComplete(e hci.Event) {
	ev := evt.ReadRemoteVersionInformationComplete(e.Params)
	if !ev.Valid() {
		return
	}
	if c, ok := m.connections[ev.ConnectionHandle()]; ok && c.interrogation != nil {
		c.interrogation.onVersion(ev)
	}
}

func (m *ConnectionManager) handleReadRemoteSupportedFeaturesComplete(e hci.Event) {
	ev := evt.ReadRemoteSupportedFeaturesComplete(e.Params)
	if !ev.Valid() {
		return
	}
	if c, ok := m.connections[ev.ConnectionHandle()]; ok && c.interrogation != nil {
		c.interrogation.onFeatures(ev)
	}
}

func (m *ConnectionManager) handleReadRemoteExtendedFeaturesComplete(e hci.Event) {
	ev := evt.ReadRemoteExtendedFeaturesComplete(e.Params)
	if !ev.Valid() {
		return
	}
	if c, ok := m.connections[ev.ConnectionHandle()]; ok && c.interrogation != nil {
		c.interrogation.onExtendedFeatures(ev)
	}
}
