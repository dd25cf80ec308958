package bredr

import (
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/l2cap"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/hci/cmd"
	"github.com/rigado/bthost/linux/hci/evt"
	"github.com/rigado/bthost/sm"
)

const maxPasskey = 999999

// pairingState follows one authentication of a link, local or peer
// initiated, up to an encrypted link with an acceptable key size.
type pairingState struct {
	active    bool
	initiator bool
	upgraded  bool
	reqs      sm.BrEdrSecurityRequirements

	localIOCap    sm.IOCapability
	peerIOCap     sm.IOCapability
	havePeerIOCap bool

	callbacks []func(error)
	timer     dispatch.Task
}

func (ps *pairingState) stopTimer() {
	if ps.timer != nil {
		ps.timer.Cancel()
		ps.timer = nil
	}
}

func mergeRequirements(a, b sm.BrEdrSecurityRequirements) sm.BrEdrSecurityRequirements {
	return sm.BrEdrSecurityRequirements{
		Authentication:    a.Authentication || b.Authentication,
		SecureConnections: a.SecureConnections || b.SecureConnections,
	}
}

// Pair raises the security of the peer's link to reqs, pairing if the
// current key cannot provide it. cb receives nil once the link is encrypted
// and meets reqs.
func (m *ConnectionManager) Pair(id bthost.PeerID, reqs sm.BrEdrSecurityRequirements, cb func(error)) {
	c := m.connByPeer(id)
	if c == nil || c.disconnecting {
		m.d.Post(func() { cb(errors.Wrapf(bthost.ErrNotFound, "no connection to %v", id)) })
		return
	}
	m.pair(c, reqs, cb)
}

func (m *ConnectionManager) secure(c *Connection, reqs sm.BrEdrSecurityRequirements) bool {
	return c.security.Level >= sm.Encrypted && c.security.Satisfies(reqs)
}

func (m *ConnectionManager) pair(c *Connection, reqs sm.BrEdrSecurityRequirements, cb func(error)) {
	if !c.pairingActive() && m.secure(c, reqs) {
		if cb != nil {
			m.d.Post(func() { cb(nil) })
		}
		return
	}
	if c.pairing == nil {
		c.pairing = &pairingState{}
	}
	ps := c.pairing
	if cb != nil {
		ps.callbacks = append(ps.callbacks, cb)
	}
	ps.reqs = mergeRequirements(ps.reqs, reqs)
	if ps.active {
		return
	}
	m.startPairing(c, true)
}

func (m *ConnectionManager) startPairing(c *Connection, initiator bool) {
	if c.pairing == nil {
		c.pairing = &pairingState{}
	}
	ps := c.pairing
	ps.active = true
	ps.initiator = initiator
	ps.stopTimer()
	ps.timer = m.d.PostAfter(m.cfg.pairingTimeout, func() {
		ps.timer = nil
		m.pairingFailed(c, errors.Wrap(bthost.ErrTimedOut, "pairing"))
	})
	c.Infof("pairing started, initiator %v, requirements %+v", initiator, ps.reqs)
	if initiator {
		m.authenticate(c)
	}
}

func (m *ConnectionManager) authenticate(c *Connection) {
	m.cmd.SendCommand(&cmd.AuthenticationRequested{ConnectionHandle: c.handle}, func(e hci.Event) {
		if err := e.Err(); err != nil {
			m.pairingFailed(c, errors.Wrap(err, "authentication requested"))
		}
	})
}

// upgradeSecurity serves L2CAP requests to raise a link's security.
func (m *ConnectionManager) upgradeSecurity(handle uint16, level sm.SecurityLevel, cb func(error)) {
	c, ok := m.connections[handle]
	if !ok || c.disconnecting {
		m.d.Post(func() { cb(errors.Wrapf(bthost.ErrLinkDisconnected, "handle 0x%04x", handle)) })
		return
	}
	if level == sm.NoSecurity {
		m.d.Post(func() { cb(nil) })
		return
	}
	m.pair(c, sm.RequirementsForLevel(level), cb)
}

// pairingConn returns the connection an address based pairing event is
// about, starting a peer initiated pairing when none is running.
func (m *ConnectionManager) pairingConn(addr bthost.Addr) *Connection {
	c := m.connByAddr(addr)
	if c == nil || c.disconnecting {
		return nil
	}
	if !c.pairingActive() {
		m.startPairing(c, false)
	}
	return c
}

func (m *ConnectionManager) handleLinkKeyRequest(e hci.Event) {
	ev := evt.LinkKeyRequest(e.Params)
	if !ev.Valid() {
		return
	}
	addr := bthost.Addr(ev.BDADDR())

	p := m.cache.FindByAddr(addr)
	if p == nil {
		m.cmd.SendCommand(&cmd.LinkKeyRequestNegativeReply{BDADDR: addr}, nil)
		return
	}
	lk, ok := p.LinkKey()
	if ok && lk.Security.Level == sm.NoSecurity {
		ok = false
	}
	if c := m.connByAddr(addr); ok && c != nil && c.pairingActive() && !lk.Security.Satisfies(c.pairing.reqs) {
		c.Infof("bonded key %v does not meet %+v, pairing again", lk.Security, c.pairing.reqs)
		ok = false
	}
	if !ok {
		m.cmd.SendCommand(&cmd.LinkKeyRequestNegativeReply{BDADDR: addr}, nil)
		return
	}
	m.cmd.SendCommand(&cmd.LinkKeyRequestReply{BDADDR: addr, LinkKey: lk.Value}, nil)
}

func (m *ConnectionManager) handleIOCapabilityRequest(e hci.Event) {
	ev := evt.IOCapabilityRequest(e.Params)
	if !ev.Valid() {
		return
	}
	addr := bthost.Addr(ev.BDADDR())
	c := m.pairingConn(addr)
	d := m.cfg.delegate
	if c == nil || d == nil {
		m.cmd.SendCommand(&cmd.IOCapabilityRequestNegativeReply{
			BDADDR: addr,
			Reason: uint8(hci.ErrPairingNotAllowed),
		}, nil)
		if c != nil {
			m.pairingFailed(c, errors.Wrap(hci.ErrPairingNotAllowed, "no pairing delegate"))
		}
		return
	}

	ps := c.pairing
	ps.localIOCap = d.IOCapability()
	var authReq uint8
	switch {
	case ps.havePeerIOCap:
		authReq = sm.AuthenticationRequirements(ps.localIOCap, ps.peerIOCap)
	case ps.localIOCap == sm.IOCapabilityNoInputNoOutput:
		authReq = sm.AuthReqMITMNotRequiredGeneralBonding
	default:
		authReq = sm.AuthReqMITMRequiredGeneralBonding
	}
	m.cmd.SendCommand(&cmd.IOCapabilityRequestReply{
		BDADDR:                     addr,
		IOCapability:               uint8(ps.localIOCap),
		AuthenticationRequirements: authReq,
	}, nil)
}

func (m *ConnectionManager) handleIOCapabilityResponse(e hci.Event) {
	ev := evt.IOCapabilityResponse(e.Params)
	if !ev.Valid() {
		return
	}
	c := m.pairingConn(bthost.Addr(ev.BDADDR()))
	if c == nil {
		return
	}
	c.pairing.peerIOCap = sm.IOCapability(ev.IOCapability())
	c.pairing.havePeerIOCap = true
	c.Debugf("peer io capability %d, auth requirements 0x%02x", ev.IOCapability(), ev.AuthenticationRequirements())
}

// confirmer returns a reply function the delegate may call from any
// goroutine.
func (m *ConnectionManager) confirmer(c *Connection) func(bool) {
	addr := c.addr
	return func(ok bool) {
		m.d.Post(func() {
			if m.connections[c.handle] != c || !c.pairingActive() {
				return
			}
			if ok {
				m.cmd.SendCommand(&cmd.UserConfirmationRequestReply{BDADDR: addr}, nil)
				return
			}
			m.cmd.SendCommand(&cmd.UserConfirmationRequestNegativeReply{BDADDR: addr}, nil)
		})
	}
}

func (m *ConnectionManager) handleUserConfirmationRequest(e hci.Event) {
	ev := evt.UserConfirmationRequest(e.Params)
	if !ev.Valid() {
		return
	}
	addr := bthost.Addr(ev.BDADDR())
	c := m.pairingConn(addr)
	d := m.cfg.delegate
	if c == nil || d == nil {
		m.cmd.SendCommand(&cmd.UserConfirmationRequestNegativeReply{BDADDR: addr}, nil)
		return
	}

	ps := c.pairing
	peerCap := sm.IOCapabilityNoInputNoOutput
	if ps.havePeerIOCap {
		peerCap = ps.peerIOCap
	}
	confirm := m.confirmer(c)
	switch sm.PairingMethodFor(ps.localIOCap, peerCap) {
	case sm.JustWorks:
		if ps.initiator {
			confirm(true)
			return
		}
		d.ConfirmPairing(c.peerID, confirm)
	default:
		d.DisplayPasskey(c.peerID, ev.NumericValue(), sm.DisplayComparison, confirm)
	}
}

func (m *ConnectionManager) handleUserPasskeyRequest(e hci.Event) {
	ev := evt.UserPasskeyRequest(e.Params)
	if !ev.Valid() {
		return
	}
	addr := bthost.Addr(ev.BDADDR())
	c := m.pairingConn(addr)
	d := m.cfg.delegate
	if c == nil || d == nil {
		m.cmd.SendCommand(&cmd.UserPasskeyRequestNegativeReply{BDADDR: addr}, nil)
		return
	}
	d.RequestPasskey(c.peerID, func(passkey int64) {
		m.d.Post(func() {
			if m.connections[c.handle] != c || !c.pairingActive() {
				return
			}
			if passkey < 0 || passkey > maxPasskey {
				m.cmd.SendCommand(&cmd.UserPasskeyRequestNegativeReply{BDADDR: addr}, nil)
				return
			}
			m.cmd.SendCommand(&cmd.UserPasskeyRequestReply{BDADDR: addr, NumericValue: uint32(passkey)}, nil)
		})
	})
}

func (m *ConnectionManager) handleUserPasskeyNotification(e hci.Event) {
	ev := evt.UserPasskeyNotification(e.Params)
	if !ev.Valid() {
		return
	}
	c := m.pairingConn(bthost.Addr(ev.BDADDR()))
	if c == nil || m.cfg.delegate == nil {
		return
	}
	m.cfg.delegate.DisplayPasskey(c.peerID, ev.Passkey(), sm.DisplayPeerEntry, func(bool) {})
}

func (m *ConnectionManager) handleSimplePairingComplete(e hci.Event) {
	ev := evt.SimplePairingComplete(e.Params)
	if !ev.Valid() {
		return
	}
	c := m.connByAddr(bthost.Addr(ev.BDADDR()))
	if c == nil {
		return
	}
	if s := hci.ErrCommand(ev.Status()); s != hci.ErrSuccess {
		m.pairingFailed(c, errors.Wrap(s, "simple pairing"))
	}
}

func (m *ConnectionManager) handleLinkKeyNotification(e hci.Event) {
	ev := evt.LinkKeyNotification(e.Params)
	if !ev.Valid() {
		return
	}
	addr := bthost.Addr(ev.BDADDR())
	p := m.cache.FindByAddr(addr)
	if p == nil {
		m.Warnf("link key for unknown peer %v", addr)
		return
	}

	t := hci.LinkKeyType(ev.KeyType())
	if old, ok := p.LinkKey(); ok && t == hci.LinkKeyChangedCombination {
		t = old.Type
	}
	lk := sm.NewLinkKey(ev.LinkKey(), t)
	if lk.Security.Level == sm.NoSecurity {
		m.Warnf("refusing link key type 0x%02x from %v", uint8(t), addr)
		if c := m.connByAddr(addr); c != nil {
			m.pairingFailed(c, errors.Wrapf(bthost.ErrInsufficientSecurity, "link key type 0x%02x", uint8(t)))
		}
		return
	}
	if err := p.StoreLinkKey(lk); err != nil {
		m.Errorf("storing link key of %v: %v", addr, err)
	}
	m.Infof("bonded with %v: %v", addr, lk.Security)
}

func (m *ConnectionManager) handleAuthenticationComplete(e hci.Event) {
	ev := evt.AuthenticationComplete(e.Params)
	if !ev.Valid() {
		return
	}
	c, ok := m.connections[ev.ConnectionHandle()]
	if !ok {
		return
	}
	if s := hci.ErrCommand(ev.Status()); s != hci.ErrSuccess {
		if s == hci.ErrKeyMissing {
			// the peer lost its bond
			if p := m.cache.FindByID(c.peerID); p != nil {
				if err := p.ClearBond(); err != nil {
					c.Warnf("clearing bond: %v", err)
				}
			}
		}
		m.pairingFailed(c, errors.Wrap(s, "authentication"))
		return
	}
	if c.security.Level >= sm.Encrypted {
		m.readKeySize(c)
		return
	}
	m.cmd.SendCommand(&cmd.SetConnectionEncryption{ConnectionHandle: c.handle, EncryptionEnable: 0x01}, func(e hci.Event) {
		if err := e.Err(); err != nil {
			m.pairingFailed(c, errors.Wrap(err, "set connection encryption"))
		}
	})
}

func (m *ConnectionManager) handleEncryptionChange(e hci.Event) {
	ev := evt.EncryptionChange(e.Params)
	if !ev.Valid() {
		return
	}
	c, ok := m.connections[ev.ConnectionHandle()]
	if !ok {
		return
	}
	if s := hci.ErrCommand(ev.Status()); s != hci.ErrSuccess {
		c.Warnf("encryption change failed: %v", s)
		if c.pairingActive() {
			m.pairingFailed(c, errors.Wrap(s, "encryption change"))
		}
		return
	}
	if ev.EncryptionEnabled() == 0 {
		c.Warnf("encryption turned off")
		c.security = sm.SecurityProperties{}
		m.l2.AssignLinkSecurityProperties(c.handle, c.security)
		if c.pairingActive() {
			m.pairingFailed(c, errors.Wrap(bthost.ErrInsufficientSecurity, "encryption turned off"))
		}
		return
	}
	m.readKeySize(c)
}

func (m *ConnectionManager) handleEncryptionKeyRefreshComplete(e hci.Event) {
	ev := evt.EncryptionKeyRefreshComplete(e.Params)
	if !ev.Valid() {
		return
	}
	c, ok := m.connections[ev.ConnectionHandle()]
	if !ok || hci.ErrCommand(ev.Status()) != hci.ErrSuccess {
		return
	}
	m.readKeySize(c)
}

func (m *ConnectionManager) readKeySize(c *Connection) {
	m.cmd.SendCommand(&cmd.ReadEncryptionKeySize{ConnectionHandle: c.handle}, func(e hci.Event) {
		if m.connections[c.handle] != c {
			return
		}
		var rp cmd.ReadEncryptionKeySizeRP
		if err := e.Unmarshal(&rp); err != nil {
			err = errors.Wrap(err, "read encryption key size")
			if c.pairingActive() {
				m.pairingFailed(c, err)
				return
			}
			c.Warnf("%v", err)
			m.disconnect(c, ReasonPairingFailed)
			return
		}
		m.encrypted(c, int(rp.KeySize))
	})
}

// encrypted records the protection of a newly encrypted link.
func (m *ConnectionManager) encrypted(c *Connection, keySize int) {
	if keySize < m.cfg.minKeySize {
		err := errors.Wrapf(bthost.ErrInsufficientSecurity, "encryption key size %d below %d", keySize, m.cfg.minKeySize)
		if c.pairingActive() {
			m.pairingFailed(c, err)
			return
		}
		c.Warnf("%v", err)
		m.disconnect(c, ReasonPairingFailed)
		return
	}

	props := sm.SecurityProperties{Level: sm.Encrypted}
	if p := m.cache.FindByID(c.peerID); p != nil {
		if lk, ok := p.LinkKey(); ok {
			props = lk.Security
		}
	}
	props.EncKeySize = keySize
	c.security = props
	m.l2.AssignLinkSecurityProperties(c.handle, props)
	c.Infof("encrypted: %v", props)

	if c.pairingActive() {
		m.pairingDone(c)
	}
}

// pairingDone checks the result against what was asked for. A key that
// falls short is replaced by pairing once more; a second shortfall fails.
func (m *ConnectionManager) pairingDone(c *Connection) {
	ps := c.pairing
	if c.security.Satisfies(ps.reqs) {
		m.finishPairing(c, nil)
		return
	}
	if ps.upgraded {
		m.pairingFailed(c, errors.Wrapf(bthost.ErrInsufficientSecurity, "%v does not meet %+v", c.security, ps.reqs))
		return
	}
	ps.upgraded = true
	ps.initiator = true
	ps.havePeerIOCap = false
	c.Infof("%v does not meet %+v, upgrading link key", c.security, ps.reqs)
	m.authenticate(c)
}

func (m *ConnectionManager) finishPairing(c *Connection, err error) {
	ps := c.pairing
	ps.stopTimer()
	ps.active = false
	ps.upgraded = false
	ps.havePeerIOCap = false
	ps.reqs = sm.BrEdrSecurityRequirements{}
	cbs := ps.callbacks
	ps.callbacks = nil

	if err == nil {
		c.Infof("pairing complete")
	}
	if d := m.cfg.delegate; d != nil {
		d.CompletePairing(c.peerID, err)
	}
	for _, cb := range cbs {
		cb(err)
	}
	m.runPendingOpens(c, err)
	if err == nil {
		m.maybeReady(c)
	}
}

// pairingFailed reports err to everyone waiting on the link and drops it.
func (m *ConnectionManager) pairingFailed(c *Connection, err error) {
	if m.connections[c.handle] != c {
		return
	}
	c.Warnf("pairing failed: %v", err)
	if c.pairingActive() {
		m.finishPairing(c, err)
	}
	if !c.ready {
		c.resolveConnect(err)
	}
	m.disconnect(c, ReasonPairingFailed)
}

// OpenL2capChannel opens a channel to psm on the peer's link once the link
// is ready and meets reqs, pairing first if needed. cb receives nil on
// failure.
func (m *ConnectionManager) OpenL2capChannel(id bthost.PeerID, psm l2cap.PSM, reqs sm.BrEdrSecurityRequirements, params l2cap.ChannelParameters, cb l2cap.ChannelCallback) {
	c := m.connByPeer(id)
	if c == nil || c.disconnecting {
		m.Debugf("open of psm %v without a connection to %v", psm, id)
		m.d.Post(func() { cb(nil) })
		return
	}
	m.openChannel(c, &openRequest{psm: psm, reqs: reqs, params: params, cb: cb})
}

func (m *ConnectionManager) openChannel(c *Connection, o *openRequest) {
	if !c.ready || c.pairingActive() {
		c.pendingOpens = append(c.pendingOpens, o)
		return
	}
	if c.meets(o.psm, o.reqs) {
		m.l2.OpenL2capChannel(c.handle, o.psm, o.params, o.cb)
		return
	}
	if o.paired {
		c.Warnf("psm %v needs %+v, link has %v", o.psm, o.reqs, c.security)
		o.cb(nil)
		return
	}
	o.paired = true
	c.pendingOpens = append(c.pendingOpens, o)
	m.pair(c, o.reqs, nil)
}

// runPendingOpens retries queued opens, or fails them all with err.
func (m *ConnectionManager) runPendingOpens(c *Connection, err error) {
	opens := c.pendingOpens
	c.pendingOpens = nil
	for _, o := range opens {
		if err != nil {
			o.cb(nil)
			continue
		}
		m.openChannel(c, o)
	}
}

// RegisterService routes inbound channels on psms to cb once the link is
// ready and meets reqs. It registers nothing if any psm is taken.
func (m *ConnectionManager) RegisterService(psms []l2cap.PSM, params l2cap.ChannelParameters, reqs sm.BrEdrSecurityRequirements, cb ServiceCallback) bool {
	for i, psm := range psms {
		psm := psm
		ok := m.l2.RegisterService(psm, params, func(ch *l2cap.Channel) {
			m.inboundChannel(psm, reqs, cb, ch)
		})
		if !ok {
			m.Warnf("psm %v already registered", psm)
			for _, done := range psms[:i] {
				m.l2.UnregisterService(done)
			}
			return false
		}
	}
	return true
}

// UnregisterService stops routing psm. Open channels stay open.
func (m *ConnectionManager) UnregisterService(psm l2cap.PSM) {
	m.l2.UnregisterService(psm)
}

func (m *ConnectionManager) inboundChannel(psm l2cap.PSM, reqs sm.BrEdrSecurityRequirements, cb ServiceCallback, ch *l2cap.Channel) {
	c, ok := m.connections[ch.LinkHandle()]
	if !ok || c.disconnecting {
		ch.Deactivate()
		return
	}
	deliver := func() {
		if c.meets(psm, reqs) {
			cb(c.peerID, ch)
			return
		}
		m.pair(c, reqs, func(err error) {
			if err != nil || !c.meets(psm, reqs) {
				c.Infof("closing inbound psm %v: %v", psm, err)
				ch.Deactivate()
				return
			}
			cb(c.peerID, ch)
		})
	}
	if !c.ready {
		c.deferred = append(c.deferred, deliver)
		return
	}
	deliver()
}
