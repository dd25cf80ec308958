package l2cap

import (
	"fmt"
	"time"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/sm"
)

// maxBufferedACL bounds packets held for a handle that is not registered yet.
const maxBufferedACL = 32

// Option configures a ChannelManager.
type Option func(*ChannelManager) error

// OptRandomChannelIDs allocates dynamic channel ids at random instead of
// lowest first.
func OptRandomChannelIDs(random bool) Option {
	return func(m *ChannelManager) error {
		m.cfg.randomIDs = random
		return nil
	}
}

// OptSignalingTimeouts overrides the RTX and ERTX timers.
func OptSignalingTimeouts(rtx, ertx time.Duration) Option {
	return func(m *ChannelManager) error {
		if rtx <= 0 || ertx <= 0 {
			return fmt.Errorf("invalid signaling timeouts %v/%v", rtx, ertx)
		}
		m.cfg.rtx = rtx
		m.cfg.ertx = ertx
		return nil
	}
}

// OptLEConnParamResponder decides on connection parameter update requests
// received as LE central. Without one every valid request is accepted.
func OptLEConnParamResponder(fn func(handle uint16, p ConnectionParameters) bool) Option {
	return func(m *ChannelManager) error {
		m.cfg.connParamResponder = fn
		return nil
	}
}

// LEFixedChannels are the channels present on every LE link.
type LEFixedChannels struct {
	ATT *Channel
	SMP *Channel
}

// ChannelManager owns the logical links of a controller and routes inbound
// data and channel requests to them.
type ChannelManager struct {
	d   dispatch.Dispatcher
	acl hci.ACLDataChannel
	cfg linkConfig

	links    map[uint16]*LogicalLink
	services map[PSM]ServiceInfo
	pending  map[uint16][]hci.ACLPacket

	// handles whose link was removed and not added again
	removed map[uint16]bool

	bthost.Logger
}

// NewChannelManager takes over inbound data from acl.
func NewChannelManager(d dispatch.Dispatcher, acl hci.ACLDataChannel, opts ...Option) (*ChannelManager, error) {
	m := &ChannelManager{
		d:        d,
		acl:      acl,
		links:    make(map[uint16]*LogicalLink),
		services: make(map[PSM]ServiceInfo),
		pending:  make(map[uint16][]hci.ACLPacket),
		removed:  make(map[uint16]bool),
		Logger:   bthost.GetLogger().ChildLogger(map[string]interface{}{"component": "l2cap"}),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	acl.SetDataRxHandler(m.handleACL)
	return m, nil
}

func (m *ChannelManager) handleACL(p hci.ACLPacket) {
	if !p.Valid() {
		m.Warnf("dropping malformed acl packet [%x]", []byte(p))
		return
	}
	h := p.Handle()
	if l, ok := m.links[h]; ok {
		l.receive(p)
		return
	}
	if m.removed[h] {
		m.Debugf("dropping acl for removed handle 0x%04x", h)
		return
	}
	// data can overtake the connection complete event
	q := m.pending[h]
	if len(q) >= maxBufferedACL {
		m.Warnf("dropping acl for unknown handle 0x%04x, %d buffered", h, len(q))
		return
	}
	m.pending[h] = append(q, p)
}

func (m *ChannelManager) addLink(handle uint16, lt hci.LinkType, role uint8, linkError func(), security SecurityUpgradeCallback) *LogicalLink {
	if _, ok := m.links[handle]; ok {
		panic(fmt.Sprintf("l2cap: handle 0x%04x registered twice", handle))
	}
	delete(m.removed, handle)
	m.acl.RegisterLink(handle, lt)
	l := newLogicalLink(m.d, m.acl, handle, lt, role, m.service, m.cfg)
	l.linkError = linkError
	l.securityUpgrade = security
	m.links[handle] = l
	return l
}

func (m *ChannelManager) replayPending(l *LogicalLink) {
	q := m.pending[l.handle]
	delete(m.pending, l.handle)
	for _, p := range q {
		l.receive(p)
	}
}

// AddACLConnection registers a BR/EDR link. Registering a handle twice
// without RemoveConnection panics.
func (m *ChannelManager) AddACLConnection(handle uint16, role uint8, linkError func(), security SecurityUpgradeCallback) {
	l := m.addLink(handle, hci.LinkTypeACL, role, linkError, security)
	m.Infof("acl link 0x%04x added, role %d", handle, role)
	l.start()
	m.replayPending(l)
}

// AddLEConnection registers an LE link and returns its fixed channels.
// connParams receives parameters accepted as central.
func (m *ChannelManager) AddLEConnection(handle uint16, role uint8, linkError func(), connParams func(ConnectionParameters), security SecurityUpgradeCallback) LEFixedChannels {
	l := m.addLink(handle, hci.LinkTypeLE, role, linkError, security)
	l.connParamUpdate = connParams
	m.Infof("le link 0x%04x added, role %d", handle, role)

	fixed := LEFixedChannels{
		ATT: l.openFixedChannel(ATTChannelID),
		SMP: l.openFixedChannel(LESMPChannelID),
	}
	m.replayPending(l)
	return fixed
}

// RemoveConnection closes every channel of the link and forgets it. Call it
// after the controller reports the disconnection. Data for handle is dropped
// until the handle is added again.
func (m *ChannelManager) RemoveConnection(handle uint16) {
	delete(m.pending, handle)
	l, ok := m.links[handle]
	if !ok {
		m.Debugf("remove of unknown handle 0x%04x", handle)
		return
	}
	m.removed[handle] = true
	delete(m.links, handle)
	m.acl.UnregisterLink(handle)
	m.Infof("link 0x%04x removed", handle)
	l.close()
}

// Link returns the logical link for handle.
func (m *ChannelManager) Link(handle uint16) (*LogicalLink, bool) {
	l, ok := m.links[handle]
	return l, ok
}

// AssignLinkSecurityProperties records the security of a link.
func (m *ChannelManager) AssignLinkSecurityProperties(handle uint16, p sm.SecurityProperties) {
	if l, ok := m.links[handle]; ok {
		l.AssignSecurity(p)
	}
}

// OpenL2capChannel opens a dynamic channel on a BR/EDR link. cb receives
// nil on failure, including for an unknown handle.
func (m *ChannelManager) OpenL2capChannel(handle uint16, psm PSM, params ChannelParameters, cb ChannelCallback) {
	l, ok := m.links[handle]
	if !ok {
		m.Debugf("open of psm %v on unknown handle 0x%04x", psm, handle)
		m.d.Post(func() { cb(nil) })
		return
	}
	if l.linkType == hci.LinkTypeLE {
		l.openLECreditChannel(psm, params, cb)
		return
	}
	l.openOutbound(psm, params, cb)
}

// OpenLECreditChannel opens an LE credit based channel.
func (m *ChannelManager) OpenLECreditChannel(handle uint16, psm PSM, params ChannelParameters, cb ChannelCallback) {
	l, ok := m.links[handle]
	if !ok {
		m.d.Post(func() { cb(nil) })
		return
	}
	l.openLECreditChannel(psm, params, cb)
}

// OpenFixedChannel returns a fixed channel of a link, or nil.
func (m *ChannelManager) OpenFixedChannel(handle uint16, cid ChannelID) *Channel {
	l, ok := m.links[handle]
	if !ok {
		return nil
	}
	return l.openFixedChannel(cid)
}

// RequestConnectionParameterUpdate asks the central for new parameters on
// an LE link where the local device is peripheral.
func (m *ChannelManager) RequestConnectionParameterUpdate(handle uint16, p ConnectionParameters, cb func(accepted bool)) {
	l, ok := m.links[handle]
	if !ok {
		m.d.Post(func() { cb(false) })
		return
	}
	l.requestConnParamUpdate(p, cb)
}

// RegisterService routes inbound channels for psm to cb. It returns false
// when psm already has a handler.
func (m *ChannelManager) RegisterService(psm PSM, params ChannelParameters, cb ChannelCallback) bool {
	if _, ok := m.services[psm]; ok {
		return false
	}
	m.services[psm] = ServiceInfo{Params: params, Callback: cb}
	m.Debugf("service registered on psm %v", psm)
	return true
}

// UnregisterService stops routing psm. Open channels are not affected.
func (m *ChannelManager) UnregisterService(psm PSM) {
	delete(m.services, psm)
}

func (m *ChannelManager) service(psm PSM) (ServiceInfo, bool) {
	s, ok := m.services[psm]
	return s, ok
}
